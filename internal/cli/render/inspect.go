package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// InspectRenderer renders contract state
type InspectRenderer struct {
	out io.Writer
}

// NewInspectRenderer creates a new inspect renderer
func NewInspectRenderer(out io.Writer) *InspectRenderer {
	return &InspectRenderer{out: out}
}

// Render writes one row per getter
func (r *InspectRenderer) Render(result *usecase.InspectResult) error {
	fmt.Fprintf(r.out, "%s at %s on %s %s\n\n",
		nameStyle.Sprint(result.Contract),
		addressStyle.Sprint(result.Address.Hex()),
		result.Network.Name,
		mutedStyle.Sprintf("(%d bytes of code)", result.CodeSize))

	if len(result.Getters) == 0 {
		fmt.Fprintln(r.out, "No getters to read")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"Getter", "Value"})
	for _, g := range result.Getters {
		if g.Err != nil {
			t.AppendRow(table.Row{g.Name, errStyle.Sprintf("error: %v", g.Err)})
			continue
		}
		t.AppendRow(table.Row{g.Name, g.Value})
	}
	fmt.Fprintln(r.out, t.Render())

	if failed := result.Failed(); failed > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d getters failed", failed, len(result.Getters))))
	}
	return nil
}
