package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// UpdateLibraryRenderer renders a library update
type UpdateLibraryRenderer struct {
	out io.Writer
}

// NewUpdateLibraryRenderer creates a new update-library renderer
func NewUpdateLibraryRenderer(out io.Writer) *UpdateLibraryRenderer {
	return &UpdateLibraryRenderer{out: out}
}

// Render writes the before/after values. A nil result renders nothing.
func (r *UpdateLibraryRenderer) Render(result *usecase.UpdateLibraryResult) error {
	if result == nil {
		return nil
	}
	fmt.Fprintf(r.out, "%s %s on %s\n", headerStyle.Sprint("Contract:"), addressStyle.Sprint(result.Contract.Hex()), result.Network.Name)
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Previous:"), result.Previous.Hex())
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Intended:"), result.Library.Hex())
	if result.TxHash != (common.Hash{}) {
		fmt.Fprintf(r.out, "%s %s %s\n", headerStyle.Sprint("Tx:      "), result.TxHash.Hex(), mutedStyle.Sprintf("(block %d)", result.Block))
	}
	fmt.Fprintf(r.out, "%s %s\n\n", headerStyle.Sprint("Current: "), result.Current.Hex())

	if result.Confirmed {
		fmt.Fprintln(r.out, FormatSuccess("Library updated and confirmed"))
	}
	return nil
}
