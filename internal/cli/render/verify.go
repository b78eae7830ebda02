package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// VerifyRenderer renders a source verification result
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render writes the verification status and explorer link
func (r *VerifyRenderer) Render(result *usecase.VerifyResult) error {
	status := "verified"
	if result.Outcome.AlreadyVerified {
		status = "already verified"
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s on %s", result.Address.Hex(), statusLabel(status), result.Network.Name)))
	if result.Outcome.URL != "" {
		fmt.Fprintf(r.out, "   %s\n", result.Outcome.URL)
	}
	return nil
}
