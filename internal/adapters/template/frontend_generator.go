package template

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

const frontendTemplate = `// Generated by hmdeploy for {{.Contract}} on {{.Network}} (chain {{.ChainID}}).
// ` + "`hmdeploy abi sync`" + ` rewrites the ABI between the markers below.

export const {{.AddressConstant}} = "{{.Address}}";

export const CHAIN_ID = {{.ChainID}};

{{.ABIStartMarker}}{{.ABI}}{{.ABIEndMarker}}
`

// FrontendGeneratorAdapter renders the frontend contract configuration module
type FrontendGeneratorAdapter struct {
	tmpl *template.Template
}

// NewFrontendGeneratorAdapter creates a new frontend generator adapter
func NewFrontendGeneratorAdapter() *FrontendGeneratorAdapter {
	return &FrontendGeneratorAdapter{
		tmpl: template.Must(template.New("frontend").Parse(frontendTemplate)),
	}
}

// Generate renders the module
func (g *FrontendGeneratorAdapter) Generate(ctx context.Context, data usecase.FrontendTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute frontend template: %w", err)
	}
	return buf.String(), nil
}

// Ensure the adapter implements the interface
var _ usecase.FrontendGenerator = (*FrontendGeneratorAdapter)(nil)
