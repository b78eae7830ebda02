package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// NetworksRenderer renders configured networks
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render writes one row per network, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Provider", "RPC"})
	for _, info := range result.Networks {
		marker := " "
		if info.Current {
			marker = okStyle.Sprint("*")
		}
		if info.Error != nil {
			t.AppendRow(table.Row{marker, info.Name, "-", "-", errStyle.Sprintf("%v", info.Error)})
			continue
		}
		provider := info.Network.Provider
		if info.Local {
			provider = "local"
		}
		t.AppendRow(table.Row{marker, info.Name, info.ChainID, provider, mutedStyle.Sprint(redactURL(info.Network.RPCURL))})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
