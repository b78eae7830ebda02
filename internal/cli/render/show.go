package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// ShowRenderer renders the deployment record and cached units
type ShowRenderer struct {
	out io.Writer
}

// NewShowRenderer creates a new show renderer
func NewShowRenderer(out io.Writer) *ShowRenderer {
	return &ShowRenderer{out: out}
}

// Render writes the record followed by the per-unit cache of the selected network
func (r *ShowRenderer) Render(result *usecase.ShowDeploymentResult) error {
	if rec := result.Record; rec != nil {
		fmt.Fprintln(r.out, headerStyle.Sprint("Deployment record:"))
		fmt.Fprintf(r.out, "  Network:  %s (chain %d)\n", rec.Network, rec.ChainID)
		fmt.Fprintf(r.out, "  Contract: %s\n", addressStyle.Sprint(rec.ContractAddress.Hex()))
		fmt.Fprintf(r.out, "  Deployer: %s\n", rec.Deployer.Hex())
		fmt.Fprintf(r.out, "  Time:     %s\n", rec.DeploymentTime.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintln(r.out, mutedStyle.Sprint("No deployment record"))
	}
	fmt.Fprintln(r.out)

	if len(result.Cached) == 0 {
		fmt.Fprintln(r.out, mutedStyle.Sprintf("No cached deployments on %s", result.Network))
		return nil
	}

	fmt.Fprintf(r.out, "%s\n", headerStyle.Sprintf("Cached units on %s:", result.Network))
	t := newTable()
	t.AppendHeader(table.Row{"Unit", "Contract", "Address", "Block", "Deployed"})
	for _, c := range result.Cached {
		t.AppendRow(table.Row{
			nameStyle.Sprint(c.Unit),
			c.ContractName,
			c.Address.Hex(),
			c.BlockNumber,
			c.DeployedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
