package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render writes the unit list, the record, verification results and the optional gas report
func (r *DeployRenderer) Render(result *usecase.DeployResult) error {
	fmt.Fprintf(r.out, "%s %s (chain %d)\n", headerStyle.Sprint("Network: "), result.Network.Name, result.Network.ChainID)
	fmt.Fprintf(r.out, "%s %s\n\n", headerStyle.Sprint("Deployer:"), addressStyle.Sprint(result.Deployer.Hex()))

	for _, unit := range result.Units {
		r.renderUnit(unit)
	}
	fmt.Fprintln(r.out)

	if result.Record != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Recorded %s on %s in deployment-info.json",
			result.Record.ContractAddress.Hex(), result.Record.Network)))
	}

	r.renderVerification(result)

	if result.ReportGas && len(result.Deployed()) > 0 {
		r.renderGasReport(result)
	}
	return nil
}

func (r *DeployRenderer) renderUnit(unit *usecase.UnitResult) {
	if unit.Skipped {
		line := fmt.Sprintf("  • %s %s %s", nameStyle.Sprint(unit.Name), addressStyle.Sprint(unit.Address.Hex()), mutedStyle.Sprint("(cached)"))
		if unit.Stale {
			line += " " + warnStyle.Sprint("bytecode changed, use --force to redeploy")
		}
		fmt.Fprintln(r.out, line)
		return
	}

	fmt.Fprintf(r.out, "  %s %s %s\n", okStyle.Sprint("✓"), nameStyle.Sprint(unit.Name), addressStyle.Sprint(unit.Address.Hex()))
	fmt.Fprintf(r.out, "    %s\n", mutedStyle.Sprintf("tx %s, block %d", unit.TxHash.Hex(), unit.BlockNumber))
	if len(unit.Args) > 0 {
		fmt.Fprintf(r.out, "    %s\n", mutedStyle.Sprintf("args %v", unit.Args))
	}
}

func (r *DeployRenderer) renderVerification(result *usecase.DeployResult) {
	var lines []string
	for _, unit := range result.Units {
		v := unit.Verification
		if v == nil {
			continue
		}
		switch {
		case v.SkipReason != "":
			lines = append(lines, fmt.Sprintf("  %s %s: %s", mutedStyle.Sprint("–"), unit.Name, mutedStyle.Sprintf("skipped (%s)", v.SkipReason)))
		case v.Err != nil:
			lines = append(lines, "  "+FormatWarning(fmt.Sprintf("%s: verification failed: %v", unit.Name, v.Err)))
		case v.Outcome != nil && v.Outcome.AlreadyVerified:
			lines = append(lines, fmt.Sprintf("  %s %s: %s %s", okStyle.Sprint("✓"), unit.Name, statusLabel("already verified"), v.Outcome.URL))
		case v.Outcome != nil:
			lines = append(lines, fmt.Sprintf("  %s %s: %s %s", okStyle.Sprint("✓"), unit.Name, statusLabel("verified"), v.Outcome.URL))
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(r.out, headerStyle.Sprint("Verification:"))
	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
}

func (r *DeployRenderer) renderGasReport(result *usecase.DeployResult) {
	t := newTable()
	t.AppendHeader(table.Row{"Unit", "Gas used", "Gas price (gwei)", "Cost (ETH)"})
	for _, unit := range result.Deployed() {
		t.AppendRow(table.Row{unit.Name, unit.GasUsed, formatGwei(unit.GasPrice), formatEther(unit.Cost)})
	}
	t.AppendFooter(table.Row{"Total", "", "", formatEther(result.TotalCost())})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Sprint("Gas report:"))
	fmt.Fprintln(r.out, t.Render())
}
