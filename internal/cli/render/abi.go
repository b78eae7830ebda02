package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/hmdeploy/internal/usecase"
)

// ABICheckRenderer renders an ABI consistency report
type ABICheckRenderer struct {
	out io.Writer
}

// NewABICheckRenderer creates a new ABI check renderer
func NewABICheckRenderer(out io.Writer) *ABICheckRenderer {
	return &ABICheckRenderer{out: out}
}

// Render writes the match summary, presence table, diff and address comparison
func (r *ABICheckRenderer) Render(result *usecase.ABICheckResult) error {
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Frontend:"), result.FrontendPath)
	fmt.Fprintf(r.out, "%s %s\n\n", headerStyle.Sprint("Contract:"), nameStyle.Sprint(result.Contract))

	if result.ExactMatch {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("ABI matches the compiled artifact (%d entries, %s)",
			result.ArtifactEntries, shortHex(result.ArtifactHash.Hex()))))
	} else {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("ABI differs from the compiled artifact (frontend %d entries %s, artifact %d entries %s)",
			result.FrontendEntries, shortHex(result.FrontendHash.Hex()),
			result.ArtifactEntries, shortHex(result.ArtifactHash.Hex()))))
	}

	if len(result.Items) > 0 {
		fmt.Fprintln(r.out)
		t := newTable()
		t.AppendHeader(table.Row{"Kind", "Name", "Frontend", "Artifact"})
		for _, item := range result.Items {
			artifact := mutedStyle.Sprint("-")
			if item.ArtifactChecked {
				artifact = presence(item.InArtifact)
			}
			t.AppendRow(table.Row{item.Kind, item.Name, presence(item.InFrontend), artifact})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	r.renderDiff(result)

	if a := result.Address; a != nil {
		fmt.Fprintln(r.out)
		if a.Match {
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Contract address matches the %s deployment (%s)", a.Network, a.Deployed.Hex())))
		} else {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Contract address %s does not match the %s deployment %s", a.Frontend, a.Network, a.Deployed.Hex())))
		}
	}

	fmt.Fprintln(r.out)
	if n := result.Findings(); n > 0 {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%d finding(s)", n)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess("No findings"))
	}
	return nil
}

func (r *ABICheckRenderer) renderDiff(result *usecase.ABICheckResult) {
	diff := result.Diff
	if diff.Empty() {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Sprint("Differences:"))
	for _, e := range diff.Missing {
		fmt.Fprintf(r.out, "  %s %s %s\n", okStyle.Sprint("+"), e.Type, e.Signature)
	}
	for _, e := range diff.Extra {
		fmt.Fprintf(r.out, "  %s %s %s\n", errStyle.Sprint("-"), e.Type, e.Signature)
	}
	for _, m := range diff.Mismatched {
		fmt.Fprintf(r.out, "  %s %s %s -> %s\n", warnStyle.Sprint("~"), m.Type, m.Frontend, m.Artifact)
	}
	for _, e := range diff.Changed {
		fmt.Fprintf(r.out, "  %s %s %s %s\n", warnStyle.Sprint("~"), e.Type, e.Signature, mutedStyle.Sprint("(outputs or mutability changed)"))
	}
}

func presence(ok bool) string {
	if ok {
		return okStyle.Sprint("✓")
	}
	return errStyle.Sprint("✗")
}

// SyncABIRenderer renders an ABI sync
type SyncABIRenderer struct {
	out io.Writer
}

// NewSyncABIRenderer creates a new ABI sync renderer
func NewSyncABIRenderer(out io.Writer) *SyncABIRenderer {
	return &SyncABIRenderer{out: out}
}

// Render writes what changed, or that nothing did
func (r *SyncABIRenderer) Render(result *usecase.SyncABIResult, dryRun bool) error {
	if !result.Changed() {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is already in sync with %s", result.Path, result.Contract)))
		return nil
	}

	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	if result.ABIChanged {
		fmt.Fprintf(r.out, "  %s ABI (%d entries from %s)\n", okStyle.Sprint("✓"), result.Entries, result.Contract)
	}
	if result.AddressChanged {
		fmt.Fprintf(r.out, "  %s contract address %s -> %s\n", okStyle.Sprint("✓"), result.PreviousAddr, result.Address)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s", verb, result.Path)))
	return nil
}

// GenerateRenderer renders a generated frontend config
type GenerateRenderer struct {
	out io.Writer
}

// NewGenerateRenderer creates a new generate renderer
func NewGenerateRenderer(out io.Writer) *GenerateRenderer {
	return &GenerateRenderer{out: out}
}

// Render prints the content itself when nothing was written, otherwise a summary
func (r *GenerateRenderer) Render(result *usecase.GenerateResult) error {
	if !result.Written {
		_, err := io.WriteString(r.out, result.Content)
		return err
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Wrote %s", result.Path)))
	return nil
}
