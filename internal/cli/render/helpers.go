package render

import (
	"math/big"
	"net/url"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	addressStyle = color.New(color.FgWhite)
	mutedStyle   = color.New(color.Faint)
	okStyle      = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	errStyle     = color.New(color.FgRed)
	nameStyle    = color.New(color.FgCyan, color.Bold)

	titleCaser = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// statusLabel title-cases a status word, e.g. "already verified" -> "Already Verified"
func statusLabel(status string) string {
	return titleCaser.String(status)
}

// newTable returns a borderless table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:      "  ",
		PaddingRight:     " ",
		MiddleHorizontal: "─",
	}
	return t
}

// formatUnits renders value / 10^decimals with the given number of fraction digits
func formatUnits(value *big.Int, decimals int64, precision int) string {
	if value == nil {
		return "-"
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	return new(big.Rat).SetFrac(value, denom).FloatString(precision)
}

// formatEther renders a wei amount in ETH
func formatEther(wei *big.Int) string {
	return formatUnits(wei, 18, 6)
}

// formatGwei renders a wei amount in gwei
func formatGwei(wei *big.Int) string {
	return formatUnits(wei, 9, 2)
}

// shortHex shortens a hex string to 0x1234…abcd
func shortHex(s string) string {
	if len(s) <= 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// redactURL hides the path and query of an RPC URL, where provider keys live
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	out := u.Scheme + "://" + u.Host
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" {
		out += "/***"
	}
	return out
}
