package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ABIBlock locates the ABI literal between the start and end markers of a frontend source
type ABIBlock struct {
	// Start and End delimit Body within the source
	Start int
	End   int
	Body  string
}

// FindABIBlock locates the start marker and the first end marker after it
func FindABIBlock(path, src, startMarker, endMarker string) (ABIBlock, error) {
	i := strings.Index(src, startMarker)
	if i < 0 {
		return ABIBlock{}, MarkerNotFoundErr{Path: path, Marker: startMarker}
	}
	start := i + len(startMarker)

	j := strings.Index(src[start:], endMarker)
	if j < 0 {
		return ABIBlock{}, MarkerNotFoundErr{Path: path, Marker: endMarker}
	}
	end := start + j

	return ABIBlock{Start: start, End: end, Body: src[start:end]}, nil
}

// Replace returns src with the block body replaced
func (b ABIBlock) Replace(src, body string) string {
	return src[:b.Start] + body + src[b.End:]
}

// AddressLiteral locates the string literal assigned to an address constant
type AddressLiteral struct {
	Start int
	End   int
	Value string
}

// FindAddressConstant finds `const NAME = "0x..."`, optionally exported and typed
func FindAddressConstant(path, src, name string) (AddressLiteral, error) {
	re := regexp.MustCompile(`\bconst\s+` + regexp.QuoteMeta(name) + `\s*(?::[^=]+)?=\s*["'` + "`" + `]([^"'` + "`" + `]*)["'` + "`" + `]`)
	m := re.FindStringSubmatchIndex(src)
	if m == nil {
		return AddressLiteral{}, MarkerNotFoundErr{Path: path, Marker: "const " + name}
	}
	return AddressLiteral{Start: m[2], End: m[3], Value: src[m[2]:m[3]]}, nil
}

// Replace returns src with the literal value replaced
func (a AddressLiteral) Replace(src, value string) string {
	return src[:a.Start] + value + src[a.End:]
}

// HasConstant reports whether src declares `const NAME`
func HasConstant(src, name string) bool {
	re := regexp.MustCompile(`\bconst\s+` + regexp.QuoteMeta(name) + `\b`)
	return re.MatchString(src)
}

// ExtractFrontendABI parses the ABI held between the markers
func ExtractFrontendABI(path, src, startMarker, endMarker string) (*ABI, ABIBlock, error) {
	block, err := FindABIBlock(path, src, startMarker, endMarker)
	if err != nil {
		return nil, ABIBlock{}, err
	}

	parsed, err := ParseABI([]byte(strings.TrimSpace(block.Body)))
	if err != nil {
		return nil, block, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, block, nil
}
