package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ABI is a contract interface kept as generic JSON so that every field,
// including ones we don't model, takes part in structural comparison.
type ABI struct {
	entries []any
}

// ABIEntry is the summary of a single ABI entry used for presence checks and diffs
type ABIEntry struct {
	Type            string
	Name            string
	Signature       string
	StateMutability string
	Inputs          int
	Outputs         int

	canonical string
}

// Key identifies an entry by kind and full signature
func (e ABIEntry) Key() string {
	return e.Type + ":" + e.Signature
}

// IsGetter reports whether the entry is a read-only function without inputs
func (e ABIEntry) IsGetter() bool {
	return e.Type == "function" && e.Inputs == 0 &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// ParseABI decodes an ABI JSON array. Numbers are kept verbatim.
func ParseABI(data []byte) (*ABI, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries []any
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrInvalidABI)
	}
	if entries == nil {
		entries = []any{}
	}
	for i, entry := range entries {
		if _, ok := entry.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrInvalidABI, i)
		}
	}

	return &ABI{entries: entries}, nil
}

// Len returns the number of entries
func (a *ABI) Len() int {
	return len(a.entries)
}

// Canonical returns the compact canonical serialization: object keys sorted,
// array order preserved, no HTML escaping.
func (a *ABI) Canonical() []byte {
	return encodeCanonical(a.entries, "")
}

// Indented returns the canonical serialization indented with two spaces.
// This is the form written into frontend sources.
func (a *ABI) Indented() []byte {
	return encodeCanonical(a.entries, "  ")
}

// Hash is the keccak256 of the compact canonical serialization
func (a *ABI) Hash() common.Hash {
	return crypto.Keccak256Hash(a.Canonical())
}

// Equal reports structural equality
func (a *ABI) Equal(other *ABI) bool {
	return a.Hash() == other.Hash()
}

// Contract parses the ABI into go-ethereum's representation for packing calls
func (a *ABI) Contract() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.Canonical()))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("%w: %v", ErrInvalidABI, err)
	}
	return parsed, nil
}

// Entries returns summaries in ABI order
func (a *ABI) Entries() []ABIEntry {
	out := make([]ABIEntry, 0, len(a.entries))
	for _, raw := range a.entries {
		obj := raw.(map[string]any)

		entry := ABIEntry{
			Type:            stringField(obj, "type"),
			Name:            stringField(obj, "name"),
			StateMutability: stringField(obj, "stateMutability"),
			canonical:       string(encodeCanonical(obj, "")),
		}
		if entry.Type == "" {
			// Solidity treats a missing type as function
			entry.Type = "function"
		}

		inputs, _ := obj["inputs"].([]any)
		outputs, _ := obj["outputs"].([]any)
		entry.Inputs = len(inputs)
		entry.Outputs = len(outputs)

		name := entry.Name
		if name == "" {
			name = entry.Type
		}
		entry.Signature = name + "(" + strings.Join(paramTypes(inputs), ",") + ")"

		out = append(out, entry)
	}
	return out
}

// Has reports whether an entry of the given kind and name exists
func (a *ABI) Has(kind, name string) bool {
	for _, entry := range a.Entries() {
		if entry.Type == kind && entry.Name == name {
			return true
		}
	}
	return false
}

// Getters returns the names of all zero-input view/pure functions in ABI order
func (a *ABI) Getters() []string {
	var names []string
	for _, entry := range a.Entries() {
		if entry.IsGetter() {
			names = append(names, entry.Name)
		}
	}
	return names
}

// SignatureMismatch is an entry present on both sides under the same name with different signatures
type SignatureMismatch struct {
	Type     string
	Name     string
	Frontend string
	Artifact string
}

// ABIDiff enumerates every difference between a frontend ABI and the compiled one
type ABIDiff struct {
	// Missing entries exist in the artifact but not in the frontend
	Missing []ABIEntry
	// Extra entries exist only in the frontend
	Extra []ABIEntry
	// Mismatched entries share type and name but differ in signature
	Mismatched []SignatureMismatch
	// Changed entries share a signature but differ elsewhere (outputs, mutability, indexed, ...)
	Changed []ABIEntry
}

// Empty reports whether no differences were found
func (d ABIDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Mismatched) == 0 && len(d.Changed) == 0
}

// Count returns the total number of differences
func (d ABIDiff) Count() int {
	return len(d.Missing) + len(d.Extra) + len(d.Mismatched) + len(d.Changed)
}

// DiffABI compares a frontend ABI against the compiled artifact ABI
func DiffABI(frontend, artifact *ABI) ABIDiff {
	var diff ABIDiff

	frontendEntries := frontend.Entries()
	artifactEntries := artifact.Entries()

	frontendByKey := make(map[string]ABIEntry, len(frontendEntries))
	for _, e := range frontendEntries {
		frontendByKey[e.Key()] = e
	}
	artifactByKey := make(map[string]ABIEntry, len(artifactEntries))
	for _, e := range artifactEntries {
		artifactByKey[e.Key()] = e
	}

	paired := make(map[string]bool)
	for _, a := range artifactEntries {
		if f, ok := frontendByKey[a.Key()]; ok {
			if f.canonical != a.canonical {
				diff.Changed = append(diff.Changed, a)
			}
			continue
		}

		// Same name on the frontend under a signature the artifact no longer has
		var counterpart *ABIEntry
		for i := range frontendEntries {
			f := frontendEntries[i]
			if f.Type != a.Type || f.Name != a.Name || paired[f.Key()] {
				continue
			}
			if _, stillExists := artifactByKey[f.Key()]; stillExists {
				continue
			}
			counterpart = &f
			break
		}

		if counterpart == nil {
			diff.Missing = append(diff.Missing, a)
			continue
		}
		paired[counterpart.Key()] = true
		diff.Mismatched = append(diff.Mismatched, SignatureMismatch{
			Type:     a.Type,
			Name:     a.Name,
			Frontend: counterpart.Signature,
			Artifact: a.Signature,
		})
	}

	for _, f := range frontendEntries {
		if _, ok := artifactByKey[f.Key()]; ok || paired[f.Key()] {
			continue
		}
		diff.Extra = append(diff.Extra, f)
	}

	return diff
}

func encodeCanonical(v any, indent string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	// Values come from a JSON decode, encoding can't fail
	_ = enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// paramTypes renders canonical parameter types, expanding tuples into their components
func paramTypes(params []any) []string {
	types := make([]string, 0, len(params))
	for _, raw := range params {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typ := stringField(param, "type")
		if strings.HasPrefix(typ, "tuple") {
			components, _ := param["components"].([]any)
			typ = "(" + strings.Join(paramTypes(components), ",") + ")" + strings.TrimPrefix(typ, "tuple")
		}
		types = append(types, typ)
	}
	return types
}
