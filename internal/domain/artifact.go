package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Artifact is a compiled contract as emitted by Hardhat or Foundry
type Artifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         Bytecode        `json:"bytecode"`
	DeployedBytecode Bytecode        `json:"deployedBytecode"`

	// Path is where the artifact was loaded from, relative to the project root
	Path string `json:"-"`
}

// Bytecode accepts both the Hardhat form ("0x...") and the Foundry form ({"object": "0x..."})
type Bytecode string

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Bytecode(s)
		return nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("bytecode must be a hex string or an object with an object field: %w", err)
	}
	*b = Bytecode(obj.Object)
	return nil
}

// Bytes decodes the hex bytecode
func (b Bytecode) Bytes() ([]byte, error) {
	s := string(b)
	if s == "" || s == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	// Unlinked library placeholders (__$...$__) can't be deployed directly
	if strings.Contains(s, "__") {
		return nil, fmt.Errorf("bytecode contains unlinked library references")
	}
	return hexutil.Decode(s)
}

// Hash returns the keccak256 of the decoded bytecode, or the zero hash when empty or invalid
func (b Bytecode) Hash() common.Hash {
	code, err := b.Bytes()
	if err != nil || len(code) == 0 {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(code)
}

// ParsedABI decodes the artifact ABI into its canonical form
func (a *Artifact) ParsedABI() (*ABI, error) {
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("%w: artifact %s has no abi field", ErrInvalidABI, a.ContractName)
	}
	return ParseABI(a.ABI)
}

// FullyQualifiedName returns "sourceName:contractName" when the source is known
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}
