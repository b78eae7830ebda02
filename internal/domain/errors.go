package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNoContract is returned when an address holds no executable bytecode
	ErrNoContract = errors.New("no contract found")

	// ErrNotDeployed is returned when a unit has no entry in the deployment cache
	ErrNotDeployed = errors.New("not deployed")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidABI is returned when an ABI document can't be decoded
	ErrInvalidABI = errors.New("invalid ABI")

	// ErrMarkerNotFound is returned when a frontend source lacks a required marker
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrUnknownNetwork is returned when a network name can't be resolved
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMissingCredential is returned when a network needs a key that isn't configured
	ErrMissingCredential = errors.New("missing credential")

	// ErrChainIDMismatch is returned when the RPC endpoint serves a different chain
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrValueMismatch is returned when a value read back after a write differs from the intended one
	ErrValueMismatch = errors.New("stored value mismatch")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrInvalidPlan is returned when the deployment plan fails validation
	ErrInvalidPlan = errors.New("invalid deployment plan")
)

// ArtifactNotFoundErr is returned when no compiled artifact matches a contract name
type ArtifactNotFoundErr struct {
	Name        string
	Suggestions []string
}

func (e ArtifactNotFoundErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no artifact found for contract %q (did you run `npx hardhat compile`?)", e.Name)
	}
	return fmt.Sprintf("no artifact found for contract %q, did you mean:\n  - %s",
		e.Name, strings.Join(e.Suggestions, "\n  - "))
}

func (e ArtifactNotFoundErr) Is(target error) bool {
	return target == ErrNotFound || target == ErrArtifactNotFound
}

// MarkerNotFoundErr names the marker missing from a frontend source file
type MarkerNotFoundErr struct {
	Path   string
	Marker string
}

func (e MarkerNotFoundErr) Error() string {
	return fmt.Sprintf("%s: marker %q not found", e.Path, e.Marker)
}

func (e MarkerNotFoundErr) Unwrap() error {
	return ErrMarkerNotFound
}
