package config

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DefaultMnemonic is the well-known hardhat development mnemonic
const DefaultMnemonic = "test test test test test test test test test test test junk"

// Key sources reported by Accounts.Source
const (
	SourcePrivateKey      = "PRIVATE_KEY"
	SourceMnemonic        = "MNEMONIC"
	SourceDefaultMnemonic = "default mnemonic"
)

// Accounts holds deployer credentials taken from the environment.
// A private key takes precedence over a mnemonic.
type Accounts struct {
	PrivateKey string
	Mnemonic   string
	Index      uint32
}

// Source describes where the deployer key comes from
func (a *Accounts) Source() string {
	switch {
	case a.PrivateKey != "":
		return SourcePrivateKey
	case a.Mnemonic != "":
		return SourceMnemonic
	default:
		return SourceDefaultMnemonic
	}
}

// Deployer returns the deployer key. Without PRIVATE_KEY or MNEMONIC the
// well-known development mnemonic is used on every network.
func (a *Accounts) Deployer() (*ecdsa.PrivateKey, error) {
	if a.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(a.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid PRIVATE_KEY: %w", err)
		}
		return key, nil
	}

	mnemonic := a.Mnemonic
	if mnemonic == "" {
		mnemonic = DefaultMnemonic
	}

	return DeriveKey(mnemonic, a.Index)
}

// DeriveKey derives the key at m/44'/60'/0'/0/index from a BIP-39 mnemonic
func DeriveKey(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(strings.Join(strings.Fields(mnemonic), " "), "")
	if err != nil {
		return nil, fmt.Errorf("invalid MNEMONIC: %w", err)
	}

	path := make(accounts.DerivationPath, len(accounts.DefaultBaseDerivationPath))
	copy(path, accounts.DefaultBaseDerivationPath)
	path[len(path)-1] = index

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}
	for _, child := range path {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", path, err)
		}
	}

	return crypto.ToECDSA(common.LeftPadBytes(key.Key, 32))
}
