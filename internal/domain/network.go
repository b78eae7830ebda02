package domain

// LocalChainID is the chain ID of the Hardhat node
const LocalChainID uint64 = 31337

// Network is a fully resolved network definition
type Network struct {
	Name           string
	RPCURL         string
	ChainID        uint64
	Provider       string // "alchemy", "infura", "custom" or "local"
	ExplorerURL    string
	ExplorerAPIURL string
	Local          bool
}

// SupportsVerification reports whether explorer source verification makes sense on this network
func (n *Network) SupportsVerification() bool {
	return !n.Local && n.ChainID != LocalChainID
}
