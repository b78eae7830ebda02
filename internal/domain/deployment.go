package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentRecord is the summary written to deployment-info.json after a
// successful deployment. A later run overwrites it wholesale.
type DeploymentRecord struct {
	Network         string         `json:"network"`
	ContractAddress common.Address `json:"contractAddress"`
	Deployer        common.Address `json:"deployer"`
	DeploymentTime  time.Time      `json:"deploymentTime"`
	ChainID         uint64         `json:"chainId"`
}

// isoMillis matches JavaScript's Date.prototype.toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type deploymentRecordJSON struct {
	Network         string `json:"network"`
	ContractAddress string `json:"contractAddress"`
	Deployer        string `json:"deployer"`
	DeploymentTime  string `json:"deploymentTime"`
	ChainID         uint64 `json:"chainId"`
}

// MarshalJSON writes checksummed addresses and a millisecond UTC timestamp
func (r DeploymentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(deploymentRecordJSON{
		Network:         r.Network,
		ContractAddress: r.ContractAddress.Hex(),
		Deployer:        r.Deployer.Hex(),
		DeploymentTime:  r.DeploymentTime.UTC().Format(isoMillis),
		ChainID:         r.ChainID,
	})
}

func (r *DeploymentRecord) UnmarshalJSON(data []byte) error {
	var raw deploymentRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !common.IsHexAddress(raw.ContractAddress) {
		return fmt.Errorf("%w: contractAddress %q", ErrInvalidAddress, raw.ContractAddress)
	}
	if raw.Deployer != "" && !common.IsHexAddress(raw.Deployer) {
		return fmt.Errorf("%w: deployer %q", ErrInvalidAddress, raw.Deployer)
	}

	var deployedAt time.Time
	if raw.DeploymentTime != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.DeploymentTime)
		if err != nil {
			return fmt.Errorf("invalid deploymentTime: %w", err)
		}
		deployedAt = t
	}

	*r = DeploymentRecord{
		Network:         raw.Network,
		ContractAddress: common.HexToAddress(raw.ContractAddress),
		Deployer:        common.HexToAddress(raw.Deployer),
		DeploymentTime:  deployedAt,
		ChainID:         raw.ChainID,
	}
	return nil
}

// CachedDeployment is one unit's entry in the per-network deployment cache
type CachedDeployment struct {
	Unit            string          `json:"unit"`
	ContractName    string          `json:"contractName"`
	Address         common.Address  `json:"address"`
	TransactionHash common.Hash     `json:"transactionHash"`
	BlockNumber     uint64          `json:"blockNumber"`
	GasUsed         uint64          `json:"gasUsed"`
	Args            []string        `json:"args"`
	BytecodeHash    common.Hash     `json:"bytecodeHash"`
	ABI             json.RawMessage `json:"abi"`
	Deployer        common.Address  `json:"deployer"`
	ChainID         uint64          `json:"chainId"`
	DeployedAt      time.Time       `json:"deployedAt"`
}
