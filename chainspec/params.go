package chainspec

import (
	"fmt"
	"strings"
)

// ChainType is the network class recorded in the chain specification.
type ChainType string

const (
	Development ChainType = "Development"
	Local       ChainType = "Local"
	Live        ChainType = "Live"
)

// Well-known accounts shared by the bundled presets.
const (
	// SudoKey is 5EpzDTRWDoVTnE31ybM2tse77CkZyG2eKC58Z3gbALHphHN6.
	SudoKey = "0x7a3e54fe532670c009cc839a7a9b8578239d08ed5234909d991da8ba39f45346"
	// FaucetKey is 5HbNav6B8wUj8F9jRCVEcL6a576iHP8HJhfSfZM7fEHnRs2X.
	FaucetKey = "0xf490e69c55aa14d06bb5d62d12b81db20f3c125d6ea5d1cfddfcf98767272e6b"
	// APIServerKey is 5GRjDZsTCatwWfNosGF8QRAPR1zYPJ7jJppt224tjE7x8cSx. It also
	// administers the orders escrow.
	APIServerKey = "0xc0f9aaa3ce6b6c57eadc5fef443aaf8152fa8e49a8fc684ecc47c3304fdf3c0c"
)

// LocalValidatorKeys are the pre-funded accounts of the local testnet validators.
var LocalValidatorKeys = []string{
	"0x60d4ab568a4e65640e34eb6c73fd25ee507b4cce11e165e32e7c821909d2bf4a",
	"0xc4f832c4a8d7fab80767235d0f20f9d3ce1de635e8c5db652b6afcaa511fac7b",
	"0x74727b4f2707debaaf5bbdfce661c3254fc0e9c46ce4cfbe5ec6e18482d9f922",
	"0x8cdfb79e12bd0ec734dd736d12082f241f6ca21c823bec3c6a2598439eb5a97d",
}

// AssetParam registers a bridged asset.
type AssetParam struct {
	Name string `toml:"name"`
	ID   uint32 `toml:"id"`
}

// Params describe a network. Account references (Nominators, Endowed,
// RootKey, EscrowKey) accept "//Seed" secret URIs, 0x-prefixed hex and SS58.
type Params struct {
	Name      string    `toml:"name"`
	ID        string    `toml:"id"`
	ChainType ChainType `toml:"chain_type"`

	Authorities []string          `toml:"authorities"` // seed names, e.g. "Alice"
	Weights     map[string]uint64 `toml:"weights"`     // per-seed bonding weight overrides
	Nominators  []string          `toml:"nominators"`
	Endowed     []string          `toml:"endowed"`
	RootKey     string            `toml:"root_key"`
	EscrowKey   string            `toml:"escrow_key"`

	AppchainID string       `toml:"appchain_id"`
	Assets     []AssetParam `toml:"assets"`

	BootNodes          []string `toml:"boot_nodes"`
	TelemetryEndpoints []string `toml:"telemetry_endpoints"`
	ProtocolID         string   `toml:"protocol_id"`
}

// DevelopmentParams is the single-authority development network.
func DevelopmentParams() Params {
	return Params{
		Name:        "Debio Dev Net",
		ID:          "debio_dev_net",
		ChainType:   Development,
		Authorities: []string{"Alice"},
		Endowed: []string{
			SudoKey,
			FaucetKey,
			APIServerKey,
			"//Alice",
			"//Bob",
			"//Alice//stash",
			"//Bob//stash",
		},
		RootKey:   SudoKey,
		EscrowKey: APIServerKey,
	}
}

// LocalTestnetParams is the two-authority local network.
func LocalTestnetParams() Params {
	endowed := []string{SudoKey, FaucetKey, APIServerKey}
	endowed = append(endowed, LocalValidatorKeys...)
	return Params{
		Name:        "Debio Local Testnet",
		ID:          "debio_local_testnet",
		ChainType:   Local,
		Authorities: []string{"Alice", "Bob"},
		Endowed:     endowed,
		RootKey:     SudoKey,
		EscrowKey:   APIServerKey,
	}
}

// ParamsByName resolves a bundled preset by name or alias.
func ParamsByName(name string) (Params, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "development", "dev":
		return DevelopmentParams(), nil
	case "local-testnet", "local":
		return LocalTestnetParams(), nil
	default:
		return Params{}, fmt.Errorf("unknown chain: %q (valid: development, dev, local-testnet, local, custom)", name)
	}
}
