package genesis

import (
	"encoding/json"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/zeebo/blake3"

	"github.com/octopus-appchains/debio-node/genesis/balances"
	"github.com/octopus-appchains/debio-node/genesis/session"
	"github.com/octopus-appchains/debio-node/genesis/staking"
	"github.com/octopus-appchains/debio-node/inter/account"
)

// State is the runtime genesis configuration. Field names are read by the
// pallets on first block execution and are versioned with the runtime.
type State struct {
	System          SystemConfig          `json:"system"`
	Balances        BalancesConfig        `json:"balances"`
	Session         SessionConfig         `json:"session"`
	Staking         StakingConfig         `json:"staking"`
	Sudo            SudoConfig            `json:"sudo"`
	Babe            BabeConfig            `json:"babe"`
	ImOnline        ImOnlineConfig        `json:"imOnline"`
	Grandpa         GrandpaConfig         `json:"grandpa"`
	Beefy           BeefyConfig           `json:"beefy"`
	OctopusAppchain OctopusAppchainConfig `json:"octopusAppchain"`
	Orders          OrdersConfig          `json:"orders"`

	appchainSet *pos.Validators
}

type SystemConfig struct {
	Code              hexutil.Bytes `json:"code"`
	ChangesTrieConfig *struct{}     `json:"changesTrieConfig"`
}

type BalancesConfig struct {
	Balances []balances.Entry `json:"balances"`
}

type SessionConfig struct {
	Keys []session.Entry `json:"keys"`
}

type StakingConfig struct {
	ValidatorCount        uint32               `json:"validatorCount"`
	MinimumValidatorCount uint32               `json:"minimumValidatorCount"`
	Invulnerables         []account.ID         `json:"invulnerables"`
	SlashRewardFraction   uint32               `json:"slashRewardFraction"` // Perbill
	Stakers               []staking.Assignment `json:"stakers"`
}

type SudoConfig struct {
	Key account.ID `json:"key"`
}

// EpochConfig is BABE's genesis epoch configuration.
type EpochConfig struct {
	C            [2]uint64 `json:"c"` // primary slot probability as a fraction
	AllowedSlots string    `json:"allowed_slots"`
}

// DefaultEpochConfig allows primary and secondary plain slots with a 1/4
// primary probability.
func DefaultEpochConfig() EpochConfig {
	return EpochConfig{C: [2]uint64{1, 4}, AllowedSlots: "PrimaryAndSecondaryPlainSlots"}
}

// The consensus authority lists start empty: the session pallet fills them
// from session.keys on the first block.
type BabeConfig struct {
	Authorities []json.RawMessage `json:"authorities"`
	EpochConfig *EpochConfig      `json:"epochConfig"`
}

type ImOnlineConfig struct {
	Keys []json.RawMessage `json:"keys"`
}

type GrandpaConfig struct {
	Authorities []json.RawMessage `json:"authorities"`
}

type BeefyConfig struct {
	Authorities []json.RawMessage `json:"authorities"`
}

// ValidatorWeight is one row of the appchain validator table.
type ValidatorWeight struct {
	Account account.ID
	Weight  *big.Int
}

func (v ValidatorWeight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{v.Account, v.Weight})
}

// Asset registers a bridged token name under a runtime asset id.
type Asset struct {
	Name string
	ID   uint32
}

func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{a.Name, a.ID})
}

type OctopusAppchainConfig struct {
	AppchainID    string            `json:"appchainId"`
	Validators    []ValidatorWeight `json:"validators"`
	AssetIDByName []Asset           `json:"assetIdByName"`
}

type OrdersConfig struct {
	EscrowKey account.ID `json:"escrowKey"`
}

// AppchainSet returns the appchain validator set keyed by 1-based position
// in the authority list.
func (s *State) AppchainSet() *pos.Validators {
	return s.appchainSet
}

// Fingerprint digests every section that is a pure function of the build
// inputs. Staker assignments are left out since nominations are sampled.
func (s *State) Fingerprint() (common.Hash, error) {
	cp := *s
	cp.Staking.Stakers = nil
	data, err := json.Marshal(&cp)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(blake3.Sum256(data)), nil
}
