package genesis

import (
	"math/big"

	"github.com/octopus-appchains/debio-node/inter/rolekey"
)

// Token and staking economics. Changing the decimal base or the bonding
// ratio is done here and nowhere else.
const (
	// TokenSymbol and TokenDecimals are the chain's display metadata.
	TokenSymbol   = "DBIO"
	TokenDecimals = 15

	// EndowmentDollars is the free balance of every endowed account, in whole tokens.
	EndowmentDollars = 10_000_000
	// StashDivisor is the ratio of endowment to bonded stash.
	StashDivisor = 1000

	// MaxNominations caps the targets of a genesis nominator.
	MaxNominations = 16

	// SlashRewardPercent is the share of a slash paid to reporters.
	SlashRewardPercent = 10
	// PerbillOne is the Perbill representation of 100%.
	PerbillOne = 1_000_000_000

	// DefaultAppchainAsset is registered with id 0 unless the caller supplies a table.
	DefaultAppchainAsset = "test-stable.testnet"
)

// SessionKeyArity is the number of keys in a session-key tuple.
const SessionKeyArity = rolekey.NumRoles

// SlashRewardFraction is SlashRewardPercent as Perbill parts.
const SlashRewardFraction uint32 = SlashRewardPercent * (PerbillOne / 100)

// Dollars returns one whole token in base units (10^TokenDecimals).
func Dollars() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
}

// Endowment returns the default free balance of an endowed account.
func Endowment() *big.Int {
	return new(big.Int).Mul(big.NewInt(EndowmentDollars), Dollars())
}

// Stash returns the bond of every genesis staker.
func Stash() *big.Int {
	return new(big.Int).Div(Endowment(), big.NewInt(StashDivisor))
}

// DevSeeds are the well-known development accounts endowed by default
// together with their //stash variants.
var DevSeeds = []string{"Alice", "Bob", "Charlie", "Dave", "Eve", "Ferdie"}
