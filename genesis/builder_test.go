package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/genesis/authority"
	"github.com/octopus-appchains/debio-node/genesis/staking"
	"github.com/octopus-appchains/debio-node/inter/account"
)

var (
	testCode = []byte("\x00asm\x01\x00\x00\x00")
	sudo     = account.MustFromHex("7a3e54fe532670c009cc839a7a9b8578239d08ed5234909d991da8ba39f45346")
	faucet   = account.MustFromHex("f490e69c55aa14d06bb5d62d12b81db20f3c125d6ea5d1cfddfcf98767272e6b")
	apiKey   = account.MustFromHex("c0f9aaa3ce6b6c57eadc5fef443aaf8152fa8e49a8fc684ecc47c3304fdf3c0c")
)

func testAuthorities(t *testing.T, seeds ...string) []authority.Entry {
	entries, err := authority.NewBuilder(derive.Default()).FromSeeds(seeds)
	require.NoError(t, err)
	return entries
}

func devAccount(t *testing.T, seed string) account.ID {
	id, err := derive.Default().Account(seed)
	require.NoError(t, err)
	return id
}

func quietBuilder() *Builder {
	logger, _ := logtest.NewNullLogger()
	return NewBuilder().WithLogger(logger)
}

func devBuilder(t *testing.T) *Builder {
	return quietBuilder().
		WithRuntime(testCode).
		WithAuthorities(testAuthorities(t, "Alice")).
		WithRootKey(sudo).
		WithEscrowKey(apiKey).
		WithEndowed([]account.ID{
			sudo, faucet, apiKey,
			devAccount(t, "Alice"), devAccount(t, "Bob"),
			devAccount(t, "Alice//stash"), devAccount(t, "Bob//stash"),
		})
}

func TestConstants(t *testing.T) {
	require := require.New(t)

	dollars, _ := new(big.Int).SetString("1000000000000000", 10)
	endowment, _ := new(big.Int).SetString("10000000000000000000000", 10)
	stash, _ := new(big.Int).SetString("10000000000000000000", 10)

	require.Equal(dollars, Dollars())
	require.Equal(endowment, Endowment())
	require.Equal(stash, Stash())
	require.Equal(uint32(100_000_000), SlashRewardFraction)
	require.Equal(5, SessionKeyArity)

	// callers cannot corrupt the constants
	Endowment().SetInt64(1)
	require.Equal(endowment, Endowment())
}

func TestBuild_Required(t *testing.T) {
	auths := testAuthorities(t, "Alice")

	tests := []struct {
		name    string
		builder *Builder
		err     error
	}{
		{"runtime", quietBuilder().WithAuthorities(auths).WithRootKey(sudo).WithEscrowKey(apiKey), ErrMissingRuntime},
		{"authorities", quietBuilder().WithRuntime(testCode).WithRootKey(sudo).WithEscrowKey(apiKey), ErrNoAuthorities},
		{"root", quietBuilder().WithRuntime(testCode).WithAuthorities(auths).WithEscrowKey(apiKey), ErrMissingRootKey},
		{"escrow", quietBuilder().WithRuntime(testCode).WithAuthorities(auths).WithRootKey(sudo), ErrMissingEscrowKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := tt.builder.Build()
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, state)
		})
	}
}

// TestBuild_Development covers the single-authority development network.
func TestBuild_Development(t *testing.T) {
	require := require.New(t)

	state, err := devBuilder(t).Build()
	require.NoError(err)

	alice := devAccount(t, "Alice")

	require.Equal(uint32(1), state.Staking.ValidatorCount)
	require.Equal(uint32(1), state.Staking.MinimumValidatorCount)
	require.Equal([]account.ID{alice}, state.Staking.Invulnerables)
	require.Equal(SlashRewardFraction, state.Staking.SlashRewardFraction)

	require.Len(state.Staking.Stakers, 1)
	v := state.Staking.Stakers[0]
	require.Equal(staking.Validator, v.Status)
	require.Equal(alice, v.Stash)
	require.Equal(Stash(), v.Stake)

	require.Len(state.Balances.Balances, 7)
	found := false
	for _, e := range state.Balances.Balances {
		require.Equal(Endowment(), e.Amount)
		if e.Account == alice {
			found = true
		}
	}
	require.True(found, "authority is endowed")

	require.Len(state.Session.Keys, 1)
	require.Equal(alice, state.Session.Keys[0].Owner)
	require.Equal(sudo, state.Sudo.Key)
	require.Equal(apiKey, state.Orders.EscrowKey)
	require.Equal([]Asset{{Name: DefaultAppchainAsset, ID: 0}}, state.OctopusAppchain.AssetIDByName)
	require.Equal([]ValidatorWeight{{Account: alice, Weight: big.NewInt(authority.DefaultBondingWeight)}}, state.OctopusAppchain.Validators)
}

func TestBuild_LocalTestnet(t *testing.T) {
	require := require.New(t)

	auths := testAuthorities(t, "Alice", "Bob")
	state, err := quietBuilder().
		WithRuntime(testCode).
		WithAuthorities(auths).
		WithRootKey(sudo).
		WithEscrowKey(apiKey).
		WithEndowed([]account.ID{sudo, faucet, apiKey}).
		Build()
	require.NoError(err)

	require.Equal(uint32(2), state.Staking.ValidatorCount)
	require.Len(state.Staking.Stakers, 2)
	for _, s := range state.Staking.Stakers {
		require.Equal(staking.Validator, s.Status)
	}
	require.Len(state.Session.Keys, 2)
	for i, k := range state.Session.Keys {
		require.Equal(auths[i].Account, k.Owner)
		require.Equal(auths[i].Roles, k.Keys.Set())
	}
	// the literals plus both authorities
	require.Len(state.Balances.Balances, 5)

	set := state.AppchainSet()
	require.Equal(idx.Validator(2), set.Len())
	require.Equal(pos.Weight(2*authority.DefaultBondingWeight), set.TotalWeight())
}

func TestBuild_DefaultEndowment(t *testing.T) {
	require := require.New(t)

	state, err := quietBuilder().
		WithRuntime(testCode).
		WithAuthorities(testAuthorities(t, "Alice")).
		WithRootKey(sudo).
		WithEscrowKey(apiKey).
		Build()
	require.NoError(err)

	require.Len(state.Balances.Balances, 2*len(DevSeeds))
	require.Equal(devAccount(t, "Alice"), state.Balances.Balances[0].Account)
	require.Equal(devAccount(t, "Ferdie//stash"), state.Balances.Balances[len(state.Balances.Balances)-1].Account)
}

func TestBuild_Nominators(t *testing.T) {
	require := require.New(t)

	noms := make([]account.ID, 5)
	for i := range noms {
		noms[i] = devAccount(t, fmt.Sprintf("Nominator%d", i))
	}

	state, err := quietBuilder().
		WithRuntime(testCode).
		WithAuthorities(testAuthorities(t, "Alice", "Bob")).
		WithNominators(noms).
		WithRootKey(sudo).
		WithEscrowKey(apiKey).
		WithEndowed([]account.ID{sudo}).
		WithRand(rand.New(rand.NewSource(3))).
		Build()
	require.NoError(err)

	require.Len(state.Staking.Stakers, 7)
	require.Len(state.Balances.Balances, 1+2+5)
	for _, s := range state.Staking.Stakers[2:] {
		require.Equal(staking.Nominator, s.Status)
		require.LessOrEqual(len(s.Targets), 1)
	}
	// nominators never count as validators
	require.Equal(uint32(2), state.Staking.ValidatorCount)
}

func TestBuild_Once(t *testing.T) {
	require := require.New(t)

	b := devBuilder(t)
	_, err := b.Build()
	require.NoError(err)
	_, err = b.Build()
	require.ErrorIs(err, ErrAlreadyBuilt)

	// failed builds do not seal the builder
	b = quietBuilder().WithAuthorities(testAuthorities(t, "Alice")).WithRootKey(sudo).WithEscrowKey(apiKey)
	_, err = b.Build()
	require.ErrorIs(err, ErrMissingRuntime)
	_, err = b.WithRuntime(testCode).Build()
	require.NoError(err)
}

func TestBuild_Rejects(t *testing.T) {
	require := require.New(t)

	_, err := devBuilder(t).WithEndowed([]account.ID{sudo, sudo}).Build()
	require.ErrorIs(err, account.ErrDuplicate)

	alice := devAccount(t, "Alice")
	_, err = devBuilder(t).WithNominators([]account.ID{alice}).Build()
	require.ErrorIs(err, account.ErrDuplicate)

	auths := testAuthorities(t, "Alice")
	auths[0].BondingWeight = nil
	_, err = devBuilder(t).WithAuthorities(auths).Build()
	require.ErrorIs(err, ErrBadWeight)

	auths[0].BondingWeight = big.NewInt(0)
	_, err = devBuilder(t).WithAuthorities(auths).Build()
	require.ErrorIs(err, ErrBadWeight)

	auths[0].BondingWeight = new(big.Int).Lsh(big.NewInt(1), 40)
	_, err = devBuilder(t).WithAuthorities(auths).Build()
	require.ErrorIs(err, ErrBadWeight)
}

// TestFingerprint checks rebuilding with equal inputs reproduces every
// deterministic section even when nominations differ.
func TestFingerprint(t *testing.T) {
	require := require.New(t)

	nominator := devAccount(t, "Nominator")
	build := func(seed int64, root account.ID) *State {
		state, err := devBuilder(t).
			WithAuthorities(testAuthorities(t, "Alice", "Bob")).
			WithNominators([]account.ID{nominator}).
			WithRootKey(root).
			WithRand(rand.New(rand.NewSource(seed))).
			Build()
		require.NoError(err)
		return state
	}

	a, b := build(1, sudo), build(2, sudo)
	require.Equal(a.Balances, b.Balances)
	require.Equal(a.Session, b.Session)

	fa, err := a.Fingerprint()
	require.NoError(err)
	fb, err := b.Fingerprint()
	require.NoError(err)
	require.Equal(fa, fb)
	require.NotEmpty(a.Staking.Stakers, "fingerprint leaves the state intact")

	fc, err := build(1, faucet).Fingerprint()
	require.NoError(err)
	require.NotEqual(fa, fc)
}

func TestState_JSON(t *testing.T) {
	require := require.New(t)

	state, err := devBuilder(t).WithAppchain("debio-appchain", nil).Build()
	require.NoError(err)

	data, err := json.Marshal(state)
	require.NoError(err)

	var doc map[string]map[string]json.RawMessage
	require.NoError(json.Unmarshal(data, &doc))

	for _, section := range []string{"system", "balances", "session", "staking", "sudo", "babe", "imOnline", "grandpa", "beefy", "octopusAppchain", "orders"} {
		require.Contains(doc, section)
	}

	require.JSONEq(`"0x0061736d01000000"`, string(doc["system"]["code"]))
	require.JSONEq(`1`, string(doc["staking"]["validatorCount"]))
	require.JSONEq(`1`, string(doc["staking"]["minimumValidatorCount"]))
	require.JSONEq(`100000000`, string(doc["staking"]["slashRewardFraction"]))
	require.JSONEq(`"5EpzDTRWDoVTnE31ybM2tse77CkZyG2eKC58Z3gbALHphHN6"`, string(doc["sudo"]["key"]))
	require.JSONEq(`"5GRjDZsTCatwWfNosGF8QRAPR1zYPJ7jJppt224tjE7x8cSx"`, string(doc["orders"]["escrowKey"]))
	require.JSONEq(`{"c":[1,4],"allowed_slots":"PrimaryAndSecondaryPlainSlots"}`, string(doc["babe"]["epochConfig"]))
	require.JSONEq(`[]`, string(doc["grandpa"]["authorities"]))
	require.JSONEq(`"debio-appchain"`, string(doc["octopusAppchain"]["appchainId"]))
	require.JSONEq(`[["test-stable.testnet",0]]`, string(doc["octopusAppchain"]["assetIdByName"]))

	alice := devAccount(t, "Alice").String()
	require.JSONEq(fmt.Sprintf(`[[%q,100]]`, alice), string(doc["octopusAppchain"]["validators"]))
	require.JSONEq(fmt.Sprintf(`[[%q,%q,10000000000000000000,"Validator"]]`, alice, alice), string(doc["staking"]["stakers"]))
}

func TestBuild_Logs(t *testing.T) {
	require := require.New(t)

	logger, hook := logtest.NewNullLogger()
	_, err := devBuilder(t).WithLogger(logger).Build()
	require.NoError(err)

	entry := hook.LastEntry()
	require.NotNil(entry)
	require.Equal("Genesis state assembled", entry.Message)
	require.Equal(1, entry.Data["authorities"])
}
