package authority

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/inter/account"
	"github.com/octopus-appchains/debio-node/inter/rolekey"
)

func TestFromSeeds(t *testing.T) {
	require := require.New(t)

	b := NewBuilder(derive.Default())
	entries, err := b.FromSeeds([]string{"Alice", "Bob"})
	require.NoError(err)
	require.Len(entries, 2)

	d := derive.Default()
	for i, seed := range []string{"Alice", "Bob"} {
		e := entries[i]
		require.Equal(seed, e.Name)

		id, err := d.Account(seed)
		require.NoError(err)
		require.Equal(id, e.Account)
		require.Equal(big.NewInt(DefaultBondingWeight), e.BondingWeight)

		require.NoError(e.Roles.Validate())
		for _, role := range rolekey.Schema {
			want, err := d.FromSeed(role.Scheme(), seed)
			require.NoError(err)
			require.True(want.Equal(e.Roles.Get(role)), "%s %s", seed, role)
		}
	}

	require.Equal([]account.ID{entries[0].Account, entries[1].Account}, Accounts(entries))
}

func TestFromSeeds_Pure(t *testing.T) {
	require := require.New(t)

	seeds := []string{"Alice", "Bob", "Charlie"}
	a, err := NewBuilder(derive.Default()).FromSeeds(seeds)
	require.NoError(err)
	b, err := NewBuilder(derive.Default()).FromSeeds(seeds)
	require.NoError(err)
	require.Equal(a, b)
}

func TestFromSeeds_Duplicate(t *testing.T) {
	require := require.New(t)

	_, err := NewBuilder(derive.Default()).FromSeeds([]string{"Alice", "Bob", "Alice"})
	require.ErrorIs(err, account.ErrDuplicate)

	var dup *account.DuplicateError
	require.ErrorAs(err, &dup)
	require.Equal("authority", dup.Kind)
	require.Equal(2, dup.Index)
	require.Equal("authority[0]", dup.Previous)
}

func TestFromSeeds_Empty(t *testing.T) {
	entries, err := NewBuilder(derive.Default()).FromSeeds(nil)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWeights(t *testing.T) {
	require := require.New(t)

	b := NewBuilder(derive.Default(),
		WithDefaultWeight(big.NewInt(7)),
		WithWeight("Bob", big.NewInt(250)),
	)
	entries, err := b.FromSeeds([]string{"Alice", "Bob"})
	require.NoError(err)
	require.Equal(big.NewInt(7), entries[0].BondingWeight)
	require.Equal(big.NewInt(250), entries[1].BondingWeight)

	// entries own their weights
	entries[0].BondingWeight.SetInt64(1)
	again, err := b.FromSeed("Alice")
	require.NoError(err)
	require.Equal(big.NewInt(7), again.BondingWeight)
}

func TestEntryCopy(t *testing.T) {
	require := require.New(t)

	e, err := NewBuilder(derive.Default()).FromSeed("Alice")
	require.NoError(err)
	cp := e.Copy()
	require.Equal(e, cp)

	cp.Roles[rolekey.Babe].Raw[0] ^= 0xff
	cp.BondingWeight.SetInt64(0)
	require.NotEqual(e.Roles[rolekey.Babe].Raw, cp.Roles[rolekey.Babe].Raw)
	require.Equal(big.NewInt(DefaultBondingWeight), e.BondingWeight)

	e.BondingWeight = nil
	require.Nil(e.Copy().BondingWeight)
}
