package balances

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/octopus-appchains/debio-node/inter/account"
)

var (
	sudo = account.MustFromHex("7a3e54fe532670c009cc839a7a9b8578239d08ed5234909d991da8ba39f45346")
	api  = account.MustFromHex("c0f9aaa3ce6b6c57eadc5fef443aaf8152fa8e49a8fc684ecc47c3304fdf3c0c")
)

func TestLedger(t *testing.T) {
	require := require.New(t)

	l := New()
	require.NoError(l.Endow(sudo, big.NewInt(10)))
	require.NoError(l.Endow(api, big.NewInt(20)))

	require.Equal(2, l.Len())
	require.Equal(big.NewInt(30), l.Total())
	require.Equal(big.NewInt(10), l.Get(sudo))
	require.Nil(l.Get(account.ID{}))

	entries := l.Entries()
	require.Equal(sudo, entries[0].Account)
	require.Equal(api, entries[1].Account)

	// copies are detached from the ledger
	entries[0].Amount.SetInt64(99)
	require.Equal(big.NewInt(10), l.Get(sudo))
}

func TestLedger_Duplicate(t *testing.T) {
	require := require.New(t)

	l := New()
	require.NoError(l.Endow(sudo, big.NewInt(1)))
	err := l.Endow(sudo, big.NewInt(2))
	require.ErrorIs(err, account.ErrDuplicate)
	require.Equal(1, l.Len())

	require.ErrorIs(l.Endow(api, big.NewInt(-1)), ErrNegativeBalance)
}

func TestLedger_EnsureEndowed(t *testing.T) {
	require := require.New(t)

	l := New()
	added, err := l.EnsureEndowed(sudo, big.NewInt(5))
	require.NoError(err)
	require.True(added)

	added, err = l.EnsureEndowed(sudo, big.NewInt(7))
	require.NoError(err)
	require.False(added)
	require.Equal(big.NewInt(5), l.Get(sudo), "existing balance is kept")
}

func TestEntry_JSON(t *testing.T) {
	amount, _ := new(big.Int).SetString("10000000000000000000000", 10)
	data, err := json.Marshal(Entry{Account: sudo, Amount: amount})
	require.NoError(t, err)
	require.JSONEq(t, `["5EpzDTRWDoVTnE31ybM2tse77CkZyG2eKC58Z3gbALHphHN6", 10000000000000000000000]`, string(data))
}
