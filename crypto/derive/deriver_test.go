package derive

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/octopus-appchains/debio-node/inter/rolekey"
)

var allSchemes = []uint8{rolekey.Types.Sr25519, rolekey.Types.Ed25519, rolekey.Types.Ecdsa}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		phrase   string
		path     []string
		password string
		hasPass  bool
	}{
		{name: "dev seed", in: "//Alice", path: []string{"//Alice"}},
		{name: "stash", in: "//Alice//stash", path: []string{"//Alice", "//stash"}},
		{name: "soft", in: "//Alice/0", path: []string{"//Alice", "/0"}},
		{name: "password", in: "//Bob///secret", path: []string{"//Bob"}, password: "secret", hasPass: true},
		{name: "empty password", in: "//Bob///", path: []string{"//Bob"}, hasPass: true},
		{name: "phrase", in: DevPhrase + "//Eve", phrase: DevPhrase, path: []string{"//Eve"}},
		{name: "phrase only", in: DevPhrase, phrase: DevPhrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			u, err := ParseURI(tt.in)
			require.NoError(err)
			require.Equal(tt.phrase, u.Phrase)
			require.Equal(tt.password, u.Password)
			require.Equal(tt.hasPass, u.HasPassword)

			got := make([]string, 0, len(u.Path))
			for _, j := range u.Path {
				got = append(got, j.String())
			}
			if len(tt.path) == 0 {
				require.Empty(got)
			} else {
				require.Equal(tt.path, got)
			}
		})
	}

	_, err := ParseURI("//Alice////x")
	require.NoError(t, err, "a password containing slashes is allowed")

	_, err = ParseURI("//Alice//")
	require.ErrorIs(t, err, ErrEmptyJunction)
}

func TestNewJunction(t *testing.T) {
	require := require.New(t)

	alice := NewJunction("Alice", true)
	var want [ChainCodeSize]byte
	copy(want[:], []byte{0x14, 'A', 'l', 'i', 'c', 'e'})
	require.Equal(want, alice.ChainCode)

	numeric := NewJunction("1", true)
	want = [ChainCodeSize]byte{}
	want[0] = 1
	require.Equal(want, numeric.ChainCode)

	long := NewJunction("a-junction-name-that-does-not-fit-into-a-chain-code", true)
	require.NotEqual([ChainCodeSize]byte{}, long.ChainCode)
}

// TestKnownVectors pins the development keys to the values substrate tooling
// derives from the same phrase.
func TestKnownVectors(t *testing.T) {
	tests := []struct {
		scheme uint8
		suri   string
		want   string
	}{
		{rolekey.Types.Sr25519, "//Alice", "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"},
		{rolekey.Types.Sr25519, "//Bob", "8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"},
		{rolekey.Types.Sr25519, "//Alice//stash", "be5ddb1579b72e84524fc29e78609e3caf42e85aa118ebfe0b0ad404b5bdd25f"},
		{rolekey.Types.Ed25519, "//Alice", "88dc3417d5058ec4b4503e0c12ea1a0a89be200fe98922423d4334014fa6b0ee"},
		{rolekey.Types.Ecdsa, "//Alice", "020a1091341fe5664bfa1782d5e04779689068c916b04cb365ec3153755684d9a1"},
	}

	d := Default()
	for _, test := range tests {
		t.Run(rolekey.SchemeName(test.scheme)+test.suri, func(t *testing.T) {
			pk, err := d.Public(test.scheme, test.suri)
			require.NoError(t, err)
			require.Equal(t, test.want, hex.EncodeToString(pk.Raw))
		})
	}

	alice, err := d.Account("Alice")
	require.NoError(t, err)
	require.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", alice.String())
}

// TestDeterminism checks the same (seed, scheme) always produces the same key.
func TestDeterminism(t *testing.T) {
	require := require.New(t)

	for _, scheme := range allSchemes {
		a, err := Default().FromSeed(scheme, "Alice")
		require.NoError(err)
		b, err := Default().FromSeed(scheme, "Alice")
		require.NoError(err)
		require.True(a.Equal(b), rolekey.SchemeName(scheme))
		require.NoError(a.Validate())
	}
}

// TestDistinct checks different seeds, stash variants and schemes diverge.
func TestDistinct(t *testing.T) {
	require := require.New(t)
	d := Default()

	seen := map[string]string{}
	for _, scheme := range allSchemes {
		for _, seed := range []string{"Alice", "Bob", "Alice//stash", "Bob//stash", "Charlie"} {
			pk, err := d.FromSeed(scheme, seed)
			require.NoError(err)
			label := rolekey.SchemeName(scheme) + ":" + seed
			// compare raw bytes only so a clash across schemes would show up
			key := string(pk.Raw[len(pk.Raw)-32:])
			prev, dup := seen[key]
			require.False(dup, "%s collides with %s", label, prev)
			seen[key] = label
		}
	}
}

func TestAccount(t *testing.T) {
	require := require.New(t)
	d := Default()

	alice, err := d.Account("Alice")
	require.NoError(err)
	stash, err := d.Account("Alice//stash")
	require.NoError(err)
	require.NotEqual(alice, stash)

	pk, err := d.FromSeed(rolekey.Types.Sr25519, "Alice")
	require.NoError(err)
	require.Equal(pk.Raw, alice.Bytes())

	viaURI, err := d.AccountFromURI("//Alice")
	require.NoError(err)
	require.Equal(alice, viaURI)
}

func TestPasswordChangesKey(t *testing.T) {
	require := require.New(t)
	d := Default()

	plain, err := d.Public(rolekey.Types.Ed25519, "//Alice")
	require.NoError(err)
	withPass, err := d.Public(rolekey.Types.Ed25519, "//Alice///pw")
	require.NoError(err)
	require.False(plain.Equal(withPass))
}

func TestPhraseResolution(t *testing.T) {
	require := require.New(t)

	explicit, err := Default().Public(rolekey.Types.Sr25519, DevPhrase+"//Alice")
	require.NoError(err)
	implicit, err := Default().Public(rolekey.Types.Sr25519, "//Alice")
	require.NoError(err)
	require.True(explicit.Equal(implicit))

	hexSeed := "0x0101010101010101010101010101010101010101010101010101010101010101"
	custom, err := New(hexSeed)
	require.NoError(err)
	fromHex, err := custom.FromSeed(rolekey.Types.Sr25519, "Alice")
	require.NoError(err)
	require.False(fromHex.Equal(implicit))
}

func TestErrors(t *testing.T) {
	require := require.New(t)
	d := Default()

	_, err := d.FromSeed(0x7f, "Alice")
	require.ErrorIs(err, rolekey.ErrUnsupportedScheme)

	_, err = d.Public(rolekey.Types.Sr25519, "//Alice/soft")
	require.ErrorIs(err, ErrSoftJunction)

	_, err = d.Public(rolekey.Types.Sr25519, "not a valid mnemonic//Alice")
	require.Error(err)

	_, err = New("0x1234")
	require.Error(err)

	_, err = New("definitely not twelve words")
	require.Error(err)
}
