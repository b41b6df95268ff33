// Package derive turns textual secret URIs into reproducible key pairs for the
// signature schemes the runtime uses: sr25519 for accounts and most
// consensus roles, ed25519 for finality and compressed secp256k1 for the
// bridge relay.
//
// A URI such as "//Alice//stash" is resolved against the deriver's base
// phrase (the well-known development phrase unless another is configured)
// and walked junction by junction with hard derivation. The same
// (URI, scheme) pair always yields the same key.
package derive

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"
	"strings"

	schnorrkel "github.com/ChainSafe/go-schnorrkel"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/pbkdf2"

	"github.com/octopus-appchains/debio-node/inter/account"
	"github.com/octopus-appchains/debio-node/inter/rolekey"
	"github.com/octopus-appchains/debio-node/utils/fast"
	"github.com/octopus-appchains/debio-node/utils/scale"
)

// DevPhrase is the publicly known mnemonic behind the //Alice, //Bob, ...
// development accounts.
const DevPhrase = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

// SeedSize is the length of a scheme secret seed.
const SeedSize = 32

// HDKD tags mixed into every hard derivation step of the seed-based
// schemes. sr25519 derives through schnorrkel's transcript instead.
var hdkdTags = map[uint8]string{
	rolekey.Types.Ed25519: "Ed25519HDKD",
	rolekey.Types.Ecdsa:   "Secp256k1HDKD",
}

// Deriver derives keys from secret URIs relative to a base phrase.
type Deriver struct {
	phrase string
}

// New returns a Deriver whose empty-phrase URIs resolve to phrase. An empty
// phrase selects DevPhrase.
func New(phrase string) (*Deriver, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		phrase = DevPhrase
	}
	if _, err := miniSecret(phrase, ""); err != nil {
		return nil, err
	}
	return &Deriver{phrase: phrase}, nil
}

// Default returns a Deriver over DevPhrase.
func Default() *Deriver {
	return &Deriver{phrase: DevPhrase}
}

// Secret resolves suri into the secret seed of the given scheme.
func (d *Deriver) Secret(scheme uint8, suri string) ([SeedSize]byte, error) {
	tag, ok := hdkdTags[scheme]
	if !ok && scheme != rolekey.Types.Sr25519 {
		return [SeedSize]byte{}, fmt.Errorf("%w: 0x%02x", rolekey.ErrUnsupportedScheme, scheme)
	}

	uri, err := ParseURI(suri)
	if err != nil {
		return [SeedSize]byte{}, err
	}
	phrase := uri.Phrase
	if phrase == "" {
		phrase = d.phrase
	}

	seed, err := miniSecret(phrase, uri.Password)
	if err != nil {
		return [SeedSize]byte{}, err
	}
	for _, j := range uri.Path {
		if !j.Hard {
			return [SeedSize]byte{}, fmt.Errorf("%w: %s in %s", ErrSoftJunction, j, uri)
		}
		if scheme == rolekey.Types.Sr25519 {
			if seed, err = sr25519HardDerive(seed, j.ChainCode); err != nil {
				return [SeedSize]byte{}, fmt.Errorf("derive %s in %s: %w", j, uri, err)
			}
			continue
		}
		seed = hardDerive(tag, seed, j.ChainCode)
	}
	return seed, nil
}

// Public resolves suri into the public key of the given scheme.
func (d *Deriver) Public(scheme uint8, suri string) (rolekey.PubKey, error) {
	seed, err := d.Secret(scheme, suri)
	if err != nil {
		return rolekey.PubKey{}, err
	}
	raw, err := publicFromSeed(scheme, seed)
	if err != nil {
		return rolekey.PubKey{}, fmt.Errorf("derive %s key for %s: %w", rolekey.SchemeName(scheme), suri, err)
	}
	return rolekey.PubKey{Type: scheme, Raw: raw}, nil
}

// FromSeed derives the key of a named development seed: "Alice" resolves
// to "//Alice", "Alice//stash" to "//Alice//stash".
func (d *Deriver) FromSeed(scheme uint8, seed string) (rolekey.PubKey, error) {
	return d.Public(scheme, "//"+seed)
}

// Account derives the sr25519 account identity of a named seed.
func (d *Deriver) Account(seed string) (account.ID, error) {
	return d.AccountFromURI("//" + seed)
}

// AccountFromURI derives the sr25519 account identity of a full secret URI.
func (d *Deriver) AccountFromURI(suri string) (account.ID, error) {
	pk, err := d.Public(rolekey.Types.Sr25519, suri)
	if err != nil {
		return account.ID{}, err
	}
	return account.FromPublic(pk)
}

// miniSecret turns a phrase into the 32-byte root seed: a 0x-prefixed hex
// seed is taken verbatim, a mnemonic goes through PBKDF2 over its entropy.
func miniSecret(phrase, password string) ([SeedSize]byte, error) {
	var out [SeedSize]byte
	if strings.HasPrefix(phrase, "0x") {
		raw, err := hexutil.Decode(phrase)
		if err != nil {
			return out, fmt.Errorf("invalid hex seed: %w", err)
		}
		if len(raw) != SeedSize {
			return out, fmt.Errorf("invalid hex seed: want %d bytes, got %d", SeedSize, len(raw))
		}
		copy(out[:], raw)
		return out, nil
	}

	entropy, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return out, fmt.Errorf("invalid mnemonic: %w", err)
	}
	key := pbkdf2.Key(entropy, []byte("mnemonic"+password), 2048, 64, sha512.New)
	copy(out[:], key[:SeedSize])
	return out, nil
}

// hardDerive computes blake2b-256(SCALE(tag) ‖ seed ‖ chaincode).
func hardDerive(tag string, seed [SeedSize]byte, cc [ChainCodeSize]byte) [SeedSize]byte {
	w := fast.NewWriter(make([]byte, 0, len(tag)+1+SeedSize+ChainCodeSize))
	scale.WriteString(w, tag)
	_, _ = w.Write(seed[:])
	_, _ = w.Write(cc[:])
	return blake2b.Sum256(w.Bytes())
}

// sr25519HardDerive expands the mini secret in ed25519 mode and derives the
// child mini secret for chain code cc with an empty context.
func sr25519HardDerive(seed [SeedSize]byte, cc [ChainCodeSize]byte) ([SeedSize]byte, error) {
	msk, err := schnorrkel.NewMiniSecretKeyFromRaw(seed)
	if err != nil {
		return [SeedSize]byte{}, err
	}
	child, _, err := msk.ExpandEd25519().HardDeriveMiniSecretKey([]byte{}, cc)
	if err != nil {
		return [SeedSize]byte{}, err
	}
	return child.Encode(), nil
}

func publicFromSeed(scheme uint8, seed [SeedSize]byte) ([]byte, error) {
	switch scheme {
	case rolekey.Types.Ed25519:
		pub := ed25519.NewKeyFromSeed(seed[:]).Public().(ed25519.PublicKey)
		return []byte(pub), nil
	case rolekey.Types.Ecdsa:
		key, err := crypto.ToECDSA(seed[:])
		if err != nil {
			return nil, err
		}
		return crypto.CompressPubkey(&key.PublicKey), nil
	case rolekey.Types.Sr25519:
		msk, err := schnorrkel.NewMiniSecretKeyFromRaw(seed)
		if err != nil {
			return nil, err
		}
		pub := msk.Public().Encode()
		return pub[:], nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", rolekey.ErrUnsupportedScheme, scheme)
}
