// Package rolekey provides abstractions for the public keys an authority
// registers for each consensus role. It defines a PubKey that carries its
// signature scheme alongside the raw bytes, the list of consensus roles in the
// order the runtime's session-key schema declares them, and a fixed-arity Set
// holding one key per role.
package rolekey

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PubKey represents a role public key.
// It decouples the key type from the raw bytes, so the same value can hold an
// sr25519, ed25519 or compressed secp256k1 key.
type PubKey struct {
	// Type identifies the signature scheme (see Types).
	Type uint8
	// Raw contains the actual public key bytes.
	Raw []byte
}

// Types enumerates the supported signature schemes. The values follow the
// variant indices of the runtime's MultiSigner enum.
var Types = struct {
	Ed25519 uint8
	Sr25519 uint8
	Ecdsa   uint8
}{
	Ed25519: 0x00,
	Sr25519: 0x01,
	Ecdsa:   0x02,
}

// ErrUnsupportedScheme is returned for a scheme byte or name this package does not know.
var ErrUnsupportedScheme = errors.New("unsupported key scheme")

// SchemeSize returns the public key length of a scheme.
func SchemeSize(scheme uint8) (int, error) {
	switch scheme {
	case Types.Ed25519, Types.Sr25519:
		return 32, nil
	case Types.Ecdsa:
		return 33, nil
	}
	return 0, fmt.Errorf("%w: 0x%02x", ErrUnsupportedScheme, scheme)
}

// SchemeName returns the human-readable scheme name used by the CLI.
func SchemeName(scheme uint8) string {
	switch scheme {
	case Types.Ed25519:
		return "ed25519"
	case Types.Sr25519:
		return "sr25519"
	case Types.Ecdsa:
		return "ecdsa"
	}
	return fmt.Sprintf("unknown(0x%02x)", scheme)
}

// ParseScheme is the inverse of SchemeName.
func ParseScheme(name string) (uint8, error) {
	switch name {
	case "ed25519":
		return Types.Ed25519, nil
	case "sr25519":
		return Types.Sr25519, nil
	case "ecdsa", "secp256k1":
		return Types.Ecdsa, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
}

// Empty checks if the public key is uninitialized or zeroed out.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// String returns the 0x-prefixed hex of the raw key bytes.
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Raw)
}

// Bytes returns the flat byte slice representation of the public key.
// The format is [Type byte] + [Raw bytes...].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy creates a deep copy of the PubKey.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// Equal reports whether both keys share scheme and bytes.
func (pk PubKey) Equal(other PubKey) bool {
	return pk.Type == other.Type && string(pk.Raw) == string(other.Raw)
}

// Validate checks that Raw has the length its scheme requires.
func (pk PubKey) Validate() error {
	size, err := SchemeSize(pk.Type)
	if err != nil {
		return err
	}
	if len(pk.Raw) != size {
		return fmt.Errorf("%s pubkey: want %d bytes, got %d", SchemeName(pk.Type), size, len(pk.Raw))
	}
	return nil
}

// FromBytes reconstructs a PubKey from its flat [Type]+[Raw] form.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	pk := PubKey{Type: b[0], Raw: common.CopyBytes(b[1:])}
	if err := pk.Validate(); err != nil {
		return PubKey{}, err
	}
	return pk, nil
}
