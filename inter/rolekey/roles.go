package rolekey

import "fmt"

// Role names a consensus subsystem an authority holds a key for.
type Role uint8

// Roles in session-key schema order. The order is a contract with the
// runtime's SessionKeys type and must not change independently of it.
const (
	Babe     Role = iota // block production
	Grandpa              // finality
	ImOnline             // off-chain worker heartbeats
	Beefy                // bridge relay
	Octopus              // external-chain bridge

	NumRoles = int(Octopus) + 1
)

// Schema lists every role in the order the runtime packs session keys.
var Schema = [NumRoles]Role{Babe, Grandpa, ImOnline, Beefy, Octopus}

var roleInfo = [NumRoles]struct {
	name   string
	keyID  string
	scheme uint8
}{
	Babe:     {"babe", "babe", Types.Sr25519},
	Grandpa:  {"grandpa", "gran", Types.Ed25519},
	ImOnline: {"im_online", "imon", Types.Sr25519},
	Beefy:    {"beefy", "beef", Types.Ecdsa},
	Octopus:  {"octopus", "octo", Types.Sr25519},
}

func (r Role) valid() bool { return int(r) < NumRoles }

// String returns the session-key field name of the role.
func (r Role) String() string {
	if !r.valid() {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleInfo[r].name
}

// KeyTypeID is the four-character keystore identifier of the role.
func (r Role) KeyTypeID() string {
	if !r.valid() {
		return ""
	}
	return roleInfo[r].keyID
}

// Scheme is the signature scheme the runtime expects for the role.
func (r Role) Scheme() uint8 {
	return roleInfo[r].scheme
}

// Set holds exactly one key per role, indexed by Role.
type Set [NumRoles]PubKey

// Get returns the key registered for role r.
func (s Set) Get(r Role) PubKey {
	return s[r]
}

// Validate checks every slot is filled with a key of the scheme its role requires.
func (s Set) Validate() error {
	for _, r := range Schema {
		pk := s[r]
		if pk.Empty() {
			return fmt.Errorf("%s key missing", r)
		}
		if pk.Type != r.Scheme() {
			return fmt.Errorf("%s key: want %s, got %s", r, SchemeName(r.Scheme()), SchemeName(pk.Type))
		}
		if err := pk.Validate(); err != nil {
			return fmt.Errorf("%s key: %w", r, err)
		}
	}
	return nil
}

// Copy deep-copies every key.
func (s Set) Copy() Set {
	var cp Set
	for i := range s {
		cp[i] = s[i].Copy()
	}
	return cp
}
