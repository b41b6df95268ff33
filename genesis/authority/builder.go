// Package authority derives the genesis validator set: for every named seed
// one account identity, one key per consensus role and a bonding weight.
package authority

import (
	"fmt"
	"math/big"

	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/inter/account"
	"github.com/octopus-appchains/debio-node/inter/rolekey"
)

// DefaultBondingWeight is the appchain weight assigned when no override is given.
const DefaultBondingWeight = 100

// Entry is one genesis authority. Entries are never mutated after Build.
type Entry struct {
	Name          string
	Account       account.ID
	Roles         rolekey.Set
	BondingWeight *big.Int
}

// Copy returns a deep copy of the entry.
func (e Entry) Copy() Entry {
	cp := Entry{
		Name:    e.Name,
		Account: e.Account,
		Roles:   e.Roles.Copy(),
	}
	if e.BondingWeight != nil {
		cp.BondingWeight = new(big.Int).Set(e.BondingWeight)
	}
	return cp
}

type Option func(*Builder)

// WithDefaultWeight changes the weight of seeds without an explicit override.
func WithDefaultWeight(w *big.Int) Option {
	return func(b *Builder) {
		b.defaultWeight = new(big.Int).Set(w)
	}
}

// WithWeight overrides the weight of a single seed.
func WithWeight(seed string, w *big.Int) Option {
	return func(b *Builder) {
		b.weights[seed] = new(big.Int).Set(w)
	}
}

// Builder turns seed names into authority entries.
type Builder struct {
	deriver       *derive.Deriver
	defaultWeight *big.Int
	weights       map[string]*big.Int
}

// NewBuilder returns a Builder deriving keys with d.
func NewBuilder(d *derive.Deriver, opts ...Option) *Builder {
	b := &Builder{
		deriver:       d,
		defaultWeight: big.NewInt(DefaultBondingWeight),
		weights:       make(map[string]*big.Int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromSeed derives a single entry. The account is the seed's sr25519 key and
// every role key is derived from the same seed under the role's scheme.
func (b *Builder) FromSeed(seed string) (Entry, error) {
	id, err := b.deriver.Account(seed)
	if err != nil {
		return Entry{}, fmt.Errorf("authority %q: %w", seed, err)
	}

	e := Entry{
		Name:          seed,
		Account:       id,
		BondingWeight: new(big.Int).Set(b.weightOf(seed)),
	}
	for _, role := range rolekey.Schema {
		pk, err := b.deriver.FromSeed(role.Scheme(), seed)
		if err != nil {
			return Entry{}, fmt.Errorf("authority %q %s key: %w", seed, role, err)
		}
		e.Roles[role] = pk
	}
	if err := e.Roles.Validate(); err != nil {
		return Entry{}, fmt.Errorf("authority %q: %w", seed, err)
	}
	return e, nil
}

// FromSeeds derives one entry per seed, in order. Two seeds resolving to the
// same account are rejected with an account.DuplicateError.
func (b *Builder) FromSeeds(seeds []string) ([]Entry, error) {
	reg := account.NewRegistry()
	out := make([]Entry, 0, len(seeds))
	for i, seed := range seeds {
		e, err := b.FromSeed(seed)
		if err != nil {
			return nil, err
		}
		if err := reg.Add("authority", i, e.Account); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *Builder) weightOf(seed string) *big.Int {
	if w, ok := b.weights[seed]; ok {
		return w
	}
	return b.defaultWeight
}

// Accounts lists the identities of entries, preserving order.
func Accounts(entries []Entry) []account.ID {
	ids := make([]account.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.Account
	}
	return ids
}
