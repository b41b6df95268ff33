// Package genesis assembles the runtime genesis state from the authority set,
// the staking plan, the session keys and the endowment table.
//
// A Builder accumulates the required parts (runtime code, authorities, root
// key, escrow key) and the optional ones, then produces a State exactly once:
//
//	state, err := genesis.NewBuilder().
//		WithRuntime(code).
//		WithAuthorities(auths).
//		WithRootKey(sudo).
//		WithEscrowKey(escrow).
//		Build()
//
// Build fails fast on the first missing required part. A failed Build leaves
// the Builder reusable; a successful one seals it.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/sirupsen/logrus"

	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/genesis/authority"
	"github.com/octopus-appchains/debio-node/genesis/balances"
	"github.com/octopus-appchains/debio-node/genesis/session"
	"github.com/octopus-appchains/debio-node/genesis/staking"
	"github.com/octopus-appchains/debio-node/inter/account"
)

var (
	ErrMissingRuntime   = errors.New("genesis: runtime code not set")
	ErrNoAuthorities    = errors.New("genesis: at least one authority is required")
	ErrMissingRootKey   = errors.New("genesis: sudo key not set")
	ErrMissingEscrowKey = errors.New("genesis: escrow key not set")
	ErrAlreadyBuilt     = errors.New("genesis: state already built")
	ErrBadWeight        = errors.New("genesis: invalid appchain validator weight")
)

// maxTotalWeight bounds the sum of appchain weights so the validator set
// never overflows pos.Weight.
const maxTotalWeight = math.MaxUint32 / 2

// Builder collects genesis inputs. It is not safe for concurrent use.
type Builder struct {
	code        []byte
	authorities []authority.Entry
	nominators  []account.ID
	endowed     []account.ID
	hasEndowed  bool
	rootKey     *account.ID
	escrowKey   *account.ID
	appchainID  string
	assets      []Asset
	rand        *rand.Rand
	deriver     *derive.Deriver
	log         logrus.FieldLogger

	built bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		deriver: derive.Default(),
		log:     logrus.StandardLogger(),
	}
}

// WithRuntime sets the runtime code embedded as system.code.
func (b *Builder) WithRuntime(code []byte) *Builder {
	b.code = append([]byte(nil), code...)
	return b
}

// WithAuthorities sets the genesis validators.
func (b *Builder) WithAuthorities(entries []authority.Entry) *Builder {
	b.authorities = make([]authority.Entry, len(entries))
	for i, e := range entries {
		b.authorities[i] = e.Copy()
	}
	return b
}

// WithNominators sets the extra nominator identities.
func (b *Builder) WithNominators(ids []account.ID) *Builder {
	b.nominators = append([]account.ID(nil), ids...)
	return b
}

// WithEndowed replaces the default endowment list. Stakers missing from it
// are endowed during Build.
func (b *Builder) WithEndowed(ids []account.ID) *Builder {
	b.endowed = append([]account.ID(nil), ids...)
	b.hasEndowed = true
	return b
}

// WithRootKey sets the sudo key.
func (b *Builder) WithRootKey(id account.ID) *Builder {
	b.rootKey = &id
	return b
}

// WithEscrowKey sets the admin key of the orders pallet.
func (b *Builder) WithEscrowKey(id account.ID) *Builder {
	b.escrowKey = &id
	return b
}

// WithAppchain sets the bridge identifier and the initial asset table.
// A nil table keeps the default registration.
func (b *Builder) WithAppchain(id string, assets []Asset) *Builder {
	b.appchainID = id
	if assets != nil {
		b.assets = append([]Asset(nil), assets...)
	}
	return b
}

// WithRand sets the nomination sampling source.
func (b *Builder) WithRand(r *rand.Rand) *Builder {
	b.rand = r
	return b
}

// WithDeriver sets the deriver used for the default endowment list.
func (b *Builder) WithDeriver(d *derive.Deriver) *Builder {
	b.deriver = d
	return b
}

// WithLogger sets the build logger.
func (b *Builder) WithLogger(log logrus.FieldLogger) *Builder {
	b.log = log
	return b
}

func (b *Builder) checkRequired() error {
	switch {
	case len(b.code) == 0:
		return ErrMissingRuntime
	case len(b.authorities) == 0:
		return ErrNoAuthorities
	case b.rootKey == nil:
		return ErrMissingRootKey
	case b.escrowKey == nil:
		return ErrMissingEscrowKey
	}
	return nil
}

// Build assembles the genesis state.
func (b *Builder) Build() (*State, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	if err := b.checkRequired(); err != nil {
		return nil, err
	}

	endowed, err := b.endowedAccounts()
	if err != nil {
		return nil, err
	}
	ledger := balances.New()
	for _, id := range endowed {
		if err := ledger.Endow(id, Endowment()); err != nil {
			return nil, err
		}
	}

	planner := &staking.Planner{
		Stash:          Stash(),
		Endowment:      Endowment(),
		MaxNominations: MaxNominations,
		Rand:           b.rand,
		Log:            b.log,
	}
	stakers, err := planner.Plan(b.authorities, b.nominators, ledger)
	if err != nil {
		return nil, err
	}

	keys, err := session.Aggregate(b.authorities)
	if err != nil {
		return nil, err
	}

	weights, set, err := appchainValidators(b.authorities)
	if err != nil {
		return nil, err
	}

	assets := b.assets
	if assets == nil {
		assets = []Asset{{Name: DefaultAppchainAsset, ID: 0}}
	}

	count := uint32(len(b.authorities))
	epoch := DefaultEpochConfig()
	state := &State{
		System:   SystemConfig{Code: append([]byte(nil), b.code...)},
		Balances: BalancesConfig{Balances: ledger.Entries()},
		Session:  SessionConfig{Keys: keys},
		Staking: StakingConfig{
			ValidatorCount:        count,
			MinimumValidatorCount: count,
			Invulnerables:         authority.Accounts(b.authorities),
			SlashRewardFraction:   SlashRewardFraction,
			Stakers:               stakers,
		},
		Sudo:     SudoConfig{Key: *b.rootKey},
		Babe:     BabeConfig{Authorities: []json.RawMessage{}, EpochConfig: &epoch},
		ImOnline: ImOnlineConfig{Keys: []json.RawMessage{}},
		Grandpa:  GrandpaConfig{Authorities: []json.RawMessage{}},
		Beefy:    BeefyConfig{Authorities: []json.RawMessage{}},
		OctopusAppchain: OctopusAppchainConfig{
			AppchainID:    b.appchainID,
			Validators:    weights,
			AssetIDByName: append(make([]Asset, 0, len(assets)), assets...),
		},
		Orders:      OrdersConfig{EscrowKey: *b.escrowKey},
		appchainSet: set,
	}

	b.built = true
	b.log.WithFields(logrus.Fields{
		"authorities": len(b.authorities),
		"nominators":  len(b.nominators),
		"endowed":     ledger.Len(),
		"weight":      set.TotalWeight(),
	}).Info("Genesis state assembled")
	return state, nil
}

func (b *Builder) endowedAccounts() ([]account.ID, error) {
	if b.hasEndowed {
		return b.endowed, nil
	}
	ids := make([]account.ID, 0, 2*len(DevSeeds))
	for _, suffix := range []string{"", "//stash"} {
		for _, seed := range DevSeeds {
			id, err := b.deriver.Account(seed + suffix)
			if err != nil {
				return nil, fmt.Errorf("default endowment: %w", err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// appchainValidators builds the bridge weight table in authority order and
// the matching validator set.
func appchainValidators(entries []authority.Entry) ([]ValidatorWeight, *pos.Validators, error) {
	builder := pos.NewBuilder()
	total := uint64(0)
	for i, e := range entries {
		w := e.BondingWeight
		if w == nil || w.Sign() <= 0 || !w.IsUint64() || w.Uint64() > maxTotalWeight {
			return nil, nil, fmt.Errorf("%w: %s has %v", ErrBadWeight, e.Account, w)
		}
		total += w.Uint64()
		if total > maxTotalWeight {
			return nil, nil, fmt.Errorf("%w: total exceeds %d", ErrBadWeight, uint64(maxTotalWeight))
		}
		builder.Set(idx.ValidatorID(i+1), pos.Weight(w.Uint64()))
	}
	set := builder.Build()

	out := make([]ValidatorWeight, len(entries))
	for i, e := range entries {
		weight := set.Get(idx.ValidatorID(i + 1))
		out[i] = ValidatorWeight{Account: e.Account, Weight: new(big.Int).SetUint64(uint64(weight))}
	}
	return out, set, nil
}
