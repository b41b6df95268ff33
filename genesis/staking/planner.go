// Package staking plans the genesis staker list: one validator per authority
// and one nominator per extra identity, each nominator backing a randomly
// sampled subset of the authorities.
package staking

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/octopus-appchains/debio-node/genesis/authority"
	"github.com/octopus-appchains/debio-node/genesis/balances"
	"github.com/octopus-appchains/debio-node/inter/account"
)

var (
	// ErrNoAuthorities is returned when nominators have nobody to back.
	ErrNoAuthorities = errors.New("nominators require at least one authority")
	// ErrBadAmounts is returned when the planner's stash or endowment is unset.
	ErrBadAmounts = errors.New("stash and endowment must be positive")
)

// Status is the staking role of an assignment.
type Status uint8

const (
	Validator Status = iota
	Nominator
)

func (s Status) String() string {
	switch s {
	case Validator:
		return "Validator"
	case Nominator:
		return "Nominator"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Assignment is one staker entry. Controller and stash coincide at genesis.
type Assignment struct {
	Controller account.ID
	Stash      account.ID
	Stake      *big.Int
	Status     Status
	// Targets lists the backed authorities of a nominator, without repeats.
	Targets []account.ID
}

// MarshalJSON renders the runtime's `(stash, controller, balance, StakerStatus)` tuple.
func (a Assignment) MarshalJSON() ([]byte, error) {
	var status interface{} = "Validator"
	if a.Status == Nominator {
		targets := a.Targets
		if targets == nil {
			targets = []account.ID{}
		}
		status = map[string][]account.ID{"Nominator": targets}
	}
	return json.Marshal([]interface{}{a.Stash, a.Controller, a.Stake, status})
}

// Planner builds staker assignments.
type Planner struct {
	// Stash is bonded by every staker.
	Stash *big.Int
	// Endowment is granted to stakers missing from the ledger.
	Endowment *big.Int
	// MaxNominations caps the size of a nomination set.
	MaxNominations int
	// Rand drives nomination sampling. Nil means a generator seeded from OS entropy.
	Rand *rand.Rand

	Log logrus.FieldLogger
}

// NewEntropyRand returns a generator seeded from the OS entropy source.
func NewEntropyRand() *rand.Rand {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Errorf("read entropy: %w", err))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

// Plan returns one Validator assignment per authority followed by one
// Nominator assignment per nominator, and endows every staker missing from
// ledger. Nothing is written to ledger when Plan fails.
func (p *Planner) Plan(authorities []authority.Entry, nominators []account.ID, ledger *balances.Ledger) ([]Assignment, error) {
	if p.Stash == nil || p.Stash.Sign() <= 0 || p.Endowment == nil || p.Endowment.Sign() <= 0 {
		return nil, ErrBadAmounts
	}

	validators := authority.Accounts(authorities)
	reg := account.NewRegistry()
	if err := reg.AddAll("authority", validators); err != nil {
		return nil, err
	}
	if err := reg.AddAll("nominator", nominators); err != nil {
		return nil, err
	}
	if len(nominators) > 0 && len(validators) == 0 {
		return nil, ErrNoAuthorities
	}

	rnd := p.Rand
	if rnd == nil && len(nominators) > 0 {
		rnd = NewEntropyRand()
	}
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	out := make([]Assignment, 0, len(validators)+len(nominators))
	for _, id := range validators {
		out = append(out, Assignment{
			Controller: id,
			Stash:      id,
			Stake:      new(big.Int).Set(p.Stash),
			Status:     Validator,
		})
	}

	limit := p.limit(len(validators))
	for _, id := range nominators {
		count := rnd.Intn(limit)
		targets := sample(rnd, validators, count)
		log.WithFields(logrus.Fields{
			"nominator": id.String(),
			"targets":   len(targets),
		}).Debug("Nominations sampled")
		out = append(out, Assignment{
			Controller: id,
			Stash:      id,
			Stake:      new(big.Int).Set(p.Stash),
			Status:     Nominator,
			Targets:    targets,
		})
	}

	for _, id := range append(validators, nominators...) {
		added, err := ledger.EnsureEndowed(id, p.Endowment)
		if err != nil {
			return nil, err
		}
		if added {
			log.WithField("account", id.String()).Debug("Endowed staker")
		}
	}
	return out, nil
}

// limit is the exclusive upper bound of a nomination-set size draw.
func (p *Planner) limit(n int) int {
	max := p.MaxNominations
	if max <= 0 || max > n {
		max = n
	}
	return max
}

// sample picks count distinct elements of from by a partial Fisher-Yates shuffle.
func sample(rnd *rand.Rand, from []account.ID, count int) []account.ID {
	pool := make([]int, len(from))
	for i := range pool {
		pool[i] = i
	}
	out := make([]account.ID, 0, count)
	for i := 0; i < count; i++ {
		j := i + rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, from[pool[i]])
	}
	return out
}
