// Package balances holds the genesis endowment table: an insertion-ordered
// map from account to initial free balance with unique keys.
package balances

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/octopus-appchains/debio-node/inter/account"
)

// ErrNegativeBalance is returned for endowments below zero.
var ErrNegativeBalance = errors.New("negative endowment")

// Entry is one endowed account.
type Entry struct {
	Account account.ID
	Amount  *big.Int
}

// MarshalJSON renders the entry as the runtime's `(AccountId, Balance)` tuple.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Account, e.Amount})
}

// Ledger is an ordered endowment table. The zero value is not usable; call New.
type Ledger struct {
	entries []Entry
	index   map[account.ID]int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{index: make(map[account.ID]int)}
}

// Endow adds a new account. Endowing the same account twice is a duplicate identity.
func (l *Ledger) Endow(id account.ID, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w for %s", ErrNegativeBalance, id)
	}
	if prev, ok := l.index[id]; ok {
		return &account.DuplicateError{Kind: "endowment", Index: len(l.entries), ID: id, Previous: fmt.Sprintf("endowment[%d]", prev)}
	}
	l.index[id] = len(l.entries)
	l.entries = append(l.entries, Entry{Account: id, Amount: new(big.Int).Set(amount)})
	return nil
}

// EnsureEndowed endows id with amount unless it is already present and
// reports whether an entry was added.
func (l *Ledger) EnsureEndowed(id account.ID, amount *big.Int) (bool, error) {
	if l.Contains(id) {
		return false, nil
	}
	if err := l.Endow(id, amount); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether id is endowed.
func (l *Ledger) Contains(id account.ID) bool {
	_, ok := l.index[id]
	return ok
}

// Get returns a copy of the balance of id, or nil when absent.
func (l *Ledger) Get(id account.ID) *big.Int {
	i, ok := l.index[id]
	if !ok {
		return nil
	}
	return new(big.Int).Set(l.entries[i].Amount)
}

// Len returns the number of endowed accounts.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Total sums every endowment.
func (l *Ledger) Total() *big.Int {
	total := new(big.Int)
	for _, e := range l.entries {
		total.Add(total, e.Amount)
	}
	return total
}

// Entries returns a deep copy of the table in insertion order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = Entry{Account: e.Account, Amount: new(big.Int).Set(e.Amount)}
	}
	return out
}
