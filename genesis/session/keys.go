// Package session packs authority role keys into the session-key tuples the
// runtime's session pallet reads at genesis.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/octopus-appchains/debio-node/genesis/authority"
	"github.com/octopus-appchains/debio-node/inter/account"
	"github.com/octopus-appchains/debio-node/inter/rolekey"
	"github.com/octopus-appchains/debio-node/utils/fast"
)

// Keys is the runtime's SessionKeys type. Field order follows rolekey.Schema.
type Keys struct {
	Babe     rolekey.PubKey
	Grandpa  rolekey.PubKey
	ImOnline rolekey.PubKey
	Beefy    rolekey.PubKey
	Octopus  rolekey.PubKey
}

// FromSet maps a role key set onto the tuple.
func FromSet(s rolekey.Set) Keys {
	return Keys{
		Babe:     s.Get(rolekey.Babe).Copy(),
		Grandpa:  s.Get(rolekey.Grandpa).Copy(),
		ImOnline: s.Get(rolekey.ImOnline).Copy(),
		Beefy:    s.Get(rolekey.Beefy).Copy(),
		Octopus:  s.Get(rolekey.Octopus).Copy(),
	}
}

// Set is the inverse of FromSet.
func (k Keys) Set() rolekey.Set {
	var s rolekey.Set
	s[rolekey.Babe] = k.Babe.Copy()
	s[rolekey.Grandpa] = k.Grandpa.Copy()
	s[rolekey.ImOnline] = k.ImOnline.Copy()
	s[rolekey.Beefy] = k.Beefy.Copy()
	s[rolekey.Octopus] = k.Octopus.Copy()
	return s
}

// Size is the packed length of a tuple.
func Size() int {
	n := 0
	for _, r := range rolekey.Schema {
		sz, _ := rolekey.SchemeSize(r.Scheme())
		n += sz
	}
	return n
}

// Encode concatenates the raw keys in schema order, which is the SCALE
// encoding of the tuple.
func (k Keys) Encode() []byte {
	s := k.Set()
	w := fast.NewWriter(make([]byte, 0, Size()))
	for _, r := range rolekey.Schema {
		_, _ = w.Write(s[r].Raw)
	}
	return w.Bytes()
}

// Decode parses a tuple produced by Encode.
func Decode(b []byte) (Keys, error) {
	r := fast.NewReader(b)
	var s rolekey.Set
	for _, role := range rolekey.Schema {
		sz, _ := rolekey.SchemeSize(role.Scheme())
		raw, err := r.Read(sz)
		if err != nil {
			return Keys{}, fmt.Errorf("session keys: %s: %w", role, err)
		}
		s[role] = rolekey.PubKey{Type: role.Scheme(), Raw: append([]byte(nil), raw...)}
	}
	if !r.Empty() {
		return Keys{}, fmt.Errorf("session keys: %d trailing bytes", r.Remaining())
	}
	return FromSet(s), nil
}

type keysJSON struct {
	Babe     string `json:"babe"`
	Grandpa  string `json:"grandpa"`
	ImOnline string `json:"im_online"`
	Beefy    string `json:"beefy"`
	Octopus  string `json:"octopus"`
}

// MarshalJSON renders each key as an SS58 address of its raw bytes.
func (k Keys) MarshalJSON() ([]byte, error) {
	var (
		out  keysJSON
		errs error
	)
	enc := func(pk rolekey.PubKey) string {
		s, err := account.EncodeSS58(account.GenericPrefix, pk.Raw)
		if err != nil && errs == nil {
			errs = err
		}
		return s
	}
	out.Babe = enc(k.Babe)
	out.Grandpa = enc(k.Grandpa)
	out.ImOnline = enc(k.ImOnline)
	out.Beefy = enc(k.Beefy)
	out.Octopus = enc(k.Octopus)
	if errs != nil {
		return nil, errs
	}
	return json.Marshal(out)
}

// Entry is one session.keys row. Owner and controller coincide at genesis.
type Entry struct {
	Owner      account.ID
	Controller account.ID
	Keys       Keys
}

// MarshalJSON renders the `(AccountId, ValidatorId, SessionKeys)` tuple.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Owner, e.Controller, e.Keys})
}

// Aggregate builds one entry per authority, preserving order. Authorities
// with an incomplete or mistyped key set are rejected.
func Aggregate(entries []authority.Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if err := e.Roles.Validate(); err != nil {
			return nil, fmt.Errorf("session keys of %s: %w", e.Account, err)
		}
		out = append(out, Entry{
			Owner:      e.Account,
			Controller: e.Account,
			Keys:       FromSet(e.Roles),
		})
	}
	return out, nil
}
