// Package serviceowner defines the capability a pallet needs to decide who
// owns a listed service, and the per-entity implementations backing it.
// Callers depend on ServiceOwner only, never on Labs or Hospitals directly.
package serviceowner

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"

	"github.com/octopus-appchains/debio-node/inter/account"
)

var (
	ErrNotRegistered = errors.New("owner is not registered")
	ErrNotOwner      = errors.New("service is not owned by this account")
)

// ServiceOwner links service ids to the accounts allowed to manage them.
type ServiceOwner interface {
	// Associate records owner as the owner of service.
	Associate(owner account.ID, service common.Hash) error
	// Disassociate removes a previously recorded ownership.
	Disassociate(owner account.ID, service common.Hash) error
	IsOwner(owner account.ID, service common.Hash) bool
	// CanCreateService reports whether owner may list new services.
	CanCreateService(owner account.ID) bool
}

const (
	entityTag  = 'e'
	serviceTag = 's'
)

// registry stores entities and their services under a per-kind prefix:
//
//	prefix ‖ 'e' ‖ owner            -> registration marker
//	prefix ‖ 's' ‖ owner ‖ service  -> ownership marker
type registry struct {
	db     ethdb.KeyValueStore
	prefix []byte
}

func newRegistry(db ethdb.KeyValueStore, prefix string) registry {
	if db == nil {
		db = memorydb.New()
	}
	return registry{db: db, prefix: []byte(prefix)}
}

func (r registry) entityKey(owner account.ID) []byte {
	key := make([]byte, 0, len(r.prefix)+1+account.Size)
	key = append(key, r.prefix...)
	key = append(key, entityTag)
	return append(key, owner[:]...)
}

func (r registry) servicePrefix(owner account.ID) []byte {
	key := make([]byte, 0, len(r.prefix)+1+account.Size+common.HashLength)
	key = append(key, r.prefix...)
	key = append(key, serviceTag)
	return append(key, owner[:]...)
}

func (r registry) serviceKey(owner account.ID, service common.Hash) []byte {
	return append(r.servicePrefix(owner), service[:]...)
}

func (r registry) has(key []byte) bool {
	ok, err := r.db.Has(key)
	return err == nil && ok
}

// Register makes owner eligible to create services.
func (r registry) Register(owner account.ID) error {
	return r.db.Put(r.entityKey(owner), []byte{1})
}

// Unregister revokes eligibility. Existing ownerships are kept.
func (r registry) Unregister(owner account.ID) error {
	return r.db.Delete(r.entityKey(owner))
}

// Registered reports whether owner was registered.
func (r registry) Registered(owner account.ID) bool {
	return r.has(r.entityKey(owner))
}

func (r registry) Associate(owner account.ID, service common.Hash) error {
	if !r.Registered(owner) {
		return ErrNotRegistered
	}
	return r.db.Put(r.serviceKey(owner, service), []byte{1})
}

func (r registry) Disassociate(owner account.ID, service common.Hash) error {
	key := r.serviceKey(owner, service)
	if !r.has(key) {
		return ErrNotOwner
	}
	return r.db.Delete(key)
}

func (r registry) IsOwner(owner account.ID, service common.Hash) bool {
	return r.has(r.serviceKey(owner, service))
}

func (r registry) CanCreateService(owner account.ID) bool {
	return r.Registered(owner)
}

// Services lists the services of owner in key order.
func (r registry) Services(owner account.ID) ([]common.Hash, error) {
	it := r.db.NewIterator(r.servicePrefix(owner), nil)
	defer it.Release()

	var out []common.Hash
	for it.Next() {
		key := it.Key()
		out = append(out, common.BytesToHash(key[len(key)-common.HashLength:]))
	}
	return out, it.Error()
}

// Labs is the ServiceOwner of laboratory services.
type Labs struct {
	registry
}

// NewLabs returns Labs over db. A nil db selects an in-memory store.
func NewLabs(db ethdb.KeyValueStore) *Labs {
	return &Labs{registry: newRegistry(db, "labs/")}
}

// Hospitals is the ServiceOwner of hospital services.
type Hospitals struct {
	registry
}

// NewHospitals returns Hospitals over db. A nil db selects an in-memory store.
func NewHospitals(db ethdb.KeyValueStore) *Hospitals {
	return &Hospitals{registry: newRegistry(db, "hospitals/")}
}

var (
	_ ServiceOwner = (*Labs)(nil)
	_ ServiceOwner = (*Hospitals)(nil)
)
