package sandbox

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/env"
	"github.com/govm-net/riffs/store"
)

// CodeStore keeps deployed binaries by content hash.
type CodeStore interface {
	Put(code []byte) (string, error)
	Get(hash string) ([]byte, error)
}

// kvCodes keeps binaries in the chain store next to the state.
type kvCodes struct {
	s store.Store
}

// NewStoreCodes keeps binaries in s under the code prefix.
func NewStoreCodes(s store.Store) CodeStore {
	return &kvCodes{s: s}
}

func (c *kvCodes) Put(code []byte) (string, error) {
	hash := core.Hash(code)
	ok, err := c.s.Has(codeKey(hash))
	if err != nil || ok {
		return hash, err
	}
	b := &store.Batch{}
	b.Set(codeKey(hash), code)
	return hash, c.s.Commit(b)
}

func (c *kvCodes) Get(hash string) ([]byte, error) {
	code, err := c.s.Get(codeKey(hash))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("code %s not found", hash)
	}
	return code, err
}

// Factory creates a fresh instance of a contract implementation.
type Factory func() env.Contract

// Catalog maps the contract names carried by binaries to implementations.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds an implementation under name.
func (c *Catalog) Register(name string, f Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("contract %s already registered", name)
	}
	c.factories[name] = f
	return nil
}

// Lookup returns a new instance of name.
func (c *Catalog) Lookup(name string) (env.Contract, error) {
	c.mu.RLock()
	f, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return f(), nil
}

// Names lists the registered contracts.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
