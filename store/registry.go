package store

import (
	"fmt"
	"sort"
	"sync"
)

// BackendType names a store implementation
type BackendType string

const (
	// MemoryBackend keeps state in process memory
	MemoryBackend BackendType = "memory"
	// SQLiteBackend keeps state in a sqlite database through gorm
	SQLiteBackend BackendType = "sqlite"
	// BadgerBackend keeps state in a badger key/value database
	BadgerBackend BackendType = "badger"
)

// Constructor creates a store from backend specific parameters
type Constructor func(params map[string]any) (Store, error)

// Registry manages the available store backends
type Registry interface {
	// Register adds a backend to the registry
	Register(bt BackendType, constructor Constructor) error
	// SetDefault sets the backend Open uses when none is given
	SetDefault(bt BackendType) error
	// Open returns a new store of the given backend
	Open(bt BackendType, params map[string]any) (Store, error)
	// DefaultBackend returns the current default backend
	DefaultBackend() BackendType
	// ListRegistered returns all registered backends
	ListRegistered() []BackendType
}

type registry struct {
	mu        sync.RWMutex
	backends  map[BackendType]Constructor
	defaultBt BackendType
}

var defaultRegistry Registry = &registry{
	backends: make(map[BackendType]Constructor),
}

// GetRegistry returns the global Registry instance
func GetRegistry() Registry {
	return defaultRegistry
}

func (r *registry) Register(bt BackendType, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[bt]; exists {
		return fmt.Errorf("store backend %s already registered", bt)
	}
	r.backends[bt] = constructor
	return nil
}

func (r *registry) SetDefault(bt BackendType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[bt]; !exists {
		return fmt.Errorf("store backend %s not registered", bt)
	}
	r.defaultBt = bt
	return nil
}

func (r *registry) Open(bt BackendType, params map[string]any) (Store, error) {
	if bt == "" {
		bt = r.DefaultBackend()
	}
	r.mu.RLock()
	constructor, exists := r.backends[bt]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("store backend %s not found", bt)
	}
	if params == nil {
		params = make(map[string]any)
	}
	return constructor(params)
}

func (r *registry) DefaultBackend() BackendType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultBt == "" {
		return MemoryBackend
	}
	return r.defaultBt
}

func (r *registry) ListRegistered() []BackendType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BackendType, 0, len(r.backends))
	for bt := range r.backends {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Package level functions that delegate to defaultRegistry

// Register adds a backend to the global registry
func Register(bt BackendType, constructor Constructor) error {
	return GetRegistry().Register(bt, constructor)
}

// SetDefault sets the global default backend
func SetDefault(bt BackendType) error {
	return GetRegistry().SetDefault(bt)
}

// Open opens a store of the given backend from the global registry
func Open(bt BackendType, params map[string]any) (Store, error) {
	return GetRegistry().Open(bt, params)
}

// ListRegistered returns the backends of the global registry
func ListRegistered() []BackendType {
	return GetRegistry().ListRegistered()
}

// PathParam reads the "path" parameter common to file backed stores.
func PathParam(params map[string]any, fallback string) string {
	if p, ok := params["path"].(string); ok && p != "" {
		return p
	}
	return fallback
}
