// Package store defines the durable key/value interface the sandbox keeps its
// state in, a write overlay used to make invocations atomic, and a registry of
// backends.
package store

import (
	"errors"
	"sort"
)

var ErrNotFound = errors.New("key not found")

// Store is a byte-keyed key/value store. Commit applies a batch atomically.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Commit(b *Batch) error
	Close() error
}

// Op is a single write in a batch. A nil Value deletes the key.
type Op struct {
	Key   []byte
	Value []byte
}

// Delete reports whether the op removes its key.
func (o Op) Delete() bool {
	return o.Value == nil
}

// Batch is an ordered list of writes.
type Batch struct {
	ops []Op
}

// Set appends a put. value must not be nil.
func (b *Batch) Set(key, value []byte) {
	if value == nil {
		value = []byte{}
	}
	b.ops = append(b.ops, Op{Key: key, Value: value})
}

// Delete appends a delete.
func (b *Batch) Delete(key []byte) {
	b.ops = append(b.ops, Op{Key: key})
}

func (b *Batch) Len() int  { return len(b.ops) }
func (b *Batch) Ops() []Op { return b.ops }

// Overlay buffers writes over a base store until Commit.
type Overlay struct {
	base    Store
	pending map[string][]byte
	deleted map[string]bool
}

// NewOverlay starts an empty overlay over base.
func NewOverlay(base Store) *Overlay {
	return &Overlay{
		base:    base,
		pending: make(map[string][]byte),
		deleted: make(map[string]bool),
	}
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	k := string(key)
	if o.deleted[k] {
		return nil, ErrNotFound
	}
	if v, ok := o.pending[k]; ok {
		return v, nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Has(key []byte) (bool, error) {
	_, err := o.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (o *Overlay) Set(key, value []byte) {
	k := string(key)
	delete(o.deleted, k)
	o.pending[k] = append([]byte{}, value...)
}

func (o *Overlay) Delete(key []byte) {
	k := string(key)
	delete(o.pending, k)
	o.deleted[k] = true
}

// Batch returns the buffered writes in key order.
func (o *Overlay) Batch() *Batch {
	keys := make([]string, 0, len(o.pending)+len(o.deleted))
	for k := range o.pending {
		keys = append(keys, k)
	}
	for k := range o.deleted {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := &Batch{}
	for _, k := range keys {
		if v, ok := o.pending[k]; ok {
			b.Set([]byte(k), v)
		} else {
			b.Delete([]byte(k))
		}
	}
	return b
}

// Commit writes the buffered writes to the base store and clears the overlay.
func (o *Overlay) Commit() error {
	b := o.Batch()
	if b.Len() > 0 {
		if err := o.base.Commit(b); err != nil {
			return err
		}
	}
	o.Discard()
	return nil
}

// Discard drops the buffered writes.
func (o *Overlay) Discard() {
	o.pending = make(map[string][]byte)
	o.deleted = make(map[string]bool)
}
