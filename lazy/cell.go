// Package lazy implements persistent cells: a typed value stored under a fixed
// key, read from storage only when asked for and decoded on every read.
package lazy

import (
	"fmt"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/reg"
	"github.com/vmihailenco/msgpack/v5"
)

// Keyed types name the storage key their cell lives under. The key must not
// depend on the value, it is read from the zero value.
type Keyed interface {
	StorageKey() []byte
}

// Cell is a handle on the value stored under one key.
type Cell[T any] struct {
	arena *reg.Arena
	key   []byte
}

// New returns the cell for key.
func New[T any](arena *reg.Arena, key []byte) *Cell[T] {
	return &Cell[T]{arena: arena, key: key}
}

// Of returns the cell for a Keyed type.
func Of[T Keyed](arena *reg.Arena) *Cell[T] {
	var zero T
	return New[T](arena, zero.StorageKey())
}

// Key is the storage key of the cell.
func (c *Cell[T]) Key() []byte {
	return c.key
}

// Exists reports whether a value is stored.
func (c *Cell[T]) Exists() bool {
	return c.arena.HasKey(c.key)
}

// Get reads and decodes the stored value. ok is false when nothing is stored.
func (c *Cell[T]) Get() (value T, ok bool, err error) {
	raw, ok, err := c.arena.ReadStorage(c.key)
	if err != nil || !ok {
		return value, false, err
	}
	value, err = c.decode(raw)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// GetOrDefault returns the stored value or the zero value.
func (c *Cell[T]) GetOrDefault() (T, error) {
	v, _, err := c.Get()
	return v, err
}

// Set encodes and stores v, returning the value it replaced.
func (c *Cell[T]) Set(v T) (prev T, replaced bool, err error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return prev, false, fmt.Errorf("%w: key %q: %v", core.ErrSerialization, c.key, err)
	}
	old, replaced, err := c.arena.WriteBytes(c.key, raw)
	if err != nil || !replaced {
		return prev, false, err
	}
	prev, err = c.decode(old)
	if err != nil {
		return prev, false, err
	}
	return prev, true, nil
}

// UpdateOrDefault applies f to the stored value, or to the zero value when
// nothing is stored, and writes the result back.
func (c *Cell[T]) UpdateOrDefault(f func(T) (T, error)) (T, error) {
	v, err := c.GetOrDefault()
	if err != nil {
		return v, err
	}
	v, err = f(v)
	if err != nil {
		return v, err
	}
	if _, _, err := c.Set(v); err != nil {
		return v, err
	}
	return v, nil
}

// Remove deletes the stored value.
func (c *Cell[T]) Remove() (bool, error) {
	_, removed, err := c.arena.Remove(c.key)
	return removed, err
}

// Map reads the value stored in c and converts it with f. Nothing stored
// yields ok == false without calling f.
func Map[T, R any](c *Cell[T], f func(T) R) (r R, ok bool, err error) {
	v, ok, err := c.Get()
	if err != nil || !ok {
		return r, false, err
	}
	return f(v), true, nil
}

func (c *Cell[T]) decode(raw []byte) (T, error) {
	var v T
	if err := msgpack.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: key %q: %v", core.ErrDeserialization, c.key, err)
	}
	return v, nil
}
