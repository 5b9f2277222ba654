// Package kv is the local record store. Keys are hierarchical paths such as
// {"mood", "u1", "00001730000000000000"} joined by a separator byte (':' by
// default), so a key prefix selects a subtree and listing order follows the
// encoded bytes.
//
// Badger is the on-disk implementation; Memory backs tests.
package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")

	// ErrInvalidKey is returned for empty keys and segments that contain
	// the separator.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Key is a hierarchical path.
type Key []string

// String joins the segments with ':' for display.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Append returns a new key with segs appended. k is not modified.
func (k Key) Append(segs ...string) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}

// Entry is a key-value pair returned by List and used by BatchSet.
type Entry struct {
	Key   Key
	Value []byte
}

// ListOptions controls a List call.
type ListOptions struct {
	// Reverse iterates from the greatest key down.
	Reverse bool
	// Limit stops after this many entries when positive.
	Limit int
}

// ListOption configures ListOptions.
type ListOption func(*ListOptions)

// Reverse lists in descending key order.
func Reverse() ListOption {
	return func(o *ListOptions) { o.Reverse = true }
}

// Limit caps the number of entries returned.
func Limit(n int) ListOption {
	return func(o *ListOptions) { o.Limit = n }
}

func listOptions(opts []ListOption) ListOptions {
	var o ListOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get returns ErrNotFound if the key is not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set overwrites any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key Key) error

	// List iterates over the entries strictly below prefix in encoded key
	// order, or all entries for an empty prefix.
	List(ctx context.Context, prefix Key, opts ...ListOption) iter.Seq2[Entry, error]

	// BatchSet atomically stores multiple key-value pairs.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete atomically removes multiple keys.
	BatchDelete(ctx context.Context, keys []Key) error

	Close() error
}

// DefaultSeparator is the default separator byte used to encode key segments.
const DefaultSeparator byte = ':'

// Options configures store behavior.
type Options struct {
	// Separator joins key segments. Zero means DefaultSeparator.
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// check rejects keys a store cannot round-trip.
func (o *Options) check(k Key) error {
	if len(k) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	s := string(o.sep())
	for _, seg := range k {
		if strings.Contains(seg, s) {
			return fmt.Errorf("%w: segment %q contains %q", ErrInvalidKey, seg, s)
		}
	}
	return nil
}

func (o *Options) encode(k Key) []byte {
	return []byte(strings.Join(k, string(o.sep())))
}

func (o *Options) decode(b []byte) Key {
	return strings.Split(string(b), string(o.sep()))
}

// prefixBytes returns the encoded prefix followed by the separator, so that
// "a:b" does not match "a:bc". An empty prefix matches everything.
func (o *Options) prefixBytes(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(o.encode(prefix), o.sep())
}

// Collect drains a List iterator into a slice.
func Collect(seq iter.Seq2[Entry, error]) ([]Entry, error) {
	var out []Entry
	for e, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
