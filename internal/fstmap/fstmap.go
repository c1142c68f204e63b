// Package fstmap wraps github.com/blevesearch/vellum to provide an ordered
// surface-form -> LexemeId transducer supporting exact lookup, prefix
// iteration, and full in-order enumeration for the substring scanner.
//
// vellum arrives in this module the same way it arrives in
// Aman-CERP-amanmcp: as bleve's transitive finite-state-transducer engine
// (internal/store/bm25.go builds a bleve index on top of it). Here it is
// used directly rather than through bleve, since the corpus needs a bare
// key->uint64 transducer, not a full-text index.
package fstmap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blevesearch/vellum"

	"github.com/opengloss/opengloss/internal/errorsx"
)

// LexemeID mirrors lexarchive.LexemeID without importing it, to keep this
// package a leaf with no dependency on the archive layer.
type LexemeID uint32

// Builder streams strictly-ascending (surface form, LexemeId) pairs into an
// FST. Insertion order must be sorted; vellum rejects any key that is not
// strictly greater than the last one inserted.
type Builder struct {
	buf     *bytes.Buffer
	vb      *vellum.Builder
	lastKey []byte
	hasLast bool
}

// NewBuilder creates an FST builder writing into an internal buffer.
func NewBuilder() (*Builder, error) {
	buf := new(bytes.Buffer)
	vb, err := vellum.New(buf, nil)
	if err != nil {
		return nil, fmt.Errorf("fstmap: create builder: %w", err)
	}
	return &Builder{buf: buf, vb: vb}, nil
}

// Insert adds one (surface form, LexemeId) pair. The 32-bit LexemeId is
// stored in the low bits of the FST's 64-bit value; the top 32 bits are
// always zero. key must be strictly greater than the previous key inserted.
func (b *Builder) Insert(key string, id LexemeID) error {
	k := []byte(key)
	if b.hasLast && bytes.Compare(k, b.lastKey) <= 0 {
		return errorsx.New(errorsx.InvalidArgument, "fstmap.Insert",
			fmt.Sprintf("key %q is not strictly greater than previous key %q", key, b.lastKey), nil)
	}
	if err := b.vb.Insert(k, uint64(id)); err != nil {
		return fmt.Errorf("fstmap: insert %q: %w", key, err)
	}
	b.lastKey = append(b.lastKey[:0], k...)
	b.hasLast = true
	return nil
}

// Freeze finalizes the FST and returns its serialized bytes.
func (b *Builder) Freeze() ([]byte, error) {
	if err := b.vb.Close(); err != nil {
		return nil, fmt.Errorf("fstmap: close builder: %w", err)
	}
	return b.buf.Bytes(), nil
}

// Reader serves lookups and ordered iteration over a frozen FST.
type Reader struct {
	fst *vellum.FST
}

// Open loads a frozen FST from its serialized bytes.
func Open(raw []byte) (*Reader, error) {
	fst, err := vellum.Load(raw)
	if err != nil {
		return nil, errorsx.New(errorsx.CorpusCorrupt, "fstmap.Open", "failed to load FST", err)
	}
	return &Reader{fst: fst}, nil
}

// Get performs an exact-match lookup.
func (r *Reader) Get(key string) (LexemeID, bool, error) {
	val, exists, err := r.fst.Get([]byte(key))
	if err != nil {
		return 0, false, fmt.Errorf("fstmap: get %q: %w", key, err)
	}
	if !exists {
		return 0, false, nil
	}
	return LexemeID(val), true, nil
}

// Len returns the number of keys in the FST.
func (r *Reader) Len() (int, error) {
	n, err := r.fst.Len()
	if err != nil {
		return 0, fmt.Errorf("fstmap: len: %w", err)
	}
	return n, nil
}

// Entry is one (key, id) pair yielded during iteration.
type Entry struct {
	Key string
	ID  LexemeID
}

// PrefixRange iterates every key with the given prefix, in ascending
// order, calling fn for each until fn returns false or the range is
// exhausted.
func (r *Reader) PrefixRange(prefix string, fn func(Entry) bool) error {
	start := []byte(prefix)
	end := prefixUpperBound(start)

	itr, err := r.fst.Iterator(start, end)
	if err == vellum.ErrIteratorDone {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fstmap: iterator for prefix %q: %w", prefix, err)
	}
	defer itr.Close()

	for err == nil {
		k, v := itr.Current()
		if !fn(Entry{Key: string(k), ID: LexemeID(v)}) {
			return nil
		}
		err = itr.Next()
	}
	if err != nil && err != vellum.ErrIteratorDone {
		return fmt.Errorf("fstmap: advance iterator for prefix %q: %w", prefix, err)
	}
	return nil
}

// All iterates every key in the FST in ascending order, calling fn for
// each until fn returns false. Used by the substring scanner, which needs
// to test every surface form rather than only a prefix range.
func (r *Reader) All(fn func(Entry) bool) error {
	itr, err := r.fst.Iterator(nil, nil)
	if err == vellum.ErrIteratorDone {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fstmap: iterator: %w", err)
	}
	defer itr.Close()

	for err == nil {
		k, v := itr.Current()
		if !fn(Entry{Key: string(k), ID: LexemeID(v)}) {
			return nil
		}
		err = itr.Next()
	}
	if err != nil && err != vellum.ErrIteratorDone {
		return fmt.Errorf("fstmap: advance iterator: %w", err)
	}
	return nil
}

// Close releases resources associated with the FST, including any backing
// mmap if the FST was loaded from a file.
func (r *Reader) Close() error {
	return r.fst.Close()
}

var _ io.Closer = (*Reader)(nil)

// prefixUpperBound returns the smallest byte string greater than every
// string starting with prefix, for use as an exclusive iterator endpoint.
// Returns nil (unbounded) if prefix is all 0xFF bytes.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
