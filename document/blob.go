package document

import (
	"encoding/json"
	"fmt"
)

// BlobRef is an opaque handle into a BlobBuffer. The zero ref is empty.
type BlobRef struct {
	Offset int
	Length int
}

// IsZero reports whether the ref points at nothing.
func (r BlobRef) IsZero() bool { return r.Length == 0 }

// BlobBuffer is the append-only binary store for large auxiliary text:
// solutions, hints, grading notes, serialized notations. Exactly one
// extractor instance owns a buffer; it is never shared.
type BlobBuffer struct {
	data []byte
}

// WriteString appends s and returns its handle.
func (b *BlobBuffer) WriteString(s string) BlobRef {
	off := len(b.data)
	b.data = append(b.data, s...)
	return BlobRef{Offset: off, Length: len(s)}
}

// WriteJSON appends the JSON encoding of v and returns its handle.
func (b *BlobBuffer) WriteJSON(v any) (BlobRef, error) {
	enc, err := json.Marshal(v)
	if err != nil {
		return BlobRef{}, err
	}
	off := len(b.data)
	b.data = append(b.data, enc...)
	return BlobRef{Offset: off, Length: len(enc)}, nil
}

// Read returns the bytes behind a handle.
func (b *BlobBuffer) Read(r BlobRef) ([]byte, error) {
	if r.Offset < 0 || r.Offset+r.Length > len(b.data) {
		return nil, fmt.Errorf("blob ref %d+%d out of range (buffer %d)", r.Offset, r.Length, len(b.data))
	}
	return b.data[r.Offset : r.Offset+r.Length], nil
}

// ReadString returns the text behind a handle.
func (b *BlobBuffer) ReadString(r BlobRef) (string, error) {
	bs, err := b.Read(r)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// Len reports the total bytes written.
func (b *BlobBuffer) Len() int { return len(b.data) }
