// Package checksum fingerprints arrays so that a split written to disk can
// be verified when it is stacked again.
package checksum

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/born-ml/blockwise/internal/tensor"
)

// ErrChecksumMismatch is returned by Verify when the contents changed.
var ErrChecksumMismatch = errors.New("checksum mismatch: array may be corrupted")

// Sum computes the xxh3 digest of an array's dtype, shape and elements in
// row-major order. Views and their contiguous copies hash identically.
func Sum[T tensor.DType](a *tensor.Array[T]) (uint64, error) {
	h := xxh3.New()

	header := make([]byte, 0, 8*(a.Ndim()+2))
	header = binary.LittleEndian.AppendUint64(header, uint64(a.DType()))
	header = binary.LittleEndian.AppendUint64(header, uint64(a.Ndim()))
	for _, n := range a.Shape() {
		header = binary.LittleEndian.AppendUint64(header, uint64(n))
	}
	if _, err := h.Write(header); err != nil {
		return 0, err
	}

	body, err := binary.Append(nil, binary.LittleEndian, a.Data())
	if err != nil {
		return 0, fmt.Errorf("encode %s array: %w", a.DType(), err)
	}
	if _, err := h.Write(body); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Verify recomputes the digest of a and compares it against want.
// Returns ErrChecksumMismatch if they don't match.
func Verify[T tensor.DType](a *tensor.Array[T], want uint64) error {
	got, err := Sum(a)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: got %016x, want %016x", ErrChecksumMismatch, got, want)
	}
	return nil
}

// Format renders a digest the way manifests store it.
func Format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Parse reads a digest written by Format.
func Parse(s string) (uint64, error) {
	var sum uint64
	if _, err := fmt.Sscanf(s, "%x", &sum); err != nil {
		return 0, fmt.Errorf("parse checksum %q: %w", s, err)
	}
	return sum, nil
}
