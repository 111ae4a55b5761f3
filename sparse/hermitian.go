// SPDX-License-Identifier: MIT
// Package sparse: the tagged Hermitian wrapper — the one value the KPM
// engine binds to. It is a closed union over the four CSR instantiations
// and carries the runtime tag the dispatch layer keys on.

package sparse

import (
	"fmt"

	"github.com/spectralgo/kpm/scalar"
)

// HermitianEps is the default tolerance for the wrap-time Hermiticity
// check.
const HermitianEps = 1e-12

// Hermitian is an immutable square Hermitian CSR matrix of a single
// scalar kind. Only its nonzero structure and values matter here, not
// its origin (the lattice model that produced it is an external
// collaborator).
type Hermitian struct {
	tag scalar.Tag
	m   any // *CSR[T] for exactly one T
	dim int
	nnz int
	mem uint64
}

// Wrap validates m as square and Hermitian (within eps; pass
// HermitianEps for the default) and tags it.
func Wrap[T scalar.Numeric](m *CSR[T], eps float64) (*Hermitian, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.Rows() != m.Cols() {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, m.Rows(), m.Cols())
	}
	if !m.IsHermitian(eps) {
		return nil, ErrNotHermitian
	}
	return &Hermitian{
		tag: scalar.TagOf[T](),
		m:   m,
		dim: m.Rows(),
		nnz: m.NNZ(),
		mem: m.MemoryBytes(),
	}, nil
}

// Tag returns the scalar kind of the stored matrix.
func (h *Hermitian) Tag() scalar.Tag { return h.tag }

// Dim returns the matrix dimension.
func (h *Hermitian) Dim() int { return h.dim }

// NNZ returns the number of stored entries.
func (h *Hermitian) NNZ() int { return h.nnz }

// MemoryBytes estimates the storage footprint.
func (h *Hermitian) MemoryBytes() uint64 { return h.mem }

// ValuesRef exports the stored values as a read-only tagged view for
// dispatch.
func (h *Hermitian) ValuesRef() scalar.ArrayConstRef {
	switch m := h.m.(type) {
	case *CSR[float32]:
		return m.ValuesRef()
	case *CSR[float64]:
		return m.ValuesRef()
	case *CSR[complex64]:
		return m.ValuesRef()
	default:
		return h.m.(*CSR[complex128]).ValuesRef()
	}
}

// As extracts the concrete CSR; the requested kind must equal the tag.
func As[T scalar.Numeric](h *Hermitian) (*CSR[T], error) {
	if h == nil {
		return nil, ErrNilMatrix
	}
	m, ok := h.m.(*CSR[T])
	if !ok {
		return nil, fmt.Errorf("%w: have %s, want %s", scalar.ErrTypeMismatch, h.tag, scalar.TagOf[T]())
	}
	return m, nil
}
