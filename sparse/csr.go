// SPDX-License-Identifier: MIT
// Package sparse: the generic CSR matrix. Immutable after construction;
// Rescale and Permute derive new matrices instead of mutating.

package sparse

import (
	"fmt"
	"math"
	"sort"

	"github.com/spectralgo/kpm/scalar"
)

// CSR is a compressed-sparse-row matrix over one of the four scalar
// kinds. Rows are stored contiguously; within a row, columns are sorted
// ascending and unique.
type CSR[T scalar.Numeric] struct {
	values []T
	colIdx []int
	rowPtr []int // length rows+1
	rows   int
	cols   int
}

// entry is a transient (col, value) pair used during assembly.
type entry[T scalar.Numeric] struct {
	col int
	val T
}

func finite[T scalar.Numeric](v T) bool {
	a := scalar.Abs(v)
	return !math.IsNaN(a) && !math.IsInf(a, 0)
}

// NewCSR assembles a rows×cols matrix from coordinate triplets.
// Duplicate coordinates are summed; explicit zeros are kept (structure
// matters to the sparsity graph). Triplet arrays must agree in length,
// indices must lie inside the shape, values must be finite.
func NewCSR[T scalar.Numeric](rows, cols int, rowIdx, colIdx []int, values []T) (*CSR[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if len(rowIdx) != len(colIdx) || len(colIdx) != len(values) {
		return nil, fmt.Errorf("%w: %d/%d/%d", ErrBadTriplets, len(rowIdx), len(colIdx), len(values))
	}
	buckets := make([][]entry[T], rows)
	for k, v := range values {
		i, j := rowIdx[k], colIdx[k]
		if i < 0 || i >= rows || j < 0 || j >= cols {
			return nil, fmt.Errorf("%w: triplet %d at (%d, %d)", ErrOutOfRange, k, i, j)
		}
		if !finite(v) {
			return nil, fmt.Errorf("%w: triplet %d", ErrNaNInf, k)
		}
		buckets[i] = append(buckets[i], entry[T]{col: j, val: v})
	}
	m := &CSR[T]{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
	for i, row := range buckets {
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		start := len(m.colIdx)
		for _, e := range row {
			if last := len(m.colIdx) - 1; last >= start && m.colIdx[last] == e.col {
				m.values[last] += e.val // duplicate coordinate: sum
				continue
			}
			m.colIdx = append(m.colIdx, e.col)
			m.values = append(m.values, e.val)
		}
		m.rowPtr[i+1] = len(m.colIdx)
	}
	return m, nil
}

// FromDense assembles a CSR from a row-major dense buffer, skipping
// exact zeros.
func FromDense[T scalar.Numeric](rows, cols int, data []T) (*CSR[T], error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d over %d elements", ErrBadShape, rows, cols, len(data))
	}
	m := &CSR[T]{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := data[i*cols+j]
			if v == scalar.FromReal[T](0) {
				continue
			}
			if !finite(v) {
				return nil, fmt.Errorf("%w: element (%d, %d)", ErrNaNInf, i, j)
			}
			m.colIdx = append(m.colIdx, j)
			m.values = append(m.values, v)
		}
		m.rowPtr[i+1] = len(m.colIdx)
	}
	return m, nil
}

// Rows returns the row count.
func (m *CSR[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *CSR[T]) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *CSR[T]) NNZ() int { return len(m.values) }

// At returns the element at (i, j), zero when not stored.
func (m *CSR[T]) At(i, j int) (T, error) {
	var zero T
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return zero, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, i, j)
	}
	if k, ok := m.find(i, j); ok {
		return m.values[k], nil
	}
	return zero, nil
}

// find locates the storage slot of (i, j) by binary search within row i.
func (m *CSR[T]) find(i, j int) (int, bool) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], j)
	if k < hi && m.colIdx[k] == j {
		return k, true
	}
	return 0, false
}

// Row returns the stored columns and values of row i as shared
// subslices; callers must not mutate them.
func (m *CSR[T]) Row(i int) (cols []int, vals []T) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIdx[lo:hi], m.values[lo:hi]
}

// MulVec computes dst = M·x over all rows and returns the number of
// nonzeros touched.
func (m *CSR[T]) MulVec(dst, x []T) (int, error) {
	if len(dst) < m.rows || len(x) < m.cols {
		return 0, fmt.Errorf("%w: dst %d, x %d for %dx%d", ErrDimensionMismatch, len(dst), len(x), m.rows, m.cols)
	}
	return m.MulVecWindow(dst, x, m.rows), nil
}

// MulVecWindow computes dst[i] = (M·x)[i] for rows i in [0, limit) and
// leaves rows at and beyond limit untouched. It returns the number of
// nonzeros touched — the moments engine's operation count. limit is
// clamped to [0, Rows]; dst and x must be at least Rows/Cols long, which
// the caller (the recursion loop) guarantees.
func (m *CSR[T]) MulVecWindow(dst, x []T, limit int) int {
	if limit > m.rows {
		limit = m.rows
	}
	for i := 0; i < limit; i++ {
		var sum T
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.values[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}
	if limit <= 0 {
		return 0
	}
	return m.rowPtr[limit]
}

// Diagonal returns a copy of the main diagonal.
func (m *CSR[T]) Diagonal() []T {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	d := make([]T, n)
	for i := 0; i < n; i++ {
		if k, ok := m.find(i, i); ok {
			d[i] = m.values[k]
		}
	}
	return d
}

// Rescale returns (M − b·I)/a. The diagonal entry is inserted where the
// structure lacks one and b is nonzero, so the shifted matrix is exact.
// a must be finite and strictly positive.
func (m *CSR[T]) Rescale(a, b float64) (*CSR[T], error) {
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return nil, fmt.Errorf("%w: a = %g", ErrBadScale, a)
	}
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, m.rows, m.cols)
	}
	inv := scalar.FromReal[T](1 / a)
	shift := scalar.FromReal[T](b / a)
	out := &CSR[T]{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: make([]int, m.rows+1),
		values: make([]T, 0, len(m.values)+m.rows),
		colIdx: make([]int, 0, len(m.values)+m.rows),
	}
	for i := 0; i < m.rows; i++ {
		sawDiag := false
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			j := m.colIdx[k]
			v := m.values[k] * inv
			if j == i {
				v -= shift
				sawDiag = true
			} else if !sawDiag && j > i && b != 0 {
				out.colIdx = append(out.colIdx, i)
				out.values = append(out.values, -shift)
				sawDiag = true
			}
			out.colIdx = append(out.colIdx, j)
			out.values = append(out.values, v)
		}
		if !sawDiag && b != 0 {
			out.colIdx = append(out.colIdx, i)
			out.values = append(out.values, -shift)
		}
		out.rowPtr[i+1] = len(out.colIdx)
	}
	return out, nil
}

// Permute returns P·M·Pᵀ for the permutation perm, where perm[old] = new.
// perm must be a bijection over [0, Rows).
func (m *CSR[T]) Permute(perm []int) (*CSR[T], error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, m.rows, m.cols)
	}
	if len(perm) != m.rows {
		return nil, fmt.Errorf("%w: permutation length %d for dimension %d", ErrDimensionMismatch, len(perm), m.rows)
	}
	seen := make([]bool, m.rows)
	for _, p := range perm {
		if p < 0 || p >= m.rows || seen[p] {
			return nil, ErrBadPermutation
		}
		seen[p] = true
	}
	rowIdx := make([]int, 0, len(m.values))
	colIdx := make([]int, 0, len(m.values))
	vals := make([]T, 0, len(m.values))
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			rowIdx = append(rowIdx, perm[i])
			colIdx = append(colIdx, perm[m.colIdx[k]])
			vals = append(vals, m.values[k])
		}
	}
	return NewCSR(m.rows, m.cols, rowIdx, colIdx, vals)
}

// IsHermitian reports whether A[i,j] = conj(A[j,i]) for every stored
// entry, within eps.
func (m *CSR[T]) IsHermitian(eps float64) bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			j := m.colIdx[k]
			var mirror T
			if kk, ok := m.find(j, i); ok {
				mirror = m.values[kk]
			}
			if scalar.Abs(m.values[k]-scalar.Conj(mirror)) > eps {
				return false
			}
		}
	}
	return true
}

// MemoryBytes estimates the storage footprint of the matrix.
func (m *CSR[T]) MemoryBytes() uint64 {
	elem := uint64(scalar.TagOf[T]().Size())
	const intSize = 8
	return uint64(len(m.values))*elem + uint64(len(m.colIdx)+len(m.rowPtr))*intSize
}

// ValuesRef exports the stored values as a read-only tagged view; this
// is the handle the dispatch layer keys on.
func (m *CSR[T]) ValuesRef() scalar.ArrayConstRef {
	return scalar.MakeConstRef(m.values)
}
