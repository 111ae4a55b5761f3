// SPDX-License-Identifier: MIT

// Package kpm computes Green's functions and densities of states of
// large sparse Hermitian matrices by the Kernel Polynomial Method: the
// target quantity is expanded in Chebyshev moments obtained from
// repeated sparse matrix-vector products, damped by a kernel, and
// reconstructed on an arbitrary energy grid. Cost scales with the
// number of nonzeros times the number of moments, never with a dense
// factorization.
//
// What
//
//   - Greens: the engine. Bind a matrix with SetMatrix, then ask for
//     LDOS (local density of states at one site), DOS (the full trace),
//     At (one Green's function matrix element G(row, col; E)), Vector
//     (G(row, col; E) for many columns in one recursion), or raw
//     Moments. Spectral bounds are estimated lazily via lanczos.Estimate
//     on first use and cached; WithEnergyRange skips the estimation.
//   - Preprocessing: per seed set, the matrix is rescaled into [-1, 1]
//     and reordered breadth-first from the seeds so each recursion step
//     multiplies only the active window of rows the expansion has
//     reached. Built states are cached per (level, seed set) and
//     invalidated wholesale by SetMatrix.
//   - Thunk / DeferredLDOS: a computation packaged with the engine
//     state captured at creation, so batch schedulers can run it after
//     the engine has moved on to another matrix.
//   - Stats / Report: nonzeros touched, memory, elapsed time of the
//     most recent run. Optimization levels change Stats, never results.
//
// Concurrency
//
//	A Greens engine is safe for concurrent use. Computations snapshot
//	the bound matrix, bounds, and cache map at entry; SetMatrix replaces
//	the cache map rather than clearing it, so in-flight work finishes
//	against the state it started with and new calls see only the new
//	matrix.
//
// Usage
//
//	m, _ := sparse.NewCSR[float64](2, 2, []int{0, 1}, []int{1, 0}, []float64{1, 1})
//	h, _ := sparse.Wrap(m, sparse.HermitianEps)
//	g, _ := kpm.New(kpm.WithKernel(kernel.Jackson()))
//	_ = g.SetMatrix(h)
//	dos, err := g.DOS(energies, 0.05)
package kpm
