// SPDX-License-Identifier: MIT
// Package kpm: deferred execution. A Thunk packages one computation as a
// zero-argument unit of work bound to the engine state captured at
// creation; invoking it later (or on another goroutine) yields exactly
// what immediate execution would have.

package kpm

import "sync"

// Thunk is a deferred computation with a single Invoke operation. The
// result is computed once and memoized; concurrent Invoke calls share
// one execution.
type Thunk[R any] struct {
	once sync.Once
	run  func() (R, error)
	val  R
	err  error
}

// NewThunk wraps run; run must have captured all of its inputs by value
// or shared-ownership of immutable state already.
func NewThunk[R any](run func() (R, error)) *Thunk[R] {
	return &Thunk[R]{run: run}
}

// Invoke executes the captured work on first call and returns the
// memoized result thereafter.
func (t *Thunk[R]) Invoke() (R, error) {
	t.once.Do(func() {
		t.val, t.err = t.run()
		t.run = nil
	})
	return t.val, t.err
}
