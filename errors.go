// SPDX-License-Identifier: MIT
// Package kpm: sentinel error set. Lower-layer sentinels (sparse,
// lanczos, kernel, scalar) pass through wrapped so errors.Is still
// matches them at this boundary.

package kpm

import "errors"

var (
	// ErrUnbound is returned when a computation is requested before a
	// matrix has been bound with SetMatrix.
	ErrUnbound = errors.New("kpm: no matrix bound to the engine")

	// ErrInvalidIndex is returned for a seed or target site outside the
	// bound matrix, rejected before any matrix-vector work begins.
	ErrInvalidIndex = errors.New("kpm: site index outside matrix bounds")

	// ErrBroadening is returned for a non-positive broadening.
	ErrBroadening = errors.New("kpm: broadening must be > 0")

	// ErrNoEnergies is returned for an empty energy grid.
	ErrNoEnergies = errors.New("kpm: empty energy grid")

	// ErrMomentCount is returned for an explicit moment count below 2.
	ErrMomentCount = errors.New("kpm: moment count must be >= 2")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("kpm: invalid option supplied")
)
