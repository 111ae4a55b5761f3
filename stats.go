// SPDX-License-Identifier: MIT
// Package kpm: observable cost accounting. Stats describe the most
// recent computation; they are reset at the start of every call and
// exposed read-only through Greens.Stats.

package kpm

import (
	"fmt"
	"strings"
	"time"
)

// Stats describes the cost of one moments computation. NumOperations is
// the sum of active-submatrix nonzeros touched per recursion step, so
// comparing it across optimization levels (or matrix replacements)
// reveals exactly how much work the preprocessing saved.
type Stats struct {
	NumMoments    int
	NumOperations uint64
	MatrixMemory  uint64
	VectorMemory  uint64
	Elapsed       time.Duration
}

// OpsRate returns touched nonzeros per second, 0 when nothing ran.
func (s Stats) OpsRate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.NumOperations) / s.Elapsed.Seconds()
}

// report renders the stats for Greens.Report.
func (s Stats) report(shortform bool) string {
	if shortform {
		return fmt.Sprintf("moments=%d ops=%d mem=%s elapsed=%v",
			s.NumMoments, s.NumOperations, humanBytes(s.MatrixMemory+s.VectorMemory), s.Elapsed)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "KPM report\n")
	fmt.Fprintf(&b, "  moments:    %d\n", s.NumMoments)
	fmt.Fprintf(&b, "  operations: %d (%.3g ops/s)\n", s.NumOperations, s.OpsRate())
	fmt.Fprintf(&b, "  matrix:     %s\n", humanBytes(s.MatrixMemory))
	fmt.Fprintf(&b, "  vectors:    %s\n", humanBytes(s.VectorMemory))
	fmt.Fprintf(&b, "  elapsed:    %v\n", s.Elapsed)
	return b.String()
}

func humanBytes(n uint64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.1f GiB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.1f MiB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.1f KiB", float64(n)/unit)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
