// SPDX-License-Identifier: MIT
// Package scalar: the Tag enumeration and its classification helpers.

package scalar

import "fmt"

// Tag identifies one of a fixed, closed set of scalar kinds. Every array
// view carries its tag; tags are compared, never inferred from memory
// layout.
type Tag uint8

// The closed tag set. The four numeric kinds come first, in dispatch
// order; the remaining kinds exist for index and mask arrays and are
// never accepted by the numeric dispatch tables.
const (
	Invalid Tag = iota
	F32         // float32
	CF32        // complex64
	F64         // float64
	CF64        // complex128
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

// String returns the canonical short name of the tag.
func (t Tag) String() string {
	switch t {
	case F32:
		return "f32"
	case CF32:
		return "cf32"
	case F64:
		return "f64"
	case CF64:
		return "cf64"
	case Bool:
		return "b"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// Size reports the width of one element in bytes, or 0 for Invalid.
func (t Tag) Size() int {
	switch t {
	case Bool, I8, U8:
		return 1
	case I16, U16:
		return 2
	case F32, I32, U32:
		return 4
	case CF32, F64, I64, U64:
		return 8
	case CF64:
		return 16
	default:
		return 0
	}
}

// IsComplex reports whether the tag names a complex scalar kind.
func (t Tag) IsComplex() bool { return t == CF32 || t == CF64 }

// IsNumeric reports whether the tag belongs to the four-kind numeric set
// accepted by the dispatch tables.
func (t Tag) IsNumeric() bool {
	return t == F32 || t == F64 || t == CF32 || t == CF64
}

// Precision reports the real-valued precision of a numeric tag in bits
// (32 or 64), or 0 for non-numeric tags. Two tags mix safely in one
// computation only when their precisions agree.
func (t Tag) Precision() int {
	switch t {
	case F32, CF32:
		return 32
	case F64, CF64:
		return 64
	default:
		return 0
	}
}
