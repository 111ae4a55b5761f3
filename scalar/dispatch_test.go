package scalar_test

import (
	"errors"
	"testing"

	"github.com/spectralgo/kpm/scalar"
)

// fullTable returns a Table whose entries report which kind was invoked.
func fullTable() scalar.Table[scalar.Tag] {
	return scalar.Table[scalar.Tag]{
		F32:  func([]float32) (scalar.Tag, error) { return scalar.F32, nil },
		F64:  func([]float64) (scalar.Tag, error) { return scalar.F64, nil },
		CF32: func([]complex64) (scalar.Tag, error) { return scalar.CF32, nil },
		CF64: func([]complex128) (scalar.Tag, error) { return scalar.CF64, nil },
	}
}

// TestMatch_HitsExactKind verifies each numeric tag dispatches to the
// entry of exactly that kind.
func TestMatch_HitsExactKind(t *testing.T) {
	refs := map[scalar.Tag]scalar.ArrayConstRef{
		scalar.F32:  scalar.MakeConstRef([]float32{1}),
		scalar.F64:  scalar.MakeConstRef([]float64{1}),
		scalar.CF32: scalar.MakeConstRef([]complex64{1}),
		scalar.CF64: scalar.MakeConstRef([]complex128{1}),
	}
	for want, ref := range refs {
		got, err := scalar.Match(ref, fullTable())
		if err != nil {
			t.Fatalf("Match(%s): unexpected error %v", want, err)
		}
		if got != want {
			t.Errorf("Match(%s) invoked %s entry", want, got)
		}
	}
}

// TestMatch_NoMatchOutsideDeclaredSet verifies tags without an entry
// surface ErrNoMatch.
func TestMatch_NoMatchOutsideDeclaredSet(t *testing.T) {
	realOnly := scalar.Table[scalar.Tag]{
		F32: func([]float32) (scalar.Tag, error) { return scalar.F32, nil },
		F64: func([]float64) (scalar.Tag, error) { return scalar.F64, nil },
	}
	for _, ref := range []scalar.ArrayConstRef{
		scalar.MakeConstRef([]complex64{1}),
		scalar.MakeConstRef([]complex128{1}),
	} {
		if _, err := scalar.Match(ref, realOnly); !errors.Is(err, scalar.ErrNoMatch) {
			t.Errorf("tag %s: want ErrNoMatch, got %v", ref.Tag(), err)
		}
	}
}

// TestMatch_MutableViewDispatches verifies a mutable view feeds the same
// table and the operation sees the same backing memory.
func TestMatch_MutableViewDispatches(t *testing.T) {
	buf := []float64{1, 2, 3}
	ref := scalar.MakeRef(buf)
	_, err := scalar.Match(ref, scalar.Table[struct{}]{
		F64: func(v []float64) (struct{}, error) {
			v[0] = 42
			return struct{}{}, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[0] != 42 {
		t.Errorf("operation did not observe the view's backing buffer")
	}
}

// TestMatch2_CartesianPairs exercises every same-precision pair plus a
// representative mixed-kind pair, checking exact entry selection.
func TestMatch2_CartesianPairs(t *testing.T) {
	type pair struct{ a, b scalar.Tag }
	seen := pair{}
	tbl := scalar.Table2[pair]{
		F32F32:   func([]float32, []float32) (pair, error) { return pair{scalar.F32, scalar.F32}, nil },
		F32CF32:  func([]float32, []complex64) (pair, error) { return pair{scalar.F32, scalar.CF32}, nil },
		CF32F32:  func([]complex64, []float32) (pair, error) { return pair{scalar.CF32, scalar.F32}, nil },
		CF32CF32: func([]complex64, []complex64) (pair, error) { return pair{scalar.CF32, scalar.CF32}, nil },
		F64F64:   func([]float64, []float64) (pair, error) { return pair{scalar.F64, scalar.F64}, nil },
		F64CF64:  func([]float64, []complex128) (pair, error) { return pair{scalar.F64, scalar.CF64}, nil },
		CF64F64:  func([]complex128, []float64) (pair, error) { return pair{scalar.CF64, scalar.F64}, nil },
		CF64CF64: func([]complex128, []complex128) (pair, error) { return pair{scalar.CF64, scalar.CF64}, nil },
	}
	mk := func(tag scalar.Tag) scalar.ArrayConstRef {
		switch tag {
		case scalar.F32:
			return scalar.MakeConstRef([]float32{1})
		case scalar.F64:
			return scalar.MakeConstRef([]float64{1})
		case scalar.CF32:
			return scalar.MakeConstRef([]complex64{1})
		default:
			return scalar.MakeConstRef([]complex128{1})
		}
	}
	cases := []pair{
		{scalar.F32, scalar.F32}, {scalar.F32, scalar.CF32},
		{scalar.CF32, scalar.F32}, {scalar.CF32, scalar.CF32},
		{scalar.F64, scalar.F64}, {scalar.F64, scalar.CF64},
		{scalar.CF64, scalar.F64}, {scalar.CF64, scalar.CF64},
	}
	for _, c := range cases {
		got, err := scalar.Match2(mk(c.a), mk(c.b), tbl)
		if err != nil {
			t.Fatalf("Match2(%s,%s): %v", c.a, c.b, err)
		}
		if got != c {
			t.Errorf("Match2(%s,%s) invoked (%s,%s)", c.a, c.b, got.a, got.b)
		}
		seen = got
	}
	_ = seen

	// A pair outside the declared set must not match.
	if _, err := scalar.Match2(mk(scalar.F32), mk(scalar.F64), tbl); !errors.Is(err, scalar.ErrNoMatch) {
		t.Errorf("undeclared pair: want ErrNoMatch, got %v", err)
	}
}

// TestMatch2SamePrecision_RejectsMixedPrecision verifies the filtered
// variant refuses single/double mixtures even when the table has entries.
func TestMatch2SamePrecision_RejectsMixedPrecision(t *testing.T) {
	tbl := scalar.Table2[int]{
		F32F64: func([]float32, []float64) (int, error) { return 1, nil },
		F64F64: func([]float64, []float64) (int, error) { return 2, nil },
	}
	a := scalar.MakeConstRef([]float32{1})
	b := scalar.MakeConstRef([]float64{1})
	if _, err := scalar.Match2SamePrecision(a, b, tbl); !errors.Is(err, scalar.ErrNoMatch) {
		t.Errorf("mixed precision: want ErrNoMatch, got %v", err)
	}
	got, err := scalar.Match2SamePrecision(b, b, tbl)
	if err != nil || got != 2 {
		t.Errorf("same precision: got (%d, %v), want (2, nil)", got, err)
	}
}
