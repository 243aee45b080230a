package forest_test

import (
	"testing"

	"github.com/chewxy/math32"
	forest "github.com/nukaishi/tree2forest"
	"github.com/soypat/geometry/ms2"
)

func TestLayoutCardinality(t *testing.T) {
	var bld forest.Builder
	for n := 1; n <= forest.MaxTrees; n++ {
		got := bld.Layout(n)
		if len(got) != n {
			t.Fatalf("Layout(%d) returned %d placements", n, len(got))
		}
		for i := 0; i < len(got); i++ {
			for j := i + 1; j < len(got); j++ {
				if got[i] == got[j] {
					t.Fatalf("Layout(%d): duplicate placement %v at %d and %d", n, got[i], i, j)
				}
			}
		}
	}
}

func TestLayoutDeterminism(t *testing.T) {
	var bld forest.Builder
	for _, n := range []int{1, 2, 3, 7, 10, 50, 99, 100} {
		a := bld.Layout(n)
		b := bld.Layout(n)
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("Layout(%d) not deterministic at %d: %v != %v", n, i, a[i], b[i])
			}
		}
	}
}

func TestLayoutReference(t *testing.T) {
	var bld forest.Builder
	for _, tc := range []struct {
		n    int
		want []ms2.Vec
	}{
		{n: 1, want: []ms2.Vec{{X: 0, Y: 0}}},
		// cols=2, rows=2: full row of 2 then centered partial row of 1.
		{n: 3, want: []ms2.Vec{
			{X: -2.5, Y: -2.5}, {X: 2.5, Y: -2.5},
			{X: 0, Y: 2.5},
		}},
		// Perfect square: full 2x2 grid centered on the origin.
		{n: 4, want: []ms2.Vec{
			{X: -2.5, Y: -2.5}, {X: 2.5, Y: -2.5},
			{X: -2.5, Y: 2.5}, {X: 2.5, Y: 2.5},
		}},
	} {
		got := bld.Layout(tc.n)
		if len(got) != len(tc.want) {
			t.Fatalf("Layout(%d) length %d, want %d", tc.n, len(got), len(tc.want))
		}
		for i := range got {
			if !vecApproxEqual(got[i], tc.want[i], 1e-6) {
				t.Errorf("Layout(%d)[%d] = %v, want %v", tc.n, i, got[i], tc.want[i])
			}
		}
	}
}

func TestLayoutCentered(t *testing.T) {
	var bld forest.Builder
	for _, n := range []int{4, 9, 16, 25, 100} {
		got := bld.Layout(n)
		var sum ms2.Vec
		for _, p := range got {
			sum = ms2.Add(sum, p)
		}
		mean := ms2.Scale(1/float32(n), sum)
		if math32.Abs(mean.X) > 1e-5 || math32.Abs(mean.Y) > 1e-5 {
			t.Errorf("Layout(%d) centroid %v, want origin", n, mean)
		}
	}
}

func TestLayoutDomain(t *testing.T) {
	bld := forest.Builder{NoPanic: true}
	for _, n := range []int{-1, 0, forest.MaxTrees + 1} {
		got := bld.Layout(n)
		if got != nil {
			t.Errorf("Layout(%d) = %v, want nil", n, got)
		}
		if bld.Err() == nil {
			t.Errorf("Layout(%d) accumulated no error", n)
		}
		bld.ClearErrors()
	}
	var panicky forest.Builder
	defer func() {
		if recover() == nil {
			t.Error("Layout(0) on panicking builder did not panic")
		}
	}()
	panicky.Layout(0)
}

func vecApproxEqual(a, b ms2.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol
}
