package render

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type sample struct{ x, y, v float64 }

var depthCalcCases = []struct {
	name string
	s    [3]sample
}{
	{"general", [3]sample{{10, 5, 2}, {40, 30, 3}, {5, 45, 7}}},
	{"shared top row", [3]sample{{0, 0, 1}, {20, 0, 4}, {10, 30, 2}}},
	{"shared bottom row", [3]sample{{3, 1, 5}, {0, 9, 1.5}, {17, 9, 0.75}}},
	{"constant", [3]sample{{1, 1, 4}, {9, 2, 4}, {4, 8, 4}}},
	{"sub-pixel", [3]sample{{0.25, 0.5, 10}, {0.75, 0.9, 11}, {0.3, 1.4, 12}}},
}

func fit(t *testing.T, s [3]sample) DepthCalc {
	t.Helper()
	var d DepthCalc
	if !d.Compute(s[0].x, s[0].y, s[0].v, s[1].x, s[1].y, s[1].v, s[2].x, s[2].y, s[2].v) {
		t.Fatalf("Compute(%v) reported degenerate", s)
	}
	return d
}

func TestDepthCalcExactAtSamples(t *testing.T) {
	for _, tt := range depthCalcCases {
		t.Run(tt.name, func(t *testing.T) {
			d := fit(t, tt.s)
			for i, s := range tt.s {
				if got := d.Value(s.x, s.y); math.Abs(got-s.v) > 1e-9*math.Max(1, s.v) {
					t.Errorf("sample %d: Value = %v, want %v", i, got, s.v)
				}
			}
		})
	}
}

func TestDepthCalcLinearInverse(t *testing.T) {
	for _, tt := range depthCalcCases {
		t.Run(tt.name, func(t *testing.T) {
			d := fit(t, tt.s)
			for i := range 3 {
				a, b := tt.s[i], tt.s[(i+1)%3]
				for _, f := range []float64{0.1, 0.25, 0.5, 0.9} {
					x := a.x + (b.x-a.x)*f
					y := a.y + (b.y-a.y)*f
					want := 1/a.v + (1/b.v-1/a.v)*f
					if got := d.Inverse(x, y); math.Abs(got-want) > 1e-9 {
						t.Errorf("edge %d f=%v: Inverse = %v, want %v", i, f, got, want)
					}
				}
			}
		})
	}
}

// The closed form must agree with a general linear solve of
// [x y 1]·[A B C]ᵀ = 1/v.
func TestDepthCalcMatchesLinearSolve(t *testing.T) {
	for _, tt := range depthCalcCases {
		t.Run(tt.name, func(t *testing.T) {
			d := fit(t, tt.s)

			a := mat.NewDense(3, 3, nil)
			w := mat.NewVecDense(3, nil)
			for i, s := range tt.s {
				a.SetRow(i, []float64{s.x, s.y, 1})
				w.SetVec(i, 1/s.v)
			}
			var coef mat.VecDense
			if err := coef.SolveVec(a, w); err != nil {
				t.Fatalf("SolveVec: %v", err)
			}

			got := []float64{d.A, d.B, d.C}
			for i, g := range got {
				if math.Abs(g-coef.AtVec(i)) > 1e-9 {
					t.Errorf("coef %d = %v, solver says %v", i, g, coef.AtVec(i))
				}
			}
		})
	}
}

func TestDepthCalcDegenerate(t *testing.T) {
	tests := []struct {
		name string
		s    [3]sample
	}{
		{"single row", [3]sample{{0, 4, 2}, {5, 4, 3}, {9, 4, 6}}},
		{"collinear diagonal", [3]sample{{0, 0, 2}, {1, 1, 3}, {2, 2, 6}}},
		{"coincident", [3]sample{{1, 1, 2}, {1, 1, 3}, {4, 5, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DepthCalc
			s := tt.s
			if d.Compute(s[0].x, s[0].y, s[0].v, s[1].x, s[1].y, s[1].v, s[2].x, s[2].y, s[2].v) {
				t.Fatal("Compute succeeded on collinear samples")
			}
			if got := d.Value(100, -50); got != s[0].v {
				t.Errorf("degenerate fit Value = %v, want constant %v", got, s[0].v)
			}
			if math.IsNaN(d.A) || math.IsNaN(d.B) || math.IsNaN(d.C) {
				t.Errorf("degenerate fit produced NaN: %+v", d)
			}
		})
	}
}

func BenchmarkDepthCalcCompute(b *testing.B) {
	var d DepthCalc
	for b.Loop() {
		d.Compute(10, 5, 2, 40, 30, 3, 5, 45, 7)
	}
}
