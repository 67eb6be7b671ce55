package systems

import (
	"math/rand"
	"testing"
)

type injection struct {
	x, y   int
	a, b   float32
	isFlow bool
}

// recordingTarget captures injections without running a solver.
type recordingTarget struct {
	n     int
	calls []injection
}

func (r *recordingTarget) Size() int { return r.n }

func (r *recordingTarget) AddDensity(x, y int, amount float32) {
	r.calls = append(r.calls, injection{x: x, y: y, a: amount})
}

func (r *recordingTarget) AddVelocity(x, y int, dx, dy float32) {
	r.calls = append(r.calls, injection{x: x, y: y, a: dx, b: dy, isFlow: true})
}

func (r *recordingTarget) count(flow bool) int {
	n := 0
	for _, c := range r.calls {
		if c.isFlow == flow {
			n++
		}
	}
	return n
}

func TestPointerInjectorBounds(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		present bool
		want    bool
	}{
		{"interior", 10, 10, true, true},
		{"left edge excluded", 0, 10, true, false},
		{"top edge excluded", 10, 0, true, false},
		{"right of grid", 16, 10, true, false},
		{"last column", 15, 15, true, true},
		{"pointer absent", 10, 10, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &recordingTarget{n: 16}
			p := NewPointerInjector(100, 5)
			if got := p.Apply(target, tt.x, tt.y, tt.present); got != tt.want {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}
			if p.Hovering() != tt.want {
				t.Errorf("Hovering = %v, want %v", p.Hovering(), tt.want)
			}
		})
	}
}

func TestPointerInjectorMotion(t *testing.T) {
	target := &recordingTarget{n: 32}
	p := NewPointerInjector(100, 5)

	// First frame only deposits density.
	p.Apply(target, 10, 10, true)
	if target.count(true) != 0 {
		t.Fatalf("first hover frame injected velocity")
	}
	if target.count(false) != 1 || target.calls[0].a != 100 {
		t.Fatalf("expected one density injection of 100, got %+v", target.calls)
	}

	target.calls = nil
	p.Apply(target, 12, 9, true)
	if target.count(true) != 1 {
		t.Fatalf("expected one velocity injection, got %d", target.count(true))
	}
	for _, c := range target.calls {
		if c.isFlow && (c.x != 12 || c.y != 9 || c.a != 10 || c.b != -5) {
			t.Errorf("velocity injection = %+v, want (12,9) (10,-5)", c)
		}
	}

	// Standing still deposits density but no velocity.
	target.calls = nil
	p.Apply(target, 12, 9, true)
	if target.count(true) != 0 || target.count(false) != 1 {
		t.Errorf("stationary pointer: %d velocity, %d density injections", target.count(true), target.count(false))
	}

	// Leaving resets hover so re-entry starts without a jump.
	p.Apply(target, 0, 0, false)
	target.calls = nil
	p.Apply(target, 30, 30, true)
	if target.count(true) != 0 {
		t.Error("re-entry injected velocity from a stale position")
	}
}

func TestScrollInjectorIgnoresSmallDeltas(t *testing.T) {
	target := &recordingTarget{n: 16}
	s := NewScrollInjector(0.5, 5, 0.1, 5, 2, rand.New(rand.NewSource(1)))

	for _, d := range []float32{0, 0.5, -1, 1} {
		if cols := s.Apply(target, d); cols != 0 {
			t.Errorf("delta %v touched %d columns", d, cols)
		}
	}
	if len(target.calls) != 0 {
		t.Errorf("small deltas injected %d times", len(target.calls))
	}
}

func TestScrollInjectorRow(t *testing.T) {
	target := &recordingTarget{n: 16}
	s := NewScrollInjector(0.5, 5, 0.1, 5, 2, rand.New(rand.NewSource(1)))

	cols := s.Apply(target, 4)
	if cols != 8 {
		t.Errorf("columns = %d, want 8", cols)
	}
	if target.count(true) != 8 {
		t.Errorf("velocity injections = %d, want 8", target.count(true))
	}
	for _, c := range target.calls {
		if c.y != 11 {
			t.Fatalf("injection at row %d, want 11", c.y)
		}
		if c.x%2 != 0 {
			t.Fatalf("injection at odd column %d", c.x)
		}
		if c.isFlow && (c.a != 0 || c.b != -2) {
			t.Errorf("velocity = (%v,%v), want (0,-2)", c.a, c.b)
		}
		if !c.isFlow && c.a != 10 {
			t.Errorf("density = %v, want 10", c.a)
		}
	}
}

func TestScrollInjectorDensityChance(t *testing.T) {
	target := &recordingTarget{n: 64}
	s := NewScrollInjector(0.5, 5, 1, 5, 1, rand.New(rand.NewSource(3)))
	s.Apply(target, -10)
	if target.count(false) != 64 {
		t.Errorf("chance 1 produced %d density injections, want 64", target.count(false))
	}

	target.calls = nil
	s.Chance = 0
	s.Apply(target, -10)
	if target.count(false) != 0 {
		t.Errorf("chance 0 produced %d density injections", target.count(false))
	}
}

func TestScrollInjectorSmallGrid(t *testing.T) {
	target := &recordingTarget{n: 3}
	s := NewScrollInjector(0.5, 5, 0, 5, 2, nil)
	s.Apply(target, 3)
	for _, c := range target.calls {
		if c.y != 0 {
			t.Errorf("row = %d, want clamped to 0", c.y)
		}
	}
}
