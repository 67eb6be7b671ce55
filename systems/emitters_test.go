package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func newTestEmitters() *EmitterSystem {
	return NewEmitterSystem(ecs.NewWorld(), 7, EmitterParams{
		Speed:      12,
		Density:    400,
		Force:      30,
		TurnRate:   2.5,
		NoiseScale: 0.4,
	})
}

func TestEmitterSpawnAndClear(t *testing.T) {
	s := newTestEmitters()
	for i := 0; i < 3; i++ {
		s.Spawn(10, 10, float32(i), float64(i)*100)
	}
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", s.Count())
	}
}

func TestEmitterInjectsEveryFrame(t *testing.T) {
	s := newTestEmitters()
	s.Spawn(16, 16, 0, 0)
	s.Spawn(8, 20, math.Pi/2, 50)

	target := &recordingTarget{n: 32}
	if got := s.Update(1.0/60.0, target); got != 2 {
		t.Fatalf("Update processed %d emitters, want 2", got)
	}
	if target.count(false) != 2 || target.count(true) != 2 {
		t.Errorf("got %d density and %d velocity injections, want 2 each", target.count(false), target.count(true))
	}
	for _, c := range target.calls {
		if !c.isFlow && math.Abs(float64(c.a)-400.0/60.0) > 1e-3 {
			t.Errorf("density per frame = %v, want %v", c.a, 400.0/60.0)
		}
	}
}

func TestEmitterStaysInsideGrid(t *testing.T) {
	s := newTestEmitters()
	for i := 0; i < 5; i++ {
		s.Spawn(2, 2, float32(i)*1.3, float64(i)*37)
	}

	target := &recordingTarget{n: 16}
	for frame := 0; frame < 600; frame++ {
		target.calls = target.calls[:0]
		s.Update(1.0/30.0, target)
		for _, c := range target.calls {
			if c.x < 1 || c.x > 14 || c.y < 1 || c.y > 14 {
				t.Fatalf("frame %d: injection at (%d,%d) outside interior", frame, c.x, c.y)
			}
		}
	}
}

func TestEmitterDeterministic(t *testing.T) {
	run := func() []injection {
		s := newTestEmitters()
		s.Spawn(20, 20, 0.3, 11)
		target := &recordingTarget{n: 40}
		for i := 0; i < 100; i++ {
			s.Update(1.0/60.0, target)
		}
		return target.calls
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("call counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("call %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
