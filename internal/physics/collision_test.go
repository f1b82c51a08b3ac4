package physics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want []Pair
	}{
		{"apart", []float64{-0.5, 0.5}, nil},
		{"touching is not overlap", []float64{0, 0.2}, nil},
		{"overlap", []float64{0, 0.19}, []Pair{{0, 1}}},
		{"chain", []float64{-0.15, 0, 0.15}, []Pair{{0, 1}, {1, 2}}},
		{"cluster ascending", []float64{0, 0.05, 0.1}, []Pair{{0, 1}, {0, 2}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := make([]dynamo.Particle, len(tt.xs))
			for i, x := range tt.xs {
				ps[i] = particle(t, uint32(i), 1, 0.1, vec(x, 0), vec(0, 0))
			}
			if diff := cmp.Diff(tt.want, Detect(ps)); diff != "" {
				t.Errorf("Detect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElasticHeadOnExchange(t *testing.T) {
	a := particle(t, 0, 1, 0.1, vec(-0.15, 0), vec(1, 0))
	b := particle(t, 1, 1, 0.1, vec(0.15, 0), vec(-1, 0))

	if !NewElastic().Resolve(&a, &b) {
		t.Fatal("approaching pair not resolved")
	}
	if !nearVec(a.Velocity, vec(-1, 0), 1e-12) || !nearVec(b.Velocity, vec(1, 0), 1e-12) {
		t.Errorf("velocities = %v, %v; want (-1,0), (1,0)", a.Velocity, b.Velocity)
	}
}

func TestElasticConservation(t *testing.T) {
	tests := []struct {
		name     string
		m1, m2   float64
		x1, x2   [2]float64
		v1, v2   [2]float64
	}{
		{"equal oblique", 1, 1, [2]float64{0, 0}, [2]float64{0.15, 0.05}, [2]float64{0.3, 0.1}, [2]float64{-0.2, 0}},
		{"heavy light", 5, 0.5, [2]float64{0, 0}, [2]float64{0.1, -0.1}, [2]float64{0.05, -0.05}, [2]float64{-0.4, 0.2}},
		{"one at rest", 1, 3, [2]float64{0.3, 0.3}, [2]float64{0.2, 0.3}, [2]float64{-1, 0}, [2]float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := particle(t, 0, tt.m1, 0.1, vec(tt.x1[0], tt.x1[1]), vec(tt.v1[0], tt.v1[1]))
			b := particle(t, 1, tt.m2, 0.1, vec(tt.x2[0], tt.x2[1]), vec(tt.v2[0], tt.v2[1]))
			ps := []dynamo.Particle{a, b}
			p0, e0 := Momentum(ps), KineticEnergy(ps)

			if !NewElastic().Resolve(&ps[0], &ps[1]) {
				t.Fatal("pair not resolved")
			}
			if !nearVec(Momentum(ps), p0, 1e-12) {
				t.Errorf("momentum %v, want %v", Momentum(ps), p0)
			}
			if !near(KineticEnergy(ps), e0, 1e-12) {
				t.Errorf("kinetic energy %v, want %v", KineticEnergy(ps), e0)
			}
		})
	}
}

func TestElasticSkips(t *testing.T) {
	tests := []struct {
		name   string
		x2     float64
		v1, v2 float64
	}{
		{"coincident", 0, 1, -1},
		{"within epsilon", 1e-12, 1, -1},
		{"separating", 0.1, -1, 1},
		{"no relative motion", 0.1, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := particle(t, 0, 1, 0.1, vec(0, 0), vec(tt.v1, 0))
			b := particle(t, 1, 1, 0.1, vec(tt.x2, 0), vec(tt.v2, 0))
			if NewElastic().Resolve(&a, &b) {
				t.Error("pair resolved")
			}
			if a.Velocity != vec(tt.v1, 0) || b.Velocity != vec(tt.v2, 0) {
				t.Errorf("velocities changed: %v, %v", a.Velocity, b.Velocity)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	a := particle(t, 0, 1, 0.1, vec(0, 0), vec(0.3, -0.1))
	b := particle(t, 1, 2, 0.1, vec(0.1, 0), vec(-0.2, 0.4))
	Reverse{}.Resolve(&a, &b)
	if a.Velocity != vec(-0.3, 0.1) || b.Velocity != vec(0.2, -0.4) {
		t.Errorf("velocities = %v, %v", a.Velocity, b.Velocity)
	}
}

func TestResolveAllSequentialOrder(t *testing.T) {
	ps := []dynamo.Particle{
		particle(t, 0, 1, 0.1, vec(-0.15, 0), vec(1, 0)),
		particle(t, 1, 1, 0.1, vec(0, 0), vec(0, 0)),
		particle(t, 2, 1, 0.1, vec(0.15, 0), vec(-1, 0)),
	}

	n := ResolveAll(ps, Detect(ps), NewElastic())
	if n != 2 {
		t.Errorf("resolved %d pairs, want 2", n)
	}
	// (0,1) hands A's velocity to B, then (1,2) sees B moving at +1.
	want := []float64{0, -1, 1}
	for i, w := range want {
		if !nearVec(ps[i].Velocity, vec(w, 0), 1e-12) {
			t.Errorf("particle %d velocity = %v, want (%v, 0)", i, ps[i].Velocity, w)
		}
	}
}

func TestCollisionStepHeadOn(t *testing.T) {
	c := NewCollision(NewElastic(), Reflect{}, dynamo.Symmetric(1))
	ps := []dynamo.Particle{
		particle(t, 0, 1, 0.1, vec(-0.15, 0), vec(0.1, 0)),
		particle(t, 1, 1, 0.1, vec(0.15, 0), vec(-0.1, 0)),
	}

	c.Step(ps)
	if !nearVec(ps[0].Velocity, vec(-0.1, 0), 1e-12) || !nearVec(ps[1].Velocity, vec(0.1, 0), 1e-12) {
		t.Errorf("velocities = %v, %v; want exchanged", ps[0].Velocity, ps[1].Velocity)
	}
	if !nearVec(ps[0].Position, vec(-0.05, 0), 1e-12) {
		t.Errorf("position = %v, want ballistic advance to (-0.05, 0)", ps[0].Position)
	}
}

func TestCollisionStepTunnels(t *testing.T) {
	c := NewCollision(NewElastic(), Reflect{}, dynamo.Symmetric(1))
	ps := []dynamo.Particle{
		particle(t, 0, 1, 0.1, vec(-0.15, 0), vec(1, 0)),
		particle(t, 1, 1, 0.1, vec(0.15, 0), vec(-1, 0)),
	}

	c.Step(ps)
	// One tick moves each particle past the other without an overlap.
	if ps[0].Velocity != vec(1, 0) || ps[1].Velocity != vec(-1, 0) {
		t.Errorf("velocities = %v, %v; want unchanged", ps[0].Velocity, ps[1].Velocity)
	}
}

func TestCollisionWallThenPair(t *testing.T) {
	c := NewCollision(NewElastic(), Reflect{}, dynamo.Symmetric(1))
	ps := []dynamo.Particle{
		particle(t, 0, 1, 0.1, vec(0.85, 0), vec(0.1, 0)),
	}
	c.Step(ps)
	if !nearVec(ps[0].Position, vec(0.9, 0), 1e-12) || !nearVec(ps[0].Velocity, vec(-0.1, 0), 1e-12) {
		t.Errorf("particle = %v, want reflected at the wall", ps[0])
	}
}

func BenchmarkCollisionStep(b *testing.B) {
	ps := randomPopulation(b, 9, 200)
	for i := range ps {
		ps[i] = particle(b, ps[i].ID, ps[i].Mass(), 0.5, ps[i].Position, ps[i].Velocity)
	}
	c := NewCollision(NewElastic(), Reflect{}, dynamo.Rect(100, 100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Step(ps)
	}
}
