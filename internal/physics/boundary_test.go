package physics

import (
	"math"
	"testing"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func TestWrap(t *testing.T) {
	b := dynamo.Rect(10, 10)
	tests := []struct {
		name string
		x, y float64
		wx   float64
		wy   float64
	}{
		{"inside", 3, 4, 3, 4},
		{"past max", 10.5, 4, 0.5, 4},
		{"below min", -0.5, 4, 9.5, 4},
		{"on max edge", 10, 10, 0, 0},
		{"far outside", 35, -25, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := particle(t, 0, 1, 0, vec(tt.x, tt.y), vec(1, 1))
			Wrap{}.Apply(&p, b)
			if !near(p.Position.X, tt.wx, 1e-12) || !near(p.Position.Y, tt.wy, 1e-12) {
				t.Errorf("got %v, want (%v, %v)", p.Position, tt.wx, tt.wy)
			}
			if p.Velocity != vec(1, 1) {
				t.Errorf("wrap changed velocity: %v", p.Velocity)
			}
		})
	}
}

func TestWrapKeepsCentresInside(t *testing.T) {
	b := dynamo.Symmetric(1)
	for x := -7.3; x < 7.3; x += 0.37 {
		p := particle(t, 0, 1, 0, vec(x, -x), vec(0, 0))
		Wrap{}.Apply(&p, b)
		if p.Position.X < b.Min.X || p.Position.X >= b.Max.X || p.Position.Y < b.Min.Y || p.Position.Y >= b.Max.Y {
			t.Fatalf("x=%v wrapped to %v, outside %v", x, p.Position, b)
		}
	}
}

func TestReflect(t *testing.T) {
	b := dynamo.Symmetric(1)
	tests := []struct {
		name    string
		pos     [2]float64
		vel     [2]float64
		wantPos [2]float64
		wantVel [2]float64
	}{
		{"inside untouched", [2]float64{0, 0}, [2]float64{0.1, -0.1}, [2]float64{0, 0}, [2]float64{0.1, -0.1}},
		{"right wall", [2]float64{0.95, 0}, [2]float64{0.1, 0}, [2]float64{0.9, 0}, [2]float64{-0.1, 0}},
		{"left wall", [2]float64{-0.95, 0}, [2]float64{-0.1, 0.2}, [2]float64{-0.9, 0}, [2]float64{0.1, 0.2}},
		{"corner", [2]float64{1.2, -1.2}, [2]float64{0.3, -0.3}, [2]float64{0.9, -0.9}, [2]float64{-0.3, 0.3}},
		{"already heading back", [2]float64{0.95, 0}, [2]float64{-0.1, 0}, [2]float64{0.9, 0}, [2]float64{-0.1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := particle(t, 0, 1, 0.1, vec(tt.pos[0], tt.pos[1]), vec(tt.vel[0], tt.vel[1]))
			Reflect{}.Apply(&p, b)
			if !nearVec(p.Position, vec(tt.wantPos[0], tt.wantPos[1]), 1e-12) {
				t.Errorf("position = %v, want %v", p.Position, tt.wantPos)
			}
			if !nearVec(p.Velocity, vec(tt.wantVel[0], tt.wantVel[1]), 1e-12) {
				t.Errorf("velocity = %v, want %v", p.Velocity, tt.wantVel)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	p := particle(t, 0, 1, 0.1, vec(5, -5), vec(1, 1))
	Open{}.Apply(&p, dynamo.Symmetric(1))
	if p.Position != vec(5, -5) || p.Velocity != vec(1, 1) {
		t.Errorf("open boundary modified particle: %v", p)
	}
}

func TestReflectContainsOverManySteps(t *testing.T) {
	b := dynamo.Rect(3, 2)
	c := NewCollision(Reverse{}, Reflect{}, b)
	ps := []dynamo.Particle{particle(t, 0, 1, 0.25, vec(1, 1), vec(0.37, -0.29))}
	for i := 0; i < 500; i++ {
		c.Step(ps)
		p := ps[0]
		if math.IsNaN(p.Position.X) || !containsTol(b, p, 1e-12) {
			t.Fatalf("step %d: %v escaped %v", i, p, b)
		}
	}
}

func containsTol(b dynamo.Bounds, p dynamo.Particle, tol float64) bool {
	r := p.Radius()
	return p.Position.X-r >= b.Min.X-tol && p.Position.X+r <= b.Max.X+tol &&
		p.Position.Y-r >= b.Min.Y-tol && p.Position.Y+r <= b.Max.Y+tol
}
