package dynamo

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewParticle(t *testing.T) {
	tests := []struct {
		name    string
		mass    float64
		radius  float64
		wantErr bool
	}{
		{"point mass", 1, 0, false},
		{"disc", 0.5, 0.1, false},
		{"zero mass", 0, 0.1, true},
		{"negative mass", -1, 0.1, true},
		{"nan mass", math.NaN(), 0.1, true},
		{"negative radius", 1, -0.1, true},
		{"infinite radius", 1, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParticle(3, tt.mass, tt.radius, r2.Vec{X: 1}, r2.Vec{Y: 1})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected *ConfigError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ID != 3 || p.Mass() != tt.mass || p.Radius() != tt.radius {
				t.Errorf("got %v", p)
			}
		})
	}
}

func TestParticleDerived(t *testing.T) {
	p, _ := NewParticle(0, 2, 0.1, r2.Vec{}, r2.Vec{X: 3, Y: 4})
	if p.Speed() != 5 {
		t.Errorf("Speed = %v, want 5", p.Speed())
	}
	if p.Momentum() != (r2.Vec{X: 6, Y: 8}) {
		t.Errorf("Momentum = %v", p.Momentum())
	}
	if !p.IsValid() {
		t.Error("finite particle reported invalid")
	}
	p.Velocity.X = math.Inf(-1)
	if p.IsValid() {
		t.Error("infinite velocity reported valid")
	}
}

func TestOverlaps(t *testing.T) {
	a, _ := NewParticle(0, 1, 0.1, r2.Vec{}, r2.Vec{})
	tests := []struct {
		x    float64
		want bool
	}{
		{0.1, true},
		{0.19, true},
		{0.2, false},
		{0.5, false},
	}
	for _, tt := range tests {
		b, _ := NewParticle(1, 1, 0.1, r2.Vec{X: tt.x}, r2.Vec{})
		if got := Overlaps(a, b); got != tt.want {
			t.Errorf("Overlaps at distance %v = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	s := Symmetric(1)
	if s.Extent() != (r2.Vec{X: 2, Y: 2}) || !s.Valid() {
		t.Errorf("Symmetric(1) = %+v", s)
	}
	r := Rect(4, 3)
	if r.Min != (r2.Vec{}) || r.Max != (r2.Vec{X: 4, Y: 3}) {
		t.Errorf("Rect(4, 3) = %+v", r)
	}
	if !s.Contains(r2.Vec{X: 0.9}, 0.1) {
		t.Error("circle touching the wall should be contained")
	}
	if s.Contains(r2.Vec{X: 0.95}, 0.1) {
		t.Error("circle past the wall should not be contained")
	}
	if (Bounds{}).Valid() {
		t.Error("empty bounds reported valid")
	}
}

func TestResultFinal(t *testing.T) {
	var r *Result
	if _, ok := r.Final(); ok {
		t.Error("nil result has no final snapshot")
	}
	r = &Result{Snapshots: []Snapshot{{Frame: 0}, {Frame: 7}}}
	if s, ok := r.Final(); !ok || s.Frame != 7 {
		t.Errorf("Final = %v, %v", s.Frame, ok)
	}
}
