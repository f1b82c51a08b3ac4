package metrics

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func TestContainment(t *testing.T) {
	m := NewContainment(dynamo.Symmetric(1), 1e-12)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	inside := []dynamo.Particle{mk(t, 1, 0.1, r2.Vec{X: 0.9}, r2.Vec{})}
	outside := []dynamo.Particle{mk(t, 1, 0.1, r2.Vec{X: 0.95}, r2.Vec{})}
	m.Observe(inside, 0)
	m.Observe(inside, 1)
	m.Observe(outside, 2)
	m.Observe(inside, 3)

	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

func TestOverlaps(t *testing.T) {
	m := NewOverlaps()
	ps := []dynamo.Particle{
		mk(t, 1, 0.1, r2.Vec{X: 0}, r2.Vec{}),
		mk(t, 1, 0.1, r2.Vec{X: 0.15}, r2.Vec{}),
		mk(t, 1, 0.1, r2.Vec{X: 0.3}, r2.Vec{}),
	}
	m.Observe(ps, 0)
	ps[1].Position.X = 0.7
	m.Observe(ps, 1)

	// two pairs, then none
	if m.Value() != 1 {
		t.Errorf("expected 1, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}
