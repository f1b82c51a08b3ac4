package physics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

var errTreeDepth = errors.New("physics: quadtree cannot separate particles")

// quadNode is a quadrant of the Barnes-Hut tree. A leaf holds one body; an
// internal node holds the mass and centre of mass of everything below it.
type quadNode struct {
	bounds r2.Box
	body   barneshut.Particle2
	nodes  [4]*quadNode

	center r2.Vec
	mass   float64
}

// quadtree follows the barneshut.Plane contract but summarises leaves by
// their own coordinate, so masses other than 1 give the right centres.
type quadtree struct {
	root *quadNode
}

func newQuadtree(ps []barneshut.Particle2) (*quadtree, error) {
	if len(ps) == 0 {
		return &quadtree{}, nil
	}
	b := r2.Box{Min: ps[0].Coord2(), Max: ps[0].Coord2()}
	for _, p := range ps[1:] {
		c := p.Coord2()
		b.Min.X = math.Min(b.Min.X, c.X)
		b.Min.Y = math.Min(b.Min.Y, c.Y)
		b.Max.X = math.Max(b.Max.X, c.X)
		b.Max.Y = math.Max(b.Max.Y, c.Y)
	}

	root := &quadNode{bounds: b}
	for _, p := range ps {
		if err := root.insert(p); err != nil {
			return nil, err
		}
	}
	root.summarize()
	return &quadtree{root: root}, nil
}

func (n *quadNode) internal() bool {
	for _, c := range n.nodes {
		if c != nil {
			return true
		}
	}
	return false
}

func (n *quadNode) insert(p barneshut.Particle2) error {
	if n.body == nil && !n.internal() {
		n.body = p
		return nil
	}
	if n.body != nil {
		old := n.body
		n.body = nil
		if err := n.passDown(old); err != nil {
			return err
		}
	}
	return n.passDown(p)
}

func (n *quadNode) passDown(p barneshut.Particle2) error {
	dir, sub := quadrant(n.bounds, p.Coord2())
	if n.nodes[dir] == nil {
		if sub == n.bounds {
			return errTreeDepth
		}
		n.nodes[dir] = &quadNode{bounds: sub}
	}
	return n.nodes[dir].insert(p)
}

// quadrant returns the index and box of the quadrant of b containing c.
func quadrant(b r2.Box, c r2.Vec) (int, r2.Box) {
	mid := r2.Scale(0.5, r2.Add(b.Min, b.Max))
	dir := 0
	sub := b
	if c.X < mid.X {
		sub.Max.X = mid.X
	} else {
		dir |= 1
		sub.Min.X = mid.X
	}
	if c.Y < mid.Y {
		sub.Max.Y = mid.Y
	} else {
		dir |= 2
		sub.Min.Y = mid.Y
	}
	return dir, sub
}

func (n *quadNode) summarize() (r2.Vec, float64) {
	if n.body != nil {
		n.center, n.mass = n.body.Coord2(), n.body.Mass()
		return n.center, n.mass
	}
	var weighted r2.Vec
	n.mass = 0
	for _, c := range n.nodes {
		if c == nil {
			continue
		}
		cc, m := c.summarize()
		weighted = r2.Add(weighted, r2.Scale(m, cc))
		n.mass += m
	}
	if n.mass > 0 {
		n.center = r2.Scale(1/n.mass, weighted)
	}
	return n.center, n.mass
}

// forceOn sums f over the tree. Nodes whose mean side over distance is
// below theta are treated as one aggregate mass and passed to f with a nil
// second particle, as barneshut.Force2 describes.
func (t *quadtree) forceOn(p barneshut.Particle2, theta float64, f barneshut.Force2) r2.Vec {
	if t.root == nil {
		return r2.Vec{}
	}
	return t.root.forceOn(p, p.Coord2(), p.Mass(), theta, f)
}

func (n *quadNode) forceOn(p barneshut.Particle2, pt r2.Vec, m, theta float64, f barneshut.Force2) r2.Vec {
	if n.body != nil {
		return f(p, n.body, m, n.mass, r2.Sub(n.center, pt))
	}
	s := ((n.bounds.Max.X - n.bounds.Min.X) + (n.bounds.Max.Y - n.bounds.Min.Y)) / 2
	if d := math.Hypot(pt.X-n.center.X, pt.Y-n.center.Y); d > 0 && s/d < theta {
		return f(p, nil, m, n.mass, r2.Sub(n.center, pt))
	}

	var v r2.Vec
	for _, c := range n.nodes {
		if c != nil {
			v = r2.Add(v, c.forceOn(p, pt, m, theta, f))
		}
	}
	return v
}
