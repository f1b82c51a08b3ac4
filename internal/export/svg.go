package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// SpeedColor maps a speed to the red-to-blue ramp: slow particles are
// red, particles at or above maxSpeed are blue.
func SpeedColor(speed, maxSpeed float64) (r, g, b float64) {
	t := 1.0
	if maxSpeed > 0 {
		t = math.Min(speed/maxSpeed, 1)
	}
	return math.Max(1-t, 0), 0, t
}

// SpeedHex is SpeedColor as an #rrggbb string.
func SpeedHex(speed, maxSpeed float64) string {
	r, g, b := SpeedColor(speed, maxSpeed)
	return fmt.Sprintf("#%02x%02x%02x", channel(r), channel(g), channel(b))
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}

// projection maps arena coordinates to SVG pixels with y pointing up.
type projection struct {
	bounds dynamo.Bounds
	scale  float64
	width  float64
	height float64
}

func newProjection(bounds dynamo.Bounds, width int) projection {
	ext := bounds.Extent()
	scale := float64(width) / ext.X
	return projection{bounds: bounds, scale: scale, width: float64(width), height: ext.Y * scale}
}

func (p projection) point(x, y float64) (float64, float64) {
	return (x - p.bounds.Min.X) * p.scale, p.height - (y-p.bounds.Min.Y)*p.scale
}

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h)
}

// SnapshotSVG draws one frame as circles coloured by speed. Point masses
// get a minimum on-screen radius.
func SnapshotSVG(snap dynamo.Snapshot, bounds dynamo.Bounds, width int, maxSpeed float64) string {
	if !bounds.Valid() || width <= 0 {
		return ""
	}
	proj := newProjection(bounds, width)

	var sb strings.Builder
	header(&sb, proj.width, proj.height)
	fmt.Fprintf(&sb, "<!-- frame %d -->\n<g>\n", snap.Frame)

	for _, p := range snap.Particles {
		cx, cy := proj.point(p.Position.X, p.Position.Y)
		r := math.Max(p.Radius()*proj.scale, 1.5)
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, r, SpeedHex(p.Speed(), maxSpeed))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesSVG draws one path per particle ID through the snapshots.
// A particle wrapping across the arena starts a new path segment.
func TrajectoriesSVG(snaps []dynamo.Snapshot, bounds dynamo.Bounds, width int, strokeColor string) string {
	if len(snaps) < 2 || !bounds.Valid() || width <= 0 {
		return ""
	}
	proj := newProjection(bounds, width)
	jump := math.Min(proj.width, proj.height) / 2

	paths := make(map[uint32]*strings.Builder)
	last := make(map[uint32][2]float64)
	for _, snap := range snaps {
		for _, p := range snap.Particles {
			x, y := proj.point(p.Position.X, p.Position.Y)
			sb, ok := paths[p.ID]
			if !ok {
				sb = &strings.Builder{}
				paths[p.ID] = sb
			}
			cmd := "L"
			if prev, seen := last[p.ID]; !seen || math.Hypot(x-prev[0], y-prev[1]) > jump {
				cmd = "M"
			}
			fmt.Fprintf(sb, "%s%.1f,%.1f ", cmd, x, y)
			last[p.ID] = [2]float64{x, y}
		}
	}

	ids := make([]uint32, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	header(&sb, proj.width, proj.height)
	fmt.Fprintf(&sb, `<g fill="none" stroke="%s" stroke-width="1.5">
`, strokeColor)
	for _, id := range ids {
		fmt.Fprintf(&sb, `<path d="%s"/>
`, strings.TrimSpace(paths[id].String()))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
