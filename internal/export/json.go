package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlespace/internal/dynamo"
)

type jsonParticle struct {
	ID     uint32  `json:"id"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
}

type jsonFrame struct {
	Frame     uint64         `json:"frame"`
	Particles []jsonParticle `json:"particles"`
}

type jsonRun struct {
	Run    any         `json:"run,omitempty"`
	Frames []jsonFrame `json:"frames"`
}

// ExportJSON writes run metadata (which may be nil) and the snapshots as a
// single indented JSON document.
func ExportJSON(w io.Writer, run any, snaps []dynamo.Snapshot) error {
	doc := jsonRun{Run: run, Frames: make([]jsonFrame, len(snaps))}
	for i, snap := range snaps {
		f := jsonFrame{Frame: snap.Frame, Particles: make([]jsonParticle, len(snap.Particles))}
		for j, p := range snap.Particles {
			f.Particles[j] = jsonParticle{
				ID:     p.ID,
				Mass:   p.Mass(),
				Radius: p.Radius(),
				X:      p.Position.X,
				Y:      p.Position.Y,
				VX:     p.Velocity.X,
				VY:     p.Velocity.Y,
			}
		}
		doc.Frames[i] = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
