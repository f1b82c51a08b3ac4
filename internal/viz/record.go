package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/export"
)

const (
	frameSize   = 320
	speedLevels = 16
)

var framePalette = func() color.Palette {
	p := color.Palette{color.RGBA{0x10, 0x10, 0x18, 0xff}}
	for i := 0; i < speedLevels; i++ {
		r, g, b := export.SpeedColor(float64(i), speedLevels-1)
		p = append(p, color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 0xff})
	}
	return p
}()

// captureFrame rasterises particles as filled discs coloured by speed.
func captureFrame(ps []dynamo.Particle, bounds dynamo.Bounds, maxSpeed float64) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, frameSize, frameSize), framePalette)
	ext := bounds.Extent()
	sx := float64(frameSize-1) / ext.X
	sy := float64(frameSize-1) / ext.Y

	for _, p := range ps {
		if !p.IsValid() {
			continue
		}
		cx := int((p.Position.X - bounds.Min.X) * sx)
		cy := int((bounds.Max.Y - p.Position.Y) * sy)
		r := max(int(p.Radius()*sx), 1)
		idx := uint8(1 + speedIndex(p.Speed(), maxSpeed))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				x, y := cx+dx, cy+dy
				if x >= 0 && x < frameSize && y >= 0 && y < frameSize {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	return img
}

func speedIndex(speed, maxSpeed float64) int {
	if !(maxSpeed > 0) {
		return 0
	}
	i := int(speed / maxSpeed * (speedLevels - 1))
	return min(max(i, 0), speedLevels-1)
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("viz: no frames recorded")
	}

	anim := &gif.GIF{
		Image: frames,
		Delay: make([]int, len(frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = 3
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: create gif: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("viz: encode gif: %w", err)
	}
	return f.Close()
}
