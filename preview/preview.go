// Package preview draws analysis results over the source image: collision
// outlines colored per animation row, frame boxes and an optional tile grid.
package preview

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/spritemeta"
)

type Options struct {
	// Outline stroke width in pixels.
	LineWidth float64
	// Draw frame bounding boxes of sprite sheet animations.
	FrameBoxes bool
	// Grid spacing in pixels for a fixed tile grid. 0 disables the grid.
	Grid int
}

func DefaultOptions() Options {
	return Options{
		LineWidth:  1,
		FrameBoxes: true,
	}
}

var (
	gridColor    = color.RGBA{R: 255, A: 255}
	outlineColor = colorful.Color{R: 0, G: 1, B: 0.4}
)

// Render returns a copy of src with res drawn on top.
func Render(src image.Image, res *spritemeta.Result, opt Options) (image.Image, error) {
	dc := gg.NewContextForImage(src)
	defer dc.Close()

	lw := opt.LineWidth
	if lw <= 0 {
		lw = 1
	}

	if opt.Grid > 0 {
		if err := drawGrid(dc, opt.Grid); err != nil {
			return nil, err
		}
	}

	colors := shapeColors(res)
	for i, shape := range res.CollisionShapes {
		if len(shape) == 0 {
			continue
		}
		dc.SetColor(colors[i])
		dc.SetLineWidth(lw)
		tracePolygon(dc, shape)
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}

	if opt.FrameBoxes && len(res.Animations) > 0 {
		palette := colorful.FastHappyPalette(len(res.Animations))
		for ai, anim := range res.Animations {
			c := palette[ai]
			dc.SetRGBA(c.R, c.G, c.B, 0.5)
			dc.SetLineWidth(max(lw/2, 0.5))
			for _, f := range anim.Frames {
				dc.DrawRectangle(float64(f.X), float64(f.Y), float64(f.W), float64(f.H))
				if err := dc.Stroke(); err != nil {
					return nil, err
				}
			}
		}
	}
	return dc.Image(), nil
}

// shapeColors assigns every collision shape the color of its animation row;
// shapes outside any animation get the default outline color.
func shapeColors(res *spritemeta.Result) []color.Color {
	colors := make([]color.Color, len(res.CollisionShapes))
	for i := range colors {
		colors[i] = outlineColor
	}
	if len(res.Animations) == 0 {
		return colors
	}
	palette := colorful.FastHappyPalette(len(res.Animations))
	for ai, anim := range res.Animations {
		for _, f := range anim.Frames {
			if f.Region >= 0 && f.Region < len(colors) {
				colors[f.Region] = palette[ai]
			}
		}
	}
	return colors
}

func tracePolygon(dc *gg.Context, shape spritemeta.Shape) {
	// Outline points are pixel indices; stroke through pixel centers.
	dc.MoveTo(float64(shape[0].X)+0.5, float64(shape[0].Y)+0.5)
	for _, p := range shape[1:] {
		dc.LineTo(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	dc.ClosePath()
}

func drawGrid(dc *gg.Context, step int) error {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for x := step; x < dc.Width(); x += step {
		dc.MoveTo(float64(x), 0)
		dc.LineTo(float64(x), h)
	}
	for y := step; y < dc.Height(); y += step {
		dc.MoveTo(0, float64(y))
		dc.LineTo(w, float64(y))
	}
	return dc.Stroke()
}
