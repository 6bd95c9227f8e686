package spritemeta

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	spriteRed  = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	magenta    = color.NRGBA{R: 255, B: 255, A: 255}
	magentaKey = colorful.Color{R: 1, B: 1}
)

// canvas returns a fully transparent w x h image.
func canvas(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// sheet draws 20x20 squares; each entry of cols is the number of frames in
// that row. Rows are 70px apart, frames 50px apart.
func sheet(w, h int, cols ...int) *image.NRGBA {
	img := canvas(w, h)
	for r, n := range cols {
		for c := range n {
			x, y := 10+c*50, 10+r*70
			fill(img, image.Rect(x, y, x+20, y+20), spriteRed)
		}
	}
	return img
}

func maskOf(img image.Image) *image.Gray {
	m, _ := binarize(toGray(img, nil, 0), 0)
	return m
}
