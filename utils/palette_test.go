package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaletteMethod(t *testing.T) {
	m, ok := ParsePaletteMethod("kmeans")
	assert.True(t, ok)
	assert.Equal(t, PaletteMethodKMeans, m)

	for _, s := range []string{"dominantcolor", "dominant"} {
		m, ok = ParsePaletteMethod(s)
		assert.True(t, ok)
		assert.Equal(t, PaletteMethodDominantColor, m)
	}

	_, ok = ParsePaletteMethod("median-cut")
	assert.False(t, ok)

	assert.Equal(t, "kmeans", PaletteMethodKMeans.String())
	assert.Equal(t, "dominantcolor", PaletteMethodDominantColor.String())
}

func TestSortPaletteByBrightness(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}
	green := colorful.Color{G: 1}
	blue := colorful.Color{B: 1}

	p := []colorful.Color{white, green, black, blue}
	SortPaletteByBrightness(p)
	assert.Equal(t, []colorful.Color{black, blue, green, white}, p)
}

// twoTone returns a half red, half blue image with a transparent border.
func twoTone() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 2; y < 18; y++ {
		for x := 2; x < 38; x++ {
			c := color.NRGBA{R: 230, G: 20, B: 20, A: 255}
			if x >= 20 {
				c = color.NRGBA{R: 20, G: 20, B: 230, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractKMeansPalette(t *testing.T) {
	red := colorful.Color{R: 230.0 / 255, G: 20.0 / 255, B: 20.0 / 255}
	blue := colorful.Color{R: 20.0 / 255, G: 20.0 / 255, B: 230.0 / 255}

	p := ExtractPalette(twoTone(), 2, PaletteMethodKMeans)
	require.Len(t, p, 2)
	near := func(want colorful.Color) bool {
		for _, c := range p {
			if c.DistanceLab(want) < 0.1 {
				return true
			}
		}
		return false
	}
	assert.True(t, near(red), "red missing from %v", p)
	assert.True(t, near(blue), "blue missing from %v", p)
}

func TestExtractDominantPalette(t *testing.T) {
	p := ExtractPalette(twoTone(), 2, PaletteMethodDominantColor)
	assert.NotEmpty(t, p)
	assert.LessOrEqual(t, len(p), 2)
}

func TestExtractPaletteNonPositiveK(t *testing.T) {
	assert.Nil(t, ExtractKMeansPalette(twoTone(), 0))
	assert.Nil(t, ExtractDominantPalette(twoTone(), -1))
}

func TestSavePalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	require.NoError(t, SavePalette([]colorful.Color{{R: 1}, {G: 1}, {B: 1}}, 8, path))

	img, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(24, 8), img.Bounds().Size())
	r, g, b, _ := img.At(12, 4).RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})

	assert.Error(t, SavePalette(nil, 8, path))
}
