package utils

import (
	"cmp"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod maps "kmeans" and "dominantcolor" to their method.
func ParsePaletteMethod(s string) (PaletteMethod, bool) {
	switch s {
	case "kmeans":
		return PaletteMethodKMeans, true
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, true
	}
	return 0, false
}

// candidate is a palette color with the share of pixels it stands for.
type candidate struct {
	col    colorful.Color
	weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		return cmp.Compare(luminance(a), luminance(b))
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ExtractPalette returns up to k visually distinct colors of the opaque
// pixels of img. Transparent pixels are ignored, so callers mask out the
// background before calling.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(img, k); len(p) > 0 {
			return p
		}
		slog.Warn("palette: kmeans found no clusters, using dominantcolor")
	}
	return ExtractDominantPalette(img, k)
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]candidate, 0, len(found))
	for _, f := range found {
		if f.RGBA.A == 0 {
			continue
		}
		col, _ := colorful.MakeColor(f.RGBA)
		cands = append(cands, candidate{col: col.Clamped(), weight: f.Weight})
	}
	if len(cands) == 0 {
		// Mid gray keeps an all-transparent input from yielding nothing.
		cands = append(cands, candidate{col: colorful.Color{R: 0.5, G: 0.5, B: 0.5}, weight: 1})
	}
	return selectDiverse(cands, k)
}

// ExtractKMeansPalette clusters the opaque pixels of img in CIE Lab space
// and picks k distinct cluster centers.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	samples := opaqueSamples(img, 12000)
	if len(samples) == 0 {
		return nil
	}

	obs := make(clusters.Observations, len(samples))
	for i, c := range samples {
		l, a, b := c.Lab()
		obs[i] = clusters.Coordinates{l, a, b}
	}
	// Over-cluster, then let selectDiverse thin the centers out.
	km := kmeans.New()
	parts, err := km.Partition(obs, min(k*4, len(obs)))
	if err != nil {
		return nil
	}

	cands := make([]candidate, 0, len(parts))
	for _, p := range parts {
		if len(p.Observations) == 0 || len(p.Center) != 3 {
			continue
		}
		col := colorful.Lab(p.Center[0], p.Center[1], p.Center[2]).Clamped()
		cands = append(cands, candidate{col: col, weight: float64(len(p.Observations))})
	}
	return selectDiverse(cands, k)
}

// opaqueSamples returns the colors of non-transparent pixels on a regular
// grid coarse enough to stay near limit samples.
func opaqueSamples(img image.Image, limit int) []colorful.Color {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return nil
	}
	step := 1
	if n > limit {
		step = int(math.Ceil(math.Sqrt(float64(n) / float64(limit))))
	}
	var out []colorful.Color
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			if c, ok := colorful.MakeColor(img.At(x, y)); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// selectDiverse is a weighted farthest-point pick: the heaviest candidate
// first, then repeatedly the one whose Lab distance to the picked set,
// damped by its relative weight, is largest.
func selectDiverse(cands []candidate, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	heaviest := slices.MaxFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.weight, b.weight)
	}).weight
	if heaviest <= 0 {
		heaviest = 1
	}

	picked := make([]colorful.Color, 0, min(k, len(cands)))
	used := make([]bool, len(cands))
	for len(picked) < cap(picked) {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			score := c.weight / heaviest
			if len(picked) > 0 {
				nearest := math.Inf(1)
				for _, p := range picked {
					nearest = min(nearest, c.col.DistanceLab(p))
				}
				score = nearest * (0.55 + 0.45*math.Sqrt(max(score, 0)))
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, cands[best].col)
	}
	return picked
}

// swatchColor converts a palette entry to an opaque 8-bit color.
func swatchColor(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
