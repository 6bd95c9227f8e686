// Package spritemeta decomposes sprite images into collision polygons, an
// image role and, for sprite sheets, animation rows with frame ranges.
package spritemeta

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/spritemeta/utils"
)

type Options struct {
	// Pixels whose gray value is above Threshold are foreground.
	// 0 treats anything that is not pure black (or transparent) as sprite content.
	Threshold uint8
	// A new row starts when the vertical step between centroids reaches
	// height/RowBreakDivisor. Ideal start: 20.
	// Lower values merge neighbouring rows; higher values split tall frames.
	RowBreakDivisor float64
	// Background rule: more than BackgroundMinPixels pixels, edge density
	// above BackgroundEdgeDensity and more than BackgroundMinRegions regions.
	BackgroundMinPixels   int
	BackgroundEdgeDensity float64
	BackgroundMinRegions  int
	// Sheet rule: more than one region, fewer than SheetMaxPixels pixels and
	// a foreground ratio below SheetMaxForeground.
	SheetMaxPixels     int
	SheetMaxForeground float64
	// Optional chroma key for sheets drawn on a solid backdrop (e.g. magenta).
	// Pixels closer than KeyTolerance (CIE Lab distance) count as background.
	// Ideal start: 0.1-0.2.
	BackgroundKey *colorful.Color
	KeyTolerance  float64
	// Number of foreground colors reported in Result.Palette. 0 disables it.
	PaletteSize   int
	PaletteMethod utils.PaletteMethod
	// Upper bound for one oracle consultation.
	OracleTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Threshold:             0,
		RowBreakDivisor:       20,
		BackgroundMinPixels:   512 * 512,
		BackgroundEdgeDensity: 0.10,
		BackgroundMinRegions:  10,
		SheetMaxPixels:        1024 * 1024,
		SheetMaxForeground:    0.80,
		KeyTolerance:          0.15,
		PaletteMethod:         utils.PaletteMethodKMeans,
		OracleTimeout:         20 * time.Second,
	}
}

// Analyzer runs the analysis pipeline. It holds no per-image state, so one
// Analyzer may serve concurrent calls.
type Analyzer struct {
	Options   Options
	Extractor Extractor
	// Oracle is optional.
	Oracle Oracle
}

func NewAnalyzer(opt Options) *Analyzer {
	return &Analyzer{
		Options:   opt,
		Extractor: DefaultExtractor(),
	}
}

// AnalyzeFile decodes path and analyzes it. Decode failures are
// ErrImageLoad.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	img, err := utils.ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	return a.Analyze(ctx, img, filepath.Base(path))
}

// Analyze classifies img and, when it is a sprite sheet, splits it into
// animations. name is only used for the filename naming heuristic.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image, name string) (*Result, error) {
	opt := a.Options
	if opt.RowBreakDivisor <= 0 {
		opt.RowBreakDivisor = DefaultOptions().RowBreakDivisor
	}
	ext := a.Extractor
	if ext == nil {
		ext = DefaultExtractor()
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrImageLoad)
	}

	gray := toGray(img, opt.BackgroundKey, opt.KeyTolerance)
	regions, fg, err := extractRegions(ext, gray, opt.Threshold)
	if err != nil {
		return nil, fmt.Errorf("extract regions: %w", err)
	}
	edges, err := ext.EdgeDensity(gray)
	if err != nil {
		return nil, fmt.Errorf("edge density: %w", err)
	}
	stats := ImageStats{
		Width:           w,
		Height:          h,
		EdgeDensity:     edges,
		ForegroundRatio: float64(fg) / float64(w*h),
	}
	role := Classify(stats, len(regions), opt)
	Logger().Debug("image classified",
		"name", name, "regions", len(regions), "role", role,
		"edge_density", stats.EdgeDensity, "foreground_ratio", stats.ForegroundRatio)

	var names []string
	var character string
	if hint := a.consult(ctx, img); hint != nil {
		if hint.Role != "" {
			role = hint.Role
		}
		names = hint.AnimationNames
		character = hint.CharacterName
	}

	res, err := buildResult(role, stats, regions, name, names, opt)
	if err != nil {
		return nil, err
	}
	res.CharacterName = character
	if opt.PaletteSize > 0 {
		res.Palette = foregroundPalette(img, gray, opt)
	}
	return res, nil
}

// consult asks the oracle once, bounded by OracleTimeout. Failures are
// logged and reported as nil.
func (a *Analyzer) consult(ctx context.Context, img image.Image) *OracleResult {
	if a.Oracle == nil {
		return nil
	}
	if a.Options.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Options.OracleTimeout)
		defer cancel()
	}
	res, err := a.Oracle.Classify(ctx, img)
	if err != nil {
		Logger().Warn("oracle ignored", "err", err)
		return nil
	}
	if res == nil {
		return nil
	}
	if res.Role != "" {
		if _, ok := ParseRole(string(res.Role)); !ok {
			Logger().Warn("oracle returned unknown image type", "image_type", res.Role)
			res.Role = ""
		}
	}
	return res
}

// foregroundPalette extracts the dominant colors of the foreground pixels
// only, darkest first.
func foregroundPalette(img image.Image, gray *image.Gray, opt Options) []string {
	b := img.Bounds()
	fg := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			if gray.Pix[y*gray.Stride+x] <= opt.Threshold {
				continue
			}
			fg.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	palette := utils.ExtractPalette(fg, opt.PaletteSize, opt.PaletteMethod)
	utils.SortPaletteByBrightness(palette)
	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = c.Hex()
	}
	return out
}
