// Command spritemeta analyzes a sprite image and prints its metadata as JSON.
//
// Usage:
//
//	spritemeta [options] image.png
//
// The oracle is consulted when OPENAI_API_KEY (or -api-key) is set. On
// failure the output is {"error": "..."} and the exit status is 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/spritemeta"
	"github.com/setanarut/spritemeta/oracle"
	"github.com/setanarut/spritemeta/preview"
	"github.com/setanarut/spritemeta/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
}

type config struct {
	apiKey        string
	model         string
	endpoint      string
	opt           spritemeta.Options
	key           string
	paletteMethod string
	overlay       string
	grid          int
	swatch        string
	tiles         string
	tileSize      int
	verbose       bool
}

func runWithArgs(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cfg := config{opt: spritemeta.DefaultOptions()}
	fs := flag.NewFlagSet("spritemeta", flag.ContinueOnError)
	fs.SetOutput(stderr)
	threshold := fs.Uint("threshold", uint(cfg.opt.Threshold), "gray level above which a pixel is foreground (0-254)")
	fs.StringVar(&cfg.apiKey, "api-key", "", "oracle API key (default $OPENAI_API_KEY)")
	fs.StringVar(&cfg.model, "model", oracle.DefaultModel, "oracle model")
	fs.StringVar(&cfg.endpoint, "endpoint", oracle.DefaultEndpoint, "oracle API base URL")
	fs.DurationVar(&cfg.opt.OracleTimeout, "timeout", cfg.opt.OracleTimeout, "oracle timeout")
	fs.Float64Var(&cfg.opt.RowBreakDivisor, "row-divisor", cfg.opt.RowBreakDivisor, "row break at height/row-divisor")
	fs.StringVar(&cfg.key, "key", "", "background key color, e.g. #ff00ff")
	fs.Float64Var(&cfg.opt.KeyTolerance, "key-tolerance", cfg.opt.KeyTolerance, "Lab distance treated as key color")
	fs.IntVar(&cfg.opt.PaletteSize, "palette", 0, "report this many foreground colors")
	fs.StringVar(&cfg.paletteMethod, "palette-method", cfg.opt.PaletteMethod.String(), "kmeans or dominantcolor")
	fs.StringVar(&cfg.overlay, "overlay", "", "write a debug overlay PNG to this path")
	fs.IntVar(&cfg.grid, "grid", 0, "draw a tile grid with this spacing on the overlay")
	fs.StringVar(&cfg.swatch, "swatch", "", "write the palette as a PNG swatch (needs -palette)")
	fs.StringVar(&cfg.tiles, "tiles", "", "split the image into tiles in this directory")
	fs.IntVar(&cfg.tileSize, "tile-size", 32, "tile size for -tiles")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging on stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logLevel := slog.LevelWarn
	if cfg.verbose {
		logLevel = slog.LevelDebug
	}
	spritemeta.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})))

	if fs.NArg() < 1 {
		return fail(stdout, errors.New("no image path provided"))
	}
	if *threshold > 254 {
		return fail(stdout, fmt.Errorf("threshold %d out of range", *threshold))
	}
	cfg.opt.Threshold = uint8(*threshold)
	if cfg.key != "" {
		c, err := colorful.Hex(cfg.key)
		if err != nil {
			return fail(stdout, fmt.Errorf("key color: %w", err))
		}
		cfg.opt.BackgroundKey = &c
	}
	method, ok := utils.ParsePaletteMethod(cfg.paletteMethod)
	if !ok {
		return fail(stdout, fmt.Errorf("unknown palette method %q", cfg.paletteMethod))
	}
	cfg.opt.PaletteMethod = method
	if cfg.apiKey == "" {
		cfg.apiKey = getenv("OPENAI_API_KEY")
	}

	res, err := analyze(context.Background(), fs.Arg(0), cfg)
	if err != nil {
		return fail(stdout, err)
	}
	if err := writeJSON(stdout, res); err != nil {
		return 1
	}
	return 0
}

func analyze(ctx context.Context, path string, cfg config) (*spritemeta.Result, error) {
	img, err := utils.ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", spritemeta.ErrImageLoad, err)
	}

	a := spritemeta.NewAnalyzer(cfg.opt)
	if cfg.apiKey != "" {
		c := oracle.New(cfg.apiKey)
		c.Model = cfg.model
		c.Endpoint = cfg.endpoint
		a.Oracle = c
	}
	res, err := a.Analyze(ctx, img, path)
	if err != nil {
		return nil, err
	}

	if cfg.overlay != "" {
		po := preview.DefaultOptions()
		po.Grid = cfg.grid
		out, err := preview.Render(img, res, po)
		if err != nil {
			return nil, fmt.Errorf("render overlay: %w", err)
		}
		if err := utils.SaveImage(out, cfg.overlay); err != nil {
			return nil, fmt.Errorf("save overlay: %w", err)
		}
	}
	if cfg.swatch != "" && len(res.Palette) > 0 {
		palette := make([]colorful.Color, 0, len(res.Palette))
		for _, h := range res.Palette {
			c, err := colorful.Hex(h)
			if err != nil {
				return nil, fmt.Errorf("palette color %q: %w", h, err)
			}
			palette = append(palette, c)
		}
		if err := utils.SavePalette(palette, 64, cfg.swatch); err != nil {
			return nil, fmt.Errorf("save swatch: %w", err)
		}
	}
	if cfg.tiles != "" {
		tiles, err := utils.SplitTiles(img, cfg.tileSize)
		if err != nil {
			return nil, err
		}
		if err := utils.SaveTiles(tiles, cfg.tiles); err != nil {
			return nil, fmt.Errorf("save tiles: %w", err)
		}
	}
	return res, nil
}

func fail(stdout io.Writer, err error) int {
	_ = writeJSON(stdout, map[string]string{"error": err.Error()})
	return 1
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
