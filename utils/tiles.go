package utils

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// SplitTiles cuts img into size x size tiles in row-major order. Tiles on
// the right and bottom edges are cropped to what is left of the image.
func SplitTiles(img image.Image, size int) ([]*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", size)
	}
	b := img.Bounds()
	var tiles []*image.NRGBA
	for y := b.Min.Y; y < b.Max.Y; y += size {
		for x := b.Min.X; x < b.Max.X; x += size {
			r := image.Rect(x, y, min(x+size, b.Max.X), min(y+size, b.Max.Y))
			tile := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
			xdraw.Draw(tile, tile.Bounds(), img, r.Min, xdraw.Src)
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// SaveTiles writes tiles into dir as tile_0.png, tile_1.png, ...
// creating dir when needed.
func SaveTiles(tiles []*image.NRGBA, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, t := range tiles {
		if err := SaveImage(t, filepath.Join(dir, fmt.Sprintf("tile_%d.png", i))); err != nil {
			return err
		}
	}
	return nil
}
