package utils

import (
	"errors"
	"image"
	"image/draw"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ReadImage decodes a png, jpeg, gif, bmp, tiff or webp file.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SavePalette writes the palette as a strip of square swatches, one per
// color, left to right.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	strip := image.NewRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		cell := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		draw.Draw(strip, cell, image.NewUniform(swatchColor(c)), image.Point{}, draw.Src)
	}
	return SaveImage(strip, filename)
}
