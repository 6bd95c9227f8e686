//go:build gocv

package spritemeta

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	defaultExtractor = OpenCVExtractor{}
}

// OpenCVExtractor implements Extractor on top of OpenCV: findContours with
// external retrieval and simple chain approximation, and Canny(100, 200).
type OpenCVExtractor struct{}

func (OpenCVExtractor) OuterContours(mask *image.Gray) ([][]image.Point, error) {
	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("convert mask: %w", err)
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	return contours.ToPoints(), nil
}

func (OpenCVExtractor) EdgeDensity(gray *image.Gray) (float64, error) {
	b := gray.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, nil
	}
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return 0, fmt.Errorf("convert gray: %w", err)
	}
	defer mat.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(mat, &edges, cannyLow, cannyHigh)
	return float64(gocv.CountNonZero(edges)) / float64(b.Dx()*b.Dy()), nil
}
