package spritemeta

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Region is one foreground component: its outer outline and the geometry
// derived from it. Regions are never modified after NewRegion.
type Region struct {
	Outline  []image.Point
	Area     float64
	Centroid r2.Vec
	// Bounds covers every outline pixel (Max is exclusive).
	Bounds image.Rectangle
}

// NewRegion derives area, centroid and bounds from a closed outline.
// The outline must not be empty.
func NewRegion(outline []image.Point) Region {
	area, centroid := polygonMoments(outline)
	return Region{
		Outline:  outline,
		Area:     area,
		Centroid: centroid,
		Bounds:   outlineBounds(outline),
	}
}

// polygonMoments returns the absolute area and the centroid of the polygon.
// Degenerate outlines (points, lines) have zero area; their centroid is the
// vertex mean so that every region still takes part in row clustering.
func polygonMoments(pts []image.Point) (float64, r2.Vec) {
	var a2 float64
	var c r2.Vec
	for i, p := range pts {
		pv, qv := vec(p), vec(pts[(i+1)%len(pts)])
		cross := r2.Cross(pv, qv)
		a2 += cross
		c = r2.Add(c, r2.Scale(cross, r2.Add(pv, qv)))
	}
	if a2 == 0 {
		var sum r2.Vec
		for _, p := range pts {
			sum = r2.Add(sum, vec(p))
		}
		return 0, r2.Scale(1/float64(len(pts)), sum)
	}
	return math.Abs(a2) / 2, r2.Scale(1/(3*a2), c)
}

func outlineBounds(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

func vec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// extractRegions binarizes gray and turns every outer contour into a Region.
// It returns the regions and the foreground pixel count.
func extractRegions(ext Extractor, gray *image.Gray, threshold uint8) ([]Region, int, error) {
	mask, fg := binarize(gray, threshold)
	contours, err := ext.OuterContours(mask)
	if err != nil {
		return nil, 0, err
	}
	regions := make([]Region, 0, len(contours))
	for _, c := range contours {
		if len(c) == 0 {
			continue
		}
		regions = append(regions, NewRegion(c))
	}
	return regions, fg, nil
}
