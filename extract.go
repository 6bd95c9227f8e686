package spritemeta

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
)

// Extractor is the image-processing boundary the analysis runs on.
//
// OuterContours returns the outer outline of every foreground component of a
// binary mask (non-zero pixels are foreground). Components lying inside a
// hole of another component are not reported. The order of the returned
// outlines carries no meaning.
//
// EdgeDensity returns the fraction of pixels of gray that lie on an edge.
type Extractor interface {
	OuterContours(mask *image.Gray) ([][]image.Point, error)
	EdgeDensity(gray *image.Gray) (float64, error)
}

// defaultExtractor is swapped by the gocv build.
var defaultExtractor Extractor = NativeExtractor{}

// DefaultExtractor returns the backend selected at build time: the native Go
// one, or OpenCV when built with -tags gocv.
func DefaultExtractor() Extractor {
	return defaultExtractor
}

// toGray converts img to an 8-bit luma image anchored at (0,0). Transparent
// pixels become 0. When key is set, pixels closer than tol (CIE Lab distance)
// to it are forced to 0 as well.
func toGray(img image.Image, key *colorful.Color, tol float64) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	if key == nil {
		return gray
	}
	for y := range b.Dy() {
		for x := range b.Dx() {
			c, ok := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			if !ok {
				continue
			}
			if c.DistanceLab(*key) < tol {
				gray.Pix[y*gray.Stride+x] = 0
			}
		}
	}
	return gray
}

// binarize marks every pixel brighter than threshold as 255 and returns the
// mask with its foreground pixel count.
func binarize(gray *image.Gray, threshold uint8) (*image.Gray, int) {
	mask := image.NewGray(gray.Rect)
	n := 0
	for i, v := range gray.Pix {
		if v > threshold {
			mask.Pix[i] = 255
			n++
		}
	}
	return mask, n
}

// NativeExtractor implements Extractor in pure Go: 8-connected outer border
// following with simple chain compression, and a Canny edge map.
type NativeExtractor struct{}

// ring8 lists the 8-neighbourhood clockwise on screen, starting east.
var ring8 = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const (
	dirEast = 0
	dirWest = 4
)

// paddedMask is a foreground mask with a one pixel background frame, so
// neighbour lookups never leave the buffer.
type paddedMask struct {
	W, H int
	Fg   []bool
}

func padMask(mask *image.Gray) paddedMask {
	b := mask.Bounds()
	w, h := b.Dx()+2, b.Dy()+2
	pm := paddedMask{W: w, H: h, Fg: make([]bool, w*h)}
	for y := range b.Dy() {
		off := y * mask.Stride
		for x := range b.Dx() {
			pm.Fg[(y+1)*w+x+1] = mask.Pix[off+x] != 0
		}
	}
	return pm
}

func (pm paddedMask) at(p image.Point) bool {
	return pm.Fg[p.Y*pm.W+p.X]
}

// outside flood-fills (4-connected) the background reachable from the frame.
// Background not reached is a hole of some component.
func (pm paddedMask) outside() []bool {
	out := make([]bool, len(pm.Fg))
	queue := make([]int, 1, 256)
	queue[0] = 0
	out[0] = true
	for c := 0; c < len(queue); c++ {
		cur := queue[c]
		cx, cy := cur%pm.W, cur/pm.W
		for k := 0; k < 8; k += 2 {
			nx, ny := cx+ring8[k].X, cy+ring8[k].Y
			if nx < 0 || nx >= pm.W || ny < 0 || ny >= pm.H {
				continue
			}
			n := ny*pm.W + nx
			if !pm.Fg[n] && !out[n] {
				out[n] = true
				queue = append(queue, n)
			}
		}
	}
	return out
}

func (pm paddedMask) markComponent(start int, seen []bool) {
	elems := make([]int, 1, 64)
	elems[0] = start
	seen[start] = true
	for c := 0; c < len(elems); c++ {
		cur := elems[c]
		cx, cy := cur%pm.W, cur/pm.W
		for _, d := range ring8 {
			n := (cy+d.Y)*pm.W + cx + d.X
			if pm.Fg[n] && !seen[n] {
				seen[n] = true
				elems = append(elems, n)
			}
		}
	}
}

func (NativeExtractor) OuterContours(mask *image.Gray) ([][]image.Point, error) {
	pm := padMask(mask)
	outside := pm.outside()
	seen := make([]bool, len(pm.Fg))
	var contours [][]image.Point
	for y := 1; y < pm.H-1; y++ {
		for x := 1; x < pm.W-1; x++ {
			i := y*pm.W + x
			if !pm.Fg[i] || seen[i] {
				continue
			}
			// First pixel of a component in raster order: its west neighbour
			// belongs to the background that surrounds the component.
			if outside[i-1] {
				contours = append(contours, compressChain(pm.traceBorder(image.Pt(x, y))))
			}
			pm.markComponent(i, seen)
		}
	}
	return contours, nil
}

// traceBorder follows the outer border of the component whose raster-first
// pixel is start. Points are returned in unpadded image coordinates.
func (pm paddedMask) traceBorder(start image.Point) []image.Point {
	origin := image.Pt(1, 1)
	first, found := start, false
	for k := range 8 {
		n := start.Add(ring8[(dirWest+k)%8])
		if pm.at(n) {
			first, found = n, true
			break
		}
	}
	if !found {
		return []image.Point{start.Sub(origin)}
	}

	var pts []image.Point
	prev, cur := first, start
	limit := 4*len(pm.Fg) + 8
	for range limit {
		back := direction(cur, prev)
		next := prev
		for k := 1; k <= 8; k++ {
			n := cur.Add(ring8[(back-k+16)%8])
			if pm.at(n) {
				next = n
				break
			}
		}
		pts = append(pts, cur.Sub(origin))
		if next == start && cur == first {
			break
		}
		prev, cur = cur, next
	}
	return pts
}

func direction(from, to image.Point) int {
	d := to.Sub(from)
	for k, r := range ring8 {
		if r == d {
			return k
		}
	}
	return dirEast
}

// compressChain drops points where the chain keeps its direction, leaving
// only the end points of horizontal, vertical and diagonal runs.
func compressChain(pts []image.Point) []image.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	out := make([]image.Point, 0, n)
	for i, p := range pts {
		in := p.Sub(pts[(i-1+n)%n])
		next := pts[(i+1)%n].Sub(p)
		if in != next {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return pts[:1]
	}
	return out
}

func (NativeExtractor) EdgeDensity(gray *image.Gray) (float64, error) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0, nil
	}
	n := 0
	for _, e := range cannyEdges(gray, cannyLow, cannyHigh) {
		if e {
			n++
		}
	}
	return float64(n) / float64(w*h), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
