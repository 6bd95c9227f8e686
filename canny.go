package spritemeta

import "image"

// Hysteresis thresholds of the edge map used for edge density.
const (
	cannyLow  = 100
	cannyHigh = 200
)

const (
	tan22 = 0.41421356237309503 // tan(22.5°)
	tan67 = 2.414213562373095   // tan(67.5°)
)

// cannyEdges runs Canny on gray: 3x3 Sobel with replicated borders, L1
// gradient magnitude, non-maximum suppression along the quantised gradient
// direction and 8-connected hysteresis between low and high.
func cannyEdges(gray *image.Gray, low, high int) []bool {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	px := func(x, y int) int {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return int(gray.Pix[y*gray.Stride+x])
	}

	dx := make([]int, w*h)
	dy := make([]int, w*h)
	mag := make([]int, w*h)
	for y := range h {
		for x := range w {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) -
				px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			i := y*w + x
			dx[i], dy[i] = gx, gy
			mag[i] = absInt(gx) + absInt(gy)
		}
	}
	magAt := func(x, y int) int {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		none = iota
		candidate
		edge
	)
	state := make([]uint8, w*h)
	var stack []int
	for y := range h {
		for x := range w {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}
			ax, ay := float64(absInt(dx[i])), float64(absInt(dy[i]))
			var local bool
			switch {
			case ay < ax*tan22:
				local = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tan67:
				local = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx[i] < 0) != (dy[i] < 0) {
					s = -1
				}
				local = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !local {
				continue
			}
			if m > high {
				state[i] = edge
				stack = append(stack, i)
			} else {
				state[i] = candidate
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for _, d := range ring8 {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			j := ny*w + nx
			if state[j] == candidate {
				state[j] = edge
				stack = append(stack, j)
			}
		}
	}

	edges := make([]bool, w*h)
	for i, s := range state {
		edges[i] = s == edge
	}
	return edges
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
