package spritemeta

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Frame locates one animation frame on the sheet.
type Frame struct {
	Region int `json:"region"`
	X      int `json:"x"`
	Y      int `json:"y"`
	W      int `json:"w"`
	H      int `json:"h"`
}

// Animation is one sheet row. FrameRange is 1-based and inclusive; ranges
// of consecutive animations are contiguous.
type Animation struct {
	Name       string  `json:"name"`
	FrameCount int     `json:"frame_count"`
	FrameRange [2]int  `json:"frame_range"`
	Frames     []Frame `json:"frames,omitempty"`
}

// filenameNames is checked in order; the first keyword found wins.
var filenameNames = []struct {
	keywords []string
	name     string
}{
	{[]string{"idle"}, "Idle"},
	{[]string{"walk", "run"}, "Walk"},
	{[]string{"attack"}, "Attack"},
	{[]string{"jump"}, "Jump"},
}

// NameFromFilename guesses an animation name from the base name of a file.
func NameFromFilename(filename string) (string, bool) {
	base := strings.ToLower(filepath.Base(filename))
	for _, c := range filenameNames {
		for _, kw := range c.keywords {
			if strings.Contains(base, kw) {
				return c.name, true
			}
		}
	}
	return "", false
}

// AssembleAnimations turns rows into animations, top row first. A row is
// named by the oracle when it supplied a non-blank name at that index, else
// by the filename heuristic, else "Animation_<n>".
func AssembleAnimations(rows []Row, regions []Region, filename string, oracleNames []string) []Animation {
	guess, guessed := NameFromFilename(filename)
	anims := make([]Animation, 0, len(rows))
	next := 1
	for i, row := range rows {
		name := fmt.Sprintf("Animation_%d", i+1)
		if guessed {
			name = guess
		}
		if i < len(oracleNames) && strings.TrimSpace(oracleNames[i]) != "" {
			name = oracleNames[i]
		}

		count := len(row.Regions)
		frames := make([]Frame, 0, count)
		for _, ri := range row.Regions {
			b := regions[ri].Bounds
			frames = append(frames, Frame{Region: ri, X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()})
		}
		anims = append(anims, Animation{
			Name:       name,
			FrameCount: count,
			FrameRange: [2]int{next, next + count - 1},
			Frames:     frames,
		})
		next += count
	}
	return anims
}
