package spritemeta

import (
	"encoding/json"
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// Shape is a collision polygon; it marshals as [[x,y],...].
type Shape []image.Point

func (s Shape) MarshalJSON() ([]byte, error) {
	pts := make([][2]int, len(s))
	for i, p := range s {
		pts[i] = [2]int{p.X, p.Y}
	}
	return json.Marshal(pts)
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var pts [][2]int
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	out := make(Shape, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(p[0], p[1])
	}
	*s = out
	return nil
}

// Result is the outcome of one analysis. Sheet fields (RowCount,
// ColumnCount, Animations) are only set for RoleSpriteSheet.
type Result struct {
	ImageType       Role        `json:"image_type"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	RegionCount     int         `json:"region_count"`
	RowCount        int         `json:"row_count,omitempty"`
	ColumnCount     int         `json:"column_count,omitempty"`
	Animations      []Animation `json:"animations,omitempty"`
	CollisionShapes []Shape     `json:"collision_shapes"`
	Palette         []string    `json:"palette,omitempty"`
	CharacterName   string      `json:"character_name,omitempty"`
}

func collisionShapes(regions []Region) []Shape {
	shapes := make([]Shape, len(regions))
	for i, r := range regions {
		shapes[i] = Shape(r.Outline)
	}
	return shapes
}

// buildResult emits the reduced record for non-sheets. For sheets it
// clusters rows and assembles animations; a sheet without regions is
// ErrEmptyAnalysis.
func buildResult(role Role, stats ImageStats, regions []Region, filename string, oracleNames []string, opt Options) (*Result, error) {
	res := &Result{
		ImageType:       role,
		Width:           stats.Width,
		Height:          stats.Height,
		RegionCount:     len(regions),
		CollisionShapes: collisionShapes(regions),
	}
	if role != RoleSpriteSheet {
		return res, nil
	}

	centroids := make([]r2.Vec, len(regions))
	for i, r := range regions {
		centroids[i] = r.Centroid
	}
	rows := ClusterRows(centroids, stats.Height, opt.RowBreakDivisor)
	if len(rows) == 0 {
		return nil, ErrEmptyAnalysis
	}
	Logger().Debug("rows clustered", "rows", len(rows), "columns", ColumnCount(rows))

	res.RowCount = len(rows)
	res.ColumnCount = ColumnCount(rows)
	res.Animations = AssembleAnimations(rows, regions, filename, oracleNames)
	return res, nil
}
