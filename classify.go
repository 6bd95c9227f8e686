package spritemeta

// Role is the part an image plays in a game project.
type Role string

const (
	RoleSingleSprite Role = "single_sprite"
	RoleBackground   Role = "background"
	RoleSpriteSheet  Role = "sprite_sheet"
)

// ParseRole accepts one of the three role tags.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSingleSprite, RoleBackground, RoleSpriteSheet:
		return r, true
	}
	return "", false
}

// ImageStats are measured once per analysis.
type ImageStats struct {
	Width, Height int
	// EdgeDensity is the fraction of all pixels lying on an edge, measured
	// over the whole image including transparent areas.
	EdgeDensity float64
	// ForegroundRatio is the fraction of pixels that passed binarization.
	ForegroundRatio float64
}

func (s ImageStats) Pixels() int {
	return s.Width * s.Height
}

// Classify labels an image from its statistics. Rules are checked in order:
// large, busy images with many regions are backgrounds; several regions on
// a moderately sized, not mostly filled canvas make a sprite sheet; anything
// else is a single sprite.
func Classify(stats ImageStats, regionCount int, opt Options) Role {
	px := stats.Pixels()
	if px > opt.BackgroundMinPixels &&
		stats.EdgeDensity > opt.BackgroundEdgeDensity &&
		regionCount > opt.BackgroundMinRegions {
		return RoleBackground
	}
	if regionCount > 1 &&
		px < opt.SheetMaxPixels &&
		stats.ForegroundRatio < opt.SheetMaxForeground {
		return RoleSpriteSheet
	}
	return RoleSingleSprite
}
