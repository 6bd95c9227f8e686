package spritemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	opt := DefaultOptions()
	cases := []struct {
		name    string
		stats   ImageStats
		regions int
		want    Role
	}{
		{
			name:    "small sheet",
			stats:   ImageStats{Width: 512, Height: 512, ForegroundRatio: 0.4, EdgeDensity: 0.05},
			regions: 3,
			want:    RoleSpriteSheet,
		},
		{
			name:    "busy large image",
			stats:   ImageStats{Width: 600, Height: 600, ForegroundRatio: 0.5, EdgeDensity: 0.2},
			regions: 15,
			want:    RoleBackground,
		},
		{
			name:    "busy but only ten regions",
			stats:   ImageStats{Width: 600, Height: 600, ForegroundRatio: 0.3, EdgeDensity: 0.2},
			regions: 10,
			want:    RoleSpriteSheet,
		},
		{
			name:    "single region",
			stats:   ImageStats{Width: 2000, Height: 2000, ForegroundRatio: 0.1, EdgeDensity: 0.01},
			regions: 1,
			want:    RoleSingleSprite,
		},
		{
			name:    "no regions",
			stats:   ImageStats{Width: 64, Height: 64},
			regions: 0,
			want:    RoleSingleSprite,
		},
		{
			name:    "too large for a sheet",
			stats:   ImageStats{Width: 1024, Height: 1024, ForegroundRatio: 0.2, EdgeDensity: 0.01},
			regions: 5,
			want:    RoleSingleSprite,
		},
		{
			name:    "mostly filled",
			stats:   ImageStats{Width: 256, Height: 256, ForegroundRatio: 0.85},
			regions: 4,
			want:    RoleSingleSprite,
		},
		{
			name:    "background needs more than 512x512",
			stats:   ImageStats{Width: 512, Height: 512, ForegroundRatio: 0.9, EdgeDensity: 0.3},
			regions: 40,
			want:    RoleSingleSprite,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.stats, tc.regions, opt))
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"single_sprite", "background", "sprite_sheet"} {
		r, ok := ParseRole(s)
		assert.True(t, ok)
		assert.Equal(t, Role(s), r)
	}
	_, ok := ParseRole("tileset")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}
