package spritemeta

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromFilename(t *testing.T) {
	cases := []struct {
		file string
		want string
		ok   bool
	}{
		{"hero_walk_attack.png", "Walk", true},
		{"IDLE_sheet.PNG", "Idle", true},
		{"idle_walk.png", "Idle", true},
		{"boss_run.png", "Walk", true},
		{"attack_jump.png", "Attack", true},
		{"jump.png", "Jump", true},
		{"sheet.png", "", false},
		{"assets/walk/sheet.png", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			got, ok := NameFromFilename(tc.file)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func testRegions(n int) []Region {
	regions := make([]Region, n)
	for i := range regions {
		x := i * 10
		regions[i] = NewRegion([]image.Point{{x, 0}, {x, 7}, {x + 7, 7}, {x + 7, 0}})
	}
	return regions
}

func TestAssembleAnimationsFrameRanges(t *testing.T) {
	rows := []Row{
		{Regions: []int{0, 1, 2}},
		{Regions: []int{3, 4}},
		{Regions: []int{5, 6, 7, 8}},
	}
	anims := AssembleAnimations(rows, testRegions(9), "sheet.png", nil)
	require.Len(t, anims, 3)

	assert.Equal(t, "Animation_1", anims[0].Name)
	assert.Equal(t, "Animation_2", anims[1].Name)
	assert.Equal(t, "Animation_3", anims[2].Name)
	assert.Equal(t, [2]int{1, 3}, anims[0].FrameRange)
	assert.Equal(t, [2]int{4, 5}, anims[1].FrameRange)
	assert.Equal(t, [2]int{6, 9}, anims[2].FrameRange)

	total := 0
	for i, a := range anims {
		assert.Equal(t, len(rows[i].Regions), a.FrameCount)
		assert.Len(t, a.Frames, a.FrameCount)
		total += a.FrameCount
	}
	assert.Equal(t, 9, total)
}

func TestAssembleAnimationsFrames(t *testing.T) {
	anims := AssembleAnimations([]Row{{Regions: []int{1, 0}}}, testRegions(2), "x.png", nil)
	require.Len(t, anims, 1)
	assert.Equal(t, []Frame{
		{Region: 1, X: 10, Y: 0, W: 8, H: 8},
		{Region: 0, X: 0, Y: 0, W: 8, H: 8},
	}, anims[0].Frames)
}

func TestAssembleAnimationsNaming(t *testing.T) {
	rows := []Row{{Regions: []int{0}}, {Regions: []int{1}}}
	regions := testRegions(2)

	anims := AssembleAnimations(rows, regions, "knight_attack.png", nil)
	assert.Equal(t, "Attack", anims[0].Name)
	assert.Equal(t, "Attack", anims[1].Name)

	// Oracle names win where present; the rest fall back.
	anims = AssembleAnimations(rows, regions, "knight_attack.png", []string{"Slash"})
	assert.Equal(t, "Slash", anims[0].Name)
	assert.Equal(t, "Attack", anims[1].Name)

	anims = AssembleAnimations(rows, regions, "sheet.png", []string{" ", "Dash"})
	assert.Equal(t, "Animation_1", anims[0].Name)
	assert.Equal(t, "Dash", anims[1].Name)
}

func TestAssembleAnimationsOracleBeatsFilename(t *testing.T) {
	anims := AssembleAnimations([]Row{{Regions: []int{0}}}, testRegions(1), "idle_walk_jump.png", []string{"Sneak"})
	require.Len(t, anims, 1)
	assert.Equal(t, "Sneak", anims[0].Name)
}
