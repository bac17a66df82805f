package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDir_Rotation(t *testing.T) {
	assert.Equal(t, DirUpRight, DirUp.Next())
	assert.Equal(t, DirUp, DirUpLeft.Next())
	assert.Equal(t, DirUpLeft, DirUp.Prev())
	assert.Equal(t, DirDown, DirUp.Rev())
	assert.Equal(t, DirDownLeft, DirUpRight.Rev())

	for _, d := range AllDirs {
		assert.Equal(t, d, d.Next().Prev())
		assert.Equal(t, d, d.Rev().Rev())
		assert.Equal(t, Pos{}, d.Delta().Add(d.Rev().Delta()))
	}
}

func TestDir_IsDiagonal(t *testing.T) {
	assert.False(t, DirUp.IsDiagonal())
	assert.False(t, DirRight.IsDiagonal())
	assert.False(t, DirDown.IsDiagonal())
	assert.False(t, DirLeft.IsDiagonal())
	assert.True(t, DirUpRight.IsDiagonal())
	assert.True(t, DirDownRight.IsDiagonal())
	assert.True(t, DirDownLeft.IsDiagonal())
	assert.True(t, DirUpLeft.IsDiagonal())
}

func TestIsAligned(t *testing.T) {
	a := Pos{X: 2, Y: 3}
	assert.False(t, IsAligned(a, a), "a point is not aligned with itself")
	assert.True(t, IsAligned(a, Pos{X: 7, Y: 3}))
	assert.True(t, IsAligned(a, Pos{X: 2, Y: 0}))
	assert.True(t, IsAligned(a, Pos{X: 4, Y: 5}))
	assert.True(t, IsAligned(a, Pos{X: 0, Y: 5}))
	assert.False(t, IsAligned(a, Pos{X: 3, Y: 5}))
}

func TestDirBetween(t *testing.T) {
	c := Pos{X: 5, Y: 5}
	assert.Equal(t, DirUp, DirBetween(c, Pos{X: 5, Y: 7}))
	assert.Equal(t, DirUpRight, DirBetween(c, Pos{X: 7, Y: 7}))
	assert.Equal(t, DirRight, DirBetween(c, Pos{X: 7, Y: 5}))
	assert.Equal(t, DirDownRight, DirBetween(c, Pos{X: 7, Y: 3}))
	assert.Equal(t, DirDown, DirBetween(c, Pos{X: 5, Y: 3}))
	assert.Equal(t, DirDownLeft, DirBetween(c, Pos{X: 3, Y: 3}))
	assert.Equal(t, DirLeft, DirBetween(c, Pos{X: 3, Y: 5}))
	assert.Equal(t, DirUpLeft, DirBetween(c, Pos{X: 3, Y: 7}))
}

func TestDirBetween_PanicsWhenNotAligned(t *testing.T) {
	assert.Panics(t, func() { DirBetween(Pos{X: 0, Y: 0}, Pos{X: 1, Y: 2}) })
}

func TestBetween(t *testing.T) {
	assert.Equal(t, []Pos{{X: 2, Y: 3}, {X: 3, Y: 3}}, Between(Pos{X: 1, Y: 3}, Pos{X: 4, Y: 3}))
	assert.Equal(t, []Pos{{X: 2, Y: 4}, {X: 3, Y: 5}}, Between(Pos{X: 1, Y: 3}, Pos{X: 4, Y: 6}))
	assert.Empty(t, Between(Pos{X: 1, Y: 1}, Pos{X: 2, Y: 2}))
}

func TestPosLess(t *testing.T) {
	assert.True(t, Pos{X: 0, Y: 9}.Less(Pos{X: 1, Y: 0}))
	assert.True(t, Pos{X: 1, Y: 0}.Less(Pos{X: 1, Y: 1}))
	assert.False(t, Pos{X: 1, Y: 1}.Less(Pos{X: 1, Y: 1}))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 1, Weight(5, Pos{X: 2, Y: 2}))
	assert.Equal(t, 9, Weight(5, Pos{X: 0, Y: 0}))
	// Even sizes round the centre down.
	assert.Equal(t, 1, Weight(4, Pos{X: 1, Y: 1}))
	assert.Equal(t, 9, Weight(4, Pos{X: 3, Y: 3}))
}
