package sortheader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitTest(t *testing.T) {
	l := NewLayout(4, 6)
	tests := []struct {
		x    int
		want Hit
	}{
		{-1, Miss},
		{0, Hit{Logical: 0, Visual: 0}},
		{3, Hit{Logical: 0, Visual: 0}},
		{4, Hit{Logical: 0, Visual: 0, OnHandle: true}},
		{5, Hit{Logical: 1, Visual: 1}},
		{10, Hit{Logical: 1, Visual: 1}},
		{11, Miss},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.HitTest(tt.x), "x=%d", tt.x)
	}
}

func TestHitTestSkipsHidden(t *testing.T) {
	l := NewLayout(4, 4, 4)
	l.SetHidden(0, true)
	assert.Equal(t, Hit{Logical: 1, Visual: 1}, l.HitTest(0))
	assert.Equal(t, Hit{Logical: 2, Visual: 2}, l.HitTest(5))
	assert.Equal(t, []int{1, 2}, l.VisibleLogicals())
	assert.Equal(t, 9, l.TotalWidth())
}

func TestMove(t *testing.T) {
	l := NewLayout(3, 3, 3, 3)
	assert.True(t, l.Move(0, 2))
	assert.Equal(t, []int{1, 2, 0, 3}, l.Order())
	assert.Equal(t, 2, l.Visual(0))
	assert.Equal(t, 0, l.Logical(2))

	assert.True(t, l.Move(3, 0))
	assert.Equal(t, []int{3, 1, 2, 0}, l.Order())

	assert.False(t, l.Move(0, 0))
	assert.False(t, l.Move(0, 9))
	assert.Equal(t, -1, l.Logical(9))
	assert.Equal(t, -1, l.Visual(9))
}

func TestSetOrderRejectsNonPermutation(t *testing.T) {
	l := NewLayout(3, 3, 3)
	assert.False(t, l.SetOrder([]int{0, 0, 1}))
	assert.False(t, l.SetOrder([]int{0, 1}))
	assert.True(t, l.SetOrder([]int{2, 0, 1}))
	assert.Equal(t, []int{2, 0, 1}, l.Order())
}

func TestResizeClamps(t *testing.T) {
	l := NewLayout(10, 10)
	assert.True(t, l.Resize(0, 1))
	assert.Equal(t, MinSectionWidth, l.Width(0))
	assert.True(t, l.Resize(1, 20))
	assert.Equal(t, 20, l.Width(1))
	assert.False(t, l.Resize(5, 20))
	assert.Equal(t, MinSectionWidth+SeparatorWidth, l.Start(1))
}
