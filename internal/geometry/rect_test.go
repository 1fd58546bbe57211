package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionCommutativeAndAssociative(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 20, 8)
	c := NewRect(-5, 2, 3, 30)

	require.Equal(t, a.Union(b), b.Union(a))

	left := a.Union(b).Union(c)
	right := a.Union(b.Union(c))
	require.Equal(t, left, right)
}

func TestNormalizeSwapsReversedCorners(t *testing.T) {
	r := NewRect(10, 10, 0, 0)
	require.Equal(t, Rect{0, 0, 10, 10}, r)
}

func TestIntersectsTouchingEdges(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(10, 0, 20, 10)
	require.True(t, a.Intersects(b))
}

func TestVerticalOverlap(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(0, 5, 10, 20)
	require.Equal(t, 5.0, a.VerticalOverlap(b))

	c := NewRect(0, 11, 10, 20)
	require.Equal(t, 0.0, a.VerticalOverlap(c))
}

func TestXGapYGap(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(20, 0, 30, 10)
	require.Equal(t, 10.0, a.XGap(b))
	require.Equal(t, 0.0, a.YGap(b))
}

func TestPadAndClip(t *testing.T) {
	a := NewRect(10, 10, 20, 20)
	padded := a.Pad(5, 5)
	require.Equal(t, NewRect(5, 5, 25, 25), padded)

	bounds := NewRect(0, 0, 15, 15)
	require.Equal(t, NewRect(5, 5, 15, 15), padded.Clip(bounds))
}

func TestIRectExpandAndClip(t *testing.T) {
	r := IRect{10, 10, 20, 20}
	expanded := r.Expand(8)
	require.Equal(t, IRect{2, 2, 28, 28}, expanded)

	clipped := expanded.Clip(IRect{0, 0, 25, 25})
	require.Equal(t, IRect{2, 2, 25, 25}, clipped)
}
