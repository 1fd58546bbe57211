// Package geometry provides the axis-aligned rectangle arithmetic shared by
// every stage of the figure-segmentation pipeline: union-find clustering,
// caption association, and crop/erase rendering all operate on Rect values.
package geometry

import "math"

// Rect is an axis-aligned rectangle in PDF points (or, for rendered pixmaps,
// device pixels). NewRect, Normalize and Union keep the invariant X0<=X1,
// Y0<=Y1; Intersect and Clip of non-overlapping rects, and Pad/PadSides with
// negative values larger than the extent, return a rect with inverted
// corners, which IsEmpty reports as empty. Callers that build a Rect by hand
// should route it through Normalize.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a Rect from two corners in any order, normalizing so that
// X0<=X1 and Y0<=Y1.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{x0, y0, x1, y1}.Normalize()
}

// Normalize returns r with its corners swapped as needed to satisfy the
// X0<=X1, Y0<=Y1 invariant.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Width returns the rectangle's horizontal extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the rectangle's vertical extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns width*height, 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsEmpty reports whether the rectangle has non-positive width or height.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Centroid returns (CenterX, CenterY).
func (r Rect) Centroid() (float64, float64) { return r.CenterX(), r.CenterY() }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// UnionAll folds Union over rs; the zero Rect is returned for an empty slice.
func UnionAll(rs []Rect) Rect {
	if len(rs) == 0 {
		return Rect{}
	}
	u := rs[0]
	for _, r := range rs[1:] {
		u = u.Union(r)
	}
	return u
}

// Intersect returns the overlapping region of r and o. The result may be
// degenerate (IsEmpty true) when the rectangles do not overlap; callers must
// check IsEmpty before trusting the result as a real region.
func (r Rect) Intersect(o Rect) Rect {
	ix0 := math.Max(r.X0, o.X0)
	iy0 := math.Max(r.Y0, o.Y0)
	ix1 := math.Min(r.X1, o.X1)
	iy1 := math.Min(r.Y1, o.Y1)
	return Rect{ix0, iy0, ix1, iy1}
}

// Intersects reports whether r and o overlap with positive area or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return r.X0 <= o.X0 && r.Y0 <= o.Y0 && r.X1 >= o.X1 && r.Y1 >= o.Y1
}

// ContainsPoint reports whether (x, y) lies within r, inclusive of edges.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Pad expands r by px on each horizontal side and py on each vertical side.
// Negative values shrink the rectangle.
func (r Rect) Pad(px, py float64) Rect {
	return Rect{r.X0 - px, r.Y0 - py, r.X1 + px, r.Y1 + py}
}

// PadSides expands r independently on each side; negative values shrink.
func (r Rect) PadSides(left, top, right, bottom float64) Rect {
	return Rect{r.X0 - left, r.Y0 - top, r.X1 + right, r.Y1 + bottom}
}

// Clip restricts r to lie within bounds, returning the intersection.
func (r Rect) Clip(bounds Rect) Rect {
	return r.Intersect(bounds)
}

// XGap returns the horizontal gap between r and o: 0 if they overlap on the
// x-axis, otherwise the positive distance between their nearest edges.
func (r Rect) XGap(o Rect) float64 {
	return math.Max(0, math.Max(r.X0-o.X1, o.X0-r.X1))
}

// YGap returns the vertical gap between r and o, analogous to XGap.
func (r Rect) YGap(o Rect) float64 {
	return math.Max(0, math.Max(r.Y0-o.Y1, o.Y0-r.Y1))
}

// VerticalOverlap returns the length of vertical overlap between r and o, 0
// if they do not overlap on the y-axis.
func (r Rect) VerticalOverlap(o Rect) float64 {
	lo := math.Max(r.Y0, o.Y0)
	hi := math.Min(r.Y1, o.Y1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Chebyshev returns the Chebyshev (max-coordinate) distance between the
// centroids of r and o, used by the associator's diagonal-merge threshold.
func (r Rect) Chebyshev(o Rect) float64 {
	rx, ry := r.Centroid()
	ox, oy := o.Centroid()
	return math.Max(math.Abs(rx-ox), math.Abs(ry-oy))
}

// IRect is an integer-pixel rectangle, used for the pixel-trim step of the
// renderer where sub-pixel precision has no meaning.
type IRect struct {
	X0, Y0, X1, Y1 int
}

// IsEmpty reports whether the integer rectangle has non-positive extent.
func (r IRect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Clip restricts r to lie within bounds.
func (r IRect) Clip(bounds IRect) IRect {
	out := IRect{
		X0: maxInt(r.X0, bounds.X0),
		Y0: maxInt(r.Y0, bounds.Y0),
		X1: minInt(r.X1, bounds.X1),
		Y1: minInt(r.Y1, bounds.Y1),
	}
	return out
}

// Expand pads r by n pixels on every side.
func (r IRect) Expand(n int) IRect {
	return IRect{r.X0 - n, r.Y0 - n, r.X1 + n, r.Y1 + n}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
