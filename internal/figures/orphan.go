package figures

import (
	"math"

	"figextract/internal/geometry"
)

// resolveOrphans gives every visual object the associator never claimed one
// more chance: split across a gutter it straddles, matched against a
// caption the associator found no primary pick for, or emitted standalone.
func resolveOrphans(objs []visualObject, used []bool, unfilled []Caption, layout layoutInfo) []FigureRegion {
	midX := layout.midX
	guard := layout.guardActive
	consumed := make([]bool, len(unfilled))

	var out []FigureRegion
	for i, obj := range objs {
		if used[i] {
			continue
		}
		r := obj.Rect
		if r.Width() <= 20 || r.Height() <= 20 {
			continue
		}

		for _, piece := range splitAcrossGutter(r, midX, guard) {
			out = append(out, resolveOrphanPiece(piece, obj.hasImage, unfilled, consumed, midX, guard)...)
		}
	}
	return out
}

// splitAcrossGutter implements the gutter-straddle split: under guard, an
// object reaching at least 10pt past mid_x on both sides is cut into two
// column-local halves rather than treated as one cross-gutter figure.
func splitAcrossGutter(r geometry.Rect, midX float64, guard bool) []geometry.Rect {
	if !guard {
		return []geometry.Rect{r}
	}
	leftReach := midX - r.X0
	rightReach := r.X1 - midX
	if leftReach < 10 || rightReach < 10 {
		return []geometry.Rect{r}
	}

	var out []geometry.Rect
	left := geometry.NewRect(r.X0, r.Y0, midX-5, r.Y1)
	right := geometry.NewRect(midX+5, r.Y0, r.X1, r.Y1)
	if left.Width() > 20 {
		out = append(out, left)
	}
	if right.Width() > 20 {
		out = append(out, right)
	}
	return out
}

// resolveOrphanPiece attempts to match one orphan rect against an unfilled
// caption; on failure it is emitted standalone (dropped under guard if it's
// too narrow to be anything but noise).
func resolveOrphanPiece(r geometry.Rect, hasImage bool, unfilled []Caption, consumed []bool, midX float64, guard bool) []FigureRegion {
	for i, c := range unfilled {
		if consumed[i] {
			continue
		}
		if !orphanMatchesCaption(r, c.Rect, midX, guard) {
			continue
		}
		consumed[i] = true
		cropped := r
		cropped.Y1 = math.Min(cropped.Y1, c.Rect.Y0-5)
		if cropped.Height() <= 20 {
			return nil
		}
		return []FigureRegion{{Rect: cropped, Caption: c.Text, HasImage: hasImage}}
	}

	if guard && r.Width() < 15 {
		return nil
	}
	return []FigureRegion{{Rect: r, HasImage: hasImage}}
}

// orphanMatchesCaption checks the three match conditions: same column,
// vertical proximity, and horizontal alignment.
func orphanMatchesCaption(orphan, caption geometry.Rect, midX float64, guard bool) bool {
	if guard {
		if (orphan.CenterX() < midX) != (caption.CenterX() < midX) {
			return false
		}
	} else if math.Abs(orphan.CenterX()-caption.CenterX()) >= 100 {
		return false
	}

	if caption.Y0 < orphan.Y1-150 || caption.Y0 > orphan.Y1+400 {
		return false
	}

	expanded := caption.PadSides(50, 0, 50, 0)
	if orphan.X1 < expanded.X0 || expanded.X1 < orphan.X0 {
		return false
	}
	return true
}
