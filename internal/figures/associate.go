package figures

import (
	"math"
	"sort"

	"figextract/internal/geometry"
)

// associationState is the mutable per-page bookkeeping the associator
// threads through its caption loop: which visual
// objects have been claimed, and the per-column ceiling below which the
// next caption in the same column may not reach.
type associationState struct {
	ceilings map[zone]float64
	used     []bool
}

func newAssociationState(n int) *associationState {
	return &associationState{
		ceilings: map[zone]float64{zoneLeft: 40, zoneRight: 40, zoneFull: 40, zoneMixed: 40},
		used:     make([]bool, n),
	}
}

// columnZone classifies a rect's column by a fixed decision tree.
// Width dominates, then the ±10pt straddle band, then the edge test, and
// only as a last resort the centroid. Downstream rules (strict mode,
// full-width extension) depend on this exact ordering; do not reorder it.
func columnZone(r geometry.Rect, midX, pageW float64) zone {
	if r.Width() > 0.6*pageW {
		return zoneFull
	}
	if r.X0 < midX-10 && r.X1 > midX+10 {
		return zoneMixed
	}
	if r.X1 < midX {
		return zoneLeft
	}
	if r.X0 > midX {
		return zoneRight
	}
	if r.CenterX() < midX {
		return zoneLeft
	}
	return zoneRight
}

// captionZone applies the guard-mode override: under guard, a left/right
// caption is forced strictly left/right by centroid rather than by the edge
// heuristics columnZone otherwise uses.
func captionZone(rect geometry.Rect, midX, pageW float64, guardActive bool) zone {
	z := columnZone(rect, midX, pageW)
	if guardActive && (z == zoneLeft || z == zoneRight) {
		if rect.CenterX() < midX {
			return zoneLeft
		}
		return zoneRight
	}
	return z
}

func zoneIn(z zone, set []zone) bool {
	for _, s := range set {
		if s == z {
			return true
		}
	}
	return false
}

// compatibleZones returns which visual-object zones a caption of zone
// callerZone may claim. Under guard, a left/right caption is restricted to
// its own column, the strict mode that rejects
// full/mixed objects for a side caption; outside guard mode a side caption
// may still pick up a full-width or mixed object that happens to fall in
// its vertical band.
func compatibleZones(callerZone zone, guardActive bool) []zone {
	switch callerZone {
	case zoneLeft:
		if guardActive {
			return []zone{zoneLeft}
		}
		return []zone{zoneLeft, zoneFull, zoneMixed}
	case zoneRight:
		if guardActive {
			return []zone{zoneRight}
		}
		return []zone{zoneRight, zoneFull, zoneMixed}
	default: // full, mixed
		return []zone{zoneLeft, zoneRight, zoneMixed, zoneFull}
	}
}

// ceilingFor computes a caption's starting ceiling: the
// max of its own column's ceiling and the full-width ceiling, plus (for a
// mixed-zone caption) both side ceilings.
func (s *associationState) ceilingFor(z zone) float64 {
	c := math.Max(s.ceilings[z], s.ceilings[zoneFull])
	if z == zoneMixed {
		c = math.Max(c, s.ceilings[zoneLeft])
		c = math.Max(c, s.ceilings[zoneRight])
	}
	return c
}

// refineCeilingByObstacles raises the ceiling past body text: an obstacle
// in a compatible column whose bottom edge falls strictly between the
// current ceiling and
// the caption's floor raises the ceiling to that edge, stopping the figure
// from reaching up through a paragraph of body text.
func refineCeilingByObstacles(obstacles []geometry.Rect, compatible []zone, floorY, ceilingY, midX, pageW float64) float64 {
	for _, ob := range obstacles {
		if !zoneIn(columnZone(ob, midX, pageW), compatible) {
			continue
		}
		if ob.Y1 < floorY && ob.Y1 > ceilingY {
			ceilingY = ob.Y1
		}
	}
	return ceilingY
}

// primaryPick selects every unused object whose centroid falls
// strictly between ceiling and floor, in a compatible column.
func primaryPick(objs []visualObject, used []bool, ceilingY, floorY, midX, pageW float64, compatible []zone) []int {
	var picks []int
	for i, obj := range objs {
		if used[i] {
			continue
		}
		cy := obj.Rect.CenterY()
		if cy <= ceilingY || cy >= floorY {
			continue
		}
		if !zoneIn(columnZone(obj.Rect, midX, pageW), compatible) {
			continue
		}
		picks = append(picks, i)
	}
	return picks
}

func unionIndices(objs []visualObject, idxs []int) geometry.Rect {
	var rs []geometry.Rect
	for _, i := range idxs {
		rs = append(rs, objs[i].Rect)
	}
	return geometry.UnionAll(rs)
}

func labelsNear(r geometry.Rect, labels []Caption, dist float64) bool {
	for _, l := range labels {
		if r.Chebyshev(l.Rect) <= dist {
			return true
		}
	}
	return false
}

// gapBetween approximates the rectangular gap between u and o: the
// separating band on whichever axis the two rects don't overlap, and their
// overlap range on the other.
func gapBetween(u, o geometry.Rect) geometry.Rect {
	var x0, x1 float64
	switch {
	case u.X1 <= o.X0:
		x0, x1 = u.X1, o.X0
	case o.X1 <= u.X0:
		x0, x1 = o.X1, u.X0
	default:
		x0, x1 = math.Max(u.X0, o.X0), math.Min(u.X1, o.X1)
	}
	var y0, y1 float64
	switch {
	case u.Y1 <= o.Y0:
		y0, y1 = u.Y1, o.Y0
	case o.Y1 <= u.Y0:
		y0, y1 = o.Y1, u.Y0
	default:
		y0, y1 = math.Max(u.Y0, o.Y0), math.Min(u.Y1, o.Y1)
	}
	return geometry.NewRect(x0, y0, x1, y1)
}

// expandAligned grows the primary picks' union into a multi-panel figure:
// repeatedly absorb any remaining object that overlaps the union vertically
// by at least half its own height and satisfies the directional distance
// test, subject to the gutter veto and the strict-block veto. This is a
// fixpoint for the same reason clustering is: each absorption can bring the
// union within range of a further object.
func expandAligned(objs []visualObject, primary []int, labels []Caption, strict []geometry.Rect, midX float64, guardActive bool) map[int]bool {
	used := make(map[int]bool, len(primary))
	for _, i := range primary {
		used[i] = true
	}
	u := unionIndices(objs, primary)

	for {
		changed := false
		for i, obj := range objs {
			if used[i] {
				continue
			}
			if obj.Rect.VerticalOverlap(u) < 0.5*obj.Rect.Height() {
				continue
			}
			if guardActive && (u.CenterX() < midX) != (obj.Rect.CenterX() < midX) {
				continue
			}

			xGap := u.XGap(obj.Rect)
			yGap := u.YGap(obj.Rect)
			dist := u.Chebyshev(obj.Rect)

			near200 := labelsNear(u, labels, 200) || labelsNear(obj.Rect, labels, 200)
			diagonalThreshold := 40.0
			if near200 {
				diagonalThreshold = 150.0
			}

			merge := false
			switch {
			case xGap == 0 && yGap == 0:
				merge = true
			case xGap > 0 && yGap == 0:
				merge = xGap < diagonalThreshold
			case yGap > 0 && xGap == 0:
				merge = yGap < 150
			case xGap > 0 && yGap > 0:
				merge = dist < diagonalThreshold
			}
			if !merge {
				continue
			}

			if dist > 25 && intersectsAny(gapBetween(u, obj.Rect), strict) {
				continue
			}

			used[i] = true
			u = u.Union(obj.Rect)
			changed = true
		}
		if !changed {
			break
		}
	}
	return used
}

// associateResult is the Caption Associator's output: the
// regions it managed to build, which visual objects it claimed, and which
// captions went unfilled (fed to the Orphan Resolver).
type associateResult struct {
	regions  []FigureRegion
	used     []bool
	unfilled []Caption
}

// associateCaptions assigns visual objects to captions by vertical
// partitioning, building one figure region per caption that claims anything.
func associateCaptions(objs []visualObject, in pageInputs, layout layoutInfo) associateResult {
	pageW := in.pageRect.Width()
	midX := layout.midX
	guard := layout.guardActive

	var captions []Caption
	var labels []Caption
	for _, c := range in.captions {
		if c.Kind == KindCaption {
			captions = append(captions, c)
		} else {
			labels = append(labels, c)
		}
	}
	sort.SliceStable(captions, func(i, j int) bool { return captions[i].Rect.Y0 < captions[j].Rect.Y0 })

	state := newAssociationState(len(objs))
	var regions []FigureRegion
	var unfilled []Caption

	for _, c := range captions {
		z := captionZone(c.Rect, midX, pageW, guard)
		compatible := compatibleZones(z, guard)

		floorY := c.Rect.Y0
		ceilingY := state.ceilingFor(z)
		ceilingY = refineCeilingByObstacles(in.obstacles, compatible, floorY, ceilingY, midX, pageW)

		primary := primaryPick(objs, state.used, ceilingY, floorY, midX, pageW, compatible)
		if len(primary) == 0 {
			unfilled = append(unfilled, c)
			continue
		}

		claimed := expandAligned(objs, primary, labels, in.strict, midX, guard)
		var idxs []int
		hasImage := false
		for i := range claimed {
			idxs = append(idxs, i)
			state.used[i] = true
			if objs[i].hasImage {
				hasImage = true
			}
		}

		final := unionIndices(objs, idxs)
		final = buildFinalRegion(final, objs, idxs, floorY, ceilingY, midX, pageW, guard, in.pageRect)

		regions = append(regions, FigureRegion{Rect: final, Caption: c.Text, HasImage: hasImage})

		newCeiling := final.Y1
		switch z {
		case zoneFull:
			state.ceilings[zoneFull] = newCeiling
		case zoneMixed:
			state.ceilings[zoneLeft] = newCeiling
			state.ceilings[zoneRight] = newCeiling
		default:
			state.ceilings[z] = newCeiling
		}
	}

	return associateResult{regions: regions, used: state.used, unfilled: unfilled}
}

// buildFinalRegion pads the union, trims it to the caption floor and the
// ceiling, clips to the page, and applies the single-column gutter
// extension.
func buildFinalRegion(union geometry.Rect, objs []visualObject, idxs []int, floorY, ceilingY, midX, pageW float64, guardActive bool, pageRect geometry.Rect) geometry.Rect {
	r := union.Pad(20, 24)
	r.Y1 = math.Min(r.Y1, floorY-5)
	r.Y0 = math.Max(r.Y0, math.Max(40, ceilingY-10))

	if guardActive {
		z := columnZone(union, midX, pageW)
		if z == zoneLeft {
			for _, i := range idxs {
				if math.Abs(objs[i].Rect.X1-union.X1) <= 30 {
					if ext := midX - 10 - union.X1; ext > r.X1-union.X1 {
						r.X1 = union.X1 + ext
					}
					break
				}
			}
		} else if z == zoneRight {
			for _, i := range idxs {
				if math.Abs(objs[i].Rect.X0-union.X0) <= 30 {
					if ext := union.X0 - (midX + 10); ext > union.X0-r.X0 {
						r.X0 = union.X0 - ext
					}
					break
				}
			}
		}
	}

	return r.Clip(pageRect)
}
