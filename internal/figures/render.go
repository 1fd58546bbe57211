package figures

import (
	"image"
	"strings"

	"golang.org/x/image/draw"

	"figextract/internal/geometry"
	"figextract/internal/pdfdoc"
	"figextract/internal/render"
)

const renderDPI = 300.0

// RenderedFigure is one figure's rasterized output: a
// single vector composite, or, for a hybrid figure intersecting an
// embedded image, both the composite and the raw source bitmap.
type RenderedFigure struct {
	Region FigureRegion
	Vector image.Image
	Raw    image.Image // non-nil only for hybrid emission
}

// renderFigure produces the rasterized output for one final region:
// clip-render, compute the visual-core bounds, erase out-of-figure text,
// pixel-trim, and (for a hybrid figure) pull the raw embedded image too.
func renderFigure(page pdfdoc.Page, region FigureRegion, objs []visualObject, lines []allTextLine, images []pdfdoc.ImageRect, midX, pageW float64) (RenderedFigure, error) {
	r := region.Rect
	rendered, err := page.RenderClip(r, renderDPI)
	if err != nil {
		return RenderedFigure{}, err
	}

	canvas := render.ToRGBA(rendered)
	v := visualCoreBounds(objs, r)
	eraseTextLines(canvas, r, v, lines, midX, pageW)
	trimmed := render.Trim(canvas)

	out := RenderedFigure{Region: region, Vector: trimmed}
	for _, img := range images {
		if img.Rect.Intersects(r) {
			if raw, err := page.RawImage(img.ID); err == nil {
				out.Raw = raw
			}
			break
		}
	}
	return out, nil
}

// allTextLine pairs a text line with its rect for erasure, independent of
// which block it came from.
type allTextLine struct {
	Rect geometry.Rect
	Text string
}

func collectLines(blocks []pdfdoc.TextBlock) []allTextLine {
	var out []allTextLine
	for _, b := range blocks {
		for _, l := range b.Lines {
			out = append(out, allTextLine{Rect: l.Rect, Text: l.Text})
		}
	}
	return out
}

// visualCoreBounds is the union of every non-trivial visual object
// intersecting the crop; the erase safety zones are measured from it.
func visualCoreBounds(objs []visualObject, r geometry.Rect) geometry.Rect {
	var rects []geometry.Rect
	for _, o := range objs {
		if o.Rect.Intersects(r) && o.Rect.Width() > 5 && o.Rect.Height() > 5 {
			rects = append(rects, o.Rect)
		}
	}
	if len(rects) == 0 {
		return r
	}
	return geometry.UnionAll(rects)
}

// eraseReasonFor decides whether a text line should be painted over, and
// why.
func eraseReasonFor(line allTextLine, r, v geometry.Rect, midX, pageW float64) eraseReason {
	n := len(strings.TrimSpace(line.Text))
	regionZone := columnZone(r, midX, pageW)

	if regionZone != zoneFull {
		cx := line.Rect.CenterX()
		if (regionZone == zoneLeft && cx > midX) || (regionZone == zoneRight && cx < midX) {
			return eraseOppositeColumn
		}
	}

	topStrictY := v.Y0 - 10
	topBufferY := v.Y0
	rightSafeX := v.X1 + 8
	leftSafeX := v.X0 - 50

	switch {
	case line.Rect.Y1 < topStrictY && n > 5:
		return eraseTopStrict
	case line.Rect.Y1 < topBufferY && n > 15:
		return eraseTopBuffer
	case line.Rect.Y0 < v.Y0+10 && n > 25:
		return eraseTopInner
	case line.Rect.X0 > rightSafeX:
		return eraseRightOfSafe
	case line.Rect.X1 < leftSafeX && n > 25:
		return eraseLeftOfSafe
	}
	return eraseNone
}

// eraseTextLines decides erasure per line, honors the caption-override
// rule, and paints white over whatever survives.
func eraseTextLines(canvas draw.Image, r, v geometry.Rect, lines []allTextLine, midX, pageW float64) {
	bounds := canvas.Bounds()

	for _, line := range lines {
		if !line.Rect.Intersects(r) || line.Rect.Y0 > v.Y1 {
			continue
		}
		reason := eraseReasonFor(line, r, v, midX, pageW)
		if reason == eraseNone {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if figureSafetyRe.MatchString(text) && !reason.isSideReason() {
			continue
		}

		local := line.Rect.Clip(r)
		if local.IsEmpty() {
			continue
		}
		px := render.PointToPixels(local, r, renderDPI, bounds)
		if px.Empty() {
			continue
		}
		render.FillWhite(canvas, px)
	}
}
