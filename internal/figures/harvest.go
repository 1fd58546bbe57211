package figures

import (
	"regexp"
	"strings"

	"figextract/internal/geometry"
	"figextract/internal/pdfdoc"
)

// figureSafetyRe matches the start of a caption for an already-classified
// figure; such a block is never promoted to obstacle/strict status even
// when it is long, since figure captions routinely run past 150 characters.
var figureSafetyRe = regexp.MustCompile(`(?i)^(Figure|Fig)\.?\s*\d+`)

const marginPt = 40.0

// harvestDrawings collects candidate rects for clustering: visible vector
// paths plus every embedded image rect. Input order is preserved and
// nothing is deduplicated.
func harvestDrawings(page pdfdoc.Page) (visiblePaths []geometry.Rect, images []pdfdoc.ImageRect) {
	for _, d := range page.Drawings() {
		if d.Visible() {
			visiblePaths = append(visiblePaths, d.Rect)
		}
	}
	for _, img := range page.Images() {
		if img.Rect.Width() > 1 && img.Rect.Height() > 1 {
			images = append(images, img)
		}
	}
	return visiblePaths, images
}

// harvestTextRects produces the small span rects treated as potential
// labels by the clusterer's second pass: spans intersecting any detected
// caption rect are excluded, as are spans in the top/bottom margins.
func harvestTextRects(blocks []pdfdoc.TextBlock, captions []Caption, pageRect geometry.Rect) []geometry.Rect {
	var rects []geometry.Rect
	topBand := pageRect.Y0 + marginPt
	bottomBand := pageRect.Y1 - marginPt

	for _, b := range blocks {
		for _, l := range b.Lines {
			for _, s := range l.Spans {
				if s.Rect.Y0 < topBand || s.Rect.Y1 > bottomBand {
					continue
				}
				if intersectsAnyCaption(s.Rect, captions) {
					continue
				}
				rects = append(rects, s.Rect)
			}
		}
	}
	return rects
}

func intersectsAnyCaption(r geometry.Rect, captions []Caption) bool {
	for _, c := range captions {
		if r.Intersects(c.Rect) {
			return true
		}
	}
	return false
}

// classifyBlocks splits text blocks into obstacles (>150 chars) and
// strict_blocks (>150 chars, or >50 chars and not itself a caption); a block
// starting with a "Figure N"/"Fig. N" prefix is neither. Only rects are
// returned, which is all downstream consumers need.
func classifyBlocks(blocks []pdfdoc.TextBlock, captions []Caption) (obstacles, strict []geometry.Rect) {
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		n := len(text)

		if figureSafetyRe.MatchString(text) {
			continue
		}

		isCaption := intersectsAnyCaption(b.Rect, captions)

		switch {
		case n > 150:
			obstacles = append(obstacles, b.Rect)
			strict = append(strict, b.Rect)
		case n > 50 && !isCaption:
			strict = append(strict, b.Rect)
		}
	}
	return obstacles, strict
}
