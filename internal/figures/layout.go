package figures

import (
	"math"

	"figextract/internal/pdfdoc"
)

// layoutInfo is the Layout Analyzer's output: the inferred
// column gutter midline and whether the page should be treated as strict
// two-column.
type layoutInfo struct {
	midX        float64
	guardActive bool
}

// analyzeLayout infers mid_x and gutter_guard_active from the page's text
// blocks.
func analyzeLayout(blocks []pdfdoc.TextBlock, captions []Caption, pageW float64) layoutInfo {
	midX := inferMidX(blocks, pageW)
	guard := inferGutterGuard(blocks, captions, midX)
	return layoutInfo{midX: midX, guardActive: guard}
}

// inferMidX estimates the gutter midline: blocks long enough to carry
// layout signal (>30 chars), split by which half of the page their extent
// falls in, then the midline is the gap between the two column edges.
func inferMidX(blocks []pdfdoc.TextBlock, pageW float64) float64 {
	leftBound := 0.55 * pageW
	rightBound := 0.45 * pageW

	var leftMaxX1 float64
	var rightMinX0 = math.Inf(1)
	leftCount, rightCount := 0, 0
	haveLeft := false

	for _, b := range blocks {
		if len(trimmed(b.Text)) <= 30 {
			continue
		}
		if b.Rect.X1 < leftBound {
			leftCount++
			if !haveLeft || b.Rect.X1 > leftMaxX1 {
				leftMaxX1 = b.Rect.X1
				haveLeft = true
			}
		}
		if b.Rect.X0 > rightBound {
			rightCount++
			if b.Rect.X0 < rightMinX0 {
				rightMinX0 = b.Rect.X0
			}
		}
	}

	if leftCount > 2 && rightCount > 2 {
		return (leftMaxX1 + rightMinX0) / 2
	}
	return pageW / 2
}

// inferGutterGuard decides whether the page is strict two-column: either
// both halves carry substantial body text, or two full captions sit in
// opposite columns at roughly the same height.
func inferGutterGuard(blocks []pdfdoc.TextBlock, captions []Caption, midX float64) bool {
	leftCount, rightCount := 0, 0
	for _, b := range blocks {
		if len(trimmed(b.Text)) <= 50 {
			continue
		}
		if b.Rect.X1 < midX {
			leftCount++
		} else if b.Rect.X0 > midX {
			rightCount++
		}
	}
	if leftCount > 1 && rightCount > 1 {
		return true
	}

	var leftCaptions, rightCaptions []Caption
	for _, c := range captions {
		if c.Kind != KindCaption {
			continue
		}
		if c.Rect.X1 < midX {
			leftCaptions = append(leftCaptions, c)
		} else if c.Rect.X0 > midX {
			rightCaptions = append(rightCaptions, c)
		}
	}
	for _, l := range leftCaptions {
		for _, r := range rightCaptions {
			if math.Abs(l.Rect.Y0-r.Rect.Y0) < 300 {
				return true
			}
		}
	}
	return false
}

func trimmed(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
