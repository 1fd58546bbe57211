package pdfdoc

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"figextract/internal/geometry"
)

// extractBlocks turns a page's row-level text (ledongthuc/pdf's
// GetTextByRow) into spans/lines/blocks: each row's runs are merged into a
// line while tracking min/max X/Y bounds and rejecting rows in which more
// than 10% of the text is non-printable noise, then consecutive lines whose vertical gap is small
// relative to line height are grouped into blocks.
func extractBlocks(v pdf.Page, frame pageFrame) []TextBlock {
	rows, err := v.GetTextByRow()
	if err != nil {
		return nil
	}

	var lines []TextLine
	for _, row := range rows {
		line, ok := lineFromRow(row, frame)
		if ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	return groupLinesIntoBlocks(lines)
}

func lineFromRow(row *pdf.Row, frame pageFrame) (TextLine, bool) {
	if len(row.Content) == 0 {
		return TextLine{}, false
	}

	var (
		sb                     strings.Builder
		minX, maxX, minY, maxY float64
		maxFontSize            float64
		first                  = true
		spans                  []TextSpan
		spanStart              int
		spanX0, spanX1         float64
	)

	// makeSpanRect converts a native [x0,baseline,x1,baseline+ascent]
	// extent into the page's top-down frame. PDF gives only a baseline Y
	// per run, not full ascent/descent metrics; the run's own font size is
	// used as an ascent proxy.
	makeSpanRect := func(x0, x1, yBase, fontSize float64) geometry.Rect {
		if fontSize <= 0 {
			fontSize = 10
		}
		return frame.toTopDown(x0, yBase, x1, yBase+fontSize)
	}

	flushSpan := func(end int) {
		if end <= spanStart {
			return
		}
		var sp strings.Builder
		for _, t := range row.Content[spanStart:end] {
			sp.WriteString(t.S)
		}
		text := strings.TrimSpace(sp.String())
		if text != "" {
			spans = append(spans, TextSpan{
				Rect: makeSpanRect(spanX0, spanX1, minY, maxFontSize),
				Text: text,
			})
		}
	}

	for idx, t := range row.Content {
		if t.S == "" {
			continue
		}
		sb.WriteString(t.S)

		x0, y0 := t.X, t.Y
		x1 := t.X + t.W

		if first {
			minX, maxX, minY, maxY = x0, x1, y0, y0
			spanX0 = x0
			maxFontSize = t.FontSize
			first = false
		} else {
			gap := x0 - maxX
			if gap > t.FontSize*0.6 && t.FontSize > 0 {
				flushSpan(idx)
				spanStart = idx
				spanX0 = x0
				maxFontSize = 0
			}
			if x0 < minX {
				minX = x0
			}
			if y0 < minY {
				minY = y0
			}
		}
		if x1 > maxX {
			maxX = x1
		}
		spanX1 = maxX
		if y0 > maxY {
			maxY = y0
		}
		if t.FontSize > maxFontSize {
			maxFontSize = t.FontSize
		}
	}
	flushSpan(len(row.Content))

	text := strings.TrimSpace(sb.String())
	if text == "" || isGarbageText(text) {
		return TextLine{}, false
	}

	fontSize := maxFontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	rect := frame.toTopDown(minX, minY, maxX, maxY+fontSize)
	return TextLine{Rect: rect, Text: text, Spans: spans}, true
}

func isGarbageText(text string) bool {
	nonPrintable := 0
	for _, r := range text {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			nonPrintable++
		}
		if r >= 0x7F && r <= 0x9F {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(text)) > 0.1
}

// groupLinesIntoBlocks merges vertically consecutive lines into blocks. A
// new block starts whenever the gap to the previous line exceeds 1.5x that
// line's height (a standard paragraph-break heuristic), or when the
// horizontal overlap between consecutive lines drops to zero (distinct
// columns/captions stacked by coincidence should not merge).
func groupLinesIntoBlocks(lines []TextLine) []TextBlock {
	sortLinesByY(lines)

	var blocks []TextBlock
	var cur []TextLine

	flush := func() {
		if len(cur) == 0 {
			return
		}
		rects := make([]geometry.Rect, len(cur))
		var sb strings.Builder
		for i, l := range cur {
			rects[i] = l.Rect
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(l.Text)
		}
		blocks = append(blocks, TextBlock{
			Rect:  geometry.UnionAll(rects),
			Text:  sb.String(),
			Lines: append([]TextLine(nil), cur...),
		})
		cur = nil
	}

	for _, l := range lines {
		if len(cur) == 0 {
			cur = append(cur, l)
			continue
		}
		prev := cur[len(cur)-1]
		gap := l.Rect.Y0 - prev.Rect.Y1
		lineHeight := prev.Rect.Height()
		if lineHeight <= 0 {
			lineHeight = 10
		}
		overlap := l.Rect.XGap(prev.Rect) == 0
		if gap <= lineHeight*1.5 && overlap {
			cur = append(cur, l)
		} else {
			flush()
			cur = append(cur, l)
		}
	}
	flush()

	return blocks
}

func sortLinesByY(lines []TextLine) {
	// insertion sort: the line count per page is small (hundreds at most)
	// and GetTextByRow already returns rows close to top-to-bottom order,
	// so this is effectively linear in practice.
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j].Rect.Y0 < lines[j-1].Rect.Y0; j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
}
