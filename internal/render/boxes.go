package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"figextract/internal/geometry"
)

// Box is one colored outline to draw on a debug overlay: a visual
// object's cluster bounds or a caption/label rect. The gutter midline is
// drawn separately by DrawGutterLine.
type Box struct {
	Rect  geometry.Rect
	Color color.Color
}

const outlineWidth = 2

// DrawOverlay paints each box's outline onto canvas, mapping point-space
// rects through clipR at dpi exactly as the eraser does. Used for visual
// inspection of cluster/caption/gutter inference during development.
func DrawOverlay(canvas draw.Image, clipR geometry.Rect, dpi float64, boxes []Box) {
	bounds := canvas.Bounds()
	for _, b := range boxes {
		px := PointToPixels(b.Rect, clipR, dpi, bounds)
		if px.Empty() {
			continue
		}
		drawRectOutline(canvas, px, b.Color)
	}
}

// DrawGutterLine paints a vertical line at mid_x across the full page
// render, marking the inferred column gutter.
func DrawGutterLine(canvas draw.Image, midX float64, pageRect geometry.Rect, dpi float64, col color.Color) {
	bounds := canvas.Bounds()
	line := PointToPixels(geometry.NewRect(midX-1, pageRect.Y0, midX+1, pageRect.Y1), pageRect, dpi, bounds)
	if line.Empty() {
		return
	}
	draw.Draw(canvas, line, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func drawRectOutline(canvas draw.Image, px image.Rectangle, col color.Color) {
	top := image.Rect(px.Min.X, px.Min.Y, px.Max.X, min(px.Min.Y+outlineWidth, px.Max.Y))
	bottom := image.Rect(px.Min.X, max(px.Max.Y-outlineWidth, px.Min.Y), px.Max.X, px.Max.Y)
	left := image.Rect(px.Min.X, px.Min.Y, min(px.Min.X+outlineWidth, px.Max.X), px.Max.Y)
	right := image.Rect(max(px.Max.X-outlineWidth, px.Min.X), px.Min.Y, px.Max.X, px.Max.Y)

	src := &image.Uniform{C: col}
	draw.Draw(canvas, top, src, image.Point{}, draw.Src)
	draw.Draw(canvas, bottom, src, image.Point{}, draw.Src)
	draw.Draw(canvas, left, src, image.Point{}, draw.Src)
	draw.Draw(canvas, right, src, image.Point{}, draw.Src)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
