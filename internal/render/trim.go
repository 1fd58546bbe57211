// Package render provides the rasterization-adjacent primitives that sit
// below the figure-segmentation domain logic: pixel-accurate whitespace
// trimming, PNG encoding, and the debug-box overlay renderer. None of this
// package knows what a caption or a visual object is; it operates purely
// on images and colored rectangles.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"figextract/internal/geometry"
)

// whiteThreshold is the grayscale cutoff below which a pixel counts as
// "ink" for trimming purposes.
const whiteThreshold = 250

// marginPx is the aesthetic margin added around the trimmed bounding box.
const marginPx = 8

// Trim crops an image to its content: convert to grayscale, find the
// tightest bounding box covering every pixel darker than whiteThreshold,
// pad by marginPx, and crop. An image with no qualifying pixel is returned
// unchanged.
func Trim(img image.Image) image.Image {
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)

	box, found := inkBounds(gray, b)
	if !found {
		return img
	}

	padded := image.Rect(box.Min.X-marginPx, box.Min.Y-marginPx, box.Max.X+marginPx, box.Max.Y+marginPx).Intersect(b)
	if padded.Empty() {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	draw.Draw(out, out.Bounds(), img, padded.Min, draw.Src)
	return out
}

func inkBounds(gray *image.Gray, b image.Rectangle) (image.Rectangle, bool) {
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(x, y).Y < whiteThreshold {
				found = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if !found {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// ToRGBA returns img as an *image.RGBA, converting (and copying) only if
// it isn't one already.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// FillWhite paints a solid white rectangle, in device pixels, onto canvas.
func FillWhite(canvas draw.Image, px image.Rectangle) {
	draw.Draw(canvas, px, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
}

// PointToPixels maps a point-space rect onto device pixels relative to a
// clip region R rendered at dpi, clamped to canvas bounds.
func PointToPixels(r, clipR geometry.Rect, dpi float64, bounds image.Rectangle) image.Rectangle {
	scale := dpi / 72.0
	px := image.Rect(
		int(math.Floor((r.X0-clipR.X0)*scale)),
		int(math.Floor((r.Y0-clipR.Y0)*scale)),
		int(math.Ceil((r.X1-clipR.X0)*scale)),
		int(math.Ceil((r.Y1-clipR.Y0)*scale)),
	)
	return px.Intersect(bounds)
}
