package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"figextract/internal/geometry"
)

func whiteCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func TestTrimCropsToInkWithMargin(t *testing.T) {
	img := whiteCanvas(100, 100)
	ink := image.Rect(40, 40, 60, 60)
	draw.Draw(img, ink, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	trimmed := Trim(img)
	b := trimmed.Bounds()
	require.Equal(t, 20+2*marginPx, b.Dx())
	require.Equal(t, 20+2*marginPx, b.Dy())
}

func TestTrimLeavesEmptyImageUnchanged(t *testing.T) {
	img := whiteCanvas(50, 50)
	trimmed := Trim(img)
	require.Equal(t, img.Bounds(), trimmed.Bounds())
}

func TestTrimIsIdempotentOnAlreadyTrimmedImage(t *testing.T) {
	img := whiteCanvas(100, 100)
	ink := image.Rect(40, 40, 60, 60)
	draw.Draw(img, ink, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	once := Trim(img)
	twice := Trim(once)
	require.Equal(t, once.Bounds().Dx(), twice.Bounds().Dx())
	require.Equal(t, once.Bounds().Dy(), twice.Bounds().Dy())
}

func TestToRGBAReturnsSameInstanceWhenAlreadyRGBA(t *testing.T) {
	img := whiteCanvas(10, 10)
	require.Same(t, img, ToRGBA(img))
}

func TestToRGBAConvertsOtherImageTypes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 5, 5))
	rgba := ToRGBA(gray)
	require.Equal(t, gray.Bounds(), rgba.Bounds())
}

func TestPointToPixelsMapsClipOriginToZero(t *testing.T) {
	clip := geometry.NewRect(100, 100, 200, 150)
	r := geometry.NewRect(100, 100, 110, 110)
	bounds := image.Rect(0, 0, 1000, 1000)

	px := PointToPixels(r, clip, 72, bounds)
	require.Equal(t, 0, px.Min.X)
	require.Equal(t, 0, px.Min.Y)
	require.Equal(t, 10, px.Max.X)
	require.Equal(t, 10, px.Max.Y)
}

func TestPointToPixelsScalesByDPI(t *testing.T) {
	clip := geometry.NewRect(0, 0, 100, 100)
	r := geometry.NewRect(0, 0, 10, 10)
	bounds := image.Rect(0, 0, 1000, 1000)

	px := PointToPixels(r, clip, 144, bounds) // 2x scale over the 72pt baseline
	require.Equal(t, 20, px.Max.X)
	require.Equal(t, 20, px.Max.Y)
}

func TestPointToPixelsClampsToBounds(t *testing.T) {
	clip := geometry.NewRect(0, 0, 100, 100)
	r := geometry.NewRect(-50, -50, 10, 10)
	bounds := image.Rect(0, 0, 1000, 1000)

	px := PointToPixels(r, clip, 72, bounds)
	require.Equal(t, 0, px.Min.X)
	require.Equal(t, 0, px.Min.Y)
}

func TestFillWhitePaintsRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	FillWhite(img, image.Rect(2, 2, 8, 8))
	r, g, b, a := img.At(5, 5).RGBA()
	require.Equal(t, uint32(0xffff), r)
	require.Equal(t, uint32(0xffff), g)
	require.Equal(t, uint32(0xffff), b)
	require.Equal(t, uint32(0xffff), a)

	r, _, _, _ = img.At(0, 0).RGBA()
	require.Equal(t, uint32(0), r)
}
