package pdfdoc

import (
	"fmt"
	"image"
	"sync"

	gopdf "github.com/VantageDataChat/GoPDF2"

	"figextract/internal/geometry"
)

// rasterCache memoizes the full-page raster per DPI: the crop renderer
// calls RenderClip once per figure region on the same page, usually at the
// same DPI, and a 300 DPI A4 RGBA pixmap is ~35MB, worth not re-rendering
// from the content stream per region.
type rasterCache struct {
	mu    sync.Mutex
	byDPI map[float64]image.Image
}

func (p *page) fullPageImage(dpi float64) (image.Image, error) {
	p.rasterOnce.mu.Lock()
	defer p.rasterOnce.mu.Unlock()
	if p.rasterOnce.byDPI == nil {
		p.rasterOnce.byDPI = map[float64]image.Image{}
	}
	if img, ok := p.rasterOnce.byDPI[dpi]; ok {
		return img, nil
	}

	img, err := gopdf.RenderPageToImage(p.doc.raw, p.index, gopdf.RenderOption{DPI: dpi})
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: rendering page %d at %.0f dpi: %w", p.index+1, dpi, err)
	}
	p.rasterOnce.byDPI[dpi] = img
	return img, nil
}

// RenderClip rasterizes the region of the page inside clip at the given
// DPI. The only rasterization primitive GoPDF2 exposes is a whole-page
// render, so RenderClip renders the full page once (cached per DPI) and
// crops the result; the eraser then paints white rectangles directly onto
// the cropped pixmap (internal/render) rather than onto a PDF page, which
// produces an identical final raster.
func (p *page) RenderClip(clip geometry.Rect, dpi float64) (image.Image, error) {
	full, err := p.fullPageImage(dpi)
	if err != nil {
		return nil, err
	}

	scale := dpi / 72.0
	bounds := full.Bounds()
	ix0 := clampInt(int(clip.X0*scale), bounds.Min.X, bounds.Max.X)
	iy0 := clampInt(int(clip.Y0*scale), bounds.Min.Y, bounds.Max.Y)
	ix1 := clampInt(int(clip.X1*scale+0.5), bounds.Min.X, bounds.Max.X)
	iy1 := clampInt(int(clip.Y1*scale+0.5), bounds.Min.Y, bounds.Max.Y)
	if ix1 <= ix0 || iy1 <= iy0 {
		return nil, fmt.Errorf("pdfdoc: clip region is empty after rasterization")
	}

	sub, ok := full.(subImager)
	if !ok {
		return nil, fmt.Errorf("pdfdoc: renderer image does not support cropping")
	}
	cropped := sub.SubImage(image.Rect(ix0, iy0, ix1, iy1))

	// Detach from the full-page backing array: the eraser mutates this
	// image in place (internal/render paints white rectangles onto it),
	// and SubImage shares storage with the cached full-page pixmap.
	return cloneRGBA(cropped), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
