// Package pdfdoc is the boundary between the figure-segmentation pipeline
// and the underlying PDF parser / rasterizer. It exposes exactly the
// primitives the pipeline needs (page geometry, vector drawings, embedded
// images, positioned text, and a clipped-render-to-pixmap operation),
// backed by
// github.com/VantageDataChat/GoPDF2 for rasterization and
// github.com/ledongthuc/pdf for structural/text access.
package pdfdoc

import (
	"image"

	"figextract/internal/geometry"
)

// Color is a normalized (0..1) RGB color as it appears in a PDF content
// stream's rg/RG/g/G operators (CMYK k/K colors are not converted).
type Color struct {
	R, G, B float64
}

// IsWhite reports whether c is pure white, the "invisible" fill/stroke
// value the Drawing Harvester must reject.
func (c Color) IsWhite() bool {
	return c.R >= 0.999 && c.G >= 0.999 && c.B >= 0.999
}

// Drawing is a vector path harvested from a page's content stream, reduced
// to its bounding rect plus stroke/fill color. Paths that do not set a
// color (neither operand appears) carry a nil pointer for that field.
type Drawing struct {
	Rect   geometry.Rect
	Stroke *Color
	Fill   *Color
}

// Visible reports whether d should be considered for clustering: both
// dimensions at least 0.5pt and a non-white stroke or fill.
func (d Drawing) Visible() bool {
	if d.Rect.Width() < 0.5 || d.Rect.Height() < 0.5 {
		return false
	}
	if d.Stroke != nil && !d.Stroke.IsWhite() {
		return true
	}
	if d.Fill != nil && !d.Fill.IsWhite() {
		return true
	}
	return false
}

// ImageRect is an embedded raster XObject placed on the page.
type ImageRect struct {
	Rect geometry.Rect
	// ID identifies the XObject so RawImage can re-extract the original
	// bitmap for hybrid emission.
	ID string
}

// TextSpan is the smallest unit of positioned text: one run of a single
// font/size within a line.
type TextSpan struct {
	Rect geometry.Rect
	Text string
}

// TextLine groups spans that sit on one baseline. Erasure operates at this
// granularity.
type TextLine struct {
	Rect  geometry.Rect
	Text  string
	Spans []TextSpan
}

// TextBlock groups consecutive lines with small vertical gaps into a
// paragraph-like unit. Body-text detection and caption matching operate at
// this granularity.
type TextBlock struct {
	Rect  geometry.Rect
	Text  string
	Lines []TextLine
}

// Page exposes one page's geometry and content to the pipeline.
type Page interface {
	// Rect returns the page's media box in PDF points, origin top-left,
	// Y increasing downward.
	Rect() geometry.Rect
	// Drawings returns every vector path on the page in source order.
	Drawings() []Drawing
	// Images returns every embedded raster image placed on the page.
	Images() []ImageRect
	// Blocks returns the page's text, grouped into blocks of lines of
	// spans.
	Blocks() []TextBlock
	// RenderClip rasterizes the region of the page inside clip (clipped to
	// the page rect) at the given DPI, returning an RGBA image whose
	// origin corresponds to clip's top-left corner.
	RenderClip(clip geometry.Rect, dpi float64) (image.Image, error)
	// RawImage re-extracts the original bitmap for the image with the
	// given ID, for hybrid emission.
	RawImage(id string) (image.Image, error)
}

// Document exposes a PDF's pages to the pipeline.
type Document interface {
	PageCount() int
	Page(index int) (Page, error)
	Close() error
}
