package pdfdoc

import (
	"sync"

	"github.com/ledongthuc/pdf"

	"figextract/internal/geometry"
)

// page is the concrete Page implementation. Expensive derived data (the
// content-stream scan, the text-block grouping) is computed once on first
// access and cached, since the pipeline reads each view of the page
// multiple times (Drawing Harvester, Text Harvester, Caption Detector all
// consult the same page).
type page struct {
	doc   *document
	v     pdf.Page
	index int

	rect  geometry.Rect // top-left origin, Y increasing downward
	frame pageFrame     // converts native (bottom-up) PDF space to rect's frame

	once     sync.Once
	drawings []Drawing
	images   []ImageRect
	blocks   []TextBlock
	scanErr  error

	rasterOnce rasterCache
}

func newPage(doc *document, v pdf.Page, index int) *page {
	frame := pageFrameOf(v)
	return &page{doc: doc, v: v, index: index, rect: frame.rect, frame: frame}
}

func (p *page) Rect() geometry.Rect {
	return p.rect
}

// pageFrame converts native PDF user-space coordinates (origin bottom-left,
// Y increasing upward) into the top-left-origin, Y-down frame the rest of
// the pipeline uses.
type pageFrame struct {
	x0, y1 float64 // native MediaBox left edge and top edge
	rect   geometry.Rect
}

// toTopDown maps a native rectangle into this page's top-down frame.
func (f pageFrame) toTopDown(nx0, ny0, nx1, ny1 float64) geometry.Rect {
	return geometry.NewRect(nx0-f.x0, f.y1-ny1, nx1-f.x0, f.y1-ny0)
}

// pageFrameOf reads the page's MediaBox, in PDF points. Falls back to US
// Letter (612x792) when the box is missing or malformed: a degraded page
// should still produce best-effort output rather than abort.
func pageFrameOf(v pdf.Page) pageFrame {
	box := v.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return pageFrame{x0: 0, y1: 792, rect: geometry.NewRect(0, 0, 612, 792)}
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	native := geometry.NewRect(x0, y0, x1, y1)
	if native.IsEmpty() {
		return pageFrame{x0: 0, y1: 792, rect: geometry.NewRect(0, 0, 612, 792)}
	}
	return pageFrame{x0: native.X0, y1: native.Y1, rect: geometry.NewRect(0, 0, native.Width(), native.Height())}
}

// ensureScanned runs the content-stream scan (drawings + images) and text
// extraction once, swallowing errors: a page whose content stream cannot be
// scanned yields empty drawings/images (its text is still extracted), and a
// page whose text cannot be read yields no blocks, rather than failing the
// whole document.
func (p *page) ensureScanned() {
	p.once.Do(func() {
		drawings, images, err := scanContentStreams(p.v, p.frame)
		if err != nil {
			p.scanErr = err
		} else {
			p.drawings = drawings
			p.images = images
		}
		p.blocks = extractBlocks(p.v, p.frame)
	})
}

func (p *page) Drawings() []Drawing {
	p.ensureScanned()
	return p.drawings
}

func (p *page) Images() []ImageRect {
	p.ensureScanned()
	return p.images
}

func (p *page) Blocks() []TextBlock {
	p.ensureScanned()
	return p.blocks
}
