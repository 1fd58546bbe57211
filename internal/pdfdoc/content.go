package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	// Register the codecs image.Decode needs for embedded bitmaps: DCT
	// streams are JPEG, and pre-rendered assets occasionally embed PNG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/ledongthuc/pdf"
	"golang.org/x/image/draw"

	"figextract/internal/geometry"
)

// scanContentStreams walks a page's content stream(s), tracking the current
// transformation matrix and graphics state, and collects every rectangle
// ("re" operator) and image placement ("Do" operator naming an Image
// XObject). The walk records geometry instead of painting: the drawing
// harvester only needs rects and colors, not a rasterized page.
func scanContentStreams(v pdf.Page, frame pageFrame) ([]Drawing, []ImageRect, error) {
	raw, err := pageContentBytes(v)
	if err != nil {
		return nil, nil, err
	}

	xobjs := xobjectDict(v)
	tokens := tokenizeContent(raw)

	var (
		drawings []Drawing
		images   []ImageRect
		stack    []float64
		ctm      = identityCTM()
		ctmStack []ctm6
		stroke   *Color
		fill     *Color
	)

	popN := func(n int) []float64 {
		if len(stack) < n {
			return nil
		}
		v := append([]float64(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return v
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if f, ok := parseFloat(tok); ok {
			stack = append(stack, f)
			continue
		}
		switch tok {
		case "cm":
			if v := popN(6); v != nil {
				ctm = ctm.concat(ctm6{v[0], v[1], v[2], v[3], v[4], v[5]})
			}
		case "q":
			ctmStack = append(ctmStack, ctm)
		case "Q":
			if n := len(ctmStack); n > 0 {
				ctm = ctmStack[n-1]
				ctmStack = ctmStack[:n-1]
			}
		case "re":
			if v := popN(4); v != nil {
				rect := rectFromCTM(frame, ctm, v[0], v[1], v[2], v[3])
				drawings = append(drawings, Drawing{Rect: rect, Stroke: stroke, Fill: fill})
			}
		case "rg":
			if v := popN(3); v != nil {
				c := Color{v[0], v[1], v[2]}
				fill = &c
			}
		case "RG":
			if v := popN(3); v != nil {
				c := Color{v[0], v[1], v[2]}
				stroke = &c
			}
		case "g":
			if v := popN(1); v != nil {
				c := Color{v[0], v[0], v[0]}
				fill = &c
			}
		case "G":
			if v := popN(1); v != nil {
				c := Color{v[0], v[0], v[0]}
				stroke = &c
			}
		case "k":
			// CMYK fill color: consume the operands and clear the fill
			// rather than guess an RGB conversion. Drawing.Visible only
			// counts a populated Stroke/Fill, so a CMYK-colored path
			// records no color rather than a wrong white/non-white
			// guess.
			popN(4)
			fill = nil
		case "K":
			// CMYK stroke color, handled like "k".
			popN(4)
			stroke = nil
		case "Do":
			if i >= 1 && strings.HasPrefix(tokens[i-1], "/") {
				name := tokens[i-1]
				if ref, ok := xobjs[name]; ok {
					r := rectFromCTM(frame, ctm, 0, 0, 1, 1)
					images = append(images, ImageRect{Rect: r, ID: ref})
				}
			}
		case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n", "W", "W*", "m", "l", "c", "v", "y", "h":
			stack = stack[:0]
		default:
			if !strings.HasPrefix(tok, "/") {
				stack = stack[:0]
			}
		}
	}

	return drawings, images, nil
}

// pageContentBytes resolves a page's /Contents entry, which may be a single
// stream or an array of streams, into one concatenated byte slice.
func pageContentBytes(v pdf.Page) ([]byte, error) {
	contents := v.V.Key("Contents")
	var buf bytes.Buffer
	switch contents.Kind() {
	case pdf.Stream:
		r := contents.Reader()
		if r == nil {
			return nil, fmt.Errorf("pdfdoc: content stream has no reader")
		}
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, fmt.Errorf("pdfdoc: reading content stream: %w", err)
		}
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			el := contents.Index(i)
			if el.Kind() != pdf.Stream {
				continue
			}
			r := el.Reader()
			if r == nil {
				continue
			}
			io.Copy(&buf, r)
			buf.WriteByte(' ')
		}
	default:
		return nil, nil
	}
	return buf.Bytes(), nil
}

// xobjectDict maps each Image XObject name under /Resources (e.g. "/Im0")
// to a stable string ID used to re-extract the bitmap later (RawImage).
// Form XObjects are skipped: a Do naming a form paints nested content, not
// an embedded raster, and must not feed the image harvester.
func xobjectDict(v pdf.Page) map[string]string {
	out := map[string]string{}
	xo := v.V.Key("Resources").Key("XObject")
	if xo.Kind() != pdf.Dict {
		return out
	}
	for _, key := range xo.Keys() {
		if xo.Key(key).Key("Subtype").Name() != "Image" {
			continue
		}
		out["/"+key] = key
	}
	return out
}

func tokenizeContent(data []byte) []string {
	var tokens []string
	i := 0
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/':
			j := i + 1
			for j < n && !isDelim(data[j]) {
				j++
			}
			tokens = append(tokens, string(data[i:j]))
			i = j
		case c == '(' || c == '[' || c == '<':
			// skip string/array/dict literals; they never carry the
			// numeric operands the harvester needs.
			depth := 1
			open, close := c, matchingClose(c)
			j := i + 1
			for j < n && depth > 0 {
				if data[j] == open {
					depth++
				} else if data[j] == close {
					depth--
				}
				j++
			}
			i = j
		default:
			j := i
			for j < n && !isDelim(data[j]) {
				j++
			}
			if j > i {
				tokens = append(tokens, string(data[i:j]))
				i = j
			} else {
				// a stray closing delimiter with no matching opener
				i++
			}
		}
	}
	return tokens
}

func matchingClose(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '<':
		return '>'
	}
	return open
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '/', '(', ')', '[', ']', '<', '>':
		return true
	}
	return false
}

func parseFloat(tok string) (float64, bool) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ctm6 is a 2D affine transform [a b c d e f] in PDF's row-vector
// convention: x' = a*x + c*y + e, y' = b*x + d*y + f.
type ctm6 struct {
	a, b, c, d, e, f float64
}

func identityCTM() ctm6 { return ctm6{1, 0, 0, 1, 0, 0} }

func (m ctm6) concat(n ctm6) ctm6 {
	return ctm6{
		a: n.a*m.a + n.b*m.c,
		b: n.a*m.b + n.b*m.d,
		c: n.c*m.a + n.d*m.c,
		d: n.c*m.b + n.d*m.d,
		e: n.e*m.a + n.f*m.c + m.e,
		f: n.e*m.b + n.f*m.d + m.f,
	}
}

func (m ctm6) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// rectFromCTM maps the axis-aligned rectangle (x,y,w,h) in the current user
// space through ctm into native PDF space, then into the page's top-down
// frame.
func rectFromCTM(frame pageFrame, m ctm6, x, y, w, h float64) geometry.Rect {
	x0, y0 := m.apply(x, y)
	x1, y1 := m.apply(x+w, y)
	x2, y2 := m.apply(x, y+h)
	x3, y3 := m.apply(x+w, y+h)
	native := geometry.NewRect(x0, y0, x1, y1)
	native = native.Union(geometry.NewRect(x2, y2, x3, y3))
	return frame.toTopDown(native.X0, native.Y0, native.X1, native.Y1)
}

// RawImage re-extracts an embedded image's bitmap by passing the XObject's
// stream to image.Decode, which recognizes only the registered JPEG and PNG
// formats; a stream of raw pixel samples (e.g. a Flate-compressed image
// without a file header) is not reconstructed and returns a decode error.
// Used only for hybrid emission; a decode failure is non-fatal to the region.
func (p *page) RawImage(id string) (image.Image, error) {
	xobj := p.v.V.Key("Resources").Key("XObject")
	if xobj.Kind() != pdf.Dict {
		return nil, fmt.Errorf("pdfdoc: page has no XObject resources")
	}
	obj := xobj.Key(id)
	if obj.Kind() != pdf.Stream {
		return nil, fmt.Errorf("pdfdoc: image %q is not a stream", id)
	}
	r := obj.Reader()
	if r == nil {
		return nil, fmt.Errorf("pdfdoc: image %q has no decodable stream", id)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: decoding image %q: %w", id, err)
	}
	return toRGBIfManyChannels(img), nil
}

// toRGBIfManyChannels converts an image to RGB when it carries more than
// three non-alpha channels. The only decoder output in
// practice with more than three non-alpha channels is image.CMYK (four
// color channels, no alpha); everything else (RGBA/NRGBA's three color
// channels plus alpha, Gray, YCbCr's three planes) already qualifies and
// passes through unchanged.
func toRGBIfManyChannels(img image.Image) image.Image {
	if _, ok := img.(*image.CMYK); !ok {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
