package render

import (
	"image"
	"image/png"
	"io"
)

// EncodePNG writes img to w as a PNG. Thin wrapper so every write site
// shares one place to add e.g. compression-level tuning later.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
