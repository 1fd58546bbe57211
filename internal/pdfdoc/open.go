package pdfdoc

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// document is the concrete Document backed by ledongthuc/pdf for structural
// access and GoPDF2 for rasterization. Both need the raw file: ledongthuc
// opens it via *os.File, GoPDF2's RenderPageToImage takes the raw bytes
// directly.
type document struct {
	file   *os.File
	reader *pdf.Reader
	raw    []byte
	path   string
}

// Open validates and opens a PDF file, returning a Document ready for
// per-page extraction. The raw bytes are kept alongside the structural
// reader because GoPDF2's renderer consumes them directly.
func Open(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pdfdoc: file not found: %s", path)
		}
		return nil, fmt.Errorf("pdfdoc: cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("pdfdoc: %s is a directory, not a PDF", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: cannot read file: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: not a valid PDF: %w", err)
	}

	return &document{file: f, reader: r, raw: raw, path: path}, nil
}

func (d *document) PageCount() int {
	return d.reader.NumPage()
}

func (d *document) Page(index int) (Page, error) {
	// pdf.Reader pages are 1-based; Document.Page takes a 0-based index to
	// match the pipeline's page-loop convention.
	pageNum := index + 1
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return nil, fmt.Errorf("pdfdoc: page index %d out of range", index)
	}
	p := d.reader.Page(pageNum)
	if p.V.IsNull() {
		return nil, fmt.Errorf("pdfdoc: page %d has no content dictionary", pageNum)
	}
	return newPage(d, p, index), nil
}

func (d *document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}
