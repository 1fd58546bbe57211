// Package figures implements the figure-segmentation pipeline: spatial
// clustering of vector paths and images, caption detection and
// classification, column/gutter inference, caption→figure association,
// multi-panel merging, targeted text erasure, and whitespace trimming. One
// page is processed at a time by ProcessPage; all intermediate state is
// scoped to that call.
package figures

import (
	"figextract/internal/geometry"
	"figextract/internal/pdfdoc"
)

// CaptionKind distinguishes a full descriptive caption from a sub-figure
// label.
type CaptionKind int

const (
	// KindCaption is a full caption block, e.g. "Figure 3: panels".
	KindCaption CaptionKind = iota
	// KindLabel is a short sub-figure marker, e.g. "(a)".
	KindLabel
)

// Caption is a detected figure caption or sub-figure label.
type Caption struct {
	Text string
	Rect geometry.Rect
	Kind CaptionKind
}

// zone is the column classification of a rect relative to the gutter
// midline.
type zone int

const (
	zoneLeft zone = iota
	zoneRight
	zoneFull
	zoneMixed
)

// visualObject is a clustered set of vector paths, images, and absorbed
// labels treated as one spatial unit during association. Identity matters:
// the associator and orphan resolver track objects by
// index into the owning slice, never by value, since two visual objects can
// have identical rects.
type visualObject struct {
	Rect geometry.Rect
	// hasImage is true when this object absorbed at least one embedded
	// image rect, driving hybrid emission.
	hasImage bool
}

// FigureRegion is the final output unit: a rect on the page plus an
// optional caption.
type FigureRegion struct {
	Rect     geometry.Rect
	Caption  string
	HasImage bool
}

// eraseReason tags why a text line was selected for erasure, so the
// caption-override rule can check by tag rather than re-deriving the
// reason from the caption regex.
type eraseReason int

const (
	eraseNone eraseReason = iota
	eraseOppositeColumn
	eraseTopStrict
	eraseTopBuffer
	eraseTopInner
	eraseRightOfSafe
	eraseLeftOfSafe
)

// isSideReason reports whether r is one of the spatial reasons that still
// erase caption text of an adjacent figure: the opposite-column reason, or
// the line sitting past either of the visual core's safe side margins.
func (r eraseReason) isSideReason() bool {
	return r == eraseOppositeColumn || r == eraseRightOfSafe || r == eraseLeftOfSafe
}

// pageInputs is the raw material harvested from a page before clustering
// and association run.
type pageInputs struct {
	pageRect  geometry.Rect
	images    []pdfdoc.ImageRect
	blocks    []pdfdoc.TextBlock
	textRects []geometry.Rect // small span rects, potential labels
	obstacles []geometry.Rect // paragraph blocks (>150 chars), ceiling obstacles
	strict    []geometry.Rect // body-text blocks (>150, or >50 and not a caption), merge-veto obstacles
	captions  []Caption
}
