package figures

import (
	"figextract/internal/geometry"
	"figextract/internal/logger"
	"figextract/internal/pdfdoc"
)

// PageResult is everything ProcessPage produced for one page: the rendered
// figures in region order, ready for the caller to name and save.
type PageResult struct {
	PageIndex int
	Figures   []RenderedFigure
}

// ProcessPage runs the full pipeline against one page. All intermediate
// state (used-object set, consumed-caption set, column ceilings) is scoped
// to this call; nothing survives across pages.
func ProcessPage(page pdfdoc.Page, pageIndex int) PageResult {
	in, visiblePaths := gatherPageInputs(page)
	layout := analyzeLayout(in.blocks, in.captions, in.pageRect.Width())

	objs := clusterVisualObjects(in, layout, visiblePaths, in.images)

	assoc := associateCaptions(objs, in, layout)
	orphans := resolveOrphans(objs, assoc.used, assoc.unfilled, layout)

	regions := make([]FigureRegion, 0, len(assoc.regions)+len(orphans))
	regions = append(regions, assoc.regions...)
	regions = append(regions, orphans...)

	lines := collectLines(in.blocks)
	midX, pageW := layout.midX, in.pageRect.Width()

	figures := make([]RenderedFigure, 0, len(regions))
	for i, r := range regions {
		if r.Rect.IsEmpty() {
			continue
		}
		rendered, err := renderFigure(page, r, objs, lines, in.images, midX, pageW)
		if err != nil {
			logger.Warn("figure region render failed",
				logger.Page(pageIndex+1),
				logger.Region(i),
				logger.Err(err))
			continue
		}
		figures = append(figures, rendered)
	}

	return PageResult{PageIndex: pageIndex, Figures: figures}
}

// gatherPageInputs runs the Drawing/Text Harvesters and the Caption
// Detector and assembles the page-scoped inputs every
// later stage reads from, plus the visible path rects the clusterer needs
// separately from the absorbed images.
func gatherPageInputs(page pdfdoc.Page) (pageInputs, []geometry.Rect) {
	pageRect := page.Rect()
	blocks := page.Blocks()
	captions := detectCaptions(blocks)

	visiblePaths, images := harvestDrawings(page)
	textRects := harvestTextRects(blocks, captions, pageRect)
	obstacles, strict := classifyBlocks(blocks, captions)

	in := pageInputs{
		pageRect:  pageRect,
		images:    images,
		blocks:    blocks,
		textRects: textRects,
		obstacles: obstacles,
		strict:    strict,
		captions:  captions,
	}
	return in, visiblePaths
}
