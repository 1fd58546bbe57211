package figures

import (
	"image/color"

	"figextract/internal/pdfdoc"
	"figextract/internal/render"
)

// DebugLayout exposes the Layout Analyzer's inferred gutter to callers
// outside this package (the --debug-boxes overlay).
type DebugLayout struct {
	MidX        float64
	GuardActive bool
}

var (
	clusterColor = color.RGBA{G: 120, B: 220, A: 255}
	captionColor = color.RGBA{G: 180, A: 255}
	labelColor   = color.RGBA{R: 230, G: 150, A: 255}
)

// DebugOverlay runs the clustering and caption-detection stages (without
// rendering any figures) and returns the boxes worth visualizing: every
// visual object cluster, every caption, and every label, so a developer can
// see exactly what the pipeline inferred for a page.
func DebugOverlay(page pdfdoc.Page) (DebugLayout, []render.Box) {
	in, visiblePaths := gatherPageInputs(page)
	layout := analyzeLayout(in.blocks, in.captions, in.pageRect.Width())
	objs := clusterVisualObjects(in, layout, visiblePaths, in.images)

	var boxes []render.Box
	for _, o := range objs {
		boxes = append(boxes, render.Box{Rect: o.Rect, Color: clusterColor})
	}
	for _, c := range in.captions {
		col := captionColor
		if c.Kind == KindLabel {
			col = labelColor
		}
		boxes = append(boxes, render.Box{Rect: c.Rect, Color: col})
	}

	return DebugLayout{MidX: layout.midX, GuardActive: layout.guardActive}, boxes
}
