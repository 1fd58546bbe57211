package figures

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"figextract/internal/geometry"
	"figextract/internal/render"
)

// page/visual-core geometry shared by the eraseReasonFor table below: a
// figure region (0,0,400,400) with a visual core of (50,50,350,350), a
// gutter midline at 200.
var (
	eraseRegion = geometry.NewRect(0, 0, 400, 400)
	eraseCore   = geometry.NewRect(50, 50, 350, 350)
)

func TestEraseReasonFor(t *testing.T) {
	cases := []struct {
		name string
		line allTextLine
		want eraseReason
	}{
		{
			name: "short line above core is not erased",
			line: allTextLine{Rect: geometry.NewRect(60, 20, 100, 30), Text: "short"},
			want: eraseNone,
		},
		{
			name: "long line well above core is top-strict",
			line: allTextLine{Rect: geometry.NewRect(60, 10, 340, 25), Text: longParagraph(20)},
			want: eraseTopStrict,
		},
		{
			name: "line just within the 10pt top buffer is top-buffer",
			line: allTextLine{Rect: geometry.NewRect(60, 30, 340, 42), Text: longParagraph(20)},
			want: eraseTopBuffer,
		},
		{
			name: "short line in the top buffer is preserved",
			line: allTextLine{Rect: geometry.NewRect(60, 30, 90, 42), Text: "hi"},
			want: eraseNone,
		},
		{
			name: "line poking just inside the core top is top-inner",
			line: allTextLine{Rect: geometry.NewRect(60, 55, 340, 65), Text: longParagraph(30)},
			want: eraseTopInner,
		},
		{
			name: "line right of the safe margin is erased regardless of length",
			line: allTextLine{Rect: geometry.NewRect(365, 100, 395, 110), Text: "x"},
			want: eraseRightOfSafe,
		},
		{
			name: "long line left of the safe margin is erased",
			line: allTextLine{Rect: geometry.NewRect(-45, 100, -5, 110), Text: longParagraph(30)},
			want: eraseLeftOfSafe,
		},
		{
			name: "short line left of the safe margin is preserved",
			line: allTextLine{Rect: geometry.NewRect(-45, 100, -5, 110), Text: "hi"},
			want: eraseNone,
		},
		{
			name: "line well inside the core, away from any margin, is preserved",
			line: allTextLine{Rect: geometry.NewRect(150, 150, 250, 160), Text: longParagraph(60)},
			want: eraseNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := eraseReasonFor(tc.line, eraseRegion, eraseCore, 200, 400)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEraseReasonForOppositeColumnOnlyAppliesToNonFullFigures(t *testing.T) {
	leftRegion := geometry.NewRect(0, 0, 150, 400)
	line := allTextLine{Rect: geometry.NewRect(210, 100, 280, 110), Text: "x"}

	got := eraseReasonFor(line, leftRegion, eraseCore, 200, 400)
	require.Equal(t, eraseOppositeColumn, got)

	fullRegion := geometry.NewRect(0, 0, 390, 400) // > 0.6*pageW -> zoneFull
	got = eraseReasonFor(line, fullRegion, eraseCore, 200, 400)
	require.NotEqual(t, eraseOppositeColumn, got)
}

// TestIsSideReasonCoversBothSpatialReasons guards the maintainer-reported
// regression: the caption-override rule must still
// erase a "Figure N…" line when the erase reason is opposite-column OR
// either side-margin reason, not only opposite-column.
func TestIsSideReasonCoversBothSpatialReasons(t *testing.T) {
	require.True(t, eraseOppositeColumn.isSideReason())
	require.True(t, eraseRightOfSafe.isSideReason())
	require.True(t, eraseLeftOfSafe.isSideReason())
	require.False(t, eraseTopStrict.isSideReason())
	require.False(t, eraseTopBuffer.isSideReason())
	require.False(t, eraseTopInner.isSideReason())
	require.False(t, eraseNone.isSideReason())
}

// blankCanvas builds a pixmap sized the way renderFigure's RenderClip would
// for region r at the real 300 DPI, so pixel-space assertions below match
// what PointToPixels actually computes.
func blankCanvas(r geometry.Rect) *image.RGBA {
	scale := renderDPI / 72.0
	w := int(r.Width()*scale) + 1
	h := int(r.Height()*scale) + 1
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// whitePixelAt reports whether the canvas has been painted solid white at
// (x,y), the signature left by eraseTextLines/render.FillWhite.
func whitePixelAt(img image.Image, x, y int) bool {
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return cr>>8 == 255 && cg>>8 == 255 && cb>>8 == 255 && ca>>8 == 255
}

func TestEraseTextLinesCaptionOverridePreservesCaptionForTopReasons(t *testing.T) {
	r := geometry.NewRect(0, 0, 400, 400)
	v := geometry.NewRect(50, 50, 350, 350)
	canvas := blankCanvas(r)

	line := allTextLine{Rect: geometry.NewRect(60, 10, 340, 25), Text: "Figure 3: a long caption-shaped line up top"}
	eraseTextLines(canvas, r, v, []allTextLine{line}, 200, 400)

	// The line would ordinarily be erased (top-strict, length > 5), but the
	// caption-override rule preserves "Figure N…" text for a non-side
	// reason.
	px := render.PointToPixels(line.Rect.Clip(r), r, renderDPI, canvas.Bounds())
	require.False(t, whitePixelAt(canvas, px.Min.X+1, px.Min.Y+1))
}

func TestEraseTextLinesCaptionOverrideStillErasesForSideReasons(t *testing.T) {
	r := geometry.NewRect(0, 0, 150, 400) // zoneLeft figure, mid_x = 200
	v := geometry.NewRect(20, 50, 120, 350)
	canvas := blankCanvas(r)

	// Centroid on the opposite (right) side of mid_x, but overlapping the
	// crop by a sliver on its left edge: an adjacent figure's caption that
	// must still be painted over even though it matches the "Figure N"
	// safety pattern, since the erase reason is a side reason.
	line := allTextLine{Rect: geometry.NewRect(100, 100, 320, 112), Text: "Figure 4: neighboring caption"}
	eraseTextLines(canvas, r, v, []allTextLine{line}, 200, 400)

	local := line.Rect.Clip(r)
	require.False(t, local.IsEmpty())
	px := render.PointToPixels(local, r, renderDPI, canvas.Bounds())
	require.False(t, px.Empty())
	require.True(t, whitePixelAt(canvas, px.Min.X, px.Min.Y))
}

func TestEraseTextLinesSkipsLinesOutsideTheCropOrBelowTheCore(t *testing.T) {
	r := geometry.NewRect(0, 0, 72, 72)
	v := geometry.NewRect(10, 10, 60, 60)
	canvas := blankCanvas(r)

	lines := []allTextLine{
		{Rect: geometry.NewRect(100, 2, 110, 5), Text: longParagraph(30)}, // doesn't intersect r
		{Rect: geometry.NewRect(10, 65, 60, 70), Text: longParagraph(30)}, // below v.Y1
	}
	eraseTextLines(canvas, r, v, lines, 36, 72)

	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			require.False(t, whitePixelAt(canvas, x, y))
		}
	}
}

func TestVisualCoreBoundsIgnoresTinyObjectsAndFallsBackToRegion(t *testing.T) {
	r := geometry.NewRect(0, 0, 400, 400)
	objs := []visualObject{
		{Rect: geometry.NewRect(10, 10, 13, 400)}, // width 3, excluded
	}
	require.Equal(t, r, visualCoreBounds(objs, r))

	objs = append(objs, visualObject{Rect: geometry.NewRect(50, 50, 350, 350)})
	require.Equal(t, geometry.NewRect(50, 50, 350, 350), visualCoreBounds(objs, r))
}
