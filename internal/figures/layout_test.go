package figures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"figextract/internal/geometry"
	"figextract/internal/pdfdoc"
)

func TestInferMidXFallsBackToPageHalfWithoutColumnSignal(t *testing.T) {
	pageW := 612.0
	blocks := []pdfdoc.TextBlock{
		block(geometry.NewRect(100, 100, 250, 120), "Figure 1: foo"),
	}
	require.Equal(t, pageW/2, inferMidX(blocks, pageW))
}

func TestInferMidXUsesColumnEdgesWithEnoughSignal(t *testing.T) {
	pageW := 612.0
	var blocks []pdfdoc.TextBlock
	for i := 0; i < 3; i++ {
		y := float64(40 + i*60)
		blocks = append(blocks,
			block(geometry.NewRect(20, y, 290, y+30), longParagraph(60)),
			block(geometry.NewRect(320, y, 590, y+30), longParagraph(60)),
		)
	}
	mid := inferMidX(blocks, pageW)
	require.InDelta(t, 305.0, mid, 0.01)
}

func TestInferGutterGuardFromTwoColumnBodyText(t *testing.T) {
	blocks := []pdfdoc.TextBlock{
		block(geometry.NewRect(20, 40, 290, 90), longParagraph(80)),
		block(geometry.NewRect(320, 40, 590, 90), longParagraph(80)),
		block(geometry.NewRect(20, 330, 290, 380), longParagraph(80)),
		block(geometry.NewRect(320, 330, 590, 380), longParagraph(80)),
	}
	require.True(t, inferGutterGuard(blocks, nil, 306))
}

func TestInferGutterGuardFromAlignedCrossColumnCaptions(t *testing.T) {
	captions := []Caption{
		{Text: "Figure 1: a", Rect: geometry.NewRect(20, 300, 200, 315), Kind: KindCaption},
		{Text: "Figure 2: b", Rect: geometry.NewRect(320, 305, 500, 320), Kind: KindCaption},
	}
	require.True(t, inferGutterGuard(nil, captions, 306))
}

func TestInferGutterGuardFalseForSingleColumnPage(t *testing.T) {
	blocks := []pdfdoc.TextBlock{
		block(geometry.NewRect(100, 40, 500, 90), longParagraph(80)),
	}
	require.False(t, inferGutterGuard(blocks, nil, 306))
}

func TestTrimmedStripsAsciiWhitespace(t *testing.T) {
	require.Equal(t, "hello", trimmed("  \thello\n"))
	require.Equal(t, "", trimmed("   "))
}
