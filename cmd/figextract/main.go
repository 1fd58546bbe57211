// Command figextract extracts figure regions from an academic PDF,
// writing one PNG per figure to an output directory.
package main

import (
	"fmt"
	"image"
	imgcolor "image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"figextract/internal/figerr"
	"figextract/internal/figures"
	"figextract/internal/logger"
	"figextract/internal/pdfdoc"
	"figextract/internal/render"
)

// maxPageWorkers bounds the page-parallel worker pool:
// pages render independently, but each page's pipeline is strictly
// sequential internally.
const maxPageWorkers = 4

var debugBoxes bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "figextract <pdf> [outdir]",
		Short:         "Extract figure regions from an academic PDF",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
	cmd.Flags().BoolVar(&debugBoxes, "debug-boxes", false, "write Page{P}_debug.png overlays of cluster/caption/gutter inference")
	return cmd
}

func run(args []string) error {
	inputPath := args[0]
	outDir := defaultOutDir(inputPath)
	if len(args) > 1 {
		outDir = args[1]
	}

	if err := logger.Init(logger.DefaultConfig()); err != nil {
		return err
	}
	defer logger.Close()

	banner := color.New(color.FgCyan, color.Bold)
	banner.Println("figextract - academic PDF figure extraction")

	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return figerr.New(figerr.ErrInputNotFound, "input PDF not found: "+inputPath, err)
		}
		return figerr.New(figerr.ErrInputInvalid, "cannot access input PDF: "+inputPath, err)
	}

	doc, err := pdfdoc.Open(inputPath)
	if err != nil {
		return figerr.New(figerr.ErrInputInvalid, "failed to open PDF: "+inputPath, err)
	}
	defer doc.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	pageCount := doc.PageCount()
	fmt.Printf("%d page(s) to scan\n", pageCount)
	bar := progressbar.Default(int64(pageCount), "processing pages")

	total, err := processDocument(doc, pageCount, outDir, bar)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("done: %d figure(s) extracted\n", total)
	fmt.Printf("OUTPUT_DIR:%s\n", outDir)
	return nil
}

// processDocument runs the pipeline over every page with a bounded worker
// pool: pages are independent, the output directory is the
// only shared resource, and filenames are deterministic from
// (page_index, region_index) so no locking is needed across page workers.
func processDocument(doc pdfdoc.Document, pageCount int, outDir string, bar *progressbar.ProgressBar) (int, error) {
	var g errgroup.Group
	g.SetLimit(maxPageWorkers)

	var mu sync.Mutex
	total := 0

	for i := 0; i < pageCount; i++ {
		pageIndex := i
		g.Go(func() error {
			defer bar.Add(1)

			page, err := doc.Page(pageIndex)
			if err != nil {
				logger.Warn("page degraded", logger.Page(pageIndex+1), logger.Err(err))
				return nil
			}

			result := figures.ProcessPage(page, pageIndex)
			n, err := saveFigures(result, outDir)
			if err != nil {
				logger.Warn("saving figures failed", logger.Page(pageIndex+1), logger.Err(err))
			}
			if debugBoxes {
				if err := writeDebugOverlay(page, pageIndex, outDir); err != nil {
					logger.Warn("debug overlay failed", logger.Page(pageIndex+1), logger.Err(err))
				}
			}

			mu.Lock()
			total += n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, nil
}

// saveFigures writes one page's rendered figures to disk: Page{P}_Fig{K}.png
// normally, or _v.png + _i.png when the figure contains an embedded image.
func saveFigures(result figures.PageResult, outDir string) (int, error) {
	p := result.PageIndex + 1
	saved := 0
	for i, fig := range result.Figures {
		k := i + 1
		if fig.Raw != nil {
			if err := writePNG(outDir, fmt.Sprintf("Page%d_Fig%d_v.png", p, k), fig.Vector); err != nil {
				logger.Warn("saving figure failed", logger.Page(p), logger.Figure(k), logger.Err(err))
				continue
			}
			if err := writePNG(outDir, fmt.Sprintf("Page%d_Fig%d_i.png", p, k), fig.Raw); err != nil {
				logger.Warn("saving figure failed", logger.Page(p), logger.Figure(k), logger.Err(err))
				continue
			}
		} else {
			if err := writePNG(outDir, fmt.Sprintf("Page%d_Fig%d.png", p, k), fig.Vector); err != nil {
				logger.Warn("saving figure failed", logger.Page(p), logger.Figure(k), logger.Err(err))
				continue
			}
		}
		fmt.Printf("page %d: extracted figure %d\n", p, k)
		logger.Info("region extracted", logger.Page(p), logger.Figure(k))
		saved++
	}
	return saved, nil
}

func writePNG(outDir, name string, img image.Image) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return render.EncodePNG(f, img)
}

// writeDebugOverlay implements --debug-boxes: a full-page render with the
// page's clustered visual objects, captions, and inferred gutter drawn as
// colored outlines.
func writeDebugOverlay(page pdfdoc.Page, pageIndex int, outDir string) error {
	pageRect := page.Rect()
	img, err := page.RenderClip(pageRect, 150)
	if err != nil {
		return err
	}
	canvas := render.ToRGBA(img)

	layout, boxes := figures.DebugOverlay(page)
	render.DrawOverlay(canvas, pageRect, 150, boxes)
	render.DrawGutterLine(canvas, layout.MidX, pageRect, 150, imgcolor.RGBA{R: 255, A: 255})

	return writePNG(outDir, fmt.Sprintf("Page%d_debug.png", pageIndex+1), canvas)
}

func defaultOutDir(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_vectors"
}
