package exporters

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/storage"
)

// PDFEngine prints a self-contained HTML document.
type PDFEngine interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// A4 in inches, with 2cm vertical and 2.5cm horizontal margins.
const (
	a4WidthIn       = 8.27
	a4HeightIn      = 11.69
	marginVertical  = 0.787
	marginSideways  = 0.984
	defaultPDFLimit = 60 * time.Second
)

// ChromePDFEngine drives a headless Chrome through chromedp. A browser is
// started per call and torn down afterwards.
type ChromePDFEngine struct {
	execPath string
	timeout  time.Duration
}

func NewChromePDFEngine(execPath string, timeout time.Duration) *ChromePDFEngine {
	if timeout <= 0 {
		timeout = defaultPDFLimit
	}
	return &ChromePDFEngine{execPath: execPath, timeout: timeout}
}

func (e *ChromePDFEngine) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(marginVertical).
				WithMarginBottom(marginVertical).
				WithMarginLeft(marginSideways).
				WithMarginRight(marginSideways).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print to pdf: %w", err)
	}
	return pdf, nil
}

// DocumentExporter renders a manuscript to PDF and stores it under pdf/.
type DocumentExporter struct {
	engine PDFEngine
	output storage.Client
	log    *logging.Logger
}

func NewDocumentExporter(engine PDFEngine, output storage.Client, log *logging.Logger) *DocumentExporter {
	return &DocumentExporter{engine: engine, output: output, log: log}
}

func (e *DocumentExporter) Export(ctx context.Context, m *Manuscript) (*ExportResult, error) {
	html, err := RenderDocument(m)
	if err != nil {
		return nil, err
	}

	pdf, err := e.engine.PrintPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	name, key := ArtifactName(FormatDocument, m.BookVariant, m.GeneratedAt)
	if err := e.output.Upload(ctx, key, bytes.NewReader(pdf)); err != nil {
		return nil, fmt.Errorf("store pdf %s: %w", key, err)
	}

	e.log.Info("PDF exported", "path", key, "bytes", len(pdf), "chapters", len(m.Chapters))
	return &ExportResult{
		Format:     FormatDocument,
		Name:       name,
		Path:       key,
		Size:       int64(len(pdf)),
		Chapters:   len(m.Chapters),
		TotalWords: m.TotalWords,
	}, nil
}
