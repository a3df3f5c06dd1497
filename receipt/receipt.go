// Package receipt renders single-page payment receipts.
package receipt

import (
	"io"
	"time"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf/contrib/barcode"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/asset"
)

// Layout positions the receipt text. Line baselines are in points from the
// bottom-left corner of the page.
type Layout struct {
	Width, Height float64
	Font          cargodoc.FontSpec
	X             float64
	LineY         [5]float64 // client, amount, method, reference, description
	Currency      string     // printed before the amount

	Stamp *cargodoc.Box // paid stamp image, optional
	QR    *cargodoc.Box // QR code of the payment reference, optional
}

// DefaultLayout returns the 200 mm x 100 mm CargoBloc receipt.
func DefaultLayout() Layout {
	return Layout{
		Width:    cargodoc.PageSizeReceipt.Wd,
		Height:   cargodoc.PageSizeReceipt.Ht,
		Font:     cargodoc.FontSpec{Family: "Helvetica", Style: "B", Size: 12},
		X:        20,
		LineY:    [5]float64{80, 65, 50, 35, 20},
		Currency: "GHS ",
		Stamp:    &cargodoc.Box{X: 440, Y: 150, W: 100, H: 100},
		QR:       &cargodoc.Box{X: 470, Y: 20, W: 70, H: 70},
	}
}

// Renderer draws receipts. It holds only configuration and may be shared.
type Renderer struct {
	layout    Layout
	stampPath string
	amounts   *cargodoc.AmountFormatter
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayout replaces the default layout.
func WithLayout(l Layout) Option {
	return func(r *Renderer) { r.layout = l }
}

// WithStamp sets the image drawn into the layout's stamp box.
func WithStamp(path string) Option {
	return func(r *Renderer) { r.stampPath = path }
}

// WithFormatter sets the amount formatter.
func WithFormatter(f *cargodoc.AmountFormatter) Option {
	return func(r *Renderer) {
		if f != nil {
			r.amounts = f
		}
	}
}

// WithLogger sets the logger used to report degraded rendering.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock used for the document creation date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		layout:  DefaultLayout(),
		amounts: cargodoc.NewAmountFormatter(language.English),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result describes a rendered receipt.
type Result struct {
	Lines    []string // the text lines, top to bottom
	Warnings []error
}

// Lines returns the text lines of rec, top to bottom.
func (r *Renderer) Lines(rec cargodoc.Receipt) []string {
	return []string{
		"Receipt for " + rec.ClientName,
		"Amount: " + r.layout.Currency + r.amounts.Format(rec.Amount),
		"Method: " + rec.Method,
		"Reference: " + rec.Reference,
		"Description: " + rec.Description,
	}
}

// Render writes the receipt for rec to w. A missing stamp image is reported
// in Result.Warnings and the receipt is drawn without it.
func (r *Renderer) Render(w io.Writer, rec cargodoc.Receipt) (*Result, error) {
	l := r.layout
	title := "Receipt"
	if rec.Number != "" {
		title += " " + rec.Number
	}
	pdf := cargodoc.NewDocument(
		cargodoc.WithPageSizeCustom(l.Width, l.Height),
		cargodoc.WithTitle(title),
		cargodoc.WithCreationDate(r.now()),
	)
	pdf.AddPage()
	c := cargodoc.NewCanvas(pdf)
	res := &Result{Lines: r.Lines(rec)}

	if l.Stamp != nil && r.stampPath != "" {
		if err := r.drawStamp(c, *l.Stamp); err != nil {
			r.logger.Warn("stamp unavailable, rendering without it",
				zap.String("path", r.stampPath), zap.Error(err))
			res.Warnings = append(res.Warnings, err)
		}
	}

	c.SetFont(l.Font)
	c.SetTextColor(cargodoc.RGBColor{})
	for i, line := range res.Lines {
		c.Text(l.X, l.LineY[i], line)
	}

	if l.QR != nil && rec.Reference != "" {
		key := barcode.RegisterQR(pdf, rec.Reference, qr.M, qr.Auto)
		if pdf.Err() {
			err := cargodoc.NewError("RenderReceipt", "", cargodoc.ErrRenderFailure, pdf.Error())
			pdf.ClearError()
			r.logger.Warn("reference QR code skipped", zap.Error(err))
			res.Warnings = append(res.Warnings, err)
		} else {
			barcode.Barcode(pdf, key, l.QR.X, l.Height-l.QR.Y-l.QR.H, l.QR.W, l.QR.H, false)
		}
	}

	if err := c.Err(); err != nil {
		return nil, cargodoc.NewError("RenderReceipt", "", cargodoc.ErrRenderFailure, err)
	}
	if err := pdf.Output(w); err != nil {
		return nil, cargodoc.NewError("RenderReceipt", "", cargodoc.ErrWriteFailure, err)
	}
	return res, nil
}

func (r *Renderer) drawStamp(c *cargodoc.Canvas, box cargodoc.Box) error {
	img, err := asset.Load(r.stampPath)
	if err != nil {
		return err
	}
	name, err := img.Register(c.PDF())
	if err != nil {
		return err
	}
	c.Image(name, box.X, box.Y, box.W, box.H)
	return nil
}
