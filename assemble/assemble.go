// Package assemble turns records into finished documents. An Assembler
// holds the configuration of every document kind and wires the compositor,
// table, overlay and receipt renderers together for each call.
//
// Renders share no mutable state, so one Assembler may serve concurrent
// calls as long as they write to distinct outputs.
package assemble

import (
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/compositor"
	"github.com/cargobloc/cargodoc/layout"
	"github.com/cargobloc/cargodoc/overlay"
	"github.com/cargobloc/cargodoc/receipt"
)

// Assembler renders ledgers, manifests and receipts.
type Assembler struct {
	logger     *zap.Logger
	now        func() time.Time
	geom       *cargodoc.PageGeometry
	manifest   *layout.Manifest
	letterhead string
	stamp      string
	template   string
	title      string
	footer     string
	locale     language.Tag

	merger   *overlay.Merger
	receipts *receipt.Renderer
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the clock used for generation stamps and creation dates.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithGeometry sets the ledger page geometry.
func WithGeometry(g cargodoc.PageGeometry) Option {
	return func(a *Assembler) { a.geom = &g }
}

// WithLetterhead sets the background image of ledger pages.
func WithLetterhead(path string) Option {
	return func(a *Assembler) { a.letterhead = path }
}

// WithStamp sets the paid stamp image used on manifests and receipts.
func WithStamp(path string) Option {
	return func(a *Assembler) { a.stamp = path }
}

// WithTemplate sets the manifest template PDF.
func WithTemplate(path string) Option {
	return func(a *Assembler) { a.template = path }
}

// WithManifestLayout sets the manifest field placement table.
func WithManifestLayout(m *layout.Manifest) Option {
	return func(a *Assembler) { a.manifest = m }
}

// WithTitle sets the ledger page title.
func WithTitle(title string) Option {
	return func(a *Assembler) { a.title = title }
}

// WithFooter sets the ledger page footer. It may contain {page} and {pages}.
func WithFooter(footer string) Option {
	return func(a *Assembler) { a.footer = footer }
}

// WithLocale sets the locale used to format amounts.
func WithLocale(tag language.Tag) Option {
	return func(a *Assembler) { a.locale = tag }
}

// New returns an Assembler. Geometry and placement table default to the
// embedded CargoBloc layouts; both are validated here so that renders never
// fail on configuration.
func New(opts ...Option) (*Assembler, error) {
	chrome := compositor.DefaultChrome()
	a := &Assembler{
		logger: zap.NewNop(),
		now:    time.Now,
		title:  chrome.Title,
		footer: chrome.Footer,
		locale: language.English,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.geom == nil {
		g, err := layout.DefaultLedgerGeometry()
		if err != nil {
			return nil, err
		}
		a.geom = &g
	} else if err := a.geom.Validate(); err != nil {
		return nil, err
	}
	if a.manifest == nil {
		m, err := layout.DefaultManifest()
		if err != nil {
			return nil, err
		}
		a.manifest = m
	} else if err := a.manifest.Validate(); err != nil {
		return nil, err
	}

	a.merger = overlay.NewMerger(a.manifest,
		overlay.WithLogger(a.logger),
		overlay.WithStamp(a.stamp),
		overlay.WithClock(a.now))
	a.receipts = receipt.New(
		receipt.WithStamp(a.stamp),
		receipt.WithFormatter(cargodoc.NewAmountFormatter(a.locale)),
		receipt.WithLogger(a.logger),
		receipt.WithClock(a.now))
	return a, nil
}

// Geometry returns the ledger page geometry in use.
func (a *Assembler) Geometry() cargodoc.PageGeometry {
	return *a.geom
}

// ManifestLayout returns the placement table in use.
func (a *Assembler) ManifestLayout() *layout.Manifest {
	return a.manifest
}

// RenderReceipt writes the receipt for rec to w.
func (a *Assembler) RenderReceipt(w io.Writer, rec cargodoc.Receipt) (*receipt.Result, error) {
	res, err := a.receipts.Render(w, rec)
	if err != nil {
		a.logger.Error("receipt render failed", zap.String("receipt", rec.Number), zap.Error(err))
		return nil, err
	}
	a.logger.Info("receipt rendered", zap.String("receipt", rec.Number), zap.String("client", rec.ClientName))
	return res, nil
}

// RenderReceiptFile writes the receipt for rec to path.
func (a *Assembler) RenderReceiptFile(path string, rec cargodoc.Receipt) (*receipt.Result, error) {
	var res *receipt.Result
	err := cargodoc.WriteFile(path, func(w io.Writer) (err error) {
		res, err = a.RenderReceipt(w, rec)
		return err
	})
	return res, err
}
