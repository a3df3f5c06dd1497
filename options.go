package cargodoc

import (
	"time"

	"github.com/go-pdf/fpdf"
)

// Option is a functional option for configuring a new PDF document via NewDocument.
type Option func(*documentConfig)

type documentConfig struct {
	orientation string
	pageSize    fpdf.SizeType
	title       string
	author      string
	created     time.Time
	compress    bool
}

// Page sizes in points.
var (
	PageSizeA4 = fpdf.SizeType{Wd: 595.28, Ht: 841.89}
	// PageSizeReceipt is 200 mm x 100 mm.
	PageSizeReceipt = fpdf.SizeType{Wd: 566.93, Ht: 283.46}
)

// WithOrientation sets the default page orientation, "P" or "L".
func WithOrientation(orientation string) Option {
	return func(c *documentConfig) {
		c.orientation = orientation
	}
}

// WithPageSizeCustom sets the default page size in points.
func WithPageSizeCustom(width, height float64) Option {
	return func(c *documentConfig) {
		c.pageSize = fpdf.SizeType{Wd: width, Ht: height}
	}
}

// WithTitle sets the document title metadata.
func WithTitle(title string) Option {
	return func(c *documentConfig) {
		c.title = title
	}
}

// WithAuthor sets the document author metadata.
func WithAuthor(author string) Option {
	return func(c *documentConfig) {
		c.author = author
	}
}

// WithCreationDate pins the creation date written into the document. With a
// fixed date the output bytes depend only on the drawn content.
func WithCreationDate(t time.Time) Option {
	return func(c *documentConfig) {
		c.created = t
	}
}

// WithCompression toggles stream compression (on by default).
func WithCompression(on bool) Option {
	return func(c *documentConfig) {
		c.compress = on
	}
}

// NewDocument creates a new PDF document measured in points, with no
// automatic page breaks and zero margins: every page break and every
// coordinate is decided by the caller. If no options are specified the
// document is portrait A4.
//
// Example:
//
//	pdf := cargodoc.NewDocument(
//	    cargodoc.WithPageSizeCustom(cargodoc.PageSizeReceipt.Wd, cargodoc.PageSizeReceipt.Ht),
//	    cargodoc.WithTitle("Receipt"),
//	)
func NewDocument(opts ...Option) *fpdf.Fpdf {
	cfg := &documentConfig{
		orientation: "P",
		pageSize:    PageSizeA4,
		compress:    true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: cfg.orientation,
		UnitStr:        "pt",
		Size:           cfg.pageSize,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(cfg.compress)
	pdf.SetCreator("cargodoc", true)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
		pdf.SetModificationDate(cfg.created)
	}
	return pdf
}
