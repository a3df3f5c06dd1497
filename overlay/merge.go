package overlay

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"
	"github.com/phpdave11/gofpdi"
	"go.uber.org/zap"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/asset"
	"github.com/cargobloc/cargodoc/layout"
)

// Used when a template page reports no MediaBox.
var fallbackPageSize = cargodoc.PageSizeA4

// Merger flattens composed plans onto template PDFs. A Merger holds only
// configuration and may be used by several goroutines at once.
type Merger struct {
	layout    *layout.Manifest
	stampPath string
	logger    *zap.Logger
	now       func() time.Time
	compress  bool
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger used to report degraded rendering.
func WithLogger(l *zap.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStamp sets the image drawn into the layout's stamp box.
func WithStamp(path string) Option {
	return func(m *Merger) { m.stampPath = path }
}

// WithClock sets the clock used for the document creation date.
func WithClock(now func() time.Time) Option {
	return func(m *Merger) {
		if now != nil {
			m.now = now
		}
	}
}

// WithCompression toggles compression of the overlay's page content.
func WithCompression(on bool) Option {
	return func(m *Merger) { m.compress = on }
}

// NewMerger returns a Merger placing fields according to l.
func NewMerger(l *layout.Manifest, opts ...Option) *Merger {
	m := &Merger{layout: l, logger: zap.NewNop(), now: time.Now, compress: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result describes a merged document.
type Result struct {
	Pages    int  // pages in the output, equal to the template's
	Plan     Plan // overlay flattened onto page 1
	Warnings []error
}

// Render merges rec onto the template at templatePath and writes the PDF to
// w. A missing template yields an error wrapping cargodoc.ErrTemplateMissing
// before anything is written.
func (m *Merger) Render(w io.Writer, rec cargodoc.ManifestRecord, templatePath string) (*Result, error) {
	pdf, res, err := m.build(rec, templatePath)
	if err != nil {
		return nil, err
	}
	if err := pdf.Output(w); err != nil {
		return nil, cargodoc.NewError("RenderManifest", templatePath, cargodoc.ErrRenderFailure, err)
	}
	return res, nil
}

// RenderFile merges rec onto the template and writes the PDF to outputPath.
// outputPath is only created once the whole document has been produced.
func (m *Merger) RenderFile(rec cargodoc.ManifestRecord, templatePath, outputPath string) (*Result, error) {
	pdf, res, err := m.build(rec, templatePath)
	if err != nil {
		return nil, err
	}
	if err := cargodoc.WriteFile(outputPath, pdf.Output); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *Merger) build(rec cargodoc.ManifestRecord, templatePath string) (*fpdf.Fpdf, *Result, error) {
	if err := checkTemplate(templatePath); err != nil {
		return nil, nil, err
	}

	pdf := cargodoc.NewDocument(
		cargodoc.WithCreationDate(m.now()),
		cargodoc.WithCompression(m.compress))
	tpl, err := importTemplate(pdf, templatePath)
	if err != nil {
		return nil, nil, err
	}
	pageCount := len(tpl.pages)

	first := tpl.pages[0]
	res := &Result{Pages: pageCount, Plan: Compose(rec, m.layout, first.w, first.h)}
	for i, p := range tpl.pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.w, Ht: p.h})
		tpl.use(pdf, p)
		if i == 0 {
			res.Warnings = m.flatten(cargodoc.NewCanvas(pdf), res.Plan)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, nil, cargodoc.NewError("RenderManifest", templatePath, cargodoc.ErrRenderFailure, err)
	}
	m.logger.Debug("manifest composed",
		zap.String("template", templatePath),
		zap.Int("pages", pageCount),
		zap.Int("lines", len(res.Plan.Lines)))
	return pdf, res, nil
}

// flatten draws p onto the current page.
func (m *Merger) flatten(c *cargodoc.Canvas, p Plan) []error {
	var warnings []error
	c.SetFont(p.Font)
	c.SetTextColor(cargodoc.RGBColor{})
	for _, l := range p.Lines {
		c.Text(l.X, l.Y, l.Text)
	}

	pdf := c.PDF()
	if b := p.Barcode; b != nil {
		key := barcode.RegisterCode128(pdf, b.Value)
		if pdf.Err() {
			err := cargodoc.NewError("Barcode", b.Value, cargodoc.ErrRenderFailure, pdf.Error())
			pdf.ClearError()
			m.logger.Warn("barcode skipped", zap.Error(err))
			warnings = append(warnings, err)
		} else {
			barcode.Barcode(pdf, key, b.Box.X, p.Height-b.Box.Y-b.Box.H, b.Box.W, b.Box.H, false)
		}
	}

	if s := p.Stamp; s != nil {
		img, err := asset.Load(m.stampPath)
		var name string
		if err == nil {
			name, err = img.Register(pdf)
		}
		if err != nil {
			m.logger.Warn("stamp unavailable, rendering without it",
				zap.String("path", m.stampPath), zap.Error(err))
			warnings = append(warnings, err)
		} else {
			c.Image(name, s.X, s.Y, s.W, s.H)
		}
	}
	c.Reset()
	return warnings
}

func checkTemplate(path string) error {
	fi, err := os.Stat(path)
	switch {
	case path == "":
		return cargodoc.NewError("RenderManifest", path, cargodoc.ErrTemplateMissing, errors.New("no template configured"))
	case errors.Is(err, fs.ErrNotExist):
		return cargodoc.NewError("RenderManifest", path, cargodoc.ErrTemplateMissing, nil)
	case err != nil:
		return cargodoc.NewError("RenderManifest", path, cargodoc.ErrTemplateMissing, err)
	case !fi.Mode().IsRegular():
		return cargodoc.NewError("RenderManifest", path, cargodoc.ErrTemplateMissing, errors.New("not a regular file"))
	}
	return nil
}

type templatePage struct {
	id   int
	w, h float64
}

// template is an imported PDF whose pages are ready to be drawn as form
// XObjects.
type template struct {
	imp   *gofpdi.Importer
	pages []templatePage
}

// importTemplate imports every page of sourceFile into pdf. All pages are
// imported before the form XObjects are written so each page is emitted
// once. The importer panics on malformed input; the panic is returned as an
// error wrapping cargodoc.ErrTemplateInvalid.
func importTemplate(pdf *fpdf.Fpdf, sourceFile string) (tpl *template, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cargodoc.NewError("ImportTemplate", sourceFile, cargodoc.ErrTemplateInvalid, fmt.Errorf("%v", r))
		}
	}()
	imp := gofpdi.NewImporter()
	imp.SetSourceFile(sourceFile)
	n := imp.GetNumPages()
	if n < 1 {
		return nil, cargodoc.NewError("ImportTemplate", sourceFile, cargodoc.ErrTemplateInvalid, errors.New("no pages"))
	}

	sizes := imp.GetPageSizes()
	tpl = &template{imp: imp, pages: make([]templatePage, n)}
	for i := range tpl.pages {
		p := templatePage{id: imp.ImportPage(i+1, "/MediaBox")}
		if mb, ok := sizes[i+1]["/MediaBox"]; ok {
			p.w, p.h = mb["w"], mb["h"]
		}
		if p.w == 0 || p.h == 0 {
			p.w, p.h = fallbackPageSize.Wd, fallbackPageSize.Ht
		}
		tpl.pages[i] = p
	}

	pdf.ImportTemplates(imp.PutFormXobjectsUnordered())
	pdf.ImportObjects(imp.GetImportedObjectsUnordered())
	pdf.ImportObjPos(imp.GetImportedObjHashPos())
	if pdf.Err() {
		return nil, cargodoc.NewError("ImportTemplate", sourceFile, cargodoc.ErrTemplateInvalid, pdf.Error())
	}
	return tpl, nil
}

// use draws p over the whole of the current page.
func (t *template) use(pdf *fpdf.Fpdf, p templatePage) {
	name, sx, sy, tx, ty := t.imp.UseTemplate(p.id, 0, 0, p.w, p.h)
	pdf.UseImportedTemplate(name, sx, sy, tx, ty)
}
