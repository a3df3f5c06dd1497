package assemble

import (
	"io"

	"go.uber.org/zap"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/compositor"
	"github.com/cargobloc/cargodoc/table"
)

// LedgerReport describes a rendered ledger.
type LedgerReport struct {
	Subject   cargodoc.ReportSubject
	Pages     int
	Totals    table.Totals
	DateRange *table.DateRange
	Rows      []table.Placement
	Warnings  []error // non-fatal problems, such as a missing letterhead
}

// RenderLedger writes the ledger of rows for subject to w. Rows are drawn in
// the order given. An empty rows renders a header and a zero totals row.
func (a *Assembler) RenderLedger(w io.Writer, subject cargodoc.ReportSubject, rows []cargodoc.LedgerRow) (*LedgerReport, error) {
	now := a.now()
	title := a.title
	if subject.Name != "" {
		title += " - " + subject.Name
	}
	pdf := cargodoc.NewDocument(
		cargodoc.WithPageSizeCustom(a.geom.Width, a.geom.Height),
		cargodoc.WithTitle(title),
		cargodoc.WithCreationDate(now),
	)
	canvas := cargodoc.NewCanvas(pdf)

	chrome := compositor.DefaultChrome()
	chrome.Title = a.title
	chrome.Footer = a.footer
	chrome.LetterheadPath = a.letterhead
	chrome.GeneratedAt = now
	comp := compositor.New(canvas, *a.geom, chrome, compositor.WithLogger(a.logger))

	res, err := table.New(canvas, comp, *a.geom).
		SetSubject(subject).
		SetFormatter(cargodoc.NewAmountFormatter(a.locale)).
		Render(rows)
	if err != nil {
		a.logger.Error("ledger render failed", zap.String("subject", subject.Name), zap.Error(err))
		return nil, err
	}
	if err := pdf.Output(w); err != nil {
		return nil, cargodoc.NewError("RenderLedger", "", cargodoc.ErrWriteFailure, err)
	}

	a.logger.Info("ledger rendered",
		zap.String("subject", subject.Name),
		zap.Int("rows", len(rows)),
		zap.Int("pages", res.Pages),
		zap.Stringer("total", res.Totals.Total),
		zap.Stringer("unpaid", res.Totals.Unpaid))
	return &LedgerReport{
		Subject:   subject,
		Pages:     res.Pages,
		Totals:    res.Totals,
		DateRange: res.DateRange,
		Rows:      res.Rows,
		Warnings:  comp.Warnings(),
	}, nil
}

// RenderLedgerFile is RenderLedger writing to path. The file is only created
// once the document is complete.
func (a *Assembler) RenderLedgerFile(path string, subject cargodoc.ReportSubject, rows []cargodoc.LedgerRow) (*LedgerReport, error) {
	var rep *LedgerReport
	err := cargodoc.WriteFile(path, func(w io.Writer) (err error) {
		rep, err = a.RenderLedger(w, subject, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// RenderFilteredLedger writes a cross-client ledger, such as every BL created
// on one day, under the subject "Filtered BLs (<label>)". Unlike RenderLedger
// it refuses an empty rows with cargodoc.ErrEmptyInput.
func (a *Assembler) RenderFilteredLedger(w io.Writer, label string, rows []cargodoc.LedgerRow) (*LedgerReport, error) {
	if len(rows) == 0 {
		return nil, cargodoc.NewError("RenderFilteredLedger", "", cargodoc.ErrEmptyInput, nil)
	}
	return a.RenderLedger(w, cargodoc.FilteredSubject(label), rows)
}
