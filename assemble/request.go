package assemble

import (
	"fmt"
	"io"

	"github.com/cargobloc/cargodoc"
)

// DocumentKind selects what Render produces.
type DocumentKind int

const (
	Ledger DocumentKind = iota + 1
	FilteredLedger
	Manifest
	Receipt
)

func (k DocumentKind) String() string {
	switch k {
	case Ledger:
		return "ledger"
	case FilteredLedger:
		return "filtered-ledger"
	case Manifest:
		return "manifest"
	case Receipt:
		return "receipt"
	}
	return fmt.Sprintf("DocumentKind(%d)", int(k))
}

// Request describes one document. Only the fields of its Kind are used.
type Request struct {
	Kind DocumentKind

	Subject     cargodoc.ReportSubject // Ledger
	FilterLabel string                 // FilteredLedger
	Rows        []cargodoc.LedgerRow   // Ledger, FilteredLedger
	Manifest    cargodoc.ManifestRecord
	Receipt     cargodoc.Receipt
}

// Report summarises a document produced by Render.
type Report struct {
	Kind     DocumentKind
	Pages    int
	Warnings []error
}

// Render writes the document described by req to w.
func (a *Assembler) Render(w io.Writer, req Request) (*Report, error) {
	switch req.Kind {
	case Ledger, FilteredLedger:
		var (
			rep *LedgerReport
			err error
		)
		if req.Kind == Ledger {
			rep, err = a.RenderLedger(w, req.Subject, req.Rows)
		} else {
			rep, err = a.RenderFilteredLedger(w, req.FilterLabel, req.Rows)
		}
		if err != nil {
			return nil, err
		}
		return &Report{Kind: req.Kind, Pages: rep.Pages, Warnings: rep.Warnings}, nil
	case Manifest:
		rep, err := a.WriteManifest(w, req.Manifest)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: req.Kind, Pages: rep.Pages, Warnings: rep.Warnings}, nil
	case Receipt:
		res, err := a.RenderReceipt(w, req.Receipt)
		if err != nil {
			return nil, err
		}
		return &Report{Kind: req.Kind, Pages: 1, Warnings: res.Warnings}, nil
	}
	return nil, cargodoc.NewError("Render", "", cargodoc.ErrEmptyInput, fmt.Errorf("unknown document kind %v", req.Kind))
}
