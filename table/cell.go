package table

import (
	"github.com/cargobloc/cargodoc"
)

type rowKind int

const (
	headerRow rowKind = iota
	bodyRow
	totalsRow
)

// Column indexes of a ledger row.
const (
	colLabel = iota
	colTotal
	colPaid
	colUnpaid
	numCols
)

// DefaultHeaders are the column header labels of a ledger table.
var DefaultHeaders = [numCols]string{"BL Number", "Total", "Paid", "Unpaid"}

// CaptionLayout is the date layout of the date-range caption.
const CaptionLayout = "02 Jan 2006"

// columnX returns the x of the start of column i.
func (t *Table) columnX(i int) float64 {
	c := t.geom.Columns
	offset := [numCols]float64{c.Label, c.Total, c.Paid, c.Unpaid}[i]
	return t.geom.TableLeft() + offset
}

// labelWidth is the wrap limit of the label column.
func (t *Table) labelWidth() float64 {
	w := t.columnX(colTotal) - t.columnX(colLabel) - 3*t.style.CellPadding
	if w < 1 {
		w = 1
	}
	return w
}

// rowCells returns the texts of a body row.
func (t *Table) rowCells(r cargodoc.LedgerRow) [numCols]string {
	return [numCols]string{
		r.Label,
		t.amounts.Format(r.Total),
		t.amounts.Format(r.Paid),
		t.amounts.Format(r.Unpaid()),
	}
}

// totalsCells returns the texts of the totals row.
func (t *Table) totalsCells(s Totals) [numCols]string {
	return [numCols]string{
		"Totals",
		t.amounts.Format(s.Total),
		t.amounts.Format(s.Paid),
		t.amounts.Format(s.Unpaid),
	}
}

// dateRange returns the earliest and latest creation time among rows,
// ignoring rows without one.
func dateRange(rows []cargodoc.LedgerRow) *DateRange {
	var dr *DateRange
	for _, r := range rows {
		if r.CreatedAt.IsZero() {
			continue
		}
		if dr == nil {
			dr = &DateRange{First: r.CreatedAt, Last: r.CreatedAt}
			continue
		}
		if r.CreatedAt.Before(dr.First) {
			dr.First = r.CreatedAt
		}
		if r.CreatedAt.After(dr.Last) {
			dr.Last = r.CreatedAt
		}
	}
	return dr
}

// Caption returns the caption text for the range.
func (dr DateRange) Caption() string {
	return "Entries created between " + dr.First.Format(CaptionLayout) + " and " + dr.Last.Format(CaptionLayout)
}
