package table

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/wrap"
)

// Pager begins pages and reports the vertical space left on the current one.
type Pager interface {
	BeginPage() error
	ContentTop() float64
	RemainingHeight(cursorY float64) float64
	PageNo() int
}

// Totals are the sums of a ledger. Unpaid is Total minus Paid.
type Totals struct {
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Unpaid decimal.Decimal
}

// DateRange is the span of the rows' creation times.
type DateRange struct {
	First time.Time
	Last  time.Time
}

// Placement records where a row was drawn. Top and Bottom are in points
// from the bottom of the page.
type Placement struct {
	Index  int // index in the input, -1 for the totals row
	Page   int // 1-based
	Top    float64
	Bottom float64
}

// Result describes a rendered table.
type Result struct {
	Pages       int
	HeaderPages []int       // pages on which the column header was drawn
	Rows        []Placement // one per input row, in input order
	TotalsRow   Placement
	Totals      Totals
	DateRange   *DateRange // nil when no row has a creation time
}

// Table lays out ledger rows on the pages of a Pager.
type Table struct {
	canvas  *cargodoc.Canvas
	pager   Pager
	geom    cargodoc.PageGeometry
	headers [numCols]string
	style   TableStyle
	subject *cargodoc.ReportSubject
	amounts *cargodoc.AmountFormatter
}

// New creates a table drawing on canvas, with pages begun by pager.
func New(canvas *cargodoc.Canvas, pager Pager, geom cargodoc.PageGeometry) *Table {
	return &Table{
		canvas:  canvas,
		pager:   pager,
		geom:    geom,
		headers: DefaultHeaders,
		style:   DefaultStyle(),
		amounts: cargodoc.NewAmountFormatter(language.English),
	}
}

// SetHeaders sets the column header labels.
func (t *Table) SetHeaders(label, total, paid, unpaid string) *Table {
	t.headers = [numCols]string{label, total, paid, unpaid}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// SetSubject sets the identity printed above the table on the first page.
func (t *Table) SetSubject(s cargodoc.ReportSubject) *Table {
	t.subject = &s
	return t
}

// SetFormatter sets the amount formatter.
func (t *Table) SetFormatter(f *cargodoc.AmountFormatter) *Table {
	if f != nil {
		t.amounts = f
	}
	return t
}

// Render draws rows in order, beginning pages as needed, followed by the
// totals row and, when any row has a creation time, the date-range caption.
// An empty rows renders the header and a zero totals row.
func (t *Table) Render(rows []cargodoc.LedgerRow) (*Result, error) {
	res := &Result{}
	if err := t.pager.BeginPage(); err != nil {
		return nil, err
	}
	y := t.pager.ContentTop()
	if t.subject != nil {
		y = t.drawSubject(y)
	}
	y = t.drawHeader(y, res)

	var total, paid decimal.Decimal
	onPage := 0
	for i, row := range rows {
		lines := wrap.Lines(row.Label, t.labelWidth(), t.labelMeasurer())
		h := t.rowHeight(len(lines))
		// A row taller than a whole page is drawn where it is rather than
		// breaking forever.
		if t.pager.RemainingHeight(y) < h && (onPage > 0 || t.pager.PageNo() == 1) {
			var err error
			if y, err = t.breakPage(res); err != nil {
				return nil, err
			}
			onPage = 0
		}
		t.drawRow(bodyRow, t.rowCells(row), lines, i, y, h)
		res.Rows = append(res.Rows, Placement{Index: i, Page: t.pager.PageNo(), Top: y, Bottom: y - h})
		total = total.Add(row.Total)
		paid = paid.Add(row.Paid)
		y -= h
		onPage++
	}

	h := t.geom.RowHeight
	if t.pager.RemainingHeight(y) < h {
		var err error
		if y, err = t.breakPage(res); err != nil {
			return nil, err
		}
	}
	res.Totals = Totals{Total: total, Paid: paid, Unpaid: total.Sub(paid)}
	cells := t.totalsCells(res.Totals)
	t.drawRow(totalsRow, cells, []string{cells[colLabel]}, -1, y, h)
	res.TotalsRow = Placement{Index: -1, Page: t.pager.PageNo(), Top: y, Bottom: y - h}
	y -= h

	if dr := dateRange(rows); dr != nil {
		res.DateRange = dr
		t.drawCaption(dr.Caption(), y-t.geom.CaptionGap)
	}
	t.canvas.Reset()

	res.Pages = t.pager.PageNo()
	if err := t.canvas.Err(); err != nil {
		return nil, cargodoc.NewError("RenderTable", "", cargodoc.ErrRenderFailure, err)
	}
	return res, nil
}

// breakPage begins a new page and redraws the column header, returning the
// cursor below it.
func (t *Table) breakPage(res *Result) (float64, error) {
	if err := t.pager.BeginPage(); err != nil {
		return 0, err
	}
	return t.drawHeader(t.pager.ContentTop(), res), nil
}

func (t *Table) labelMeasurer() wrap.Measurer {
	font := t.style.CellFont
	return wrap.MeasureFunc(func(s string) float64 {
		t.canvas.SetFont(font)
		return t.canvas.StringWidth(s)
	})
}

func (t *Table) lineHeight() float64 {
	return t.style.CellFont.Size * 1.2
}

// rowHeight computes the height of a body row whose label wraps to n lines.
func (t *Table) rowHeight(n int) float64 {
	if n <= 1 {
		return t.geom.RowHeight
	}
	return t.geom.RowHeight + float64(n-1)*t.lineHeight()
}

// baseline returns the baseline of the first text line of a row whose top
// is at top.
func (t *Table) baseline(top float64, font cargodoc.FontSpec) float64 {
	return top - t.geom.RowHeight + (t.geom.RowHeight-font.Size)/2 + 1
}

// subjectLineStep is the spacing of the subject block's lines when the
// geometry leaves the block height unset.
const subjectLineStep = 15

// drawSubject draws the client identity below top and returns the cursor
// below the block.
func (t *Table) drawSubject(top float64) float64 {
	h := t.geom.SubjectBlockHeight
	if h <= 0 {
		h = 4 * subjectLineStep
	}
	step := h / 4
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	x := t.geom.TableLeft()
	t.canvas.SetTextColor(cargodoc.RGBColor{})
	if t.style.SubjectStyle != nil && t.style.SubjectStyle.Font != nil {
		t.canvas.SetFont(*t.style.SubjectStyle.Font)
	} else {
		t.canvas.SetFont(t.style.CellFont)
	}
	t.canvas.Text(x, top-step, "Client: "+t.subject.Name)
	t.canvas.SetFont(t.style.CellFont)
	t.canvas.Text(x, top-2*step, "Email: "+dash(t.subject.Email))
	t.canvas.Text(x, top-3*step, "Phone: "+dash(t.subject.Phone))
	return top - h
}

// drawHeader draws the column header row with its top at y and returns the
// cursor below it.
func (t *Table) drawHeader(y float64, res *Result) float64 {
	h := t.geom.HeaderHeight()
	t.drawRow(headerRow, t.headers, []string{t.headers[colLabel]}, -1, y, h)
	if r := t.style.HeaderRule; r != nil {
		t.canvas.SetStrokeColor(r.Color)
		t.canvas.SetLineWidth(r.Width)
		t.canvas.Line(t.geom.TableLeft(), y-h-1, t.geom.TableRight(), y-h-1)
	}
	res.HeaderPages = append(res.HeaderPages, t.pager.PageNo())
	return y - h
}

// drawRow draws one row with its top at top and height h. Label lines are
// drawn left-aligned from the top; the other cells share the first line's
// baseline, right-aligned in their column slot except on the header row.
func (t *Table) drawRow(kind rowKind, cells [numCols]string, labelLines []string, bodyIdx int, top, h float64) {
	style := t.style.resolve(kind, bodyIdx)
	left, right := t.geom.TableLeft(), t.geom.TableRight()
	pad := t.style.CellPadding

	if style.FillColor != nil {
		t.canvas.SetFillColor(*style.FillColor)
		t.canvas.FillRect(left, top-h, right-left, h)
	}
	font := *style.Font
	t.canvas.SetFont(font)
	if style.TextColor != nil {
		t.canvas.SetTextColor(*style.TextColor)
	} else {
		t.canvas.SetTextColor(cargodoc.RGBColor{})
	}

	base := t.baseline(top, font)
	for i, line := range labelLines {
		t.canvas.Text(t.columnX(colLabel)+pad, base-float64(i)*t.lineHeight(), line)
	}
	for c := colTotal; c < numCols; c++ {
		if kind == headerRow {
			t.canvas.Text(t.columnX(c)+pad, base, cells[c])
			continue
		}
		t.canvas.TextRight(t.columnX(c)+t.geom.AmountWidth, base, cells[c])
	}

	if kind == headerRow {
		return
	}
	if d := t.style.RowDivider; d != nil && kind == bodyRow {
		t.canvas.SetStrokeColor(d.Color)
		t.canvas.SetLineWidth(d.Width)
		t.canvas.Line(left, top-h, right, top-h)
	}
	if d := t.style.ColumnDivider; d != nil {
		t.canvas.SetStrokeColor(d.Color)
		t.canvas.SetLineWidth(d.Width)
		for c := colTotal; c < numCols; c++ {
			x := t.columnX(c) - 2*pad
			t.canvas.Line(x, top-h, x, top)
		}
		t.canvas.Line(right, top-h, right, top)
	}
}

func (t *Table) drawCaption(text string, y float64) {
	font := cargodoc.FontSpec{Family: t.style.CellFont.Family, Style: "I", Size: 7}
	color := cargodoc.Gray(191)
	if s := t.style.CaptionStyle; s != nil {
		if s.Font != nil {
			font = *s.Font
		}
		if s.TextColor != nil {
			color = *s.TextColor
		}
	}
	t.canvas.SetFont(font)
	t.canvas.SetTextColor(color)
	t.canvas.Text(t.geom.TableLeft()+t.style.CellPadding, y, text)
}
