package table_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/compositor"
	"github.com/cargobloc/cargodoc/layout"
	"github.com/cargobloc/cargodoc/table"
)

// scenarioGeometry leaves 500pt of usable height per page: a 20pt header and
// room for 24 rows of 20pt.
func scenarioGeometry() cargodoc.PageGeometry {
	return cargodoc.PageGeometry{
		Width:        595.28,
		Height:       700,
		TopMargin:    100,
		BottomMargin: 100,
		LeftMargin:   60,
		RightMargin:  60,
		RowHeight:    20,
		Columns:      cargodoc.Columns{Label: 0, Total: 220, Paid: 320, Unpaid: 400},
		AmountWidth:  60,
		TitleOffset:  30,
		FooterY:      40,
		CaptionGap:   12,
	}
}

func newTable(t *testing.T, geom cargodoc.PageGeometry, chrome compositor.Chrome) (*table.Table, *compositor.Compositor, *cargodoc.Canvas) {
	t.Helper()
	require.NoError(t, geom.Validate())
	canvas := cargodoc.NewCanvas(cargodoc.NewDocument(cargodoc.WithCompression(false)))
	comp := compositor.New(canvas, geom, chrome)
	return table.New(canvas, comp, geom), comp, canvas
}

func rows(n int) []cargodoc.LedgerRow {
	out := make([]cargodoc.LedgerRow, n)
	for i := range out {
		out[i] = cargodoc.LedgerRow{
			Label: fmt.Sprintf("CBL-%04d", i+1),
			Total: decimal.NewFromInt(int64(100 + i)),
			Paid:  decimal.NewFromInt(int64(i)),
		}
	}
	return out
}

func TestScenarioTwoPages(t *testing.T) {
	tb, _, canvas := newTable(t, scenarioGeometry(), compositor.DefaultChrome())

	res, err := tb.Render(rows(25))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, canvas.PDF().PageCount())
	assert.Equal(t, []int{1, 2}, res.HeaderPages)
	require.Len(t, res.Rows, 25)
	for i, p := range res.Rows[:24] {
		assert.Equal(t, 1, p.Page, "row %d", i)
	}
	last := res.Rows[24]
	assert.Equal(t, 2, last.Page)
	assert.Equal(t, 580.0, last.Top, "first row on page 2 sits below the redrawn header")
	assert.Equal(t, 2, res.TotalsRow.Page)
	assert.LessOrEqual(t, res.TotalsRow.Top, last.Bottom)
}

func TestSumPreservation(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 7))
	for iter := 0; iter < 20; iter++ {
		n := r.IntN(80)
		in := make([]cargodoc.LedgerRow, n)
		wantTotal, wantPaid := decimal.Zero, decimal.Zero
		for i := range in {
			total := decimal.New(r.Int64N(10_000_000), -2)
			paid := decimal.New(r.Int64N(10_000_000), -2)
			in[i] = cargodoc.LedgerRow{Label: fmt.Sprintf("R%d", i), Total: total, Paid: paid}
			wantTotal = wantTotal.Add(total)
			wantPaid = wantPaid.Add(paid)
		}

		tb, _, _ := newTable(t, scenarioGeometry(), compositor.Chrome{})
		res, err := tb.Render(in)
		require.NoError(t, err)
		assert.True(t, wantTotal.Equal(res.Totals.Total), "total %s != %s", res.Totals.Total, wantTotal)
		assert.True(t, wantPaid.Equal(res.Totals.Paid))
		assert.True(t, wantTotal.Sub(wantPaid).Equal(res.Totals.Unpaid))
	}
}

func TestSumsAreExact(t *testing.T) {
	in := make([]cargodoc.LedgerRow, 10)
	for i := range in {
		in[i] = cargodoc.LedgerRow{Label: "x", Total: decimal.RequireFromString("0.10"), Paid: decimal.RequireFromString("0.20")}
	}
	tb, _, _ := newTable(t, scenarioGeometry(), compositor.Chrome{})
	res, err := tb.Render(in)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Totals.Total.String())
	assert.Equal(t, "2", res.Totals.Paid.String())
	assert.Equal(t, "-1", res.Totals.Unpaid.String(), "the totals row is total minus paid")
}

func TestNoRowSplitting(t *testing.T) {
	geom := scenarioGeometry()
	in := rows(120)
	// Long labels wrap to several lines and make rows of uneven height.
	for i := range in {
		if i%7 == 0 {
			in[i].Label = strings.Repeat("consolidated cargo for many consignees ", 1+i%4)
		}
	}
	tb, _, _ := newTable(t, geom, compositor.Chrome{})
	res, err := tb.Render(in)
	require.NoError(t, err)

	for _, p := range append(res.Rows, res.TotalsRow) {
		assert.GreaterOrEqual(t, p.Bottom, geom.BottomMargin, "row %d on page %d", p.Index, p.Page)
		assert.LessOrEqual(t, p.Top, geom.ContentTop()-geom.HeaderHeight(), "row %d", p.Index)
		assert.Greater(t, p.Top, p.Bottom)
	}
	for i := 1; i < len(res.Rows); i++ {
		prev, cur := res.Rows[i-1], res.Rows[i]
		if prev.Page == cur.Page {
			assert.Equal(t, prev.Bottom, cur.Top, "rows %d and %d", i-1, i)
		} else {
			assert.Equal(t, prev.Page+1, cur.Page)
		}
	}
	assert.Len(t, res.HeaderPages, res.Pages)
}

func TestEmptyInput(t *testing.T) {
	tb, _, _ := newTable(t, scenarioGeometry(), compositor.DefaultChrome())
	res, err := tb.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Empty(t, res.Rows)
	assert.True(t, res.Totals.Total.IsZero())
	assert.True(t, res.Totals.Paid.IsZero())
	assert.True(t, res.Totals.Unpaid.IsZero())
	assert.Nil(t, res.DateRange)
	assert.Equal(t, 1, res.TotalsRow.Page)
}

func TestTotalsBreakRedrawsHeader(t *testing.T) {
	// 24 rows fill page 1 exactly, so the totals row moves to page 2.
	tb, _, _ := newTable(t, scenarioGeometry(), compositor.Chrome{})
	res, err := tb.Render(rows(24))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []int{1, 2}, res.HeaderPages)
	assert.Equal(t, 2, res.TotalsRow.Page)
	assert.Equal(t, 580.0, res.TotalsRow.Top)
}

// writeLetterhead writes a small grey PNG and returns its path.
func writeLetterhead(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letterhead.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	m := image.NewGray(image.Rect(0, 0, 21, 29))
	for i := range m.Pix {
		m.Pix[i] = 230
	}
	require.NoError(t, png.Encode(f, m))
	return path
}

func TestLetterheadDoesNotMoveRows(t *testing.T) {
	geom, err := layout.DefaultLedgerGeometry()
	require.NoError(t, err)
	subject := cargodoc.ClientSubject("Kofi Mensah", "kofi@example.com", "")

	present := compositor.DefaultChrome()
	present.LetterheadPath = writeLetterhead(t)
	tbA, compA, _ := newTable(t, geom, present)
	tbA.SetSubject(subject)
	a, err := tbA.Render(rows(40))
	require.NoError(t, err)
	assert.Empty(t, compA.Warnings())

	missing := compositor.DefaultChrome()
	missing.LetterheadPath = filepath.Join(t.TempDir(), "missing.png")
	tbB, compB, _ := newTable(t, geom, missing)
	tbB.SetSubject(subject)
	b, err := tbB.Render(rows(40))
	require.NoError(t, err)
	require.Len(t, compB.Warnings(), 1)
	assert.ErrorIs(t, compB.Warnings()[0], cargodoc.ErrAssetMissing)

	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.TotalsRow, b.TotalsRow)
	assert.Equal(t, a.Pages, b.Pages)
}

func TestSubjectBlockShortensFirstPage(t *testing.T) {
	geom := scenarioGeometry()
	geom.SubjectBlockHeight = 60
	tb, _, _ := newTable(t, geom, compositor.Chrome{})
	tb.SetSubject(cargodoc.FilteredSubject(""))
	res, err := tb.Render(rows(25))
	require.NoError(t, err)

	onFirst := 0
	for _, p := range res.Rows {
		if p.Page == 1 {
			onFirst++
		}
	}
	assert.Equal(t, 21, onFirst)
	assert.Equal(t, 520.0, res.Rows[0].Top)
}

func TestSubjectDrawnWithoutBlockHeight(t *testing.T) {
	geom := scenarioGeometry()
	require.Zero(t, geom.SubjectBlockHeight)
	tb, _, canvas := newTable(t, geom, compositor.Chrome{})
	tb.SetSubject(cargodoc.ClientSubject("Ama Owusu", "ama@example.com", ""))
	res, err := tb.Render(rows(2))
	require.NoError(t, err)
	assert.Equal(t, 520.0, res.Rows[0].Top, "the subject block takes its default height")

	var out bytes.Buffer
	require.NoError(t, canvas.PDF().Output(&out))
	for _, want := range []string{"Client: Ama Owusu", "Email: ama@example.com", "Phone: -"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestDrawnContent(t *testing.T) {
	in := []cargodoc.LedgerRow{
		{Label: "CBL-0001", Total: decimal.RequireFromString("12345.6"), Paid: decimal.RequireFromString("345.6"),
			CreatedAt: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)},
		{Label: "CBL-0002", Total: decimal.NewFromInt(50), Paid: decimal.NewFromInt(80),
			CreatedAt: time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)},
		{Label: "CBL-0003", Total: decimal.NewFromInt(10), Paid: decimal.Zero},
	}
	tb, _, canvas := newTable(t, scenarioGeometry(), compositor.Chrome{})
	tb.SetHeaders("Bill of Lading", "Billed", "Settled", "Due")
	tb.SetSubject(cargodoc.ClientSubject("Ama Owusu", "", "+233 20 000 0000"))
	res, err := tb.Render(in)
	require.NoError(t, err)

	require.NotNil(t, res.DateRange)
	assert.Equal(t, "Entries created between 03 Jan 2025 and 14 Feb 2025", res.DateRange.Caption())

	var out bytes.Buffer
	require.NoError(t, canvas.PDF().Output(&out))
	pdf := out.String()
	for _, want := range []string{
		"Bill of Lading", "Settled", "CBL-0002",
		"12,345.60", "12,000.00", "0.00", "12,405.60", "Totals",
		"Entries created between 03 Jan 2025 and 14 Feb 2025",
		"Client: Ama Owusu", "Email: -", "Phone: +233 20 000 0000",
	} {
		assert.Contains(t, pdf, want)
	}
}

func ExampleTable_Render() {
	geom, _ := layout.DefaultLedgerGeometry()
	canvas := cargodoc.NewCanvas(cargodoc.NewDocument())
	comp := compositor.New(canvas, geom, compositor.DefaultChrome())

	tb := table.New(canvas, comp, geom).
		SetSubject(cargodoc.ClientSubject("Kwame Asante", "kwame@example.com", "0244000000"))
	res, err := tb.Render([]cargodoc.LedgerRow{
		{Label: "CBL-0101", Total: decimal.NewFromInt(1500), Paid: decimal.NewFromInt(500)},
		{Label: "CBL-0102", Total: decimal.NewFromInt(800), Paid: decimal.NewFromInt(800)},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Pages, res.Totals.Total, res.Totals.Unpaid)
	// Output: 1 2300 1000
}
