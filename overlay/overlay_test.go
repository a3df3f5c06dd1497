package overlay_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/phpdave11/gofpdi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/layout"
	"github.com/cargobloc/cargodoc/overlay"
)

var fixedClock = func() time.Time { return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC) }

// writeTemplate creates a blank form with the given number of pages.
func writeTemplate(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "house_bl.pdf")
	pdf := cargodoc.NewDocument()
	pdf.SetFont("Helvetica", "B", 14)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 40, fmt.Sprintf("HOUSE BILL OF LADING - page %d", i))
	}
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	imp := gofpdi.NewImporter()
	imp.SetSourceFile(path)
	return imp.GetNumPages()
}

// textOps returns the text-showing lines of the uncompressed page content
// in doc, in order.
func textOps(doc []byte) []string {
	var ops []string
	for _, line := range strings.Split(string(doc), "\n") {
		if strings.Contains(line, ") Tj") {
			ops = append(ops, line)
		}
	}
	return ops
}

func defaultLayout(t *testing.T) *layout.Manifest {
	t.Helper()
	m, err := layout.DefaultManifest()
	require.NoError(t, err)
	return m
}

func sampleRecord() cargodoc.ManifestRecord {
	return cargodoc.ManifestRecord{
		Exporter:         "Guangzhou Sunrise Trading Co. Ltd, No. 18 Huangpu Avenue West, Tianhe District, Guangzhou, China",
		BLNumber:         "CBL-2025-0042",
		Consignee:        "Kwame Asante Enterprises, Kantamanto Market, Accra",
		Vessel:           "MSC Accra",
		Voyage:           "NV512R",
		PortLoading:      "Nansha",
		PortDischarge:    "Tema",
		Packages:         "12 PLTS",
		DescriptionGoods: "Assorted household electricals and kitchen appliances",
		GrossWeight:      "4,310 KG",
	}
}

func TestComposeWrapsAndDescends(t *testing.T) {
	m := defaultLayout(t)
	p := overlay.Compose(sampleRecord(), m, 595.28, 841.89)

	var exporter []overlay.Line
	for _, l := range p.Lines {
		if l.Field == cargodoc.FieldExporter {
			exporter = append(exporter, l)
		}
	}
	require.Len(t, exporter, 2)
	assert.Equal(t, overlay.Line{Field: cargodoc.FieldExporter, X: 40, Y: 640,
		Text: "Guangzhou Sunrise Trading Co. Ltd, No. 18 Huangpu Avenue"}, exporter[0])
	assert.Equal(t, 631.0, exporter[1].Y)
	assert.Equal(t, "West, Tianhe District, Guangzhou, China", exporter[1].Text)
	for _, l := range p.Lines {
		fp, ok := m.Placement(l.Field)
		require.True(t, ok)
		assert.LessOrEqual(t, len(l.Text), fp.Width, "%s: %q", l.Field, l.Text)
	}
}

func TestComposeSkipsAbsentFields(t *testing.T) {
	rec := cargodoc.ManifestRecord{BLNumber: "CBL-1", NotifyParty: "   ", GrossWeight: "10 KG"}
	p := overlay.Compose(rec, defaultLayout(t), 595.28, 841.89)
	assert.Equal(t, []cargodoc.Field{cargodoc.FieldBLNumber, cargodoc.FieldGrossWeight}, p.Fields())
	assert.Nil(t, p.Barcode, "the default layout has no barcode box")
}

func TestComposeBarcode(t *testing.T) {
	m := defaultLayout(t)
	m.Barcode = &cargodoc.Box{X: 420, Y: 700, W: 150, H: 24}

	p := overlay.Compose(sampleRecord(), m, 595.28, 841.89)
	require.NotNil(t, p.Barcode)
	assert.Equal(t, "CBL-2025-0042", p.Barcode.Value)

	p = overlay.Compose(cargodoc.ManifestRecord{BLNumber: "CBL-№1"}, m, 595.28, 841.89)
	assert.Nil(t, p.Barcode)
}

func TestComposeIsDeterministic(t *testing.T) {
	m := defaultLayout(t)
	a := overlay.Compose(sampleRecord(), m, 595.28, 841.89)
	b := overlay.Compose(sampleRecord(), m, 595.28, 841.89)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
}

func TestRenderFile(t *testing.T) {
	tpl := writeTemplate(t, 3)
	out := filepath.Join(t.TempDir(), "manifest.pdf")
	m := overlay.NewMerger(defaultLayout(t), overlay.WithClock(fixedClock))

	res, err := m.RenderFile(sampleRecord(), tpl, out)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 595.28, res.Plan.Width)
	assert.Equal(t, 3, pageCount(t, out))

	doc, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(doc, []byte("/Subtype /Form")), "one form XObject per template page")
}

func TestRenderIsIdempotent(t *testing.T) {
	tpl := writeTemplate(t, 2)
	m := overlay.NewMerger(defaultLayout(t), overlay.WithClock(fixedClock))

	var first, second bytes.Buffer
	a, err := m.Render(&first, sampleRecord(), tpl)
	require.NoError(t, err)
	b, err := m.Render(&second, sampleRecord(), tpl)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
	assert.True(t, bytes.HasPrefix(first.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(second.Bytes(), []byte("%PDF-")))
}

func TestRenderPlacesTextIdentically(t *testing.T) {
	tpl := writeTemplate(t, 2)
	m := overlay.NewMerger(defaultLayout(t),
		overlay.WithClock(fixedClock),
		overlay.WithCompression(false))

	var first, second bytes.Buffer
	_, err := m.Render(&first, sampleRecord(), tpl)
	require.NoError(t, err)
	_, err = m.Render(&second, sampleRecord(), tpl)
	require.NoError(t, err)

	a, b := textOps(first.Bytes()), textOps(second.Bytes())
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)

	var exporter int
	for _, op := range a {
		if strings.Contains(op, "(Guangzhou Sunrise Trading Co. Ltd, No. 18 Huangpu Avenue) Tj") {
			exporter++
		}
	}
	assert.Equal(t, 1, exporter, "the exporter's first line is drawn once, on page 1 only")
}

func TestTemplateMissing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "manifest.pdf")
	m := overlay.NewMerger(defaultLayout(t))

	_, err := m.RenderFile(sampleRecord(), filepath.Join(dir, "nope.pdf"), out)
	require.Error(t, err)
	assert.ErrorIs(t, err, cargodoc.ErrTemplateMissing)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temporary file is left behind")

	var buf bytes.Buffer
	_, err = m.Render(&buf, sampleRecord(), "")
	assert.Equal(t, cargodoc.KindTemplateMissing, cargodoc.KindOf(err))
	assert.Zero(t, buf.Len())
}

func TestTemplateInvalid(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(tpl, []byte("this is not a pdf"), 0o644))
	out := filepath.Join(dir, "manifest.pdf")

	_, err := overlay.NewMerger(defaultLayout(t)).RenderFile(sampleRecord(), tpl, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, cargodoc.ErrTemplateInvalid)
	assert.NoFileExists(t, out)
}

func TestMissingStampIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := defaultLayout(t)
	l.Stamp = &cargodoc.Box{X: 450, Y: 100, W: 80, H: 80}
	m := overlay.NewMerger(l,
		overlay.WithLogger(zap.New(core)),
		overlay.WithStamp(filepath.Join(t.TempDir(), "paid_stamp.png")))

	var buf bytes.Buffer
	res, err := m.Render(&buf, sampleRecord(), writeTemplate(t, 1))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], cargodoc.ErrAssetMissing)
	assert.Equal(t, 1, logs.FilterMessage("stamp unavailable, rendering without it").Len())
	assert.NotZero(t, buf.Len())
}

func TestRenderWithBarcode(t *testing.T) {
	l := defaultLayout(t)
	l.Barcode = &cargodoc.Box{X: 420, Y: 700, W: 150, H: 24}
	var buf bytes.Buffer
	res, err := overlay.NewMerger(l).Render(&buf, sampleRecord(), writeTemplate(t, 1))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	require.NotNil(t, res.Plan.Barcode)
}
