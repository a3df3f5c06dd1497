// Package input decodes the files the cargodoc command renders from: ledger
// rows as CSV, manifests and receipts as YAML.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cargobloc/cargodoc"
)

// Ledger CSV columns. Only label is required; the header may list them in
// any order.
const (
	ColumnLabel     = "bl_number"
	ColumnTotal     = "total"
	ColumnPaid      = "paid"
	ColumnCreatedAt = "created_at"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

// ReadLedgerCSV reads ledger rows from a CSV document with a header line.
// Amounts that do not parse are replaced by zero and a warning is logged, as
// are timestamps that do not parse.
func ReadLedgerCSV(r io.Reader, logger *zap.Logger) ([]cargodoc.LedgerRow, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("input: reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[ColumnLabel]; !ok {
		return nil, fmt.Errorf("input: header has no %s column", ColumnLabel)
	}
	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []cargodoc.LedgerRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("input: line %d: %w", line, err)
		}
		row := cargodoc.LedgerRow{Label: field(record, ColumnLabel)}
		row.Total = amount(logger, line, ColumnTotal, field(record, ColumnTotal))
		row.Paid = amount(logger, line, ColumnPaid, field(record, ColumnPaid))
		if s := field(record, ColumnCreatedAt); s != "" {
			t, err := parseTime(s)
			if err != nil {
				logger.Warn("invalid timestamp, leaving it unset",
					zap.Int("line", line), zap.String("value", s))
			}
			row.CreatedAt = t
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func amount(logger *zap.Logger, line int, column, s string) decimal.Decimal {
	d, err := cargodoc.ParseAmount(s)
	if err != nil {
		logger.Warn("invalid amount, using zero",
			zap.Int("line", line), zap.String("column", column), zap.Error(err))
		return decimal.Zero
	}
	return d
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// ReadLedgerCSVFile is ReadLedgerCSV on the file at path.
func ReadLedgerCSVFile(path string, logger *zap.Logger) ([]cargodoc.LedgerRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	defer f.Close()
	return ReadLedgerCSV(f, logger)
}

// FilterByDay returns the rows created on the calendar day of day, in day's
// location, keeping their order.
func FilterByDay(rows []cargodoc.LedgerRow, day time.Time) []cargodoc.LedgerRow {
	y, m, d := day.Date()
	var out []cargodoc.LedgerRow
	for _, r := range rows {
		if r.CreatedAt.IsZero() {
			continue
		}
		ry, rm, rd := r.CreatedAt.In(day.Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// ReadManifestYAML decodes one manifest record.
func ReadManifestYAML(r io.Reader) (cargodoc.ManifestRecord, error) {
	var rec cargodoc.ManifestRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil && !errors.Is(err, io.EOF) {
		return cargodoc.ManifestRecord{}, fmt.Errorf("input: manifest: %w", err)
	}
	return rec, nil
}

// ReadManifestsYAML decodes a list of manifest records.
func ReadManifestsYAML(r io.Reader) ([]cargodoc.ManifestRecord, error) {
	var recs []cargodoc.ManifestRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&recs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("input: manifests: %w", err)
	}
	return recs, nil
}

type receiptDoc struct {
	Number      string `yaml:"number"`
	Client      string `yaml:"client"`
	Amount      string `yaml:"amount"`
	Method      string `yaml:"method"`
	Reference   string `yaml:"reference"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
}

// ReadReceiptYAML decodes a receipt. Unlike ledger rows, an invalid amount
// is an error wrapping cargodoc.ErrInvalidAmount.
func ReadReceiptYAML(r io.Reader) (cargodoc.Receipt, error) {
	var doc receiptDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return cargodoc.Receipt{}, fmt.Errorf("input: receipt: %w", err)
	}
	amt, err := cargodoc.ParseAmount(doc.Amount)
	if err != nil {
		return cargodoc.Receipt{}, fmt.Errorf("input: receipt: %w", err)
	}
	rec := cargodoc.Receipt{
		Number:      doc.Number,
		ClientName:  doc.Client,
		Amount:      amt,
		Method:      doc.Method,
		Reference:   doc.Reference,
		Description: doc.Description,
	}
	if doc.Date != "" {
		if rec.Date, err = parseTime(doc.Date); err != nil {
			return cargodoc.Receipt{}, fmt.Errorf("input: receipt: %w", err)
		}
	}
	return rec, nil
}
