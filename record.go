package cargodoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one bill of lading line of a ledger report.
type LedgerRow struct {
	Label     string          // BL number
	Total     decimal.Decimal // billed amount, non-negative
	Paid      decimal.Decimal // paid amount, non-negative
	CreatedAt time.Time
}

// Unpaid returns Total - Paid, floored at zero.
func (r LedgerRow) Unpaid() decimal.Decimal {
	d := r.Total.Sub(r.Paid)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ReportSubject is the identity printed in a ledger report header. It may be
// a real client or a synthetic label for a cross-client export.
type ReportSubject struct {
	Name  string
	Email string
	Phone string
}

// ClientSubject returns the subject for a single client.
func ClientSubject(name, email, phone string) ReportSubject {
	return ReportSubject{Name: name, Email: email, Phone: phone}
}

// FilteredSubject returns the aggregate subject used when exporting rows of
// several clients, e.g. all BLs created on one day.
func FilteredSubject(label string) ReportSubject {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "All"
	}
	return ReportSubject{Name: fmt.Sprintf("Filtered BLs (%s)", label)}
}

// Field names a ManifestRecord field. The names double as the keys of the
// field placement tables.
type Field string

const (
	FieldExporter         Field = "exporter"
	FieldBLNumber         Field = "bl_number"
	FieldConsignee        Field = "consignee"
	FieldForwardingAgent  Field = "forwarding_agent"
	FieldNotifyParty      Field = "notify_party"
	FieldVessel           Field = "vessel"
	FieldVoyage           Field = "voyage"
	FieldPortLoading      Field = "port_loading"
	FieldPortDischarge    Field = "port_discharge"
	FieldPlaceDelivery    Field = "place_delivery"
	FieldMarksNumbers     Field = "marks_numbers"
	FieldPackages         Field = "pkgs"
	FieldDescriptionGoods Field = "description_goods"
	FieldGrossWeight      Field = "gross_weight"
)

// ManifestFields lists every manifest field in form order.
var ManifestFields = []Field{
	FieldExporter, FieldBLNumber, FieldConsignee, FieldForwardingAgent,
	FieldNotifyParty, FieldVessel, FieldVoyage, FieldPortLoading,
	FieldPortDischarge, FieldPlaceDelivery, FieldMarksNumbers, FieldPackages,
	FieldDescriptionGoods, FieldGrossWeight,
}

// Known reports whether f is a manifest field.
func (f Field) Known() bool {
	for _, k := range ManifestFields {
		if k == f {
			return true
		}
	}
	return false
}

// ManifestRecord holds the text of a House BL. Every field is optional.
type ManifestRecord struct {
	Exporter         string `yaml:"exporter" json:"exporter,omitempty"`
	BLNumber         string `yaml:"bl_number" json:"bl_number,omitempty"`
	Consignee        string `yaml:"consignee" json:"consignee,omitempty"`
	ForwardingAgent  string `yaml:"forwarding_agent" json:"forwarding_agent,omitempty"`
	NotifyParty      string `yaml:"notify_party" json:"notify_party,omitempty"`
	Vessel           string `yaml:"vessel" json:"vessel,omitempty"`
	Voyage           string `yaml:"voyage" json:"voyage,omitempty"`
	PortLoading      string `yaml:"port_loading" json:"port_loading,omitempty"`
	PortDischarge    string `yaml:"port_discharge" json:"port_discharge,omitempty"`
	PlaceDelivery    string `yaml:"place_delivery" json:"place_delivery,omitempty"`
	MarksNumbers     string `yaml:"marks_numbers" json:"marks_numbers,omitempty"`
	Packages         string `yaml:"pkgs" json:"pkgs,omitempty"`
	DescriptionGoods string `yaml:"description_goods" json:"description_goods,omitempty"`
	GrossWeight      string `yaml:"gross_weight" json:"gross_weight,omitempty"`
}

// Value returns the text of field f. ok is false when the field is unknown
// or holds only whitespace.
func (m ManifestRecord) Value(f Field) (v string, ok bool) {
	switch f {
	case FieldExporter:
		v = m.Exporter
	case FieldBLNumber:
		v = m.BLNumber
	case FieldConsignee:
		v = m.Consignee
	case FieldForwardingAgent:
		v = m.ForwardingAgent
	case FieldNotifyParty:
		v = m.NotifyParty
	case FieldVessel:
		v = m.Vessel
	case FieldVoyage:
		v = m.Voyage
	case FieldPortLoading:
		v = m.PortLoading
	case FieldPortDischarge:
		v = m.PortDischarge
	case FieldPlaceDelivery:
		v = m.PlaceDelivery
	case FieldMarksNumbers:
		v = m.MarksNumbers
	case FieldPackages:
		v = m.Packages
	case FieldDescriptionGoods:
		v = m.DescriptionGoods
	case FieldGrossWeight:
		v = m.GrossWeight
	default:
		return "", false
	}
	return v, strings.TrimSpace(v) != ""
}

// IsEmpty reports whether no field of m holds text.
func (m ManifestRecord) IsEmpty() bool {
	for _, f := range ManifestFields {
		if _, ok := m.Value(f); ok {
			return false
		}
	}
	return true
}

// Receipt is a single payment acknowledgement.
type Receipt struct {
	Number      string
	ClientName  string
	Amount      decimal.Decimal
	Method      string
	Reference   string
	Description string
	Date        time.Time
}

// ParseAmount converts caller input into an amount. An empty string is zero.
// Text that is not a number, or a negative number, yields ErrInvalidAmount;
// callers decide whether to substitute zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d, nil
}
