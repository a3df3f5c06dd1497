package layout

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cargobloc/cargodoc"
)

//go:embed data/*.yaml
var data embed.FS

const (
	defaultManifestFile = "data/house_bl.yaml"
	defaultLedgerFile   = "data/ledger_a4.yaml"
)

// DefaultManifest returns the placement table of the CargoBloc House BL
// template. Each call returns a fresh copy.
func DefaultManifest() (*Manifest, error) {
	b, err := data.ReadFile(defaultManifestFile)
	if err != nil {
		return nil, err
	}
	return LoadManifest(bytes.NewReader(b))
}

// DefaultLedgerGeometry returns the A4 ledger geometry.
func DefaultLedgerGeometry() (cargodoc.PageGeometry, error) {
	b, err := data.ReadFile(defaultLedgerFile)
	if err != nil {
		return cargodoc.PageGeometry{}, err
	}
	return LoadGeometry(bytes.NewReader(b))
}

// LoadManifest decodes and validates a placement table.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, cargodoc.NewError("LoadManifest", "", cargodoc.ErrInvalidLayout, err)
	}
	if m.Font.Family == "" {
		m.Font.Family = "Helvetica"
	}
	if m.Font.Size == 0 {
		m.Font.Size = 7
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFile reads a placement table from path.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cargodoc.NewError("LoadManifest", path, cargodoc.ErrInvalidLayout, err)
	}
	defer f.Close()
	m, err := LoadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("layout: %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the table's values and that it names each known field at
// most once. Overlapping anchors are not detected: they are a property of
// the template artwork.
func (m *Manifest) Validate() error {
	if err := cargodoc.Validator().Struct(m); err != nil {
		return cargodoc.NewError("ValidateManifest", "", cargodoc.ErrInvalidLayout, err)
	}
	seen := make(map[cargodoc.Field]bool, len(m.Fields))
	for _, p := range m.Fields {
		if !p.Field.Known() {
			return cargodoc.NewError("ValidateManifest", "", cargodoc.ErrInvalidLayout,
				fmt.Errorf("unknown field %q", p.Field))
		}
		if seen[p.Field] {
			return cargodoc.NewError("ValidateManifest", "", cargodoc.ErrInvalidLayout,
				fmt.Errorf("field %q placed twice", p.Field))
		}
		seen[p.Field] = true
	}
	return nil
}

// LoadGeometry decodes and validates a ledger page geometry.
func LoadGeometry(r io.Reader) (cargodoc.PageGeometry, error) {
	var g cargodoc.PageGeometry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return cargodoc.PageGeometry{}, cargodoc.NewError("LoadGeometry", "", cargodoc.ErrInvalidLayout, err)
	}
	if err := g.Validate(); err != nil {
		return cargodoc.PageGeometry{}, err
	}
	return g, nil
}

// LoadGeometryFile reads a ledger page geometry from path.
func LoadGeometryFile(path string) (cargodoc.PageGeometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return cargodoc.PageGeometry{}, cargodoc.NewError("LoadGeometry", path, cargodoc.ErrInvalidLayout, err)
	}
	defer f.Close()
	return LoadGeometry(f)
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
