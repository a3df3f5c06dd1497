// Package config reads the runtime configuration of the cargodoc command from
// CARGODOC_* environment variables and builds its logger.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/cargobloc/cargodoc/assemble"
	"github.com/cargobloc/cargodoc/layout"
)

// Prefix is the environment variable prefix.
const Prefix = "cargodoc"

// Config holds runtime configuration. Relative asset paths are resolved
// against AssetDir.
type Config struct {
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AssetDir   string `envconfig:"ASSET_DIR" default:"static"`
	Letterhead string `envconfig:"LETTERHEAD" default:"letterhead.png"`
	Stamp      string `envconfig:"STAMP" default:"paid_stamp.png"`
	Template   string `envconfig:"TEMPLATE" default:"HOUSE_BL_TEMPLATE.pdf"`
	OutputDir  string `envconfig:"OUTPUT_DIR" default:"uploads"`

	ManifestLayout string `envconfig:"MANIFEST_LAYOUT"` // YAML placement table; empty means the built-in one
	LedgerGeometry string `envconfig:"LEDGER_GEOMETRY"` // YAML page geometry; empty means the built-in one

	Locale     string `envconfig:"LOCALE" default:"en"`
	Title      string `envconfig:"TITLE" default:"Client Summary"`
	Footer     string `envconfig:"FOOTER" default:"CARGOBLOC LOGISTICS - Vision to Reality"`
	BatchLimit int    `envconfig:"BATCH_LIMIT" default:"4"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("config: locale %q: %w", cfg.Locale, err)
	}
	if cfg.BatchLimit < 1 {
		return nil, fmt.Errorf("config: batch limit must be positive, got %d", cfg.BatchLimit)
	}
	return &cfg, nil
}

// Path resolves an asset name against AssetDir. Absolute names and the empty
// name are returned unchanged.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.AssetDir, name)
}

// Output returns the path of a file in OutputDir.
func (c *Config) Output(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// Tag returns the configured locale.
func (c *Config) Tag() language.Tag {
	return language.Make(c.Locale)
}

// NewLogger builds a production JSON logger when LogFormat is "json" and a
// development console logger otherwise.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg != nil && cfg.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	}
	if cfg != nil && cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config: log level: %w", err)
		}
		zc.Level = level
	}
	return zc.Build()
}

// Options returns the assembler options described by cfg. Layout files named
// in cfg are loaded and validated here.
func (c *Config) Options(logger *zap.Logger) ([]assemble.Option, error) {
	opts := []assemble.Option{
		assemble.WithLogger(logger),
		assemble.WithLetterhead(c.Path(c.Letterhead)),
		assemble.WithStamp(c.Path(c.Stamp)),
		assemble.WithTemplate(c.Path(c.Template)),
		assemble.WithTitle(c.Title),
		assemble.WithFooter(c.Footer),
		assemble.WithLocale(c.Tag()),
	}
	if c.ManifestLayout != "" {
		m, err := layout.LoadManifestFile(c.ManifestLayout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assemble.WithManifestLayout(m))
	}
	if c.LedgerGeometry != "" {
		g, err := layout.LoadGeometryFile(c.LedgerGeometry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assemble.WithGeometry(g))
	}
	return opts, nil
}

// Assembler builds an Assembler from cfg.
func (c *Config) Assembler(logger *zap.Logger) (*assemble.Assembler, error) {
	opts, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	a, err := assemble.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return a, nil
}
