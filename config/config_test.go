package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, "static", cfg.AssetDir)
	assert.Equal(t, filepath.Join("static", "letterhead.png"), cfg.Path(cfg.Letterhead))
	assert.Equal(t, filepath.Join("uploads", "bl.pdf"), cfg.Output("bl.pdf"))
	assert.Equal(t, 4, cfg.BatchLimit)
	assert.Equal(t, language.English, cfg.Tag())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CARGODOC_ASSET_DIR", "/srv/assets")
	t.Setenv("CARGODOC_STAMP", "/etc/stamp.png")
	t.Setenv("CARGODOC_LOCALE", "de")
	t.Setenv("CARGODOC_BATCH_LIMIT", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/assets/letterhead.png", cfg.Path(cfg.Letterhead))
	assert.Equal(t, "/etc/stamp.png", cfg.Path(cfg.Stamp))
	assert.Equal(t, 8, cfg.BatchLimit)
	assert.Equal(t, language.German, cfg.Tag())
}

func TestLoadRejects(t *testing.T) {
	t.Run("batch limit", func(t *testing.T) {
		t.Setenv("CARGODOC_BATCH_LIMIT", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("CARGODOC_BATCH_LIMIT", "many")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("locale", func(t *testing.T) {
		t.Setenv("CARGODOC_LOCALE", "not a locale!")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	logger, err := config.NewLogger(&config.Config{LogFormat: "json", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = config.NewLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestAssembler(t *testing.T) {
	dir := t.TempDir()
	geom := filepath.Join(dir, "geometry.yaml")
	require.NoError(t, os.WriteFile(geom, []byte(`
width: 595.28
height: 841.89
top_margin: 120
bottom_margin: 80
left_margin: 40
right_margin: 40
row_height: 18
columns: {label: 0, total: 240, paid: 340, unpaid: 440}
amount_width: 60
footer_y: 30
`), 0o644))

	cfg := &config.Config{AssetDir: dir, LedgerGeometry: geom, Locale: "en", Title: "Statement"}
	a, err := cfg.Assembler(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 18.0, a.Geometry().RowHeight)

	cfg.ManifestLayout = filepath.Join(dir, "missing.yaml")
	_, err = cfg.Assembler(zap.NewNop())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(geom, []byte("width: 10\nheight: 10\nrow_height: 20\namount_width: 1\n"), 0o644))
	cfg.ManifestLayout = ""
	_, err = cfg.Assembler(zap.NewNop())
	assert.ErrorIs(t, err, cargodoc.ErrInvalidLayout)
}
