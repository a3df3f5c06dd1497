package asset_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/asset"
)

func solid(w, h int) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{R: 20, G: 90, B: 160, A: 255})
		}
	}
	return m
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, solid(w, h)))
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letterhead.png")
	writePNG(t, path, 30, 40)

	img, err := asset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", img.Type)
	w, h := img.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 40, h)
	assert.True(t, asset.Exists(path))
}

func TestLoadBMPIsTranscoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamp.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, solid(8, 8)))
	require.NoError(t, f.Close())

	img, err := asset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", img.Type)

	pdf := cargodoc.NewDocument()
	pdf.AddPage()
	name, err := img.Register(pdf)
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	require.NoError(t, pdf.Error())
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.png")
	_, err := asset.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, cargodoc.ErrAssetMissing)
	assert.Equal(t, cargodoc.KindAssetMissing, cargodoc.KindOf(err))
	assert.False(t, asset.Exists(path))
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image at all"), 0o644))
	_, err := asset.Load(path)
	assert.ErrorIs(t, err, cargodoc.ErrAssetMissing)
}

func TestRegisterTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 4, 4)
	img, err := asset.Load(path)
	require.NoError(t, err)

	pdf := cargodoc.NewDocument()
	pdf.AddPage()
	first, err := img.Register(pdf)
	require.NoError(t, err)
	second, err := img.Register(pdf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRegisterOnFailedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	writePNG(t, path, 4, 4)
	img, err := asset.Load(path)
	require.NoError(t, err)

	pdf := cargodoc.NewDocument()
	pdf.SetError(errors.New("font not found"))
	_, err = img.Register(pdf)
	require.Error(t, err)
	assert.ErrorIs(t, err, cargodoc.ErrRenderFailure)
	assert.Equal(t, cargodoc.KindRenderFailure, cargodoc.KindOf(err))
}
