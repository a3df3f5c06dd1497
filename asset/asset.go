// Package asset loads the static images drawn into documents, such as the
// letterhead behind ledger pages and the paid stamp on receipts.
//
// PNG, JPEG and GIF files are embedded as they are. BMP, TIFF and WebP files
// are decoded and re-encoded as PNG, since the PDF writer cannot embed them.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/cargobloc/cargodoc"
)

// Image is an image file read into memory, ready to be registered with any
// number of documents. It is never modified after Load and may be shared.
type Image struct {
	Path string
	Type string // "PNG", "JPG" or "GIF"
	W, H int    // pixel size
	data []byte
}

// Load reads the image at path. A path that does not exist, or that cannot
// be read or decoded, yields an error wrapping cargodoc.ErrAssetMissing.
func Load(path string) (*Image, error) {
	if path == "" {
		return nil, cargodoc.NewError("LoadAsset", path, cargodoc.ErrAssetMissing, errors.New("no path configured"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cargodoc.NewError("LoadAsset", path, cargodoc.ErrAssetMissing, nil)
		}
		return nil, cargodoc.NewError("LoadAsset", path, cargodoc.ErrAssetMissing, err)
	}
	img, err := decode(path, data)
	if err != nil {
		return nil, cargodoc.NewError("LoadAsset", path, cargodoc.ErrAssetMissing, err)
	}
	return img, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func decode(path string, data []byte) (*Image, error) {
	kind := http.DetectContentType(data)
	switch kind {
	case "image/png", "image/jpeg", "image/gif":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", kind, err)
		}
		return &Image{Path: path, Type: pdfType(kind), W: cfg.Width, H: cfg.Height, data: data}, nil
	}

	var (
		m   image.Image
		err error
	)
	switch {
	case kind == "image/bmp":
		m, err = bmp.Decode(bytes.NewReader(data))
	case kind == "image/webp":
		m, err = webp.Decode(bytes.NewReader(data))
	case isTIFF(path, data):
		m, err = tiff.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image format %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("transcoding to png: %w", err)
	}
	b := m.Bounds()
	return &Image{Path: path, Type: "PNG", W: b.Dx(), H: b.Dy(), data: buf.Bytes()}, nil
}

func pdfType(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return "PNG"
	}
}

func isTIFF(path string, data []byte) bool {
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".tif" || ext == ".tiff"
}

// Register adds the image to pdf and returns the name to draw it with.
// Registering the same image twice with one document is a no-op. A document
// already in an error state yields an error wrapping
// cargodoc.ErrRenderFailure.
func (img *Image) Register(pdf *fpdf.Fpdf) (string, error) {
	if pdf.Err() {
		return "", cargodoc.NewError("RegisterAsset", img.Path, cargodoc.ErrRenderFailure, pdf.Error())
	}
	name := "asset:" + img.Path
	if info := pdf.GetImageInfo(name); info != nil {
		return name, nil
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.data))
	if err := pdf.Error(); err != nil {
		// A failed image must not poison the rest of the document.
		pdf.ClearError()
		return "", cargodoc.NewError("RegisterAsset", img.Path, cargodoc.ErrAssetMissing, err)
	}
	return name, nil
}

// Size returns the image's pixel dimensions.
func (img *Image) Size() (w, h int) {
	return img.W, img.H
}
