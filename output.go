package cargodoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WriteFile creates path with the bytes produced by write. The content is
// first written to a hidden temporary file in the same directory and renamed
// over path only when write and the flush to disk succeed, so path is either
// absent, left as it was, or complete. Errors from write that already carry a
// Kind are returned as they are; other failures wrap ErrWriteFailure.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return NewError("WriteFile", path, ErrWriteFailure, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		if KindOf(err) != KindUnknown {
			return err
		}
		return NewError("WriteFile", path, ErrWriteFailure, err)
	}
	if err = f.Sync(); err != nil {
		return NewError("WriteFile", path, ErrWriteFailure, err)
	}
	if err = f.Close(); err != nil {
		return NewError("WriteFile", path, ErrWriteFailure, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return NewError("WriteFile", path, ErrWriteFailure, err)
	}
	return nil
}

var nameReplacer = strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")

// OutputName builds a file name that is unique per call, of the form
// <prefix>_<id>_<yyyymmddhhmmss>_<8 hex>.pdf. The id part is omitted when
// empty.
func OutputName(prefix, id string, now time.Time) string {
	parts := []string{prefix}
	if id = strings.TrimSpace(id); id != "" {
		parts = append(parts, nameReplacer.Replace(id))
	}
	parts = append(parts, now.Format("20060102150405"), uuid.NewString()[:8])
	return strings.Join(parts, "_") + ".pdf"
}
