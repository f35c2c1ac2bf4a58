package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/storage"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

const maxUploadBytes = 10 << 20

const (
	msgNotImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgEmptyFile = "The submitted file is empty."
)

// formFile opens the uploaded file in field. A request without the field,
// an empty file part, or a request that is not multipart yields a nil file.
// Anything that does not sniff as an image is refused with a field error.
// The returned close func is always safe to call.
func formFile(c *gin.Context, field string) (*storage.File, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("error reading %s: %w", field, err)
	}
	if fh.Size == 0 {
		return nil, noop, nil
	}
	if fh.Size > maxUploadBytes {
		return nil, noop, validation.Errors{field: fmt.Sprintf("File too large. Size should not exceed %d MB.", maxUploadBytes>>20)}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("error opening %s: %w", field, err)
	}
	closeFile := func() { f.Close() }

	img, err := storage.Image(storage.File{Name: fh.Filename, Size: fh.Size, Content: f})
	switch {
	case errors.Is(err, storage.ErrNotImage):
		closeFile()
		return nil, noop, validation.Errors{field: msgNotImage}
	case errors.Is(err, storage.ErrEmptyFile):
		closeFile()
		return nil, noop, validation.Errors{field: msgEmptyFile}
	case err != nil:
		closeFile()
		return nil, noop, fmt.Errorf("error reading %s: %w", field, err)
	}
	return &img, closeFile, nil
}

// upload wraps formFile and answers the request itself when the upload is
// unusable.
func (h *Handler) upload(c *gin.Context, field string) (*storage.File, func(), bool) {
	f, closeFile, err := formFile(c, field)
	if err == nil {
		return f, closeFile, true
	}
	if _, ok := validation.Fields(err); ok {
		h.fail(c, err)
	} else {
		badRequest(c, err)
	}
	return nil, closeFile, false
}
