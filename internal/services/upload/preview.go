package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"plantdoc/internal/domain"
)

// DefaultMaxPreviewBytes bounds how much of a file is read for a preview.
const DefaultMaxPreviewBytes = 10 << 20

// ErrPreviewTooLarge is returned for files over the preview size bound.
var ErrPreviewTooLarge = errors.New("image too large to preview")

// ComputePreview reads file and returns it as a data URL
// ("data:<media type>;base64,<payload>"). The media type is sniffed from the
// content, not taken from the file name.
func ComputePreview(file *domain.ImageFile, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPreviewBytes
	}
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%s: %w (%d bytes max)", file.Name, ErrPreviewTooLarge, maxBytes)
	}

	mediaType := mimetype.Detect(data).String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}
