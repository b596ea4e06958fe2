package types

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ImageFile is a binary image payload chosen by the user. The bytes are not
// held in memory unless the file was built from a byte slice; Open returns a
// fresh reader on every call so the payload can be previewed and uploaded
// independently.
type ImageFile struct {
	Name string
	Size int64

	open func() (io.ReadCloser, error)
}

// NewImageFile wraps an in-memory payload.
func NewImageFile(name string, data []byte) *ImageFile {
	buf := append([]byte(nil), data...)
	return &ImageFile{
		Name: name,
		Size: int64(len(buf)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}
}

// OpenImageFile references the file at path. Only its metadata is read here.
func OpenImageFile(path string) (*ImageFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &ImageFile{
		Name: filepath.Base(path),
		Size: fi.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// NewImageFileFunc builds an ImageFile from an arbitrary opener, for payloads
// that come from neither memory nor the local file system.
func NewImageFileFunc(name string, size int64, open func() (io.ReadCloser, error)) *ImageFile {
	return &ImageFile{Name: name, Size: size, open: open}
}

// Open returns a reader over the payload.
func (f *ImageFile) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, fmt.Errorf("image file has no payload")
	}
	return f.open()
}

// SelectedImage is the current selection of an upload flow: the file and the
// data-URL preview derived from it. Preview is empty until it has been
// computed.
type SelectedImage struct {
	File    *ImageFile
	Preview string
}

// Empty reports whether nothing is selected.
func (s SelectedImage) Empty() bool { return s.File == nil && s.Preview == "" }
