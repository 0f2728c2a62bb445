package archive

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// Writer assembles the output archive. Entries appear in the archive in
// the exact order they are added; the batch pipeline relies on this to
// preserve row order.
type Writer struct {
	buf *bytes.Buffer
	zw  *zip.Writer
}

// NewWriter creates an in-memory archive writer with klauspost deflate
// registered as the compressor.
func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	return &Writer{buf: buf, zw: zw}
}

// Add appends one entry under the given name.
func (w *Writer) Add(name string, data []byte) error {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create archive entry %q", name)
	}
	if _, err := fw.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write archive entry %q", name)
	}
	return nil
}

// Close finalizes the archive and returns the complete buffer. The writer
// must not be used after Close.
func (w *Writer) Close() ([]byte, error) {
	if err := w.zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "finalize archive")
	}
	return w.buf.Bytes(), nil
}
