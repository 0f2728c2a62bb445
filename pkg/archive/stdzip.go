package archive

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// StdCodec implements [Codec] on archive/zip. It enforces the same
// contract as [DirectoryCodec]: only stored and deflate entries are
// accepted, directory markers and non-image entries are skipped, and the
// result is keyed by normalized name.
type StdCodec struct{}

// Parse implements [Codec].
func (StdCodec) Parse(buf []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptArchive, err, "open archive")
	}

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		if isDirectoryMarker(f.Name) || !isImageName(f.Name) {
			continue
		}
		if f.Method != zip.Store && f.Method != zip.Deflate {
			return nil, errors.New(errors.ErrCodeUnsupportedCodec, "entry %q uses unsupported compression method %d", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorruptArchive, err, "open entry %q", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorruptArchive, err, "read entry %q", f.Name)
		}
		entries[Normalize(f.Name)] = data
	}

	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyArchive, "archive contains no image entries (.png, .jpg, .jpeg)")
	}
	return entries, nil
}
