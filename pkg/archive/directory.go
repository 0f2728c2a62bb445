package archive

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// ZIP signatures and fixed record sizes.
const (
	eocdSignature    = 0x06054b50 // end of central directory
	centralSignature = 0x02014b50 // central directory file header
	localSignature   = 0x04034b50 // local file header

	eocdFixedSize    = 22
	centralFixedSize = 46
	localFixedSize   = 30

	// maxCommentSize bounds the backward trailer scan: the EOCD comment
	// field is a uint16, so the trailer starts at most 64KB+22 bytes from
	// the end of the buffer.
	maxCommentSize = 0xFFFF
)

// Compression method codes accepted by the reader.
const (
	methodStored  = 0
	methodDeflate = 8
)

// DirectoryCodec is the from-scratch ZIP reader. It parses the central
// directory rather than scanning local headers sequentially, because local
// headers may carry zero size fields (sizes deferred to a data descriptor);
// the central directory is authoritative.
type DirectoryCodec struct{}

// Parse implements [Codec].
func (DirectoryCodec) Parse(buf []byte) (map[string][]byte, error) {
	dirOffset, dirSize, err := findTrailer(buf)
	if err != nil {
		return nil, err
	}
	if dirOffset+dirSize > len(buf) {
		return nil, errors.New(errors.ErrCodeCorruptArchive, "central directory extends past end of archive")
	}

	entries := make(map[string][]byte)
	pos := dirOffset
	for pos+centralFixedSize <= dirOffset+dirSize {
		if binary.LittleEndian.Uint32(buf[pos:]) != centralSignature {
			break
		}
		rec := buf[pos:]
		method := int(binary.LittleEndian.Uint16(rec[10:]))
		compressedSize := int(binary.LittleEndian.Uint32(rec[20:]))
		nameLen := int(binary.LittleEndian.Uint16(rec[28:]))
		extraLen := int(binary.LittleEndian.Uint16(rec[30:]))
		commentLen := int(binary.LittleEndian.Uint16(rec[32:]))
		localOffset := int(binary.LittleEndian.Uint32(rec[42:]))

		if pos+centralFixedSize+nameLen > len(buf) {
			return nil, errors.New(errors.ErrCodeCorruptArchive, "truncated central directory record")
		}
		name := string(rec[centralFixedSize : centralFixedSize+nameLen])
		pos += centralFixedSize + nameLen + extraLen + commentLen

		if isDirectoryMarker(name) || !isImageName(name) {
			continue
		}

		data, err := readEntry(buf, localOffset, method, compressedSize, name)
		if err != nil {
			return nil, err
		}
		entries[Normalize(name)] = data
	}

	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyArchive, "archive contains no image entries (.png, .jpg, .jpeg)")
	}
	return entries, nil
}

// findTrailer scans backward from the end of the buffer for the EOCD
// signature and returns the central directory's offset and size.
func findTrailer(buf []byte) (offset, size int, err error) {
	if len(buf) < eocdFixedSize {
		return 0, 0, errors.New(errors.ErrCodeCorruptArchive, "buffer too small to be a ZIP archive")
	}

	start := len(buf) - eocdFixedSize
	floor := len(buf) - eocdFixedSize - maxCommentSize
	if floor < 0 {
		floor = 0
	}

	for pos := start; pos >= floor; pos-- {
		if binary.LittleEndian.Uint32(buf[pos:]) != eocdSignature {
			continue
		}
		rec := buf[pos:]
		size = int(binary.LittleEndian.Uint32(rec[12:]))
		offset = int(binary.LittleEndian.Uint32(rec[16:]))
		if offset < 0 || size < 0 || offset+size > pos {
			return 0, 0, errors.New(errors.ErrCodeCorruptArchive, "central directory location out of bounds")
		}
		return offset, size, nil
	}
	return 0, 0, errors.New(errors.ErrCodeCorruptArchive, "no end-of-central-directory trailer found")
}

// readEntry locates an entry's payload via its local header and returns the
// decompressed bytes. The central directory's compressed size is trusted
// over the local header's, which may legitimately be zero.
func readEntry(buf []byte, localOffset, method, compressedSize int, name string) ([]byte, error) {
	if localOffset+localFixedSize > len(buf) {
		return nil, errors.New(errors.ErrCodeCorruptArchive, "local header offset out of bounds for %q", name)
	}
	local := buf[localOffset:]
	if binary.LittleEndian.Uint32(local) != localSignature {
		return nil, errors.New(errors.ErrCodeCorruptArchive, "bad local header signature for %q", name)
	}
	nameLen := int(binary.LittleEndian.Uint16(local[26:]))
	extraLen := int(binary.LittleEndian.Uint16(local[28:]))

	dataStart := localOffset + localFixedSize + nameLen + extraLen
	if dataStart+compressedSize > len(buf) {
		return nil, errors.New(errors.ErrCodeCorruptArchive, "entry data extends past end of archive for %q", name)
	}
	raw := buf[dataStart : dataStart+compressedSize]

	switch method {
	case methodStored:
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case methodDeflate:
		r := flate.NewReader(bytes.NewReader(raw))
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorruptArchive, err, "inflate %q", name)
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedCodec, "entry %q uses unsupported compression method %d", name, method)
	}
}
