// Package archive extracts background images from uploaded ZIP buffers and
// assembles the rendered output archive.
//
// # Reading
//
// Reading is exposed through the [Codec] interface so callers can choose
// between two implementations with identical contracts:
//
//   - [DirectoryCodec]: a from-scratch parser that scans backward for the
//     end-of-central-directory trailer and walks the central directory.
//     It accepts exactly two compression methods (stored and raw deflate)
//     and rejects everything else, giving byte-exact control over what an
//     uploaded archive may contain.
//   - [StdCodec]: the same contract implemented on archive/zip for callers
//     that prefer the vetted standard-library path.
//
// Both filter entries to recognized image extensions (.png, .jpg, .jpeg),
// skip directory markers, and key the result by [Normalize]d entry name.
// Duplicate normalized names resolve last-write-wins.
//
// # Writing
//
// [Writer] builds the output archive in insertion order, deflating entries
// with the klauspost/compress implementation.
package archive

import (
	"path"
	"strings"
)

// Codec parses a raw ZIP buffer into a map from normalized entry name to
// decompressed bytes.
type Codec interface {
	Parse(buf []byte) (map[string][]byte, error)
}

// imageExtensions are the entry suffixes retained by both codecs.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Normalize reduces an archive entry path to its lookup key: backslashes
// become forward slashes, directory components are stripped, and the final
// segment is lowercased. "Pics\Photo 01.JPG" and "pics/photo 01.jpg" both
// normalize to "photo 01.jpg".
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(path.Base(name))
}

// isImageName reports whether a normalized entry name has a recognized
// image extension.
func isImageName(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// isDirectoryMarker reports whether a raw entry name denotes a directory.
func isDirectoryMarker(name string) bool {
	return strings.HasSuffix(name, "/") || strings.HasSuffix(name, "\\")
}
