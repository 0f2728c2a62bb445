// Package fonts provides the typeface used to rasterize label text.
//
// The default typeface is Go Regular, embedded in golang.org/x/image, so
// rendering works without any fonts installed. A system font can be
// preferred by name; lookup goes through go-findfont and silently falls
// back to the default when the font is not present.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Source holds a parsed typeface and mints faces at arbitrary sizes.
// Faces returned by [Source.Face] are not safe for concurrent use; each
// rendering goroutine should mint its own.
type Source struct {
	font *opentype.Font
}

var (
	defaultSource *Source
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the shared Go Regular source.
func Default() (*Source, error) {
	defaultOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			defaultErr = err
			return
		}
		defaultSource = &Source{font: f}
	})
	return defaultSource, defaultErr
}

// Load resolves a typeface by name via the system font directories.
// An empty name, a failed lookup, or an unparsable font file all fall back
// to the default typeface.
func Load(name string) (*Source, error) {
	if name == "" {
		return Default()
	}
	path, err := findfont.Find(name)
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return Default()
	}
	return &Source{font: f}, nil
}

// Face mints a font.Face at the given size (72 DPI, full hinting).
// The caller owns the face and should Close it when done.
func (s *Source) Face(size float64) (font.Face, error) {
	return opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
