// Package overlay builds and rasterizes the text layer composited onto a
// background image.
//
// [Build] produces a vector description of the layer: one positioned text
// block per zone, with lines already broken by the layout engine. The
// description can be inspected as SVG ([Overlay.SVG]) or rasterized onto a
// background ([Compositor.Composite]).
package overlay

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// Alignment is the horizontal text alignment of a zone. It is decoded from
// its string form exactly once, at JSON parse time, so rendering never
// re-interprets strings.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// UnmarshalJSON decodes "left", "center" or "right". An empty or absent
// value defaults to left.
func (a *Alignment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "", "left":
		*a = AlignLeft
	case "center":
		*a = AlignCenter
	case "right":
		*a = AlignRight
	default:
		return errors.New(errors.ErrCodeInvalidZone, "unknown alignment %q", s)
	}
	return nil
}

// MarshalJSON encodes the alignment back to its string form.
func (a Alignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Zone is a rectangular text-placement region in background pixel space.
// Zones may overlap; overlap is a rendering concern, not a data error.
type Zone struct {
	ID       string    `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	W        float64   `json:"width"`
	H        float64   `json:"height"`
	FontSize float64   `json:"fontSize"`
	Align    Alignment `json:"align"`
	Color    string    `json:"color"`
}

// DefaultFontSize is applied to zones that do not set one.
const DefaultFontSize = 14.0

// Validate checks the zone invariants and fills defaults.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return errors.New(errors.ErrCodeInvalidZone, "zone has no id")
	}
	if z.W <= 0 || z.H <= 0 {
		return errors.New(errors.ErrCodeInvalidZone, "zone %q has non-positive dimensions %gx%g", z.ID, z.W, z.H)
	}
	if z.FontSize <= 0 {
		z.FontSize = DefaultFontSize
	}
	return nil
}

// ParseZones decodes and validates the JSON zone list from the request.
func ParseZones(data []byte) ([]Zone, error) {
	var zones []Zone
	if err := json.Unmarshal(data, &zones); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse zones JSON")
	}
	if len(zones) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one zone is required")
	}
	for i := range zones {
		if err := zones[i].Validate(); err != nil {
			return nil, err
		}
	}
	return zones, nil
}

// Mapping associates zone IDs with column names. A zone without an entry
// renders empty text; that is a policy choice, not an error.
type Mapping map[string]string

// ParseMapping decodes the JSON mapping object from the request.
func ParseMapping(data []byte) (Mapping, error) {
	if len(data) == 0 {
		return Mapping{}, nil
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "parse mapping JSON")
	}
	return m, nil
}

// ParseHexColor parses "#rgb" and "#rrggbb" colors. Empty input is black.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	if s == "" {
		return c, nil
	}

	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("length must be 4 or 7")
	}
	if err != nil {
		return c, errors.New(errors.ErrCodeInvalidZone, "invalid color %q", s)
	}
	return c, nil
}
