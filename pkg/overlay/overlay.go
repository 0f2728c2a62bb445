package overlay

import (
	"image/color"

	"github.com/curiosity110/LabelForge/pkg/layout"
	"github.com/curiosity110/LabelForge/pkg/table"
)

// Anchor is the horizontal anchoring mode of a text block. It mirrors the
// SVG text-anchor values so vector and raster output align identically.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextBlock is one zone's laid-out text: an anchor point for the first
// baseline plus the display lines, each subsequent line advancing by
// LineHeight from the previous baseline.
type TextBlock struct {
	ZoneID     string
	X, Y       float64 // anchor point of the first line's baseline
	Anchor     Anchor
	FontSize   float64
	LineHeight int
	Color      color.NRGBA
	Lines      []string
}

// Overlay is the vector text layer for one row, sized to the background's
// natural dimensions.
type Overlay struct {
	Width, Height int
	Blocks        []TextBlock
}

// Build resolves each zone against the mapping and row, lays out its text,
// and positions the resulting block. Zones without a mapping entry, and
// mapped columns absent from the row, both render as empty text.
//
// Zone coordinates are taken as background pixel coordinates; callers own
// any translation from UI display space before this point.
func Build(bgWidth, bgHeight int, zones []Zone, mapping Mapping, row table.Row) Overlay {
	ov := Overlay{
		Width:  bgWidth,
		Height: bgHeight,
		Blocks: make([]TextBlock, 0, len(zones)),
	}

	for _, z := range zones {
		text := ""
		if column, ok := mapping[z.ID]; ok {
			text = row.Value(column)
		}
		lines := layout.Layout(text, z.W, z.H, z.FontSize)

		var x float64
		var anchor Anchor
		switch z.Align {
		case AlignCenter:
			x = z.X + z.W/2
			anchor = AnchorMiddle
		case AlignRight:
			x = z.X + z.W - layout.Padding
			anchor = AnchorEnd
		default:
			x = z.X + layout.Padding
			anchor = AnchorStart
		}

		c, err := ParseHexColor(z.Color)
		if err != nil {
			c = color.NRGBA{A: 0xff} // validated earlier; fall back to black
		}

		ov.Blocks = append(ov.Blocks, TextBlock{
			ZoneID:     z.ID,
			X:          x,
			Y:          z.Y + layout.Padding + z.FontSize,
			Anchor:     anchor,
			FontSize:   z.FontSize,
			LineHeight: layout.LineHeight(z.FontSize),
			Color:      c,
			Lines:      lines,
		})
	}
	return ov
}
