package overlay

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

var anchorNames = map[Anchor]string{
	AnchorStart:  "start",
	AnchorMiddle: "middle",
	AnchorEnd:    "end",
}

// SVG emits the overlay as a standalone SVG document. Intended for
// inspection and tests; the raster path draws the same blocks directly.
func (ov Overlay) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		ov.Width, ov.Height, ov.Width, ov.Height)

	for _, b := range ov.Blocks {
		fmt.Fprintf(&buf, `  <g id="zone-%s" font-size="%g" fill="#%02x%02x%02x" text-anchor="%s">`+"\n",
			escapeXML(b.ZoneID), b.FontSize, b.Color.R, b.Color.G, b.Color.B, anchorNames[b.Anchor])
		for i, line := range b.Lines {
			y := b.Y + float64(i*b.LineHeight)
			fmt.Fprintf(&buf, `    <text x="%g" y="%g">%s</text>`+"\n", b.X, y, escapeXML(line))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
