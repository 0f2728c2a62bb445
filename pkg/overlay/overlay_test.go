package overlay

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/layout"
	"github.com/curiosity110/LabelForge/pkg/table"
)

func threeZones() []Zone {
	return []Zone{
		{ID: "z1", X: 10, Y: 10, W: 200, H: 40, FontSize: 14, Align: AlignLeft, Color: "#000000"},
		{ID: "z2", X: 10, Y: 60, W: 200, H: 40, FontSize: 14, Align: AlignCenter, Color: "#ff0000"},
		{ID: "z3", X: 10, Y: 110, W: 200, H: 40, FontSize: 14, Align: AlignRight, Color: "#00f"},
	}
}

func TestBuildThreeZones(t *testing.T) {
	mapping := Mapping{"z1": "A", "z2": "B", "z3": "C"}
	row := table.Row{"A": "Acme", "B": "Unit 12", "C": "2099-01-01"}

	ov := Build(400, 300, threeZones(), mapping, row)

	if len(ov.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(ov.Blocks))
	}

	tests := []struct {
		idx    int
		text   string
		anchor Anchor
		x      float64
	}{
		{0, "Acme", AnchorStart, 10 + layout.Padding},
		{1, "Unit 12", AnchorMiddle, 10 + 100},
		{2, "2099-01-01", AnchorEnd, 10 + 200 - layout.Padding},
	}
	for _, tt := range tests {
		b := ov.Blocks[tt.idx]
		if len(b.Lines) != 1 || b.Lines[0] != tt.text {
			t.Errorf("block %d lines = %v, want [%s]", tt.idx, b.Lines, tt.text)
		}
		if b.Anchor != tt.anchor {
			t.Errorf("block %d anchor = %v, want %v", tt.idx, b.Anchor, tt.anchor)
		}
		if b.X != tt.x {
			t.Errorf("block %d x = %g, want %g", tt.idx, b.X, tt.x)
		}
	}
}

func TestBuildBaselinePositions(t *testing.T) {
	zone := Zone{ID: "z", X: 0, Y: 50, W: 60, H: 200, FontSize: 14}
	mapping := Mapping{"z": "text"}
	row := table.Row{"text": "alpha beta gamma delta"}

	ov := Build(300, 300, []Zone{zone}, mapping, row)
	b := ov.Blocks[0]

	if want := 50 + layout.Padding + 14; b.Y != want {
		t.Errorf("first baseline = %g, want %g", b.Y, want)
	}
	if want := layout.LineHeight(14); b.LineHeight != want {
		t.Errorf("line height = %d, want %d", b.LineHeight, want)
	}
	if len(b.Lines) < 2 {
		t.Fatalf("expected wrapped text, got %v", b.Lines)
	}
}

func TestBuildUnmappedZoneRendersEmpty(t *testing.T) {
	ov := Build(400, 300, threeZones(), Mapping{"z1": "A"}, table.Row{"A": "x"})

	for _, idx := range []int{1, 2} {
		b := ov.Blocks[idx]
		if len(b.Lines) != 1 || b.Lines[0] != "" {
			t.Errorf("unmapped block %d lines = %v, want one empty line", idx, b.Lines)
		}
	}
}

func TestBuildMissingColumnRendersEmpty(t *testing.T) {
	ov := Build(400, 300, threeZones()[:1], Mapping{"z1": "gone"}, table.Row{"A": "x"})
	if b := ov.Blocks[0]; len(b.Lines) != 1 || b.Lines[0] != "" {
		t.Errorf("lines = %v, want one empty line", b.Lines)
	}
}

func TestOverlaySVG(t *testing.T) {
	mapping := Mapping{"z1": "A", "z2": "B", "z3": "C"}
	row := table.Row{"A": "Acme", "B": "Unit 12", "C": "2099-01-01"}
	ov := Build(400, 300, threeZones(), mapping, row)

	svg := string(ov.SVG())

	if got := strings.Count(svg, "<g "); got != 3 {
		t.Errorf("text groups = %d, want 3", got)
	}
	for _, want := range []string{
		`text-anchor="start"`,
		`text-anchor="middle"`,
		`text-anchor="end"`,
		">Acme</text>",
		">Unit 12</text>",
		`fill="#ff0000"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestSVGEscapesText(t *testing.T) {
	zone := Zone{ID: "z", X: 0, Y: 0, W: 300, H: 50, FontSize: 12}
	ov := Build(300, 100, []Zone{zone}, Mapping{"z": "c"}, table.Row{"c": "<Fish & Chips>"})

	svg := string(ov.SVG())
	if strings.Contains(svg, "<Fish") {
		t.Error("SVG contains unescaped text")
	}
	if !strings.Contains(svg, "&lt;Fish &amp; Chips&gt;") {
		t.Errorf("SVG missing escaped text: %s", svg)
	}
}

// testPNG returns an opaque single-color PNG of the given size.
func testPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = c.R
		case 1:
			img.Pix[i] = c.G
		case 2:
			img.Pix[i] = c.B
		case 3:
			img.Pix[i] = c.A
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestCompositePreservesDimensions(t *testing.T) {
	bg := testPNG(t, 320, 240, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})

	comp, err := NewCompositor(nil)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}

	ov := Build(320, 240, threeZones(), Mapping{"z1": "A"}, table.Row{"A": "Hello"})
	out, err := comp.Composite(bg, ov)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("output = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
}

func TestCompositeDrawsText(t *testing.T) {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	bg := testPNG(t, 200, 100, white)

	comp, err := NewCompositor(nil)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}

	zone := Zone{ID: "z", X: 10, Y: 10, W: 180, H: 80, FontSize: 24, Color: "#000000"}
	ov := Build(200, 100, []Zone{zone}, Mapping{"z": "t"}, table.Row{"t": "XXXX"})
	out, err := comp.Composite(bg, ov)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}

	// Some pixel inside the zone must have darkened.
	darkened := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !darkened; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && b < 0x8000 {
				darkened = true
				break
			}
		}
	}
	if !darkened {
		t.Error("no dark pixels found; text was not drawn")
	}
}

func TestCompositeRejectsGarbageBackground(t *testing.T) {
	comp, err := NewCompositor(nil)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	_, err = comp.Composite([]byte("not an image"), Overlay{Width: 10, Height: 10})
	if !errors.Is(err, errors.ErrCodeParseFailure) {
		t.Errorf("err = %v, want PARSE_FAILURE", err)
	}
}

func TestDimensions(t *testing.T) {
	bg := testPNG(t, 64, 48, color.NRGBA{A: 0xff})
	w, h, err := Dimensions(bg)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 64 || h != 48 {
		t.Errorf("got %dx%d, want 64x48", w, h)
	}

	if _, _, err := Dimensions([]byte("junk")); !errors.Is(err, errors.ErrCodeParseFailure) {
		t.Errorf("err = %v, want PARSE_FAILURE", err)
	}
}

func TestParseZones(t *testing.T) {
	data := []byte(`[{"id":"z1","x":1,"y":2,"width":100,"height":30,"fontSize":16,"align":"center","color":"#123456"}]`)
	zones, err := ParseZones(data)
	if err != nil {
		t.Fatalf("ParseZones: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(zones))
	}
	z := zones[0]
	if z.ID != "z1" || z.Align != AlignCenter || z.FontSize != 16 {
		t.Errorf("zone = %+v", z)
	}
}

func TestParseZonesDefaults(t *testing.T) {
	zones, err := ParseZones([]byte(`[{"id":"z","x":0,"y":0,"width":50,"height":20}]`))
	if err != nil {
		t.Fatalf("ParseZones: %v", err)
	}
	if zones[0].FontSize != DefaultFontSize {
		t.Errorf("fontSize = %g, want default %g", zones[0].FontSize, DefaultFontSize)
	}
	if zones[0].Align != AlignLeft {
		t.Errorf("align = %v, want left", zones[0].Align)
	}
}

func TestParseZonesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed JSON", `[{`, errors.ErrCodeInvalidInput},
		{"empty list", `[]`, errors.ErrCodeInvalidInput},
		{"zero width", `[{"id":"z","width":0,"height":10}]`, errors.ErrCodeInvalidZone},
		{"missing id", `[{"width":10,"height":10}]`, errors.ErrCodeInvalidZone},
		{"bad alignment", `[{"id":"z","width":10,"height":10,"align":"diagonal"}]`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseZones([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestAlignmentJSONRoundTrip(t *testing.T) {
	for _, a := range []Alignment{AlignLeft, AlignCenter, AlignRight} {
		data, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Alignment
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != a {
			t.Errorf("round trip %v -> %v", a, back)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"", color.NRGBA{A: 0xff}, false},
		{"#000000", color.NRGBA{A: 0xff}, false},
		{"#ff8800", color.NRGBA{R: 0xff, G: 0x88, A: 0xff}, false},
		{"#f80", color.NRGBA{R: 0xff, G: 0x88, A: 0xff}, false},
		{"red", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
