package overlay

import (
	"bytes"
	"image"
	_ "image/jpeg" // register decoders for Dimensions
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/fonts"
)

// Compositor rasterizes overlays onto backgrounds using one typeface
// source. It is safe for concurrent use: each Composite call mints its own
// font faces.
type Compositor struct {
	Fonts *fonts.Source
}

// NewCompositor creates a compositor over the given typeface source.
// A nil source means the default typeface.
func NewCompositor(src *fonts.Source) (*Compositor, error) {
	if src == nil {
		var err error
		src, err = fonts.Default()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load default typeface")
		}
	}
	return &Compositor{Fonts: src}, nil
}

// Dimensions decodes just the background's natural pixel dimensions.
func Dimensions(background []byte) (w, h int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(background))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeParseFailure, err, "read background dimensions")
	}
	return cfg.Width, cfg.Height, nil
}

// Composite rasterizes the overlay at the background's full natural
// resolution and composites it at the top-left origin, returning PNG
// bytes. The background buffer is never modified, and no scaling is
// performed at this layer.
func (c *Compositor) Composite(background []byte, ov Overlay) ([]byte, error) {
	bg, err := imaging.Decode(bytes.NewReader(background))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "decode background image")
	}
	bounds := bg.Bounds()

	layer, err := c.rasterize(ov, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	out := imaging.Overlay(bg, layer, image.Point{}, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode output PNG")
	}
	return buf.Bytes(), nil
}

// rasterize draws the overlay's text blocks onto a transparent canvas of
// the given size.
func (c *Compositor) rasterize(ov Overlay, width, height int) (image.Image, error) {
	dc := gg.NewContext(width, height)

	for _, b := range ov.Blocks {
		face, err := c.Fonts.Face(b.FontSize)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "mint font face at size %g", b.FontSize)
		}
		dc.SetFontFace(face)
		dc.SetColor(b.Color)

		// ax mirrors the block's SVG text-anchor: 0 start, 0.5 middle,
		// 1 end. ay 0 anchors the baseline at y.
		var ax float64
		switch b.Anchor {
		case AnchorMiddle:
			ax = 0.5
		case AnchorEnd:
			ax = 1
		}

		for i, line := range b.Lines {
			if line == "" {
				continue
			}
			y := b.Y + float64(i*b.LineHeight)
			dc.DrawStringAnchored(line, b.X, y, ax, 0)
		}
		face.Close()
	}

	return dc.Image(), nil
}
