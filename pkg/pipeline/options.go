// Package pipeline provides the core batch label-rendering pipeline.
//
// This package implements the complete ingest → resolve → compose → package
// flow shared by the HTTP API and the CLI. One invocation is one logical
// unit of work: inputs are parsed fresh, every row is rendered, the output
// archive is assembled in row order, and nothing persists afterwards.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Limits: payload sizes and row count are checked before expensive work
//  2. Parse: the tabular buffer and (in archive mode) the background archive
//  3. Render: per row, resolve the background, build the text overlay,
//     composite to PNG (rows may render in parallel)
//  4. Package: append results to the output archive strictly in row order,
//     plus the companion CSV
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Run(ctx, pipeline.Options{
//	    TableData:    csvBytes,
//	    TemplateData: pngBytes,
//	    Zones:        zones,
//	    Mapping:      mapping,
//	    Mode:         pipeline.ModeSingleTemplate,
//	})
//	if err != nil {
//	    return err
//	}
//	zipBytes := result.Archive
package pipeline

import (
	"runtime"
	"strings"

	"github.com/curiosity110/LabelForge/pkg/archive"
	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/fonts"
	"github.com/curiosity110/LabelForge/pkg/overlay"
)

// SourceMode selects where row backgrounds come from. Chosen once per run,
// never re-parsed from strings inside the render loop.
type SourceMode int

const (
	// ModeSingleTemplate renders every row onto the same fixed background.
	ModeSingleTemplate SourceMode = iota
	// ModeArchive picks each row's background out of an uploaded archive.
	ModeArchive
)

// ParseSourceMode decodes the request's mode selector.
func ParseSourceMode(s string) (SourceMode, error) {
	switch strings.ToLower(s) {
	case "", "single", "template":
		return ModeSingleTemplate, nil
	case "archive":
		return ModeArchive, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidMode, "unknown source mode %q", s)
	}
}

// AssignStrategy selects how archive entries are assigned to rows.
type AssignStrategy int

const (
	// AssignByColumn looks the background up by a filename column's value.
	AssignByColumn AssignStrategy = iota
	// AssignByOrder assigns lexicographically sorted entries to rows by
	// position.
	AssignByOrder
)

// ParseAssignStrategy decodes the request's assignment-strategy selector.
func ParseAssignStrategy(s string) (AssignStrategy, error) {
	switch strings.ToLower(s) {
	case "", "column", "by-column":
		return AssignByColumn, nil
	case "order", "by-order":
		return AssignByOrder, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidMode, "unknown assignment strategy %q", s)
	}
}

// DefaultImageColumn is the conventional filename column for by-column
// assignment when the request does not name one.
const DefaultImageColumn = "image"

// Default limits. All of them are policy, not protocol: deployments tune
// them via configuration.
const (
	DefaultMaxRows         = 200
	DefaultMaxImageBytes   = 10 << 20  // 10 MiB
	DefaultMaxArchiveBytes = 100 << 20 // 100 MiB
	DefaultMaxTableBytes   = 2 << 20   // 2 MiB
)

// Limits bounds one pipeline invocation. Zero values take defaults.
type Limits struct {
	MaxRows         int // maximum data rows per run
	MaxImageBytes   int // ceiling for the template image buffer
	MaxArchiveBytes int // ceiling for the archive buffer
	MaxTableBytes   int // ceiling for the tabular buffer
	Workers         int // parallel render workers
}

func (l *Limits) setDefaults() {
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = DefaultMaxImageBytes
	}
	if l.MaxArchiveBytes <= 0 {
		l.MaxArchiveBytes = DefaultMaxArchiveBytes
	}
	if l.MaxTableBytes <= 0 {
		l.MaxTableBytes = DefaultMaxTableBytes
	}
	if l.Workers <= 0 {
		l.Workers = runtime.GOMAXPROCS(0)
	}
}

// Options configures one pipeline invocation.
type Options struct {
	// TableData is the raw tabular buffer; TableName carries the uploaded
	// filename so the format can be sniffed (.xlsx vs CSV).
	TableData []byte
	TableName string

	// TemplateData is the single background image (ModeSingleTemplate).
	TemplateData []byte

	// ArchiveData is the raw background archive (ModeArchive).
	ArchiveData []byte

	Zones   []overlay.Zone
	Mapping overlay.Mapping

	Mode   SourceMode
	Assign AssignStrategy

	// ImageColumn names the filename column for by-column assignment.
	ImageColumn string

	// Codec parses ArchiveData. Defaults to the from-scratch
	// [archive.DirectoryCodec].
	Codec archive.Codec

	// Fonts is the typeface source for rasterization; nil means the
	// default typeface.
	Fonts *fonts.Source

	Limits Limits
}

// ValidateAndSetDefaults checks option consistency and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	o.Limits.setDefaults()

	if len(o.TableData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "table data is required")
	}
	if len(o.Zones) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one zone is required")
	}
	if o.Mapping == nil {
		o.Mapping = overlay.Mapping{}
	}

	switch o.Mode {
	case ModeSingleTemplate:
		if len(o.TemplateData) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "single-template mode requires a background image")
		}
	case ModeArchive:
		if len(o.ArchiveData) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "archive mode requires a background archive")
		}
	default:
		return errors.New(errors.ErrCodeInvalidMode, "unknown source mode %d", o.Mode)
	}

	if o.ImageColumn == "" {
		o.ImageColumn = DefaultImageColumn
	}
	if o.Codec == nil {
		o.Codec = archive.DirectoryCodec{}
	}
	return nil
}

// checkPayloadSizes enforces the per-blob ceilings before any parsing.
func (o *Options) checkPayloadSizes() error {
	if len(o.TableData) > o.Limits.MaxTableBytes {
		return errors.New(errors.ErrCodePayloadTooLarge, "table exceeds %d bytes", o.Limits.MaxTableBytes)
	}
	if len(o.TemplateData) > o.Limits.MaxImageBytes {
		return errors.New(errors.ErrCodePayloadTooLarge, "background image exceeds %d bytes", o.Limits.MaxImageBytes)
	}
	if len(o.ArchiveData) > o.Limits.MaxArchiveBytes {
		return errors.New(errors.ErrCodePayloadTooLarge, "archive exceeds %d bytes", o.Limits.MaxArchiveBytes)
	}
	return nil
}
