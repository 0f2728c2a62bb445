package pipeline

import (
	"sort"

	"github.com/curiosity110/LabelForge/pkg/archive"
	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/table"
)

// resolver yields the background image bytes for one row. Implementations
// are read-only after construction and safe for concurrent use by the
// render workers.
type resolver interface {
	resolve(index int, row table.Row) ([]byte, error)
}

// singleResolver serves the same template buffer for every row.
type singleResolver struct {
	template []byte
}

func (r *singleResolver) resolve(int, table.Row) ([]byte, error) {
	return r.template, nil
}

// columnResolver looks each row's background up by the value of a filename
// column, normalized the same way archive entry names are.
type columnResolver struct {
	entries map[string][]byte
	column  string
}

func (r *columnResolver) resolve(index int, row table.Row) ([]byte, error) {
	value := row.Value(r.column)
	if value == "" {
		return nil, errors.New(errors.ErrCodeRowImageColumnEmpty,
			"row %d has no value in image column %q", index, r.column)
	}
	data, ok := r.entries[archive.Normalize(value)]
	if !ok {
		return nil, errors.New(errors.ErrCodeRowImageMissing,
			"row %d: image %q not found in archive", index, value)
	}
	return data, nil
}

// orderResolver assigns lexicographically sorted archive entries to rows by
// position: row 0 gets the first sorted name, row 1 the second, and so on.
type orderResolver struct {
	entries map[string][]byte
	names   []string
}

func newOrderResolver(entries map[string][]byte, rowCount int) (*orderResolver, error) {
	if len(entries) < rowCount {
		return nil, errors.New(errors.ErrCodeInsufficientImages,
			"archive has %d images for %d rows", len(entries), rowCount)
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return &orderResolver{entries: entries, names: names}, nil
}

func (r *orderResolver) resolve(index int, _ table.Row) ([]byte, error) {
	if index >= len(r.names) {
		return nil, errors.New(errors.ErrCodeInsufficientImages,
			"archive has %d images, row %d has none", len(r.names), index)
	}
	return r.entries[r.names[index]], nil
}

// newResolver builds the run's resolver from validated options, a parsed
// archive (nil outside archive mode), and the row count.
func newResolver(o *Options, entries map[string][]byte, rowCount int) (resolver, error) {
	if o.Mode == ModeSingleTemplate {
		return &singleResolver{template: o.TemplateData}, nil
	}
	switch o.Assign {
	case AssignByOrder:
		return newOrderResolver(entries, rowCount)
	default:
		return &columnResolver{entries: entries, column: o.ImageColumn}, nil
	}
}
