package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/overlay"
	"github.com/curiosity110/LabelForge/pkg/pipeline"
)

// multipartMemory is how much of a parsed form stays in memory before
// spilling to disk.
const multipartMemory = 32 << 20

// decodeRenderRequest parses the multipart form shared by the batch and
// preview endpoints into pipeline options.
//
// Fields:
//
//	table    file, required  tabular data (CSV or XLSX)
//	template file            single background image (mode=single)
//	archive  file            background archive (mode=archive)
//	zones    JSON list of zone records, required
//	mapping  JSON object zone-id → column
//	mode     "single" (default) or "archive"
//	assign   "column" (default) or "order"
//	column   image filename column for assign=column
func (s *Server) decodeRenderRequest(r *http.Request) (*pipeline.Options, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.maxBodyBytes())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse multipart form")
	}

	tableData, tableName, err := formFile(r, "table")
	if err != nil {
		return nil, err
	}
	if tableData == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing required field %q", "table")
	}

	templateData, _, err := formFile(r, "template")
	if err != nil {
		return nil, err
	}
	archiveData, _, err := formFile(r, "archive")
	if err != nil {
		return nil, err
	}

	zones, err := overlay.ParseZones([]byte(r.FormValue("zones")))
	if err != nil {
		return nil, err
	}
	mapping, err := overlay.ParseMapping([]byte(r.FormValue("mapping")))
	if err != nil {
		return nil, err
	}
	mode, err := pipeline.ParseSourceMode(r.FormValue("mode"))
	if err != nil {
		return nil, err
	}
	assign, err := pipeline.ParseAssignStrategy(r.FormValue("assign"))
	if err != nil {
		return nil, err
	}

	return &pipeline.Options{
		TableData:    tableData,
		TableName:    tableName,
		TemplateData: templateData,
		ArchiveData:  archiveData,
		Zones:        zones,
		Mapping:      mapping,
		Mode:         mode,
		Assign:       assign,
		ImageColumn:  r.FormValue("column"),
		Fonts:        s.fonts,
		Limits:       s.limits,
	}, nil
}

// maxBodyBytes caps the whole request body at the sum of the per-blob
// ceilings, with headroom for multipart framing. Per-blob checks happen in
// the pipeline; this only stops a runaway upload early.
func (s *Server) maxBodyBytes() int64 {
	l := s.limits
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = pipeline.DefaultMaxImageBytes
	}
	if l.MaxArchiveBytes <= 0 {
		l.MaxArchiveBytes = pipeline.DefaultMaxArchiveBytes
	}
	if l.MaxTableBytes <= 0 {
		l.MaxTableBytes = pipeline.DefaultMaxTableBytes
	}
	return int64(l.MaxImageBytes+l.MaxArchiveBytes+l.MaxTableBytes) + 1<<20
}

// formFile reads an optional file field fully into memory. A missing field
// returns (nil, "", nil).
func formFile(r *http.Request, field string) (data []byte, filename string, err error) {
	f, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read field %q", field)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read field %q", field)
	}
	return data, header.Filename, nil
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeRenderRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Run(r.Context(), *opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="labels.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Archive)))
	w.Write(result.Archive)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeRenderRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rowIndex := 0
	if v := r.FormValue("row"); v != "" {
		rowIndex, err = strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid row index %q", v))
			return
		}
	}

	img, err := s.runner.Preview(r.Context(), *opts, rowIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Write(img)
}
