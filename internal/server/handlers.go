package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/config"
	"github.com/wscc/fixture-converter/internal/converter"
	"github.com/wscc/fixture-converter/internal/csvparser"
	"github.com/wscc/fixture-converter/internal/types"
	"github.com/wscc/fixture-converter/internal/validation"
	"github.com/wscc/fixture-converter/internal/workbook"
	"github.com/wscc/fixture-converter/pkg/utils"
)

// maxMemory is how much of a multipart form is held in memory before parts
// spill to temporary files.
const maxMemory = 8 << 20

//go:embed static/index.html
var indexHTML []byte

// =============================================================================
// UPLOAD DECODING
// =============================================================================

// upload is a decoded conversion request.
type upload struct {
	name        string
	data        []byte
	accessGroup string
	settings    types.Settings

	// grades is nil when the request does not filter by grade.
	grades []string

	format string
}

// requestError is a failure with a fixed HTTP status.
type requestError struct {
	status  int
	message string
	details string

	// findings lists the rejected rows in strict mode.
	findings validation.Errors
}

func (e *requestError) Error() string {
	if e.details == "" {
		return e.message
	}
	return e.message + ": " + e.details
}

func badRequest(message string, err error) *requestError {
	re := &requestError{status: http.StatusBadRequest, message: message}
	if err != nil {
		re.details = err.Error()
	}
	return re
}

// readUpload decodes the multipart form shared by both conversion endpoints.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, *requestError) {
	logger := zerolog.Ctx(r.Context())

	if s.cfg.Server.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				message: "File too large",
				details: err.Error(),
			}
		case errors.Is(err, http.ErrNotMultipart):
			return nil, badRequest("No file uploaded", nil)
		default:
			return nil, badRequest("Invalid form data", err)
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, badRequest("No file uploaded", nil)
		}
		return nil, badRequest("Invalid form data", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, badRequest("Invalid form data", err)
	}

	u := &upload{
		name:        header.Filename,
		data:        data,
		accessGroup: strings.TrimSpace(r.FormValue("accessGroup")),
		format:      strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
	}

	if u.accessGroup == "" {
		u.accessGroup = s.cfg.Conversion.DefaultAccessGroup
	}
	if !s.cfg.Conversion.AllowsAccessGroup(u.accessGroup) {
		return nil, badRequest("Invalid access group", errors.Errorf("%q is not an allowed access group", u.accessGroup))
	}

	settings, unknown, err := config.ParseSettings(r.FormValue("settings"), s.cfg.Conversion.Defaults.Settings())
	if err != nil {
		return nil, badRequest("Invalid settings", err)
	}
	if len(unknown) > 0 {
		logger.Debug().Strs("keys", unknown).Msg("ignoring unknown settings")
	}
	u.settings = settings

	if raw := strings.TrimSpace(r.FormValue("selectedGrades")); raw != "" {
		grades := []string{}
		if err := json.Unmarshal([]byte(raw), &grades); err != nil {
			return nil, badRequest("Invalid selectedGrades", err)
		}
		u.grades = grades
	}

	switch u.format {
	case "":
		u.format = utils.FormatCSV
	case utils.FormatCSV, utils.FormatXLSX:
	default:
		return nil, badRequest("Invalid format", errors.Errorf("unsupported format %q", u.format))
	}

	logger.Debug().
		Str("file", u.name).
		Int("size", len(u.data)).
		Str("access_group", u.accessGroup).
		Msg("upload received")

	return u, nil
}

// records parses the uploaded file into rows.
func (u *upload) records() ([][]string, error) {
	if utils.IsWorkbook(u.name) {
		return workbook.Read(bytes.NewReader(u.data))
	}
	return csvparser.Parse(bytes.NewReader(u.data))
}

// convert parses and converts an upload.
//
// RETURNS:
//   - The parsed input records, unfiltered.
//   - The grades present in the input.
//   - The converted batch, restricted to the selected grades.
func (s *Server) convert(u *upload) ([][]string, []string, *converter.Batch, *requestError) {
	records, err := u.records()
	if err != nil {
		return nil, nil, nil, &requestError{
			status:  http.StatusInternalServerError,
			message: "Error processing file",
			details: err.Error(),
		}
	}

	grades := csvparser.Grades(records)

	batch, err := s.converter.ConvertGrades(records, u.grades, u.accessGroup, u.settings)
	if err != nil {
		return nil, nil, nil, conversionError(err)
	}

	return records, grades, batch, nil
}

// conversionError maps a batch driver failure to a response.
func conversionError(err error) *requestError {
	var mismatch *converter.SchemaMismatchError
	var invalid validation.Errors

	switch {
	case errors.As(err, &mismatch):
		return &requestError{status: http.StatusUnprocessableEntity, message: "File does not match the fixture export layout", details: mismatch.Error()}
	case errors.As(err, &invalid):
		return &requestError{status: http.StatusUnprocessableEntity, message: "File failed validation", details: invalid.Error(), findings: invalid}
	default:
		return &requestError{status: http.StatusInternalServerError, message: "Error processing file", details: err.Error()}
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

// tableView is one side of the preview.
type tableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	RawCSV  string     `json:"rawCsv"`
}

// previewResponse is the body returned by the preview endpoint.
type previewResponse struct {
	Original    tableView         `json:"original"`
	Converted   tableView         `json:"converted"`
	Grades      []string          `json:"grades"`
	Warnings    validation.Errors `json:"warnings"`
	PreviewRows int               `json:"previewRows"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	u, rerr := s.readUpload(w, r)
	if rerr != nil {
		s.fail(w, r, rerr)
		return
	}

	records, grades, batch, rerr := s.convert(u)
	if rerr != nil {
		s.fail(w, r, rerr)
		return
	}

	original := tableView{Headers: []string{}, Rows: [][]string{}, RawCSV: string(u.data)}
	if len(records) > 0 {
		original.Headers = records[0]
		original.Rows = records[1:]
	}
	if utils.IsWorkbook(u.name) {
		raw, err := csvparser.String(original.Headers, original.Rows)
		if err != nil {
			s.fail(w, r, &requestError{status: http.StatusInternalServerError, message: "Error processing file", details: err.Error()})
			return
		}
		original.RawCSV = raw
	}

	rows := batch.Rows()
	raw, err := csvparser.String(batch.Headers, rows)
	if err != nil {
		s.fail(w, r, &requestError{status: http.StatusInternalServerError, message: "Error processing file", details: err.Error()})
		return
	}

	warnings := batch.Warnings
	if warnings == nil {
		warnings = validation.Errors{}
	}
	if grades == nil {
		grades = []string{}
	}

	converter.LogSummary(zerolog.Ctx(r.Context()), batch)

	writeJSON(w, http.StatusOK, previewResponse{
		Original:    original,
		Converted:   tableView{Headers: batch.Headers, Rows: rows, RawCSV: raw},
		Grades:      grades,
		Warnings:    warnings,
		PreviewRows: s.cfg.Conversion.PreviewRows,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	u, rerr := s.readUpload(w, r)
	if rerr != nil {
		s.fail(w, r, rerr)
		return
	}

	_, _, batch, rerr := s.convert(u)
	if rerr != nil {
		s.fail(w, r, rerr)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv"

	var err error
	switch u.format {
	case utils.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = workbook.Write(&buf, batch.Headers, batch.Rows())
	default:
		err = csvparser.Write(&buf, batch.Headers, batch.Rows())
	}
	if err != nil {
		s.fail(w, r, &requestError{status: http.StatusInternalServerError, message: "Error processing file", details: err.Error()})
		return
	}

	converter.LogSummary(zerolog.Ctx(r.Context()), batch)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+utils.ConvertedFileName(u.name, u.format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// =============================================================================
// RESPONSES
// =============================================================================

// errorResponse is the JSON body of every failure.
type errorResponse struct {
	Error    string            `json:"error"`
	Details  string            `json:"details,omitempty"`
	Findings validation.Errors `json:"findings,omitempty"`
}

// fail logs a request error and writes it as JSON.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, rerr *requestError) {
	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if rerr.status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Int("status", rerr.status).Str("details", rerr.details).Msg(rerr.message)

	writeJSON(w, rerr.status, errorResponse{Error: rerr.message, Details: rerr.details, Findings: rerr.findings})
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
