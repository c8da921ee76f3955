package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/pricebook/internal/core"
	"github.com/JonMunkholm/pricebook/internal/logging"
	"github.com/JonMunkholm/pricebook/internal/pricing"
	"github.com/JonMunkholm/pricebook/internal/web/templates"
)

// multipartOverhead is the form framing allowed on top of the file itself.
const multipartOverhead = 1 << 20

// handleExport downloads the brand's prices as CSV, or XLSX with ?format=xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")

	format, err := core.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	file, err := s.service.Export(withRequestMeta(r.Context(), r), brand, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// handleImport applies an uploaded CSV price file. The multipart field is
// "file"; dry_run=true reconciles without saving.
//
// Files that cannot be processed at all are answered with a result holding
// the single error message and a zero success count.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")
	maxSize := s.cfg.Import.MaxFileSize

	req, err := readImportRequest(w, r, maxSize)
	if err != nil {
		s.respondImportFailure(w, r, brand, err)
		return
	}
	req.Brand = brand

	result, err := s.service.Import(withRequestMeta(r.Context(), r), req)
	if err != nil {
		s.respondImportFailure(w, r, brand, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ImportSummary(result, s.cfg.Import.MaxWarnings).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readImportRequest extracts the uploaded file and the dry-run flag.
func readImportRequest(w http.ResponseWriter, r *http.Request, maxSize int64) (core.ImportRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return core.ImportRequest{}, core.ErrFileTooLarge
		}
		return core.ImportRequest{}, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.ImportRequest{}, core.ErrNoFile
	}
	defer file.Close()

	if err := core.CheckImportFileName(header.Filename); err != nil {
		return core.ImportRequest{}, err
	}

	data, err := core.ReadImportFile(file, maxSize)
	if err != nil {
		return core.ImportRequest{}, err
	}

	dryRun, _ := strconv.ParseBool(r.FormValue("dry_run"))
	return core.ImportRequest{
		FileName: header.Filename,
		Data:     data,
		DryRun:   dryRun,
	}, nil
}

// respondImportFailure reports a fatal import error as a failed import result.
func (s *Server) respondImportFailure(w http.ResponseWriter, r *http.Request, brand string, err error) {
	status := statusFor(err)
	logErr(r, err, status, core.MapError(err).Code)

	if errors.Is(err, core.ErrTooManyImports) {
		w.Header().Set("Retry-After", "5")
	}

	result := core.FailedImport(brand, err)
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ImportSummary(result, s.cfg.Import.MaxWarnings).Render(r.Context(), w)
		return
	}
	writeJSON(w, status, result)
}

// RowsResponse is the JSON preview of a brand's flattened price rows.
type RowsResponse struct {
	Brand string              `json:"brand"`
	Count int                 `json:"count"`
	Rows  []map[string]string `json:"rows"`
}

// handleRows returns the rows an export would contain, as JSON objects keyed
// by the file's column names.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")

	rows, err := s.service.Rows(r.Context(), brand)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := RowsResponse{Brand: brand, Count: len(rows), Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		fields := pricing.Fields(row)
		obj := make(map[string]string, len(fields))
		for i, name := range pricing.Header {
			obj[name] = fields[i]
		}
		resp.Rows = append(resp.Rows, obj)
	}

	logging.FromContext(r.Context()).Debug("price rows served", "brand", brand, "rows", len(rows))
	writeJSON(w, http.StatusOK, resp)
}
