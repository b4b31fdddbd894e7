package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ginjaninja78/grn-comparison/internal/logging"
	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// errMissingUpload is returned when a request does not carry both files.
var errMissingUpload = errors.New("please upload both the old and the new report")

// page is the data rendered by templates/index.html.
type page struct {
	Reports []reporter.Report
	Result  *resultView
	Error   string
}

// resultView is one finished action as shown in the page.
type resultView struct {
	Report    reporter.Report
	ActionID  string
	Summary   template.HTML
	Empty     bool
	Headers   []string
	Rows      [][]string
	Total     int
	Truncated bool
	Download  template.URL
	Warnings  []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, page{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// handleReport runs one action and renders the result below the form.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind, err := reporter.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	oldInput, newInput, err := s.readUploads(w, r)
	if err != nil {
		s.renderPage(w, r, http.StatusBadRequest, page{Error: capitalize(err.Error()) + "."})
		return
	}

	res, err := s.reporter.Run(r.Context(), kind, oldInput, newInput)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, page{Result: s.newResultView(res)})
}

// handleReportAPI runs one action and answers with the workbook itself.
func (s *Server) handleReportAPI(w http.ResponseWriter, r *http.Request) {
	kind, err := reporter.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	oldInput, newInput, err := s.readUploads(w, r)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	res, err := s.reporter.Run(r.Context(), kind, oldInput, newInput)
	if err != nil {
		s.respondErrorJSON(w, r, err)
		return
	}

	w.Header().Set("X-Action-ID", res.ActionID)
	w.Header().Set("X-Report-Count", strconv.Itoa(res.Count))
	if !res.Downloadable() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	if _, err := w.Write(res.Data); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write report", "error", err)
	}
}

// readUploads reads the "old" and "new" files of a multipart form.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) (reporter.Input, reporter.Input, error) {
	if limit := s.cfg.MaxUploadBytes; limit > 0 {
		if r.ContentLength > limit {
			return reporter.Input{}, reporter.Input{}, fmt.Errorf("uploads exceed %d bytes", limit)
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return reporter.Input{}, reporter.Input{}, fmt.Errorf("uploads exceed %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return reporter.Input{}, reporter.Input{}, errMissingUpload
		}
		return reporter.Input{}, reporter.Input{}, fmt.Errorf("invalid upload form: %w", err)
	}

	oldInput, err := formFile(r, "old")
	if err != nil {
		return reporter.Input{}, reporter.Input{}, err
	}
	newInput, err := formFile(r, "new")
	if err != nil {
		return reporter.Input{}, reporter.Input{}, err
	}
	return oldInput, newInput, nil
}

func formFile(r *http.Request, field string) (reporter.Input, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return reporter.Input{}, errMissingUpload
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return reporter.Input{}, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return reporter.Input{Name: header.Filename, Data: data}, nil
}

// newResultView prepares a result for rendering, capping the preview rows.
func (s *Server) newResultView(res *reporter.Result) *resultView {
	v := &resultView{
		Report:   res.Report,
		ActionID: res.ActionID,
		Headers:  res.Table.Headers,
		Total:    res.Table.Len(),
		Empty:    res.Table.Len() == 0,
	}

	if res.Report.Kind == reporter.KindStatus {
		v.Summary = "Generated the full report with status:"
	} else {
		v.Summary = template.HTML(fmt.Sprintf("Found <strong>%d</strong> %s.",
			res.Count, template.HTMLEscapeString(res.Report.CountLabel)))
	}

	shown := v.Total
	if s.cfg.PreviewRows > 0 && shown > s.cfg.PreviewRows {
		shown = s.cfg.PreviewRows
		v.Truncated = true
	}
	v.Rows = make([][]string, shown)
	for i := 0; i < shown; i++ {
		cells := res.Table.Cells(i)
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = c.Text()
		}
		v.Rows[i] = row
	}

	if res.Downloadable() {
		v.Download = template.URL("data:" + xlsxContentType + ";base64," + base64.StdEncoding.EncodeToString(res.Data))
	}

	for _, issue := range res.Warnings {
		v.Warnings = append(v.Warnings, issue.String())
	}
	return v
}

// renderPage renders the shell page, buffering so a template error still
// produces a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, p page) {
	p.Reports = reporter.Reports()

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", p); err != nil {
		slog.Error("template render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
