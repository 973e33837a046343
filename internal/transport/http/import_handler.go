package http

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importResponse struct {
	domain.ImportSummary
	Message string `json:"message"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseImportKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var opts app.ImportOptions
	if opts.DryRun, err = boolParam(r, "dry_run"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.TrackCreated, err = boolParam(r, "track_created"); err != nil {
		s.writeError(w, r, err)
		return
	}

	rows, err := s.readImportRows(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.importer.Import(r.Context(), kind, rows, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{ImportSummary: summary, Message: summary.Message()})
}

// readImportRows accepts either a multipart spreadsheet upload or a JSON array of rows.
func (s *Server) readImportRows(w http.ResponseWriter, r *http.Request) ([]app.RawRow, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, domain.NewValidationError("file", "spreadsheet upload is required")
		}
		defer file.Close()
		rows, err := spreadsheet.ReadRows(file)
		if err != nil {
			return nil, domain.NewValidationError("file", "Error reading file: %v", err)
		}
		return rows, nil
	}

	var rows []app.RawRow
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, domain.NewValidationError("body", "expected a JSON array of rows: %v", err)
	}
	return rows, nil
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []domain.ImportSummary{})
		return
	}
	var kind domain.ImportKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k, err := domain.ParseImportKind(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		kind = k
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, domain.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}
	list, err := s.history.List(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseImportKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var sheet spreadsheet.Sheet
	switch kind {
	case domain.ImportMainCategories:
		cats, err := s.catalog.ListMainCategories(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sheet = spreadsheet.MainCategoriesSheet(cats)
	case domain.ImportSubCategories:
		subs, err := s.catalog.ListSubCategories(r.Context(), r.URL.Query().Get("main_category_id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sheet = spreadsheet.SubCategoriesSheet(subs)
	case domain.ImportQuestions:
		f, err := questionFilter(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		questions, err := s.catalog.ListQuestions(r.Context(), f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sheet = spreadsheet.QuestionsSheet(questions)
	}
	s.writeWorkbook(w, r, spreadsheet.ExportFilename(kind), sheet)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseImportKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sheet, err := spreadsheet.Template(kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeWorkbook(w, r, spreadsheet.TemplateFilename(kind), sheet)
}

func (s *Server) writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, sheet spreadsheet.Sheet) {
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, sheet); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
