package http

import (
	"net/http"

	"seenjeem-admin/internal/domain"
)

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, domain.NewValidationError("file", "media upload is required"))
		return
	}
	defer file.Close()

	res, err := s.media.Upload(r.Context(), r.URL.Query().Get("folder"), header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, r, domain.NewValidationError("url", "is required"))
		return
	}
	s.media.Remove(r.Context(), url)
	w.WriteHeader(http.StatusNoContent)
}
