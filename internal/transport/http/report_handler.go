package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d.LatestQuestions = emptyIfNil(d.LatestQuestions)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.reports.ListGames(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(games))
}

func (s *Server) handleListGamePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.reports.ListGamePlayers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(players))
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.reports.ListPayments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(payments))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.reports.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(users))
}
