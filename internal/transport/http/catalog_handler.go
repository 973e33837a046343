package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
)

func (s *Server) handleListMainCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListMainCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(cats))
}

func (s *Server) handleCreateMainCategory(w http.ResponseWriter, r *http.Request) {
	var in app.MainCategoryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.catalog.CreateMainCategory(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateMainCategory(w http.ResponseWriter, r *http.Request) {
	var patch app.MainCategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.catalog.UpdateMainCategory(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleToggleMainCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.ToggleMainCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteMainCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteMainCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubCategories(w http.ResponseWriter, r *http.Request) {
	subs, err := s.catalog.ListSubCategories(r.Context(), r.URL.Query().Get("main_category_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(subs))
}

func (s *Server) handleCreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var in app.SubCategoryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.catalog.CreateSubCategory(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	var patch app.SubCategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.catalog.UpdateSubCategory(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleToggleSubCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.ToggleSubCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteSubCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func questionFilter(r *http.Request) (app.QuestionFilter, error) {
	q := r.URL.Query()
	points, err := pointsParam(r, "points")
	if err != nil {
		return app.QuestionFilter{}, err
	}
	return app.QuestionFilter{
		MainCategoryID: q.Get("main_category_id"),
		SubCategoryID:  q.Get("sub_category_id"),
		Points:         points,
		Status:         domain.QuestionStatus(q.Get("status")),
		Search:         q.Get("search"),
	}, nil
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, emptyIfNil(questions))
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.catalog.CreateQuestion(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var patch app.QuestionPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.catalog.UpdateQuestion(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleToggleQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.catalog.ToggleQuestionStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type duplicateResponse struct {
	Duplicate bool `json:"duplicate"`
	// Coverage counts the sub-category's questions per tier so the form can offer free tiers.
	Coverage map[domain.PointTier]int `json:"coverage"`
}

func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sub := q.Get("sub_category_id")
	if sub == "" {
		s.writeError(w, r, domain.NewValidationError("sub_category_id", "is required"))
		return
	}
	points, err := pointsParam(r, "points")
	if err == nil && points == 0 {
		err = domain.NewValidationError("points", "is required")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dup, err := s.catalog.CheckDuplicate(r.Context(), sub, points, q.Get("exclude_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	coverage, err := s.catalog.SubCategoryCoverage(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, duplicateResponse{Duplicate: dup, Coverage: coverage})
}
