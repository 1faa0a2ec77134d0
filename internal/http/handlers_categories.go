package http

import (
	"net/http"
	"time"

	"mybudget/internal/core"
)

type categoryRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	ParentID string `json:"parentId"`
}

type categoryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewOfCategory(c core.Category) categoryView {
	return categoryView{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context(), s.ownerID(r))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, viewOfCategory(c))
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.store.CreateCategory(r.Context(), core.Category{
		OwnerID:  s.ownerID(r),
		Name:     sanitizeInput(req.Name),
		Type:     core.TransactionType(req.Type),
		Color:    sanitizeInput(req.Color),
		ParentID: sanitizeInput(req.ParentID),
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusCreated, viewOfCategory(created))
}

// handleDeleteCategory removes a category; its transactions stay and become
// uncategorized, its budgets go with it.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCategory(r.Context(), s.ownerID(r), r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
