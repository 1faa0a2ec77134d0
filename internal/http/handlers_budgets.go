package http

import (
	"net/http"
	"time"

	"mybudget/internal/core"
)

type budgetRequest struct {
	Amount     core.Money `json:"amount"`
	Month      string     `json:"month"`
	CategoryID string     `json:"categoryId"` // empty caps the whole month
}

type budgetView struct {
	ID         string     `json:"id"`
	Amount     core.Money `json:"amount"`
	Month      string     `json:"month"`
	CategoryID string     `json:"categoryId,omitempty"`
	Overall    bool       `json:"overall"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func viewOfBudget(b core.Budget) budgetView {
	categoryID, _ := b.Scope.CategoryID()
	return budgetView{
		ID:         b.ID,
		Amount:     b.Amount,
		Month:      b.Month,
		CategoryID: categoryID,
		Overall:    b.Scope.IsOverall(),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	budgets, err := s.store.BudgetsForMonth(r.Context(), s.ownerID(r), month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, viewOfBudget(b))
	}
	writeData(w, http.StatusOK, views)
}

// handleUpsertBudget creates or replaces the budget for a month and scope.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Month == "" {
		req.Month = currentMonth()
	}

	saved, err := s.store.UpsertBudget(r.Context(), core.Budget{
		OwnerID: s.ownerID(r),
		Amount:  req.Amount,
		Month:   req.Month,
		Scope:   core.ScopeCategory(sanitizeInput(req.CategoryID)),
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, viewOfBudget(saved))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBudget(r.Context(), s.ownerID(r), r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
