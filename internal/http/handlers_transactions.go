package http

import (
	"net/http"
	"time"

	"mybudget/internal/core"
)

type transactionRequest struct {
	Amount        core.Money `json:"amount"`
	Type          string     `json:"type"`
	Date          string     `json:"date"` // YYYY-MM-DD
	CategoryID    string     `json:"categoryId"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	PaymentMethod string     `json:"paymentMethod"`
}

func (req transactionRequest) toTransaction(ownerID, id string) (core.Transaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:            id,
		OwnerID:       ownerID,
		Amount:        req.Amount,
		Type:          core.TransactionType(req.Type),
		Date:          date,
		Category:      core.CategoryID(sanitizeInput(req.CategoryID)),
		Description:   sanitizeInput(req.Description),
		Notes:         sanitizeInput(req.Notes),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
	}, nil
}

type transactionView struct {
	ID            string     `json:"id"`
	Amount        core.Money `json:"amount"`
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	CategoryID    string     `json:"categoryId,omitempty"`
	Description   string     `json:"description,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func viewOfTransaction(t core.Transaction) transactionView {
	categoryID, _ := t.Category.ID()
	return transactionView{
		ID:            t.ID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Date:          t.Date.Format("2006-01-02"),
		CategoryID:    categoryID,
		Description:   t.Description,
		Notes:         t.Notes,
		PaymentMethod: t.PaymentMethod,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.store.ListTransactions(r.Context(), s.ownerID(r))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, viewOfTransaction(t))
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toTransaction(s.ownerID(r), "")
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusCreated, viewOfTransaction(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.GetTransaction(r.Context(), s.ownerID(r), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, viewOfTransaction(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toTransaction(s.ownerID(r), r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	updated, err := s.store.UpdateTransaction(r.Context(), tx)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, viewOfTransaction(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(r.Context(), s.ownerID(r), r.PathValue("id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
