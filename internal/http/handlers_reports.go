package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	payload, err := s.reports.Dashboard(r.Context(), s.ownerID(r), month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, payload)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	payload, err := s.reports.Overview(r.Context(), s.ownerID(r))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, payload)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	payload, err := s.reports.MonthlyReport(r.Context(), s.ownerID(r), month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, payload)
}

func (s *Server) handlePocketReport(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	payload, err := s.reports.PocketReport(r.Context(), s.ownerID(r), month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, payload)
}

func (s *Server) handlePocketHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reports.PocketHistory(r.Context(), s.ownerID(r))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

type exportRequest struct {
	Month string `json:"month"`
}

type exportResponse struct {
	Month  string `json:"month"`
	Status string `json:"status"`
}

// handleExport accepts an export request and hands it to the queue (or runs
// it inline when no broker is configured).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Month == "" {
		req.Month = currentMonth()
	}

	if err := s.reports.RequestExport(r.Context(), s.ownerID(r), req.Month); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeData(w, http.StatusAccepted, exportResponse{Month: req.Month, Status: "accepted"})
}
