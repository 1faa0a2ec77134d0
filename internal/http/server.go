// Package http exposes the budgeting engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"mybudget/internal/core"
	"mybudget/internal/log"
	"mybudget/internal/middleware/ratelimit"
	"mybudget/internal/middleware/security"
	"mybudget/internal/middleware/trace"
	"mybudget/internal/report"
)

// ReportService assembles the read-side payloads served by the API.
type ReportService interface {
	Dashboard(ctx context.Context, ownerID, month string) (report.DashboardPayload, error)
	MonthlyReport(ctx context.Context, ownerID, month string) (report.MonthlyReportPayload, error)
	PocketReport(ctx context.Context, ownerID, month string) (report.PocketReportPayload, error)
	PocketHistory(ctx context.Context, ownerID string) ([]report.PocketHistoryEntry, error)
	Overview(ctx context.Context, ownerID string) (report.OverviewPayload, error)
	RequestExport(ctx context.Context, ownerID, month string) error
}

// Store is the persistence surface behind the write-side handlers.
type Store interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error)

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	ListCategories(ctx context.Context, ownerID string) ([]core.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error

	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	BudgetsForMonth(ctx context.Context, ownerID, month string) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, ownerID, id string) error
}

type Server struct {
	http.Server

	reports      ReportService
	store        Store
	defaultOwner string

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr, defaultOwner string, reports ReportService, store Store, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		reports:      reports,
		store:        store,
		defaultOwner: defaultOwner,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     security.NewDetector(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/reports", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/pocket/reports", s.handlePocketReport)
	mux.HandleFunc("GET /api/pocket/history", s.handlePocketHistory)
	mux.HandleFunc("POST /api/export", s.handleExport)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("PUT /api/budgets", s.handleUpsertBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger.WithComponent(log.ComponentHTTP), s.detector.ExtractClientIP, s.detector.DetectSuspiciousRequest)

	var handler http.Handler = mux
	handler = s.withRateLimit(handler)
	handler = tracer.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// withRateLimit throttles mutating requests per client IP. Reads stay
// unlimited so dashboards can poll freely.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(s.detector.ExtractClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeFailure(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background cleanup before draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
