package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gofinances/internal/core"
	applog "gofinances/internal/log"
	"gofinances/internal/services"
)

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      core.Balance       `json:"balance"`
}

type healthResponse struct {
	Status             string `json:"status"`
	Uptime             string `json:"uptime"`
	TotalRequests      int64  `json:"total_requests"`
	LastResponseTimeUs int64  `json:"last_response_time_us"`
	SuspiciousRequests int64  `json:"suspicious_requests"`
	RateLimitedClients int    `json:"rate_limited_clients"`
}

// handleHealth performs basic liveness check and reports request counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	trace := s.tracer.GetMetrics()
	resp := healthResponse{
		Status:             "ok",
		Uptime:             time.Since(s.started).Round(time.Second).String(),
		TotalRequests:      trace.TotalRequests,
		LastResponseTimeUs: trace.LastResponseTimeUs,
		SuspiciousRequests: s.detector.GetMetrics().SuspiciousRequests,
	}
	if s.rateLimiter != nil {
		resp.RateLimitedClients = s.rateLimiter.ActiveClients()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReady checks that the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.backend.Ready(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		s.internalError(w, r, "Category list error", err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, balance, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		s.internalError(w, r, "Transaction list error", err, applog.OpList)
		return
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: txs, Balance: balance})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := parseCreateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Formato de requisição inválido")
		return
	}

	tx, err := s.backend.CreateTransaction(ctx, n)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, services.Message(err))
			return
		}
		s.internalError(w, r, "Transaction create error", err, applog.OpCreate)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).LogTransactionCreated(ctx,
		tx.ID, tx.Title, tx.Value.String(), string(tx.Type), tx.Category.Title)
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID obrigatório")
		return
	}

	if err := s.backend.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transação não encontrada")
			return
		}
		s.internalError(w, r, "Transaction delete error", err, applog.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	ctx := r.Context()
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, msg, err, applog.ComponentHTTP, op, nil)
	writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
}
