package transport

import (
	"bytes"
	"net/http"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/middleware"
	"zenith-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TransactionRequest is a completed sale submitted by a register
type TransactionRequest struct {
	Items       []domain.CartItem `json:"items"`
	Total       float64           `json:"total"`
	Timestamp   int64             `json:"timestamp"`
	CashierID   string            `json:"cashierId"`
	CashierName string            `json:"cashierName"`
}

// RecordResponse acknowledges a stored transaction
type RecordResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TransactionHandler handles HTTP requests for sales history
type TransactionHandler struct {
	txService service.TransactionService
	logger    *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(txService service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// RegisterRoutes registers all transaction routes. authMiddleware, which may
// be nil, guards only the recording route.
func (h *TransactionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Group(func(r chi.Router) {
			if authMiddleware != nil {
				r.Use(authMiddleware)
			}
			r.Post("/", h.Record)
		})
		r.Get("/report", h.Report)
		r.Get("/export", h.Export)
	})
}

// Record stores a sale. Cashier fields missing from the body are taken from
// the request token, if any.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	tx := domain.Transaction{
		Items:       req.Items,
		Total:       req.Total,
		Timestamp:   req.Timestamp,
		CashierID:   req.CashierID,
		CashierName: req.CashierName,
	}
	if op, ok := middleware.GetOperator(r.Context()); ok && tx.CashierID == "" {
		tx.CashierID = op.ID
		tx.CashierName = op.Name
	}

	recorded, err := h.txService.Record(r.Context(), tx)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}

	h.logger.Info("Transaction recorded",
		zap.String("transaction_id", recorded.ID),
		zap.Float64("total", recorded.Total),
		zap.String("cashier_id", recorded.CashierID),
	)
	middleware.RespondOK(w, RecordResponse{ID: recorded.ID, Status: "success"})
}

// List returns the full transaction history
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, txs)
}

// Report returns aggregate sales figures
func (h *TransactionHandler) Report(w http.ResponseWriter, r *http.Request) {
	summary, err := h.txService.Report(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, summary)
}

// Export streams the history as CSV
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.txService.Export(r.Context(), &buf); err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write transaction export", zap.Error(err))
	}
}
