// Package handler содержит HTTP-обработчики административного API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/drnine9/marketplace-web/internal/middleware"
	"github.com/drnine9/marketplace-web/internal/model"
	"github.com/drnine9/marketplace-web/internal/storage"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
	ConfirmInvoice(ctx context.Context, id string) error
	RejectInvoice(ctx context.Context, id string) error
}

// Handler реализует HTTP-обработчики административного API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	publicDir      string
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, publicDir string) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		publicDir:      publicDir,
	}
}

type invoicesResponse struct {
	Invoices []model.Invoice `json:"invoices"`
}

type invoiceIDRequest struct {
	ID string `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// ListInvoices возвращает все счета без фильтрации и пагинации.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListInvoices(r.Context())
	if err != nil {
		h.logger.Error("list invoices error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(invoicesResponse{Invoices: invoices}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// ConfirmInvoice переводит счёт в статус confirmed.
func (h *Handler) ConfirmInvoice(w http.ResponseWriter, r *http.Request) {
	h.updateInvoice(w, r, h.service.ConfirmInvoice)
}

// RejectInvoice переводит счёт в статус rejected.
func (h *Handler) RejectInvoice(w http.ResponseWriter, r *http.Request) {
	h.updateInvoice(w, r, h.service.RejectInvoice)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request, update func(context.Context, string) error) {
	var req invoiceIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err := update(r.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvoiceNotFound):
			writeOK(w, http.StatusNotFound, false)
		case errors.Is(err, storage.ErrInvoiceFinalized):
			writeOK(w, http.StatusConflict, false)
		default:
			h.logger.Error("update invoice error", zap.String("id", req.ID), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	writeOK(w, http.StatusOK, true)
}

func writeOK(w http.ResponseWriter, status int, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(okResponse{OK: ok})
}
