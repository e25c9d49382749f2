package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/drnine9/marketplace-web/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware административного API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/invoices", h.ListInvoices)
		r.Post("/invoices/confirm", h.ConfirmInvoice)
		r.Post("/invoices/reject", h.RejectInvoice)
	})

	// Статика web-app раздаётся как есть.
	if h.publicDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(h.publicDir)))
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
