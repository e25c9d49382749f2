package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drnine9/marketplace-web/internal/middleware"
	"github.com/drnine9/marketplace-web/internal/model"
	"github.com/drnine9/marketplace-web/internal/storage"
)

type stubService struct {
	invoices    []model.Invoice
	invoicesErr error

	confirmErr error
	rejectErr  error

	lastID string
}

func (s *stubService) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.invoices, s.invoicesErr
}

func (s *stubService) ConfirmInvoice(ctx context.Context, id string) error {
	s.lastID = id
	return s.confirmErr
}

func (s *stubService) RejectInvoice(ctx context.Context, id string) error {
	s.lastID = id
	return s.rejectErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-token")

	return NewHandler(svc, logger, auth, "")
}

func TestListInvoices(t *testing.T) {
	svc := &stubService{
		invoices: []model.Invoice{
			{
				ID:     "inv-1",
				UserID: 555,
				Type:   model.InvoiceTypeWalletCharge,
				Amount: decimal.NewFromInt(100),
				Status: model.InvoiceStatusPending,
			},
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/invoices", nil)
	rec := httptest.NewRecorder()

	h.ListInvoices(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp struct {
		Invoices []model.Invoice `json:"invoices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Invoices) != 1 || resp.Invoices[0].ID != "inv-1" {
		t.Fatalf("unexpected invoices: %+v", resp.Invoices)
	}
}

func postInvoiceUpdate(t *testing.T, handlerFunc http.HandlerFunc, id string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(invoiceIDRequest{ID: id})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/invoices/confirm", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handlerFunc(rec, req)

	return rec.Result()
}

func TestConfirmInvoice_OK(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := postInvoiceUpdate(t, h.ConfirmInvoice, "inv-1")
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if svc.lastID != "inv-1" {
		t.Fatalf("service called with id %q, want inv-1", svc.lastID)
	}

	var resp okResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Fatalf("ok = false, want true")
	}
}

func TestConfirmInvoice_NotFound(t *testing.T) {
	svc := &stubService{confirmErr: storage.ErrInvoiceNotFound}
	h := newTestHandler(t, svc)

	res := postInvoiceUpdate(t, h.ConfirmInvoice, "missing")
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}

	var resp okResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OK {
		t.Fatalf("ok = true, want false")
	}
}

func TestRejectInvoice_FinalizedConflict(t *testing.T) {
	svc := &stubService{rejectErr: storage.ErrInvoiceFinalized}
	h := newTestHandler(t, svc)

	res := postInvoiceUpdate(t, h.RejectInvoice, "inv-1")
	defer res.Body.Close()

	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
}

func TestUpdateInvoice_BadRequest(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/invoices/confirm", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.ConfirmInvoice(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRouter_RequiresAdminToken(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/invoices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/invoices", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want %d", rec.Code, http.StatusOK)
	}
}
