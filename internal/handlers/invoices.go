package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/export"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

type InvoiceHandler struct {
	svc     *services.InvoiceService
	loc     *time.Location
	company string
}

func NewInvoiceHandler(svc *services.InvoiceService, loc *time.Location, company string) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, loc: loc, company: company}
}

// List accepts client_id, prestation_id, status, from and to filters. The
// range applies to the issue date.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	f := store.InvoiceFilter{
		ClientID:     queryID(r, "client_id", v),
		PrestationID: queryID(r, "prestation_id", v),
		Status:       models.InvoiceStatus(r.URL.Query().Get("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		v["status"] = "invalid_value"
	}
	rng, err := dateRange(r, h.loc)
	if err != nil {
		httpx.Error(w, err, "list_invoices")
		return
	}
	if err := httpx.Invalid(v); err != nil {
		httpx.Error(w, err, "list_invoices")
		return
	}
	f.Range = rng
	writeList(w, h.svc.List(r.Context(), f))
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "get_invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.InvoiceInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, err, "create_invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.InvoiceInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		httpx.Error(w, err, "update_invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "mark_invoice_paid")
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_invoice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Print renders the invoice as a standalone HTML page that opens the print
// dialog.
func (h *InvoiceHandler) Print(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, client, err := h.svc.GetWithClient(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "print_invoice")
		return
	}
	renderHTML(w, "invoice.html", map[string]any{
		"Invoice":    inv,
		"Client":     client,
		"ClientName": client.DisplayName(),
		"Totals":     h.svc.Totals(inv),
		"Company":    h.company,
	}, "InvoiceHandler.Print")
}

// PDF streams the invoice as a PDF download.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, client, err := h.svc.GetWithClient(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "invoice_pdf")
		return
	}
	b, err := export.InvoicePDF(h.company, inv, client)
	if err != nil {
		logging.LogError(logging.Get(), "handlers", "InvoiceHandler.PDF", "generate invoice pdf", id, err)
		httpx.JSONError(w, http.StatusInternalServerError, "invoice_pdf_failed", nil)
		return
	}
	attachment(w, "application/pdf", inv.Number+".pdf")
	_, _ = w.Write(b)
}
