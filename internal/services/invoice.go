package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/fallback"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate applies when an invoice is created without a rate.
var DefaultTaxRate = decimal.RequireFromString("0.2")

// InvoiceInput is the create/update payload of an invoice. Derived amounts
// are not accepted: they are always computed.
type InvoiceInput struct {
	Number        string               `json:"number"`
	ClientID      uint                 `json:"client_id"`
	PrestationID  *uint                `json:"prestation_id"`
	AmountExclTax Amount               `json:"amount_excl_tax"`
	TaxRate       Rate                 `json:"tax_rate"`
	IssueDate     Date                 `json:"issue_date"`
	DueDate       Date                 `json:"due_date"`
	Status        models.InvoiceStatus `json:"status"`
	Notes         string               `json:"notes"`
}

type InvoiceService struct{ Deps }

func NewInvoiceService(d Deps) *InvoiceService { return &InvoiceService{d} }

// Totals is the single place consumers get an invoice's money breakdown from.
func (s *InvoiceService) Totals(inv *models.Invoice) finance.Totals {
	return inv.Totals()
}

func (s *InvoiceService) List(ctx context.Context, f store.InvoiceFilter) ListResult[models.Invoice] {
	return cachedList(ctx, s.Fallback, fallback.KeyInvoices, !f.IsZero(), f.Match,
		func(ctx context.Context) ([]models.Invoice, error) { return s.Repo.Invoices.List(ctx, store.InvoiceFilter{}) },
		func(ctx context.Context) ([]models.Invoice, error) { return s.Repo.Invoices.List(ctx, f) },
	)
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.Repo.Invoices.Get(ctx, id)
}

// GetWithClient returns the invoice and its client for printed documents.
func (s *InvoiceService) GetWithClient(ctx context.Context, id uint) (*models.Invoice, *models.Client, error) {
	return s.Repo.Invoices.GetWithClient(ctx, id)
}

func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	inv := &models.Invoice{}
	if err := s.apply(ctx, inv, in, true); err != nil {
		return nil, err
	}
	if err := s.Repo.Invoices.Create(ctx, inv); err != nil {
		logWrite("InvoiceService.Create", "create invoice", in, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationInvoices, feed.OpInsert, inv.ID)
	return inv, nil
}

func (s *InvoiceService) Update(ctx context.Context, id uint, in InvoiceInput) (*models.Invoice, error) {
	inv, err := s.Repo.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, inv, in, false); err != nil {
		return nil, err
	}
	if err := s.Repo.Invoices.Update(ctx, inv); err != nil {
		logWrite("InvoiceService.Update", "update invoice", id, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationInvoices, feed.OpUpdate, id)
	return inv, nil
}

// MarkPaid sets the invoice status to paid.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, err := s.Repo.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatusPaid
	if err := s.Repo.Invoices.Update(ctx, inv); err != nil {
		logWrite("InvoiceService.MarkPaid", "mark invoice paid", id, err)
		return nil, err
	}
	s.notify(ctx, feed.RelationInvoices, feed.OpUpdate, id)
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Invoices.Delete(ctx, id); err != nil {
		logWrite("InvoiceService.Delete", "delete invoice", id, err)
		return err
	}
	s.notify(ctx, feed.RelationInvoices, feed.OpDelete, id)
	return nil
}

// apply validates in and copies it onto inv. Nothing is written when a
// violation is found.
func (s *InvoiceService) apply(ctx context.Context, inv *models.Invoice, in InvoiceInput, creating bool) error {
	in.IssueDate = in.IssueDate.In(s.loc())
	in.DueDate = in.DueDate.In(s.loc())
	v := validation.Violations{}
	validation.RequiredID("client_id", in.ClientID, v)

	switch {
	case !in.AmountExclTax.Set:
		v["amount_excl_tax"] = "required"
	case in.AmountExclTax.Invalid:
		v["amount_excl_tax"] = "not_a_number"
	default:
		validation.NonNegativeDecimal("amount_excl_tax", in.AmountExclTax.Value, v)
	}

	rate := DefaultTaxRate
	if !creating {
		rate = inv.TaxRate
	}
	if in.TaxRate.Set {
		if in.TaxRate.Invalid {
			v["tax_rate"] = "not_a_number"
		} else {
			rate = in.TaxRate.Value
			validation.RangeDecimal("tax_rate", rate, decimal.Zero, decimal.NewFromInt(1), v)
		}
	}

	status := in.Status
	if status == "" {
		status = inv.Status
		if status == "" {
			status = models.InvoiceStatusPending
		}
	}
	if !status.Valid() {
		v["status"] = "invalid_value"
	}
	if in.IssueDate.Invalid {
		v["issue_date"] = "invalid_date"
	}
	if in.DueDate.Invalid {
		v["due_date"] = "invalid_date"
	}
	if in.IssueDate.Set && in.DueDate.Set && !in.IssueDate.Invalid && !in.DueDate.Invalid &&
		in.DueDate.Time.Before(in.IssueDate.Time) {
		v["due_date"] = "before_issue_date"
	}

	if in.ClientID != 0 {
		if _, err := s.Repo.Clients.Get(ctx, in.ClientID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			v["client_id"] = "not_found"
		}
	}
	if in.PrestationID != nil && *in.PrestationID != 0 {
		svc, err := s.Repo.Services.Get(ctx, *in.PrestationID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			v["prestation_id"] = "not_found"
		case err != nil:
			return err
		case in.ClientID != 0 && svc.ClientID != in.ClientID:
			v["prestation_id"] = "client_mismatch"
		}
	}
	if err := httpx.Invalid(v); err != nil {
		return err
	}

	if n := strings.TrimSpace(in.Number); n != "" {
		inv.Number = n
	}
	inv.ClientID = in.ClientID
	inv.PrestationID = nil
	if in.PrestationID != nil && *in.PrestationID != 0 {
		id := *in.PrestationID
		inv.PrestationID = &id
	}
	inv.AmountExclTax = in.AmountExclTax.Value
	inv.TaxRate = rate
	switch {
	case in.IssueDate.Set:
		inv.IssueDate = in.IssueDate.Time
	case inv.IssueDate.IsZero():
		inv.IssueDate = s.now()
	}
	if in.DueDate.Set || creating {
		inv.DueDate = in.DueDate.Ptr()
	}
	inv.Status = status
	inv.Notes = strings.TrimSpace(in.Notes)
	return inv.Recompute()
}
