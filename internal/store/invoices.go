package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceFilter narrows an invoice listing. Range applies to the issue date.
type InvoiceFilter struct {
	ClientID     uint
	PrestationID uint
	Status       models.InvoiceStatus
	Range        finance.DateRange
}

// InvoiceRepo reads and writes the factures relation.
type InvoiceRepo struct{ crud[models.Invoice] }

func (r *InvoiceRepo) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := r.conn(ctx).Preload("Client").Preload("Prestation").
		Order("issue_date DESC").Order("id DESC")
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.PrestationID != 0 {
		q = q.Where("prestation_id = ?", f.PrestationID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	from, until := f.Range.Bounds()
	if !from.IsZero() {
		q = q.Where("issue_date >= ?", from)
	}
	if !until.IsZero() {
		q = q.Where("issue_date < ?", until)
	}
	out := []models.Invoice{}
	if err := q.Find(&out).Error; err != nil {
		return nil, listErr("factures", err)
	}
	for i := range out {
		flattenInvoice(&out[i])
	}
	return out, nil
}

func (r *InvoiceRepo) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, err := r.get(ctx, id, "Client", "Prestation")
	if err != nil {
		return nil, err
	}
	flattenInvoice(inv)
	return inv, nil
}

// GetWithClient returns the invoice with its full client record, used by the
// printed documents.
func (r *InvoiceRepo) GetWithClient(ctx context.Context, id uint) (*models.Invoice, *models.Client, error) {
	inv, err := r.get(ctx, id, "Client", "Prestation")
	if err != nil {
		return nil, nil, err
	}
	client := inv.Client
	flattenInvoice(inv)
	if client == nil {
		client = &models.Client{ID: inv.ClientID}
	}
	return inv, client, nil
}

// Create stores inv, assigning the next FAC-YYYY-NNNN number of its issue
// year when none is set. Totals are recomputed by the model hook.
func (r *InvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.Number == "" {
			n, err := nextNumber(tx, inv.IssueDate.Year())
			if err != nil {
				return err
			}
			inv.Number = n
		}
		return tx.Omit(clause.Associations).Create(inv).Error
	})
	if err != nil {
		return err
	}
	return r.fillJoins(ctx, inv)
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *models.Invoice) error {
	err := r.update(ctx, inv.ID, inv, func(e *models.Invoice) {
		inv.CreatedAt = e.CreatedAt
		if inv.Number == "" {
			inv.Number = e.Number
		}
	})
	if err != nil {
		return err
	}
	return r.fillJoins(ctx, inv)
}

func (r *InvoiceRepo) Delete(ctx context.Context, id uint) error {
	return r.delete(ctx, id)
}

func (r *InvoiceRepo) fillJoins(ctx context.Context, inv *models.Invoice) error {
	var c models.Client
	if err := r.conn(ctx).Select("id", "name").Where("id = ?", inv.ClientID).Limit(1).Find(&c).Error; err != nil {
		return err
	}
	inv.ClientName = c.Name
	inv.ServiceType = ""
	if inv.PrestationID != nil {
		var s models.Service
		if err := r.conn(ctx).Select("id", "type").Where("id = ?", *inv.PrestationID).Limit(1).Find(&s).Error; err != nil {
			return err
		}
		inv.ServiceType = s.Type
	}
	return nil
}

// nextNumber returns the number following the highest one issued in year.
func nextNumber(tx *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("FAC-%d-", year)
	var numbers []string
	if err := tx.Model(&models.Invoice{}).Where("number LIKE ?", prefix+"%").Pluck("number", &numbers).Error; err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	var max int64
	for _, n := range numbers {
		seq, err := strconv.ParseInt(strings.TrimPrefix(n, prefix), 10, 64)
		if err == nil && seq > max {
			max = seq
		}
	}
	return models.FormatInvoiceNumber(year, max+1), nil
}

// flattenInvoice copies the joined client and service into the DTO fields.
func flattenInvoice(inv *models.Invoice) {
	if inv.Client != nil {
		inv.ClientName = inv.Client.Name
	}
	if inv.Prestation != nil {
		inv.ServiceType = inv.Prestation.Type
	}
	inv.Client = nil
	inv.Prestation = nil
}

// IsZero reports whether the filter selects every invoice.
func (f InvoiceFilter) IsZero() bool {
	return f.ClientID == 0 && f.PrestationID == 0 && f.Status == "" && f.Range.IsZero()
}

// Match applies the filter to an already loaded invoice.
func (f InvoiceFilter) Match(inv *models.Invoice) bool {
	if f.ClientID != 0 && inv.ClientID != f.ClientID {
		return false
	}
	if f.PrestationID != 0 && (inv.PrestationID == nil || *inv.PrestationID != f.PrestationID) {
		return false
	}
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	return f.Range.IsZero() || f.Range.Contains(inv.IssueDate)
}
