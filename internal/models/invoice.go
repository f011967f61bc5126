package models

import (
	"fmt"
	"time"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a bill sent to a client, stored in the factures relation.
// TaxAmount and AmountInclTax are derived: they are recomputed from
// AmountExclTax and TaxRate every time the record is saved.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Number string `gorm:"size:50;uniqueIndex" json:"number"`

	ClientID   uint    `gorm:"index;not null" json:"client_id"`
	Client     *Client `gorm:"foreignKey:ClientID" json:"-"`
	ClientName string  `gorm:"-" json:"client_name,omitempty"`

	PrestationID *uint    `gorm:"index" json:"prestation_id,omitempty"`
	Prestation   *Service `gorm:"foreignKey:PrestationID" json:"-"`
	ServiceType  string   `gorm:"-" json:"service_type,omitempty"`

	AmountExclTax decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_excl_tax"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"tax_rate"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	AmountInclTax decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_incl_tax"`

	IssueDate time.Time     `gorm:"not null;index" json:"issue_date"`
	DueDate   *time.Time    `json:"due_date,omitempty"`
	Status    InvoiceStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Notes     string        `gorm:"type:text" json:"notes,omitempty"`
}

func (Invoice) TableName() string { return "factures" }

// BeforeSave keeps the derived amounts in line with the stored inputs.
func (i *Invoice) BeforeSave(_ *gorm.DB) error {
	return i.Recompute()
}

// Recompute refreshes TaxAmount and AmountInclTax from the invoice's own
// pre-tax amount and tax rate.
func (i *Invoice) Recompute() error {
	t, err := finance.Compute(i.AmountExclTax, i.TaxRate)
	if err != nil {
		return err
	}
	i.TaxAmount = t.TaxAmount
	i.AmountInclTax = t.AmountInclTax
	return nil
}

// Totals returns the money breakdown computed from the record's own fields.
func (i *Invoice) Totals() finance.Totals {
	return finance.MustCompute(i.AmountExclTax, i.TaxRate)
}

// IsPaid returns true once the invoice has been settled.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// DaysPastDue returns how many whole days the due date lies before today, or 0
// when there is no due date or it is not past.
func (i *Invoice) DaysPastDue(today time.Time) int {
	if i.DueDate == nil || i.DueDate.IsZero() {
		return 0
	}
	due := finance.Day(*i.DueDate, today.Location())
	now := finance.Day(today, today.Location())
	if !due.Before(now) {
		return 0
	}
	return int(now.Sub(due).Hours()/24 + 0.5)
}

// RevenueEntry projects the invoice for revenue aggregation.
func (i *Invoice) RevenueEntry() finance.RevenueEntry {
	return finance.RevenueEntry{
		Paid:          i.IsPaid(),
		IssueDate:     i.IssueDate,
		AmountInclTax: i.AmountInclTax,
	}
}

// RevenueEntries projects a list of invoices for revenue aggregation.
func RevenueEntries(invoices []Invoice) []finance.RevenueEntry {
	out := make([]finance.RevenueEntry, 0, len(invoices))
	for i := range invoices {
		out = append(out, invoices[i].RevenueEntry())
	}
	return out
}

// FormatInvoiceNumber renders the FAC-YYYY-NNNN invoice number.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("FAC-%d-%04d", year, seq)
}
