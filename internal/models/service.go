package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceStatus is the lifecycle state of a moving service.
type ServiceStatus string

const (
	ServiceStatusPending    ServiceStatus = "pending"
	ServiceStatusConfirmed  ServiceStatus = "confirmed"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusDone       ServiceStatus = "done"
	ServiceStatusCancelled  ServiceStatus = "cancelled"
	ServiceStatusPostponed  ServiceStatus = "postponed"
)

// Valid reports whether s is a known status.
func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusPending, ServiceStatusConfirmed, ServiceStatusInProgress,
		ServiceStatusDone, ServiceStatusCancelled, ServiceStatusPostponed:
		return true
	}
	return false
}

// Service is a scheduled job (a move, a packing session, storage...) stored in
// the prestations relation.
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"-"`
	// ClientName is filled from the client join when the service is read.
	ClientName string `gorm:"-" json:"client_name,omitempty"`

	Type               string        `gorm:"size:100;not null" json:"type"`
	Description        string        `gorm:"type:text" json:"description,omitempty"`
	OriginAddress      string        `gorm:"size:500" json:"origin_address,omitempty"`
	DestinationAddress string        `gorm:"size:500" json:"destination_address,omitempty"`
	ScheduledAt        time.Time     `gorm:"index;not null" json:"scheduled_at"`
	Status             ServiceStatus `gorm:"size:20;default:'pending';index" json:"status"`

	RequiredStaffCount    int `gorm:"not null;default:0" json:"required_staff_count"`
	RequiredHandlersCount int `gorm:"not null;default:0" json:"required_handlers_count"`

	Price decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`
}

func (Service) TableName() string { return "prestations" }

// IsActive reports whether the service still needs crews and trucks.
func (s *Service) IsActive() bool {
	return s.Status != ServiceStatusCancelled && s.Status != ServiceStatusDone
}
