package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarEvent is a user-created entry on the calendar (a site visit, a
// reminder) that is not backed by a service.
type CalendarEvent struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartAt     time.Time `gorm:"not null;index" json:"start_at"`
	EndAt       time.Time `gorm:"not null" json:"end_at"`
	AllDay      bool      `gorm:"default:false" json:"all_day"`
	Color       string    `gorm:"size:20" json:"color,omitempty"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

// BeforeCreate generates the UUID and defaults the end time.
func (e *CalendarEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.EndAt.IsZero() || e.EndAt.Before(e.StartAt) {
		e.EndAt = e.StartAt.Add(time.Hour)
	}
	return nil
}
