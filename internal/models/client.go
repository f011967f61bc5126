package models

import (
	"strings"
	"time"
)

// Client is a customer of the moving company.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Address string `gorm:"size:500" json:"address,omitempty" validate:"max=500"`
	// Contact is the name of the person to reach at the client.
	Contact string `gorm:"size:255" json:"contact,omitempty" validate:"max=255"`
	Phone   string `gorm:"size:50" json:"phone,omitempty" validate:"max=50"`
	Email   string `gorm:"size:255" json:"email,omitempty" validate:"omitempty,email,max=255"`
}

func (Client) TableName() string { return "clients" }

// DisplayName returns the name used on printed documents.
func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Contact != "" && !strings.EqualFold(c.Contact, c.Name) {
		return c.Name + " (" + c.Contact + ")"
	}
	return c.Name
}
