package models

import "time"

// ProfileRole groups what a logged-in user may do.
type ProfileRole string

const (
	ProfileRoleAdmin ProfileRole = "admin"
	ProfileRoleStaff ProfileRole = "staff"
)

// Profile is an application user. Stored in the profiles relation.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName string      `gorm:"size:255" json:"full_name,omitempty"`
	Role     ProfileRole `gorm:"size:20;default:'staff'" json:"role"`
	Password string      `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON
}

func (Profile) TableName() string { return "profiles" }

// IsAdmin reports whether the profile may delete records.
func (p *Profile) IsAdmin() bool {
	return p.Role == ProfileRoleAdmin
}
