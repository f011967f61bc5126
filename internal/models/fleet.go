package models

import "time"

// VehicleStatus is the availability of a truck or van.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusInUse        VehicleStatus = "in_use"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusInUse, VehicleStatusMaintenance, VehicleStatusOutOfService:
		return true
	}
	return false
}

// Vehicle is a fleet vehicle, stored in the vehicules relation.
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Registration        string        `gorm:"size:20;uniqueIndex;not null" json:"registration" validate:"required,max=20"`
	Model               string        `gorm:"size:100" json:"model,omitempty" validate:"max=100"`
	CapacityM3          float64       `gorm:"default:0" json:"capacity_m3" validate:"gte=0"`
	Status              VehicleStatus `gorm:"size:20;default:'available'" json:"status"`
	NextMaintenanceDate *time.Time    `json:"next_maintenance_date,omitempty"`
}

func (Vehicle) TableName() string { return "vehicules" }

// EmployeeStatus is the availability of a crew member.
type EmployeeStatus string

const (
	EmployeeStatusAvailable EmployeeStatus = "available"
	EmployeeStatusOnMission EmployeeStatus = "on_mission"
	EmployeeStatusOnLeave   EmployeeStatus = "on_leave"
	EmployeeStatusSick      EmployeeStatus = "sick"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusAvailable, EmployeeStatusOnMission, EmployeeStatusOnLeave, EmployeeStatusSick:
		return true
	}
	return false
}

// Employee is a crew member (driver, handler, team lead).
type Employee struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName string         `gorm:"size:100;not null" json:"first_name" validate:"required,max=100"`
	LastName  string         `gorm:"size:100;not null" json:"last_name" validate:"required,max=100"`
	Role      string         `gorm:"size:50" json:"role,omitempty" validate:"max=50"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty" validate:"max=50"`
	Email     string         `gorm:"size:255" json:"email,omitempty" validate:"omitempty,email,max=255"`
	Status    EmployeeStatus `gorm:"size:20;default:'available'" json:"status"`
}

func (Employee) TableName() string { return "employees" }

// FullName returns "First Last".
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
