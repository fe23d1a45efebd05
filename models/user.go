package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleCustomer        = "customer"
	RoleSaleStaff       = "sale_staff"
	RoleDesignStaff     = "design_staff"
	RoleProductionStaff = "production_staff"
	RoleManager         = "manager"
	RoleAdmin           = "admin"
)

// StaffRoles are the roles that can be assigned to work on a request.
var StaffRoles = []string{RoleSaleStaff, RoleDesignStaff, RoleProductionStaff, RoleManager}

// User represents an account in the system (customer, staff, manager or admin)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'customer'" json:"role"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user holds a role that can be assigned to requests.
func (u *User) IsStaff() bool {
	for _, r := range StaffRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}
