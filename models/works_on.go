package models

import (
	"time"

	"gorm.io/gorm"
)

// WorksOn is the staff-to-request assignment record. One document per
// request; individual staff members are rows in works_on_staff.
type WorksOn struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RequestID uint           `gorm:"uniqueIndex;not null" json:"request_id"`
	Request   Request        `gorm:"foreignKey:RequestID" json:"-"`
	Staff     []WorksOnStaff `gorm:"foreignKey:WorksOnID" json:"staff"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the WorksOn model
func (WorksOn) TableName() string {
	return "works_on"
}

// WorksOnStaff is one staff assignment inside a WorksOn record.
// The unique index makes repeated adds of the same staff id idempotent.
type WorksOnStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WorksOnID uint      `gorm:"not null;index:idx_works_on_staff_member,unique" json:"works_on_id"`
	StaffID   uint      `gorm:"not null;index:idx_works_on_staff_member,unique" json:"staff_id"`
	StaffUser User      `gorm:"foreignKey:StaffID" json:"staff_user"`
	Role      string    `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the WorksOnStaff model
func (WorksOnStaff) TableName() string {
	return "works_on_staff"
}
