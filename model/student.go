package model

import (
	"time"
)

// Student represents a student tracked against a fee collection target
type Student struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Name            string        `gorm:"type:varchar(255);not null;index" json:"name"`
	AdmissionNumber *string       `gorm:"type:varchar(100)" json:"admission_number,omitempty"`
	DepartmentID    uint          `gorm:"not null;index" json:"department_id"`
	AmountPaid      float64       `gorm:"not null;default:0" json:"amount_paid"`
	Target          float64       `gorm:"not null;default:5000" json:"target"`
	Status          PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `gorm:"index" json:"updated_at"`

	// Relationships
	Department    Department     `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"department,omitempty"`
	Contributions []Contribution `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"contributions,omitempty"`
}

// TableName specifies the table name for Student
func (Student) TableName() string {
	return "students"
}
