package model

import (
	"time"
)

// Contribution is an immutable record of a single payment event tied to a
// student. Only the free-text reference may be edited after creation;
// CreatedAt drives both newest-first ordering and daily aggregation.
type Contribution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Reference *string   `gorm:"type:text" json:"reference,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName specifies the table name for Contribution
func (Contribution) TableName() string {
	return "contributions"
}
