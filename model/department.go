package model

import (
	"time"
)

// Department represents an academic department collecting fees
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Students []Student `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// DefaultStudentTarget is the per-student collection goal used when no
// explicit target is assigned. Bulk import and department rollups both
// derive targets from it.
const DefaultStudentTarget float64 = 5000

// DepartmentTarget returns the collection goal for a department with
// studentCount enrolled students. Departments with no students still carry
// the minimum single-student goal.
func DepartmentTarget(studentCount int64) float64 {
	target := float64(studentCount) * DefaultStudentTarget
	if target < DefaultStudentTarget {
		return DefaultStudentTarget
	}
	return target
}
