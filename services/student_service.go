package services

import (
	"context"
	"fmt"

	"github.com/campusfund/fee-api/model"
	"gorm.io/gorm"
)

// StudentService creates individual students from the admin form
type StudentService struct {
	db *gorm.DB
}

// NewStudentService creates a new student service
func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// CreateStudent adds a single student to a department. The initial paid
// amount defaults to zero and status is derived from it, so manually added
// students follow the same rule as imported ones.
func (s *StudentService) CreateStudent(ctx context.Context, name string, admissionNumber *string, departmentID uint, amountPaid float64) (*model.Student, error) {
	var department model.Department
	if err := s.db.WithContext(ctx).First(&department, departmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch department: %w", err)
	}

	if amountPaid < 0 {
		return nil, ErrInvalidAmount
	}

	student := model.Student{
		Name:            name,
		AdmissionNumber: admissionNumber,
		DepartmentID:    department.ID,
		AmountPaid:      amountPaid,
		Target:          model.DefaultStudentTarget,
		Status:          model.DeriveStatus(amountPaid, model.DefaultStudentTarget),
	}

	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	return &student, nil
}

// ListStudents returns a department's students ordered by paid amount
func (s *StudentService) ListStudents(ctx context.Context, departmentID uint) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("amount_paid DESC").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}
