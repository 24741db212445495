package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/campusfund/fee-api/model"
	"gorm.io/gorm"
)

// DepartmentDetail is a department page payload: the department's students
// ranked by paid amount plus its collection rollup.
type DepartmentDetail struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	StudentCount   int64           `json:"student_count"`
	TotalCollected float64         `json:"total_collected"`
	Target         float64         `json:"target"`
	Students       []model.Student `json:"students"`
}

// DepartmentService manages departments and their cascade lifecycle
type DepartmentService struct {
	db *gorm.DB
}

// NewDepartmentService creates a new department service
func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{db: db}
}

// CreateDepartment creates a department with a unique name
func (s *DepartmentService) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	var existing model.Department
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, ErrDepartmentExists
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check department name: %w", err)
	}

	department := model.Department{Name: name}
	if err := s.db.WithContext(ctx).Create(&department).Error; err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return &department, nil
}

// ListDepartments returns every department with its collection rollup,
// ordered by name.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]DepartmentSummary, error) {
	return departmentRollups(s.db.WithContext(ctx))
}

// GetDepartment returns the department detail view with students ordered
// by paid amount, highest first.
func (s *DepartmentService) GetDepartment(ctx context.Context, departmentID uint) (*DepartmentDetail, error) {
	var department model.Department
	err := s.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB {
			return db.Order("amount_paid DESC")
		}).
		First(&department, departmentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch department: %w", err)
	}

	detail := &DepartmentDetail{
		ID:           department.ID,
		Name:         department.Name,
		StudentCount: int64(len(department.Students)),
		Students:     department.Students,
	}
	for _, st := range department.Students {
		detail.TotalCollected += st.AmountPaid
	}
	detail.Target = model.DepartmentTarget(detail.StudentCount)

	// Preload ordering is driver-dependent for ties; make it deterministic
	sort.SliceStable(detail.Students, func(i, j int) bool {
		return detail.Students[i].AmountPaid > detail.Students[j].AmountPaid
	})

	return detail, nil
}

// DeleteDepartment removes a department along with all of its students and
// their contributions in one transaction.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, departmentID uint) error {
	var department model.Department
	if err := s.db.WithContext(ctx).First(&department, departmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to fetch department: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id IN (?)",
			tx.Model(&model.Student{}).Select("id").Where("department_id = ?", departmentID),
		).Delete(&model.Contribution{}).Error; err != nil {
			return fmt.Errorf("failed to delete contributions: %w", err)
		}

		if err := tx.Where("department_id = ?", departmentID).Delete(&model.Student{}).Error; err != nil {
			return fmt.Errorf("failed to delete students: %w", err)
		}

		if err := tx.Delete(&department).Error; err != nil {
			return fmt.Errorf("failed to delete department: %w", err)
		}

		return nil
	})
}
