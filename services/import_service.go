package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/campusfund/fee-api/model"
	"gorm.io/gorm"
)

// ImportResult reports the per-line outcome of a bulk student import
type ImportResult struct {
	SuccessCount int    `json:"count"`
	ErrorCount   int    `json:"errors"`
	Message      string `json:"message"`
}

// ImportService creates students in bulk from comma-delimited text
type ImportService struct {
	db *gorm.DB
}

// NewImportService creates a new import service
func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// ImportStudents parses line-oriented "name,admissionNumber,amountPaid"
// text and creates one student per valid line in the given department.
// Per-line failures are counted and skipped; only request-level problems
// (empty payload, unknown department) fail the whole call. Import always
// derives status against the fixed default target rather than a
// department-specific one.
func (s *ImportService) ImportStudents(ctx context.Context, rawText string, departmentID uint) (*ImportResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyImport
	}

	var department model.Department
	if err := s.db.WithContext(ctx).First(&department, departmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch department: %w", err)
	}

	lines := strings.Split(rawText, "\n")

	// Skip the header row when one is present
	start := 0
	if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0]), "name") {
		start = 1
	}

	result := &ImportResult{}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		name := strings.TrimSpace(fields[0])
		if name == "" {
			result.ErrorCount++
			continue
		}

		var admissionNumber *string
		if len(fields) > 1 {
			if adm := strings.TrimSpace(fields[1]); adm != "" {
				admissionNumber = &adm
			}
		}

		amountPaid := 0.0
		if len(fields) > 2 {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err == nil {
				amountPaid = parsed
			}
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
			log.Printf("failed to import line %d (%q): %v", i+1, line, err)
			result.ErrorCount++
			continue
		}
		result.SuccessCount++
	}

	result.Message = fmt.Sprintf("Successfully imported %d students", result.SuccessCount)
	if result.ErrorCount > 0 {
		result.Message += fmt.Sprintf(" with %d errors", result.ErrorCount)
	}

	return result, nil
}
