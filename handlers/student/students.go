package student

import (
	"errors"
	"strconv"

	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/campusfund/fee-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StudentHandler handles student endpoints
type StudentHandler struct {
	db        *gorm.DB
	students  *services.StudentService
	dashboard *services.DashboardService
	validator *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB, students *services.StudentService, dashboard *services.DashboardService) *StudentHandler {
	return &StudentHandler{
		db:        db,
		students:  students,
		dashboard: dashboard,
		validator: validation.NewValidator(),
	}
}

// CreateStudentRequest represents a manual student creation request
type CreateStudentRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=255"`
	AdmissionNumber string  `json:"admission_number,omitempty"`
	DepartmentID    uint    `json:"department_id" validate:"required"`
	AmountPaid      float64 `json:"amount_paid"`
}

// GetStudent returns a student with their full contribution history
// GET /students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	detail, err := h.dashboard.GetStudentDetail(c.Context(), uint(studentID))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	return response.Success(c, detail)
}

// ListStudents returns the students of a department ordered by amount paid
// GET /departments/:id/students
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	students, err := h.students.ListStudents(c.Context(), uint(departmentID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	return response.Success(c, fiber.Map{
		"students": students,
	})
}

// CreateStudent adds a single student to a department
// POST /students (admin)
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var admissionNumber *string
	if trimmed := validation.SanitizeString(req.AdmissionNumber); trimmed != "" {
		admissionNumber = &trimmed
	}

	student, err := h.students.CreateStudent(c.Context(), req.Name, admissionNumber, req.DepartmentID, req.AmountPaid)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		if errors.Is(err, services.ErrInvalidAmount) {
			return response.BadRequest(c, "Amount paid must not be negative")
		}
		return response.InternalServerError(c, "Failed to create student")
	}

	return response.Created(c, student)
}
