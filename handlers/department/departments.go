package department

import (
	"errors"
	"strconv"

	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/campusfund/fee-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	db        *gorm.DB
	service   *services.DepartmentService
	validator *validation.Validator
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(db *gorm.DB, service *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		db:        db,
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateDepartmentRequest represents a department creation request
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// ListDepartments returns all departments with their collection rollups
// GET /departments
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch departments")
	}

	return response.Success(c, fiber.Map{
		"departments": departments,
	})
}

// GetDepartment returns a single department with its student roster
// GET /departments/:id
func (h *DepartmentHandler) GetDepartment(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	detail, err := h.service.GetDepartment(c.Context(), uint(departmentID))
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to fetch department")
	}

	return response.Success(c, detail)
}

// CreateDepartment creates a new department
// POST /departments (admin)
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	department, err := h.service.CreateDepartment(c.Context(), req.Name)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentExists) {
			return response.Conflict(c, "A department with this name already exists")
		}
		return response.InternalServerError(c, "Failed to create department")
	}

	return response.Created(c, department)
}

// DeleteDepartment removes a department together with its students and
// their contributions
// DELETE /departments/:id (admin)
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.service.DeleteDepartment(c.Context(), uint(departmentID)); err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to delete department")
	}

	return response.SuccessWithMessage(c, "Department deleted successfully", nil)
}
