package importer

import (
	"errors"
	"io"
	"strconv"

	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// maxImportSizeBytes caps uploaded rosters. Real class lists are a few
// kilobytes; anything larger is a wrong file.
const maxImportSizeBytes = 5 * 1024 * 1024

// ImportHandler handles bulk student roster imports
type ImportHandler struct {
	db      *gorm.DB
	service *services.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(db *gorm.DB, service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		db:      db,
		service: service,
	}
}

// ImportStudents imports a CSV-style roster into a department. The request
// is multipart form data with a file field and a department_id field.
// POST /admin/import-students (admin)
func (h *ImportHandler) ImportStudents(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.FormValue("department_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Import file is required")
	}
	if fileHeader.Size > maxImportSizeBytes {
		return response.BadRequest(c, "Import file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read import file")
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return response.BadRequest(c, "Failed to read import file")
	}

	result, err := h.service.ImportStudents(c.Context(), string(content), uint(departmentID))
	if err != nil {
		if errors.Is(err, services.ErrEmptyImport) {
			return response.BadRequest(c, "Import file is empty")
		}
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to import students")
	}

	return response.SuccessWithMessage(c, result.Message, result)
}
