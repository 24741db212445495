package payment

import (
	"errors"
	"io"
	"strconv"

	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/utils/receiptvalidation"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/campusfund/fee-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentHandler handles payment recording endpoints
type PaymentHandler struct {
	db      *gorm.DB
	service *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		service: service,
	}
}

// RecordPayment records a payment against a student. The request is
// multipart form data with fields student_id, amount, reference and an
// optional receipt file.
// POST /admin/payments (admin)
func (h *PaymentHandler) RecordPayment(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.FormValue("student_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	amount, err := strconv.ParseFloat(c.FormValue("amount"), 64)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	reference := validation.SanitizeString(c.FormValue("reference"))

	var receipt *services.ReceiptUpload
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return response.BadRequest(c, "Failed to read receipt file")
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return response.BadRequest(c, "Failed to read receipt file")
		}

		result := receiptvalidation.ValidateReceipt(fileHeader.Filename, content, receiptvalidation.DefaultLimits)
		if !result.Valid {
			return response.BadRequest(c, result.Error)
		}

		receipt = &services.ReceiptUpload{
			Filename: fileHeader.Filename,
			Data:     content,
		}
	}

	payment, err := h.service.RecordPayment(c.Context(), uint(studentID), amount, reference, receipt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return response.BadRequest(c, "Payment amount must be a positive number")
		}
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to record payment")
	}

	return response.SuccessWithMessage(c, "Payment recorded successfully", payment)
}

// UpdateReferenceRequest represents a contribution reference edit
type UpdateReferenceRequest struct {
	Reference string `json:"reference"`
}

// UpdateContributionReference edits the reference note on a recorded
// contribution without touching its amount
// PUT /admin/contributions/:id (admin)
func (h *PaymentHandler) UpdateContributionReference(c *fiber.Ctx) error {
	contributionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid contribution ID")
	}

	var req UpdateReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	contribution, err := h.service.UpdateContributionReference(c.Context(), uint(contributionID), validation.SanitizeString(req.Reference))
	if err != nil {
		if errors.Is(err, services.ErrContributionNotFound) {
			return response.NotFound(c, "Contribution not found")
		}
		return response.InternalServerError(c, "Failed to update contribution")
	}

	return response.SuccessWithMessage(c, "Contribution updated successfully", contribution)
}
