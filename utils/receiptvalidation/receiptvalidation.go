package receiptvalidation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReceiptLimits defines the validation limits for receipt uploads
type ReceiptLimits struct {
	MaxFileSizeMB int // Maximum file size in MB
	MaxPDFPages   int // Maximum number of pages for PDF receipts
}

// DefaultLimits caps the proof-of-payment files admins may attach
var DefaultLimits = ReceiptLimits{
	MaxFileSizeMB: 10,
	MaxPDFPages:   10,
}

// allowedExtensions are the receipt file types accepted by the payment flow
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ValidationResult contains the result of receipt validation
type ValidationResult struct {
	Valid    bool
	FileSize int64
	Error    string
}

// ValidateReceipt validates an uploaded receipt against the given limits.
// PDF receipts are additionally checked for a sane structure and page
// count; image receipts only get size and extension checks.
func ValidateReceipt(filename string, content []byte, limits ReceiptLimits) *ValidationResult {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if result.FileSize > maxSize {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result
	}

	if result.FileSize == 0 {
		result.Error = "File is empty"
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		result.Error = "Only PDF and image receipts are supported"
		return result
	}

	if ext == ".pdf" {
		if !bytes.HasPrefix(content, []byte("%PDF-")) {
			result.Error = "Invalid PDF file: missing PDF header"
			return result
		}

		reader, err := pdf.NewReader(bytes.NewReader(content), result.FileSize)
		if err != nil {
			result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
			return result
		}

		pageCount := reader.NumPage()
		if pageCount == 0 {
			result.Error = "PDF has no pages"
			return result
		}
		if pageCount > limits.MaxPDFPages {
			result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages for a receipt",
				pageCount, limits.MaxPDFPages)
			return result
		}
	}

	result.Valid = true
	return result
}
