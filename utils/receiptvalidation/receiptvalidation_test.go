package receiptvalidation

import (
	"strings"
	"testing"
)

func TestValidateReceiptRejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  string
	}{
		{
			name:     "empty file",
			filename: "receipt.pdf",
			content:  []byte{},
			wantErr:  "File is empty",
		},
		{
			name:     "unsupported extension",
			filename: "receipt.exe",
			content:  []byte("MZ"),
			wantErr:  "Only PDF and image receipts are supported",
		},
		{
			name:     "pdf without header",
			filename: "receipt.pdf",
			content:  []byte("not a pdf at all"),
			wantErr:  "Invalid PDF file: missing PDF header",
		},
		{
			name:     "corrupt pdf body",
			filename: "receipt.pdf",
			content:  []byte("%PDF-1.4 garbage"),
			wantErr:  "Failed to read PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateReceipt(tt.filename, tt.content, DefaultLimits)
			if result.Valid {
				t.Fatal("expected validation to fail")
			}
			if !strings.HasPrefix(result.Error, tt.wantErr) {
				t.Errorf("Error = %q, want prefix %q", result.Error, tt.wantErr)
			}
		})
	}
}

func TestValidateReceiptSizeLimit(t *testing.T) {
	limits := ReceiptLimits{MaxFileSizeMB: 1, MaxPDFPages: 10}
	content := make([]byte, 2*1024*1024)

	result := ValidateReceipt("receipt.png", content, limits)
	if result.Valid {
		t.Fatal("expected oversized file to fail validation")
	}
	if !strings.Contains(result.Error, "exceeds maximum allowed size") {
		t.Errorf("Error = %q, want size message", result.Error)
	}
}

func TestValidateReceiptImage(t *testing.T) {
	// Images only get size and extension checks
	result := ValidateReceipt("receipt.png", []byte{0x89, 'P', 'N', 'G'}, DefaultLimits)
	if !result.Valid {
		t.Fatalf("image receipt rejected: %s", result.Error)
	}
	if result.FileSize != 4 {
		t.Errorf("FileSize = %d, want 4", result.FileSize)
	}
}
