package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/campusfund/fee-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptStore is the file-storage collaborator used to persist payment
// receipts. A failed save is non-fatal to the payment flow.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, filename string, data []byte) (string, error)
}

// ReceiptUpload carries an optional proof-of-payment file attached to a
// payment.
type ReceiptUpload struct {
	Filename string
	Data     []byte
}

// PaymentResult reports the ledger movement caused by one recorded payment
type PaymentResult struct {
	PreviousAmount float64             `json:"previous_amount"`
	AddedAmount    float64             `json:"added_amount"`
	NewTotal       float64             `json:"new_total"`
	Status         model.PaymentStatus `json:"status"`
	Reference      *string             `json:"reference,omitempty"`
}

// PaymentService applies payments to the student ledger
type PaymentService struct {
	db       *gorm.DB
	receipts ReceiptStore
}

// NewPaymentService creates a new payment service. receipts may be nil when
// no receipt storage is configured; payments then proceed without file
// references.
func NewPaymentService(db *gorm.DB, receipts ReceiptStore) *PaymentService {
	return &PaymentService{
		db:       db,
		receipts: receipts,
	}
}

// RecordPayment adds amount to a student's cumulative total, re-derives
// their status and appends a contribution entry, all inside one
// transaction. The student row is locked for the duration so concurrent
// payments against the same student cannot lose an update.
func (s *PaymentService) RecordPayment(ctx context.Context, studentID uint, amount float64, reference string, receipt *ReceiptUpload) (*PaymentResult, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	// Cheap existence check before touching file storage
	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.Student{}).Where("id = ?", studentID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}
	if exists == 0 {
		return nil, ErrStudentNotFound
	}

	composedRef := s.composeReference(ctx, reference, receipt)

	result := &PaymentResult{AddedAmount: amount, Reference: composedRef}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		query := tx
		// SQLite (tests) rejects FOR UPDATE; its writers are serialized anyway
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&student, studentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStudentNotFound
			}
			return fmt.Errorf("failed to fetch student: %w", err)
		}

		result.PreviousAmount = student.AmountPaid
		result.NewTotal = student.AmountPaid + amount
		result.Status = model.DeriveStatus(result.NewTotal, student.Target)

		if err := tx.Model(&student).Updates(map[string]interface{}{
			"amount_paid": result.NewTotal,
			"status":      result.Status,
		}).Error; err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}

		contribution := model.Contribution{
			StudentID: student.ID,
			Amount:    amount,
			Reference: composedRef,
		}
		if err := tx.Create(&contribution).Error; err != nil {
			return fmt.Errorf("failed to create contribution: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// composeReference persists the receipt (when present) and merges the file
// URL with the caller-supplied note. Storage failures downgrade to a
// note-only reference.
func (s *PaymentService) composeReference(ctx context.Context, reference string, receipt *ReceiptUpload) *string {
	var fileURL string
	if receipt != nil && len(receipt.Data) > 0 && s.receipts != nil {
		url, err := s.receipts.SaveReceipt(ctx, receipt.Filename, receipt.Data)
		if err != nil {
			log.Printf("failed to store receipt %q, recording payment without file reference: %v", receipt.Filename, err)
		} else {
			fileURL = url
		}
	}

	switch {
	case reference != "" && fileURL != "":
		ref := fmt.Sprintf("%s (File: %s)", reference, fileURL)
		return &ref
	case fileURL != "":
		ref := fmt.Sprintf("File: %s", fileURL)
		return &ref
	case reference != "":
		return &reference
	default:
		return nil
	}
}

// UpdateContributionReference edits the free-text reference on an existing
// contribution. The amount and timestamp stay immutable.
func (s *PaymentService) UpdateContributionReference(ctx context.Context, contributionID uint, reference string) (*model.Contribution, error) {
	var contribution model.Contribution
	if err := s.db.WithContext(ctx).First(&contribution, contributionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrContributionNotFound
		}
		return nil, fmt.Errorf("failed to fetch contribution: %w", err)
	}

	var ref *string
	if reference != "" {
		ref = &reference
	}
	if err := s.db.WithContext(ctx).Model(&contribution).Update("reference", ref).Error; err != nil {
		return nil, fmt.Errorf("failed to update contribution: %w", err)
	}

	contribution.Reference = ref
	return &contribution, nil
}
