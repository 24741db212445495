package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/campusfund/fee-api/model"
)

// fakeReceiptStore records calls and can be primed to fail
type fakeReceiptStore struct {
	url     string
	err     error
	calls   int
	lastKey string
}

func (f *fakeReceiptStore) SaveReceipt(ctx context.Context, filename string, data []byte) (string, error) {
	f.calls++
	f.lastKey = filename
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Computer Science")
	student := createTestStudent(t, db, department.ID, "Alice", 1000, 5000)

	service := NewPaymentService(db, nil)

	result, err := service.RecordPayment(context.Background(), student.ID, 2500, "bank transfer", nil)
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}

	if result.PreviousAmount != 1000 {
		t.Errorf("PreviousAmount = %v, want 1000", result.PreviousAmount)
	}
	if result.NewTotal != 3500 {
		t.Errorf("NewTotal = %v, want 3500", result.NewTotal)
	}
	if result.Status != model.StatusPartial {
		t.Errorf("Status = %v, want %v", result.Status, model.StatusPartial)
	}
	if result.Reference == nil || *result.Reference != "bank transfer" {
		t.Errorf("Reference = %v, want bank transfer", result.Reference)
	}

	var updated model.Student
	if err := db.First(&updated, student.ID).Error; err != nil {
		t.Fatalf("failed to reload student: %v", err)
	}
	if updated.AmountPaid != 3500 {
		t.Errorf("stored AmountPaid = %v, want 3500", updated.AmountPaid)
	}
	if updated.Status != model.StatusPartial {
		t.Errorf("stored Status = %v, want %v", updated.Status, model.StatusPartial)
	}

	var contributions []model.Contribution
	if err := db.Where("student_id = ?", student.ID).Find(&contributions).Error; err != nil {
		t.Fatalf("failed to load contributions: %v", err)
	}
	if len(contributions) != 1 {
		t.Fatalf("got %d contributions, want 1", len(contributions))
	}
	if contributions[0].Amount != 2500 {
		t.Errorf("contribution Amount = %v, want 2500", contributions[0].Amount)
	}
}

func TestRecordPaymentCompletesStatus(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Physics")
	student := createTestStudent(t, db, department.ID, "Bob", 4000, 5000)

	service := NewPaymentService(db, nil)

	result, err := service.RecordPayment(context.Background(), student.ID, 1000, "", nil)
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if result.Status != model.StatusCompleted {
		t.Errorf("Status = %v, want %v", result.Status, model.StatusCompleted)
	}
	if result.Reference != nil {
		t.Errorf("Reference = %v, want nil for empty note", *result.Reference)
	}
}

func TestRecordPaymentInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Chemistry")
	student := createTestStudent(t, db, department.ID, "Carol", 500, 5000)

	service := NewPaymentService(db, nil)

	for _, amount := range []float64{0, -100, math.NaN(), math.Inf(1)} {
		_, err := service.RecordPayment(context.Background(), student.ID, amount, "", nil)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("RecordPayment(%v) error = %v, want ErrInvalidAmount", amount, err)
		}
	}

	// Rejected payments must leave the ledger untouched
	var reloaded model.Student
	if err := db.First(&reloaded, student.ID).Error; err != nil {
		t.Fatalf("failed to reload student: %v", err)
	}
	if reloaded.AmountPaid != 500 {
		t.Errorf("AmountPaid = %v, want unchanged 500", reloaded.AmountPaid)
	}

	var count int64
	db.Model(&model.Contribution{}).Count(&count)
	if count != 0 {
		t.Errorf("got %d contributions, want 0", count)
	}
}

func TestRecordPaymentUnknownStudent(t *testing.T) {
	db := newTestDB(t)

	service := NewPaymentService(db, nil)

	_, err := service.RecordPayment(context.Background(), 9999, 100, "", nil)
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("error = %v, want ErrStudentNotFound", err)
	}
}

func TestRecordPaymentReceiptReference(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Mathematics")
	student := createTestStudent(t, db, department.ID, "Dave", 0, 5000)

	store := &fakeReceiptStore{url: "https://cdn.example.com/receipts/r1.pdf"}
	service := NewPaymentService(db, store)

	receipt := &ReceiptUpload{Filename: "r1.pdf", Data: []byte("%PDF-1.4")}

	result, err := service.RecordPayment(context.Background(), student.ID, 100, "cash deposit", receipt)
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("SaveReceipt called %d times, want 1", store.calls)
	}
	want := "cash deposit (File: https://cdn.example.com/receipts/r1.pdf)"
	if result.Reference == nil || *result.Reference != want {
		t.Errorf("Reference = %v, want %q", result.Reference, want)
	}
}

func TestRecordPaymentFileOnlyReference(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "History")
	student := createTestStudent(t, db, department.ID, "Erin", 0, 5000)

	store := &fakeReceiptStore{url: "https://cdn.example.com/receipts/r2.pdf"}
	service := NewPaymentService(db, store)

	result, err := service.RecordPayment(context.Background(), student.ID, 100, "",
		&ReceiptUpload{Filename: "r2.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	want := "File: https://cdn.example.com/receipts/r2.pdf"
	if result.Reference == nil || *result.Reference != want {
		t.Errorf("Reference = %v, want %q", result.Reference, want)
	}
}

func TestRecordPaymentSurvivesReceiptFailure(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Biology")
	student := createTestStudent(t, db, department.ID, "Frank", 0, 5000)

	store := &fakeReceiptStore{err: fmt.Errorf("bucket unavailable")}
	service := NewPaymentService(db, store)

	result, err := service.RecordPayment(context.Background(), student.ID, 300, "upi",
		&ReceiptUpload{Filename: "r3.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("RecordPayment should tolerate receipt failures, got: %v", err)
	}
	if result.Reference == nil || *result.Reference != "upi" {
		t.Errorf("Reference = %v, want note-only reference upi", result.Reference)
	}
	if result.NewTotal != 300 {
		t.Errorf("NewTotal = %v, want 300", result.NewTotal)
	}
}

func TestUpdateContributionReference(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Economics")
	student := createTestStudent(t, db, department.ID, "Grace", 0, 5000)

	service := NewPaymentService(db, nil)

	if _, err := service.RecordPayment(context.Background(), student.ID, 200, "old note", nil); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}

	var contribution model.Contribution
	if err := db.Where("student_id = ?", student.ID).First(&contribution).Error; err != nil {
		t.Fatalf("failed to load contribution: %v", err)
	}

	updated, err := service.UpdateContributionReference(context.Background(), contribution.ID, "corrected note")
	if err != nil {
		t.Fatalf("UpdateContributionReference returned error: %v", err)
	}
	if updated.Reference == nil || *updated.Reference != "corrected note" {
		t.Errorf("Reference = %v, want corrected note", updated.Reference)
	}
	if updated.Amount != 200 {
		t.Errorf("Amount = %v, want immutable 200", updated.Amount)
	}

	// Clearing the note stores NULL, not an empty string
	cleared, err := service.UpdateContributionReference(context.Background(), contribution.ID, "")
	if err != nil {
		t.Fatalf("UpdateContributionReference returned error: %v", err)
	}
	if cleared.Reference != nil {
		t.Errorf("Reference = %q, want nil", *cleared.Reference)
	}
}

func TestUpdateContributionReferenceNotFound(t *testing.T) {
	db := newTestDB(t)

	service := NewPaymentService(db, nil)

	_, err := service.UpdateContributionReference(context.Background(), 42, "note")
	if !errors.Is(err, ErrContributionNotFound) {
		t.Fatalf("error = %v, want ErrContributionNotFound", err)
	}
}
