package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusfund/fee-api/model"
)

func TestImportStudents(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Computer Science")

	service := NewImportService(db)

	raw := "Name,Admission,Amount\nAlice,A1,6000\nBob,B1,0\n,C1,100\n"

	result, err := service.ImportStudents(context.Background(), raw, department.ID)
	if err != nil {
		t.Fatalf("ImportStudents returned error: %v", err)
	}

	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	if result.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", result.ErrorCount)
	}
	if want := "Successfully imported 2 students with 1 errors"; result.Message != want {
		t.Errorf("Message = %q, want %q", result.Message, want)
	}

	var students []model.Student
	if err := db.Order("name").Find(&students).Error; err != nil {
		t.Fatalf("failed to load students: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}

	alice := students[0]
	if alice.Name != "Alice" {
		t.Fatalf("first student = %q, want Alice", alice.Name)
	}
	if alice.AdmissionNumber == nil || *alice.AdmissionNumber != "A1" {
		t.Errorf("Alice admission number = %v, want A1", alice.AdmissionNumber)
	}
	if alice.AmountPaid != 6000 {
		t.Errorf("Alice AmountPaid = %v, want 6000", alice.AmountPaid)
	}
	if alice.Status != model.StatusCompleted {
		t.Errorf("Alice Status = %v, want %v", alice.Status, model.StatusCompleted)
	}
	if alice.Target != model.DefaultStudentTarget {
		t.Errorf("Alice Target = %v, want %v", alice.Target, model.DefaultStudentTarget)
	}

	bob := students[1]
	if bob.Status != model.StatusPending {
		t.Errorf("Bob Status = %v, want %v", bob.Status, model.StatusPending)
	}
}

func TestImportStudentsWithoutHeader(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Physics")

	service := NewImportService(db)

	result, err := service.ImportStudents(context.Background(), "Carol,C7,2500\nDave", department.ID)
	if err != nil {
		t.Fatalf("ImportStudents returned error: %v", err)
	}
	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	if result.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", result.ErrorCount)
	}

	// A bare name imports with zero paid and no admission number
	var dave model.Student
	if err := db.Where("name = ?", "Dave").First(&dave).Error; err != nil {
		t.Fatalf("failed to load Dave: %v", err)
	}
	if dave.AdmissionNumber != nil {
		t.Errorf("AdmissionNumber = %v, want nil", *dave.AdmissionNumber)
	}
	if dave.AmountPaid != 0 || dave.Status != model.StatusPending {
		t.Errorf("Dave = %v/%v, want 0/PENDING", dave.AmountPaid, dave.Status)
	}
}

func TestImportStudentsUnparseableAmount(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Chemistry")

	service := NewImportService(db)

	result, err := service.ImportStudents(context.Background(), "Erin,E1,not-a-number", department.ID)
	if err != nil {
		t.Fatalf("ImportStudents returned error: %v", err)
	}
	if result.SuccessCount != 1 || result.ErrorCount != 0 {
		t.Fatalf("result = %d/%d, want 1 success and 0 errors", result.SuccessCount, result.ErrorCount)
	}

	var erin model.Student
	if err := db.Where("name = ?", "Erin").First(&erin).Error; err != nil {
		t.Fatalf("failed to load Erin: %v", err)
	}
	if erin.AmountPaid != 0 {
		t.Errorf("AmountPaid = %v, want 0 for unparseable amount", erin.AmountPaid)
	}
}

func TestImportStudentsEmptyPayload(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Mathematics")

	service := NewImportService(db)

	for _, raw := range []string{"", "   \n\t  "} {
		_, err := service.ImportStudents(context.Background(), raw, department.ID)
		if !errors.Is(err, ErrEmptyImport) {
			t.Errorf("ImportStudents(%q) error = %v, want ErrEmptyImport", raw, err)
		}
	}
}

func TestImportStudentsUnknownDepartment(t *testing.T) {
	db := newTestDB(t)

	service := NewImportService(db)

	_, err := service.ImportStudents(context.Background(), "Alice,A1,100", 777)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("error = %v, want ErrDepartmentNotFound", err)
	}

	var count int64
	db.Model(&model.Student{}).Count(&count)
	if count != 0 {
		t.Errorf("got %d students, want 0", count)
	}
}
