package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusfund/fee-api/model"
)

func TestCreateDepartment(t *testing.T) {
	db := newTestDB(t)

	service := NewDepartmentService(db)

	department, err := service.CreateDepartment(context.Background(), "Computer Science")
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}
	if department.ID == 0 {
		t.Error("created department has no ID")
	}

	_, err = service.CreateDepartment(context.Background(), "Computer Science")
	if !errors.Is(err, ErrDepartmentExists) {
		t.Fatalf("duplicate name error = %v, want ErrDepartmentExists", err)
	}
}

func TestGetDepartment(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Physics")
	createTestStudent(t, db, department.ID, "Alice", 4000, 5000)
	createTestStudent(t, db, department.ID, "Bob", 6000, 5000)

	service := NewDepartmentService(db)

	detail, err := service.GetDepartment(context.Background(), department.ID)
	if err != nil {
		t.Fatalf("GetDepartment returned error: %v", err)
	}

	if detail.StudentCount != 2 {
		t.Errorf("StudentCount = %d, want 2", detail.StudentCount)
	}
	if detail.TotalCollected != 10000 {
		t.Errorf("TotalCollected = %v, want 10000", detail.TotalCollected)
	}
	if detail.Target != 10000 {
		t.Errorf("Target = %v, want 10000", detail.Target)
	}
	if len(detail.Students) != 2 || detail.Students[0].Name != "Bob" {
		t.Errorf("students not ordered by amount paid: %+v", detail.Students)
	}
}

func TestGetDepartmentNotFound(t *testing.T) {
	db := newTestDB(t)

	service := NewDepartmentService(db)

	_, err := service.GetDepartment(context.Background(), 55)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("error = %v, want ErrDepartmentNotFound", err)
	}
}

func TestListDepartments(t *testing.T) {
	db := newTestDB(t)
	createTestDepartment(t, db, "Physics")
	createTestDepartment(t, db, "Chemistry")

	service := NewDepartmentService(db)

	departments, err := service.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments returned error: %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("got %d departments, want 2", len(departments))
	}
	if departments[0].Name != "Chemistry" || departments[1].Name != "Physics" {
		t.Errorf("departments not ordered by name: %+v", departments)
	}
}

func TestDeleteDepartmentCascades(t *testing.T) {
	db := newTestDB(t)
	doomed := createTestDepartment(t, db, "Physics")
	kept := createTestDepartment(t, db, "Chemistry")
	doomedStudent := createTestStudent(t, db, doomed.ID, "Alice", 0, 5000)
	keptStudent := createTestStudent(t, db, kept.ID, "Bob", 0, 5000)

	payments := NewPaymentService(db, nil)
	if _, err := payments.RecordPayment(context.Background(), doomedStudent.ID, 100, "", nil); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if _, err := payments.RecordPayment(context.Background(), keptStudent.ID, 200, "", nil); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}

	service := NewDepartmentService(db)

	if err := service.DeleteDepartment(context.Background(), doomed.ID); err != nil {
		t.Fatalf("DeleteDepartment returned error: %v", err)
	}

	var departments, students, contributions int64
	db.Model(&model.Department{}).Count(&departments)
	db.Model(&model.Student{}).Count(&students)
	db.Model(&model.Contribution{}).Count(&contributions)

	if departments != 1 {
		t.Errorf("got %d departments, want 1", departments)
	}
	if students != 1 {
		t.Errorf("got %d students, want 1", students)
	}
	if contributions != 1 {
		t.Errorf("got %d contributions, want 1", contributions)
	}

	// The surviving department keeps its ledger
	var remaining model.Contribution
	if err := db.First(&remaining).Error; err != nil {
		t.Fatalf("failed to load remaining contribution: %v", err)
	}
	if remaining.StudentID != keptStudent.ID {
		t.Errorf("remaining contribution belongs to student %d, want %d", remaining.StudentID, keptStudent.ID)
	}
}

func TestDeleteDepartmentNotFound(t *testing.T) {
	db := newTestDB(t)

	service := NewDepartmentService(db)

	err := service.DeleteDepartment(context.Background(), 12)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("error = %v, want ErrDepartmentNotFound", err)
	}
}
