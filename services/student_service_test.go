package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusfund/fee-api/model"
)

func TestCreateStudent(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Computer Science")

	service := NewStudentService(db)

	admission := "CS-042"
	student, err := service.CreateStudent(context.Background(), "Alice", &admission, department.ID, 0)
	if err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	if student.ID == 0 {
		t.Error("created student has no ID")
	}
	if student.Target != model.DefaultStudentTarget {
		t.Errorf("Target = %v, want %v", student.Target, model.DefaultStudentTarget)
	}
	if student.Status != model.StatusPending {
		t.Errorf("Status = %v, want %v", student.Status, model.StatusPending)
	}
}

func TestCreateStudentWithOpeningBalance(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Physics")

	service := NewStudentService(db)

	student, err := service.CreateStudent(context.Background(), "Bob", nil, department.ID, 5000)
	if err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}
	if student.Status != model.StatusCompleted {
		t.Errorf("Status = %v, want %v", student.Status, model.StatusCompleted)
	}
}

func TestCreateStudentRejectsNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Chemistry")

	service := NewStudentService(db)

	_, err := service.CreateStudent(context.Background(), "Carol", nil, department.ID, -50)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateStudentUnknownDepartment(t *testing.T) {
	db := newTestDB(t)

	service := NewStudentService(db)

	_, err := service.CreateStudent(context.Background(), "Dave", nil, 404, 0)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("error = %v, want ErrDepartmentNotFound", err)
	}
}

func TestListStudentsOrdering(t *testing.T) {
	db := newTestDB(t)
	department := createTestDepartment(t, db, "Mathematics")
	other := createTestDepartment(t, db, "History")
	createTestStudent(t, db, department.ID, "Alice", 1000, 5000)
	createTestStudent(t, db, department.ID, "Bob", 3000, 5000)
	createTestStudent(t, db, other.ID, "Carol", 9000, 5000)

	service := NewStudentService(db)

	students, err := service.ListStudents(context.Background(), department.ID)
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	if students[0].Name != "Bob" || students[1].Name != "Alice" {
		t.Errorf("students not ordered by amount paid: %s, %s", students[0].Name, students[1].Name)
	}
}
