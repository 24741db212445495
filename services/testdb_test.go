package services

import (
	"testing"

	"github.com/campusfund/fee-api/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database migrated to the full schema.
// The pool is capped at one connection so every query sees the same
// in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Student{},
		&model.Contribution{},
		&model.AdminAuditLog{},
		&model.CronJobLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()

	department := model.Department{Name: name}
	if err := db.Create(&department).Error; err != nil {
		t.Fatalf("failed to create department %q: %v", name, err)
	}
	return &department
}

func createTestStudent(t *testing.T, db *gorm.DB, departmentID uint, name string, amountPaid, target float64) *model.Student {
	t.Helper()

	student := model.Student{
		Name:         name,
		DepartmentID: departmentID,
		AmountPaid:   amountPaid,
		Target:       target,
		Status:       model.DeriveStatus(amountPaid, target),
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student %q: %v", name, err)
	}
	return &student
}
