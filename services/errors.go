package services

import "errors"

// Sentinel errors returned by the ledger services. Handlers map these onto
// client-facing failure kinds; anything else is an internal failure.
var (
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrStudentNotFound      = errors.New("student not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentExists     = errors.New("department with this name already exists")
	ErrEmptyImport          = errors.New("import payload is empty")
)
