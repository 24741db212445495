package model

// PaymentStatus summarizes a student's progress toward their target
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusPartial   PaymentStatus = "PARTIAL"
	StatusCompleted PaymentStatus = "COMPLETED"
)

// DeriveStatus is the single status rule applied everywhere a student's
// status is computed: at manual creation, bulk import, and payment
// recording. A student who has paid nothing is PENDING even when their
// target is zero.
func DeriveStatus(amountPaid, target float64) PaymentStatus {
	switch {
	case amountPaid <= 0:
		return StatusPending
	case amountPaid >= target:
		return StatusCompleted
	default:
		return StatusPartial
	}
}
