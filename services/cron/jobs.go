package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/campusfund/fee-api/model"
)

// ReconcileLedger compares each student's cumulative paid amount with the
// sum of their contribution records and logs any drift. Payments are
// applied transactionally, so drift normally only appears after manual
// database edits; the job surfaces it rather than silently correcting it.
func (m *CronManager) ReconcileLedger() {
	jobName := "reconcile_ledger"

	type driftRow struct {
		StudentID  uint
		AmountPaid float64
		Total      float64
	}

	var drifted []driftRow
	err := m.db.Model(&model.Student{}).
		Select("students.id AS student_id, students.amount_paid, COALESCE(SUM(contributions.amount), 0) AS total").
		Joins("LEFT JOIN contributions ON contributions.student_id = students.id").
		Group("students.id").
		Group("students.amount_paid").
		Having("COALESCE(SUM(contributions.amount), 0) <> students.amount_paid").
		Scan(&drifted).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	for _, row := range drifted {
		log.Printf("[CRON] ledger drift: student %d has amount_paid=%.2f but contributions sum to %.2f",
			row.StudentID, row.AmountPaid, row.Total)
	}

	m.logJobComplete(jobName, fmt.Sprintf("checked ledger, %d students with drift", len(drifted)))
}

// CleanupOldLogs removes audit and cron logs past the retention window
func (m *CronManager) CleanupOldLogs() {
	jobName := "cleanup_old_logs"

	auditCutoff := time.Now().AddDate(0, 0, -90)
	auditResult := m.db.Unscoped().
		Where("created_at < ?", auditCutoff).
		Delete(&model.AdminAuditLog{})
	if auditResult.Error != nil {
		m.logJobError(jobName, auditResult.Error)
		return
	}

	jobCutoff := time.Now().AddDate(0, 0, -30)
	jobResult := m.db.Unscoped().
		Where("created_at < ?", jobCutoff).
		Delete(&model.CronJobLog{})
	if jobResult.Error != nil {
		m.logJobError(jobName, jobResult.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("removed %d audit logs and %d job logs",
		auditResult.RowsAffected, jobResult.RowsAffected))
}
