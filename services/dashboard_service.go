package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campusfund/fee-api/model"
	"gorm.io/gorm"
)

// DashboardService computes the read-only aggregates behind the collection
// dashboard. It recomputes from the store on every call; callers poll it.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// TopContributor is a (student name, department) pair ranked by summed
// payments across all matching student rows.
type TopContributor struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Department string  `json:"department"`
}

// DailyStat is one calendar day of collected contributions
type DailyStat struct {
	Day    string  `json:"day"` // 3-letter weekday abbreviation
	Amount float64 `json:"amount"`
}

// DepartmentSummary is the per-department collection rollup
type DepartmentSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	StudentCount   int64   `json:"student_count"`
	TotalCollected float64 `json:"total_collected"`
	Target         float64 `json:"target"`
}

// RecentStudent is a recently-updated ledger entry carrying its owning
// department's name for display.
type RecentStudent struct {
	ID             uint                `json:"id"`
	Name           string              `json:"name"`
	AmountPaid     float64             `json:"amount_paid"`
	Target         float64             `json:"target"`
	Status         model.PaymentStatus `json:"status"`
	DepartmentName string              `json:"department_name"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// DashboardData bundles everything the dashboard page renders
type DashboardData struct {
	TotalCollected  float64             `json:"total_collected"`
	Goal            float64             `json:"goal"`
	TopContributors []TopContributor    `json:"top_contributors"`
	DailyStats      []DailyStat         `json:"daily_stats"`
	Departments     []DepartmentSummary `json:"departments"`
	RecentStudents  []RecentStudent     `json:"recent_students"`
}

// contributorRow is the raw group-by row before department resolution
type contributorRow struct {
	Name         string
	DepartmentID uint
	Total        float64
}

// departmentRow is the raw join row before the fallback target is applied
type departmentRow struct {
	ID             uint
	Name           string
	StudentCount   int64
	TotalCollected float64
}

// ComputeDashboard aggregates the whole ledger. An empty ledger yields
// zeroed figures and empty slices, never an error.
func (s *DashboardService) ComputeDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{
		TopContributors: []TopContributor{},
		Departments:     []DepartmentSummary{},
		RecentStudents:  []RecentStudent{},
	}

	db := s.db.WithContext(ctx)

	// Overall totals
	var totals struct {
		Collected float64
		Goal      float64
	}
	if err := db.Model(&model.Student{}).
		Select("COALESCE(SUM(amount_paid), 0) AS collected, COALESCE(SUM(target), 0) AS goal").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to sum ledger totals: %w", err)
	}
	data.TotalCollected = totals.Collected
	data.Goal = totals.Goal

	contributors, err := s.topContributors(db, 5)
	if err != nil {
		return nil, err
	}
	data.TopContributors = contributors

	daily, err := s.dailyStats(db, time.Now())
	if err != nil {
		return nil, err
	}
	data.DailyStats = daily

	departments, err := departmentRollups(db)
	if err != nil {
		return nil, err
	}
	data.Departments = departments

	recent, err := s.recentStudents(db, 10)
	if err != nil {
		return nil, err
	}
	data.RecentStudents = recent

	return data, nil
}

// topContributors groups students by (name, department), sums their paid
// amounts and resolves department names through a lookup map.
func (s *DashboardService) topContributors(db *gorm.DB, limit int) ([]TopContributor, error) {
	var rows []contributorRow
	if err := db.Model(&model.Student{}).
		Select("name, department_id, SUM(amount_paid) AS total").
		Group("name").
		Group("department_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group top contributors: %w", err)
	}

	if len(rows) == 0 {
		return []TopContributor{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.DepartmentID)
	}

	var departments []model.Department
	if err := db.Where("id IN ?", ids).Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve department names: %w", err)
	}
	names := make(map[uint]string, len(departments))
	for _, dept := range departments {
		names[dept.ID] = dept.Name
	}

	contributors := make([]TopContributor, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.DepartmentID]
		if !ok {
			name = "Unknown"
		}
		contributors = append(contributors, TopContributor{
			Name:       row.Name,
			Amount:     row.Total,
			Department: name,
		})
	}

	return contributors, nil
}

// dailyStats buckets contribution amounts by calendar day for the trailing
// seven days including today, oldest first, zero-filling quiet days.
func (s *DashboardService) dailyStats(db *gorm.DB, now time.Time) ([]DailyStat, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -6)

	var contributions []model.Contribution
	if err := db.Where("created_at >= ?", cutoff).Find(&contributions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent contributions: %w", err)
	}

	byDay := make(map[string]float64)
	for _, c := range contributions {
		key := c.CreatedAt.In(now.Location()).Format("2006-01-02")
		byDay[key] += c.Amount
	}

	stats := make([]DailyStat, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		stats = append(stats, DailyStat{
			Day:    day.Format("Mon"),
			Amount: byDay[day.Format("2006-01-02")],
		})
	}

	return stats, nil
}

// departmentRollups computes per-department student counts and collected
// sums in one LEFT JOIN so empty departments still appear.
func departmentRollups(db *gorm.DB) ([]DepartmentSummary, error) {
	var rows []departmentRow
	if err := db.Model(&model.Department{}).
		Select("departments.id, departments.name, COUNT(students.id) AS student_count, COALESCE(SUM(students.amount_paid), 0) AS total_collected").
		Joins("LEFT JOIN students ON students.department_id = departments.id").
		Group("departments.id").
		Group("departments.name").
		Order("departments.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to roll up departments: %w", err)
	}

	summaries := make([]DepartmentSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, DepartmentSummary{
			ID:             row.ID,
			Name:           row.Name,
			StudentCount:   row.StudentCount,
			TotalCollected: row.TotalCollected,
			Target:         model.DepartmentTarget(row.StudentCount),
		})
	}

	return summaries, nil
}

// recentStudents returns the most recently touched ledger entries
func (s *DashboardService) recentStudents(db *gorm.DB, limit int) ([]RecentStudent, error) {
	var students []model.Student
	if err := db.Preload("Department").
		Order("updated_at DESC").
		Limit(limit).
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent students: %w", err)
	}

	recent := make([]RecentStudent, 0, len(students))
	for _, st := range students {
		recent = append(recent, RecentStudent{
			ID:             st.ID,
			Name:           st.Name,
			AmountPaid:     st.AmountPaid,
			Target:         st.Target,
			Status:         st.Status,
			DepartmentName: st.Department.Name,
			UpdatedAt:      st.UpdatedAt,
		})
	}

	return recent, nil
}

// GetStudentDetail returns a student with their owning department and
// contributions ordered newest-first.
func (s *DashboardService) GetStudentDetail(ctx context.Context, studentID uint) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&student, studentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	return &student, nil
}
