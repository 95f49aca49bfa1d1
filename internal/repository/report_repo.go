package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// CourseRevenue is one aggregate row of the admin revenue report.
type CourseRevenue struct {
	CourseID    uint    `json:"course_id"`
	CourseTitle string  `json:"course_title"`
	PaidCount   int64   `json:"paid_count"`
	Revenue     float64 `json:"revenue"`
}

// StatusCount aggregates transactions per lifecycle state.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ReportRepository exposes the aggregate queries behind admin reports.
type ReportRepository interface {
	TotalRevenue(ctx context.Context) (float64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	RevenueByCourse(ctx context.Context) ([]CourseRevenue, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository instantiates a GORM-backed report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusPaid).
		Select("COALESCE(SUM(net_payable), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *reportRepository) RevenueByCourse(ctx context.Context) ([]CourseRevenue, error) {
	var rows []CourseRevenue
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("transactions.course_id AS course_id, courses.title AS course_title, COUNT(*) AS paid_count, COALESCE(SUM(transactions.net_payable), 0) AS revenue").
		Joins("JOIN courses ON courses.id = transactions.course_id").
		Where("transactions.status = ?", models.TransactionStatusPaid).
		Group("transactions.course_id, courses.title").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
