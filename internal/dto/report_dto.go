package dto

import "time"

// CourseRevenueRow is one course's aggregate in the revenue report.
type CourseRevenueRow struct {
	CourseID    uint    `json:"course_id"`
	CourseTitle string  `json:"course_title"`
	PaidCount   int64   `json:"paid_count"`
	Revenue     float64 `json:"revenue"`
}

// ReportResponse is the admin revenue & status summary.
type ReportResponse struct {
	TotalStudents   int64              `json:"total_students"`
	TotalRevenue    float64            `json:"total_revenue"`
	StatusCounts    map[string]int64   `json:"status_counts"`
	RevenueByCourse []CourseRevenueRow `json:"revenue_by_course"`
	GeneratedAt     time.Time          `json:"generated_at"`
}
