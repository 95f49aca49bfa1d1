package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
)

const reportCacheKey = "cit:report:summary"

// ReportService aggregates revenue and transaction figures for admins.
type ReportService interface {
	Summary(ctx context.Context) (dto.ReportResponse, error)
}

type reportService struct {
	repo        repository.ReportRepository
	studentRepo repository.StudentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	timeout     time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReportService builds a new report service. The cache client may be nil;
// every summary is then computed from the database.
func NewReportService(
	repo repository.ReportRepository,
	studentRepo repository.StudentRepository,
	cache *redis.Client,
	cacheTTL, timeout time.Duration,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		repo:        repo,
		studentRepo: studentRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		timeout:     timeout,
		logger:      logger.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

func (s *reportService) Summary(ctx context.Context) (dto.ReportResponse, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	totalStudents, err := s.studentRepo.Count(ctx)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	totalRevenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	statusCounts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	revenueRows, err := s.repo.RevenueByCourse(ctx)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	report := dto.ReportResponse{
		TotalStudents:   totalStudents,
		TotalRevenue:    totalRevenue,
		StatusCounts:    make(map[string]int64, len(statusCounts)),
		RevenueByCourse: make([]dto.CourseRevenueRow, 0, len(revenueRows)),
		GeneratedAt:     s.now().UTC(),
	}
	for _, row := range statusCounts {
		report.StatusCounts[row.Status] = row.Count
	}
	for _, row := range revenueRows {
		report.RevenueByCourse = append(report.RevenueByCourse, dto.CourseRevenueRow{
			CourseID:    row.CourseID,
			CourseTitle: row.CourseTitle,
			PaidCount:   row.PaidCount,
			Revenue:     row.Revenue,
		})
	}

	s.toCache(ctx, report)

	return report, nil
}

func (s *reportService) fromCache(ctx context.Context) (dto.ReportResponse, bool) {
	if s.cache == nil {
		return dto.ReportResponse{}, false
	}

	raw, err := s.cache.Get(ctx, reportCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("report cache read failed")
		}
		return dto.ReportResponse{}, false
	}

	var report dto.ReportResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		return dto.ReportResponse{}, false
	}

	return report, true
}

func (s *reportService) toCache(ctx context.Context, report dto.ReportResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("report cache write failed")
	}
}
