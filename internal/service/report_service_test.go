package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
)

type stubReportRepo struct {
	revenue  float64
	statuses []repository.StatusCount
	byCourse []repository.CourseRevenue
	calls    int
}

func (r *stubReportRepo) TotalRevenue(ctx context.Context) (float64, error) {
	r.calls++
	return r.revenue, nil
}

func (r *stubReportRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return r.statuses, nil
}

func (r *stubReportRepo) RevenueByCourse(ctx context.Context) ([]repository.CourseRevenue, error) {
	return r.byCourse, nil
}

func TestReportServiceSummary(t *testing.T) {
	repo := &stubReportRepo{
		revenue: 5400,
		statuses: []repository.StatusCount{
			{Status: models.TransactionStatusPaid, Count: 1},
			{Status: models.TransactionStatusPending, Count: 2},
		},
		byCourse: []repository.CourseRevenue{
			{CourseID: 1, CourseTitle: "Diploma in Computer Applications", PaidCount: 1, Revenue: 5400},
		},
	}
	students := &memoryStudentRepo{students: []models.Student{{ID: 1}, {ID: 2}}}

	svc := NewReportService(repo, students, nil, time.Minute, time.Second, testLogger())

	report, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(2), report.TotalStudents)
	require.Equal(t, 5400.0, report.TotalRevenue)
	require.Equal(t, int64(1), report.StatusCounts[models.TransactionStatusPaid])
	require.Equal(t, int64(2), report.StatusCounts[models.TransactionStatusPending])
	require.Len(t, report.RevenueByCourse, 1)
	require.Equal(t, 5400.0, report.RevenueByCourse[0].Revenue)
}

func TestReportServiceSummaryCached(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := &stubReportRepo{revenue: 5400}
	students := &memoryStudentRepo{}

	svc := NewReportService(repo, students, client, time.Minute, time.Second, testLogger())

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
	require.Equal(t, 5400.0, cached.TotalRevenue)
}
