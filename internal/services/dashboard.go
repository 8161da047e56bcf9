package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

// Counter is satisfied by every resource service.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardSummary struct {
	Blogs          int64 `json:"blogs"`
	Courses        int64 `json:"courses"`
	OfferedCourses int64 `json:"offered_courses"`
	Lecturers      int64 `json:"lecturers"`
	Submissions    int64 `json:"users_form"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type DashboardCounters struct {
	Blogs          Counter
	Courses        Counter
	OfferedCourses Counter
	Lecturers      Counter
	Submissions    Counter
}

type dashboardService struct {
	log      *logger.Logger
	counters DashboardCounters
}

func NewDashboardService(log *logger.Logger, counters DashboardCounters) DashboardService {
	return &dashboardService{
		log:      log.With("service", "DashboardService"),
		counters: counters,
	}
}

// Summary counts every table concurrently. The first failing count cancels the rest.
func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	out := &DashboardSummary{}
	g, gctx := errgroup.WithContext(ctx)
	count := func(c Counter, dst *int64) {
		if c == nil {
			return
		}
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(s.counters.Blogs, &out.Blogs)
	count(s.counters.Courses, &out.Courses)
	count(s.counters.OfferedCourses, &out.OfferedCourses)
	count(s.counters.Lecturers, &out.Lecturers)
	count(s.counters.Submissions, &out.Submissions)
	if err := g.Wait(); err != nil {
		s.log.Warn("Dashboard counts failed", "error", err)
		return nil, err
	}
	return out, nil
}
