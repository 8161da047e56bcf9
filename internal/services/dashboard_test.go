package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type staticCounter struct {
	n   int64
	err error
}

func (c staticCounter) Count(ctx context.Context) (int64, error) { return c.n, c.err }

func TestDashboardSummary(t *testing.T) {
	svc := NewDashboardService(logger.Nop(), DashboardCounters{
		Blogs:       staticCounter{n: 3},
		Courses:     staticCounter{n: 2},
		Submissions: staticCounter{n: 7},
	})
	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Blogs != 3 || sum.Courses != 2 || sum.Submissions != 7 || sum.Lecturers != 0 {
		t.Fatalf("summary: got=%+v", sum)
	}
}

func TestDashboardSummaryFailsOnAnyCount(t *testing.T) {
	boom := errors.New("count failed")
	svc := NewDashboardService(logger.Nop(), DashboardCounters{
		Blogs:       staticCounter{n: 3},
		Submissions: staticCounter{err: boom},
	})
	if _, err := svc.Summary(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want count error got=%v", err)
	}
}
