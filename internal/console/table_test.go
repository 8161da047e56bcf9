package console

import (
	"testing"
	"time"

	"github.com/yungbote/idearoom-admin/internal/domain"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func blog(id uint, title string, age time.Duration, tags ...string) *domain.Blog {
	return &domain.Blog{ID: id, Title: title, CreatedAt: t0.Add(-age), Tags: domain.StringList(tags)}
}

func ids[T any](cols Columns[T], rows []*T) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, cols.ID(r))
	}
	return out
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTableLoadingAndEmpty(t *testing.T) {
	tbl := NewTable(BlogColumns())
	if !tbl.Loading() || tbl.Empty() {
		t.Fatalf("before load: want loading and not empty")
	}
	tbl.Load(nil)
	if tbl.Loading() || !tbl.Empty() {
		t.Fatalf("after empty load: want empty")
	}
}

func TestTableDefaultsToNewestFirst(t *testing.T) {
	tbl := NewTable(BlogColumns())
	tbl.Load([]*domain.Blog{blog(1, "old", 3*time.Hour), blog(2, "new", time.Hour), blog(3, "mid", 2*time.Hour)})
	if got := ids(tbl.Columns(), tbl.Rows()); !sameIDs(got, []uint{2, 3, 1}) {
		t.Fatalf("default order: want=[2 3 1] got=%v", got)
	}
}

func TestTableSearchIsCaseInsensitiveOverTextAndTags(t *testing.T) {
	tbl := NewTable(BlogColumns())
	tbl.Load([]*domain.Blog{
		blog(1, "Intro to Go", time.Hour),
		blog(2, "Advanced Rust", 2*time.Hour),
		blog(3, "Weekly notes", 3*time.Hour, "GOLANG"),
	})
	tbl.Search("go")
	if got := ids(tbl.Columns(), tbl.Rows()); !sameIDs(got, []uint{1, 3}) {
		t.Fatalf("search go: want=[1 3] got=%v", got)
	}
	tbl.Search("python")
	if !tbl.Empty() {
		t.Fatalf("search python: want empty")
	}
	tbl.Search("  ")
	if len(tbl.Rows()) != 3 {
		t.Fatalf("blank search: want all rows")
	}
}

func TestTableSortToggles(t *testing.T) {
	tbl := NewTable(BlogColumns())
	tbl.Load([]*domain.Blog{blog(1, "beta", time.Hour), blog(2, "Alpha", 2*time.Hour), blog(3, "gamma", 3*time.Hour)})

	if err := tbl.SortBy("title"); err != nil {
		t.Fatalf("SortBy: %v", err)
	}
	if got := ids(tbl.Columns(), tbl.Rows()); !sameIDs(got, []uint{2, 1, 3}) {
		t.Fatalf("title asc: want=[2 1 3] got=%v", got)
	}
	_ = tbl.SortBy("title")
	if got := ids(tbl.Columns(), tbl.Rows()); !sameIDs(got, []uint{3, 1, 2}) {
		t.Fatalf("title desc: want=[3 1 2] got=%v", got)
	}
	_ = tbl.SortBy(FieldCreatedAt)
	if field, desc := tbl.Sort(); field != FieldCreatedAt || desc {
		t.Fatalf("new field: want created_at asc got=%s desc=%v", field, desc)
	}
	if err := tbl.SortBy("password"); err == nil {
		t.Fatalf("unknown field: want error")
	}
}

func TestTableSortIsNumericAndStable(t *testing.T) {
	cols := OfferedCourseColumns()
	tbl := NewTable(cols)
	tbl.Load([]*domain.OfferedCourse{
		{ID: 1, Price: 100},
		{ID: 2, Price: 9},
		{ID: 3, Price: 100},
		{ID: 4, Price: 25.5},
	})
	_ = tbl.SortBy("price")
	if got := ids(cols, tbl.Rows()); !sameIDs(got, []uint{2, 4, 1, 3}) {
		t.Fatalf("price asc: want=[2 4 1 3] got=%v", got)
	}
	_ = tbl.SortBy("price")
	if got := ids(cols, tbl.Rows()); !sameIDs(got, []uint{1, 3, 4, 2}) {
		t.Fatalf("price desc keeps tie order: want=[1 3 4 2] got=%v", got)
	}
}

func TestTableRemoveAndRestore(t *testing.T) {
	tbl := NewTable(LecturerColumns())
	tbl.Load([]*domain.Lecturer{{ID: 1}, {ID: 2}, {ID: 3}})
	rec, pos := tbl.Remove(2)
	if rec == nil || pos != 1 || tbl.Len() != 2 {
		t.Fatalf("remove: rec=%v pos=%d len=%d", rec, pos, tbl.Len())
	}
	tbl.Restore(rec, pos)
	if _, i := tbl.Find(2); i != 1 {
		t.Fatalf("restore position: want=1 got=%d", i)
	}
	tbl.Restore(rec, pos)
	if tbl.Len() != 3 {
		t.Fatalf("restore twice: want len=3 got=%d", tbl.Len())
	}
}

func TestCompareValues(t *testing.T) {
	cases := []struct {
		a, b any
		want int
	}{
		{t0, t0.Add(time.Second), -1},
		{2, 10, -1},
		{uint(7), 7.0, 0},
		{"b", "A", 1},
		{nil, "a", -1},
	}
	for _, tc := range cases {
		if got := compareValues(tc.a, tc.b); got != tc.want {
			t.Fatalf("compare(%v, %v): want=%d got=%d", tc.a, tc.b, tc.want, got)
		}
	}
}
