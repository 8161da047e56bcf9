package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/idearoom-admin/internal/console"
	"github.com/yungbote/idearoom-admin/internal/domain"
)

func lecturerTable() *console.Table[domain.Lecturer] {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	table := console.NewTable(console.LecturerColumns())
	table.Load([]*domain.Lecturer{
		{ID: 1, FullName: "Nino", Field: "Design", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, FullName: "Giorgi", Field: "Go", CreatedAt: now},
		{ID: 3, FullName: "Ana", Field: "Data", CreatedAt: now.Add(-2 * time.Hour)},
	})
	return table
}

func TestApplyViewSortsAndFilters(t *testing.T) {
	table := lecturerTable()
	if err := applyView(table, viewFlags{sort: "fullName"}); err != nil {
		t.Fatalf("applyView: %v", err)
	}
	rows := table.Rows()
	if rows[0].FullName != "Ana" || rows[2].FullName != "Nino" {
		t.Fatalf("asc: got=%s..%s", rows[0].FullName, rows[2].FullName)
	}

	table = lecturerTable()
	if err := applyView(table, viewFlags{sort: "fullName", desc: true}); err != nil {
		t.Fatalf("applyView desc: %v", err)
	}
	if rows := table.Rows(); rows[0].FullName != "Nino" {
		t.Fatalf("desc: want=Nino got=%s", rows[0].FullName)
	}

	table = lecturerTable()
	if err := applyView(table, viewFlags{search: "go"}); err != nil {
		t.Fatalf("applyView search: %v", err)
	}
	if rows := table.Rows(); len(rows) != 1 || rows[0].ID != 2 {
		t.Fatalf("search: got=%d rows", len(rows))
	}

	if err := applyView(lecturerTable(), viewFlags{sort: "salary"}); err == nil {
		t.Fatalf("unknown sort field should fail")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	table := lecturerTable()
	table.Search("nino")
	if err := render(&buf, table); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "ID") || !strings.Contains(out, "FULLNAME") {
		t.Fatalf("header missing: %q", out)
	}
	if !strings.Contains(out, "1 of 3 lecturers") {
		t.Fatalf("footer: %q", out)
	}

	buf.Reset()
	table.Search("nobody")
	_ = render(&buf, table)
	if buf.String() != "No records.\n" {
		t.Fatalf("empty: got=%q", buf.String())
	}
}

func TestCell(t *testing.T) {
	if got := cell(nil); got != "-" {
		t.Fatalf("nil: got=%q", got)
	}
	if got := cell(time.Time{}); got != "-" {
		t.Fatalf("zero time: got=%q", got)
	}
	if got := cell("  two\n lines "); got != "two lines" {
		t.Fatalf("whitespace: got=%q", got)
	}
	if got := []rune(cell(strings.Repeat("x", 60))); len(got) != 40 {
		t.Fatalf("truncate: want=40 runes got=%d", len(got))
	}
	if got := cell(12.5); got != "12.5" {
		t.Fatalf("number: got=%q", got)
	}
}
