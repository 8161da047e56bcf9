package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSyllabusUnmarshalShapes(t *testing.T) {
	var s Syllabus
	if err := json.Unmarshal([]byte(`{"sections":[{"id":"s_1","title":"Intro","items":{"item_1":"hello"}}]}`), &s); err != nil {
		t.Fatalf("sectioned: %v", err)
	}
	if len(s.Sections) != 1 || s.Sections[0].ID != "s_1" || s.HasLegacy() {
		t.Fatalf("sectioned: got=%+v", s)
	}

	if err := json.Unmarshal([]byte(`{"Intro":{"item_1":"hello","item_2":3}}`), &s); err != nil {
		t.Fatalf("legacy: %v", err)
	}
	if !s.HasLegacy() || s.Legacy()["Intro"]["item_2"] != "3" {
		t.Fatalf("legacy: got=%+v", s.Legacy())
	}

	for _, raw := range []string{`[]`, `"text"`, `null`, `42`} {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if len(s.Sections) != 0 || s.HasLegacy() {
			t.Fatalf("%s: want empty syllabus got=%+v", raw, s)
		}
	}
}

func TestSyllabusMarshalEmpty(t *testing.T) {
	b, err := json.Marshal(Syllabus{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"sections":[]}` {
		t.Fatalf("got=%s", b)
	}
}

func TestReconcileSyllabusKeepsContentAcrossRename(t *testing.T) {
	s := Syllabus{Sections: []SyllabusSection{
		{ID: "s_keep", Title: "Week 1", Items: map[string]string{"item_1": "variables"}},
	}}
	_, first := ReconcileSyllabus(nil, s)

	renamed := first
	renamed.Sections[0].Title = "Week One"
	titles, second := ReconcileSyllabus([]string{"Week 1"}, renamed)

	if !reflect.DeepEqual(titles, []string{"Week One"}) {
		t.Fatalf("titles: got=%v", titles)
	}
	if second.Sections[0].ID != "s_keep" || second.Sections[0].Items["item_1"] != "variables" {
		t.Fatalf("rename lost content: %+v", second.Sections[0])
	}
}

func TestReconcileSyllabusDefaultsAndBlankTitles(t *testing.T) {
	titles, s := ReconcileSyllabus([]string{"", "  "}, Syllabus{})
	if !reflect.DeepEqual(titles, []string{DefaultSyllabusTitle}) {
		t.Fatalf("titles: got=%v", titles)
	}
	if s.Sections[0].Items["item_1"] != "" || len(s.Sections[0].Items) != 1 {
		t.Fatalf("default items: got=%v", s.Sections[0].Items)
	}

	titles, s = ReconcileSyllabus([]string{"A", "", "B"}, Syllabus{})
	if !reflect.DeepEqual(titles, []string{"A", "B"}) {
		t.Fatalf("titles: got=%v", titles)
	}
	if s.Sections[0].ID == s.Sections[1].ID || !strings.HasPrefix(s.Sections[0].ID, "s_") {
		t.Fatalf("ids should be unique and prefixed: %+v", s.Sections)
	}
}

func TestReconcileSyllabusRegeneratesDuplicateIDs(t *testing.T) {
	s := Syllabus{Sections: []SyllabusSection{
		{ID: "s_dup", Title: "A"},
		{ID: "s_dup", Title: "B"},
	}}
	_, out := ReconcileSyllabus(nil, s)
	if out.Sections[0].ID != "s_dup" || out.Sections[1].ID == "s_dup" {
		t.Fatalf("duplicate id should be replaced on the second section: %+v", out.Sections)
	}
}

func TestMigrateLegacySyllabusReportsOrphans(t *testing.T) {
	var s Syllabus
	raw := `{"Intro":{"item_1":"welcome"},"Old title":{"item_1":"lost"},"Zeta":{"item_1":"z"}}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, orphans := MigrateLegacySyllabus([]string{"Intro", "New"}, s)
	if len(out.Sections) != 2 {
		t.Fatalf("sections: got=%d", len(out.Sections))
	}
	if out.Sections[0].Items["item_1"] != "welcome" {
		t.Fatalf("matched title lost content: %+v", out.Sections[0])
	}
	if out.Sections[1].Items["item_1"] != "" {
		t.Fatalf("unmatched title should get default items: %+v", out.Sections[1])
	}
	want := map[string]map[string]string{
		"Old title": {"item_1": "lost"},
		"Zeta":      {"item_1": "z"},
	}
	if !reflect.DeepEqual(orphans, want) {
		t.Fatalf("orphans: want=%v got=%v", want, orphans)
	}
}

func TestReconcileCourseSyllabus(t *testing.T) {
	titles, content := ReconcileCourseSyllabus(
		[]string{"Basics", " ", "Advanced"},
		[][]string{{"a", ""}, {""}, {"b"}, {"c"}},
	)
	if !reflect.DeepEqual(titles, []string{"Basics", "Advanced"}) {
		t.Fatalf("titles: got=%v", titles)
	}
	if !reflect.DeepEqual(content, [][]string{{"a"}, {"b"}}) {
		t.Fatalf("content: got=%v", content)
	}

	titles, content = ReconcileCourseSyllabus([]string{"One", "Two"}, nil)
	if len(content) != len(titles) {
		t.Fatalf("content should be padded to titles, got=%v", content)
	}
}

func TestReconcileCourseSyllabusKeepsEmptyRowInPlace(t *testing.T) {
	titles, content := ReconcileCourseSyllabus(
		[]string{"Intro", "Advanced"},
		[][]string{{""}, {"generics", "channels"}},
	)
	if !reflect.DeepEqual(titles, []string{"Intro", "Advanced"}) {
		t.Fatalf("titles: got=%v", titles)
	}
	want := [][]string{{""}, {"generics", "channels"}}
	if !reflect.DeepEqual(content, want) {
		t.Fatalf("content: want=%v got=%v", want, content)
	}
}
