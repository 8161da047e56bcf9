package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// DefaultSyllabusTitle is used when a course is saved without any section title.
const DefaultSyllabusTitle = "სილაბუსი"

// SyllabusSection is one titled block of an offered course syllabus. ID is
// assigned once and survives title edits, so renaming keeps the items.
type SyllabusSection struct {
	ID    string            `json:"id" yaml:"id"`
	Title string            `json:"title" yaml:"title"`
	Items map[string]string `json:"items" yaml:"items"`
}

// Syllabus is stored in offered_course.syllabus_content as
// {"sections":[...]}. Rows written before sections existed hold an object
// keyed by title text; those are kept in legacy until migrated.
type Syllabus struct {
	Sections []SyllabusSection `json:"sections"`

	legacy map[string]map[string]string
}

func NewSectionID() string { return "s_" + uuid.NewString() }

func defaultItems() map[string]string { return map[string]string{"item_1": ""} }

// HasLegacy reports whether the value was decoded from the title-keyed shape.
func (s Syllabus) HasLegacy() bool { return len(s.legacy) > 0 }

// Legacy returns a copy of the title-keyed content, if any.
func (s Syllabus) Legacy() map[string]map[string]string {
	if len(s.legacy) == 0 {
		return nil
	}
	out := make(map[string]map[string]string, len(s.legacy))
	for k, v := range s.legacy {
		out[k] = cloneItems(v)
	}
	return out
}

// Titles returns the section titles in order.
func (s Syllabus) Titles() []string {
	out := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, sec.Title)
	}
	return out
}

func (s Syllabus) MarshalJSON() ([]byte, error) {
	sections := s.Sections
	if sections == nil {
		sections = []SyllabusSection{}
	}
	return json.Marshal(struct {
		Sections []SyllabusSection `json:"sections"`
	}{Sections: sections})
}

// UnmarshalJSON accepts the sectioned shape and the legacy title-keyed shape.
// Anything that is not a JSON object decodes to an empty syllabus.
func (s *Syllabus) UnmarshalJSON(data []byte) error {
	*s = Syllabus{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if secRaw, ok := raw["sections"]; ok {
		var sections []SyllabusSection
		if err := json.Unmarshal(secRaw, &sections); err == nil {
			s.Sections = sections
			return nil
		}
	}
	legacy := make(map[string]map[string]string, len(raw))
	for title, v := range raw {
		var items map[string]any
		if err := json.Unmarshal(v, &items); err != nil {
			items = map[string]any{"item_1": ""}
		}
		out := make(map[string]string, len(items))
		for k, item := range items {
			out[k] = scalarString(item)
		}
		legacy[title] = out
	}
	if len(legacy) > 0 {
		s.legacy = legacy
	}
	return nil
}

// MigrateLegacySyllabus converts title-keyed content into sections ordered by
// titles. Content under keys that match no title is returned as orphans with
// its items intact.
func MigrateLegacySyllabus(titles []string, s Syllabus) (Syllabus, map[string]map[string]string) {
	if !s.HasLegacy() {
		return s, nil
	}
	used := make(map[string]bool, len(titles))
	out := Syllabus{Sections: make([]SyllabusSection, 0, len(titles))}
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		items, ok := s.legacy[title]
		if !ok || len(items) == 0 {
			items = defaultItems()
		}
		used[title] = true
		out.Sections = append(out.Sections, SyllabusSection{
			ID:    NewSectionID(),
			Title: title,
			Items: cloneItems(items),
		})
	}
	var orphans map[string]map[string]string
	for key, items := range s.legacy {
		if used[key] {
			continue
		}
		if orphans == nil {
			orphans = map[string]map[string]string{}
		}
		orphans[key] = cloneItems(items)
	}
	return out, orphans
}

// ReconcileSyllabus returns the syllabus_title list and the sectioned content
// to persist. Sections are authoritative when present; a draft carrying only
// titles (or legacy content) gets one section per title. Blank titles are
// dropped, every section gets an ID and at least one item, and an empty
// syllabus becomes a single default section.
func ReconcileSyllabus(titles []string, s Syllabus) ([]string, Syllabus) {
	if s.HasLegacy() {
		s, _ = MigrateLegacySyllabus(titles, s)
	}
	sections := s.Sections
	if len(sections) == 0 {
		for _, t := range titles {
			sections = append(sections, SyllabusSection{Title: t})
		}
	}

	seen := map[string]bool{}
	out := make([]SyllabusSection, 0, len(sections))
	for _, sec := range sections {
		sec.Title = strings.TrimSpace(sec.Title)
		if sec.Title == "" {
			continue
		}
		if sec.ID == "" || seen[sec.ID] {
			sec.ID = NewSectionID()
		}
		seen[sec.ID] = true
		if len(sec.Items) == 0 {
			sec.Items = defaultItems()
		} else {
			sec.Items = cloneItems(sec.Items)
		}
		out = append(out, sec)
	}
	if len(out) == 0 {
		out = append(out, SyllabusSection{ID: NewSectionID(), Title: DefaultSyllabusTitle, Items: defaultItems()})
	}
	result := Syllabus{Sections: out}
	return result.Titles(), result
}

func cloneItems(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ParseSyllabusContent decodes a stored or submitted syllabus_content value.
func ParseSyllabusContent(raw []byte) Syllabus {
	var s Syllabus
	_ = s.UnmarshalJSON(raw)
	return s
}
