package console

import (
	"time"

	"github.com/yungbote/idearoom-admin/internal/domain"
)

// Columns tells a Table how to read one record type.
type Columns[T any] struct {
	// Kind is the label used in notices, e.g. "Lecturer".
	Kind string
	// Resource is the API path segment, e.g. "offered-courses".
	Resource string
	// Channel is the change stream the table listens on.
	Channel   string
	ID        func(*T) uint
	CreatedAt func(*T) time.Time
	// Text returns the values a search term is matched against.
	Text func(*T) []string
	// Fields are the sortable columns. Values are time.Time, a number or a string.
	Fields map[string]func(*T) any
}

func (c Columns[T]) sortable(field string) bool {
	if field == FieldCreatedAt || field == FieldID {
		return true
	}
	_, ok := c.Fields[field]
	return ok
}

func (c Columns[T]) value(rec *T, field string) any {
	switch field {
	case FieldCreatedAt:
		return c.CreatedAt(rec)
	case FieldID:
		return c.ID(rec)
	}
	if fn, ok := c.Fields[field]; ok {
		return fn(rec)
	}
	return nil
}

const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

func BlogColumns() Columns[domain.Blog] {
	return Columns[domain.Blog]{
		Kind:      "Blog",
		Resource:  "blogs",
		Channel:   domain.TableBlogs,
		ID:        func(b *domain.Blog) uint { return b.ID },
		CreatedAt: func(b *domain.Blog) time.Time { return b.CreatedAt },
		Text: func(b *domain.Blog) []string {
			return append([]string{b.Title, b.Text}, b.Tags...)
		},
		Fields: map[string]func(*domain.Blog) any{
			"title": func(b *domain.Blog) any { return b.Title },
		},
	}
}

func CourseColumns() Columns[domain.Course] {
	return Columns[domain.Course]{
		Kind:      "Course",
		Resource:  "courses",
		Channel:   domain.TableCourses,
		ID:        func(c *domain.Course) uint { return c.ID },
		CreatedAt: func(c *domain.Course) time.Time { return c.CreatedAt },
		Text: func(c *domain.Course) []string {
			return append([]string{c.Title}, c.CourseDetails...)
		},
		Fields: map[string]func(*domain.Course) any{
			"title":            func(c *domain.Course) any { return c.Title },
			"quantity_lessons": func(c *domain.Course) any { return c.QuantityLessons },
			"lesson_time":      func(c *domain.Course) any { return c.LessonTime },
			"price":            func(c *domain.Course) any { return c.Price },
		},
	}
}

func OfferedCourseColumns() Columns[domain.OfferedCourse] {
	return Columns[domain.OfferedCourse]{
		Kind:      "Offered course",
		Resource:  "offered-courses",
		Channel:   domain.TableOfferedCourses,
		ID:        func(o *domain.OfferedCourse) uint { return o.ID },
		CreatedAt: func(o *domain.OfferedCourse) time.Time { return o.CreatedAt },
		Text: func(o *domain.OfferedCourse) []string {
			return append([]string{o.Title, o.Text}, o.CourseCategory...)
		},
		Fields: map[string]func(*domain.OfferedCourse) any{
			"title":     func(o *domain.OfferedCourse) any { return o.Title },
			"price":     func(o *domain.OfferedCourse) any { return o.Price },
			"old_price": func(o *domain.OfferedCourse) any { return o.OldPrice },
		},
	}
}

func LecturerColumns() Columns[domain.Lecturer] {
	return Columns[domain.Lecturer]{
		Kind:      "Lecturer",
		Resource:  "lecturers",
		Channel:   domain.TableLecturers,
		ID:        func(l *domain.Lecturer) uint { return l.ID },
		CreatedAt: func(l *domain.Lecturer) time.Time { return l.CreatedAt },
		Text: func(l *domain.Lecturer) []string {
			return []string{l.FullName, l.Field}
		},
		Fields: map[string]func(*domain.Lecturer) any{
			"fullName": func(l *domain.Lecturer) any { return l.FullName },
			"field":    func(l *domain.Lecturer) any { return l.Field },
		},
	}
}

func UserFormColumns() Columns[domain.UserFormSubmission] {
	return Columns[domain.UserFormSubmission]{
		Kind:      "Submission",
		Resource:  "users-form",
		Channel:   domain.TableUserForms,
		ID:        func(u *domain.UserFormSubmission) uint { return u.ID },
		CreatedAt: func(u *domain.UserFormSubmission) time.Time { return u.CreatedAt },
		Text: func(u *domain.UserFormSubmission) []string {
			return []string{u.FirstName, u.LastName, u.Email, u.ChoosedCourse}
		},
		Fields: map[string]func(*domain.UserFormSubmission) any{
			"lastName":      func(u *domain.UserFormSubmission) any { return u.LastName },
			"choosedCourse": func(u *domain.UserFormSubmission) any { return u.ChoosedCourse },
		},
	}
}
