package services

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/data/repos"
	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/gcp"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type (
	BlogService          = Resource[domain.Blog]
	CourseService        = Resource[domain.Course]
	OfferedCourseService = Resource[domain.OfferedCourse]
	LecturerService      = Resource[domain.Lecturer]
)

func NewBlogService(db *gorm.DB, log *logger.Logger, repo repos.Repo[domain.Blog], emitter ChangeEmitter) *BlogService {
	return NewResource(db, log, repo, BlogSchema(), emitter)
}

func NewCourseService(db *gorm.DB, log *logger.Logger, repo repos.Repo[domain.Course], emitter ChangeEmitter) *CourseService {
	return NewResource(db, log, repo, CourseSchema(), emitter)
}

func NewOfferedCourseService(db *gorm.DB, log *logger.Logger, repo repos.Repo[domain.OfferedCourse], emitter ChangeEmitter) *OfferedCourseService {
	return NewResource(db, log, repo, OfferedCourseSchema(), emitter)
}

func NewLecturerService(db *gorm.DB, log *logger.Logger, repo repos.Repo[domain.Lecturer], emitter ChangeEmitter) *LecturerService {
	return NewResource(db, log, repo, LecturerSchema(), emitter)
}

func BlogSchema() Schema[domain.Blog] {
	return Schema[domain.Blog]{
		Kind:        "Blog",
		ArrayFields: []string{"tags"},
		Patch: []PatchField{
			{Field: "title", Column: "title", SkipFalsy: true},
			{Field: "text", Column: "text", SkipFalsy: true},
			{Field: "image", Column: "image"},
			{Field: "image_file_path", Column: "image_file_path"},
			{Field: "image_file_name", Column: "image_file_name"},
			{Field: "tags", Column: "tags"},
		},
		Shape: func(b *domain.Blog) {
			b.Title = strings.TrimSpace(b.Title)
			b.Tags = domain.NormalizeStrings(domain.DedupStrings(domain.CompactStrings(b.Tags)))
		},
		Validate: func(b *domain.Blog) error {
			if b.Title == "" {
				return apierr.Validation("Title is required")
			}
			return nil
		},
		SetID: func(b *domain.Blog, id uint) { b.ID = id },
		Attachment: func(b *domain.Blog) (gcp.BucketCategory, string) {
			return gcp.BucketCategoryBlog, b.ImageFilePath
		},
	}
}

func CourseSchema() Schema[domain.Course] {
	return Schema[domain.Course]{
		Kind:        "Course",
		ArrayFields: []string{"course_details", "syllabus_title"},
		Patch: []PatchField{
			{Field: "title", Column: "title", SkipFalsy: true},
			{Field: "course_details", Column: "course_details"},
			{Field: "image", Column: "image"},
			{Field: "courseIcon", Column: "courseIcon"},
			{Field: "start_course", Column: "start_course"},
			{Field: "quantity_lessons", Column: "quantity_lessons"},
			{Field: "quantity_of_students", Column: "quantity_of_students"},
			{Field: "lesson_time", Column: "lesson_time"},
			{Field: "lecturer", Column: "lecturer"},
			{Field: "lecturer_details", Column: "lecturer_details"},
			{Field: "price", Column: "price"},
			{Field: "oldprice", Column: "oldprice"},
		},
		Shape: func(c *domain.Course) {
			c.Title = strings.TrimSpace(c.Title)
			c.CourseDetails = domain.NormalizeStrings(domain.CompactStrings(c.CourseDetails))
			titles, content := domain.ReconcileCourseSyllabus(c.SyllabusTitle, c.SyllabusContent)
			if len(titles) == 0 {
				titles, content = []string{""}, [][]string{{""}}
			}
			c.SyllabusTitle = domain.NormalizeStrings(titles)
			c.SyllabusContent = datatypes.JSONSlice[[]string](content)
		},
		Validate: func(c *domain.Course) error {
			if c.Title == "" {
				return apierr.Validation("Title is required")
			}
			return nil
		},
		SetID: func(c *domain.Course, id uint) { c.ID = id },
	}
}

// offeredRequired are the list fields that need at least one non-empty entry.
var offeredRequired = []string{
	"course_details",
	"lecturers",
	"lecturers_details",
	"syllabus_title",
	"course_category",
}

func OfferedCourseSchema() Schema[domain.OfferedCourse] {
	return Schema[domain.OfferedCourse]{
		Kind:        "Offered course",
		ArrayFields: domain.OfferedCourseArrayFields,
		Shape: func(o *domain.OfferedCourse) {
			o.Title = strings.TrimSpace(o.Title)
			o.Lecturers = domain.NormalizeStrings(o.Lecturers)
			o.LecturersDetails = domain.NormalizeStrings(o.LecturersDetails)
			o.CourseDetails = domain.NormalizeStrings(o.CourseDetails)
			o.CourseCategory = domain.NormalizeStrings(o.CourseCategory)
			if s := o.Syllabus(); len(s.Sections) > 0 {
				o.SyllabusTitle = domain.NormalizeStrings(s.Titles())
			} else {
				o.SyllabusTitle = domain.NormalizeStrings(o.SyllabusTitle)
			}
		},
		Validate: func(o *domain.OfferedCourse) error {
			if o.Title == "" {
				return apierr.Validation("Title is required")
			}
			lists := map[string][]string{
				"course_details":    o.CourseDetails,
				"lecturers":         o.Lecturers,
				"lecturers_details": o.LecturersDetails,
				"syllabus_title":    o.SyllabusTitle,
				"course_category":   o.CourseCategory,
			}
			for _, field := range offeredRequired {
				if !domain.HasNonEmpty(lists[field]) {
					return apierr.Validation(field + " is required")
				}
			}
			return nil
		},
		Finalize: func(o *domain.OfferedCourse) {
			_, syllabus := domain.ReconcileSyllabus(o.SyllabusTitle, o.Syllabus())
			o.SetSyllabus(syllabus)
			o.DiscountPercentage = domain.DeriveDiscount(o.Price, o.OldPrice, o.DiscountPercentage)
		},
		SetID: func(o *domain.OfferedCourse, id uint) { o.ID = id },
	}
}

func LecturerSchema() Schema[domain.Lecturer] {
	return Schema[domain.Lecturer]{
		Kind: "Lecturer",
		Shape: func(l *domain.Lecturer) {
			l.FullName = strings.TrimSpace(l.FullName)
			l.Field = strings.TrimSpace(l.Field)
		},
		Validate: func(l *domain.Lecturer) error {
			if l.FullName == "" {
				return apierr.Validation("Full name is required")
			}
			return nil
		},
		SetID: func(l *domain.Lecturer, id uint) { l.ID = id },
	}
}
