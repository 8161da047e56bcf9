package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID                 uint                          `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time                     `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Title              string                        `gorm:"column:title;not null" json:"title"`
	CourseDetails      StringList                    `gorm:"column:course_details" json:"course_details"`
	Image              string                        `gorm:"column:image" json:"image"`
	CourseIcon         string                        `gorm:"column:courseIcon" json:"courseIcon"`
	StartCourse        string                        `gorm:"column:start_course" json:"start_course"`
	QuantityLessons    int                           `gorm:"column:quantity_lessons" json:"quantity_lessons"`
	QuantityOfStudents string                        `gorm:"column:quantity_of_students" json:"quantity_of_students"`
	LessonTime         int                           `gorm:"column:lesson_time" json:"lesson_time"`
	Lecturer           string                        `gorm:"column:lecturer" json:"lecturer"`
	LecturerDetails    string                        `gorm:"column:lecturer_details;type:text" json:"lecturer_details"`
	Price              float64                       `gorm:"column:price" json:"price"`
	OldPrice           float64                       `gorm:"column:oldprice" json:"oldprice"`
	SyllabusTitle      StringList                    `gorm:"column:syllabus_title" json:"syllabus_title"`
	SyllabusContent    datatypes.JSONSlice[[]string] `gorm:"column:syllabus_content" json:"syllabus_content"`
}

func (Course) TableName() string { return TableCourses }
func (c Course) GetID() uint { return c.ID }

// ReconcileCourseSyllabus keeps syllabus_content[i] paired with
// syllabus_title[i]. A pair is dropped only when its title is blank; blank
// items inside a row are removed but an emptied row stays as [""]. Extra
// content is truncated and missing content is padded with [""].
func ReconcileCourseSyllabus(titles []string, content [][]string) ([]string, [][]string) {
	keptTitles := make([]string, 0, len(titles))
	keptContent := make([][]string, 0, len(titles))
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		row := []string{""}
		if i < len(content) {
			if items := CompactStrings(content[i]); len(items) > 0 {
				row = items
			}
		}
		keptTitles = append(keptTitles, title)
		keptContent = append(keptContent, row)
	}
	return keptTitles, keptContent
}
