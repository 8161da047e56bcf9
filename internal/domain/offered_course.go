package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferedCourse is the marketing bundle shown on the public site: pricing,
// discount and syllabus presentation for a course.
type OfferedCourse struct {
	ID                 uint                         `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time                    `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Title              string                       `gorm:"column:title;not null" json:"title"`
	Text               string                       `gorm:"column:text;type:text" json:"text"`
	Image              string                       `gorm:"column:image;type:text" json:"image"`
	CourseIcon         string                       `gorm:"column:courseIcon;type:text" json:"courseIcon"`
	Lecturers          StringList                   `gorm:"column:lecturers" json:"lecturers"`
	LecturersDetails   StringList                   `gorm:"column:lecturers_details" json:"lecturers_details"`
	CourseDetails      StringList                   `gorm:"column:course_details" json:"course_details"`
	QuantityOfLessons  string                       `gorm:"column:quantity_of_lessons" json:"quantity_of_lessons"`
	QuantityOfStudents string                       `gorm:"column:quantity_of_students" json:"quantity_of_students"`
	Price              float64                      `gorm:"column:price" json:"price"`
	OldPrice           float64                      `gorm:"column:old_price" json:"old_price"`
	DiscountPercentage string                       `gorm:"column:discount_percentage" json:"discount_percentage"`
	SyllabusTitle      StringList                   `gorm:"column:syllabus_title" json:"syllabus_title"`
	SyllabusContent    datatypes.JSONType[Syllabus] `gorm:"column:syllabus_content" json:"syllabus_content"`
	CourseCategory     StringList                   `gorm:"column:course_category" json:"course_category"`
}

func (OfferedCourse) TableName() string { return TableOfferedCourses }
func (o OfferedCourse) GetID() uint { return o.ID }

// OfferedCourseArrayFields are the list columns coerced on every write.
var OfferedCourseArrayFields = []string{
	"lecturers",
	"lecturers_details",
	"course_details",
	"syllabus_title",
	"course_category",
}

// Syllabus returns the decoded syllabus content.
func (o *OfferedCourse) Syllabus() Syllabus { return o.SyllabusContent.Data() }

func (o *OfferedCourse) SetSyllabus(s Syllabus) {
	o.SyllabusContent = datatypes.NewJSONType(s)
	o.SyllabusTitle = NormalizeStrings(s.Titles())
}

// AfterFind presents legacy title-keyed rows in the sectioned shape. The
// stored row is left alone until it is saved or migrated.
func (o *OfferedCourse) AfterFind(tx *gorm.DB) error {
	s := o.Syllabus()
	if s.HasLegacy() {
		migrated, _ := MigrateLegacySyllabus(o.SyllabusTitle, s)
		o.SyllabusContent = datatypes.NewJSONType(migrated)
	}
	return nil
}
