package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/logger"
)

type Set struct {
	Blogs          Repo[domain.Blog]
	Courses        Repo[domain.Course]
	OfferedCourses Repo[domain.OfferedCourse]
	Lecturers      Repo[domain.Lecturer]
	UserForms      Repo[domain.UserFormSubmission]
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Blogs:          NewRepo[domain.Blog](db, log),
		Courses:        NewRepo[domain.Course](db, log),
		OfferedCourses: NewRepo[domain.OfferedCourse](db, log),
		Lecturers:      NewRepo[domain.Lecturer](db, log),
		UserForms:      NewRepo[domain.UserFormSubmission](db, log),
	}
}
