package domain

// Table names of the admin-managed resources. They double as realtime channel names.
const (
	TableBlogs          = "blogs"
	TableCourses        = "courses"
	TableOfferedCourses = "offered_course"
	TableLecturers      = "lecturers"
	TableUserForms      = "users_form"
)

// Record is implemented by every persisted entity.
type Record interface {
	GetID() uint
	TableName() string
}

// Models lists every entity for migrations, in dependency-free order.
func Models() []any {
	return []any{
		&Blog{},
		&Course{},
		&OfferedCourse{},
		&Lecturer{},
		&UserFormSubmission{},
	}
}

// Tables lists the table names that emit change notifications.
func Tables() []string {
	return []string{TableBlogs, TableCourses, TableOfferedCourses, TableLecturers, TableUserForms}
}
