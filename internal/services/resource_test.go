package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/idearoom-admin/internal/data/repos"
	"github.com/yungbote/idearoom-admin/internal/data/repos/testutil"
	"github.com/yungbote/idearoom-admin/internal/domain"
	"github.com/yungbote/idearoom-admin/internal/platform/apierr"
	"github.com/yungbote/idearoom-admin/internal/platform/ctxutil"
	"github.com/yungbote/idearoom-admin/internal/realtime"
)

type fixture struct {
	set     repos.Set
	emitter *recordingEmitter
	blogs   *BlogService
	courses *CourseService
	offered *OfferedCourseService
	lects   *LecturerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(gdb, log)
	em := &recordingEmitter{}
	return &fixture{
		set:     set,
		emitter: em,
		blogs:   NewBlogService(gdb, log, set.Blogs, em),
		courses: NewCourseService(gdb, log, set.Courses, em),
		offered: NewOfferedCourseService(gdb, log, set.OfferedCourses, em),
		lects:   NewLecturerService(gdb, log, set.Lecturers, em),
	}
}

func validOffered() *domain.OfferedCourse {
	return &domain.OfferedCourse{
		Title:            "Go for admins",
		CourseDetails:    domain.StringList{"8 weeks"},
		Lecturers:        domain.StringList{"Nino"},
		LecturersDetails: domain.StringList{"Backend engineer"},
		SyllabusTitle:    domain.StringList{"Basics"},
		CourseCategory:   domain.StringList{"programming"},
		Price:            80,
		OldPrice:         100,
	}
}

func TestSaveInsertsThenUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.blogs.Save(ctx, &domain.Blog{Title: "  Hello ", Tags: domain.StringList{"go", "Go", " "}})
	if err != nil {
		t.Fatalf("Save insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("Save insert: want assigned id")
	}
	if created.Title != "Hello" {
		t.Fatalf("title: want=%q got=%q", "Hello", created.Title)
	}
	if len(created.Tags) != 1 || created.Tags[0] != "go" {
		t.Fatalf("tags: want=[go] got=%v", created.Tags)
	}
	if ch := f.emitter.last(); ch.Type != realtime.ChangeInsert || ch.Table != domain.TableBlogs || ch.ID != created.ID {
		t.Fatalf("insert change: got=%+v", ch)
	}

	created.Text = "body"
	updated, err := f.blogs.Save(ctx, created)
	if err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if updated.ID != created.ID || updated.Text != "body" {
		t.Fatalf("update: got=%+v", updated)
	}
	if ch := f.emitter.last(); ch.Type != realtime.ChangeUpdate {
		t.Fatalf("update change: want=UPDATE got=%s", ch.Type)
	}

	list, err := f.blogs.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: want=1 got=%d err=%v", len(list), err)
	}
}

func TestSaveEmptyTagsNormalized(t *testing.T) {
	f := newFixture(t)
	b, err := f.blogs.Save(context.Background(), &domain.Blog{Title: "t"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "" {
		t.Fatalf("tags: want=[\"\"] got=%v", b.Tags)
	}
}

func TestSaveValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.blogs.Save(context.Background(), &domain.Blog{Title: "   "})
	if !errors.Is(err, apierr.ErrValidation) || err.Error() != "Title is required" {
		t.Fatalf("want Title is required, got=%v", err)
	}
	if n, _ := f.blogs.Count(context.Background()); n != 0 {
		t.Fatalf("count: want=0 got=%d", n)
	}
	if f.emitter.count() != 0 {
		t.Fatalf("no change should be emitted")
	}
}

func TestSaveUnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.lects.Save(context.Background(), &domain.Lecturer{ID: 42, FullName: "Ghost"})
	if apierr.StatusOf(err) != 404 || err.Error() != "Lecturer not found" {
		t.Fatalf("want Lecturer not found, got=%v", err)
	}
}

func TestPatchBlogWritesOnlyGivenFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.blogs.Create(ctx, &domain.Blog{Title: "Original", Text: "keep me", Tags: domain.StringList{"a"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := f.blogs.Patch(ctx, b.ID, map[string]any{"title": "Renamed", "text": "", "tags": "solo"})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("title: want=Renamed got=%q", got.Title)
	}
	if got.Text != "keep me" {
		t.Fatalf("falsy text must not overwrite: got=%q", got.Text)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "solo" {
		t.Fatalf("scalar tags coerced: want=[solo] got=%v", got.Tags)
	}
}

func TestPatchNoFieldsToUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, _ := f.blogs.Create(ctx, &domain.Blog{Title: "x"})
	for _, body := range []map[string]any{
		{},
		{"title": "", "text": ""},
		{"unknown": "value"},
	} {
		_, err := f.blogs.Patch(ctx, b.ID, body)
		if err == nil || err.Error() != "No fields to update" {
			t.Fatalf("body %v: want No fields to update got=%v", body, err)
		}
	}
}

func TestPatchMissingRecord(t *testing.T) {
	f := newFixture(t)
	_, err := f.courses.Patch(context.Background(), 99, map[string]any{"title": "x"})
	if apierr.StatusOf(err) != 404 || err.Error() != "Course not found" {
		t.Fatalf("want Course not found got=%v", err)
	}
}

func TestPatchUnsupportedForOfferedCourses(t *testing.T) {
	f := newFixture(t)
	if _, err := f.offered.Patch(context.Background(), 1, map[string]any{"title": "x"}); err == nil {
		t.Fatalf("offered courses have no partial update")
	}
}

func TestCourseSyllabusAlignedToTitles(t *testing.T) {
	f := newFixture(t)
	c, err := f.courses.Create(context.Background(), &domain.Course{
		Title:           "Course",
		SyllabusTitle:   domain.StringList{"Week 1", " ", "Week 2"},
		SyllabusContent: [][]string{{"intro", ""}, {"  "}, {"loops"}, {"extra"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(c.SyllabusTitle) != 2 || c.SyllabusTitle[1] != "Week 2" {
		t.Fatalf("titles: got=%v", c.SyllabusTitle)
	}
	if len(c.SyllabusContent) != 2 || c.SyllabusContent[0][0] != "intro" || c.SyllabusContent[1][0] != "loops" {
		t.Fatalf("content: got=%v", c.SyllabusContent)
	}
	if len(c.CourseDetails) != 1 || c.CourseDetails[0] != "" {
		t.Fatalf("course_details: want=[\"\"] got=%v", c.CourseDetails)
	}
}

func TestOfferedCourseValidationOrder(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name   string
		mutate func(o *domain.OfferedCourse)
		want   string
	}{
		{"title", func(o *domain.OfferedCourse) { o.Title = " " }, "Title is required"},
		{"details", func(o *domain.OfferedCourse) { o.CourseDetails = nil }, "course_details is required"},
		{"lecturers", func(o *domain.OfferedCourse) { o.Lecturers = domain.StringList{" "} }, "lecturers is required"},
		{"lecturer details", func(o *domain.OfferedCourse) { o.LecturersDetails = nil }, "lecturers_details is required"},
		{"syllabus", func(o *domain.OfferedCourse) { o.SyllabusTitle = domain.StringList{""} }, "syllabus_title is required"},
		{"category", func(o *domain.OfferedCourse) { o.CourseCategory = nil }, "course_category is required"},
	}
	for _, tc := range cases {
		o := validOffered()
		tc.mutate(o)
		_, err := f.offered.Save(context.Background(), o)
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: want=%q got=%v", tc.name, tc.want, err)
		}
	}
}

func TestOfferedCourseDerivesDiscountAndSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.offered.Save(ctx, validOffered())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if o.DiscountPercentage != "20" {
		t.Fatalf("discount: want=20 got=%q", o.DiscountPercentage)
	}
	sections := o.Syllabus().Sections
	if len(sections) != 1 || sections[0].Title != "Basics" || sections[0].ID == "" {
		t.Fatalf("sections: got=%+v", sections)
	}
	if sections[0].Items["item_1"] != "" {
		t.Fatalf("default item: got=%v", sections[0].Items)
	}

	// Renaming keeps the section id and its items.
	s := o.Syllabus()
	s.Sections[0].Title = "Fundamentals"
	s.Sections[0].Items = map[string]string{"item_1": "variables"}
	o.SetSyllabus(s)
	o.OldPrice = 0
	again, err := f.offered.Save(ctx, o)
	if err != nil {
		t.Fatalf("Save rename: %v", err)
	}
	got := again.Syllabus().Sections
	if len(got) != 1 || got[0].ID != sections[0].ID || got[0].Items["item_1"] != "variables" {
		t.Fatalf("rename lost content: got=%+v", got)
	}
	if len(again.SyllabusTitle) != 1 || again.SyllabusTitle[0] != "Fundamentals" {
		t.Fatalf("syllabus_title: got=%v", again.SyllabusTitle)
	}
	if again.DiscountPercentage != "20" {
		t.Fatalf("discount kept when old price unset: got=%q", again.DiscountPercentage)
	}
}

func TestDeleteEmitsAndReportsMissing(t *testing.T) {
	f := newFixture(t)
	sd := &ctxutil.SessionData{Status: ctxutil.SessionAuthenticated, SessionID: uuid.New()}
	ctx := ctxutil.WithSessionData(context.Background(), sd)

	l, err := f.lects.Create(ctx, &domain.Lecturer{FullName: "Tamar"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.lects.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ch := f.emitter.last()
	if ch.Type != realtime.ChangeDelete || ch.ID != l.ID || ch.Actor != sd.SessionID.String() {
		t.Fatalf("delete change: got=%+v", ch)
	}
	if len(ch.New) != 0 {
		t.Fatalf("delete change should carry no row")
	}
	if err := f.lects.Delete(ctx, l.ID); apierr.StatusOf(err) != 404 {
		t.Fatalf("second delete: want 404 got=%v", err)
	}
}

func TestUserFormServiceListAndDelete(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	set := repos.NewSet(gdb, log)
	em := &recordingEmitter{}
	svc := NewUserFormService(gdb, log, set.UserForms, em)
	ctx := context.Background()

	if err := gdb.Create(&domain.UserFormSubmission{Email: "a@example.com", FirstName: "Ana"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: want=1 got=%d err=%v", len(list), err)
	}
	if err := svc.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if em.last().Table != domain.TableUserForms {
		t.Fatalf("change table: got=%q", em.last().Table)
	}
	if err := svc.Delete(ctx, list[0].ID); err == nil || err.Error() != "Submission not found" {
		t.Fatalf("missing: got=%v", err)
	}
}

func TestDeleteBlogRemovesStoredImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fb := newFakeBuckets()
	f.blogs.UseMedia(NewMediaService(testutil.Logger(t), fb, MediaConfig{}))

	created, err := f.blogs.Save(ctx, &domain.Blog{Title: "With cover", ImageFilePath: "cover-1.png"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	inline, err := f.blogs.Save(ctx, &domain.Blog{Title: "Inline cover", ImageFilePath: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("Save inline: %v", err)
	}

	if err := f.blogs.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.blogs.Delete(ctx, inline.ID); err != nil {
		t.Fatalf("Delete inline: %v", err)
	}
	if err := f.blogs.Delete(ctx, created.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("second delete: want not found got=%v", err)
	}
	if len(fb.deleted) != 1 || fb.deleted[0] != "cover-1.png" {
		t.Fatalf("deleted objects: want=[cover-1.png] got=%v", fb.deleted)
	}
}
