//go:build testutil
// +build testutil

package db_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/pagination"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

func TestCourse_SoftDeleteAndRestore(t *testing.T) {
	ctx, database := freshDB(t)

	c, err := db.CreateCourse(ctx, database, store.Values{"name": "Safety 101", "status": 1, "type": 1})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := db.DeleteCourse(ctx, database, c.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	got, err := db.GetCourse(ctx, database, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("deleted course still visible: %#v", got)
	}
	var deletedAt *string
	if err := database.QueryRow(`SELECT deleted_at::text FROM lms.course WHERE id = $1`, c.ID).Scan(&deletedAt); err != nil {
		t.Fatal(err)
	}
	if deletedAt == nil {
		t.Fatal("row must remain with deleted_at set")
	}

	if ok, err := db.DeleteCourse(ctx, database, c.ID); err != nil || ok {
		t.Fatalf("second delete must report no change: ok=%v err=%v", ok, err)
	}
	if ok, err := db.RestoreCourse(ctx, database, c.ID); err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}
	if got, _ := db.GetCourse(ctx, database, c.ID); got == nil {
		t.Fatal("restored course must be visible")
	}
}

func TestCourse_CodeUniqueness(t *testing.T) {
	ctx, database := freshDB(t)

	first, err := db.CreateCourse(ctx, database, store.Values{"name": "A", "course_code": "C-001"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateCourse(ctx, database, store.Values{"name": "B", "course_code": "C-001"}); !errors.Is(err, db.ErrCodeExists) {
		t.Fatalf("want ErrCodeExists, got %v", err)
	}
	if exists, _ := db.CourseCodeExists(ctx, database, "C-001", first.ID); exists {
		t.Fatal("own code must not count when excluded")
	}
	if exists, _ := db.CourseCodeExists(ctx, database, "  ", 0); exists {
		t.Fatal("empty code never exists")
	}
	if _, err := db.CreateCourse(ctx, database, store.Values{"name": "N1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateCourse(ctx, database, store.Values{"name": "N2"}); err != nil {
		t.Fatalf("NULL codes never collide: %v", err)
	}

	if _, err := db.DeleteCourse(ctx, database, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateCourse(ctx, database, store.Values{"name": "B", "course_code": "C-001"}); err != nil {
		t.Fatalf("code of deleted course must be reusable: %v", err)
	}
}

func TestCourse_Duplicate(t *testing.T) {
	ctx, database := freshDB(t)

	code := "OPS-7"
	src, err := db.CreateCourse(ctx, database, store.Values{
		"name": "Ops", "course_code": &code, "status": 1, "keywords": "ops,store", "pretest": 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	dup, err := db.DuplicateCourse(ctx, database, src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == src.ID || dup.Name != "Ops (Copy)" || dup.Code() != "OPS-7-copy" {
		t.Fatalf("bad duplicate: %#v", dup)
	}
	if dup.Status != models.CourseDraft || dup.Keywords != "ops,store" || dup.Pretest != 1 {
		t.Fatalf("duplicate lost fields: %#v", dup)
	}

	again, err := db.DuplicateCourse(ctx, database, src.ID)
	if err != nil {
		t.Fatalf("second duplicate: %v", err)
	}
	if again.Code() != "OPS-7-copy-2" || again.ID == dup.ID {
		t.Fatalf("second duplicate code: %q", again.Code())
	}
	third, err := db.DuplicateCourse(ctx, database, src.ID)
	if err != nil || third.Code() != "OPS-7-copy-3" {
		t.Fatalf("third duplicate: %v %v", third, err)
	}

	// the index still backs the pre-insert check
	taken := "OPS-7-copy"
	if _, err := db.Courses.Create(ctx, database, store.Values{"name": "Raw", "course_code": &taken}); err == nil {
		t.Fatal("live code index must reject a second OPS-7-copy")
	}

	noCode, _ := db.CreateCourse(ctx, database, store.Values{"name": "Plain"})
	dup2, err := db.DuplicateCourse(ctx, database, noCode.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup2.CourseCode != nil {
		t.Fatalf("NULL code must stay NULL, got %q", *dup2.CourseCode)
	}

	missing, err := db.DuplicateCourse(ctx, database, 999999)
	if err != nil || missing != nil {
		t.Fatalf("missing source: %v %v", missing, err)
	}
}

func TestCourse_ListPagination(t *testing.T) {
	ctx, database := freshDB(t)

	for i := range 45 {
		status := 1
		if i%3 == 0 {
			status = 2
		}
		if _, err := db.CreateCourse(ctx, database, store.Values{"name": "Course", "status": status}); err != nil {
			t.Fatal(err)
		}
	}
	for _, perPage := range []int{7, 20, 50} {
		pg, err := db.ListCourses(ctx, database, db.CourseFilter{}, pagination.New(1, perPage, pagination.CourseOpts))
		if err != nil {
			t.Fatal(err)
		}
		want := int(math.Ceil(45 / float64(perPage)))
		if pg.Pagination.Total != 45 || pg.Pagination.TotalPages != want || len(pg.Data) > perPage {
			t.Fatalf("perPage=%d: %+v len=%d", perPage, pg.Pagination, len(pg.Data))
		}
	}

	draft := 2
	pg, err := db.ListCourses(ctx, database, db.CourseFilter{Status: &draft}, pagination.New(1, 20, pagination.CourseOpts))
	if err != nil {
		t.Fatal(err)
	}
	if pg.Pagination.Total != 15 {
		t.Fatalf("want 15 drafts, got %d", pg.Pagination.Total)
	}
	if pg.Data[0].ID < pg.Data[1].ID {
		t.Fatal("listing must be id DESC")
	}

	stats, err := db.CourseStats(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 45 || stats.Active != 30 || stats.Draft != 15 || stats.Inactive != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCourse_DocumentsAndPositions(t *testing.T) {
	ctx, database := freshDB(t)

	c, err := db.CreateCourse(ctx, database, store.Values{"name": "Docs"})
	if err != nil {
		t.Fatal(err)
	}
	d1 := mustSeedDocument(t, database, "Intro", int(models.DocVideo))
	d2 := mustSeedDocument(t, database, "Manual", int(models.DocPDF))
	d3 := mustSeedDocument(t, database, "Exam", int(models.DocQuiz))

	for _, d := range []int64{d1, d2, d3} {
		if _, err := db.AddCourseDocument(ctx, database, c.ID, d); err != nil {
			t.Fatal(err)
		}
	}
	again, err := db.AddCourseDocument(ctx, database, c.ID, d1)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := db.CountCourseDocuments(ctx, database, c.ID); n != 3 || again == nil {
		t.Fatalf("re-adding must not create a second link, count=%d", n)
	}

	if err := db.ReorderCourseDocuments(ctx, database, c.ID, []int64{d3, d1, d2}); err != nil {
		t.Fatal(err)
	}
	linked, err := db.LinkedDocuments(ctx, database, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 3 || linked[0].DocumentID != d3 || linked[0].Order != 1 || linked[2].DocumentID != d2 {
		t.Fatalf("order not applied: %+v", linked)
	}
	if linked[0].TypeIcon != "ri-question-line" || linked[2].TypeLabel != "PDF" {
		t.Fatalf("labels: %+v", linked)
	}

	found, err := db.SearchDocuments(ctx, database, "", 0, []int64{d1, d3})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != d2 {
		t.Fatalf("exclusion failed: %+v", found)
	}

	if ok, _ := db.RemoveCourseDocument(ctx, database, c.ID, d1); !ok {
		t.Fatal("remove must report a change")
	}

	p1 := mustSeedPosition(t, database, "Cashier")
	p2 := mustSeedPosition(t, database, "Manager")
	p3 := mustSeedPosition(t, database, "Baker")
	if err := db.SyncCoursePositions(ctx, database, c.ID, []int64{p1, p2}); err != nil {
		t.Fatal(err)
	}
	if err := db.SyncCoursePositions(ctx, database, c.ID, []int64{p2, p3}); err != nil {
		t.Fatal(err)
	}
	cps, err := db.CoursePositionList(ctx, database, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cps) != 2 || cps[0].PositionName != "Baker" || cps[1].PositionName != "Manager" {
		t.Fatalf("sync result: %+v", cps)
	}
	if err := db.SyncCoursePositions(ctx, database, c.ID, nil); err != nil {
		t.Fatal(err)
	}
	if n, _ := db.CountCoursePositions(ctx, database, c.ID); n != 0 {
		t.Fatalf("sync to empty must unlink all, have %d", n)
	}
}
