//go:build testutil
// +build testutil

package db_test

import (
	"testing"

	"github.com/lotuss-academy/lms-admin/internal/db"
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

func TestQuiz_CreateDefaults(t *testing.T) {
	ctx, database := freshDB(t)

	q, err := db.CreateQuiz(ctx, database, store.Values{"title": "Pre", "bogus": 1})
	if err != nil {
		t.Fatal(err)
	}
	if q.Score != 80 || q.Type != models.QuizPretest || q.IsPublish != 0 || q.Status != 1 || q.UserID == nil || *q.UserID != 1 {
		t.Fatalf("defaults not applied: %+v", q)
	}

	changed, err := db.UpdateQuiz(ctx, database, q.ID, store.Values{"status": 0, "user_id": 9})
	if err != nil || changed {
		t.Fatalf("columns outside the update list must be ignored: changed=%v err=%v", changed, err)
	}
	if changed, err := db.UpdateQuiz(ctx, database, q.ID, store.Values{"is_publish": 1}); err != nil || !changed {
		t.Fatalf("publish: %v %v", changed, err)
	}
	stats, err := db.QuizStats(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Published != 1 || stats.Draft != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestQuiz_DuplicateCopiesAbcd(t *testing.T) {
	ctx, database := freshDB(t)

	src, err := db.CreateQuiz(ctx, database, store.Values{"title": "Final", "is_publish": 1, "score": 70})
	if err != nil {
		t.Fatal(err)
	}
	var originals []*models.QuestionAbcd
	for i, correct := range []string{"answer_a_correct", "answer_c_correct", "answer_d_correct"} {
		q, err := db.CreateAbcd(ctx, database, src.ID, store.Values{
			"title": "Q", "answer_a": "a", "answer_b": "b", "answer_c": "c", "answer_d": "d",
			correct: 1, "order": i + 1,
		})
		if err != nil {
			t.Fatal(err)
		}
		originals = append(originals, q)
	}

	dup, err := db.DuplicateQuiz(ctx, database, src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.Title != "Final (Copy)" || dup.IsPublish != 0 || dup.Score != 70 {
		t.Fatalf("bad quiz copy: %+v", dup)
	}

	copies, err := db.AbcdByQuiz(ctx, database, dup.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != len(originals) {
		t.Fatalf("want %d questions, got %d", len(originals), len(copies))
	}
	for i, c := range copies {
		o := originals[i]
		if c.ID == o.ID || c.QuizID != dup.ID {
			t.Fatalf("copy %d must be a fresh row on the new quiz: %+v", i, c)
		}
		if c.AnswerA != o.AnswerA || c.AnswerD != o.AnswerD ||
			c.AnswerACorrect != o.AnswerACorrect || c.AnswerBCorrect != o.AnswerBCorrect ||
			c.AnswerCCorrect != o.AnswerCCorrect || c.AnswerDCorrect != o.AnswerDCorrect {
			t.Fatalf("copy %d differs: %+v vs %+v", i, c.QuestionAbcd, *o)
		}
		if c.SortOrder != i+1 {
			t.Fatalf("copy %d order %d", i, c.SortOrder)
		}
	}

	srcQs, _ := db.AbcdByQuiz(ctx, database, src.ID)
	if len(srcQs) != 3 {
		t.Fatal("source quiz must be untouched")
	}
}

func TestQuiz_QuestionsReorderAndDelete(t *testing.T) {
	ctx, database := freshDB(t)

	quiz, _ := db.CreateQuiz(ctx, database, store.Values{"title": "Order"})
	a, _ := db.CreateAbcd(ctx, database, quiz.ID, store.Values{"title": "first"})
	b, _ := db.CreateAbcd(ctx, database, quiz.ID, store.Values{"title": "second"})
	if a.Order != 9999 || a.MediaType != 1 || a.Weight != 1 || a.AnswerA != "" {
		t.Fatalf("abcd defaults: %+v", a)
	}

	list, _ := db.AbcdByQuiz(ctx, database, quiz.ID)
	if err := db.ReorderQuestions(ctx, database, quiz.ID, []db.QuestionOrder{
		{ID: list[0].LinkID, Order: 2}, {ID: list[1].LinkID, Order: 1},
	}); err != nil {
		t.Fatal(err)
	}
	detail, err := db.GetQuizWithQuestions(ctx, database, quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Questions) != 2 || detail.Questions[0].Title != "second" || detail.Questions[0].TypeName != "abcd" {
		t.Fatalf("questions: %+v", detail.Questions)
	}
	if detail.Questions[0].ABCD == nil || detail.Questions[0].ABCD.ID != b.ID {
		t.Fatal("abcd detail must be attached")
	}

	if ok, err := db.DeleteAbcd(ctx, database, a.ID); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	detail, _ = db.GetQuizWithQuestions(ctx, database, quiz.ID)
	if len(detail.Questions) != 1 {
		t.Fatalf("link row must be deleted with its question, have %d", len(detail.Questions))
	}
}
