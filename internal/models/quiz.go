package models

import "time"

type QuizType int

const (
	QuizPretest  QuizType = 1
	QuizPosttest QuizType = 2
)

func (t QuizType) Label() string {
	if t == QuizPosttest {
		return "Post-test"
	}
	return "Pre-test"
}

type Quiz struct {
	ID               int64     `json:"id"`
	CourseID         *int64    `json:"course_id"`
	UserID           *int64    `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Score            int       `json:"score"`
	IsPublish        int       `json:"is_publish"`
	IsRandomQuestion int       `json:"is_random_question"`
	IsShowAnswer     int       `json:"is_show_answer"`
	Type             QuizType  `json:"type"`
	Video            string    `json:"video"`
	Status           int       `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (q Quiz) StatusLabel() string {
	if q.IsPublish == 1 {
		return "Published"
	}
	return "Draft"
}

func (q Quiz) StatusBadge() string {
	switch q.IsPublish {
	case 0:
		return "bg-label-warning"
	case 1:
		return "bg-label-success"
	}
	return "bg-label-secondary"
}

// QuizListItem is a listing row with its course name and question count.
type QuizListItem struct {
	Quiz
	CourseName    string `json:"course_name"`
	QuestionCount int64  `json:"question_count"`
}

type QuizDetail struct {
	Quiz
	CourseName string          `json:"course_name"`
	Questions  []QuestionEntry `json:"questions"`
}

type QuizStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
}
