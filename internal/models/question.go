package models

import (
	"strconv"
	"time"
)

type QuestionType int

const (
	QuestionABCD       QuestionType = 1
	QuestionYesNo      QuestionType = 2
	QuestionWrite      QuestionType = 3
	QuestionMatch      QuestionType = 4
	QuestionMatchImage QuestionType = 5
)

func (t QuestionType) Name() string {
	switch t {
	case QuestionABCD:
		return "abcd"
	case QuestionYesNo:
		return "yn"
	case QuestionWrite:
		return "write"
	case QuestionMatch:
		return "match"
	case QuestionMatchImage:
		return "matchp"
	}
	return ""
}

// ParseQuestionType accepts the numeric code or the short name.
func ParseQuestionType(s string) (QuestionType, bool) {
	for t := QuestionABCD; t <= QuestionMatchImage; t++ {
		if s == t.Name() || s == strconv.Itoa(int(t)) {
			return t, true
		}
	}
	return 0, false
}

// DetailTable is the unqualified table holding rows of this type.
func (t QuestionType) DetailTable() string {
	switch t {
	case QuestionABCD:
		return "question_abcd"
	case QuestionYesNo:
		return "question_yn"
	case QuestionWrite:
		return "question_write"
	case QuestionMatch:
		return "question_match"
	case QuestionMatchImage:
		return "question_match_picture"
	}
	return ""
}

// Question links a quiz to a row in the type-specific detail table.
type Question struct {
	ID         int64        `json:"id"`
	QuizID     int64        `json:"quiz_id"`
	QuestionID int64        `json:"question_id"`
	Type       QuestionType `json:"type"`
	Order      int          `json:"order"`
	Status     int          `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// QuestionEntry is a quiz question with its detail title and, for ABCD, the full row.
type QuestionEntry struct {
	Question
	TypeName string        `json:"type_name"`
	Title    string        `json:"title"`
	ABCD     *QuestionAbcd `json:"detail,omitempty"`
}

type QuestionAbcd struct {
	ID             int64     `json:"id"`
	QuizID         int64     `json:"quiz_id"`
	Title          string    `json:"title"`
	AnswerA        string    `json:"answer_a"`
	AnswerB        string    `json:"answer_b"`
	AnswerC        string    `json:"answer_c"`
	AnswerD        string    `json:"answer_d"`
	AnswerACorrect int       `json:"answer_a_correct"`
	AnswerBCorrect int       `json:"answer_b_correct"`
	AnswerCCorrect int       `json:"answer_c_correct"`
	AnswerDCorrect int       `json:"answer_d_correct"`
	Order          int       `json:"order"`
	Path           string    `json:"path"`
	Image          string    `json:"image"`
	Video          string    `json:"video"`
	MediaType      int       `json:"media_type"`
	IsRandom       int       `json:"is_random"`
	Weight         int       `json:"weight"`
	Status         int       `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AbcdWithOrder is an ABCD row as listed for a quiz, carrying the link row's order.
type AbcdWithOrder struct {
	QuestionAbcd
	LinkID    int64 `json:"question_link_id"`
	SortOrder int   `json:"sort_order"`
}
