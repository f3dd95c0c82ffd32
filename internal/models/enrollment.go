package models

import "time"

// Finished mirrors class_student.is_finished. NULL reads as in progress.
type Finished int

const (
	InProgress    Finished = 0
	Completed     Finished = 1
	PendingReview Finished = 2
)

func (f Finished) Label() string {
	switch f {
	case Completed:
		return "Completed"
	case PendingReview:
		return "Pending review"
	}
	return "In progress"
}

func (f Finished) Badge() string {
	switch f {
	case Completed:
		return "bg-label-success"
	case PendingReview:
		return "bg-label-info"
	}
	return "bg-label-warning"
}

// CourseHistory is one enrollment of a user with its course and class.
type CourseHistory struct {
	ClassStudentID int64     `json:"class_student_id"`
	UserID         int64     `json:"user_id"`
	ClassID        *int64    `json:"class_id"`
	CourseID       *int64    `json:"course_id"`
	IsFinished     Finished  `json:"is_finished"`
	Score          *float64  `json:"score"`
	TotalScore     *float64  `json:"total_score"`
	Pretest        *float64  `json:"pretest"`
	Posttest       *float64  `json:"posttest"`
	OnTime         *int      `json:"ontime"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CourseName     string    `json:"course_name"`
	ClassCreatorID *int64    `json:"class_creator_id"`
	ClassFinished  *int      `json:"class_finished"`
}

// ClassStudent is a single enrollment with course and learner names.
type ClassStudent struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ClassID    *int64    `json:"class_id"`
	CourseID   *int64    `json:"course_id"`
	IsFinished Finished  `json:"is_finished"`
	Score      *float64  `json:"score"`
	TotalScore *float64  `json:"total_score"`
	Pretest    *float64  `json:"pretest"`
	Posttest   *float64  `json:"posttest"`
	OnTime     *int      `json:"ontime"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CourseName string    `json:"course_name"`
	EmployeeID string    `json:"employee_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	NameThai   string    `json:"name_thai"`
}
