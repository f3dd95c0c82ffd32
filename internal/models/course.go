package models

import "time"

type CourseStatus int

const (
	CourseInactive CourseStatus = 0
	CourseActive   CourseStatus = 1
	CourseDraft    CourseStatus = 2
)

type CourseType int

const (
	CourseNormal      CourseType = 1
	CourseSCORM12     CourseType = 2
	CourseSCORM2004v2 CourseType = 3
	CourseSCORM2004v3 CourseType = 4
)

func (s CourseStatus) Label() string {
	switch s {
	case CourseInactive:
		return "Inactive"
	case CourseActive:
		return "Active"
	case CourseDraft:
		return "Draft"
	}
	return "Unknown"
}

func (s CourseStatus) Badge() string {
	switch s {
	case CourseActive:
		return "bg-label-success"
	case CourseDraft:
		return "bg-label-warning"
	}
	return "bg-label-secondary"
}

func (t CourseType) Label() string {
	switch t {
	case CourseSCORM12:
		return "SCORM 1.2"
	case CourseSCORM2004v2:
		return "SCORM 2004 2nd"
	case CourseSCORM2004v3:
		return "SCORM 2004 3rd"
	}
	return "Normal"
}

// CourseStatuses and CourseTypes feed form selects in display order.
var (
	CourseStatuses = []CourseStatus{CourseActive, CourseDraft, CourseInactive}
	CourseTypes    = []CourseType{CourseNormal, CourseSCORM12, CourseSCORM2004v2, CourseSCORM2004v3}
)

type Course struct {
	ID                 int64        `json:"id"`
	Name               string       `json:"name"`
	CourseCode         *string      `json:"course_code"`
	ExpireAt           *int64       `json:"expire_at"`
	TotalTopic         *int64       `json:"totaltopic"`
	Keywords           string       `json:"keywords"`
	CourseLevel        string       `json:"courselevel"`
	HowToPass          string       `json:"howtopass"`
	Description        string       `json:"description"`
	TOC                string       `json:"toc"`
	HowTo              string       `json:"howto"`
	TargetLearner      string       `json:"targetlearner"`
	Pretest            int          `json:"pretest"`
	PreTesting         string       `json:"pre_testing"`
	PretestDescription string       `json:"pretest_description"`
	ClassDescription   string       `json:"class_description"`
	Posttest           int          `json:"posttest"`
	PostTesting        string       `json:"post_testing"`
	PosttestDesc       string       `json:"posttest_description"`
	Homework           int          `json:"homework"`
	ExampleDescription string       `json:"example_description"`
	SendEmail          int          `json:"sendemail"`
	EvaluateLink       string       `json:"evaluate_link"`
	EmailTemplate      string       `json:"email_template"`
	Status             CourseStatus `json:"status"`
	Type               CourseType   `json:"type"`
	CourseShow         string       `json:"course_show"`
	CourseAccess       string       `json:"course_access"`
	CourseGroup        string       `json:"course_group"`
	IsRegister         int          `json:"is_register"`
	DeleteAll          int          `json:"delete_all"`
	Fullscreen         int          `json:"fullscreen"`
	IsCertificated     int          `json:"is_certificated"`
	IsDocumentLock     int          `json:"is_document_lock"`
	UserID             *int64       `json:"user_id"`
	DepartmentID       *int64       `json:"department_id"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (c Course) Code() string {
	if c.CourseCode == nil {
		return ""
	}
	return *c.CourseCode
}

// CourseListItem is a listing row with its linked document count.
type CourseListItem struct {
	Course
	DocumentCount int64 `json:"document_count"`
}

type CourseStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Draft    int64 `json:"draft"`
	Inactive int64 `json:"inactive"`
}

type CourseOption struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CourseCode *string `json:"course_code"`
}
