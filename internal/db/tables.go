package db

import (
	"github.com/lotuss-academy/lms-admin/internal/models"
	"github.com/lotuss-academy/lms-admin/internal/store"
)

const (
	tblCourse         = "lms.course"
	tblDocument       = "lms.document"
	tblCourseDocument = "lms.course_document"
	tblCoursePosition = "lms.course_position"

	tblUser           = `tesco_elearning."user"`
	tblClass          = "tesco_elearning.class"
	tblClassStudent   = "tesco_elearning.class_student"
	tblQuiz           = "tesco_elearning.quiz"
	tblQuestion       = "tesco_elearning.question"
	tblQuestionAbcd   = "tesco_elearning.question_abcd"
	tblFormat         = "tesco_elearning.format"
	tblFunctions      = "tesco_elearning.functions"
	tblDepartment     = "tesco_elearning.department"
	tblPosition       = "tesco_elearning.position"
	tblFormatPosition = "tesco_elearning.format_position"
)

var courseColumns = []string{
	"id", "name", "course_code", "expire_at", "totaltopic",
	"COALESCE(keywords, '')", "COALESCE(courselevel, '')", "COALESCE(howtopass, '')",
	"COALESCE(description, '')", "COALESCE(toc, '')", "COALESCE(howto, '')",
	"COALESCE(targetlearner, '')", "pretest", "COALESCE(pre_testing, '')",
	"COALESCE(pretest_description, '')", "COALESCE(class_description, '')", "posttest",
	"COALESCE(post_testing, '')", "COALESCE(posttest_description, '')", "homework",
	"COALESCE(example_description, '')", "sendemail", "COALESCE(evaluate_link, '')",
	"COALESCE(email_template, '')", "status", "type", "COALESCE(course_show, '')",
	"COALESCE(course_access, '')", "COALESCE(course_group, '')", "is_register", "delete_all",
	"fullscreen", "is_certificated", "is_document_lock", "user_id", "department_id",
	"created_at", "updated_at",
}

// CourseFields are the writable course columns.
var CourseFields = []string{
	"name", "course_code", "expire_at", "totaltopic", "keywords", "courselevel", "howtopass",
	"description", "toc", "howto", "targetlearner", "pretest", "pre_testing",
	"pretest_description", "class_description", "posttest", "post_testing",
	"posttest_description", "homework", "example_description", "sendemail", "evaluate_link",
	"email_template", "status", "type", "course_show", "course_access", "course_group",
	"is_register", "delete_all", "fullscreen", "is_certificated", "is_document_lock",
	"user_id", "department_id",
}

func scanCourse(s store.Scanner, extra ...any) (models.Course, error) {
	var c models.Course
	dest := []any{
		&c.ID, &c.Name, &c.CourseCode, &c.ExpireAt, &c.TotalTopic,
		&c.Keywords, &c.CourseLevel, &c.HowToPass,
		&c.Description, &c.TOC, &c.HowTo,
		&c.TargetLearner, &c.Pretest, &c.PreTesting,
		&c.PretestDescription, &c.ClassDescription, &c.Posttest,
		&c.PostTesting, &c.PosttestDesc, &c.Homework,
		&c.ExampleDescription, &c.SendEmail, &c.EvaluateLink,
		&c.EmailTemplate, &c.Status, &c.Type, &c.CourseShow,
		&c.CourseAccess, &c.CourseGroup, &c.IsRegister, &c.DeleteAll,
		&c.Fullscreen, &c.IsCertificated, &c.IsDocumentLock, &c.UserID, &c.DepartmentID,
		&c.CreatedAt, &c.UpdatedAt,
	}
	err := s.Scan(append(dest, extra...)...)
	return c, err
}

var Courses = &store.Table[models.Course]{
	Name:       tblCourse,
	Columns:    courseColumns,
	Fields:     CourseFields,
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.Course, error) { return scanCourse(s) },
}

var documentColumns = []string{"id", "name", "type", "status", "is_new", "created_at", "updated_at"}

func scanDocument(s store.Scanner) (models.Document, error) {
	var d models.Document
	err := s.Scan(&d.ID, &d.Name, &d.Type, &d.Status, &d.IsNew, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

var Documents = &store.Table[models.Document]{
	Name:       tblDocument,
	Columns:    documentColumns,
	Fields:     []string{"name", "type", "status", "is_new"},
	SoftDelete: true,
	Scan:       scanDocument,
}

var CourseDocuments = &store.Table[models.CourseDocument]{
	Name:       tblCourseDocument,
	Columns:    []string{"id", "course_id", "document_id", `"order"`, "status", "created_at", "updated_at"},
	Fields:     []string{"course_id", "document_id", "order", "status"},
	SoftDelete: true,
	Scan: func(s store.Scanner) (models.CourseDocument, error) {
		var cd models.CourseDocument
		err := s.Scan(&cd.ID, &cd.CourseID, &cd.DocumentID, &cd.Order, &cd.Status, &cd.CreatedAt, &cd.UpdatedAt)
		return cd, err
	},
}

var CoursePositions = &store.Table[models.CoursePosition]{
	Name:       tblCoursePosition,
	Columns:    []string{"id", "course_id", "position_id", "status", "''", "created_at", "updated_at"},
	Fields:     []string{"course_id", "position_id", "status"},
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.CoursePosition, error) { return scanCoursePosition(s) },
}

func scanCoursePosition(s store.Scanner) (models.CoursePosition, error) {
	var cp models.CoursePosition
	err := s.Scan(&cp.ID, &cp.CourseID, &cp.PositionID, &cp.Status, &cp.PositionName, &cp.CreatedAt, &cp.UpdatedAt)
	return cp, err
}

var Positions = &store.Table[models.Position]{
	Name:       tblPosition,
	Columns:    []string{"id", "name", "status", "created_at", "updated_at"},
	Fields:     []string{"name", "status"},
	SoftDelete: true,
	Scan: func(s store.Scanner) (models.Position, error) {
		var p models.Position
		err := s.Scan(&p.ID, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	},
}

var quizColumns = []string{
	"id", "course_id", "user_id", "title", "COALESCE(description, '')", "score", "is_publish",
	"is_random_question", "is_show_answer", "type", "COALESCE(video, '')", "status",
	"created_at", "updated_at",
}

// QuizFields are the quiz columns an update may touch.
var QuizFields = []string{
	"course_id", "title", "description", "score", "is_publish", "is_random_question",
	"is_show_answer", "type", "video",
}

func scanQuiz(s store.Scanner, extra ...any) (models.Quiz, error) {
	var q models.Quiz
	dest := []any{
		&q.ID, &q.CourseID, &q.UserID, &q.Title, &q.Description, &q.Score, &q.IsPublish,
		&q.IsRandomQuestion, &q.IsShowAnswer, &q.Type, &q.Video, &q.Status,
		&q.CreatedAt, &q.UpdatedAt,
	}
	err := s.Scan(append(dest, extra...)...)
	return q, err
}

var Quizzes = &store.Table[models.Quiz]{
	Name:       tblQuiz,
	Columns:    quizColumns,
	Fields:     append([]string{"user_id", "status"}, QuizFields...),
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.Quiz, error) { return scanQuiz(s) },
}

var Questions = &store.Table[models.Question]{
	Name:       tblQuestion,
	Columns:    []string{"id", "quiz_id", "question_id", "type", `"order"`, "status", "created_at", "updated_at"},
	Fields:     []string{"quiz_id", "question_id", "type", "order", "status"},
	SoftDelete: true,
	Scan: func(s store.Scanner) (models.Question, error) {
		var q models.Question
		err := s.Scan(&q.ID, &q.QuizID, &q.QuestionID, &q.Type, &q.Order, &q.Status, &q.CreatedAt, &q.UpdatedAt)
		return q, err
	},
}

var abcdColumns = []string{
	"id", "quiz_id", "title", "answer_a", "answer_b", "answer_c", "answer_d",
	"answer_a_correct", "answer_b_correct", "answer_c_correct", "answer_d_correct",
	`"order"`, "COALESCE(path, '')", "COALESCE(image, '')", "COALESCE(video, '')",
	"media_type", "is_random", "weight", "status", "created_at", "updated_at",
}

// AbcdFields are the ABCD columns an update may touch.
var AbcdFields = []string{
	"title", "answer_a", "answer_b", "answer_c", "answer_d",
	"answer_a_correct", "answer_b_correct", "answer_c_correct", "answer_d_correct",
	"order", "path", "image", "video", "media_type", "is_random", "weight",
}

func scanAbcd(s store.Scanner, extra ...any) (models.QuestionAbcd, error) {
	var q models.QuestionAbcd
	dest := []any{
		&q.ID, &q.QuizID, &q.Title, &q.AnswerA, &q.AnswerB, &q.AnswerC, &q.AnswerD,
		&q.AnswerACorrect, &q.AnswerBCorrect, &q.AnswerCCorrect, &q.AnswerDCorrect,
		&q.Order, &q.Path, &q.Image, &q.Video,
		&q.MediaType, &q.IsRandom, &q.Weight, &q.Status, &q.CreatedAt, &q.UpdatedAt,
	}
	err := s.Scan(append(dest, extra...)...)
	return q, err
}

var QuestionsAbcd = &store.Table[models.QuestionAbcd]{
	Name:       tblQuestionAbcd,
	Columns:    abcdColumns,
	Fields:     append([]string{"quiz_id", "status"}, AbcdFields...),
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.QuestionAbcd, error) { return scanAbcd(s) },
}

var userColumns = []string{
	"id", "COALESCE(employee_id, '')", "COALESCE(first_name, '')", "COALESCE(last_name, '')",
	"COALESCE(name_thai, '')", "COALESCE(email, '')", "COALESCE(phone, '')",
	"COALESCE(position, '')", "COALESCE(department, '')", "department_id", "format_id",
	"status", "is_inactive", "type", "company", "COALESCE(avatar, '')", "COALESCE(avatar_path, '')",
	"created_at", "updated_at",
}

// UserFields are the user columns an admin may edit.
var UserFields = []string{
	"first_name", "last_name", "name_thai", "email", "phone", "position", "department",
	"status", "is_inactive", "type",
}

func scanUser(s store.Scanner, extra ...any) (models.User, error) {
	var u models.User
	dest := []any{
		&u.ID, &u.EmployeeID, &u.FirstName, &u.LastName,
		&u.NameThai, &u.Email, &u.Phone,
		&u.Position, &u.Department, &u.DepartmentID, &u.FormatID,
		&u.Status, &u.IsInactive, &u.Type, &u.Company, &u.Avatar, &u.AvatarPath,
		&u.CreatedAt, &u.UpdatedAt,
	}
	err := s.Scan(append(dest, extra...)...)
	return u, err
}

var Users = &store.Table[models.User]{
	Name:       tblUser,
	Columns:    userColumns,
	Fields:     append([]string{"employee_id", "department_id", "format_id", "company", "avatar", "avatar_path"}, UserFields...),
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.User, error) { return scanUser(s) },
}

var Formats = &store.Table[models.Format]{
	Name:       tblFormat,
	Columns:    []string{"id", "name", `"order"`, "status", "created_at", "updated_at"},
	Fields:     []string{"name", "order", "status"},
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.Format, error) { return scanFormat(s) },
}

func scanFormat(s store.Scanner, extra ...any) (models.Format, error) {
	var f models.Format
	err := s.Scan(append([]any{&f.ID, &f.Name, &f.Order, &f.Status, &f.CreatedAt, &f.UpdatedAt}, extra...)...)
	return f, err
}

var FunctionsTable = &store.Table[models.Functions]{
	Name:       tblFunctions,
	Columns:    []string{"id", "format_id", "name", "COALESCE(color, '')", `"order"`, "status", "created_at", "updated_at"},
	Fields:     []string{"format_id", "name", "color", "order", "status"},
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.Functions, error) { return scanFunctions(s) },
}

func scanFunctions(s store.Scanner, extra ...any) (models.Functions, error) {
	var f models.Functions
	dest := []any{&f.ID, &f.FormatID, &f.Name, &f.Color, &f.Order, &f.Status, &f.CreatedAt, &f.UpdatedAt}
	err := s.Scan(append(dest, extra...)...)
	return f, err
}

var Departments = &store.Table[models.Department]{
	Name:       tblDepartment,
	Columns:    []string{"id", "functions_id", "name", `"order"`, "status", "created_at", "updated_at"},
	Fields:     []string{"functions_id", "name", "order", "status"},
	SoftDelete: true,
	Scan:       func(s store.Scanner) (models.Department, error) { return scanDepartment(s) },
}

func scanDepartment(s store.Scanner, extra ...any) (models.Department, error) {
	var d models.Department
	dest := []any{&d.ID, &d.FunctionsID, &d.Name, &d.Order, &d.Status, &d.CreatedAt, &d.UpdatedAt}
	err := s.Scan(append(dest, extra...)...)
	return d, err
}

// prefixed qualifies plain column names with alias; expressions pass through.
func prefixed(alias string, cols []string) string {
	out := make([]byte, 0, 256)
	for i, c := range cols {
		if i > 0 {
			out = append(out, ", "...)
		}
		if isIdent(c) {
			out = append(out, alias...)
			out = append(out, '.')
		}
		out = append(out, c...)
	}
	return string(out)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '"' {
		return s[len(s)-1] == '"'
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
