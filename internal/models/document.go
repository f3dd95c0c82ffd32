package models

import "time"

type DocumentType int

const (
	DocInfo  DocumentType = 1
	DocVideo DocumentType = 2
	DocQuiz  DocumentType = 3
	DocBook  DocumentType = 4
	DocPDF   DocumentType = 5
)

func (t DocumentType) Label() string {
	switch t {
	case DocInfo:
		return "Info"
	case DocVideo:
		return "Video"
	case DocQuiz:
		return "Quiz"
	case DocBook:
		return "Book"
	case DocPDF:
		return "PDF"
	}
	return "Unknown"
}

func (t DocumentType) Icon() string {
	switch t {
	case DocInfo:
		return "ri-file-info-line"
	case DocVideo:
		return "ri-video-line"
	case DocQuiz:
		return "ri-question-line"
	case DocBook:
		return "ri-book-line"
	case DocPDF:
		return "ri-file-pdf-line"
	}
	return "ri-file-line"
}

var DocumentTypes = []DocumentType{DocInfo, DocVideo, DocQuiz, DocBook, DocPDF}

type Document struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      DocumentType `json:"type"`
	Status    int          `json:"status"`
	IsNew     int          `json:"is_new"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type CourseDocument struct {
	ID         int64     `json:"id"`
	CourseID   int64     `json:"course_id"`
	DocumentID int64     `json:"document_id"`
	Order      int       `json:"order"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LinkedDocument is a course_document row joined with its document.
type LinkedDocument struct {
	CourseDocument
	Name      string       `json:"name"`
	Type      DocumentType `json:"type"`
	IsNew     int          `json:"is_new"`
	TypeLabel string       `json:"typeLabel"`
	TypeIcon  string       `json:"typeIcon"`
}
