package models

import "time"

type Position struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PositionWithFormat struct {
	Position
	FormatID   *int64 `json:"format_id"`
	FormatName string `json:"format_name"`
}

type CoursePosition struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"course_id"`
	PositionID   int64     `json:"position_id"`
	Status       int       `json:"status"`
	PositionName string    `json:"position_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
