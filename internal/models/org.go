package models

import "time"

type Format struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FormatWithCount struct {
	Format
	FunctionsCount int64 `json:"functions_count"`
}

type Functions struct {
	ID        int64     `json:"id"`
	FormatID  int64     `json:"format_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FunctionsWithFormat struct {
	Functions
	FormatName      string `json:"format_name"`
	DepartmentCount int64  `json:"department_count"`
}

type Department struct {
	ID          int64     `json:"id"`
	FunctionsID int64     `json:"functions_id"`
	Name        string    `json:"name"`
	Order       int       `json:"order"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentWithRelations names the function and format above the department.
type DepartmentWithRelations struct {
	Department
	FunctionsName string `json:"functions_name"`
	FormatID      int64  `json:"format_id"`
	FormatName    string `json:"format_name"`
}

// Option is an id/name pair for selects.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
