package models

import (
	"strings"
	"time"
)

type UserType int

const (
	UserRegular    UserType = 1
	UserAdmin      UserType = 2
	UserSuperAdmin UserType = 3
)

func (t UserType) Label() string {
	switch t {
	case UserRegular:
		return "User"
	case UserAdmin:
		return "Admin"
	case UserSuperAdmin:
		return "Super Admin"
	}
	return "Unknown"
}

func (t UserType) Badge() string {
	switch t {
	case UserRegular:
		return "bg-label-info"
	case UserAdmin:
		return "bg-label-warning"
	case UserSuperAdmin:
		return "bg-label-danger"
	}
	return "bg-label-secondary"
}

var UserTypes = []UserType{UserRegular, UserAdmin, UserSuperAdmin}

const AvatarPlaceholder = "/img/avatar-placeholder.png"

type User struct {
	ID           int64     `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	NameThai     string    `json:"name_thai"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Position     string    `json:"position"`
	Department   string    `json:"department"`
	DepartmentID *int64    `json:"department_id"`
	FormatID     *int64    `json:"format_id"`
	Status       int       `json:"status"`
	IsInactive   int       `json:"is_inactive"`
	Type         UserType  `json:"type"`
	Company      *string   `json:"company"`
	Avatar       string    `json:"avatar"`
	AvatarPath   string    `json:"avatar_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName prefers the Thai name, then "first last", then "-".
func (u User) DisplayName() string {
	if strings.TrimSpace(u.NameThai) != "" {
		return u.NameThai
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return "-"
}

func (u User) StatusLabel() string {
	if u.IsInactive == 1 {
		return "Inactive"
	}
	if u.Status == 1 {
		return "Active"
	}
	return "Inactive"
}

func (u User) StatusBadge() string {
	if u.IsInactive == 1 {
		return "bg-label-danger"
	}
	if u.Status == 1 {
		return "bg-label-success"
	}
	return "bg-label-warning"
}

func (u User) AvatarURL() string {
	if u.AvatarPath != "" {
		return u.AvatarPath
	}
	if u.Avatar != "" {
		return "/uploads/avatars/" + u.Avatar
	}
	return AvatarPlaceholder
}

func (u User) CompanyName() string {
	if u.Company == nil {
		return ""
	}
	return *u.Company
}

// UserRow is a user as listed, with the name of their format.
type UserRow struct {
	User
	FormatName string `json:"format_name"`
}

type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Admins   int64 `json:"admins"`
}

// UserHit is one row of the user search autocomplete.
type UserHit struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NameThai   string `json:"name_thai"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (h UserHit) DisplayName() string {
	return User{NameThai: h.NameThai, FirstName: h.FirstName, LastName: h.LastName}.DisplayName()
}
