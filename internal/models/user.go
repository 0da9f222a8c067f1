package models

import (
	"fmt"
	"strconv"
	"strings"
)

// UserRole is the numeric role code stored alongside each user record.
type UserRole int

const (
	RoleStudent UserRole = 0
	RoleTeacher UserRole = 1
	RoleAdmin   UserRole = 2
)

// String returns the display name of the role.
func (r UserRole) String() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleTeacher:
		return "Teacher"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Valid reports whether r is one of the known role codes.
func (r UserRole) Valid() bool {
	return r >= RoleStudent && r <= RoleAdmin
}

// CanAuthor reports whether the role may create subjects, topics, announcements and assignments.
func (r UserRole) CanAuthor() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// ParseUserRole accepts a role name (case-insensitive) or its numeric code.
func ParseUserRole(raw string) (UserRole, error) {
	value := strings.TrimSpace(raw)
	switch strings.ToLower(value) {
	case "student":
		return RoleStudent, nil
	case "teacher":
		return RoleTeacher, nil
	case "admin":
		return RoleAdmin, nil
	}
	code, err := strconv.Atoi(value)
	if err != nil || !UserRole(code).Valid() {
		return 0, fmt.Errorf("unknown role %q", raw)
	}
	return UserRole(code), nil
}

// User is an entry of the user directory.
type User struct {
	ID       int      `db:"id" json:"id"`
	Username string   `db:"username" json:"username"`
	Password string   `db:"password" json:"-"`
	Role     UserRole `db:"role_code" json:"role"`
}

// Record converts the user into its persisted tuple.
func (u User) Record() UserRecord {
	return UserRecord{ID: u.ID, Username: u.Username, Password: u.Password, RoleCode: int(u.Role)}
}

// UserRecord is the `id|username|password|roleCode` tuple used for export and import.
type UserRecord struct {
	ID       int    `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	RoleCode int    `db:"role_code"`
}

// User converts the record back into a directory entry.
func (r UserRecord) User() User {
	return User{ID: r.ID, Username: r.Username, Password: r.Password, Role: UserRole(r.RoleCode)}
}

// UserInfo describes a user in listings without exposing the password.
type UserInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Info builds the public view of the user.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Role: u.Role.String()}
}

// RegisterRequest is the payload for creating a user.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,max=64,recordsafe"`
	Password string   `json:"password" validate:"required,max=128,recordsafe"`
	Role     UserRole `json:"role" validate:"role"`
}

// UserTransferRequest names a user record file relative to the data directory.
type UserTransferRequest struct {
	Path string `json:"path" validate:"required"`
}

// UserTransferResult reports how many records an export or import touched.
type UserTransferResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// UserFilter pages through directory listings. A zero PageSize returns every user.
type UserFilter struct {
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
