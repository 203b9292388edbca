package models

import (
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RolePublic Role = "public"
)

// ValidRole reports whether r is one of the three recognised roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RolePublic:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull" json:"name"`
	Email        string `bun:"email,unique,notnull" json:"email"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	Role         Role   `bun:"role,notnull" json:"role"`
}

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CurrentUserResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
}
