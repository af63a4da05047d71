package users

import (
	"time"

	"ITAM-backend/internal/platform/ref"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	LocationID   ref.Ref   `json:"location_id"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Filter struct {
	IsActive *bool
	Skip     int
	Limit    int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ===== Requests =====

type CreateUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Name       string  `json:"name" binding:"notblank"`
	Password   string  `json:"password" binding:"required,min=8"`
	Role       string  `json:"role" binding:"omitempty,oneof=admin user"`
	LocationID ref.Ref `json:"location_id"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type UpdateUserRequest struct {
	Email      *string   `json:"email,omitempty" binding:"omitempty,email"`
	Name       *string   `json:"name,omitempty" binding:"omitempty,notblank"`
	Password   *string   `json:"password,omitempty" binding:"omitempty,min=8"`
	Role       *string   `json:"role,omitempty" binding:"omitempty,oneof=admin user"`
	LocationID ref.Patch `json:"location_id"`
	IsActive   *bool     `json:"is_active,omitempty"`
}

type ListUsersQuery struct {
	IsActive *bool `form:"is_active"`
	Skip     int   `form:"skip,default=0" binding:"min=0"`
	Limit    int   `form:"limit,default=100" binding:"min=1,max=1000"`
}

type ListUsersResponse struct {
	Users      []User `json:"users"`
	TotalCount int64  `json:"total_count"`
}
