package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployer   Role = "EMPLOYER"
	RoleFreelancer Role = "FREELANCER"
	RoleAdmin      Role = "ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
}

// Principal is the already-authenticated caller identity attached to a
// request by the auth middleware. Credential validation happens upstream.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsEmployer() bool {
	return p.Role == RoleEmployer
}

func (p Principal) IsFreelancer() bool {
	return p.Role == RoleFreelancer
}
