package domain

import (
	"time"
)

// User — учётная запись для входа. Профильные данные живут в связанных
// записях Specialist и Visitor; здесь только идентификация и роль.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRole string

const (
	UserRoleVisitor    UserRole = "visitor"
	UserRoleSpecialist UserRole = "specialist"
	UserRoleAdmin      UserRole = "admin"
)

// IsEmployee — персонал: специалист или администратор.
func (r UserRole) IsEmployee() bool {
	return r == UserRoleSpecialist || r == UserRoleAdmin
}

type CreateUserDTO struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=4"`
	Role     UserRole `json:"role" binding:"required,oneof=visitor specialist admin"`
}

type UpdateUserDTO struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

type PasswordUpdateDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=4"`
}
