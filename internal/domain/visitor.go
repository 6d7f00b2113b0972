package domain

import (
	"time"
)

type VisitorType string

const (
	VisitorTypeStudent    VisitorType = "student"
	VisitorTypeParent     VisitorType = "parent"
	VisitorTypeSpecialist VisitorType = "specialist"
)

type Visitor struct {
	ID         int64       `json:"id"`
	UserID     *int64      `json:"-"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Patronymic *string     `json:"patronymic,omitempty"`
	Birthday   Date        `json:"birthday"`
	Type       VisitorType `json:"type"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type VisitorDataDTO struct {
	FirstName  string      `json:"first_name" binding:"required,max=30"`
	LastName   string      `json:"last_name" binding:"required,max=30"`
	Patronymic *string     `json:"patronymic,omitempty" binding:"omitempty,max=30"`
	Birthday   string      `json:"birthday" binding:"required"`
	Type       VisitorType `json:"type" binding:"required,oneof=student parent specialist"`
}
