package domain

import (
	"time"
)

type Specialist struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"-"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Patronymic          *string   `json:"patronymic,omitempty"`
	Type                string    `json:"type"`
	PrimaryVisitPrice   float64   `json:"primary_visit_price"`
	SecondaryVisitPrice float64   `json:"secondary_visit_price"`
	Email               string    `json:"email,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (s Specialist) FullName() string {
	name := s.FirstName + " " + s.LastName
	if s.Patronymic != nil && *s.Patronymic != "" {
		name += " " + *s.Patronymic
	}
	return name
}

type SpecialistDataDTO struct {
	FirstName           string   `json:"first_name" binding:"required,max=30"`
	LastName            string   `json:"last_name" binding:"required,max=30"`
	Patronymic          *string  `json:"patronymic,omitempty" binding:"omitempty,max=30"`
	Type                string   `json:"type" binding:"required,max=50"`
	PrimaryVisitPrice   *float64 `json:"primary_visit_price" binding:"required,gte=0"`
	SecondaryVisitPrice *float64 `json:"secondary_visit_price" binding:"required,gte=0"`
}

// CreateSpecialistDTO создаёт специалиста вместе с учётной записью.
type CreateSpecialistDTO struct {
	SpecialistDataDTO
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=30"`
}
