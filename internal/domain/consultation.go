package domain

import (
	"time"
)

type ConsultationType string

const (
	ConsultationTypeIndividualConsultation ConsultationType = "individual_consultation"
	ConsultationTypeIndividualWork         ConsultationType = "individual_work"
	ConsultationTypeDiagnosticWork         ConsultationType = "diagnostic_work"
)

func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationTypeIndividualConsultation,
		ConsultationTypeIndividualWork,
		ConsultationTypeDiagnosticWork:
		return true
	}
	return false
}

// Consultation — занятый слот расписания. Размеченное объединение:
// дискриминант Type определяет, какие из вариантных полей обязаны быть
// заполнены. Инварианты: не более одной консультации на
// (специалист, дата, время) и не более одной на (посетитель, дата, время)
// во всей системе.
type Consultation struct {
	ID               int64            `json:"id"`
	SpecialistID     int64            `json:"specialist_id"`
	VisitorID        int64            `json:"visitor_id"`
	ScheduleDate     Date             `json:"schedule_date"`
	Time             string           `json:"time"`
	Topic            string           `json:"topic"`
	VisitorArrived   bool             `json:"visitor_arrived"`
	Primary          bool             `json:"primary"`
	CreatedByVisitor bool             `json:"created_by_visitor"`
	Type             ConsultationType `json:"type"`

	// Вариантные поля. individual_consultation: RequestCode, Nature, Notes;
	// individual_work: Purpose; diagnostic_work: RequestCode, Revealed, Prescribed.
	RequestCode *string `json:"request_code,omitempty"`
	Nature      *string `json:"nature,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Purpose     *string `json:"purpose,omitempty"`
	Revealed    *string `json:"revealed,omitempty"`
	Prescribed  *string `json:"prescribed,omitempty"`

	Visitor    *Visitor    `json:"visitor,omitempty"`
	Specialist *Specialist `json:"specialist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConsultationVariantDTO — вариантная часть консультации в запросах
// создания и обновления.
type ConsultationVariantDTO struct {
	RequestCode *string `json:"request_code,omitempty"`
	Nature      *string `json:"nature,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Purpose     *string `json:"purpose,omitempty"`
	Revealed    *string `json:"revealed,omitempty"`
	Prescribed  *string `json:"prescribed,omitempty"`
}

// Validate проверяет обязательные вариантные поля для данного типа.
func (v ConsultationVariantDTO) Validate(t ConsultationType) error {
	notEmpty := func(field *string, name string) error {
		if field == nil || *field == "" {
			return InvalidRequestError("не заполнено обязательное поле " + name)
		}
		return nil
	}
	notNil := func(field *string, name string) error {
		if field == nil {
			return InvalidRequestError("не заполнено обязательное поле " + name)
		}
		return nil
	}

	switch t {
	case ConsultationTypeIndividualConsultation:
		if err := notEmpty(v.RequestCode, "request_code"); err != nil {
			return err
		}
		if err := notEmpty(v.Nature, "nature"); err != nil {
			return err
		}
		return notNil(v.Notes, "notes")
	case ConsultationTypeIndividualWork:
		return notEmpty(v.Purpose, "purpose")
	case ConsultationTypeDiagnosticWork:
		if err := notEmpty(v.RequestCode, "request_code"); err != nil {
			return err
		}
		if err := notNil(v.Revealed, "revealed"); err != nil {
			return err
		}
		return notNil(v.Prescribed, "prescribed")
	default:
		return InvalidRequestError("неизвестный тип консультации")
	}
}

// AssignTo переносит в консультацию вариантные поля её типа; поля чужих
// вариантов обнуляются.
func (v ConsultationVariantDTO) AssignTo(c *Consultation) {
	c.RequestCode, c.Nature, c.Notes, c.Purpose, c.Revealed, c.Prescribed = nil, nil, nil, nil, nil, nil

	switch c.Type {
	case ConsultationTypeIndividualConsultation:
		c.RequestCode = v.RequestCode
		c.Nature = v.Nature
		c.Notes = v.Notes
	case ConsultationTypeIndividualWork:
		c.Purpose = v.Purpose
	case ConsultationTypeDiagnosticWork:
		c.RequestCode = v.RequestCode
		c.Revealed = v.Revealed
		c.Prescribed = v.Prescribed
	}
}

type CreateConsultationDTO struct {
	VisitorID    int64            `json:"visitor_id" binding:"required"`
	ScheduleDate string           `json:"schedule_date" binding:"required"`
	Time         string           `json:"time" binding:"required"`
	Topic        string           `json:"topic" binding:"required,max=200"`
	Primary      *bool            `json:"primary" binding:"required"`
	Type         ConsultationType `json:"type" binding:"required"`
	ConsultationVariantDTO
}

type UpdateConsultationDTO struct {
	VisitorID      int64  `json:"visitor_id" binding:"required"`
	Topic          string `json:"topic" binding:"required,max=200"`
	VisitorArrived *bool  `json:"visitor_arrived" binding:"required"`
	Primary        *bool  `json:"primary" binding:"required"`
	ConsultationVariantDTO
}

// AppointmentDTO — запись посетителя на приём через публичный интерфейс.
type AppointmentDTO struct {
	SpecialistID int64            `json:"specialist_id" binding:"required"`
	Date         string           `json:"date" binding:"required"`
	Time         string           `json:"time" binding:"required"`
	Topic        string           `json:"topic" binding:"required,max=200"`
	Primary      *bool            `json:"primary" binding:"required"`
	Type         ConsultationType `json:"type" binding:"required"`
	ConsultationVariantDTO
}

// VisitorConsultationView — проекция консультации для посетителя.
// Служебные поля персонала скрыты: для individual_consultation посетитель
// видит request_code и notes, но не nature; для diagnostic_work —
// request_code, revealed и prescribed.
type VisitorConsultationView struct {
	ID           int64            `json:"id"`
	ScheduleDate Date             `json:"schedule_date"`
	Time         string           `json:"time"`
	Topic        string           `json:"topic"`
	Primary      bool             `json:"primary"`
	Type         ConsultationType `json:"type"`
	Specialist   *Specialist      `json:"specialist,omitempty"`

	RequestCode *string `json:"request_code,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Purpose     *string `json:"purpose,omitempty"`
	Revealed    *string `json:"revealed,omitempty"`
	Prescribed  *string `json:"prescribed,omitempty"`
}

func (c Consultation) VisitorView() VisitorConsultationView {
	view := VisitorConsultationView{
		ID:           c.ID,
		ScheduleDate: c.ScheduleDate,
		Time:         c.Time,
		Topic:        c.Topic,
		Primary:      c.Primary,
		Type:         c.Type,
		Specialist:   c.Specialist,
	}

	switch c.Type {
	case ConsultationTypeIndividualConsultation:
		view.RequestCode = c.RequestCode
		view.Notes = c.Notes
	case ConsultationTypeIndividualWork:
		view.Purpose = c.Purpose
	case ConsultationTypeDiagnosticWork:
		view.RequestCode = c.RequestCode
		view.Revealed = c.Revealed
		view.Prescribed = c.Prescribed
	}

	return view
}
