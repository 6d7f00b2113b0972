package domain

import (
	"time"
)

// ScheduleDay — рабочее окно специалиста на одну календарную дату.
// Время начала, окончания и перерыва выровнено по началу часа; перерыв,
// если задан, лежит строго между началом и окончанием. На пару
// (специалист, дата) существует не более одного окна.
type ScheduleDay struct {
	SpecialistID int64     `json:"specialist_id"`
	Date         Date      `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	BreakTime    *string   `json:"break_time,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateScheduleDayDTO struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	BreakTime *string `json:"break_time,omitempty"`
}

type UpdateScheduleDayDTO struct {
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	BreakTime *string `json:"break_time,omitempty"`
}

// ScheduleWeekdayInfo — времена работы для одного дня недели в шаблоне
// диапазона. Ключи шаблона: понедельник = 0 ... воскресенье = 6.
type ScheduleWeekdayInfo struct {
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	BreakTime *string `json:"break_time,omitempty"`
}

type CreateScheduleRangeDTO struct {
	StartDate string                      `json:"start_date" binding:"required"`
	EndDate   string                      `json:"end_date" binding:"required"`
	Weekdays  map[int]ScheduleWeekdayInfo `json:"weekdays" binding:"required"`
}

// NormalizeDayTimes приводит времена окна к хранимому виду: усечение до
// часа и проверка инвариантов end >= start, start < break < end.
func NormalizeDayTimes(startTime, endTime string, breakTime *string) (string, string, *string, error) {
	start, err := TruncateTimeToHour(startTime)
	if err != nil {
		return "", "", nil, InvalidRequestError(err.Error())
	}

	end, err := TruncateTimeToHour(endTime)
	if err != nil {
		return "", "", nil, InvalidRequestError(err.Error())
	}

	if end < start {
		return "", "", nil, InvalidRequestError("время окончания не может быть раньше времени начала")
	}

	var brk *string
	if breakTime != nil {
		b, err := TruncateTimeToHour(*breakTime)
		if err != nil {
			return "", "", nil, InvalidRequestError(err.Error())
		}
		if b <= start || b >= end {
			return "", "", nil, InvalidRequestError("перерыв должен быть строго между началом и окончанием рабочего дня")
		}
		brk = &b
	}

	return start, end, brk, nil
}

// ContainsSlot сообщает, является ли t началом слота рабочего окна:
// время на границе часа, в пределах [start, end) и не перерыв.
func (d ScheduleDay) ContainsSlot(t string) bool {
	aligned, err := TruncateTimeToHour(t)
	if err != nil || aligned != t {
		return false
	}
	if t < d.StartTime || t >= d.EndTime {
		return false
	}
	if d.BreakTime != nil && t == *d.BreakTime {
		return false
	}
	return true
}
