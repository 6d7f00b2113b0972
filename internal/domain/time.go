package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Date — календарная дата без времени суток. В JSON сериализуется
// как "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("неверный формат даты %q, ожидается YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) AddDays(days int) Date {
	return Date{d.AddDate(0, 0, days)}
}

// Weekday возвращает номер дня недели: понедельник = 0 ... воскресенье = 6.
func (d Date) Weekday() int {
	if wd := d.Time.Weekday(); wd == time.Sunday {
		return 6
	} else {
		return int(wd) - 1
	}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("невозможно преобразовать %T в domain.Date", src)
	}
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// ValidateTime проверяет, что строка имеет формат HH:MM.
func ValidateTime(s string) error {
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return fmt.Errorf("неверный формат времени %q, ожидается HH:MM", s)
	}
	return nil
}

// TruncateTimeToHour отбрасывает минуты: "09:37" -> "09:00".
// Ширина слота фиксирована в один час, поэтому всё хранимое время
// выравнивается по началу часа.
func TruncateTimeToHour(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("неверный формат времени %q, ожидается HH:MM", s)
	}
	return fmt.Sprintf("%02d:00", t.Hour()), nil
}

// NextHour возвращает начало следующего часа: "14:00" -> "15:00".
// Аргумент должен быть валидным временем, выровненным по часу.
func NextHour(s string) string {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return s
	}
	return t.Add(time.Hour).Format(TimeLayout)
}
