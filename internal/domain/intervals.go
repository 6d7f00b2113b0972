package domain

// ConsultationInterval — производное представление одного часового слота
// рабочего окна: свободен, занят консультацией или приходится на перерыв.
// Не хранится, вычисляется заново при каждом чтении.
type ConsultationInterval struct {
	Start        string        `json:"start"`
	End          string        `json:"end"`
	IsBreak      bool          `json:"is_break,omitempty"`
	Consultation *Consultation `json:"consultation,omitempty"`
}

// FreeInterval — свободный слот в представлении для посетителя.
type FreeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Intervals разбивает рабочее окно на часовые слоты от StartTime
// (включительно) до EndTime (исключительно). Слот помечается перерывом,
// если перерыв попадает в его границы; к слоту прикрепляется консультация
// с совпадающим временем начала (по инварианту уникальности — не более
// одной). Перерыв не удаляет слот, а сосуществует с ним: длина результата
// всегда равна числу часов между началом и окончанием.
func Intervals(day ScheduleDay, consultations []Consultation) []ConsultationInterval {
	var intervals []ConsultationInterval
	for t := day.StartTime; t < day.EndTime; t = NextHour(t) {
		interval := ConsultationInterval{Start: t, End: NextHour(t)}

		if day.BreakTime != nil && t <= *day.BreakTime && *day.BreakTime < interval.End {
			interval.IsBreak = true
		}

		for i := range consultations {
			if consultations[i].Time == t {
				interval.Consultation = &consultations[i]
				break
			}
		}

		intervals = append(intervals, interval)
	}
	return intervals
}

// AttachedCount считает слоты с прикреплённой консультацией. Расхождение
// с общим числом консультаций дня означает консультацию с временем вне
// часовой сетки — аномалию данных, о которой надо предупредить, не
// прерывая показ дня.
func AttachedCount(intervals []ConsultationInterval) int {
	count := 0
	for _, interval := range intervals {
		if interval.Consultation != nil {
			count++
		}
	}
	return count
}

// FreeIntervals возвращает только свободные слоты: без перерыва и без
// прикреплённой консультации. Используется при выборе времени записи.
func FreeIntervals(day ScheduleDay, consultations []Consultation) []FreeInterval {
	var free []FreeInterval
	for _, interval := range Intervals(day, consultations) {
		if interval.IsBreak || interval.Consultation != nil {
			continue
		}
		free = append(free, FreeInterval{Start: interval.Start, End: interval.End})
	}
	return free
}
