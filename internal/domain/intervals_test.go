package domain

import (
	"testing"
	"time"
)

func testDay(breakTime *string) ScheduleDay {
	return ScheduleDay{
		SpecialistID: 1,
		Date:         NewDate(2024, time.June, 3),
		StartTime:    "09:00",
		EndTime:      "17:00",
		BreakTime:    breakTime,
	}
}

func strPtr(s string) *string {
	return &s
}

func TestIntervals_FullDayWithBreak(t *testing.T) {
	day := testDay(strPtr("13:00"))

	intervals := Intervals(day, nil)

	if len(intervals) != 8 {
		t.Fatalf("ожидалось 8 интервалов, получено %d", len(intervals))
	}

	if intervals[0].Start != "09:00" || intervals[0].End != "10:00" {
		t.Errorf("первый интервал %s-%s, ожидался 09:00-10:00", intervals[0].Start, intervals[0].End)
	}
	if intervals[7].Start != "16:00" || intervals[7].End != "17:00" {
		t.Errorf("последний интервал %s-%s, ожидался 16:00-17:00", intervals[7].Start, intervals[7].End)
	}

	for i, interval := range intervals {
		wantBreak := interval.Start == "13:00"
		if interval.IsBreak != wantBreak {
			t.Errorf("интервал %d (%s): is_break = %v, ожидалось %v", i, interval.Start, interval.IsBreak, wantBreak)
		}
	}
}

func TestIntervals_NoBreak(t *testing.T) {
	intervals := Intervals(testDay(nil), nil)

	for _, interval := range intervals {
		if interval.IsBreak {
			t.Errorf("интервал %s помечен перерывом без перерыва в окне", interval.Start)
		}
	}
}

func TestIntervals_AttachesConsultationBySlotStart(t *testing.T) {
	day := testDay(strPtr("13:00"))
	consultations := []Consultation{
		{ID: 10, Time: "10:00", Type: ConsultationTypeIndividualWork},
		{ID: 11, Time: "15:00", Type: ConsultationTypeDiagnosticWork},
	}

	intervals := Intervals(day, consultations)

	for _, interval := range intervals {
		switch interval.Start {
		case "10:00":
			if interval.Consultation == nil || interval.Consultation.ID != 10 {
				t.Errorf("к слоту 10:00 не прикреплена консультация 10")
			}
		case "15:00":
			if interval.Consultation == nil || interval.Consultation.ID != 11 {
				t.Errorf("к слоту 15:00 не прикреплена консультация 11")
			}
		default:
			if interval.Consultation != nil {
				t.Errorf("слот %s занят консультацией %d, ожидался свободным", interval.Start, interval.Consultation.ID)
			}
		}
	}

	if got := AttachedCount(intervals); got != 2 {
		t.Errorf("AttachedCount = %d, ожидалось 2", got)
	}
}

func TestIntervals_MisalignedConsultationNotAttached(t *testing.T) {
	day := testDay(nil)
	consultations := []Consultation{{ID: 5, Time: "10:30"}}

	intervals := Intervals(day, consultations)

	if got := AttachedCount(intervals); got != 0 {
		t.Errorf("консультация вне часовой сетки прикреплена к слоту, AttachedCount = %d", got)
	}
}

func TestIntervals_EmptyWindow(t *testing.T) {
	day := testDay(nil)
	day.EndTime = day.StartTime

	if intervals := Intervals(day, nil); len(intervals) != 0 {
		t.Errorf("пустое окно дало %d интервалов", len(intervals))
	}
}

func TestFreeIntervals_SkipsBreakAndOccupied(t *testing.T) {
	day := testDay(strPtr("13:00"))
	consultations := []Consultation{
		{ID: 1, Time: "09:00"},
		{ID: 2, Time: "16:00"},
	}

	free := FreeIntervals(day, consultations)

	want := []string{"10:00", "11:00", "12:00", "14:00", "15:00"}
	if len(free) != len(want) {
		t.Fatalf("ожидалось %d свободных слотов, получено %d", len(want), len(free))
	}
	for i, slot := range free {
		if slot.Start != want[i] {
			t.Errorf("свободный слот %d: %s, ожидался %s", i, slot.Start, want[i])
		}
		if slot.End != NextHour(want[i]) {
			t.Errorf("свободный слот %d: конец %s, ожидался %s", i, slot.End, NextHour(want[i]))
		}
	}
}
