package domain

import "testing"

func TestContainsSlot(t *testing.T) {
	day := ScheduleDay{
		StartTime: "09:00",
		EndTime:   "17:00",
		BreakTime: strPtr("13:00"),
	}

	cases := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"12:00", true},
		{"16:00", true},
		{"08:00", false}, // до начала окна
		{"17:00", false}, // граница окончания не входит
		{"18:00", false},
		{"13:00", false}, // перерыв
		{"10:30", false}, // внутри окна, но не на границе часа
		{"09:01", false},
		{"16:59", false},
		{"abc", false},
	}
	for _, tc := range cases {
		if got := day.ContainsSlot(tc.time); got != tc.want {
			t.Errorf("ContainsSlot(%q) = %v, ожидалось %v", tc.time, got, tc.want)
		}
	}
}

func TestContainsSlot_NoBreak(t *testing.T) {
	day := ScheduleDay{StartTime: "10:00", EndTime: "12:00"}

	if !day.ContainsSlot("10:00") || !day.ContainsSlot("11:00") {
		t.Error("слоты внутри окна без перерыва должны приниматься")
	}
	if day.ContainsSlot("12:00") {
		t.Error("граница окончания не должна приниматься")
	}
}
