package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"psychologist/internal/domain"
)

func newScheduleTestService() (*ScheduleServiceImpl, *fakeScheduleRepo, *fakeConsultationRepo) {
	consultationRepo := newFakeConsultationRepo()
	scheduleRepo := newFakeScheduleRepo(consultationRepo)
	specialistRepo := newFakeSpecialistRepo(domain.Specialist{ID: 1, UserID: 100, FirstName: "Анна", LastName: "Иванова"})
	svc := NewScheduleService(scheduleRepo, consultationRepo, specialistRepo, zap.NewNop())
	return svc, scheduleRepo, consultationRepo
}

func TestScheduleCreate_TruncatesTimes(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	day, err := svc.Create(context.Background(), 1, domain.CreateScheduleDayDTO{
		Date:      "2024-06-03",
		StartTime: "09:37",
		EndTime:   "17:15",
		BreakTime: strPtr("13:05"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if day.StartTime != "09:00" || day.EndTime != "17:00" {
		t.Errorf("окно = %s-%s, ожидалось 09:00-17:00", day.StartTime, day.EndTime)
	}
	if day.BreakTime == nil || *day.BreakTime != "13:00" {
		t.Errorf("перерыв = %v, ожидалось 13:00", day.BreakTime)
	}
}

func TestScheduleCreate_DuplicateDate(t *testing.T) {
	svc, _, _ := newScheduleTestService()
	dto := domain.CreateScheduleDayDTO{Date: "2024-06-03", StartTime: "09:00", EndTime: "17:00"}

	if _, err := svc.Create(context.Background(), 1, dto); err != nil {
		t.Fatalf("первый Create: %v", err)
	}
	_, err := svc.Create(context.Background(), 1, dto)
	if domain.KindOf(err) != domain.ErrorKindConflict {
		t.Fatalf("повторный Create: err = %v, ожидался conflict", err)
	}
}

func TestScheduleCreate_UnknownSpecialist(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	_, err := svc.Create(context.Background(), 99, domain.CreateScheduleDayDTO{
		Date: "2024-06-03", StartTime: "09:00", EndTime: "17:00",
	})
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestScheduleCreate_InvalidWindow(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	_, err := svc.Create(context.Background(), 1, domain.CreateScheduleDayDTO{
		Date: "2024-06-03", StartTime: "17:00", EndTime: "09:00",
	})
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestScheduleCreateRange_WeekdayPattern(t *testing.T) {
	svc, repo, _ := newScheduleTestService()

	window := domain.ScheduleWeekdayInfo{StartTime: "09:00", EndTime: "17:00"}
	// 2024-06-03 — понедельник, 2024-06-09 — воскресенье.
	days, err := svc.CreateRange(context.Background(), 1, domain.CreateScheduleRangeDTO{
		StartDate: "2024-06-03",
		EndDate:   "2024-06-09",
		Weekdays:  map[int]domain.ScheduleWeekdayInfo{0: window, 2: window, 4: window},
	})
	if err != nil {
		t.Fatalf("CreateRange: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("создано %d дней, ожидалось 3", len(days))
	}
	want := []string{"2024-06-03", "2024-06-05", "2024-06-07"}
	for i, day := range days {
		if day.Date.String() != want[i] {
			t.Errorf("days[%d].Date = %s, ожидалось %s", i, day.Date, want[i])
		}
	}

	stored, err := repo.ListRange(context.Background(), 1, days[0].Date, days[2].Date)
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(stored) != 3 {
		t.Errorf("сохранено %d дней, ожидалось 3", len(stored))
	}
}

func TestScheduleCreateRange_InclusiveEndDate(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	window := domain.ScheduleWeekdayInfo{StartTime: "10:00", EndTime: "12:00"}
	// Конец диапазона — воскресенье (ключ 6) и должен войти в результат.
	days, err := svc.CreateRange(context.Background(), 1, domain.CreateScheduleRangeDTO{
		StartDate: "2024-06-03",
		EndDate:   "2024-06-09",
		Weekdays:  map[int]domain.ScheduleWeekdayInfo{6: window},
	})
	if err != nil {
		t.Fatalf("CreateRange: %v", err)
	}
	if len(days) != 1 || days[0].Date.String() != "2024-06-09" {
		t.Fatalf("days = %v, ожидался единственный день 2024-06-09", days)
	}
}

func TestScheduleCreateRange_BadWeekdayKey(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	window := domain.ScheduleWeekdayInfo{StartTime: "09:00", EndTime: "17:00"}
	_, err := svc.CreateRange(context.Background(), 1, domain.CreateScheduleRangeDTO{
		StartDate: "2024-06-03",
		EndDate:   "2024-06-09",
		Weekdays:  map[int]domain.ScheduleWeekdayInfo{7: window},
	})
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestScheduleCreateRange_EmptyMatch(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	window := domain.ScheduleWeekdayInfo{StartTime: "09:00", EndTime: "17:00"}
	// 2024-06-04 и 2024-06-05 — вторник и среда, понедельника в диапазоне нет.
	_, err := svc.CreateRange(context.Background(), 1, domain.CreateScheduleRangeDTO{
		StartDate: "2024-06-04",
		EndDate:   "2024-06-05",
		Weekdays:  map[int]domain.ScheduleWeekdayInfo{0: window},
	})
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestScheduleGetDayView_NotFound(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	_, err := svc.GetDayView(context.Background(), 1, "2024-06-03")
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestScheduleDelete_BlockedByConsultations(t *testing.T) {
	svc, _, consultationRepo := newScheduleTestService()

	if _, err := svc.Create(context.Background(), 1, domain.CreateScheduleDayDTO{
		Date: "2024-06-03", StartTime: "09:00", EndTime: "17:00",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	date, _ := domain.ParseDate("2024-06-03")
	if _, err := consultationRepo.Create(context.Background(), domain.Consultation{
		SpecialistID: 1,
		VisitorID:    5,
		ScheduleDate: date,
		Time:         "10:00",
		Type:         domain.ConsultationTypeIndividualWork,
	}); err != nil {
		t.Fatalf("консультация: %v", err)
	}

	err := svc.Delete(context.Background(), 1, "2024-06-03")
	if domain.KindOf(err) != domain.ErrorKindConflict {
		t.Fatalf("Delete: err = %v, ожидался conflict", err)
	}

	// После отмены консультации день удаляется.
	if err := consultationRepo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete консультации: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, "2024-06-03"); err != nil {
		t.Fatalf("Delete после отмены: %v", err)
	}
}

func TestScheduleDelete_NotFound(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	err := svc.Delete(context.Background(), 1, "2024-06-03")
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestScheduleDeleteRange(t *testing.T) {
	svc, repo, _ := newScheduleTestService()

	window := domain.ScheduleWeekdayInfo{StartTime: "09:00", EndTime: "17:00"}
	weekdays := map[int]domain.ScheduleWeekdayInfo{}
	for i := 0; i < 7; i++ {
		weekdays[i] = window
	}
	if _, err := svc.CreateRange(context.Background(), 1, domain.CreateScheduleRangeDTO{
		StartDate: "2024-06-03",
		EndDate:   "2024-06-09",
		Weekdays:  weekdays,
	}); err != nil {
		t.Fatalf("CreateRange: %v", err)
	}

	if err := svc.DeleteRange(context.Background(), 1, "2024-06-03", "2024-06-05"); err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}

	from, _ := domain.ParseDate("2024-06-03")
	to, _ := domain.ParseDate("2024-06-09")
	left, err := repo.ListRange(context.Background(), 1, from, to)
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(left) != 4 {
		t.Errorf("осталось %d дней, ожидалось 4", len(left))
	}
}

func TestScheduleUpdate_NotFound(t *testing.T) {
	svc, _, _ := newScheduleTestService()

	_, err := svc.Update(context.Background(), 1, "2024-06-03", domain.UpdateScheduleDayDTO{
		StartTime: "10:00", EndTime: "16:00",
	})
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestScheduleGetFreeSlotsView(t *testing.T) {
	svc, _, consultationRepo := newScheduleTestService()

	if _, err := svc.Create(context.Background(), 1, domain.CreateScheduleDayDTO{
		Date: "2024-06-03", StartTime: "09:00", EndTime: "12:00", BreakTime: strPtr("10:00"),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	date, _ := domain.ParseDate("2024-06-03")
	if _, err := consultationRepo.Create(context.Background(), domain.Consultation{
		SpecialistID: 1,
		VisitorID:    5,
		ScheduleDate: date,
		Time:         "11:00",
		Type:         domain.ConsultationTypeIndividualWork,
	}); err != nil {
		t.Fatalf("консультация: %v", err)
	}

	view, err := svc.GetFreeSlotsView(context.Background(), 1, "2024-06-03")
	if err != nil {
		t.Fatalf("GetFreeSlotsView: %v", err)
	}
	// 09:00 свободен, 10:00 — перерыв, 11:00 занят.
	if len(view.FreeIntervals) != 1 || view.FreeIntervals[0].Start != "09:00" {
		t.Fatalf("свободные слоты = %v, ожидался один 09:00", view.FreeIntervals)
	}
}
