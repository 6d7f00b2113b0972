package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"psychologist/internal/domain"
)

type appointmentFixture struct {
	svc              *AppointmentServiceImpl
	scheduleRepo     *fakeScheduleRepo
	consultationRepo *fakeConsultationRepo
	visitorRepo      *fakeVisitorRepo
}

// newAppointmentFixture поднимает сервис с расписанием 09:00-17:00
// (перерыв 13:00) у специалиста 1 на 2030-06-03 и посетителями с
// user_id 100 и 101.
func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	consultationRepo := newFakeConsultationRepo()
	scheduleRepo := newFakeScheduleRepo(consultationRepo)
	birthday, _ := domain.ParseDate("2000-01-15")
	visitorRepo := newFakeVisitorRepo(
		domain.Visitor{ID: 1, UserID: int64Ptr(100), FirstName: "Пётр", LastName: "Сидоров", Birthday: birthday, Type: "student"},
		domain.Visitor{ID: 2, UserID: int64Ptr(101), FirstName: "Мария", LastName: "Кузнецова", Birthday: birthday, Type: "parent"},
	)

	date, _ := domain.ParseDate("2030-06-03")
	if err := scheduleRepo.Create(context.Background(), domain.ScheduleDay{
		SpecialistID: 1,
		Date:         date,
		StartTime:    "09:00",
		EndTime:      "17:00",
		BreakTime:    strPtr("13:00"),
	}); err != nil {
		t.Fatalf("расписание: %v", err)
	}
	// Второй специалист работает в те же часы.
	if err := scheduleRepo.Create(context.Background(), domain.ScheduleDay{
		SpecialistID: 2,
		Date:         date,
		StartTime:    "09:00",
		EndTime:      "17:00",
	}); err != nil {
		t.Fatalf("расписание специалиста 2: %v", err)
	}

	svc := NewAppointmentService(consultationRepo, scheduleRepo, visitorRepo, zap.NewNop())
	return &appointmentFixture{
		svc:              svc,
		scheduleRepo:     scheduleRepo,
		consultationRepo: consultationRepo,
		visitorRepo:      visitorRepo,
	}
}

func bookingDTO(slot string) domain.AppointmentDTO {
	return domain.AppointmentDTO{
		SpecialistID: 1,
		Date:         "2030-06-03",
		Time:         slot,
		Topic:        "Консультация",
		Primary:      boolPtr(true),
		Type:         domain.ConsultationTypeIndividualWork,
		ConsultationVariantDTO: domain.ConsultationVariantDTO{
			Purpose: strPtr("знакомство"),
		},
	}
}

func TestBook_Success(t *testing.T) {
	f := newAppointmentFixture(t)

	consultation, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if consultation.ID == 0 {
		t.Error("консультации не присвоен id")
	}
	if consultation.VisitorID != 1 {
		t.Errorf("VisitorID = %d, ожидалось 1", consultation.VisitorID)
	}
	if !consultation.CreatedByVisitor {
		t.Error("CreatedByVisitor должен быть true для записи через публичный интерфейс")
	}
	if consultation.Purpose == nil || *consultation.Purpose != "знакомство" {
		t.Errorf("Purpose = %v", consultation.Purpose)
	}
}

func TestBook_UnknownVisitor(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.Book(context.Background(), 999, bookingDTO("10:00"))
	if domain.KindOf(err) != domain.ErrorKindUnauthorized {
		t.Fatalf("err = %v, ожидался unauthorized", err)
	}
}

func TestBook_NoScheduleForDate(t *testing.T) {
	f := newAppointmentFixture(t)

	dto := bookingDTO("10:00")
	dto.Date = "2030-06-04"
	_, err := f.svc.Book(context.Background(), 100, dto)
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestBook_OutsideWindowAndBreak(t *testing.T) {
	f := newAppointmentFixture(t)

	for _, slot := range []string{"08:00", "17:00", "13:00", "10:30"} {
		_, err := f.svc.Book(context.Background(), 100, bookingDTO(slot))
		if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
			t.Errorf("слот %s: err = %v, ожидался invalid_request", slot, err)
		}
	}
}

func TestBook_InvalidVariant(t *testing.T) {
	f := newAppointmentFixture(t)

	dto := bookingDTO("10:00")
	dto.Purpose = nil
	_, err := f.svc.Book(context.Background(), 100, dto)
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestBook_SlotAlreadyTaken(t *testing.T) {
	f := newAppointmentFixture(t)

	if _, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00")); err != nil {
		t.Fatalf("первый Book: %v", err)
	}
	_, err := f.svc.Book(context.Background(), 101, bookingDTO("10:00"))
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestBook_VisitorBusyAtOtherSpecialist(t *testing.T) {
	f := newAppointmentFixture(t)

	if _, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00")); err != nil {
		t.Fatalf("первый Book: %v", err)
	}

	dto := bookingDTO("10:00")
	dto.SpecialistID = 2
	_, err := f.svc.Book(context.Background(), 100, dto)
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	f := newAppointmentFixture(t)

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := int64(100 + i%2)
			_, errs[i] = f.svc.Book(context.Background(), userID, bookingDTO("11:00"))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case domain.KindOf(err) == domain.ErrorKindInvalidRequest:
		default:
			t.Errorf("попытка %d: неожиданная ошибка %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("слот достался %d бронированиям, ожидалось ровно 1", winners)
	}

	stored, err := f.consultationRepo.GetBySlot(context.Background(), 1, mustDate(t, "2030-06-03"), "11:00")
	if err != nil || stored == nil {
		t.Fatalf("слот после гонки: %v, %v", stored, err)
	}
}

func TestCancel_ForeignConsultation(t *testing.T) {
	f := newAppointmentFixture(t)

	consultation, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	err = f.svc.Cancel(context.Background(), 101, consultation.ID)
	if domain.KindOf(err) != domain.ErrorKindForbidden {
		t.Fatalf("err = %v, ожидался forbidden", err)
	}
}

func TestCancel_PastConsultation(t *testing.T) {
	f := newAppointmentFixture(t)

	consultation, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	f.svc.now = func() time.Time {
		return time.Date(2030, time.June, 3, 11, 0, 0, 0, time.Local)
	}
	err = f.svc.Cancel(context.Background(), 100, consultation.ID)
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestCancel_FutureConsultation(t *testing.T) {
	f := newAppointmentFixture(t)

	consultation, err := f.svc.Book(context.Background(), 100, bookingDTO("10:00"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	f.svc.now = func() time.Time {
		return time.Date(2030, time.June, 3, 9, 0, 0, 0, time.Local)
	}
	if err := f.svc.Cancel(context.Background(), 100, consultation.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	stored, err := f.consultationRepo.GetByID(context.Background(), consultation.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored != nil {
		t.Error("консультация не удалена после отмены")
	}

	// Слот снова свободен.
	if _, err := f.svc.Book(context.Background(), 101, bookingDTO("10:00")); err != nil {
		t.Fatalf("повторное бронирование освободившегося слота: %v", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)

	err := f.svc.Cancel(context.Background(), 100, 404)
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestVisitorConsultations_Projection(t *testing.T) {
	f := newAppointmentFixture(t)

	dto := domain.AppointmentDTO{
		SpecialistID: 1,
		Date:         "2030-06-03",
		Time:         "10:00",
		Topic:        "Первичный приём",
		Primary:      boolPtr(true),
		Type:         domain.ConsultationTypeIndividualConsultation,
		ConsultationVariantDTO: domain.ConsultationVariantDTO{
			RequestCode: strPtr("R-12"),
			Nature:      strPtr("служебная пометка"),
			Notes:       strPtr("заметки"),
		},
	}
	if _, err := f.svc.Book(context.Background(), 100, dto); err != nil {
		t.Fatalf("Book: %v", err)
	}

	views, err := f.svc.VisitorConsultations(context.Background(), 100)
	if err != nil {
		t.Fatalf("VisitorConsultations: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("получено %d консультаций, ожидалась 1", len(views))
	}

	view := views[0]
	if view.RequestCode == nil || *view.RequestCode != "R-12" {
		t.Errorf("RequestCode = %v", view.RequestCode)
	}
	if view.Notes == nil || *view.Notes != "заметки" {
		t.Errorf("Notes = %v", view.Notes)
	}

	// Чужие консультации не попадают в выдачу.
	views, err = f.svc.VisitorConsultations(context.Background(), 101)
	if err != nil {
		t.Fatalf("VisitorConsultations второго посетителя: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("у второго посетителя %d консультаций, ожидалось 0", len(views))
	}
}

func mustDate(t *testing.T, value string) domain.Date {
	t.Helper()
	date, err := domain.ParseDate(value)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", value, err)
	}
	return date
}
