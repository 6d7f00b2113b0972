package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"psychologist/internal/domain"
)

func newConsultationTestService(t *testing.T) (*ConsultationServiceImpl, *fakeConsultationRepo) {
	t.Helper()

	consultationRepo := newFakeConsultationRepo()
	scheduleRepo := newFakeScheduleRepo(consultationRepo)
	birthday, _ := domain.ParseDate("2001-03-20")
	visitorRepo := newFakeVisitorRepo(
		domain.Visitor{ID: 1, FirstName: "Пётр", LastName: "Сидоров", Birthday: birthday, Type: "student"},
	)

	date, _ := domain.ParseDate("2030-06-03")
	if err := scheduleRepo.Create(context.Background(), domain.ScheduleDay{
		SpecialistID: 1,
		Date:         date,
		StartTime:    "09:00",
		EndTime:      "17:00",
	}); err != nil {
		t.Fatalf("расписание: %v", err)
	}

	svc := NewConsultationService(consultationRepo, scheduleRepo, visitorRepo, zap.NewNop())
	return svc, consultationRepo
}

func staffConsultationDTO() domain.CreateConsultationDTO {
	return domain.CreateConsultationDTO{
		VisitorID:    1,
		ScheduleDate: "2030-06-03",
		Time:         "10:00",
		Topic:        "Диагностика",
		Primary:      boolPtr(true),
		Type:         domain.ConsultationTypeDiagnosticWork,
		ConsultationVariantDTO: domain.ConsultationVariantDTO{
			RequestCode: strPtr("R-7"),
			Revealed:    strPtr("тревожность"),
			Prescribed:  strPtr("повторная встреча"),
		},
	}
}

func TestConsultationCreate_Success(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	consultation, err := svc.Create(context.Background(), 1, staffConsultationDTO())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if consultation.CreatedByVisitor {
		t.Error("CreatedByVisitor должен быть false для записи персоналом")
	}
	if consultation.Revealed == nil || *consultation.Revealed != "тревожность" {
		t.Errorf("Revealed = %v", consultation.Revealed)
	}
}

func TestConsultationCreate_UnknownVisitor(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	dto := staffConsultationDTO()
	dto.VisitorID = 99
	_, err := svc.Create(context.Background(), 1, dto)
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestConsultationCreate_MissingVariantField(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	dto := staffConsultationDTO()
	dto.Revealed = nil
	_, err := svc.Create(context.Background(), 1, dto)
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}
}

func TestConsultationUpdate_TypeStaysFixed(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	created, err := svc.Create(context.Background(), 1, staffConsultationDTO())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Вариантные поля валидируются по типу существующей консультации:
	// без полей diagnostic_work обновление отклоняется.
	_, err = svc.Update(context.Background(), created.ID, domain.UpdateConsultationDTO{
		VisitorID:      1,
		Topic:          "Другая тема",
		VisitorArrived: boolPtr(true),
		Primary:        boolPtr(false),
		ConsultationVariantDTO: domain.ConsultationVariantDTO{
			Purpose: strPtr("не тот вариант"),
		},
	})
	if domain.KindOf(err) != domain.ErrorKindInvalidRequest {
		t.Fatalf("err = %v, ожидался invalid_request", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateConsultationDTO{
		VisitorID:      1,
		Topic:          "Другая тема",
		VisitorArrived: boolPtr(true),
		Primary:        boolPtr(false),
		ConsultationVariantDTO: domain.ConsultationVariantDTO{
			RequestCode: strPtr("R-7"),
			Revealed:    strPtr("уточнено"),
			Prescribed:  strPtr("наблюдение"),
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Type != domain.ConsultationTypeDiagnosticWork {
		t.Errorf("Type = %s, тип не должен меняться", updated.Type)
	}
	if !updated.VisitorArrived || updated.Topic != "Другая тема" {
		t.Errorf("обновлённая консультация: %+v", updated)
	}
}

func TestConsultationGetBySlot(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	created, err := svc.Create(context.Background(), 1, staffConsultationDTO())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.GetBySlot(context.Background(), 1, "2030-06-03", "10:00")
	if err != nil {
		t.Fatalf("GetBySlot: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("найдена консультация %d, ожидалась %d", found.ID, created.ID)
	}

	_, err = svc.GetBySlot(context.Background(), 1, "2030-06-03", "11:00")
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("свободный слот: err = %v, ожидался not_found", err)
	}
}

func TestConsultationSetVisitorArrived(t *testing.T) {
	svc, repo := newConsultationTestService(t)

	created, err := svc.Create(context.Background(), 1, staffConsultationDTO())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.SetVisitorArrived(context.Background(), created.ID, true); err != nil {
		t.Fatalf("SetVisitorArrived: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored == nil || !stored.VisitorArrived {
		t.Error("отметка о приходе не сохранилась")
	}

	err = svc.SetVisitorArrived(context.Background(), 404, true)
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}

func TestConsultationDelete_NotFound(t *testing.T) {
	svc, _ := newConsultationTestService(t)

	err := svc.Delete(context.Background(), 404)
	if domain.KindOf(err) != domain.ErrorKindNotFound {
		t.Fatalf("err = %v, ожидался not_found", err)
	}
}
