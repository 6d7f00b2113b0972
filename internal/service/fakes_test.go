package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"psychologist/internal/domain"
)

type fakeScheduleRepo struct {
	mu            sync.Mutex
	days          map[int64]map[string]domain.ScheduleDay
	consultations *fakeConsultationRepo
}

func newFakeScheduleRepo(consultations *fakeConsultationRepo) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		days:          make(map[int64]map[string]domain.ScheduleDay),
		consultations: consultations,
	}
}

func (r *fakeScheduleRepo) Create(ctx context.Context, day domain.ScheduleDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate := r.days[day.SpecialistID]
	if byDate == nil {
		byDate = make(map[string]domain.ScheduleDay)
		r.days[day.SpecialistID] = byDate
	}
	key := day.Date.String()
	if _, ok := byDate[key]; ok {
		return domain.ConflictError("расписание на " + key + " уже существует")
	}
	byDate[key] = day
	return nil
}

func (r *fakeScheduleRepo) CreateRange(ctx context.Context, days []domain.ScheduleDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, day := range days {
		if byDate := r.days[day.SpecialistID]; byDate != nil {
			if _, ok := byDate[day.Date.String()]; ok {
				return domain.ConflictError("расписание на " + day.Date.String() + " уже существует")
			}
		}
	}
	for _, day := range days {
		byDate := r.days[day.SpecialistID]
		if byDate == nil {
			byDate = make(map[string]domain.ScheduleDay)
			r.days[day.SpecialistID] = byDate
		}
		byDate[day.Date.String()] = day
	}
	return nil
}

func (r *fakeScheduleRepo) GetByDate(ctx context.Context, specialistID int64, date domain.Date) (*domain.ScheduleDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if byDate := r.days[specialistID]; byDate != nil {
		if day, ok := byDate[date.String()]; ok {
			return &day, nil
		}
	}
	return nil, nil
}

func (r *fakeScheduleRepo) ListRange(ctx context.Context, specialistID int64, from, to domain.Date) ([]domain.ScheduleDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var days []domain.ScheduleDay
	for _, day := range r.days[specialistID] {
		key := day.Date.String()
		if key >= from.String() && key <= to.String() {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date.Time) })
	return days, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, day domain.ScheduleDay) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate := r.days[day.SpecialistID]
	if byDate == nil {
		return false, nil
	}
	key := day.Date.String()
	if _, ok := byDate[key]; !ok {
		return false, nil
	}
	byDate[key] = day
	return true, nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, specialistID int64, date domain.Date) (int64, error) {
	return r.DeleteRange(ctx, specialistID, date, date)
}

// DeleteRange повторяет контракт постгрес-репозитория: подсчёт консультаций
// и удаление дней происходят как единое целое.
func (r *fakeScheduleRepo) DeleteRange(ctx context.Context, specialistID int64, from, to domain.Date) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consultations != nil {
		count := r.consultations.countInRange(specialistID, from, to)
		if count > 0 {
			return 0, domain.ConflictError(fmt.Sprintf("в удаляемом периоде есть консультации (%d), сначала отмените их", count))
		}
	}
	var deleted int64
	for key := range r.days[specialistID] {
		if key >= from.String() && key <= to.String() {
			delete(r.days[specialistID], key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeConsultationRepo struct {
	mu            sync.Mutex
	nextID        int64
	consultations []domain.Consultation
}

func newFakeConsultationRepo() *fakeConsultationRepo {
	return &fakeConsultationRepo{nextID: 1}
}

// Create повторяет контракт постгрес-репозитория: проверка занятости слота
// и посетителя и вставка происходят под одной блокировкой.
func (r *fakeConsultationRepo) Create(ctx context.Context, c domain.Consultation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.consultations {
		if existing.SpecialistID == c.SpecialistID && existing.ScheduleDate.Equal(c.ScheduleDate.Time) && existing.Time == c.Time {
			return 0, domain.InvalidRequestError("выбранные дата и время уже заняты")
		}
		if existing.VisitorID == c.VisitorID && existing.ScheduleDate.Equal(c.ScheduleDate.Time) && existing.Time == c.Time {
			return 0, domain.InvalidRequestError("у посетителя уже есть консультация на это время")
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.consultations = append(r.consultations, c)
	return c.ID, nil
}

func (r *fakeConsultationRepo) GetByID(ctx context.Context, id int64) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.consultations {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeConsultationRepo) GetBySlot(ctx context.Context, specialistID int64, date domain.Date, t string) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.consultations {
		if c.SpecialistID == specialistID && c.ScheduleDate.Equal(date.Time) && c.Time == t {
			copied := c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeConsultationRepo) ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Consultation
	for _, c := range r.consultations {
		if c.SpecialistID == specialistID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeConsultationRepo) ListByDay(ctx context.Context, specialistID int64, date domain.Date) ([]domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Consultation
	for _, c := range r.consultations {
		if c.SpecialistID == specialistID && c.ScheduleDate.Equal(date.Time) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeConsultationRepo) ListByVisitor(ctx context.Context, visitorID int64) ([]domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Consultation
	for _, c := range r.consultations {
		if c.VisitorID == visitorID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduleDate.Equal(result[j].ScheduleDate.Time) {
			return result[i].ScheduleDate.After(result[j].ScheduleDate.Time)
		}
		return result[i].Time > result[j].Time
	})
	return result, nil
}

func (r *fakeConsultationRepo) ExistsForVisitorAt(ctx context.Context, visitorID int64, date domain.Date, t string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.consultations {
		if c.VisitorID == visitorID && c.ScheduleDate.Equal(date.Time) && c.Time == t {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConsultationRepo) countInRange(specialistID int64, from, to domain.Date) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.consultations {
		key := c.ScheduleDate.String()
		if c.SpecialistID == specialistID && key >= from.String() && key <= to.String() {
			count++
		}
	}
	return count
}

func (r *fakeConsultationRepo) Update(ctx context.Context, updated domain.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.consultations {
		if c.ID == updated.ID {
			r.consultations[i] = updated
			return nil
		}
	}
	return domain.NotFoundError("консультация не найдена")
}

func (r *fakeConsultationRepo) SetVisitorArrived(ctx context.Context, id int64, arrived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.consultations {
		if c.ID == id {
			r.consultations[i].VisitorArrived = arrived
			return nil
		}
	}
	return domain.NotFoundError("консультация не найдена")
}

func (r *fakeConsultationRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.consultations {
		if c.ID == id {
			r.consultations = append(r.consultations[:i], r.consultations[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError("консультация не найдена")
}

type fakeSpecialistRepo struct {
	mu          sync.Mutex
	specialists map[int64]domain.Specialist
}

func newFakeSpecialistRepo(specialists ...domain.Specialist) *fakeSpecialistRepo {
	repo := &fakeSpecialistRepo{specialists: make(map[int64]domain.Specialist)}
	for _, s := range specialists {
		repo.specialists[s.ID] = s
	}
	return repo
}

func (r *fakeSpecialistRepo) Create(ctx context.Context, userID int64, dto domain.SpecialistDataDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.specialists) + 1)
	r.specialists[id] = domain.Specialist{ID: id, UserID: userID, FirstName: dto.FirstName, LastName: dto.LastName}
	return id, nil
}

func (r *fakeSpecialistRepo) GetByID(ctx context.Context, id int64) (*domain.Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.specialists[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSpecialistRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.specialists {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSpecialistRepo) Update(ctx context.Context, id int64, dto domain.SpecialistDataDTO) error {
	return nil
}

func (r *fakeSpecialistRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specialists, id)
	return nil
}

func (r *fakeSpecialistRepo) List(ctx context.Context, limit, offset int) ([]domain.Specialist, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Specialist
	for _, s := range r.specialists {
		result = append(result, s)
	}
	return result, len(result), nil
}

type fakeVisitorRepo struct {
	mu       sync.Mutex
	visitors map[int64]domain.Visitor
}

func newFakeVisitorRepo(visitors ...domain.Visitor) *fakeVisitorRepo {
	repo := &fakeVisitorRepo{visitors: make(map[int64]domain.Visitor)}
	for _, v := range visitors {
		repo.visitors[v.ID] = v
	}
	return repo
}

func (r *fakeVisitorRepo) Create(ctx context.Context, userID *int64, dto domain.VisitorDataDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.visitors) + 1)
	birthday, err := domain.ParseDate(dto.Birthday)
	if err != nil {
		return 0, err
	}
	r.visitors[id] = domain.Visitor{ID: id, UserID: userID, FirstName: dto.FirstName, LastName: dto.LastName, Birthday: birthday, Type: dto.Type}
	return id, nil
}

func (r *fakeVisitorRepo) GetByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visitors[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *fakeVisitorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.visitors {
		if v.UserID != nil && *v.UserID == userID {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *fakeVisitorRepo) Update(ctx context.Context, id int64, dto domain.VisitorDataDTO) error {
	return nil
}

func (r *fakeVisitorRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.visitors, id)
	return nil
}

func (r *fakeVisitorRepo) List(ctx context.Context, limit, offset int) ([]domain.Visitor, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Visitor
	for _, v := range r.visitors {
		result = append(result, v)
	}
	return result, len(result), nil
}

func int64Ptr(v int64) *int64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
