package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	"baby-visit-scheduler/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var visitDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB returns a gorm handle whose transactions are answered by sqlmock.
// The fake repositories never issue SQL, so only BEGIN/COMMIT/ROLLBACK reach it.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newTestCache(t *testing.T, bookingRepo repository.VisitBookingRepository) (*service.OccupancyCacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := service.NewOccupancyCacheService(nil, client, bookingRepo, quietLogger())
	t.Cleanup(cache.Stop)
	return cache, mr
}

type fakeScheduleRepo struct {
	repository.VisitScheduleRepository
	schedules map[uuid.UUID]entity.VisitSchedule
}

func newFakeScheduleRepo(schedules ...entity.VisitSchedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: map[uuid.UUID]entity.VisitSchedule{}}
	for _, s := range schedules {
		r.schedules[s.ID] = s
	}
	return r
}

func (r *fakeScheduleRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeScheduleRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSchedule, error) {
	return r.FindByID(db, id)
}

type fakeSlotRepo struct {
	repository.VisitSlotRepository
	mu        sync.Mutex
	slots     map[uuid.UUID]entity.VisitSlot
	createErr error
	updateErr error
}

func newFakeSlotRepo(slots ...entity.VisitSlot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: map[uuid.UUID]entity.VisitSlot{}}
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return r
}

func (r *fakeSlotRepo) CreateBatch(db *gorm.DB, slots []entity.VisitSlot) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range slots {
		slots[i].ID = uuid.New()
		r.slots[slots[i].ID] = slots[i]
	}
	return nil
}

func (r *fakeSlotRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSlotRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.VisitSlot, error) {
	return r.FindByID(db, id)
}

func (r *fakeSlotRepo) FindByScheduleID(db *gorm.DB, scheduleID uuid.UUID) ([]entity.VisitSlot, error) {
	return r.filter(func(s entity.VisitSlot) bool { return s.ScheduleID == scheduleID }), nil
}

func (r *fakeSlotRepo) FindByScheduleAndDate(db *gorm.DB, scheduleID uuid.UUID, date time.Time) ([]entity.VisitSlot, error) {
	day := entity.DateOnly(date)
	return r.filter(func(s entity.VisitSlot) bool {
		return s.ScheduleID == scheduleID && entity.DateOnly(s.Date).Equal(day)
	}), nil
}

func (r *fakeSlotRepo) Update(db *gorm.DB, slot *entity.VisitSlot) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = *slot
	return nil
}

func (r *fakeSlotRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return 0, nil
	}
	delete(r.slots, id)
	return 1, nil
}

func (r *fakeSlotRepo) filter(keep func(entity.VisitSlot) bool) []entity.VisitSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.VisitSlot
	for _, s := range r.slots {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (r *fakeSlotRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

type fakeBookingSums struct {
	repository.VisitBookingRepository
	sums map[uuid.UUID]int
}

func (r *fakeBookingSums) SumPeopleBySlotIDs(db *gorm.DB, slotIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(slotIDs))
	for _, id := range slotIDs {
		if n, ok := r.sums[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

// fakeAudit records the actions written inside a transaction
type fakeAudit struct {
	actions []string
}

func (a *fakeAudit) LogCreate(ctx context.Context, tx *gorm.DB, caregiverID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) LogUpdate(ctx context.Context, tx *gorm.DB, caregiverID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) LogDelete(ctx context.Context, tx *gorm.DB, caregiverID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	a.actions = append(a.actions, action)
	return nil
}

func newSchedule(caregiverID uuid.UUID, start, end time.Time) entity.VisitSchedule {
	return entity.VisitSchedule{
		ID:          uuid.New(),
		CaregiverID: caregiverID,
		StartDate:   start,
		EndDate:     end,
	}
}

func newExistingSlot(scheduleID uuid.UUID, date time.Time, start string, minutes, maxPeople int) entity.VisitSlot {
	return entity.VisitSlot{
		ID:              uuid.New(),
		ScheduleID:      scheduleID,
		Date:            date,
		StartTime:       start,
		DurationMinutes: minutes,
		MaxPeople:       maxPeople,
	}
}
