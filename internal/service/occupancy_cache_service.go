package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	RedisSlotBookedKeyPrefix = "slot:booked:"

	// Batch size for startup sync
	syncBatchSize = 500

	mutexCleanupInterval = 10 * time.Minute
	mutexStaleThreshold  = 10 * time.Minute
)

// OccupancyCacheService keeps the number of booked people per slot in Redis
// for the public schedule view. The database stays authoritative: booking
// decisions never read this cache, and any missing key is rebuilt from
// visit_bookings.
//
// Lock ordering: per-slot mutex first, then DB/Redis operations.
type OccupancyCacheService struct {
	db          *gorm.DB
	redisClient *redis.Client
	bookingRepo repository.VisitBookingRepository
	log         *logrus.Logger

	slotMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// slotOccupancy is one row of the startup sync query
type slotOccupancy struct {
	SlotID   uuid.UUID
	SlotDate time.Time
	Booked   int
}

// NewOccupancyCacheService starts the background mutex cleanup.
// Call Stop() during graceful shutdown.
func NewOccupancyCacheService(db *gorm.DB, redisClient *redis.Client, bookingRepo repository.VisitBookingRepository, log *logrus.Logger) *OccupancyCacheService {
	svc := &OccupancyCacheService{
		db:          db,
		redisClient: redisClient,
		bookingRepo: bookingRepo,
		log:         log,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop is safe to call multiple times
func (s *OccupancyCacheService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("OccupancyCacheService stopped")
	}
}

// SyncOnStartup rebuilds the booked counter of every slot from today on.
// Rows are processed in batches with one pipeline per batch.
func (s *OccupancyCacheService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting occupancy cache sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := entity.DateOnly(time.Now().UTC())
	offset := 0
	totalSynced := 0

	for {
		var rows []slotOccupancy

		err := s.db.WithContext(ctx).Model(&entity.VisitSlot{}).
			Select(`
				visit_slots.id as slot_id,
				visit_slots.date as slot_date,
				COALESCE(SUM(visit_bookings.number_of_people), 0) as booked
			`).
			Joins("LEFT JOIN visit_bookings ON visit_bookings.slot_id = visit_slots.id").
			Where("visit_slots.date >= ?", today).
			Group("visit_slots.id, visit_slots.date").
			Order("visit_slots.id").
			Limit(syncBatchSize).
			Offset(offset).
			Scan(&rows).Error

		if err != nil {
			s.log.Errorf("Failed to query slot occupancy at offset %d: %+v", offset, err)
			return fmt.Errorf("query slot occupancy at offset %d: %w", offset, err)
		}

		if len(rows) == 0 {
			if offset == 0 {
				s.log.Info("No upcoming slots found for sync")
			}
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, row := range rows {
			pipe.Set(ctx, bookedKey(row.SlotID), row.Booked, calculateTTL(row.SlotDate))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(rows)
		s.log.Debugf("Synced batch: %d slots", len(rows))

		if len(rows) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Occupancy cache sync completed: %d slots synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// SyncSlots recomputes the booked counter of each slot through db, which
// may be a transaction or the root handle
func (s *OccupancyCacheService) SyncSlots(ctx context.Context, db *gorm.DB, slots []entity.VisitSlot) (map[uuid.UUID]int, error) {
	if len(slots) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	ids := make([]uuid.UUID, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	ids = sortedUnique(ids)

	for _, id := range ids {
		mt := s.getSlotMutex(id)
		mt.mu.Lock()
		defer mt.mu.Unlock()
	}

	booked, err := s.bookingRepo.SumPeopleBySlotIDs(db, ids)
	if err != nil {
		s.log.Warnf("Failed to sum bookings for %d slots: %+v", len(ids), err)
		return nil, fmt.Errorf("sum bookings: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	for _, slot := range slots {
		pipe.Set(ctx, bookedKey(slot.ID), booked[slot.ID], calculateTTL(slot.Date))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to cache occupancy for %d slots: %+v", len(slots), err)
		return booked, fmt.Errorf("cache occupancy: %w", err)
	}

	return booked, nil
}

// InvalidateSlots drops cached counters after bookings change so the next
// read rebuilds them from visit_bookings. Counters are never adjusted in
// place: a rebuild racing with a delta would count the same booking twice.
func (s *OccupancyCacheService) InvalidateSlots(ctx context.Context, slotIDs ...uuid.UUID) error {
	if len(slotIDs) == 0 {
		return nil
	}

	ids := sortedUnique(slotIDs)
	for _, id := range ids {
		mt := s.getSlotMutex(id)
		mt.mu.Lock()
		defer mt.mu.Unlock()
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, bookedKey(id))
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to invalidate occupancy of %d slots: %+v", len(keys), err)
		return fmt.Errorf("invalidate occupancy: %w", err)
	}

	s.log.Debugf("Invalidated occupancy of %d slots", len(keys))
	return nil
}

// GetBooked reads cached counters. Slots without a cached value are
// returned in missing and absent from the map.
func (s *OccupancyCacheService) GetBooked(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]int, []uuid.UUID, error) {
	booked := make(map[uuid.UUID]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return booked, nil, nil
	}

	keys := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		keys = append(keys, bookedKey(id))
	}

	values, err := s.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, slotIDs, fmt.Errorf("mget occupancy: %w", err)
	}

	var missing []uuid.UUID
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, slotIDs[i])
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			missing = append(missing, slotIDs[i])
			continue
		}
		booked[slotIDs[i]] = n
	}

	return booked, missing, nil
}

// DeleteSlotKeys drops cached counters and their mutexes
func (s *OccupancyCacheService) DeleteSlotKeys(ctx context.Context, slotIDs ...uuid.UUID) error {
	if len(slotIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		keys = append(keys, bookedKey(id))
		s.slotMu.Delete(id)
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to delete occupancy keys for %d slots: %+v", len(keys), err)
		return fmt.Errorf("delete occupancy keys: %w", err)
	}
	return nil
}

// sortedUnique fixes the lock order so two overlapping callers cannot deadlock
func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func bookedKey(slotID uuid.UUID) string {
	return RedisSlotBookedKeyPrefix + slotID.String()
}

func (s *OccupancyCacheService) getSlotMutex(slotID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.slotMu.LoadOrStore(slotID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *OccupancyCacheService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes checks lastUsed while holding the mutex so a
// concurrent getSlotMutex cannot be lost
func (s *OccupancyCacheService) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	s.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				s.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

// calculateTTL keeps a counter until the end of the day after the slot date
func calculateTTL(slotDate time.Time) time.Duration {
	expireAt := entity.DateOnly(slotDate).AddDate(0, 0, 2)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		return 1 * time.Minute
	}
	return ttl
}
