package usecase

import (
	"context"

	"baby-visit-scheduler/internal/domain/entity"
	"baby-visit-scheduler/internal/domain/repository"
	"baby-visit-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// loadOccupancy returns booked people per slot. Cached counters are used
// where present; missing ones are rebuilt from the database and written
// back. When Redis is down the database answers alone.
func loadOccupancy(ctx context.Context, db *gorm.DB, cache *service.OccupancyCacheService, bookingRepo repository.VisitBookingRepository, log *logrus.Logger, slots []entity.VisitSlot) (map[uuid.UUID]int, error) {
	ids := make([]uuid.UUID, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}

	booked, missing, err := cache.GetBooked(ctx, ids)
	if err != nil {
		log.Warnf("Occupancy cache unavailable, reading from database: %+v", err)
		return bookingRepo.SumPeopleBySlotIDs(db, ids)
	}
	if len(missing) == 0 {
		return booked, nil
	}

	missingSet := make(map[uuid.UUID]bool, len(missing))
	for _, id := range missing {
		missingSet[id] = true
	}
	toSync := make([]entity.VisitSlot, 0, len(missing))
	for _, slot := range slots {
		if missingSet[slot.ID] {
			toSync = append(toSync, slot)
		}
	}

	synced, err := cache.SyncSlots(ctx, db, toSync)
	if synced == nil {
		return nil, err
	}
	if err != nil {
		log.Warnf("Failed to write back occupancy for %d slots: %+v", len(toSync), err)
	}
	for _, id := range missing {
		booked[id] = synced[id]
	}
	return booked, nil
}
