package availability

import (
	"context"
	"errors"
	"time"

	"shelby-backend/internal/cache"
	"shelby-backend/internal/catalog"
	"shelby-backend/internal/models"
	"shelby-backend/internal/schedule"
)

var (
	ErrSlotTaken      = errors.New("time slot is not available")
	ErrUnknownService = errors.New("unknown service type")
)

const cachePrefix = "availability:"

type Service struct {
	repo     Repository
	location *time.Location
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, location *time.Location, store cache.Cache, cacheTTL time.Duration) *Service {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Service{
		repo:     repo,
		location: location,
		cache:    store,
		cacheTTL: cacheTTL,
	}
}

func (s *Service) List(ctx context.Context) ([]models.Availability, error) {
	return s.repo.List(ctx)
}

// UpsertForDate normalizes the date to midnight and replaces that date's
// slot list wholesale.
func (s *Service) UpsertForDate(ctx context.Context, dateStr string, slots []models.TimeSlot) (models.Availability, error) {
	date, err := schedule.ParseDate(dateStr, s.location)
	if err != nil {
		return models.Availability{}, err
	}
	date = schedule.NormalizeDate(date, s.location)

	checked := make([]schedule.Slot, 0, len(slots))
	for _, slot := range slots {
		if !catalog.IsKnownPackage(slot.ServiceType) {
			return models.Availability{}, ErrUnknownService
		}
		checked = append(checked, schedule.Slot{
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			ServiceType: slot.ServiceType,
		})
	}
	if err := schedule.ValidateSlots(checked); err != nil {
		return models.Availability{}, err
	}

	saved, err := s.repo.ReplaceSlots(ctx, date, slots)
	if err != nil {
		return models.Availability{}, err
	}

	s.invalidate(ctx)
	return saved, nil
}

// Reserve marks the slot unavailable; ErrSlotTaken when the slot does not
// exist for the date or was already reserved.
func (s *Service) Reserve(ctx context.Context, dateStr, startTime, serviceType string) error {
	date, err := schedule.ParseDate(dateStr, s.location)
	if err != nil {
		return err
	}
	date = schedule.NormalizeDate(date, s.location)

	reserved, err := s.repo.ReserveSlot(ctx, date, startTime, serviceType)
	if err != nil {
		return err
	}
	if !reserved {
		return ErrSlotTaken
	}

	s.invalidate(ctx)
	return nil
}

// Release frees a previously reserved slot, used when a booking is
// rejected. Releasing a slot that is already free is a no-op.
func (s *Service) Release(ctx context.Context, dateStr, startTime, serviceType string) error {
	date, err := schedule.ParseDate(dateStr, s.location)
	if err != nil {
		return err
	}
	date = schedule.NormalizeDate(date, s.location)

	if err := s.repo.ReleaseSlot(ctx, date, startTime, serviceType); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) CacheKey() string {
	return cachePrefix + "all"
}

func (s *Service) CacheTTL() time.Duration {
	return s.cacheTTL
}

func (s *Service) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	return s.cache.Get(ctx, key)
}

func (s *Service) CacheSet(ctx context.Context, key string, payload []byte) error {
	return s.cache.Set(ctx, key, payload, s.cacheTTL)
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.DeletePrefix(ctx, cachePrefix)
}
