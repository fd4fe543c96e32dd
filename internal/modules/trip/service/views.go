package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"kelana.id/travelapp/internal/modules/trip/repository"
)

// ViewService buffers trip view counts in Redis and flushes them to the
// database on an interval, so a popular public trip does not turn every
// page load into an UPDATE.
type ViewService interface {
	IncrementView(ctx context.Context, tripID uuid.UUID, viewerID uuid.UUID) error
	StartViewSyncWorker(ctx context.Context)
}

type viewService struct {
	redisClient *redis.Client
	tripRepo    repository.TripRepository
}

func NewViewService(redisClient *redis.Client, tripRepo repository.TripRepository) ViewService {
	return &viewService{
		redisClient: redisClient,
		tripRepo:    tripRepo,
	}
}

func (s *viewService) IncrementView(ctx context.Context, tripID uuid.UUID, viewerID uuid.UUID) error {
	// A viewer only counts once per hour per trip.
	viewerKey := fmt.Sprintf("trip:viewer:%s:%s", tripID, viewerID)

	exists, err := s.redisClient.Exists(ctx, viewerKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check viewer: %w", err)
	}
	if exists == 1 {
		return nil
	}

	viewKey := fmt.Sprintf("trip:views:%s", tripID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if _, err := s.redisClient.SAdd(ctx, "pending:trip_views", tripID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending set: %w", err)
	}

	if _, err := s.redisClient.SetEx(ctx, viewerKey, "viewed", time.Hour).Result(); err != nil {
		return fmt.Errorf("failed to mark viewer: %w", err)
	}

	return nil
}

func (s *viewService) syncViewsToDB(ctx context.Context) {
	pendingKey := "pending:trip_views"

	tripIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		log.Printf("view sync: failed to read pending set: %v", err)
		return
	}
	if len(tripIDs) == 0 {
		return
	}

	for _, idStr := range tripIDs {
		tripID, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("view sync: invalid trip id %s: %v", idStr, err)
			continue
		}

		viewKey := fmt.Sprintf("trip:views:%s", tripID)
		countStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			log.Printf("view sync: failed to read counter for %s: %v", tripID, err)
			continue
		}
		if countStr == "" {
			continue
		}

		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil || count <= 0 {
			continue
		}

		if err := s.tripRepo.AddViews(ctx, tripID, count); err != nil {
			log.Printf("view sync: failed to flush views for %s: %v", tripID, err)
			continue
		}

		if _, err := s.redisClient.Del(ctx, viewKey).Result(); err != nil {
			log.Printf("view sync: failed to reset counter for %s: %v", tripID, err)
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		log.Printf("view sync: failed to clear pending set: %v", err)
	}
}

func (s *viewService) StartViewSyncWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
