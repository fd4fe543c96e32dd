package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"kelana.id/travelapp/internal/entity"
	badgeDto "kelana.id/travelapp/internal/modules/badge/dto"
	badgeRepo "kelana.id/travelapp/internal/modules/badge/repository"
	notifService "kelana.id/travelapp/internal/modules/notification/service"
	userRepo "kelana.id/travelapp/internal/modules/user/repository"
	"kelana.id/travelapp/pkg/apperror"
)

type BadgeService interface {
	// Evaluate runs one full evaluation pass for the user: aggregate stats,
	// find unearned active badges, run the rule table, award what qualifies.
	Evaluate(ctx context.Context, userID uuid.UUID) error
	// EvaluateAsync runs Evaluate in a detached goroutine. Callers never see
	// an error; this is the fire-and-forget trigger business operations use.
	EvaluateAsync(userID uuid.UUID)

	GetCatalog(ctx context.Context, category string) ([]entity.Badge, error)
	GetUserBadges(ctx context.Context, userID uuid.UUID) ([]badgeDto.EarnedBadgeResponse, error)
	GetUserBadgeStats(ctx context.Context, userID uuid.UUID) (*badgeDto.UserBadgeStats, error)

	CreateBadge(ctx context.Context, input badgeDto.CreateBadgeInput) (*entity.Badge, error)
	UpdateBadge(ctx context.Context, code string, input badgeDto.UpdateBadgeInput) (*entity.Badge, error)
}

type badgeService struct {
	repo                badgeRepo.BadgeRepository
	statsRepo           badgeRepo.StatsRepository
	userRepo            userRepo.UserRepository
	notificationService notifService.NotificationService
}

func NewBadgeService(repo badgeRepo.BadgeRepository, statsRepo badgeRepo.StatsRepository, userRepo userRepo.UserRepository, notificationService notifService.NotificationService) BadgeService {
	return &badgeService{
		repo:                repo,
		statsRepo:           statsRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *badgeService) EvaluateAsync(userID uuid.UUID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("badge evaluation panicked for user %s: %v", userID, r)
			}
		}()

		if err := s.Evaluate(context.Background(), userID); err != nil {
			log.Printf("badge evaluation failed for user %s: %v", userID, err)
		}
	}()
}

func (s *badgeService) Evaluate(ctx context.Context, userID uuid.UUID) error {
	// A failed stats read aborts the whole pass: badges are never awarded
	// on partial stats.
	stats, err := s.aggregateStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("aggregate stats: %w", err)
	}

	earnedIDs, err := s.repo.EarnedBadgeIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("load earned badges: %w", err)
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("load badge catalog: %w", err)
	}

	var qualified []entity.Badge
	for _, badge := range active {
		if earned[badge.ID] {
			continue
		}

		fn, ok := criterionFor(badge.Code)
		if !ok {
			// Catalog row with no registered predicate, skip
			continue
		}

		met, err := fn(*stats, badge.Criteria)
		if err != nil {
			// Isolated to this badge, the rest of the pass continues
			log.Printf("criteria evaluation failed for badge %s (user %s): %v", badge.Code, userID, err)
			continue
		}
		if met {
			qualified = append(qualified, badge)
		}
	}

	if len(qualified) == 0 {
		return nil
	}

	// Each award commits on its own; one failure must not block the rest.
	var lastErr error
	for _, badge := range qualified {
		newlyAwarded, err := s.repo.Award(ctx, userID, &badge)
		if err != nil {
			log.Printf("failed to award badge %s to user %s: %v", badge.Code, userID, err)
			lastErr = err
			continue
		}
		if newlyAwarded {
			s.notifyBadgeEarned(ctx, userID, &badge)
		}
	}
	return lastErr
}

// aggregateStats issues the independent read queries concurrently and
// assembles the snapshot. Any failure fails the aggregation as a whole.
func (s *badgeService) aggregateStats(ctx context.Context, userID uuid.UUID) (*badgeDto.UserStats, error) {
	var (
		stats   badgeDto.UserStats
		budgets []badgeRepo.TripBudget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.CompletedTrips, err = s.statsRepo.CountCompletedTrips(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.PublicTrips, err = s.statsRepo.CountPublicTrips(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.DistinctCountries, err = s.statsRepo.CountDistinctCountries(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.JournalEntries, err = s.statsRepo.CountJournalEntries(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.Photos, err = s.statsRepo.CountPhotos(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.PhotoLikes, err = s.statsRepo.CountPhotoLikesReceived(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		stats.PhotoComments, err = s.statsRepo.CountPhotoCommentsReceived(gctx, userID)
		return
	})
	g.Go(func() (err error) {
		budgets, err = s.statsRepo.CompletedTripBudgets(gctx, userID)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.UnderBudgetTrips, stats.TotalSaved = deriveBudgetStats(budgets)
	return &stats, nil
}

// deriveBudgetStats counts completed trips that stayed within their
// estimated budget and sums the amounts saved. Trips with no budget never
// reach here (the query filters estimated_budget > 0); trips over budget
// contribute to neither number.
func deriveBudgetStats(budgets []badgeRepo.TripBudget) (underBudget int64, totalSaved float64) {
	for _, b := range budgets {
		if b.EstimatedBudget >= b.TotalSpent {
			underBudget++
			totalSaved += b.EstimatedBudget - b.TotalSpent
		}
	}
	return underBudget, totalSaved
}

// notifyBadgeEarned is best-effort: a failed notification never unwinds the
// award it follows.
func (s *badgeService) notifyBadgeEarned(ctx context.Context, userID uuid.UUID, badge *entity.Badge) {
	if s.notificationService == nil {
		return
	}

	notif := &entity.Notification{
		UserID:     userID,
		EntityID:   badge.Code,
		EntityType: "badge",
		Type:       entity.NotificationBadgeEarned,
		Message:    fmt.Sprintf("You earned the %s badge! +%d points", badge.Name, badge.Points),
	}
	if err := s.notificationService.CreateNotification(ctx, notif); err != nil {
		log.Printf("failed to send badge notification to user %s: %v", userID, err)
	}
}

func (s *badgeService) GetCatalog(ctx context.Context, category string) ([]entity.Badge, error) {
	if category != "" {
		return s.repo.ListActiveByCategory(ctx, category)
	}
	return s.repo.ListActive(ctx)
}

func (s *badgeService) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]badgeDto.EarnedBadgeResponse, error) {
	earned, err := s.repo.ListEarned(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]badgeDto.EarnedBadgeResponse, 0, len(earned))
	for _, ub := range earned {
		res = append(res, badgeDto.EarnedBadgeResponse{
			Badge:    ub.Badge,
			EarnedAt: ub.EarnedAt,
		})
	}
	return res, nil
}

func (s *badgeService) GetUserBadgeStats(ctx context.Context, userID uuid.UUID) (*badgeDto.UserBadgeStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	count, err := s.repo.CountEarned(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.repo.CountEarnedByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &badgeDto.UserBadgeStats{
		TotalPoints: user.TotalPoints,
		EarnedCount: count,
		ByCategory:  byCategory,
	}, nil
}

func (s *badgeService) CreateBadge(ctx context.Context, input badgeDto.CreateBadgeInput) (*entity.Badge, error) {
	if _, err := s.repo.FindByCode(ctx, input.Code); err == nil {
		return nil, fmt.Errorf("badge code already exists: %w", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, ok := criterionFor(input.Code); !ok {
		log.Printf("badge %s created without a registered predicate; it will never be awarded until one is added", input.Code)
	}

	rarity := input.Rarity
	if rarity == "" {
		rarity = entity.BadgeRarityCommon
	}
	criteria := input.Criteria
	if criteria == nil {
		criteria = entity.Criteria{}
	}

	badge := &entity.Badge{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Rarity:      rarity,
		Points:      input.Points,
		IconURL:     input.IconURL,
		IsActive:    true,
		Criteria:    criteria,
	}

	if err := s.repo.Create(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *badgeService) UpdateBadge(ctx context.Context, code string, input badgeDto.UpdateBadgeInput) (*entity.Badge, error) {
	badge, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("badge not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if input.Name != nil {
		badge.Name = *input.Name
	}
	if input.Description != nil {
		badge.Description = *input.Description
	}
	if input.Rarity != nil {
		badge.Rarity = *input.Rarity
	}
	if input.Points != nil {
		badge.Points = *input.Points
	}
	if input.IconURL != nil {
		badge.IconURL = *input.IconURL
	}
	if input.IsActive != nil {
		badge.IsActive = *input.IsActive
	}
	if input.Criteria != nil {
		badge.Criteria = *input.Criteria
	}

	if err := s.repo.Update(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}
