package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	badgeService "kelana.id/travelapp/internal/modules/badge/service"
	searchService "kelana.id/travelapp/internal/modules/search/service"
	"kelana.id/travelapp/internal/modules/trip/dto"
	"kelana.id/travelapp/internal/modules/trip/repository"
	"kelana.id/travelapp/pkg/apperror"
	commonDto "kelana.id/travelapp/pkg/dto"
)

type TripService interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, input dto.CreateTripRequest) (*entity.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*entity.Trip, error)
	GetUserTrips(ctx context.Context, userID uuid.UUID, filter dto.TripFilter) (*dto.PaginatedTripResponse, error)
	GetPublicTrips(ctx context.Context, page, limit int) (*dto.PaginatedTripResponse, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID, input dto.UpdateTripRequest) (*entity.Trip, error)
	CompleteTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Trip, error)
	UpdateVisibility(ctx context.Context, id uuid.UUID, userID uuid.UUID, visibility string) (*entity.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	SearchTrips(ctx context.Context, filter dto.SearchFilter) ([]searchService.TripDoc, error)
}

type tripService struct {
	repo   repository.TripRepository
	badges badgeService.BadgeService
	search searchService.SearchService
	views  ViewService
}

func NewTripService(repo repository.TripRepository, badges badgeService.BadgeService, search searchService.SearchService, views ViewService) TripService {
	return &tripService{
		repo:   repo,
		badges: badges,
		search: search,
		views:  views,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, userID uuid.UUID, input dto.CreateTripRequest) (*entity.Trip, error) {
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("end date cannot be before start date: %w", apperror.ErrBadRequest)
	}

	trip := &entity.Trip{
		UserID:          userID,
		Title:           input.Title,
		Description:     input.Description,
		Status:          entity.TripStatusDraft,
		Visibility:      entity.TripVisibilityPrivate,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		EstimatedBudget: input.EstimatedBudget,
	}

	if input.Destination != nil {
		dest, err := s.resolveDestination(ctx, input.Destination)
		if err != nil {
			return nil, err
		}
		trip.DestinationID = &dest.ID
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, trip.ID)
}

func (s *tripService) GetTrip(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*entity.Trip, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	// Private trips are only visible to their owner.
	if trip.Visibility != entity.TripVisibilityPublic && trip.UserID != requesterID {
		return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
	}

	// Only count views from other users, and only on public trips.
	if trip.Visibility == entity.TripVisibilityPublic && requesterID != uuid.Nil && requesterID != trip.UserID {
		if err := s.views.IncrementView(ctx, trip.ID, requesterID); err != nil {
			log.Printf("failed to record view for trip %s: %v", trip.ID, err)
		}
	}

	return trip, nil
}

func (s *tripService) GetUserTrips(ctx context.Context, userID uuid.UUID, filter dto.TripFilter) (*dto.PaginatedTripResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	trips, total, err := s.repo.FindByUser(ctx, userID, filter.Status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedTripResponse{
		Data: trips,
		Meta: commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *tripService) GetPublicTrips(ctx context.Context, page, limit int) (*dto.PaginatedTripResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	trips, total, err := s.repo.FindPublic(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedTripResponse{
		Data: trips,
		Meta: commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *tripService) UpdateTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID, input dto.UpdateTripRequest) (*entity.Trip, error) {
	trip, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		trip.Title = *input.Title
	}
	if input.Description != nil {
		trip.Description = *input.Description
	}
	if input.StartDate != nil {
		trip.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		trip.EndDate = input.EndDate
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return nil, fmt.Errorf("end date cannot be before start date: %w", apperror.ErrBadRequest)
	}
	if input.EstimatedBudget != nil {
		trip.EstimatedBudget = *input.EstimatedBudget
	}
	if input.Status != nil {
		// A completed trip never goes back to draft or ongoing.
		if trip.Status == entity.TripStatusCompleted {
			return nil, fmt.Errorf("a completed trip cannot change status: %w", apperror.ErrBadRequest)
		}
		trip.Status = *input.Status
	}
	if input.Destination != nil {
		dest, err := s.resolveDestination(ctx, input.Destination)
		if err != nil {
			return nil, err
		}
		trip.DestinationID = &dest.ID
	}

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	trip, err = s.repo.FindByID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	s.reindex(trip)
	return trip, nil
}

// CompleteTrip marks the trip completed and kicks off a badge evaluation,
// since completed trip counts and budget outcomes feed several badges.
func (s *tripService) CompleteTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Trip, error) {
	trip, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if trip.Status == entity.TripStatusCompleted {
		return nil, fmt.Errorf("trip is already completed: %w", apperror.ErrBadRequest)
	}

	now := time.Now()
	trip.Status = entity.TripStatusCompleted
	trip.CompletedAt = &now

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	s.reindex(trip)
	s.badges.EvaluateAsync(userID)

	return trip, nil
}

func (s *tripService) UpdateVisibility(ctx context.Context, id uuid.UUID, userID uuid.UUID, visibility string) (*entity.Trip, error) {
	trip, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if trip.Visibility == visibility {
		return trip, nil
	}
	trip.Visibility = visibility

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if visibility == entity.TripVisibilityPublic {
		s.reindex(trip)
	} else if err := s.search.DeleteTrip(trip.ID.String()); err != nil {
		log.Printf("failed to remove trip %s from search index: %v", trip.ID, err)
	}

	// Going public affects the public trip count badges.
	s.badges.EvaluateAsync(userID)

	return trip, nil
}

func (s *tripService) DeleteTrip(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	trip, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, trip.ID); err != nil {
		return err
	}

	if err := s.search.DeleteTrip(trip.ID.String()); err != nil {
		log.Printf("failed to remove trip %s from search index: %v", trip.ID, err)
	}
	return nil
}

func (s *tripService) SearchTrips(ctx context.Context, filter dto.SearchFilter) ([]searchService.TripDoc, error) {
	limit := filter.Limit
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.search.SearchTrips(filter.Query, filter.CountryCode, limit)
}

func (s *tripService) findOwned(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Trip, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("trip not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("you can only modify your own trips: %w", apperror.ErrForbidden)
	}
	return trip, nil
}

func (s *tripService) resolveDestination(ctx context.Context, input *dto.DestinationInput) (*entity.Destination, error) {
	dest := &entity.Destination{
		Name:        input.Name,
		CountryCode: input.CountryCode,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	if err := s.repo.FindOrCreateDestination(ctx, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

func (s *tripService) reindex(trip *entity.Trip) {
	if err := s.search.IndexTrip(trip); err != nil {
		log.Printf("failed to index trip %s: %v", trip.ID, err)
	}
}
