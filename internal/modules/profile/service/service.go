package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/entity"
	badgeRepo "kelana.id/travelapp/internal/modules/badge/repository"
	profileDto "kelana.id/travelapp/internal/modules/profile/dto"
	userRepo "kelana.id/travelapp/internal/modules/user/repository"
	"kelana.id/travelapp/pkg/apperror"
	commonDto "kelana.id/travelapp/pkg/dto"
	"kelana.id/travelapp/pkg/storage"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.UploadFile) (*profileDto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error)
	GetCurrentProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	imageStorage storage.ImageStorage
	badgeRepo    badgeRepo.BadgeRepository
}

func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, badgeRepo badgeRepo.BadgeRepository) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		badgeRepo:    badgeRepo,
	}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.UploadFile) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
	}

	if input.Username != nil && *input.Username != "" && *input.Username != user.Username {
		sanitizedUsername := strings.ReplaceAll(*input.Username, " ", "_")
		if len(sanitizedUsername) < 3 {
			return nil, fmt.Errorf("username minimal 3 karakter: %w", apperror.ErrBadRequest)
		}
		if len(sanitizedUsername) > 50 {
			return nil, fmt.Errorf("username maksimal 50 karakter: %w", apperror.ErrBadRequest)
		}
		if _, err := s.repo.FindByUsername(ctx, sanitizedUsername); err == nil {
			return nil, fmt.Errorf("username already taken: %w", apperror.ErrBadRequest)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = sanitizedUsername
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, fmt.Errorf("password minimal 8 karakter: %w", apperror.ErrBadRequest)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	var profile *entity.Profile
	if user.Profile != nil {
		profile = user.Profile
		if input.DisplayName != nil && *input.DisplayName != "" {
			profile.DisplayName = *input.DisplayName
		}
		if input.HomeCountry != nil {
			upper := strings.ToUpper(*input.HomeCountry)
			profile.HomeCountry = &upper
		}
		if input.Bio != nil {
			profile.Bio = normalizeOptional(input.Bio)
		}
	}

	if err := s.repo.Update(ctx, user, profile); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, updated, true), nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return s.buildResponse(ctx, user, false), nil
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return s.buildResponse(ctx, user, true), nil
}

func (s *profileService) buildResponse(ctx context.Context, user *entity.User, includeEmail bool) *profileDto.ProfileResponse {
	resp := &profileDto.ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		AvatarURL:   user.AvatarURL,
		TotalPoints: user.TotalPoints,
		MemberSince: user.CreatedAt,
	}
	if includeEmail {
		resp.Email = user.Email
	}
	if user.Profile != nil {
		resp.DisplayName = user.Profile.DisplayName
		resp.HomeCountry = user.Profile.HomeCountry
		resp.Bio = user.Profile.Bio
	}

	count, err := s.badgeRepo.CountEarned(ctx, user.ID)
	if err != nil {
		log.Printf("failed to count badges for user %s: %v", user.ID, err)
	}
	resp.BadgeCount = count

	return resp
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
