package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	Username    *string `form:"username" json:"username"`
	Password    *string `form:"password" json:"password"`
	DisplayName *string `form:"display_name" json:"display_name" binding:"omitempty,max=100"`
	HomeCountry *string `form:"home_country" json:"home_country" binding:"omitempty,len=2"`
	Bio         *string `form:"bio" json:"bio"`
}

type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	HomeCountry *string   `json:"home_country,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	TotalPoints int       `json:"total_points"`
	BadgeCount  int64     `json:"badge_count"`
	MemberSince time.Time `json:"member_since"`
}
