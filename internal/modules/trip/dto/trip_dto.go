package dto

import (
	"time"

	"kelana.id/travelapp/internal/entity"
	commonDto "kelana.id/travelapp/pkg/dto"
)

type DestinationInput struct {
	Name        string   `json:"name" binding:"required,max=150"`
	CountryCode string   `json:"country_code" binding:"required,len=2"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type CreateTripRequest struct {
	Title           string            `json:"title" binding:"required,max=150"`
	Description     string            `json:"description"`
	StartDate       *time.Time        `json:"start_date"`
	EndDate         *time.Time        `json:"end_date"`
	EstimatedBudget float64           `json:"estimated_budget" binding:"omitempty,min=0"`
	Destination     *DestinationInput `json:"destination"`
}

type UpdateTripRequest struct {
	Title           *string           `json:"title" binding:"omitempty,max=150"`
	Description     *string           `json:"description"`
	StartDate       *time.Time        `json:"start_date"`
	EndDate         *time.Time        `json:"end_date"`
	EstimatedBudget *float64          `json:"estimated_budget" binding:"omitempty,min=0"`
	Status          *string           `json:"status" binding:"omitempty,oneof=draft ongoing"`
	Destination     *DestinationInput `json:"destination"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=public private"`
}

type TripFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=draft ongoing completed"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SearchFilter struct {
	Query       string `form:"q"`
	CountryCode string `form:"country" binding:"omitempty,len=2"`
	Limit       int64  `form:"limit" binding:"omitempty,min=1,max=50"`
}

type PaginatedTripResponse struct {
	Data []entity.Trip            `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
