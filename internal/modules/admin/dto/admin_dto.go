package dto

import (
	"kelana.id/travelapp/internal/entity"
	commonDto "kelana.id/travelapp/pkg/dto"
)

type PaginatedUsersResponse struct {
	Data []*entity.User           `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
