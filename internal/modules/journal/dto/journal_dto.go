package dto

import "time"

type CreateEntryRequest struct {
	TripID    string     `json:"trip_id" binding:"required,uuid"`
	Title     string     `json:"title" binding:"required,max=150"`
	Content   string     `json:"content" binding:"required"`
	EntryDate *time.Time `json:"entry_date"`
	PhotoIDs  []uint     `json:"photo_ids"`
}

type UpdateEntryRequest struct {
	Title     *string    `json:"title" binding:"omitempty,max=150"`
	Content   *string    `json:"content"`
	EntryDate *time.Time `json:"entry_date"`
	PhotoIDs  []uint     `json:"photo_ids"`
}

type UploadPhotoInput struct {
	Caption string `form:"caption" binding:"omitempty,max=255"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required,max=1000"`
}

type LikeResponse struct {
	PhotoID   uint  `json:"photo_id"`
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
