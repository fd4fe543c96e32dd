package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	badgeDto "kelana.id/travelapp/internal/modules/badge/dto"
	badge "kelana.id/travelapp/internal/modules/badge/service"
	"kelana.id/travelapp/pkg/response"
	"kelana.id/travelapp/pkg/validator"
)

type BadgeHandler struct {
	service badge.BadgeService
}

func NewBadgeHandler(service badge.BadgeService) *BadgeHandler {
	return &BadgeHandler{service: service}
}

func (h *BadgeHandler) GetCatalog(c *gin.Context) {
	badges, err := h.service.GetCatalog(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": badges})
}

func (h *BadgeHandler) GetMyBadges(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	earned, err := h.service.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": earned})
}

func (h *BadgeHandler) GetMyBadgeStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.GetUserBadgeStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// TriggerEvaluation runs a synchronous evaluation pass for the caller.
// Normal flows rely on the async trigger after trip and journal actions;
// this endpoint exists so a client can reconcile on demand.
func (h *BadgeHandler) TriggerEvaluation(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Evaluate(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	earned, err := h.service.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": earned})
}

func (h *BadgeHandler) CreateBadge(c *gin.Context) {
	var input badgeDto.CreateBadgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.CreateBadge(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BadgeHandler) UpdateBadge(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "badge code is required"})
		return
	}

	var input badgeDto.UpdateBadgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.UpdateBadge(c.Request.Context(), code, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
