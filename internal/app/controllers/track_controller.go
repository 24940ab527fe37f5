package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/services"
	"github.com/veloclub/veloclub/internal/middleware"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// TrackController handles track endpoints
type TrackController struct {
	trackService       services.TrackService
	leaderboardService services.LeaderboardService
}

// NewTrackController creates a new TrackController
func NewTrackController(trackService services.TrackService, leaderboardService services.LeaderboardService) *TrackController {
	return &TrackController{
		trackService:       trackService,
		leaderboardService: leaderboardService,
	}
}

// GetAllTracks lists tracks
// @Summary List tracks
// @Tags tracks
// @Produce json
// @Param city query string false "City filter"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.TrackListResponse} "Tracks retrieved"
// @Router /tracks [get]
func (c *TrackController) GetAllTracks(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	resp, err := c.trackService.GetAllTracks(ctx.Request.Context(), ctx.Query("city"), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetTrackByID retrieves one track
// @Summary Get track
// @Tags tracks
// @Produce json
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse{data=dto.TrackResponse} "Track retrieved"
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /tracks/{id} [get]
func (c *TrackController) GetTrackByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.trackService.GetTrackByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateTrack creates a track
// @Summary Create track
// @Tags tracks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTrackRequest true "Track data"
// @Success 201 {object} dto.APIResponse{data=dto.TrackResponse} "Track created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /tracks [post]
func (c *TrackController) CreateTrack(ctx *gin.Context) {
	var req dto.CreateTrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.trackService.CreateTrack(ctx.Request.Context(), &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateTrack updates a track
// @Summary Update track
// @Tags tracks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Param request body dto.UpdateTrackRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TrackResponse} "Track updated"
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /tracks/{id} [put]
func (c *TrackController) UpdateTrack(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.trackService.UpdateTrack(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteTrack removes a track
// @Summary Delete track
// @Tags tracks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse "Track deleted"
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /tracks/{id} [delete]
func (c *TrackController) DeleteTrack(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.trackService.DeleteTrack(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Track deleted successfully"))
}

// GetTrackLeaderboard returns the ranked leaderboard across all events on
// the track
// @Summary Track leaderboard
// @Tags tracks
// @Produce json
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaderboardResponse} "Leaderboard retrieved"
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /tracks/{id}/leaderboard [get]
func (c *TrackController) GetTrackLeaderboard(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.leaderboardService.GetTrackLeaderboard(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
