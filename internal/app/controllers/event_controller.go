package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/services"
	"github.com/veloclub/veloclub/internal/middleware"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// EventController handles event, participation and leaderboard endpoints
type EventController struct {
	eventService       services.EventService
	leaderboardService services.LeaderboardService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, leaderboardService services.LeaderboardService) *EventController {
	return &EventController{
		eventService:       eventService,
		leaderboardService: leaderboardService,
	}
}

// GetAllEvents lists events with filters and pagination
// @Summary List events
// @Tags events
// @Produce json
// @Param status query string false "Event status"
// @Param category query string false "Category filter"
// @Param trackId query int false "Track filter"
// @Param communityId query int false "Community filter"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events retrieved"
// @Router /events [get]
func (c *EventController) GetAllEvents(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.EventFilterRequest{Page: page, PageSize: pageSize}

	if v := ctx.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := ctx.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := ctx.Query("trackId"); v != "" {
		if trackID, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.TrackID = &trackID
		}
	}
	if v := ctx.Query("communityId"); v != "" {
		if communityID, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CommunityID = &communityID
		}
	}

	resp, err := c.eventService.GetAllEvents(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetEventByID retrieves one event
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event retrieved"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.eventService.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateEvent creates an event
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.eventService.CreateEvent(ctx.Request.Context(), &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateEvent updates an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.eventService.UpdateEvent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteEvent removes an event
// @Summary Delete event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Event deleted successfully"))
}

// JoinEvent registers the caller for the event
// @Summary Join event
// @Description Registers the caller. A cancelled participation is reactivated; completed participations cannot rejoin.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationResponse} "Joined"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already joined, event full or closed"
// @Router /events/{id}/join [post]
func (c *EventController) JoinEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.eventService.JoinEvent(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CancelParticipation cancels the caller's participation
// @Summary Cancel participation
// @Description Cancels a joined participation. The reason is mandatory. Completed participations cannot be cancelled.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.CancelParticipationRequest true "Cancellation reason"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationResponse} "Cancelled"
// @Failure 404 {object} dto.ErrorResponse "Participation not found"
// @Failure 409 {object} dto.ErrorResponse "Already cancelled or completed"
// @Router /events/{id}/cancel [post]
func (c *EventController) CancelParticipation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CancelParticipationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.eventService.CancelParticipation(ctx.Request.Context(), id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SubmitResult records the caller's finish for the event
// @Summary Submit result
// @Description Records distance and elapsed time (HH:MM or HH:MM:SS) and completes the participation.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.SubmitResultRequest true "Result data"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationResponse} "Result recorded"
// @Failure 400 {object} dto.ErrorResponse "Malformed time"
// @Failure 409 {object} dto.ErrorResponse "Result already submitted"
// @Router /events/{id}/results [post]
func (c *EventController) SubmitResult(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.eventService.SubmitResult(ctx.Request.Context(), id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetEventLeaderboard returns the ranked leaderboard of an event
// @Summary Event leaderboard
// @Description Completed participations ordered by elapsed time with competition ranking; untimed entries rank last.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaderboardResponse} "Leaderboard retrieved"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/leaderboard [get]
func (c *EventController) GetEventLeaderboard(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.leaderboardService.GetEventLeaderboard(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMemberEventStatus reports the caller's participation in the event
// @Summary My event status
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.MemberEventStatusResponse} "Status retrieved"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/status [get]
func (c *EventController) GetMemberEventStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.eventService.GetMemberEventStatus(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMyParticipations lists all of the caller's participations
// @Summary My participations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MemberEventStatusResponse} "Participations retrieved"
// @Router /events/mine [get]
func (c *EventController) GetMyParticipations(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.eventService.GetUserParticipations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCalendarLink returns a prefilled Google Calendar URL for the event
// @Summary Event calendar link
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.CalendarLinkResponse} "Calendar link"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/calendar [get]
func (c *EventController) GetCalendarLink(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.eventService.GetCalendarLink(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
