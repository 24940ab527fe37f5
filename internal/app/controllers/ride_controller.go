package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/app/services"
	"github.com/veloclub/veloclub/internal/middleware"
	"github.com/veloclub/veloclub/internal/pkg/helpers"
)

// RideController handles community ride endpoints
type RideController struct {
	rideService services.RideService
}

// NewRideController creates a new RideController
func NewRideController(rideService services.RideService) *RideController {
	return &RideController{rideService: rideService}
}

// GetAllRides lists rides
// @Summary List rides
// @Tags rides
// @Produce json
// @Param status query string false "Ride status"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.RideListResponse} "Rides retrieved"
// @Router /rides [get]
func (c *RideController) GetAllRides(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.RideFilterRequest{Page: page, PageSize: pageSize}
	if v := ctx.Query("status"); v != "" {
		filter.Status = &v
	}

	resp, err := c.rideService.GetAllRides(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetRideByID retrieves one ride
// @Summary Get ride
// @Tags rides
// @Produce json
// @Param id path int true "Ride ID"
// @Success 200 {object} dto.APIResponse{data=dto.RideResponse} "Ride retrieved"
// @Failure 404 {object} dto.ErrorResponse "Ride not found"
// @Router /rides/{id} [get]
func (c *RideController) GetRideByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.rideService.GetRideByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateRide creates a ride
// @Summary Create ride
// @Tags rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRideRequest true "Ride data"
// @Success 201 {object} dto.APIResponse{data=dto.RideResponse} "Ride created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /rides [post]
func (c *RideController) CreateRide(ctx *gin.Context) {
	var req dto.CreateRideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.rideService.CreateRide(ctx.Request.Context(), &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateRide updates a ride
// @Summary Update ride
// @Tags rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ride ID"
// @Param request body dto.UpdateRideRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.RideResponse} "Ride updated"
// @Failure 404 {object} dto.ErrorResponse "Ride not found"
// @Router /rides/{id} [put]
func (c *RideController) UpdateRide(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.rideService.UpdateRide(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteRide removes a ride
// @Summary Delete ride
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ride ID"
// @Success 200 {object} dto.APIResponse "Ride deleted"
// @Failure 404 {object} dto.ErrorResponse "Ride not found"
// @Router /rides/{id} [delete]
func (c *RideController) DeleteRide(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.rideService.DeleteRide(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Ride deleted successfully"))
}
