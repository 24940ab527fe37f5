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

// CommunityController handles community and membership endpoints
type CommunityController struct {
	communityService  services.CommunityService
	membershipService services.MembershipService
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService services.CommunityService, membershipService services.MembershipService) *CommunityController {
	return &CommunityController{
		communityService:  communityService,
		membershipService: membershipService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")))
		return 0, false
	}
	return id, true
}

func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return 0, false
	}
	return userID, true
}

// GetAllCommunities lists communities with filters and pagination
// @Summary List communities
// @Tags communities
// @Produce json
// @Param type query string false "Community type"
// @Param location query string false "Location filter"
// @Param category query string false "Category filter"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.CommunityListResponse} "Communities retrieved"
// @Router /communities [get]
func (c *CommunityController) GetAllCommunities(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.CommunityFilterRequest{Page: page, PageSize: pageSize}

	if v := ctx.Query("type"); v != "" {
		filter.Type = &v
	}
	if v := ctx.Query("location"); v != "" {
		filter.Location = &v
	}
	if v := ctx.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := ctx.Query("search"); v != "" {
		filter.Search = &v
	}

	resp, err := c.communityService.GetAllCommunities(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCommunityByID retrieves one community
// @Summary Get community
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Community retrieved"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [get]
func (c *CommunityController) GetCommunityByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.communityService.GetCommunityByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateCommunity creates a community
// @Summary Create community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "Community data"
// @Success 201 {object} dto.APIResponse{data=dto.CommunityResponse} "Community created"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	var req dto.CreateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.communityService.CreateCommunity(ctx.Request.Context(), &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateCommunity updates a community
// @Summary Update community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.UpdateCommunityRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse} "Community updated"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [put]
func (c *CommunityController) UpdateCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.communityService.UpdateCommunity(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteCommunity soft-deletes a community
// @Summary Delete community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse "Community deleted"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id} [delete]
func (c *CommunityController) DeleteCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.communityService.DeleteCommunity(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Community deleted successfully"))
}

// ToggleMembership joins or leaves the community for the caller
// @Summary Toggle membership
// @Description Joins the community, or leaves it when the caller is already an active member. Banned members are rejected.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Membership toggled"
// @Failure 403 {object} dto.ErrorResponse "Member is banned"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/membership [post]
func (c *CommunityController) ToggleMembership(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.ToggleMembership(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// LeaveCommunity explicitly leaves the community
// @Summary Leave community
// @Description Deactivates the caller's membership. Idempotent for existing members.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveCommunityResponse} "Membership deactivated"
// @Failure 403 {object} dto.ErrorResponse "Member is banned"
// @Failure 404 {object} dto.ErrorResponse "Community or membership not found"
// @Router /communities/{id}/membership [delete]
func (c *CommunityController) LeaveCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.LeaveCommunity(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMembershipStatus reports whether the caller is an active member
// @Summary Check membership
// @Description Returns whether the caller currently holds an active membership in the community.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.IsMemberResponse} "Membership status retrieved"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/membership [get]
func (c *CommunityController) GetMembershipStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.IsMember(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMembers lists the community's active members
// @Summary List community members
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.MemberListResponse} "Members retrieved"
// @Failure 404 {object} dto.ErrorResponse "Community not found"
// @Router /communities/{id}/members [get]
func (c *CommunityController) GetMembers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	resp, err := c.membershipService.GetMembers(ctx.Request.Context(), id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetBannedMembers lists the community's banned members
// @Summary List banned members
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.MemberListResponse} "Banned members retrieved"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /communities/{id}/members/banned [get]
func (c *CommunityController) GetBannedMembers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	resp, err := c.membershipService.GetBannedMembers(ctx.Request.Context(), id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// BanMember bans a community member
// @Summary Ban member
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Member banned"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Membership not found"
// @Router /communities/{id}/members/{userId}/ban [post]
func (c *CommunityController) BanMember(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	actorID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.BanMember(ctx.Request.Context(), id, userID, actorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UnbanMember lifts a member's ban
// @Summary Unban member
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "Member unbanned"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Membership not found"
// @Router /communities/{id}/members/{userId}/unban [post]
func (c *CommunityController) UnbanMember(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	actorID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.UnbanMember(ctx.Request.Context(), id, userID, actorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetMyCommunities lists the caller's active community memberships
// @Summary My communities
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityResponse} "Communities retrieved"
// @Router /communities/mine [get]
func (c *CommunityController) GetMyCommunities(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.membershipService.GetUserCommunities(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
