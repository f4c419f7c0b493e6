package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/app/services"
	"github.com/thankiuday/dreamlink/internal/middleware"
)

// FriendController handles friendship and account link operations
type FriendController struct {
	friendService services.FriendService
}

// NewFriendController creates a new FriendController
func NewFriendController(friendService services.FriendService) *FriendController {
	return &FriendController{
		friendService: friendService,
	}
}

type addFriendRequest struct {
	UserID int64 `json:"userId" binding:"required" example:"12"`
}

type linkAccountsRequest struct {
	UserID  int64 `json:"userId" binding:"required" example:"12"`
	OtherID int64 `json:"otherId" binding:"required" example:"34"`
}

// AddFriend godoc
// @Summary Add a friend
// @Description Record a mutual friendship between the caller and another user
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body addFriendRequest true "Friend to add"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "User not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail} "Already friends"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /friends [post]
func (c *FriendController) AddFriend(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req addFriendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Friend user ID is required").WithField("userId")))
		return
	}

	if err := c.friendService.AddFriend(ctx.Request.Context(), userID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"added": true}))
}

// GetFriends godoc
// @Summary List my friends
// @Description List the caller's friends with display data
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /friends [get]
func (c *FriendController) GetFriends(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	friends, err := c.friendService.GetFriends(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(friends))
}

// LinkAccounts godoc
// @Summary Link two accounts
// @Description Record a verified account link between two users. Admin only.
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body linkAccountsRequest true "Accounts to link"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Admin only"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "User not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /friends/links [post]
func (c *FriendController) LinkAccounts(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req linkAccountsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Both user IDs are required")))
		return
	}

	if err := c.friendService.LinkAccounts(ctx.Request.Context(), currentRole(ctx), req.UserID, req.OtherID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(gin.H{"linked": true}))
}
