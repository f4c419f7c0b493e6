package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/app/services"
	"github.com/thankiuday/dreamlink/internal/middleware"
)

// SupervisionController exposes the reconciled conversation partner view
// that parents and staff use to supervise a student's messaging.
type SupervisionController struct {
	partnerService services.PartnerService
}

// NewSupervisionController creates a new SupervisionController
func NewSupervisionController(partnerService services.PartnerService) *SupervisionController {
	return &SupervisionController{
		partnerService: partnerService,
	}
}

// GetPartners godoc
// @Summary List a user's conversation partners
// @Description Reconcile the subject's conversation partners across friendships, room co-membership, the local message log, and the messaging provider. Callers may view themselves; parents their own children; faculty and admins anyone.
// @Tags supervision
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Subject user ID"
// @Success 200 {object} dto.APIResponse{data=dto.PartnerListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Caller may not view this subject"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Subject not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /supervision/partners/{userId} [get]
func (c *SupervisionController) GetPartners(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	subjectID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid user ID")))
		return
	}

	partners, err := c.partnerService.ListPartners(ctx.Request.Context(), callerID, currentRole(ctx), subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(partners))
}

// GetChildren godoc
// @Summary List the caller's supervised children
// @Description Return the accounts that name the caller as their parent. A caller with no children gets an empty list.
// @Tags supervision
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /supervision/children [get]
func (c *SupervisionController) GetChildren(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	children, err := c.partnerService.ListChildren(ctx.Request.Context(), callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(children))
}
