package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/app/services"
	"github.com/thankiuday/dreamlink/internal/middleware"
)

// maxUploadSize caps room file attachments at 25 MB.
const maxUploadSize = 25 << 20

// MessageController handles message fan-out and message log operations
type MessageController struct {
	deliveryService services.DeliveryService
	messageService  services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(deliveryService services.DeliveryService, messageService services.MessageService) *MessageController {
	return &MessageController{
		deliveryService: deliveryService,
		messageService:  messageService,
	}
}

// SendToRoom godoc
// @Summary Send a message to a room
// @Description Fan a text message out to the room's members, or to a single member via targetId. Room owner only. Returns a per-recipient delivery report.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.APIResponse{data=dto.DeliveryReport}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Caller does not own the room"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Room or target not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /rooms/{id}/messages [post]
func (c *MessageController) SendToRoom(ctx *gin.Context) {
	userID, roomID, ok := c.callerAndRoom(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Message content is required").WithDetails(err.Error())))
		return
	}

	report, err := c.deliveryService.SendToRoom(ctx.Request.Context(), userID, roomID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// SendFileToRoom godoc
// @Summary Send a file to a room
// @Description Upload a file once and fan its link out to the room's members. Room owner only.
// @Tags messages
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param file formData file true "File to share"
// @Param targetId formData int false "Deliver to this member only"
// @Success 200 {object} dto.APIResponse{data=dto.DeliveryReport}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Caller does not own the room"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Room or target not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /rooms/{id}/files [post]
func (c *MessageController) SendFileToRoom(ctx *gin.Context) {
	userID, roomID, ok := c.callerAndRoom(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required")))
		return
	}
	if fileHeader.Size > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "File exceeds the maximum allowed size")))
		return
	}

	var targetID *int64
	if targetStr := ctx.PostForm("targetId"); targetStr != "" {
		target, err := strconv.ParseInt(targetStr, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid target ID")))
			return
		}
		targetID = &target
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Could not read uploaded file")))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	report, err := c.deliveryService.SendFileToRoom(ctx.Request.Context(), userID, roomID, targetID, file, fileHeader.Filename, contentType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// StartCall godoc
// @Summary Start a video call
// @Description Mint a join URL for a room video call and fan the invitation out. Room owner only.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param request body dto.StartCallRequest false "Optional target"
// @Success 200 {object} dto.APIResponse{data=dto.DeliveryReport}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail} "Caller does not own the room"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Room or target not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /rooms/{id}/call [post]
func (c *MessageController) StartCall(ctx *gin.Context) {
	userID, roomID, ok := c.callerAndRoom(ctx)
	if !ok {
		return
	}

	var req dto.StartCallRequest
	// Body is optional for whole-room calls
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid call request").WithDetails(err.Error())))
		return
	}

	report, err := c.deliveryService.StartCall(ctx.Request.Context(), userID, roomID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// GetConversation godoc
// @Summary Get a conversation
// @Description Retrieve the caller's message history with another user from the local log, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Param before query string false "Only messages before this timestamp (RFC3339)"
// @Param limit query int false "Maximum number of messages (default: 50)" default(50)
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "User not found"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages/conversations/{userId} [get]
func (c *MessageController) GetConversation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	otherID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid user ID")))
		return
	}

	var before *time.Time
	if beforeStr := ctx.Query("before"); beforeStr != "" {
		beforeTime, err := time.Parse(time.RFC3339, beforeStr)
		if err == nil {
			before = &beforeTime
		}
	}

	limit := 0
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
	}

	messages, err := c.messageService.GetConversation(ctx.Request.Context(), userID, otherID, before, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// MarkRead godoc
// @Summary Mark a message as read
// @Description Mark a message in the local log as read. Recipient only.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Message not found or not addressed to caller"
// @Failure 500 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /messages/{id}/read [post]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	messageID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid message ID")))
		return
	}

	if err := c.messageService.MarkRead(ctx.Request.Context(), userID, messageID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"read": true}))
}

// callerAndRoom reads the authenticated caller and the :id room path param.
func (c *MessageController) callerAndRoom(ctx *gin.Context) (userID, roomID int64, ok bool) {
	userID, ok = currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return 0, 0, false
	}

	roomID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid room ID")))
		return 0, 0, false
	}

	return userID, roomID, true
}
