package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/thankiuday/dreamlink/internal/app/controllers"
	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	roomController *controllers.RoomController,
	messageController *controllers.MessageController,
	friendController *controllers.FriendController,
	supervisionController *controllers.SupervisionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Room lifecycle
		rooms := authenticated.Group("/rooms")
		{
			rooms.GET("", roomController.GetMyRooms)
			rooms.POST("/join", roomController.JoinRoom)
			rooms.GET("/:id/members", roomController.GetRoomMembers)

			// Room creation is faculty territory; ownership checks on the
			// remaining operations live in the services
			roomsFacultyProtected := rooms.Group("")
			roomsFacultyProtected.Use(authMiddleware.RoleRequired(string(models.RoleFaculty), string(models.RoleAdmin)))
			{
				roomsFacultyProtected.POST("", roomController.CreateRoom)
				roomsFacultyProtected.DELETE("/:id", roomController.DeleteRoom)
			}

			rooms.POST("/:id/leave", roomController.LeaveRoom)

			// Fan-out delivery (owner-only, enforced by the delivery engine)
			rooms.POST("/:id/messages", messageController.SendToRoom)
			rooms.POST("/:id/files", messageController.SendFileToRoom)
			rooms.POST("/:id/call", messageController.StartCall)
		}

		// Local message log
		messages := authenticated.Group("/messages")
		{
			messages.GET("/conversations/:userId", messageController.GetConversation)
			messages.POST("/:id/read", messageController.MarkRead)
		}

		// Friendships and verified account links
		friends := authenticated.Group("/friends")
		{
			friends.GET("", friendController.GetFriends)
			friends.POST("", friendController.AddFriend)

			friendsAdminProtected := friends.Group("")
			friendsAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				friendsAdminProtected.POST("/links", friendController.LinkAccounts)
			}
		}

		// Supervision: reconciled conversation partner view
		supervision := authenticated.Group("/supervision")
		{
			supervision.GET("/partners/:userId", supervisionController.GetPartners)
			supervision.GET("/children", supervisionController.GetChildren)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
