package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/veloclub/veloclub/internal/app/controllers"
	"github.com/veloclub/veloclub/internal/app/models/dto"
	"github.com/veloclub/veloclub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	communityController *controllers.CommunityController,
	eventController *controllers.EventController,
	trackController *controllers.TrackController,
	rideController *controllers.RideController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/verify", authController.VerifyIdentity)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/guest-session", authController.CreateGuestSession)

		// Register is only reachable with a registration grant issued by /verify
		authGrant := auth.Group("")
		authGrant.Use(authMiddleware.RegistrationGrant())
		{
			authGrant.POST("/register", authController.Register)
		}
	}

	// --- Public read routes ---
	communities := v1.Group("/communities")
	{
		communities.GET("", communityController.GetAllCommunities)
		communities.GET("/:id", communityController.GetCommunityByID)
		communities.GET("/:id/members", communityController.GetMembers)
	}

	events := v1.Group("/events")
	{
		events.GET("", eventController.GetAllEvents)
		events.GET("/:id", eventController.GetEventByID)
		events.GET("/:id/leaderboard", eventController.GetEventLeaderboard)
		events.GET("/:id/calendar", eventController.GetCalendarLink)
	}

	tracks := v1.Group("/tracks")
	{
		tracks.GET("", trackController.GetAllTracks)
		tracks.GET("/:id", trackController.GetTrackByID)
		tracks.GET("/:id/leaderboard", trackController.GetTrackLeaderboard)
	}

	rides := v1.Group("/rides")
	{
		rides.GET("", rideController.GetAllRides)
		rides.GET("/:id", rideController.GetRideByID)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetCurrentUser)

		// Community membership
		communitiesAuth := authenticated.Group("/communities")
		{
			communitiesAuth.GET("/mine", communityController.GetMyCommunities)
			communitiesAuth.POST("/:id/membership", communityController.ToggleMembership)
			communitiesAuth.DELETE("/:id/membership", communityController.LeaveCommunity)
			communitiesAuth.GET("/:id/membership", communityController.GetMembershipStatus)

			// Moderation routes restricted to admins and vendors
			communitiesModerator := communitiesAuth.Group("")
			communitiesModerator.Use(authMiddleware.ModeratorRequired())
			{
				communitiesModerator.GET("/:id/members/banned", communityController.GetBannedMembers)
				communitiesModerator.POST("/:id/members/:userId/ban", communityController.BanMember)
				communitiesModerator.POST("/:id/members/:userId/unban", communityController.UnbanMember)
			}

			// Content management restricted to admins
			communitiesManager := communitiesAuth.Group("")
			communitiesManager.Use(authMiddleware.ContentManagerRequired())
			{
				communitiesManager.POST("", communityController.CreateCommunity)
				communitiesManager.PUT("/:id", communityController.UpdateCommunity)
				communitiesManager.DELETE("/:id", communityController.DeleteCommunity)
			}
		}

		// Event participation
		eventsAuth := authenticated.Group("/events")
		{
			eventsAuth.GET("/mine", eventController.GetMyParticipations)
			eventsAuth.POST("/:id/join", eventController.JoinEvent)
			eventsAuth.POST("/:id/cancel", eventController.CancelParticipation)
			eventsAuth.POST("/:id/results", eventController.SubmitResult)
			eventsAuth.GET("/:id/status", eventController.GetMemberEventStatus)

			eventsManager := eventsAuth.Group("")
			eventsManager.Use(authMiddleware.ContentManagerRequired())
			{
				eventsManager.POST("", eventController.CreateEvent)
				eventsManager.PUT("/:id", eventController.UpdateEvent)
				eventsManager.DELETE("/:id", eventController.DeleteEvent)
			}
		}

		// Track management
		tracksManager := authenticated.Group("/tracks")
		tracksManager.Use(authMiddleware.ContentManagerRequired())
		{
			tracksManager.POST("", trackController.CreateTrack)
			tracksManager.PUT("/:id", trackController.UpdateTrack)
			tracksManager.DELETE("/:id", trackController.DeleteTrack)
		}

		// Ride management
		ridesManager := authenticated.Group("/rides")
		ridesManager.Use(authMiddleware.ContentManagerRequired())
		{
			ridesManager.POST("", rideController.CreateRide)
			ridesManager.PUT("/:id", rideController.UpdateRide)
			ridesManager.DELETE("/:id", rideController.DeleteRide)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
