package routes

import (
	"strings"
	"time"

	"coursehub/handlers"
	"coursehub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterPublicRoutes registers endpoints that need no session.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/leads", hb.Catalog.CaptureLeadHandler)
		api.GET("/legal", hb.Admin.LegalHandler)
		api.GET("/courses", hb.Catalog.ListCoursesHandler)
		// Owners and admins see lesson videos and drafts.
		api.GET("/courses/:slug", middleware.OptionalJWTAuthMiddleware(hb.UserRepo, hb.AuthCache), hb.Catalog.GetCourseHandler)
		api.POST("/webhooks/stripe", hb.Checkout.StripeWebhookHandler)
	}
}

// RegisterAuthRoutes registers registration, login and password reset.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.User.RegisterHandler)
		api.POST("/login", hb.User.LoginHandler)
		api.POST("/forgot-password", hb.User.ForgotPasswordHandler)
		api.POST("/reset-password", hb.User.ResetPasswordHandler)

		api.POST("/logout", middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache), hb.User.LogoutHandler)
	}
}

// RegisterMemberRoutes registers everything a signed-in student can do.
func RegisterMemberRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache))
	{
		api.GET("/me", hb.User.GetProfileHandler)
		api.PATCH("/me", hb.User.UpdateProfileHandler)
		api.PUT("/me/password", hb.User.ChangePasswordHandler)
		api.PUT("/me/fcm-token", hb.User.UpdateFCMTokenHandler)
		api.GET("/me/registrations", hb.Events.MyRegistrationsHandler)

		api.GET("/lessons/:id", hb.Catalog.GetLessonHandler)

		api.POST("/checkout", hb.Checkout.CreateCheckoutHandler)
		api.GET("/purchases", hb.Checkout.ListPurchasesHandler)
		api.GET("/purchases/:id", hb.Checkout.GetPurchaseHandler)

		progress := api.Group("/progress")
		progress.PUT("/lessons/:id", hb.Progress.RecordProgressHandler)
		progress.POST("/lessons/:id/complete", hb.Progress.MarkCompleteHandler)
		progress.GET("/lessons/:id", hb.Progress.GetLessonProgressHandler)
		progress.GET("/courses/:id", hb.Progress.GetCourseProgressHandler)

		community := api.Group("/community")
		community.GET("/posts", hb.Community.ListFeedHandler)
		community.POST("/posts", hb.Community.CreatePostHandler)
		community.GET("/posts/:id", hb.Community.GetPostHandler)
		community.DELETE("/posts/:id", hb.Community.DeletePostHandler)
		community.POST("/posts/:id/like", hb.Community.ToggleLikeHandler)
		community.GET("/posts/:id/comments", hb.Community.ListCommentsHandler)
		community.POST("/posts/:id/comments", hb.Community.AddCommentHandler)
		community.DELETE("/comments/:id", hb.Community.DeleteCommentHandler)

		api.GET("/events", hb.Events.ListEventsHandler)
		api.GET("/events/:id", hb.Events.GetEventHandler)
		api.POST("/events/:id/registration", hb.Events.RegisterHandler)
		api.DELETE("/events/:id/registration", hb.Events.UnregisterHandler)

		api.POST("/files", hb.Storage.UploadFileHandler)
		api.GET("/files", hb.Storage.ListFilesHandler)
		api.GET("/files/:id/download", hb.Storage.DownloadFileHandler)
		api.DELETE("/files/:id", hb.Storage.DeleteFileHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache), middleware.JWTAuthAdminMiddleware())
	{
		adminGroup.GET("/stats", hb.Admin.StatsHandler)

		adminGroup.GET("/users", hb.User.ListUsersHandler)
		adminGroup.PUT("/users/:id/role", hb.User.SetRoleHandler)

		adminGroup.GET("/purchases", hb.Checkout.ListAllPurchasesHandler)

		adminGroup.GET("/courses", hb.Catalog.ListAllCoursesHandler)
		adminGroup.POST("/courses", hb.Catalog.CreateCourseHandler)
		adminGroup.PUT("/courses/:id", hb.Catalog.UpdateCourseHandler)
		adminGroup.POST("/lessons", hb.Catalog.CreateLessonHandler)
		adminGroup.PUT("/lessons/:id", hb.Catalog.UpdateLessonHandler)
		adminGroup.DELETE("/lessons/:id", hb.Catalog.DeleteLessonHandler)

		adminGroup.POST("/events", hb.Events.CreateEventHandler)
		adminGroup.PUT("/events/:id", hb.Events.UpdateEventHandler)
		adminGroup.DELETE("/events/:id", hb.Events.DeleteEventHandler)
	}
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range strings.Split(frontendURL, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, strings.TrimSuffix(origin, "/"))
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig(hb.FrontendURL)))
	r.Use(middleware.LocaleMiddleware())
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterMemberRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
