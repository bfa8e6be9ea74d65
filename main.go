package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/config"
	"coursehub/cron"
	"coursehub/database"
	"coursehub/database/repository"
	"coursehub/handlers"
	"coursehub/middleware"
	"coursehub/routes"
	"coursehub/services/admin"
	"coursehub/services/catalog"
	"coursehub/services/checkout"
	"coursehub/services/community"
	"coursehub/services/events"
	"coursehub/services/files"
	"coursehub/services/notification"
	"coursehub/services/progress"
	"coursehub/services/storage"
	"coursehub/services/user"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()
	defer utils.CloseRedis()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	stripe.Key = cfg.StripeKey
	if cfg.StripeKey == "" {
		logger.Warn("main: STRIPE_KEY not set, paid checkouts will fail")
	}

	// repositories.
	repos := repository.NewMongoRepositories(database.Database())
	userRepo := repos.Users
	courses := repos.Courses
	purchases := repos.Purchases
	posts := repos.Community
	eventStore := repos.Events
	fileStore := repos.Files

	// notifications.
	var pusher notification.Pusher
	if err := utils.FirebaseInit(rootCtx); err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
	} else {
		pusher = notification.FCMPusher{Client: utils.FCMClient}
	}
	var mailer notification.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = notification.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress)
	} else {
		logger.Warn("main: SENDGRID_API_KEY not set, emails are only logged")
	}
	notificationService, err := notification.NewDefaultNotificationService(userRepo, pusher, mailer)
	if err != nil {
		logger.Fatal("main: notification service", zap.Error(err))
	}

	// services.
	userService := &user.DefaultUserService{
		Repo:       userRepo,
		AuthCache:  utils.GetAuthCacheClient(),
		CodeCache:  utils.GetCacheClient(),
		Notifier:   notificationService,
		AdminEmail: cfg.AdminEmail,
	}

	checkoutService := &checkout.DefaultCheckoutService{
		Purchases:   purchases,
		Courses:     courses,
		Users:       userRepo,
		Gateway:     &checkout.StripeGateway{WebhookSecret: cfg.StripeWebhookSecret},
		Notifier:    notificationService,
		FrontendURL: cfg.FrontendURL,
	}

	catalogService := &catalog.DefaultCatalogService{
		Repo:            courses,
		Leads:           repos.Leads,
		Access:          checkoutService,
		Notifier:        notificationService,
		DefaultCurrency: cfg.Currency,
	}

	progressService := &progress.DefaultProgressService{
		Repo:                repos.Progress,
		Courses:             courses,
		Access:              checkoutService,
		CompletionThreshold: cfg.CompletionThreshold,
	}

	communityService := &community.DefaultCommunityService{
		Repo:     posts,
		Users:    userRepo,
		Files:    fileStore,
		Cache:    utils.GetCacheClient(),
		Notifier: notificationService,
	}

	queueOpt := cron.RedisOpt(cfg)
	reminders := events.NewAsynqReminderScheduler(queueOpt)
	defer func() { _ = reminders.Close() }()
	eventService := &events.DefaultEventService{
		Repo:      eventStore,
		Users:     userRepo,
		Notifier:  notificationService,
		Reminders: reminders,
	}

	objectStore, err := storage.NewFromConfig(rootCtx, cfg)
	if err != nil {
		// Uploads answer 503 until storage is configured.
		logger.Error("main: file storage unavailable", zap.Error(err))
	}
	maxUpload := cfg.MaxUploadMB << 20
	fileService := &files.DefaultFileService{
		Repo:     fileStore,
		Storage:  objectStore,
		MaxBytes: maxUpload,
	}

	adminService := &admin.DefaultAdminService{
		Users:     userRepo,
		Courses:   courses,
		Purchases: purchases,
		Community: posts,
		Events:    eventStore,
		Files:     fileStore,
	}

	// background work.
	worker, err := cron.StartReminderWorker(queueOpt, eventService)
	if err != nil {
		logger.Fatal("main: reminder worker", zap.Error(err))
	}
	queueRedis := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB})
	defer func() { _ = queueRedis.Close() }()
	utils.StartHealthMonitor(rootCtx, 15*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), queueRedis}, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:          userRepo,
		AuthCache:         utils.GetAuthCacheClient(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		FrontendURL:       cfg.FrontendURL,

		User:      &handlers.UserHandler{UserService: userService},
		Catalog:   &handlers.CatalogHandler{Catalog: catalogService},
		Checkout:  &handlers.CheckoutHandler{Checkout: checkoutService},
		Progress:  &handlers.ProgressHandler{Progress: progressService},
		Community: &handlers.CommunityHandler{Community: communityService},
		Events:    &handlers.EventHandler{Events: eventService},
		Storage:   &handlers.StorageHandler{Files: fileService, MaxBytes: maxUpload},
		Admin:     &handlers.AdminHandler{AdminService: adminService},
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	stopBackground()
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
