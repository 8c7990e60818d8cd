package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/harshpalas/GlamBook/docs"
	"github.com/harshpalas/GlamBook/internal/api/handler"
	"github.com/harshpalas/GlamBook/internal/api/middleware"
	"github.com/harshpalas/GlamBook/internal/core/domain"
	"github.com/harshpalas/GlamBook/internal/core/service"
	mongodb "github.com/harshpalas/GlamBook/internal/infrastructure/db/mongo"
	redisdb "github.com/harshpalas/GlamBook/internal/infrastructure/db/redis"
	"github.com/harshpalas/GlamBook/internal/infrastructure/http/handlers"
	"github.com/harshpalas/GlamBook/internal/infrastructure/queue"
)

// Deps carries the external resources the router wires together.
type Deps struct {
	DB            *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	Notifier      service.StatusNotifier
	RatingWorkers int
	Logger        zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered and starts
// the rating recompute workers. Workers stop when ctx is cancelled.
func NewRouter(ctx context.Context, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("glambook"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	salonRepo := mongodb.NewSalonRepository(deps.DB)
	bookingRepo := mongodb.NewBookingRepository(deps.DB)
	reviewRepo := mongodb.NewReviewRepository(deps.DB)
	chatRepo := mongodb.NewChatRepository(deps.DB)
	guestRepo := mongodb.NewGuestSessionRepository(deps.DB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, deps.JWTSecret, 0)
	salonService := service.NewSalonService(salonRepo, reviewRepo, uuid.NewString, deps.Logger)
	reviewService := service.NewReviewService(reviewRepo, salonRepo, nil, deps.Logger)

	dispatcher := queue.NewDispatcher(deps.RatingWorkers, reviewService, deps.Logger)
	dispatcher.Start(ctx)
	reviewService.SetQueue(dispatcher)

	slotHold := redisdb.NewSlotHold(deps.Redis)
	bookingService := service.NewBookingService(
		bookingRepo, salonRepo, userRepo, guestRepo, reviewRepo,
		slotHold, deps.Notifier, uuid.NewString, deps.Logger,
	)
	chatService := service.NewChatService(chatRepo, bookingRepo, salonRepo, deps.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, userRepo)
	salonHandler := handler.NewSalonHandler(salonService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	chatHandler := handler.NewChatHandler(chatService)

	authRequired := middleware.Auth(deps.JWTSecret)
	authOptional := middleware.OptionalAuth(deps.JWTSecret)
	ownerOnly := middleware.RBAC(domain.RoleSalonOwner, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	me := e.Group("/auth/me", authRequired)
	me.GET("", authHandler.Me)
	me.PUT("", authHandler.UpdateProfile)
	me.POST("/favorites/:salonId", authHandler.AddFavorite)
	me.DELETE("/favorites/:salonId", authHandler.RemoveFavorite)

	// --- Salon directory ---
	e.GET("/salons", salonHandler.List)
	e.GET("/salons/:id", salonHandler.GetByID)

	salonAdmin := e.Group("/salons", authRequired, ownerOnly)
	salonAdmin.POST("", salonHandler.Create)
	salonAdmin.PUT("/:id", salonHandler.Update)
	salonAdmin.POST("/:id/services", salonHandler.AddService)
	salonAdmin.PUT("/:id/services/:serviceId", salonHandler.UpdateService)
	salonAdmin.DELETE("/:id/services/:serviceId", salonHandler.RemoveService)
	salonAdmin.PUT("/:id/slots", salonHandler.SetSlots)

	// --- Bookings ---
	// Create and list run behind optional auth: guests book and look up their
	// bookings with a session token instead of an account.
	e.POST("/bookings", bookingHandler.Create, authOptional)
	e.GET("/bookings", bookingHandler.List, authOptional)
	e.GET("/bookings/availability", bookingHandler.Availability)
	e.GET("/bookings/:id", bookingHandler.GetByID)
	e.PATCH("/bookings/:id", bookingHandler.Patch, authRequired)
	e.POST("/bookings/:id/reschedule", bookingHandler.RequestReschedule, authRequired)
	e.POST("/bookings/:id/reschedule/resolve", bookingHandler.ResolveReschedule, authRequired, ownerOnly)

	// --- Reviews ---
	e.GET("/reviews", reviewHandler.List)
	e.POST("/reviews", reviewHandler.Create, authRequired, middleware.RBAC(domain.RoleUser))

	// --- Chat ---
	chat := e.Group("/chat", authRequired)
	chat.GET("/:bookingId", chatHandler.History)
	chat.POST("/:bookingId", chatHandler.Send)

	// --- Admin ---
	admin := e.Group("/admin", authRequired, ownerOnly)
	admin.GET("/stats/:salonId", bookingHandler.Stats)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
