package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelby-backend/internal/auth"
	"shelby-backend/internal/availability"
	"shelby-backend/internal/booking"
	"shelby-backend/internal/cache"
	"shelby-backend/internal/config"
	"shelby-backend/internal/contact"
	"shelby-backend/internal/db"
	"shelby-backend/internal/events"
	"shelby-backend/internal/middleware"
	"shelby-backend/internal/notifications"
	"shelby-backend/internal/serviceareas"
	"shelby-backend/internal/users"
	"shelby-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	jwtManager := &auth.Manager{
		Secret: []byte(cfg.JWTSecret),
		TTL:    time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		Issuer: "shelby-backend",
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail))
	}
	pusher := notifications.NewExpoClient(cfg.ExpoPushEndpoint)

	var publisher events.Publisher = events.NewNoop()
	if kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic); kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("kafka publisher enabled", slog.String("topic", cfg.KafkaTopic))
	}

	val := validation.New()

	availabilityRepo := availability.NewRepository(cols.Availabilities)
	availabilityService := availability.NewService(availabilityRepo, cfg.Timezone, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	availabilityHandler := availability.NewHandler(availabilityService, val, logger)

	usersRepo := users.NewRepository(cols.Users)
	usersService := users.NewService(usersRepo, jwtManager, logger)

	bookingRepo := booking.NewRepository(cols.Bookings)
	var emailSender booking.EmailSender
	if mailer != nil {
		emailSender = mailer
	}
	bookingService := booking.NewService(bookingRepo, availabilityService, usersService, pusher, emailSender, publisher, cfg.Timezone, logger)
	bookingHandler := booking.NewHandler(bookingService, val, logger)

	usersHandler := users.NewHandler(usersService, bookingService, val, logger)
	areasHandler := serviceareas.NewHandler(logger)

	var contactSender contact.EmailSender
	if mailer != nil {
		contactSender = mailer
	}
	contactHandler := contact.NewHandler(contactSender, cfg.ContactEmail, val, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Minute)
	defer authLimiter.Close()
	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitBooking, time.Minute)
	defer bookingLimiter.Close()

	requireAuth := middleware.RequireAuth(jwtManager)

	r.Route("/auth", func(api chi.Router) {
		api.With(authLimiter.Middleware).Post("/signup", usersHandler.Signup)
		api.With(authLimiter.Middleware).Post("/login", usersHandler.Login)
		api.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Get("/profile", usersHandler.Profile)
			protected.Put("/profile", usersHandler.UpdateProfile)
			protected.Post("/pushtoken", usersHandler.SetPushToken)
		})
	})

	r.Route("/availability", func(api chi.Router) {
		api.Get("/", availabilityHandler.List)
		api.With(requireAuth, middleware.RequireAdmin).Post("/", availabilityHandler.Upsert)
	})

	r.Route("/bookings", func(api chi.Router) {
		api.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.With(bookingLimiter.Middleware).Post("/", bookingHandler.Create)
			protected.Get("/user", bookingHandler.ListOwner)
		})
		api.Group(func(admin chi.Router) {
			admin.Use(requireAuth, middleware.RequireAdmin)
			admin.Get("/admin", bookingHandler.ListAdmin)
			admin.Put("/{id}/status", bookingHandler.UpdateStatus)
		})
	})

	r.Route("/users", func(admin chi.Router) {
		admin.Use(requireAuth, middleware.RequireAdmin)
		admin.Get("/", usersHandler.List)
		admin.Get("/{id}", usersHandler.GetByID)
		admin.Get("/{id}/bookings", usersHandler.ListBookings)
	})

	r.Get("/service-areas", areasHandler.List)
	r.Get("/service-areas/check", areasHandler.Check)
	r.With(authLimiter.Middleware).Post("/contact", contactHandler.Create)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
