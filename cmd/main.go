// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"agape_study_api/internal/config"
	"agape_study_api/internal/handlers"
	"agape_study_api/internal/metrics"
	"agape_study_api/internal/middleware"
	"agape_study_api/internal/repository"
	"agape_study_api/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func main() {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	configPath := os.Getenv("APP_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs"
	}
	if err := config.LoadConfig(configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(config.Cfg.Log.Level, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", config.Cfg.App.Name), slog.String("version", config.AppVersion))

	if config.Cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(config.Cfg.Database.URL, logger); err != nil {
			slog.Error("Error running migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	db, err := repository.NewDB(config.Cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)

	r := newRouter(db, &config.Cfg, logger, stopCleanup)

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: config.Cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.Cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger uses tint when APP_ENV=dev and JSON otherwise.
func newLogger(level string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}

func newRouter(db *gorm.DB, cfg *config.Config, logger *slog.Logger, stopCleanup <-chan struct{}) http.Handler {
	userRepo := repository.NewGormUserRepository()
	levelRepo := repository.NewGormLevelRepository()
	questionRepo := repository.NewGormQuestionRepository()
	progressRepo := repository.NewGormProgressRepository()
	annotationRepo := repository.NewGormAnnotationRepository()
	messageRepo := repository.NewGormMessageRepository()
	friendshipRepo := repository.NewGormFriendshipRepository()

	mailer := service.NewMailer(context.Background(), cfg)

	authService := service.NewAuthService(db, userRepo, mailer, cfg)
	userService := service.NewUserService(db, userRepo)
	levelService := service.NewLevelService(db, levelRepo, questionRepo)
	questionService := service.NewQuestionService(db, questionRepo, levelRepo, cfg.App.RandomQuestionLimit)
	progressService := service.NewProgressService(db, progressRepo, levelRepo, userRepo)
	annotationService := service.NewAnnotationService(db, annotationRepo)
	messageService := service.NewMessageService(db, messageRepo, cfg.DailyMessageEpoch())
	friendshipService := service.NewFriendshipService(db, friendshipRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	levelHandler := handlers.NewLevelHandler(levelService, logger)
	questionHandler := handlers.NewQuestionHandler(questionService, logger)
	progressHandler := handlers.NewProgressHandler(progressService, logger)
	annotationHandler := handlers.NewAnnotationHandler(annotationService, logger)
	messageHandler := handlers.NewMessageHandler(messageService, logger)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService, logger)

	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	authLimiter.StartCleanup(time.Minute, stopCleanup)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(metrics.InstrumentHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimiter.Handler).Post("/register", authHandler.Register)
		r.With(authLimiter.Handler).Post("/login", authHandler.Login)
		r.With(middleware.JWTAuthMiddleware(cfg)).Get("/verifyToken", authHandler.VerifyToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(cfg))

		r.Route("/niveis", func(r chi.Router) {
			r.Get("/", levelHandler.ListLevels)
			r.Get("/ativos", levelHandler.ListActiveLevels)
			r.Get("/{id}", levelHandler.GetLevel)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", levelHandler.CreateLevel)
				r.Put("/{id}", levelHandler.UpdateLevel)
				r.Put("/{id}/ativar", levelHandler.SetActive)
				r.Delete("/{id}", levelHandler.DeleteLevel)
			})
		})

		r.Route("/perguntas", func(r chi.Router) {
			r.Get("/aleatorias", questionHandler.RandomQuestions)
			r.Get("/nivel/{nivelId}", questionHandler.ListByLevel)
			r.Get("/{id}", questionHandler.GetQuestion)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", questionHandler.CreateQuestion)
				r.Put("/{id}", questionHandler.UpdateQuestion)
				r.Delete("/{id}", questionHandler.DeleteQuestion)
			})
		})

		r.Route("/progresso", func(r chi.Router) {
			r.Post("/", progressHandler.RecordProgress)
			r.Get("/botoes/{nivelId}", progressHandler.Buttons)
			r.Get("/detalhado", progressHandler.Detailed)
			r.Post("/reconciliar", progressHandler.Reconcile)
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.Get("/public/{id}", userHandler.GetPublicUser)
			r.Put("/perfil", userHandler.UpdateProfile)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", userHandler.SearchUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.Put("/{id}", userHandler.AdminUpdateUser)
			})
		})

		r.Route("/anotacoes", func(r chi.Router) {
			r.Post("/", annotationHandler.CreateAnnotation)
			r.Get("/", annotationHandler.ListAnnotations)
		})

		r.Route("/mensagens", func(r chi.Router) {
			r.Get("/", messageHandler.ListMessages)
			r.Get("/hoje", messageHandler.Today)
			r.With(middleware.RequireAdmin).Post("/", messageHandler.CreateMessage)
		})

		r.Route("/amizades", func(r chi.Router) {
			r.Get("/", friendshipHandler.Overview)
			r.Post("/", friendshipHandler.SendRequest)
			r.Get("/pesquisar", friendshipHandler.SearchUsers)
			r.Put("/{id}", friendshipHandler.RespondRequest)
			r.Delete("/{id}", friendshipHandler.RemoveFriendship)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
