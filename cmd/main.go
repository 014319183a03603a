package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"qna-board/internal/config"
	"qna-board/internal/db"
	"qna-board/internal/handlers"
	"qna-board/internal/jwt"
	"qna-board/internal/logger"
	"qna-board/internal/middlewares"
	"qna-board/internal/repositories"
	"qna-board/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title qna-board API
// @version 1.0.0
// @description Minimal question and answer bulletin board
// @host localhost:3001
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	envFile := parseFlags()

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the env file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database and HTTP server, sets up routes,
// applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config.Config) error {
	if err := logger.Initialize(cfg.Log.Level); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.Log.Level)

	if cfg.UsingDefaultSecret() {
		logger.Log.Warn("JWT secret not configured, using the development fallback; set QNA_JWT_SECRET in production")
	}

	logger.Log.Infof("Connecting to %s store", cfg.Database.Dialect)
	database, err := db.Open(ctx, cfg.Database.Dialect, cfg.DSN(),
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, cfg.Database.Dialect); err != nil {
		return fmt.Errorf("schema migration error: %w", err)
	}

	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWT.Secret),
		jwt.WithExpiration(cfg.JWTExpiration()),
	)

	builder := db.Builder(cfg.Database.Dialect)
	txGetter := middlewares.GetTxFromContext

	userReadRepo := repositories.NewUserReadRepository(database, builder, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(database, builder, txGetter)
	postReadRepo := repositories.NewPostReadRepository(database, builder, txGetter)
	postWriteRepo := repositories.NewPostWriteRepository(database, builder, txGetter)
	answerWriteRepo := repositories.NewAnswerWriteRepository(database, builder, txGetter)

	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens)
	boardService := services.NewBoardService(postReadRepo, postWriteRepo, answerWriteRepo, userReadRepo)

	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	listPostsHandler := handlers.NewListPostsHandler(boardService)
	getPostHandler := handlers.NewGetPostHandler(boardService)
	createPostHandler := handlers.NewCreatePostHandler(boardService, tokens)
	createAnswerHandler := handlers.NewCreateAnswerHandler(boardService, tokens)

	r := chi.NewRouter()
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins()))
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)
		r.Get("/posts", listPostsHandler)
		r.Get("/posts/{id}", getPostHandler)

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Post("/posts", createPostHandler)

			// answer insert and comment counter bump share one transaction
			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(database))
				r.Post("/posts/{id}/answers", createAnswerHandler)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", cfg.Server.Addr)),
	))

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
