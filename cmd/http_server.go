package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/assessment"
	assessmentPostgres "github.com/frahmantamala/recruitment-management/internal/assessment/postgres"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	authPostgres "github.com/frahmantamala/recruitment-management/internal/auth/postgres"
	"github.com/frahmantamala/recruitment-management/internal/complaint"
	complaintPostgres "github.com/frahmantamala/recruitment-management/internal/complaint/postgres"
	"github.com/frahmantamala/recruitment-management/internal/core/events"
	"github.com/frahmantamala/recruitment-management/internal/document"
	documentPostgres "github.com/frahmantamala/recruitment-management/internal/document/postgres"
	"github.com/frahmantamala/recruitment-management/internal/job"
	jobPostgres "github.com/frahmantamala/recruitment-management/internal/job/postgres"
	"github.com/frahmantamala/recruitment-management/internal/messaging"
	messagingPostgres "github.com/frahmantamala/recruitment-management/internal/messaging/postgres"
	"github.com/frahmantamala/recruitment-management/internal/stats"
	statsPostgres "github.com/frahmantamala/recruitment-management/internal/stats/postgres"
	"github.com/frahmantamala/recruitment-management/internal/storage"
	"github.com/frahmantamala/recruitment-management/internal/training"
	trainingPostgres "github.com/frahmantamala/recruitment-management/internal/training/postgres"
	"github.com/frahmantamala/recruitment-management/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-management/internal/transport/rest"
	"github.com/frahmantamala/recruitment-management/internal/user"
	userPostgres "github.com/frahmantamala/recruitment-management/internal/user/postgres"
	"github.com/frahmantamala/recruitment-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	db := deps.GormDB

	eventBus := events.NewEventBus(lg)

	// repositories
	userRepo := userPostgres.NewUserRepository(db)
	authRepo := authPostgres.NewRepository(db)
	assessmentRepo := assessmentPostgres.NewAssessmentRepository(db)
	trainingRepo := trainingPostgres.NewTrainingRepository(db)
	documentRepo := documentPostgres.NewDocumentRepository(db)
	messageRepo := messagingPostgres.NewMessageRepository(db)
	jobRepo := jobPostgres.NewJobRepository(db)
	complaintRepo := complaintPostgres.NewComplaintRepository(db)
	statsRepo := statsPostgres.NewStatsRepository(db)

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost, lg)
	userService := user.NewService(userRepo, cfg.Security.DefaultAdminEmail, lg)
	assessmentService := assessment.NewService(assessmentRepo, userService, eventBus, lg)
	trainingService := training.NewService(trainingRepo, fileStore, int(cfg.Storage.MaxUploadMB), lg)
	documentService := document.NewService(documentRepo, fileStore, eventBus, int(cfg.Storage.MaxUploadMB), lg)
	messagingService := messaging.NewService(messageRepo, userService, lg)
	jobService := job.NewService(jobRepo, lg)
	complaintService := complaint.NewService(complaintRepo, lg)
	statsService := stats.NewService(statsRepo, lg)

	registerEventSubscribers(eventBus, assessmentService, messagingService, lg)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Assessment: assessment.NewHandler(assessmentService),
		Training:   training.NewHandler(trainingService),
		Document:   document.NewHandler(documentService),
		Messaging:  messaging.NewHandler(messagingService),
		Job:        job.NewHandler(jobService),
		Complaint:  complaint.NewHandler(complaintService),
		Stats:      stats.NewHandler(statsService),
	}

	deps.Router.Use(middleware.RequestID)
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, cfg.Server.AllowedOrigins, lg)
	return nil
}

// registerEventSubscribers wires cross-module reactions: when a worker
// completes a test, the authoring responsable gets a direct message with the
// outcome.
func registerEventSubscribers(bus *events.EventBus, assessments *assessment.Service, messages *messaging.Service, lg *slog.Logger) {
	bus.Subscribe(events.AssessmentCompletedEvent, func(ctx context.Context, ev events.Event) error {
		payload, ok := ev.Payload().(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected payload for %s", ev.EventType())
		}

		creatorID, _ := payload["creator_id"].(int64)
		workerID, _ := payload["worker_id"].(int64)
		testID, _ := payload["test_id"].(int64)
		score, _ := payload["score"].(int)
		passed, _ := payload["passed"].(bool)
		if creatorID == 0 || workerID == 0 {
			return fmt.Errorf("incomplete payload for %s", ev.EventType())
		}

		title := "a test"
		if t, err := assessments.GetTestForCreator(testID, creatorID); err == nil {
			title = t.Title
		}

		messages.NotifyAssessmentResult(creatorID, workerID, title, score, passed)
		return nil
	})

	lg.Info("event subscribers registered")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := "development"
	if config.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
