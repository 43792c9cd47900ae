package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/carepulse/intake-platform/cmd/mainconfig"
	"github.com/carepulse/intake-platform/internal/admin"
	"github.com/carepulse/intake-platform/internal/api/router"
	"github.com/carepulse/intake-platform/internal/app/bootstrap"
	"github.com/carepulse/intake-platform/internal/appointments"
	"github.com/carepulse/intake-platform/internal/config"
	"github.com/carepulse/intake-platform/internal/documents"
	"github.com/carepulse/intake-platform/internal/http/handlers"
	"github.com/carepulse/intake-platform/internal/identity"
	"github.com/carepulse/intake-platform/internal/notify"
	"github.com/carepulse/intake-platform/internal/observability/metrics"
	"github.com/carepulse/intake-platform/internal/patients"
	"github.com/carepulse/intake-platform/internal/registration"
	notifworker "github.com/carepulse/intake-platform/internal/worker/notifications"
	"github.com/carepulse/intake-platform/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.AdminPasskey == "" || cfg.AdminJWTSecret == "" {
		logger.Error("ADMIN_PASSKEY and ADMIN_JWT_SECRET are required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewIntakeMetrics(nil)

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// User directory. Local development without LocalStack runs in memory.
	var userStore identity.Store
	if cfg.Env == "development" && cfg.AWSEndpointOverride == "" {
		logger.Info("using in-memory user store")
		userStore = identity.NewInMemoryStore()
	} else {
		userStore = identity.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.UsersTable, logger)
	}

	// Relational stores.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	adminDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open admin db handle", "error", err)
		os.Exit(1)
	}
	defer adminDB.Close()

	patientRepo := patients.NewPostgresRepository(pool)
	appointmentRepo := appointments.NewPostgresRepository(pool)

	// Identification documents.
	var docStore registration.DocumentStore
	if cfg.DocumentsBucket != "" {
		docStore = documents.NewStore(s3.NewFromConfig(awsCfg), documents.Config{
			Bucket:          cfg.DocumentsBucket,
			StorageEndpoint: cfg.StorageEndpoint,
			ProjectID:       cfg.ProjectID,
		}, logger)
	} else {
		logger.Warn("DOCUMENTS_BUCKET not set, document uploads disabled")
	}

	// Admin sessions.
	var sessions admin.SessionStore
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		defer redisClient.Close()
		sessions = admin.NewRedisSessionStore(redisClient)
	} else {
		logger.Warn("redis unavailable, admin sessions will not survive restarts")
		sessions = admin.NewMemorySessionStore()
	}
	gate, err := admin.NewGate(cfg.AdminPasskey, cfg.AdminJWTSecret, cfg.AdminSessionTTL, sessions, logger)
	if err != nil {
		logger.Error("failed to build admin gate", "error", err)
		os.Exit(1)
	}

	// Notification transport. The memory queue keeps delivery in-process; SQS
	// hands it to the standalone worker binary.
	var queue notify.Queue
	if cfg.UseMemoryQueue {
		queue = notify.NewMemoryQueue()
	} else {
		if cfg.NotificationQueueURL == "" {
			logger.Error("NOTIFICATION_QUEUE_URL is required when USE_MEMORY_QUEUE=false")
			os.Exit(1)
		}
		queue = notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotificationQueueURL, logger)
	}

	var workerWG sync.WaitGroup
	if cfg.UseMemoryQueue {
		smsSender, err := notify.SMSSenderFromConfig(cfg, logger)
		if err != nil {
			logger.Error("failed to build SMS sender", "error", err)
			os.Exit(1)
		}
		emailSender := notify.EmailSenderFromConfig(cfg, sesv2.NewFromConfig(awsCfg), logger)
		deliverer := notify.NewService(userStore, smsSender, emailSender, cfg.ClinicName, logger, m)
		worker := notifworker.New(queue, deliverer, cfg.WorkerCount, logger)

		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			worker.Run(ctx)
		}()
	}

	regService := registration.NewService(docStore, patientRepo, logger, m)
	apptService := appointments.NewService(appointmentRepo, queue, logger, m)

	mux := router.New(router.Deps{
		Users:             identity.NewHandler(userStore, logger),
		Registration:      registration.NewHandler(regService, patientRepo, logger),
		Appointments:      appointments.NewHandler(apptService, logger),
		Admin:             admin.NewHandler(gate, logger),
		AdminGate:         gate,
		AdminAppointments: handlers.NewAdminAppointmentsHandler(adminDB, logger),
		Logger:            logger,
		CORSOrigins:       cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port, "env", cfg.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	stop()
	workerWG.Wait()
	logger.Info("shutdown complete")
}
