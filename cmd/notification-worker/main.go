package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/carepulse/intake-platform/cmd/mainconfig"
	"github.com/carepulse/intake-platform/internal/config"
	"github.com/carepulse/intake-platform/internal/identity"
	"github.com/carepulse/intake-platform/internal/notify"
	"github.com/carepulse/intake-platform/internal/observability/metrics"
	notifworker "github.com/carepulse/intake-platform/internal/worker/notifications"
	"github.com/carepulse/intake-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.UseMemoryQueue {
		logger.Error("the standalone worker needs an SQS queue, set USE_MEMORY_QUEUE=false")
		os.Exit(1)
	}
	if cfg.NotificationQueueURL == "" {
		logger.Error("NOTIFICATION_QUEUE_URL is required")
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

	users := identity.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.UsersTable, logger)
	queue := notify.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.NotificationQueueURL, logger)

	smsSender, err := notify.SMSSenderFromConfig(cfg, logger)
	if err != nil {
		logger.Error("failed to build SMS sender", "error", err)
		os.Exit(1)
	}
	emailSender := notify.EmailSenderFromConfig(cfg, sesv2.NewFromConfig(awsCfg), logger)

	deliverer := notify.NewService(users, smsSender, emailSender, cfg.ClinicName, logger, m)
	worker := notifworker.New(queue, deliverer, cfg.WorkerCount, logger)

	logger.Info("notification worker starting", "workers", cfg.WorkerCount)
	worker.Run(ctx)
	logger.Info("notification worker stopped")
}
