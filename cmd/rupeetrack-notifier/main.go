// Command rupeetrack-notifier consumes the notifications queue and logs bill
// reminders and change events.
package main

import (
	"context"
	"errors"
	"os"

	"rupeetrack/internal/amqp"
	"rupeetrack/internal/cli"
	"rupeetrack/internal/log"
	"rupeetrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	logger.Info("Starting rupeetrack-notifier", "queue", cfg.AMQPQueue)

	var client *amqp.Client
	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(context.Context) {
		if client != nil {
			client.Close()
		}
	})

	client, err := amqp.WaitForConnection(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}

	handler := worker.NewNotificationHandler(logger)
	if err := client.ConsumeMessages(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		client.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Notifier stopped")
}
