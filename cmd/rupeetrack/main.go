package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"rupeetrack/internal/amqp"
	"rupeetrack/internal/cli"
	"rupeetrack/internal/core"
	"rupeetrack/internal/export"
	apphttp "rupeetrack/internal/http"
	"rupeetrack/internal/log"
	"rupeetrack/internal/services"
	"rupeetrack/internal/store"
	"rupeetrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting rupeetrack",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend)

	bootCtx := context.Background()
	result := cli.OpenBackend(bootCtx, cfg, logger)

	// Keep publisher a nil interface when the broker is unavailable.
	var publisher amqp.Publisher
	amqpClient := cli.ConnectAMQP(cfg, logger)
	if amqpClient != nil {
		publisher = amqpClient
	}

	st := store.New(bootCtx, result.Persister,
		store.WithLogger(logger),
		store.WithNotifier(services.NewEventPublisher(publisher, logger)))

	scheduler := worker.NewScheduler(logger)
	jobs := []worker.Job{
		worker.ReminderJob(cfg.ReminderSchedule, services.NewReminderService(st, publisher, cfg.ReminderLeadDays, logger)),
		worker.RolloverJob(cfg.RolloverSchedule, services.NewRecurringProcessor(st, logger)),
	}

	var exporter apphttp.Exporter
	if writer := cli.NewSheetsWriter(bootCtx, cfg, logger); writer != nil {
		registry := core.DefaultRegistry()
		svc := services.NewExportService(st, export.NewBuilder(registry, registry), writer, logger)
		exporter = svc
		jobs = append(jobs, worker.ExportJob(cfg.ExportSchedule, svc))
	}
	for _, job := range jobs {
		if err := scheduler.Add(job); err != nil {
			logger.Error("Failed to register job", log.FieldJob, job.Name, log.FieldError, err)
			os.Exit(1)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, apphttp.Options{
		Exporter:  exporter,
		RateLimit: cfg.RateLimitPerMinute,
		Logger:    logger,
	})

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		exitCode = 1
	} else {
		cli.WaitForShutdown(ctx, done)
	}

	if amqpClient != nil {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}
	if err := result.Close(); err != nil {
		logger.Error("Failed to close backend", log.FieldError, err)
		exitCode = 1
	}

	logger.Info("Server stopped gracefully")
	os.Exit(exitCode)
}
