package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/library-lending-engine/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
	"github.com/AntonStoeckl/library-lending-engine/lending/httpapi"
	"github.com/AntonStoeckl/library-lending-engine/lending/notifier"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell/config"
	"github.com/AntonStoeckl/library-lending-engine/lending/slip"
)

const (
	instrumentationName = "library-lending-engine"
	shutdownTimeout     = 10 * time.Second
	readHeaderTimeout   = 5 * time.Second
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("lendingd stopped with error", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("lendingd stopped")
}

//nolint:funlen
func run(ctx context.Context, cfg config.Config, logger *oteladapters.SlogBridgeLogger) error {
	tracerProvider := sdktrace.NewTracerProvider()
	meterProvider := sdkmetric.NewMeterProvider()
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := errors.Join(tracerProvider.Shutdown(shutdownCtx), meterProvider.Shutdown(shutdownCtx)); err != nil {
			logger.Warn("shutting down telemetry failed", "error", err)
		}
	}()

	metrics := oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
	tracing := oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))

	eventStore, closeStore, err := openEventStore(ctx, cfg, logger, metrics, tracing)
	if err != nil {
		return err
	}
	defer closeStore()

	issuer, err := slip.NewIssuer(cfg.ClaimTokenKey, cfg.ClaimTokenGrace)
	if err != nil {
		return err
	}

	lending := engine.New(
		eventStore,
		engine.WithPolicy(cfg.LendingPolicy()),
		engine.WithOperationTimeout(cfg.OperationTimeout),
		engine.WithClaimIssuer(issuer),
		engine.WithMetrics(metrics),
		engine.WithTracing(tracing),
		engine.WithContextualLogger(logger),
	)

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	scanner := notifier.NewScanner(
		lending,
		publisher,
		notifier.WithInterval(cfg.ReminderInterval),
		notifier.WithWithinDays(cfg.ReminderWithinDays),
		notifier.WithLogger(logger),
	)

	api := httpapi.NewServer(
		lending,
		logger.Slog(),
		httpapi.WithSlipRenderer(issuer),
		httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "store", cfg.Store)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		return scanner.Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func openPublisher(cfg config.Config, logger *oteladapters.SlogBridgeLogger) (notifier.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Info("no AMQP URL configured, due-soon reminders are only logged")

		return notifier.NewLogPublisher(logger), func() {}, nil
	}

	publisher, err := notifier.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("closing AMQP publisher failed", "error", err)
		}
	}, nil
}
