package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/okwaro/sokopesa/internal/pkg/cache"
	"github.com/okwaro/sokopesa/internal/pkg/config"
	"github.com/okwaro/sokopesa/internal/pkg/constants"
	"github.com/okwaro/sokopesa/internal/pkg/health"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	"github.com/okwaro/sokopesa/internal/pkg/middleware"
	"github.com/okwaro/sokopesa/internal/pkg/mutation"
	natspkg "github.com/okwaro/sokopesa/internal/pkg/nats"
	"github.com/okwaro/sokopesa/internal/pkg/notify"
	"github.com/okwaro/sokopesa/internal/pkg/remote"
	wspkg "github.com/okwaro/sokopesa/internal/pkg/websocket"
	"github.com/sirupsen/logrus"

	adminGateway "github.com/okwaro/sokopesa/services/admin/gateway/http"
	adminHandler "github.com/okwaro/sokopesa/services/admin/handler"
	adminUsecase "github.com/okwaro/sokopesa/services/admin/usecase"
	escrowGateway "github.com/okwaro/sokopesa/services/escrow/gateway/http"
	escrowHandler "github.com/okwaro/sokopesa/services/escrow/handler"
	escrowUsecase "github.com/okwaro/sokopesa/services/escrow/usecase"
)

func main() {
	appName := "escrow-edge"
	configs := config.InitConfig(os.Getenv("CONFIG_PATH"))

	log := logger.Init(configs.Logger)
	log.WithFields(logrus.Fields{
		"app":         appName,
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	}).Info("Starting application")

	healthHandler := health.NewHandler(appName, configs.App.Environment)

	// Cache store: shared Redis when configured, in-process otherwise.
	var store cache.Store
	if configs.Redis.Host != "" {
		redisStore, err := cache.NewRedisStore(configs.Redis)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisStore.Close()
		store = redisStore
		healthHandler.AddCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisStore.Ping(ctx)
		})
	} else {
		log.Warn("No Redis configured, using in-process cache")
		store = cache.NewMemoryStore()
	}
	coordinator := cache.NewCoordinator(store, 5*time.Minute)

	// Toast sinks: structured log always, WebSocket push to connected
	// clients, NATS fan-out to other edge instances when configured. The
	// relay surfaces other instances' toasts on this instance's sockets.
	hub := wspkg.NewHub(configs.JWT, log)
	sinks := []notify.Option{
		notify.WithLimit(configs.Notify.Limit),
		notify.WithSink(notify.NewLogSink(log)),
		notify.WithSink(hub),
	}
	if configs.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(configs.NATS.URL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to NATS")
		}
		defer natsClient.Close()
		natsSink := notify.NewNATSSink(natsClient, constants.SubjectNotifications)
		if err := natsSink.Relay(hub); err != nil {
			log.WithError(err).Fatal("Failed to subscribe to notification fan-out")
		}
		sinks = append(sinks, notify.WithSink(natsSink))
	}
	dispatcher := notify.NewDispatcher(sinks...)

	// Remote marketplace gateway and the mutation controller over it.
	remoteClient := remote.NewClient(configs.Remote.BaseURL, time.Duration(configs.Remote.TimeoutSeconds)*time.Second)
	controller := mutation.NewController(coordinator, dispatcher, log)

	escrowGW := escrowGateway.NewEscrowGateway(remoteClient)
	escrowUC := escrowUsecase.NewEscrowUC(escrowGW, controller, coordinator, log)

	adminGW := adminGateway.NewAdminGateway(remoteClient)
	adminUC := adminUsecase.NewAdminUC(adminGW, controller, coordinator, log)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(log))
	e.Use(logger.EchoMiddleware(log))

	healthHandler.RegisterRoutes(e)

	escrowHandler.NewEscrowHandler(escrowUC, dispatcher, hub).RegisterRoutes(e, configs.JWT)
	adminHandler.NewAdminHandler(adminUC).RegisterRoutes(e, configs.JWT)

	go func() {
		log.WithFields(logrus.Fields{
			"app":  appName,
			"port": configs.Server.Port,
		}).Info("Starting server")
		if err := e.Start(fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)); err != nil {
			log.WithError(err).Info("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server exited")
}
