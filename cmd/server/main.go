package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/apnabazaar/bazaar/internal/config"
	"github.com/apnabazaar/bazaar/internal/events"
	"github.com/apnabazaar/bazaar/internal/httpserver"
	"github.com/apnabazaar/bazaar/internal/repo"
	"github.com/apnabazaar/bazaar/internal/service"
	"github.com/apnabazaar/bazaar/pkg/db"
	"github.com/apnabazaar/bazaar/pkg/logging"
	authmw "github.com/apnabazaar/bazaar/pkg/middleware/auth"
	"github.com/apnabazaar/bazaar/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tk, err := tokens.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	pub, err := events.FromBrokers(cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	rp := repo.New(gdb)
	svc := &service.AuthService{Repo: rp, Tokens: tk, Events: pub}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(httpserver.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Svc: svc},
		VendorHandler: &httpserver.VendorHTTP{Svc: svc},
		Auth:          authmw.New(tk, rp),
		DB:            rp,
	})

	go func() {
		logger.Info("http_server_started", "addr", cfg.HTTPAddr, "token_ttl", cfg.TokenTTL.String())
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("events_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
