// Package main is the entry point of the gamevault backend.
//
// Wire-up order:
//  1. Config and logging
//  2. Database (migrations are embedded)
//  3. Repositories (SQLite, Redis for sessions when configured)
//  4. Services and background workers
//  5. Handlers and routes
//  6. CORS, access log, HTTP server
//  7. Graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/akinalp/gamevault/config"
	"github.com/akinalp/gamevault/database"
	"github.com/akinalp/gamevault/middleware"
	"github.com/akinalp/gamevault/pkg/logger"
	"github.com/akinalp/gamevault/pkg/ratelimit"
)

func main() {
	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("failed to configure logging: %v", err)
	}
	log := logger.For("main")
	log.WithField("port", cfg.Server.Port).Info("gamevault server starting")

	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repositories ───
	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	repos, redisClient, err := initRepositories(startCtx, db, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("failed to initialize repositories: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	log.WithField("store", cfg.Session.Store).Info("session store ready")

	// ─── 4. Services ───
	svcs, bg, err := initServices(repos, cfg)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
	defer bg.Stop()

	// ─── 5. Handlers and routes ───
	ips, err := ratelimit.NewIPResolver(cfg.Auth.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse TRUSTED_PROXIES: %v", err)
	}
	h := initHandlers(svcs, repos, bg.LoginLimiter, ips)
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth)

	// ─── 6. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      middleware.AccessLog(corsHandler.Handler(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 7. Graceful shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("addr", cfg.Server.Addr()).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
		return
	}

	log.Info("server stopped gracefully")
}
