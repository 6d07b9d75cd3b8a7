package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stellforge/internal/config"
	"stellforge/internal/db"
	"stellforge/internal/handlers"
	"stellforge/internal/ratelimit"
	"stellforge/internal/services"
	"stellforge/internal/store"
	"stellforge/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	wallets := store.NewWalletStore(database)
	balances := store.NewBalanceStore(database)
	mints := store.NewMintStore(database)
	stats := store.NewStatsStore(database)
	referrals := store.NewReferralStore(database)
	tasks := store.NewTaskStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	registry := services.NewWalletRegistry(txRunner, wallets, balances, stats)
	mintService := services.NewMintService(txRunner, registry, wallets, balances, mints, stats, hub, services.MintConfig{
		MintRate:           cfg.MintRate,
		PlatformRewardRate: cfg.PlatformRewardRate,
		InitialBonusPoints: cfg.InitialBonusPoints,
		MaxBonusRecipients: cfg.MaxBonusRecipients,
	})
	referralService := services.NewReferralService(txRunner, registry, wallets, balances, referrals, hub, cfg.ReferralRewardPoints)
	taskService := services.NewTaskService(txRunner, registry, wallets, balances, tasks, hub)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mintService.EnsureSettings(seedCtx); err != nil {
		log.Fatalf("failed to seed mint settings: %v", err)
	}
	if err := taskService.SeedDefaults(seedCtx); err != nil {
		log.Fatalf("failed to seed tasks: %v", err)
	}
	cancelSeed()

	limiter := newLimiter(cfg.RedisURL)

	handler := handlers.New(cfg, txRunner, limiter, mintService, referralService, taskService, balances, mints, stats, tasks, audit, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("stellforge API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// newLimiter prefers Redis so the limit holds across instances, falling back
// to a per-process counter when Redis is absent or unreachable.
func newLimiter(redisURL string) ratelimit.Counter {
	if redisURL == "" {
		return ratelimit.NewMemoryCounter()
	}
	counter, err := ratelimit.NewRedisCounter(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, using in-memory rate limiter: %v", err)
		return ratelimit.NewMemoryCounter()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := counter.Ping(ctx); err != nil {
		log.Printf("redis unreachable, using in-memory rate limiter: %v", err)
		return ratelimit.NewMemoryCounter()
	}
	return counter
}
