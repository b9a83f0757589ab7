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

	"StockBoard/internal/api"
	"StockBoard/internal/cache"
	"StockBoard/internal/config"
	"StockBoard/internal/gateway"
	"StockBoard/internal/scheduler"
	"StockBoard/internal/store"
	"StockBoard/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockBoard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc := cfg.Location()

	// Init provider
	var provider gateway.Provider
	if os.Getenv("MOCK_DATA") == "true" {
		provider = &gateway.Mock{Price: 100}
	} else {
		provider = gateway.NewYahoo(cfg.Proxy, cfg.FetchTimeout(), loc)
	}
	log.Printf("[INFO] data source: %s", provider.Name())

	// Init store
	var st store.Store
	sqliteStore, err := store.NewSQLiteStore(cfg.Database.SQLitePath, loc)
	if err != nil {
		log.Printf("[WARN] init sqlite store failed, caching disabled: %v", err)
		st = store.NewNoop()
	} else {
		st = sqliteStore
		defer sqliteStore.Close()
	}

	// Core components
	coordinator := cache.New(st, provider, cfg.TTL(), cfg.MarketData.IntervalMap)
	watchMgr := watchlist.NewManager(st, provider)

	// Retention purge scheduler
	sched := scheduler.New(st, cfg.Database.RetentionDays)
	if err := sched.Register(cfg.Cache.PurgeCron); err != nil {
		log.Fatalf("[FATAL] register purge task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := api.NewServer(coordinator, watchMgr, st, cfg.MarketData.DefaultTickers, cfg.Server.CORSOrigins)
	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: srv.Router(),
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StockBoard stopped")
}
