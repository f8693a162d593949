package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/warehousekit/fulfillment-client/pkg/config"
	"github.com/warehousekit/fulfillment-client/pkg/credentials"
	"github.com/warehousekit/fulfillment-client/pkg/gateway"
	"github.com/warehousekit/fulfillment-client/pkg/logging"
	"github.com/warehousekit/fulfillment-client/pkg/orders"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	token := flag.String("token", os.Getenv("FULFILLMENT_TOKEN"), "bearer token for the backend")
	status := flag.String("status", "", "comma-separated order status filter")
	source := flag.String("source", "", "comma-separated source filter")
	search := flag.String("search", "", "free-text search (digits match order id, text matches customer)")
	pages := flag.Int("pages", 1, "number of pages to load")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	ctx := context.Background()

	creds, err := buildCredentials(ctx, cfg, *token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up credential store")
	}

	gwCfg := gateway.DefaultConfig(cfg.API.BaseURL, creds)
	gwCfg.RequestTimeout = cfg.API.RequestTimeout
	gwCfg.RequestsPerSecond = cfg.API.RequestsPerSecond
	gwCfg.Burst = cfg.API.Burst

	gw, err := gateway.New(gwCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create gateway")
	}

	svc := orders.NewService(gw, orders.ServiceConfig{PageSize: cfg.Paging.PageSize})

	sel := orders.FilterSelection{Search: *search}
	if *status != "" {
		sel.Statuses = strings.Split(*status, ",")
	}
	if *source != "" {
		sel.Sources = strings.Split(*source, ",")
	}
	if err := svc.ApplyFilters(ctx, sel); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply filters")
	}

	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := svc.LoadFirstPage(loadCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load orders")
	}
	for i := 1; i < *pages; i++ {
		if err := svc.LoadNextPage(loadCtx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to load next page")
		}
	}

	state := svc.Fetcher().Snapshot()
	fmt.Printf("Loaded %d of %d orders (page %d/%d)\n",
		len(state.Items), state.TotalRecords, state.CurrentPage, state.TotalPages)
	for _, order := range state.Items {
		fmt.Printf("  %-12s %-10s %-12s %s\n",
			order.OrderNo, order.Status, order.PaymentStatus, order.CustomerName)
	}
}

// buildCredentials picks the Redis-backed store when configured, the
// in-memory store otherwise, and seeds the provided token.
func buildCredentials(ctx context.Context, cfg config.Config, token string) (credentials.Provider, error) {
	var creds credentials.Provider

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		creds = credentials.NewRedisStore(redisClient, cfg.Redis.TokenTTL, logging.NewLogger("credentials"))
	} else {
		creds = credentials.NewMemoryStore()
	}

	if token != "" {
		if err := creds.Store(ctx, token); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}
	}
	return creds, nil
}
