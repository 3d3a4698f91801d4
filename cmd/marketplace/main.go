package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/paddle-marketplace/internal/config"
	"github.com/Sternrassler/paddle-marketplace/pkg/cache"
	"github.com/Sternrassler/paddle-marketplace/pkg/logging"
	"github.com/Sternrassler/paddle-marketplace/pkg/marketplace"
	"github.com/Sternrassler/paddle-marketplace/pkg/paddle"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	once := flag.Bool("once", false, "print the listing as JSON and exit")
	envFile := flag.String("env-file", "", "load variables from this file instead of ./.env")
	flag.Parse()

	if err := run(*once, *envFile); err != nil {
		log.Fatal().Err(err).Msg("marketplace exited")
	}
}

func run(once bool, envFile string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging())
	logger := logging.NewLogger(logging.ComponentServer)

	client, err := paddle.New(cfg.PaddleClient())
	if err != nil {
		return fmt.Errorf("create paddle client: %w", err)
	}

	service := marketplace.NewService(client, marketplace.DefaultRules())

	var (
		lister      marketplace.Lister = service
		redisClient *redis.Client
	)
	if cfg.Redis.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		lister = marketplace.NewCachedService(service, cache.NewManager(redisClient), cacheScope(cfg.Paddle.APIURL), cfg.Redis.CacheTTL)
		logger.Info().
			Str("redis", cfg.Redis.Addr).
			Dur("ttl", cfg.Redis.CacheTTL).
			Msg("Listing cache enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		return printListing(ctx, lister, os.Stdout)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newRouter(lister, redisClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", cfg.Paddle.APIURL).
			Msg("Starting marketplace server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// cacheScope keys snapshots by upstream host so sandbox and live listings
// never share an entry.
func cacheScope(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return apiURL
	}
	return u.Host
}

func printListing(ctx context.Context, lister marketplace.Lister, w io.Writer) error {
	products, err := lister.Products(ctx)
	if err != nil {
		return fmt.Errorf("build listing: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(products)
}
