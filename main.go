package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/auth"
	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/db"
	"github.com/danielhkuo/betdesk/events"
	"github.com/danielhkuo/betdesk/logger"
	"github.com/danielhkuo/betdesk/router"
)

const purgeInterval = time.Hour

func main() {
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(1)
	}

	log, err := logger.New("betdesk", cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg cliparse.Config, log *zap.Logger) error {
	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := dbConn.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		return err
	}
	log.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	revoker, closeRevoker, err := newRevoker(cfg, dbConn, log)
	if err != nil {
		return err
	}
	defer closeRevoker()

	publisher := newPublisher(cfg, log)
	if c, ok := publisher.(interface{ Close() error }); ok {
		defer c.Close()
	}

	mux, err := router.NewRouter(dbConn, cfg, router.Services{
		Tokens:    tokens,
		Revoker:   revoker,
		Publisher: publisher,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeRevocations(ctx, revoker, log)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.Int("port", cfg.Port))
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRevoker uses Redis when configured, else the revoked_tokens table
func newRevoker(cfg cliparse.Config, dbConn *sql.DB, log *zap.Logger) (auth.Revoker, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("token revocation in database")
		return auth.NewSQLRevoker(dbConn), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info("token revocation in redis", zap.String("addr", opts.Addr))
	return auth.NewRedisRevoker(client), func() { client.Close() }, nil
}

func newPublisher(cfg cliparse.Config, log *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("event publishing disabled")
		return events.Nop{}
	}
	p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	log.Info("publishing events", zap.Stringer("destination", p))
	return p
}

// purgeRevocations drops expired revocation entries until ctx is done
func purgeRevocations(ctx context.Context, r auth.Revoker, log *zap.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Purge(ctx)
			if err != nil {
				log.Warn("failed to purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged revoked tokens", zap.Int64("count", n))
			}
		}
	}
}
