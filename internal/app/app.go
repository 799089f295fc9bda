package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vrtravel/server/internal/controller"
	"github.com/vrtravel/server/internal/repository/catalog"
	catalogInmemory "github.com/vrtravel/server/internal/repository/catalog/inmemory"
	catalogRedis "github.com/vrtravel/server/internal/repository/catalog/redis"
	connInmemory "github.com/vrtravel/server/internal/repository/connection/inmemory"
	"github.com/vrtravel/server/internal/service/room"
	"github.com/vrtravel/server/pkg/ctxlogger"
	"github.com/vrtravel/server/pkg/redisclient"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type AppConfig struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	LogLevel         string `json:"log_level"`
	MembersLimit     int    `json:"members_limit"`
	SendBuffer       int    `json:"send_buffer"`
	HandshakeTimeout int    `json:"handshake_timeout_seconds"`
	Storage          string `json:"storage"`
	RedisHost        string `json:"redis_host"`
	RedisPort        int    `json:"redis_port"`
	RedisPassword    string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 0 {
		return fmt.Errorf("members limit must not be negative")
	}
	if cfg.SendBuffer < 1 {
		return fmt.Errorf("send buffer must be greater than 0")
	}
	if cfg.HandshakeTimeout < 1 {
		return fmt.Errorf("handshake timeout must be greater than 0")
	}
	if cfg.Storage != StorageMemory && cfg.Storage != StorageRedis {
		return fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(h)

	var catalogRepo controller.CatalogRepo
	switch cfg.Storage {
	case StorageRedis:
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		repo := catalogRedis.NewRepo(rc, 24*14*time.Hour)
		for _, v := range catalog.SeedVideos {
			if err := repo.SetVideo(ctx, &v); err != nil {
				return fmt.Errorf("failed to seed video catalog: %w", err)
			}
		}
		catalogRepo = repo
	default:
		catalogRepo = catalogInmemory.NewRepo()
	}

	connRepo := connInmemory.NewRepo(cfg.SendBuffer)
	roomService := room.NewService(&room.Config{
		MembersLimit: cfg.MembersLimit,
	}, logger)
	defer roomService.Shutdown()

	ctrl := controller.NewController(roomService, catalogRepo, connRepo, &controller.Config{
		HandshakeTimeout: time.Duration(cfg.HandshakeTimeout) * time.Second,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ctrl.GetMux(),
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
