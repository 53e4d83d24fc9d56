package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos_reports/api"
	"pos_reports/internal/config"
	"pos_reports/internal/recordstore"
	"pos_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %v", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer logger.Sync()

	loc, _ := cfg.Location()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := recordstore.Open(ctx, recordstore.Options{
		Backend:       cfg.RecordStore,
		SQLitePath:    cfg.SQLiteDBPath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisKeyPrefix,
	})
	if err != nil {
		logger.Fatal("record store unavailable", zap.String("backend", cfg.RecordStore), zap.Error(err))
	}
	logger.Info("record store ready", zap.String("backend", cfg.RecordStore))
	closers := []func() error{records.Close}

	var users sales.UserDirectory
	if cfg.UserServiceURL != "" {
		directory := sales.NewHTTPUserDirectory(cfg.UserServiceURL)
		users = directory
		closers = append(closers, directory.Close)
		logger.Info("cashier directory enabled", zap.String("url", cfg.UserServiceURL))
	}

	svc := sales.NewService(sales.NewBlobStorage(records, logger), logger, users)
	svc.SetClock(func() time.Time { return time.Now().In(loc) })

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	api.InitRoutes(r, svc, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("pos reports listening", zap.String("addr", cfg.Address()), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	runErr := awaitStop(sig, serverErr, logger)

	shutdown(server, closers, logger)
	logger.Info("server stopped")

	if runErr != nil {
		logger.Sync()
		os.Exit(1)
	}
}

// awaitStop blocks until a signal arrives or the listener fails, and returns
// the listener error if that came first.
func awaitStop(sig <-chan os.Signal, serverErr <-chan error, logger *zap.Logger) error {
	select {
	case s := <-sig:
		logger.Info("shutdown signal received", zap.String("signal", s.String()))
		return nil
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
		return err
	}
}

func shutdown(server *http.Server, closers []func() error, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", zap.Error(err))
		}
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
