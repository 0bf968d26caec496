package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scimtools/scimwatch/internal/activity"
	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/httpapi"
	"github.com/scimtools/scimwatch/internal/logstore"
)

// ServeCmd runs the admin API server
type ServeCmd struct {
	Listen     string `short:"L" help:"Listen address (host:port), defaults to config"`
	BufferSize int    `help:"Ring buffer capacity (entries kept in memory)"`
	Names      string `type:"existingfile" optional:"" help:"JSON file mapping user/group ids to display names for /api/activity/classify"`
}

// nameMapping is the on-disk shape of the --names file
type nameMapping struct {
	Users  map[string]string `json:"users"`
	Groups map[string]string `json:"groups"`
}

// Run starts the server and blocks until SIGINT/SIGTERM
func (c *ServeCmd) Run(globals *Globals) error {
	cfg := globals.Config

	listen := c.Listen
	if listen == "" {
		listen = cfg.Server.Listen
	}
	capacity := c.BufferSize
	if capacity <= 0 {
		capacity = cfg.Server.BufferSize
	}

	level, err := domain.ParseSeverity(globals.Level)
	if err != nil {
		return err
	}

	logger, err := newLogger(globals.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	resolver, err := loadResolver(c.Names)
	if err != nil {
		return err
	}

	store := logstore.NewStore(logstore.Options{
		Capacity:         capacity,
		SubscriberBuffer: cfg.Server.SubscriberBuffer,
		GlobalLevel:      level,
	})
	api := httpapi.NewServer(store, resolver, logger, nil)

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin API listening",
			zap.String("addr", listen),
			zap.Int("bufferSize", capacity),
			zap.String("level", level.String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLogger builds the process logger; verbose selects the development
// config at debug level.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadResolver reads the optional id-to-name mapping file
func loadResolver(path string) (activity.NameResolver, error) {
	resolver := &activity.StaticResolver{
		Users:  map[string]string{},
		Groups: map[string]string{},
	}
	if path == "" {
		return resolver, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}
	var mapping nameMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("invalid names file %s: %w", path, err)
	}
	if mapping.Users != nil {
		resolver.Users = mapping.Users
	}
	if mapping.Groups != nil {
		resolver.Groups = mapping.Groups
	}
	return resolver, nil
}
