package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pkordes/stepsync/internal/config"
	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/mediafs"
	"github.com/pkordes/stepsync/internal/service"
	"github.com/pkordes/stepsync/internal/upload"
)

// commandContext carries state shared by every subcommand: configuration
// and the logger built from it, both created once per invocation.
type commandContext struct {
	configOnce sync.Once
	config     config.Config
	configErr  error
	log        *slog.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// ensureConfig loads configuration from the environment and sets up the JSON
// logger on the command's stderr.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
		c.log = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	if c.log == nil {
		return slog.Default()
	}
	return c.log
}

func (c *commandContext) tripLoader() *service.TripLoader {
	opts := []service.LoaderOption{service.WithLogger(c.logger())}
	if c.config.MediaRoot != "" {
		opts = append(opts, service.WithMediaRoot(c.config.MediaRoot))
	}
	return service.NewTripLoader(mediafs.NewResolver(), opts...)
}

func (c *commandContext) uploadClient() *upload.Client {
	return upload.NewClient(upload.Options{
		URL:     c.config.Upload.URL,
		Token:   c.config.Upload.Token,
		Timeout: c.config.Upload.Timeout,
		Logger:  c.logger(),
	})
}

// openExport loads the export in dir into a TripService. A missing
// locations.json leaves the service without positions.
func (c *commandContext) openExport(dir string, tripID int64) (*service.TripService, error) {
	trip, err := c.tripLoader().Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load trip: %w", err)
	}
	locations, err := service.NewLocationLoader().Load(dir)
	if err != nil {
		if !errors.Is(err, domain.ErrFileNotFound) {
			return nil, fmt.Errorf("load locations: %w", err)
		}
		c.logger().Debug("export has no locations file", "dir", dir)
	}

	svc := service.NewTripService(trip, locations, c.uploadClient())
	if tripID != 0 {
		svc.SetTripID(tripID)
	}
	return svc, nil
}
