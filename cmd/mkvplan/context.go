package main

import (
	"log/slog"
	"strings"
	"sync"

	"mkvplan/internal/config"
	"mkvplan/internal/identify"
	"mkvplan/internal/logging"
	"mkvplan/internal/runner"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		level = strings.TrimSpace(*c.logLevelFlag)
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
	})
}

// newProvider builds the identify metadata provider: the mkvmerge client,
// wrapped in the sqlite cache when caching is enabled. The returned cleanup
// must be called once the provider is no longer needed.
func (c *commandContext) newProvider(cfg *config.Config, logger *slog.Logger) (identify.Provider, func(), error) {
	client := identify.NewClient(cfg.Tools.Mkvmerge, logger)
	if !cfg.Cache.Enabled {
		return client, func() {}, nil
	}

	cache, err := identify.OpenCache(cfg.Cache.Directory, logger)
	if err != nil {
		logger.Warn("identify cache unavailable, continuing without it",
			logging.Error(err),
			logging.String("directory", cfg.Cache.Directory),
		)
		return client, func() {}, nil
	}
	cleanup := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close identify cache", logging.Error(err))
		}
	}
	return identify.NewCachingProvider(client, cache, logger), cleanup, nil
}

func (c *commandContext) newRunner(cfg *config.Config, logger *slog.Logger) *runner.Runner {
	return runner.New(cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract, logger)
}
