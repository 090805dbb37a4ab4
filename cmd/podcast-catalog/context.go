package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"podcast-catalog/internal/catalog"
	"podcast-catalog/internal/config"
	"podcast-catalog/internal/logger"
)

type commandContext struct {
	catalogFlag *string

	setupOnce  sync.Once
	catalogDir string
	site       config.Site
	setupErr   error

	loadOnce sync.Once
	snapshot *catalog.Snapshot
	loadErr  error
}

func newCommandContext(catalogFlag *string) *commandContext {
	return &commandContext{catalogFlag: catalogFlag}
}

func (c *commandContext) ensureSetup() error {
	c.setupOnce.Do(func() {
		var override string
		if c.catalogFlag != nil {
			override = strings.TrimSpace(*c.catalogFlag)
		}
		dir, err := config.ResolveCatalogDir(override)
		if err != nil {
			c.setupErr = fmt.Errorf("resolve catalog directory: %w", err)
			return
		}
		site, err := config.ResolveSite()
		if err != nil {
			c.setupErr = fmt.Errorf("resolve site metadata: %w", err)
			return
		}
		c.catalogDir = dir
		c.site = site
	})
	return c.setupErr
}

// loadSnapshot reads the catalog once for the one-shot query commands.
func (c *commandContext) loadSnapshot(logger *log.Logger) (*catalog.Snapshot, error) {
	if err := c.ensureSetup(); err != nil {
		return nil, err
	}
	c.loadOnce.Do(func() {
		c.snapshot, c.loadErr = catalog.Load(c.catalogDir, c.site.Categories, logger)
		if c.loadErr != nil {
			c.loadErr = fmt.Errorf("load catalog %s: %w", c.catalogDir, c.loadErr)
		}
	})
	return c.snapshot, c.loadErr
}

func newLogger(w io.Writer) *log.Logger {
	return logger.NewWithConfig(
		w,
		"podcast-catalog",
		logger.ParseLevel(config.LogLevel()),
		false,
		true,
		logger.ParseFormatter(config.LogFormat()),
	)
}
