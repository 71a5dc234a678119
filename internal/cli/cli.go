package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conetree/internal/config"
	"github.com/matzehuels/conetree/pkg/buildinfo"
	"github.com/matzehuels/conetree/pkg/cache"
	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "conetree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the default
// configuration. The configuration file is loaded when the root command
// runs, so flag parsing can supply an explicit path first.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "conetree",
		Short:        "Conetree visualizes mind maps as 3D cone trees",
		Long:         `Conetree is a CLI tool for visualizing hierarchical mind maps as 3D cone trees, with an interactive terminal viewer and static SVG/PNG/PDF output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/conetree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner with the configured cache backend.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache builds the configured cache backend. A missing cache
// directory disables caching rather than failing the command.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		return cache.NewRedisCache(
			c.Config.Cache.RedisAddress,
			c.Config.Cache.RedisPassword,
			c.Config.Cache.RedisDB,
		), nil
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSessionStore builds the configured session store backend.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	if c.Config.Session.Backend == "mongo" {
		store, err := session.NewMongoStore(ctx, c.Config.Session.MongoURI, c.Config.Session.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		return store, nil
	}
	dir, err := c.Config.SessionDir()
	if err != nil {
		return nil, fmt.Errorf("session directory: %w", err)
	}
	return session.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options from the configuration file.
// Command flags override individual fields afterwards.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Axis:         c.Config.Layout.Axis,
		Proportional: c.Config.Layout.Proportional,
		LevelHeight:  c.Config.Layout.LevelHeight,
		RadiusFactor: c.Config.Layout.RadiusFactor,
		BottomMargin: c.Config.Layout.BottomMargin,
		Style:        c.Config.Render.Style,
		Width:        c.Config.Render.Width,
		Height:       c.Config.Render.Height,
		Logger:       c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
