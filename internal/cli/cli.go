// Package cli implements the topicmap command-line interface.
//
// The CLI drives the same pipeline as the HTTP API: documents are turned into
// topic trees by a language model, trees are laid out as radial mind maps,
// and layouts are rendered to SVG, PNG, PDF, JSON or Graphviz DOT. Saved maps
// and saved topics live in the configured store.
//
// # Commands
//
//   - generate: documents -> topic trees (optionally rendered and saved)
//   - layout: tree -> layout.json
//   - visualize: layout.json -> artifacts
//   - render: tree -> artifacts in one step
//   - view: browse a tree or saved map in the terminal
//   - maps, topics, recommend: saved maps, saved topics and suggestions
//   - serve: run the HTTP API
//   - cache: inspect and clear the pipeline cache
//
// All commands support --verbose (-v) for debug logging, --config for an
// explicit config file and --user to select whose maps and topics to use.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/buildinfo"
	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/config"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/integrations/openai"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// defaultUser owns maps and topics when neither --user nor
	// TOPICMAP_USER is set.
	defaultUser = "local"

	// envUser selects the user when --user is not given.
	envUser = "TOPICMAP_USER"
)

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

	configPath string
	user       string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Topicmap turns study material into radial mind maps",
		Long: `Topicmap extracts a subject, its main topics and their subtopics from your
documents and lays them out as a radial mind map you can render, save and explore.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/topicmap/config.toml)")
	root.PersistentFlags().StringVar(&c.user, "user", "", "user whose maps and topics to use (default: $TOPICMAP_USER or \"local\")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.mapsCommand())
	root.AddCommand(c.topicsCommand())
	root.AddCommand(c.recommendCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root's pre-run hook.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// userID resolves and validates the acting user.
func (c *CLI) userID() (string, error) {
	id := c.user
	if id == "" {
		id = os.Getenv(envUser)
	}
	if id == "" {
		id = defaultUser
	}
	if err := errors.ValidateUserID(id); err != nil {
		return "", err
	}
	return id, nil
}

// applyLayoutConfig fills layout settings the flags left unset.
func (c *CLI) applyLayoutConfig(opts *pipeline.Options) {
	cfg := c.config().Layout
	if opts.Iterations == 0 {
		opts.Iterations = cfg.Iterations
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Seed
	}
	opts.Logger = c.Logger
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The runner owns the cache
// and must be closed.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(backend, nil, c.Logger)
	runner.Generator = c.newOpenAIClient(backend)
	return runner, nil
}

func (c *CLI) newOpenAIClient(backend cache.Cache) *openai.Client {
	cfg := c.config().OpenAI
	return openai.NewClient(backend, cache.TTLGenerate, openai.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Model:            cfg.Model,
		MaxTokens:        cfg.MaxTokens,
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxDocumentRunes: cfg.MaxDocumentRunes,
		Logger:           c.Logger,
	})
}

// newCache opens the configured cache backend. An unusable file cache
// directory disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config().Cache
	switch cfg.Driver {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect to redis cache: %w", err)
		}
		return rc, nil
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// openStore opens the configured map store. It must be closed.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.config().Store, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/topicmap/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
