package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docver/pkg/buildinfo"
	"github.com/matzehuels/docver/pkg/config"
	"github.com/matzehuels/docver/pkg/integrations"
	"github.com/matzehuels/docver/pkg/integrations/artifactory"
	"github.com/matzehuels/docver/pkg/pipeline"
	"github.com/matzehuels/docver/pkg/resolver"
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
	baseURL    string
	group      string
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
		Use:   "docver",
		Short: "docver fills artifact version placeholders in documentation",
		Long: `docver replaces placeholders such as <arachne-core-version> in documentation
with the latest version published to an Artifactory repository.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/docver/config.toml)")
	flags.StringVar(&c.baseURL, "base-url", "", "repository base URL (overrides config)")
	flags.StringVar(&c.group, "group", "", "artifact group after /org/ in repository paths (overrides config)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig layers defaults, the config file, the environment and flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if cmd.Flags().Changed("group") {
		cfg.Group = c.group
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "base_url", cfg.BaseURL, "group", cfg.Group)
	return cfg, nil
}

// settings returns the loaded configuration, or the defaults before
// PersistentPreRunE has run.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newResolver wires the repository client and resolver from the config.
func (c *CLI) newResolver(logger *log.Logger) *resolver.Resolver {
	cfg := c.settings()
	client := artifactory.NewClient(cfg.BaseURL, integrations.NewHTTPClient(cfg.Timeout))
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return resolver.New(client, cfg.Group, resolver.WithLogger(logger))
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	cfg := c.settings()
	r := pipeline.NewRunner(c.newResolver(logger), cfg.Marker(), logger)
	r.Concurrency = cfg.Concurrency
	return r
}
