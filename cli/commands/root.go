// Package commands implements the badger CLI commands.
package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	// Database adapters
	_ "github.com/satishbabariya/badger-go/database/mysql"
	_ "github.com/satishbabariya/badger-go/database/postgres"
	_ "github.com/satishbabariya/badger-go/database/sqlite"

	"github.com/satishbabariya/badger-go/cli/internal/config"
	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/cli/internal/version"
	"github.com/satishbabariya/badger-go/internal/debug"
)

// options holds the persistent flags.
type options struct {
	configFile string
	url        string
	provider   string
	format     string
	timeout    time.Duration
	debug      bool
	watch      bool
	params     []string
}

// Execute is the main entry point for the CLI
func Execute() error {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// NewRootCommand creates the badger command tree.
func NewRootCommand() *cobra.Command {
	s := &session{opts: &options{}}

	cmd := &cobra.Command{
		Use:   "badger",
		Short: "Run parameterized SQL queries",
		Long: `badger runs SQL with named :parameters against PostgreSQL, MySQL or SQLite
and prints typed results.

Parameters are passed with -p name=value. A type may follow the name:
  -p id:int=7  -p price:decimal=9.99  -p ids:ints=1,2,3  -p code:str(8)=AB-1

Settings are read from .badger.yaml, BADGER_* environment variables and
.env files; flags take precedence.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.configure(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&s.opts.configFile, "config", "", "config file (default .badger.yaml)")
	flags.StringVar(&s.opts.url, "url", "", "database connection string")
	flags.StringVar(&s.opts.provider, "provider", "", "database provider: postgres, pgx, mysql or sqlite")
	flags.StringVarP(&s.opts.format, "format", "o", "", "output format: table, json or markdown")
	flags.DurationVar(&s.opts.timeout, "timeout", 0, "query timeout (default 30s)")
	flags.BoolVar(&s.opts.debug, "debug", false, "log queries to stderr")
	flags.StringArrayVarP(&s.opts.params, "param", "p", nil, "query parameter as name[:type]=value")
	flags.BoolVarP(&s.opts.watch, "watch", "w", false, "re-run when the SQL file changes")

	cmd.AddCommand(NewQueryCommand(s))
	cmd.AddCommand(NewScalarCommand(s))
	cmd.AddCommand(NewExecCommand(s))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// configure loads the config and applies flag overrides.
func (s *session) configure(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(s.opts.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.DatabaseURL = s.opts.url
	}
	if flags.Changed("provider") {
		cfg.Provider = s.opts.provider
	}
	if flags.Changed("format") {
		cfg.Format = s.opts.format
	}
	if flags.Changed("timeout") {
		cfg.Timeout = s.opts.timeout
	}
	if flags.Changed("debug") {
		cfg.Debug = s.opts.debug
	}

	debug.Init(cfg.Debug)
	if cfg.File != "" {
		debug.Debug("Loaded config", "file", cfg.File)
	}

	if err := version.Check(version.Version, cfg.RequiredVersion); err != nil {
		return err
	}

	s.cfg = cfg
	return nil
}
