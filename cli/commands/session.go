package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"

	"github.com/satishbabariya/badger-go/cli/internal/config"
	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/cli/internal/watch"
	"github.com/satishbabariya/badger-go/database"
	"github.com/satishbabariya/badger-go/query/builder"
	"github.com/satishbabariya/badger-go/query/executor"
)

// session is the state shared by the commands of one invocation.
type session struct {
	opts *options
	cfg  *config.Config
}

// runFunc executes one prepared statement.
type runFunc func(ctx context.Context, e *executor.Executor, b builder.QueryBuilder) error

func (s *session) open(ctx context.Context) (database.Adapter, *executor.Executor, error) {
	dbcfg := s.cfg.Database()
	if dbcfg.URL == "" {
		return nil, nil, fmt.Errorf("no database configured: use --url, database_url in .badger.yaml or BADGER_DATABASE_URL")
	}
	if dbcfg.Provider == "" {
		return nil, nil, fmt.Errorf("cannot infer the provider from the url, use --provider")
	}

	adapter, err := database.Open(ctx, dbcfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []executor.Option{executor.WithTimeout(s.cfg.Timeout)}
	if s.cfg.Debug {
		opts = append(opts, executor.WithMiddleware(executor.LoggingMiddleware(nil)))
	}
	return adapter, executor.New(adapter, adapter.GetDialect(), opts...), nil
}

// builder prepares sqlText with the -p parameters.
func (s *session) builder(sqlText string) (builder.QueryBuilder, error) {
	b, err := applyParams(builder.New().WithSql(sqlText), s.opts.params)
	if err != nil {
		return b, err
	}
	return b, b.Err()
}

// run executes fn once, or on every change of the SQL file with --watch.
func (s *session) run(ctx context.Context, source string, fn runFunc) error {
	adapter, e, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer adapter.Disconnect(ctx)

	once := func() error {
		sqlText, err := readSQL(source)
		if err != nil {
			return err
		}
		b, err := s.builder(sqlText)
		if err != nil {
			return err
		}
		return fn(ctx, e, b)
	}

	if !s.opts.watch {
		return once()
	}

	path, ok := sqlFile(source)
	if !ok {
		return fmt.Errorf("--watch needs a SQL file, got inline SQL")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.NewWatcher(path, func() error {
		ui.PrintSection(path)
		return once()
	}, func(err error) {
		ui.PrintError("%v", err)
	})
	if err != nil {
		return err
	}

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", path)
	return w.Run(ctx)
}

// sqlFile reports whether source names a SQL file: either @path or an
// existing file ending in .sql.
func sqlFile(source string) (string, bool) {
	if path, ok := strings.CutPrefix(source, "@"); ok {
		return path, true
	}
	if strings.HasSuffix(strings.ToLower(source), ".sql") {
		if ok, _ := afero.Exists(config.AppFs, source); ok {
			return source, true
		}
	}
	return "", false
}

func readSQL(source string) (string, error) {
	path, ok := sqlFile(source)
	if !ok {
		return source, nil
	}
	data, err := afero.ReadFile(config.AppFs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read SQL file: %w", err)
	}
	return string(data), nil
}
