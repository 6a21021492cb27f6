package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/query/builder"
	"github.com/satishbabariya/badger-go/query/executor"
)

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message}, &ok)
	return ok, err
}

// interactive reports whether stdin is a terminal.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewExecCommand creates the exec command.
func NewExecCommand(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "exec <sql | @file>",
		Short: "Run a statement and print the affected row count",
		Example: `  badger exec "UPDATE orders SET status = :s WHERE id IN (:ids)" -p s=closed -p ids:ints=4,8
  badger exec @migrations/backfill.sql --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && interactive() {
				ok, err := confirm(fmt.Sprintf("Execute statement on %s?", s.cfg.Database().Provider))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintWarning("Aborted")
					return nil
				}
			}

			return s.run(cmd.Context(), args[0], func(ctx context.Context, e *executor.Executor, b builder.QueryBuilder) error {
				q, err := b.Build()
				if err != nil {
					return err
				}
				n, err := q.Execute(ctx, e)
				if err != nil {
					return err
				}
				ui.PrintSuccess("%d rows affected", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
