package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/query/builder"
	"github.com/satishbabariya/badger-go/query/executor"
)

// NewScalarCommand creates the scalar command.
func NewScalarCommand(s *session) *cobra.Command {
	var fallback string

	cmd := &cobra.Command{
		Use:     "scalar <sql | @file>",
		Short:   "Run a query and print its single value",
		Example: `  badger scalar "SELECT count(*) FROM orders WHERE status = :s" -p s=open`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var def any
			if cmd.Flags().Changed("default") {
				def = fallback
			}

			return s.run(cmd.Context(), args[0], func(ctx context.Context, e *executor.Executor, b builder.QueryBuilder) error {
				q, err := builder.WithScalar(b, def).Build()
				if err != nil {
					return err
				}
				v, err := q.Execute(ctx, e)
				if err != nil {
					return err
				}
				ui.PrintValue(v)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fallback, "default", "", "value printed when the result is NULL or empty")
	return cmd
}
