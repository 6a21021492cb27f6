package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/badger-go/cli/internal/ui"
	"github.com/satishbabariya/badger-go/query/builder"
	"github.com/satishbabariya/badger-go/query/executor"
	"github.com/satishbabariya/badger-go/query/mapper"
)

// record is one result row as displayed.
type record struct {
	columns []string
	values  []any
}

func recordMapper(row mapper.Row) (record, error) {
	cols := row.Columns()
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i], _ = row.Value(c)
	}
	return record{columns: cols, values: values}, nil
}

// NewQueryCommand creates the query command.
func NewQueryCommand(s *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <sql | @file>",
		Short: "Run a query and print its rows",
		Example: `  badger query "SELECT id, email FROM users WHERE id > :min" -p min:int=10
  badger query @reports/daily.sql -o markdown --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd.Context(), args[0], func(ctx context.Context, e *executor.Executor, b builder.QueryBuilder) error {
				q, err := builder.WithMapper(b, recordMapper).Build()
				if err != nil {
					return err
				}
				seq, err := q.Execute(ctx, e)
				if err != nil {
					return err
				}

				var (
					headers []string
					rows    [][]any
				)
				for r, err := range seq.All() {
					if err != nil {
						return err
					}
					if headers == nil {
						headers = r.columns
					}
					rows = append(rows, r.values)
					if limit > 0 && len(rows) >= limit {
						break
					}
				}

				if len(rows) == 0 {
					ui.PrintInfo("No rows")
					return nil
				}
				return ui.PrintRows(s.cfg.Format, headers, rows)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many rows")
	return cmd
}
