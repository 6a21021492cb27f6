package executor

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/satishbabariya/badger-go/internal/debug"
	"github.com/satishbabariya/badger-go/query"
)

// QueryInfo describes a query about to be sent to the driver.
type QueryInfo struct {
	// SQL is the statement with driver bindvars.
	SQL string

	// Args are the bound arguments in bindvar order.
	Args []any

	// Mode is the result shape requested by the prepared query.
	Mode query.Mode

	// Timeout is the deadline applied to the execution.
	Timeout time.Duration

	// Timestamp is when the query started.
	Timestamp time.Time
}

// QueryResult contains the raw driver result of a query.
type QueryResult struct {
	// Rows is the open cursor for row queries.
	Rows *sql.Rows

	// Scalar is the first column of the first row for scalar queries.
	Scalar any

	// RowsAffected is the number of rows affected by a command.
	RowsAffected int64

	// Error is any error that occurred.
	Error error

	// Duration is how long the driver call took. For row queries it covers
	// opening the cursor, not reading it.
	Duration time.Duration
}

// Next is the function to call to continue the middleware chain.
type Next func(ctx context.Context, info QueryInfo) QueryResult

// Middleware is a function that can intercept query execution.
type Middleware func(ctx context.Context, info QueryInfo, next Next) QueryResult

// MiddlewareChain manages a chain of middleware. It is safe for concurrent
// use.
type MiddlewareChain struct {
	mu          sync.RWMutex
	middlewares []Middleware
}

// NewMiddlewareChain creates a new middleware chain.
func NewMiddlewareChain() *MiddlewareChain {
	return &MiddlewareChain{}
}

// Use adds middleware to the chain. Middleware runs in the order added.
func (mc *MiddlewareChain) Use(mw Middleware) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.middlewares = append(mc.middlewares, mw)
}

// Len returns the number of middlewares.
func (mc *MiddlewareChain) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.middlewares)
}

// Execute runs the middleware chain and the final handler.
func (mc *MiddlewareChain) Execute(ctx context.Context, info QueryInfo, handler Next) QueryResult {
	mc.mu.RLock()
	chain := mc.middlewares
	mc.mu.RUnlock()

	info.Timestamp = time.Now()

	final := func(ctx context.Context, info QueryInfo) QueryResult {
		result := handler(ctx, info)
		result.Duration = time.Since(info.Timestamp)
		return result
	}

	var at func(i int) Next
	at = func(i int) Next {
		if i == len(chain) {
			return final
		}
		return func(ctx context.Context, info QueryInfo) QueryResult {
			return chain[i](ctx, info, at(i+1))
		}
	}
	return at(0)(ctx, info)
}

// LoggingMiddleware creates a middleware that logs queries. A nil logger
// logs through the debug logger.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, info QueryInfo, next Next) QueryResult {
		log := logger
		if log == nil {
			log = debug.Logger()
		}

		log.Debug("Query started",
			"mode", info.Mode,
			"sql", info.SQL,
			"args", len(info.Args),
		)

		result := next(ctx, info)

		if result.Error != nil {
			log.Error("Query failed",
				"mode", info.Mode,
				"sql", info.SQL,
				"duration", result.Duration,
				"error", result.Error,
			)
		} else {
			log.Debug("Query completed",
				"mode", info.Mode,
				"duration", result.Duration,
				"rowsAffected", result.RowsAffected,
			)
		}

		return result
	}
}
