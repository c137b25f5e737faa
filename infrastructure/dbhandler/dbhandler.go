package dbhandler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
)

const (
	// serialization_failure
	retryableCode = "40001"
	maxAttempts   = 5
)

// DBHandler contains a connection to database.
type DBHandler struct {
	DB      *sql.DB
	Log     *slog.Logger
	Timeout time.Duration
}

func Open(uri string, log *slog.Logger) (*DBHandler, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(1 * time.Minute)
	db.SetConnMaxLifetime(4 * time.Hour)

	return &DBHandler{DB: db, Log: log, Timeout: 30 * time.Second}, nil
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a retryable error is received, the batch is retried.
func (handler DBHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	var results []interface{}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		results, err = handler.tryBatch(opts, commands)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == retryableCode {
			if handler.Log != nil {
				handler.Log.Warn("🟡 retryable postgres error, retrying", "attempt", attempt, "error", err)
			}
			continue
		}
		return results, err
	}
	return results, err
}

func (handler DBHandler) tryBatch(opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {
	ctx := context.Background()
	if handler.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, handler.Timeout)
		defer cancel()
	}

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(ctx, opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}

func (handler DBHandler) Close() error {
	return handler.DB.Close()
}
