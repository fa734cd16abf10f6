package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Execute runs one statement inside a transaction. The transaction is committed
// only after every row has been read and rolled back on any failure.
func (db *DB) Execute(ctx context.Context, sql string) (result *Result, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Warn().Err(rbErr).Msg("Rollback failed")
		}
	}()

	// Exec mode uses the extended protocol without a prepared statement, which
	// refuses multi-statement strings.
	rows, err := tx.Query(ctx, sql, pgx.QueryExecModeExec)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}

	result, err = collect(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func collect(rows pgx.Rows) (*Result, error) {
	defer rows.Close()

	result := &Result{
		Columns: []string{},
		Rows:    [][]any{},
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	for _, field := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, field.Name)
	}

	rows.Close()

	// Rows errors catch
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	tag := rows.CommandTag()
	result.RowsAffected = tag.RowsAffected()
	result.CommandTag = tag.String()

	return result, nil
}
