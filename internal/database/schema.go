package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const studentTableDDL = `
CREATE TABLE IF NOT EXISTS STUDENT (
    ID INT,
    NAME TEXT,
    SUBJECT TEXT,
    SCORE INT
)`

// Provision creates the STUDENT table when it does not exist yet.
func (db *DB) Provision(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, studentTableDDL); err != nil {
		return fmt.Errorf("failed to create STUDENT table: %w", err)
	}

	log.Info().Str("table", "STUDENT").Msg("Table provisioned")
	return nil
}
