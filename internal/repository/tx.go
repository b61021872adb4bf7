package repository

import (
	"context"
	"database/sql"
	"errors"
	"esc-cup/internal/constants"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrVersionConflict = errors.New("match was modified concurrently")
)

type TxRunner struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTxRunner(sqlDB *sql.DB, logger zerolog.Logger) *TxRunner {
	return &TxRunner{db: sqlDB, logger: logger}
}

// Run executes fn inside a transaction bounded by the database timeout. fn's error rolls everything back and is returned as is.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
