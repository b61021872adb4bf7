package repository

import (
	"context"
	"database/sql"
	"esc-cup/internal/db"
	"fmt"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type IngestionLogEntry struct {
	ID          string
	GameID      string
	MatchID     int64
	Stage       string
	DetailCount int
	SkippedIDs  []int
	CreatedAt   time.Time
}

type IngestionLogRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewIngestionLogRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *IngestionLogRepository {
	return &IngestionLogRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *IngestionLogRepository) WithTx(tx *sql.Tx) *IngestionLogRepository {
	clone := *r
	clone.queries = r.queries.WithTx(tx)
	return &clone
}

func (r *IngestionLogRepository) Insert(ctx context.Context, entry *IngestionLogEntry) error {
	if entry.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		entry.ID = id
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	err := r.queries.CreateIngestionLog(ctx, db.CreateIngestionLogParams{
		ID:                  entry.ID,
		GameID:              entry.GameID,
		MatchID:             entry.MatchID,
		Stage:               entry.Stage,
		DetailCount:         int64(entry.DetailCount),
		SkippedParticipants: joinIDs(entry.SkippedIDs),
		CreatedAt:           entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert ingestion log for %s: %w", entry.GameID, err)
	}
	return nil
}

func (r *IngestionLogRepository) ListByGame(ctx context.Context, gameID string) ([]IngestionLogEntry, error) {
	rows, err := r.queries.ListIngestionLogsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion logs for %s: %w", gameID, err)
	}

	entries := make([]IngestionLogEntry, len(rows))
	for i, row := range rows {
		entries[i] = IngestionLogEntry{
			ID:          row.ID,
			GameID:      row.GameID,
			MatchID:     row.MatchID,
			Stage:       row.Stage,
			DetailCount: int(row.DetailCount),
			SkippedIDs:  splitIDs(row.SkippedParticipants),
			CreatedAt:   row.CreatedAt,
		}
	}
	return entries, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func splitIDs(raw string) []int {
	if raw == "" {
		return nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.Atoi(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
