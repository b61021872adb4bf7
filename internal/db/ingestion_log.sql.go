package db

import (
	"context"
	"time"
)

const createIngestionLog = `
INSERT INTO ingestion_log (id, game_id, match_id, stage, detail_count, skipped_participants, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateIngestionLogParams struct {
	ID                  string
	GameID              string
	MatchID             int64
	Stage               string
	DetailCount         int64
	SkippedParticipants string
	CreatedAt           time.Time
}

func (q *Queries) CreateIngestionLog(ctx context.Context, arg CreateIngestionLogParams) error {
	_, err := q.db.ExecContext(ctx, createIngestionLog,
		arg.ID,
		arg.GameID,
		arg.MatchID,
		arg.Stage,
		arg.DetailCount,
		arg.SkippedParticipants,
		arg.CreatedAt,
	)
	return err
}

const listIngestionLogsByGame = `
SELECT id, game_id, match_id, stage, detail_count, skipped_participants, created_at
FROM ingestion_log
WHERE game_id = ?
ORDER BY created_at ASC
`

func (q *Queries) ListIngestionLogsByGame(ctx context.Context, gameID string) ([]IngestionLog, error) {
	rows, err := q.db.QueryContext(ctx, listIngestionLogsByGame, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []IngestionLog
	for rows.Next() {
		var i IngestionLog
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.MatchID,
			&i.Stage,
			&i.DetailCount,
			&i.SkippedParticipants,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
