package db

import (
	"context"
	"time"
)

const matchColumns = `id, stage, round, match_order, next_match_id,
	blue_team_id, red_team_id, winner_team_id, score, status, queue_id, game_id, match_date,
	blue_baron_kills, blue_dragon_kills, blue_tower_kills, blue_bans,
	red_baron_kills, red_dragon_kills, red_tower_kills, red_bans,
	version, created_at, updated_at`

func scanMatch(row rowScanner) (Match, error) {
	var i Match
	err := row.Scan(
		&i.ID,
		&i.Stage,
		&i.Round,
		&i.MatchOrder,
		&i.NextMatchID,
		&i.BlueTeamID,
		&i.RedTeamID,
		&i.WinnerTeamID,
		&i.Score,
		&i.Status,
		&i.QueueID,
		&i.GameID,
		&i.MatchDate,
		&i.BlueBaronKills,
		&i.BlueDragonKills,
		&i.BlueTowerKills,
		&i.BlueBans,
		&i.RedBaronKills,
		&i.RedDragonKills,
		&i.RedTowerKills,
		&i.RedBans,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMatch = `
INSERT INTO matches (
	stage, round, match_order, next_match_id,
	blue_team_id, red_team_id, winner_team_id, score, status, queue_id, game_id, match_date,
	blue_baron_kills, blue_dragon_kills, blue_tower_kills, blue_bans,
	red_baron_kills, red_dragon_kills, red_tower_kills, red_bans,
	version, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
RETURNING ` + matchColumns

type CreateMatchParams struct {
	Stage           string
	Round           *int64
	MatchOrder      *int64
	NextMatchID     *int64
	BlueTeamID      *int64
	RedTeamID       *int64
	WinnerTeamID    *int64
	Score           string
	Status          string
	QueueID         int64
	GameID          *string
	MatchDate       *time.Time
	BlueBaronKills  int64
	BlueDragonKills int64
	BlueTowerKills  int64
	BlueBans        string
	RedBaronKills   int64
	RedDragonKills  int64
	RedTowerKills   int64
	RedBans         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) (Match, error) {
	row := q.db.QueryRowContext(ctx, createMatch,
		arg.Stage,
		arg.Round,
		arg.MatchOrder,
		arg.NextMatchID,
		arg.BlueTeamID,
		arg.RedTeamID,
		arg.WinnerTeamID,
		arg.Score,
		arg.Status,
		arg.QueueID,
		arg.GameID,
		arg.MatchDate,
		arg.BlueBaronKills,
		arg.BlueDragonKills,
		arg.BlueTowerKills,
		arg.BlueBans,
		arg.RedBaronKills,
		arg.RedDragonKills,
		arg.RedTowerKills,
		arg.RedBans,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMatch(row)
}

const getMatch = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`

func (q *Queries) GetMatch(ctx context.Context, id int64) (Match, error) {
	return scanMatch(q.db.QueryRowContext(ctx, getMatch, id))
}

const listMatches = `SELECT ` + matchColumns + ` FROM matches ORDER BY id ASC`

func (q *Queries) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		i, err := scanMatch(rows)
		if err != nil {
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

// Only the assignable columns are written; bracket shape and ingestion
// stats are fixed at insert time.
const updateMatch = `
UPDATE matches
SET stage = ?,
    blue_team_id = ?,
    red_team_id = ?,
    winner_team_id = ?,
    score = ?,
    status = ?,
    version = version + 1,
    updated_at = ?
WHERE id = ? AND version = ?
`

type UpdateMatchParams struct {
	Stage        string
	BlueTeamID   *int64
	RedTeamID    *int64
	WinnerTeamID *int64
	Score        string
	Status       string
	UpdatedAt    time.Time
	ID           int64
	Version      int64
}

func (q *Queries) UpdateMatch(ctx context.Context, arg UpdateMatchParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMatch,
		arg.Stage,
		arg.BlueTeamID,
		arg.RedTeamID,
		arg.WinnerTeamID,
		arg.Score,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
		arg.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteMatch = `DELETE FROM matches WHERE id = ?`

func (q *Queries) DeleteMatch(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMatch, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTournamentMatches = `DELETE FROM matches WHERE round IS NOT NULL`

func (q *Queries) DeleteTournamentMatches(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTournamentMatches)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
