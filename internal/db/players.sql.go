package db

import (
	"context"
	"time"
)

const playerColumns = `id, name, tier, highest_tier, position, opgg_url, team_id, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Tier,
		&i.HighestTier,
		&i.Position,
		&i.OpggUrl,
		&i.TeamID,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const createPlayer = `
INSERT INTO players (name, tier, highest_tier, position, opgg_url, team_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + playerColumns

type CreatePlayerParams struct {
	Name        string
	Tier        *string
	HighestTier *string
	Position    *string
	OpggUrl     *string
	TeamID      *int64
	CreatedAt   time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, createPlayer,
		arg.Name,
		arg.Tier,
		arg.HighestTier,
		arg.Position,
		arg.OpggUrl,
		arg.TeamID,
		arg.CreatedAt,
	)
	return scanPlayer(row)
}

const getPlayer = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

// Names are not unique; the oldest row wins.
const getPlayerByName = `
SELECT ` + playerColumns + `
FROM players
WHERE name = ?
ORDER BY id ASC
LIMIT 1
`

func (q *Queries) GetPlayerByName(ctx context.Context, name string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByName, name))
}

const listPlayersByTeam = `
SELECT ` + playerColumns + `
FROM players
WHERE team_id = ?
ORDER BY id ASC
`

func (q *Queries) ListPlayersByTeam(ctx context.Context, teamID int64) ([]Player, error) {
	return q.queryPlayers(ctx, listPlayersByTeam, teamID)
}

const listAssignedPlayers = `
SELECT ` + playerColumns + `
FROM players
WHERE team_id IS NOT NULL
ORDER BY team_id ASC, id ASC
`

func (q *Queries) ListAssignedPlayers(ctx context.Context) ([]Player, error) {
	return q.queryPlayers(ctx, listAssignedPlayers)
}

const listDraftPool = `
SELECT ` + playerColumns + `
FROM players
WHERE team_id IS NULL
ORDER BY id ASC
`

func (q *Queries) ListDraftPool(ctx context.Context) ([]Player, error) {
	return q.queryPlayers(ctx, listDraftPool)
}

const updatePlayerTeam = `
UPDATE players
SET team_id = ?
WHERE id = ?
`

type UpdatePlayerTeamParams struct {
	TeamID *int64
	ID     int64
}

func (q *Queries) UpdatePlayerTeam(ctx context.Context, arg UpdatePlayerTeamParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerTeam, arg.TeamID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
