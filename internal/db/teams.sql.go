package db

import (
	"context"
	"time"
)

const createTeam = `
INSERT INTO teams (name, display_order, created_at)
VALUES (?, ?, ?)
RETURNING id, name, display_order, created_at
`

type CreateTeamParams struct {
	Name         string
	DisplayOrder int64
	CreatedAt    time.Time
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam, arg.Name, arg.DisplayOrder, arg.CreatedAt)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.DisplayOrder,
		&i.CreatedAt,
	)
	return i, err
}

const getTeam = `
SELECT id, name, display_order, created_at
FROM teams
WHERE id = ?
`

func (q *Queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.DisplayOrder,
		&i.CreatedAt,
	)
	return i, err
}

const listTeams = `
SELECT id, name, display_order, created_at
FROM teams
ORDER BY display_order ASC, id ASC
`

func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.DisplayOrder,
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
