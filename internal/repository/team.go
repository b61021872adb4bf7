package repository

import (
	"context"
	"database/sql"
	"errors"
	"esc-cup/internal/db"
	"esc-cup/internal/domain"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type TeamRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *TeamRepository) WithTx(tx *sql.Tx) *TeamRepository {
	clone := *r
	clone.queries = r.queries.WithTx(tx)
	return &clone
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	team, err := r.queries.GetTeam(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	t := toDomainTeam(team)
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := r.queries.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	result := make([]domain.Team, len(teams))
	for i, t := range teams {
		result[i] = toDomainTeam(t)
	}
	return result, nil
}

func (r *TeamRepository) Create(ctx context.Context, name string, displayOrder int) (*domain.Team, error) {
	team, err := r.queries.CreateTeam(ctx, db.CreateTeamParams{
		Name:         name,
		DisplayOrder: int64(displayOrder),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create team %q: %w", name, err)
	}

	r.logger.Debug().Int64("team_id", team.ID).Str("name", name).Msg("team created")
	t := toDomainTeam(team)
	return &t, nil
}

func toDomainTeam(t db.Team) domain.Team {
	return domain.Team{
		ID:           t.ID,
		Name:         t.Name,
		DisplayOrder: int(t.DisplayOrder),
		CreatedAt:    t.CreatedAt,
	}
}
