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

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) WithTx(tx *sql.Tx) *PlayerRepository {
	clone := *r
	clone.queries = r.queries.WithTx(tx)
	return &clone
}

// FindByName matches the exact, case-sensitive name. Returns ErrPlayerNotFound when nobody has it.
func (r *PlayerRepository) FindByName(ctx context.Context, name string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("name", name).Msg("player not registered")
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player %q: %w", name, err)
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of team %d: %w", teamID, err)
	}
	return toDomainPlayers(players), nil
}

// ListAssigned returns every player with a team, grouped by team id.
func (r *PlayerRepository) ListAssigned(ctx context.Context) (map[int64][]domain.Player, error) {
	players, err := r.queries.ListAssignedPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned players: %w", err)
	}

	byTeam := make(map[int64][]domain.Player)
	for _, p := range toDomainPlayers(players) {
		byTeam[*p.TeamID] = append(byTeam[*p.TeamID], p)
	}
	return byTeam, nil
}

func (r *PlayerRepository) ListDraftPool(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListDraftPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft pool: %w", err)
	}
	return toDomainPlayers(players), nil
}

// AssignTeam moves the player onto teamID, or back into the draft pool when teamID is nil.
func (r *PlayerRepository) AssignTeam(ctx context.Context, playerID int64, teamID *int64) error {
	affected, err := r.queries.UpdatePlayerTeam(ctx, db.UpdatePlayerTeamParams{
		TeamID: teamID,
		ID:     playerID,
	})
	if err != nil {
		return fmt.Errorf("failed to assign player %d: %w", playerID, err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	created, err := r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		Name:        player.Name,
		Tier:        optionalString(player.Tier),
		HighestTier: optionalString(player.HighestTier),
		Position:    optionalString(player.Position),
		OpggUrl:     optionalString(player.OpggURL),
		TeamID:      player.TeamID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player %q: %w", player.Name, err)
	}
	p := toDomainPlayer(created)
	return &p, nil
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		ID:          p.ID,
		Name:        p.Name,
		Tier:        derefString(p.Tier),
		HighestTier: derefString(p.HighestTier),
		Position:    derefString(p.Position),
		OpggURL:     derefString(p.OpggUrl),
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt,
	}
}

func toDomainPlayers(players []db.Player) []domain.Player {
	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = toDomainPlayer(p)
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
