package service

import (
	"context"
	"database/sql"
	"esc-cup/internal/apperr"
	"esc-cup/internal/domain"
	"esc-cup/internal/repository"
	"esc-cup/internal/roster"

	"github.com/rs/zerolog"
)

type TeamWithPlayers struct {
	Team    domain.Team
	Players []domain.Player
}

// Assignment moves one player. A nil TeamID sends the player back to the draft pool.
type Assignment struct {
	PlayerID int64
	TeamID   *int64
}

type ImportSummary struct {
	Teams   int
	Players int
}

type DraftService struct {
	tx         *repository.TxRunner
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository
	logger     zerolog.Logger
}

func NewDraftService(tx *repository.TxRunner, teamRepo *repository.TeamRepository, playerRepo *repository.PlayerRepository, logger zerolog.Logger) *DraftService {
	return &DraftService{tx: tx, teamRepo: teamRepo, playerRepo: playerRepo, logger: logger}
}

func (s *DraftService) ListTeamsWithPlayers(ctx context.Context) ([]TeamWithPlayers, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}
	byTeam, err := s.playerRepo.ListAssigned(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list team players", err)
	}

	result := make([]TeamWithPlayers, len(teams))
	for i, t := range teams {
		result[i] = TeamWithPlayers{Team: t, Players: byTeam[t.ID]}
	}
	return result, nil
}

func (s *DraftService) ListDraftPool(ctx context.Context) ([]domain.Player, error) {
	players, err := s.playerRepo.ListDraftPool(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list draft pool", err)
	}
	return players, nil
}

// AssignPlayers applies the whole batch or nothing.
func (s *DraftService) AssignPlayers(ctx context.Context, assignments []Assignment) error {
	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		teams := s.teamRepo.WithTx(tx)
		players := s.playerRepo.WithTx(tx)

		for _, a := range assignments {
			if err := requireTeam(ctx, teams, a.TeamID); err != nil {
				return err
			}
			if err := players.AssignTeam(ctx, a.PlayerID, a.TeamID); err != nil {
				return storeError(err, "assign player", a.PlayerID)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("assignments", len(assignments)).Msg("draft assignment rejected")
		return storeError(err, "assign players", 0)
	}

	s.logger.Info().Int("assignments", len(assignments)).Msg("draft assignments saved")
	return nil
}

// ImportRoster creates every team and player in r in one transaction.
func (s *DraftService) ImportRoster(ctx context.Context, r *roster.Roster) (ImportSummary, error) {
	if err := r.Validate(); err != nil {
		return ImportSummary{}, apperr.Validation("invalid roster: %v", err)
	}

	var summary ImportSummary
	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		teams := s.teamRepo.WithTx(tx)
		players := s.playerRepo.WithTx(tx)

		create := func(p roster.Player, teamID *int64) error {
			_, err := players.Create(ctx, &domain.Player{
				Name:        p.Name,
				Tier:        p.Tier,
				HighestTier: p.HighestTier,
				Position:    p.Position,
				OpggURL:     p.OpggURL,
				TeamID:      teamID,
			})
			if err == nil {
				summary.Players++
			}
			return err
		}

		for _, t := range r.Teams {
			team, err := teams.Create(ctx, t.Name, t.DisplayOrder)
			if err != nil {
				return err
			}
			summary.Teams++
			for _, p := range t.Players {
				if err := create(p, &team.ID); err != nil {
					return err
				}
			}
		}
		for _, p := range r.Pool {
			if err := create(p, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, apperr.Internal("failed to import roster", err)
	}

	s.logger.Info().Int("teams", summary.Teams).Int("players", summary.Players).Msg("roster imported")
	return summary, nil
}
