package service

import (
	"context"
	"database/sql"
	"errors"
	"esc-cup/internal/apperr"
	"esc-cup/internal/constants"
	"esc-cup/internal/domain"
	"esc-cup/internal/repository"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// AssignRequest carries the optional parts of a bracket update. nil fields are left alone.
type AssignRequest struct {
	BlueTeamID   *int64
	RedTeamID    *int64
	WinnerTeamID *int64
	Score        string
}

// TeamPatch sets or clears slots. Set* false leaves the slot untouched; a nil id clears it.
type TeamPatch struct {
	SetBlue    bool
	BlueTeamID *int64
	SetRed     bool
	RedTeamID  *int64
}

type NewMatch struct {
	Stage      string
	BlueTeamID *int64
	RedTeamID  *int64
}

type BracketService struct {
	tx        *repository.TxRunner
	matchRepo *repository.MatchRepository
	teamRepo  *repository.TeamRepository
	logger    zerolog.Logger
}

func NewBracketService(tx *repository.TxRunner, matchRepo *repository.MatchRepository, teamRepo *repository.TeamRepository, logger zerolog.Logger) *BracketService {
	return &BracketService{tx: tx, matchRepo: matchRepo, teamRepo: teamRepo, logger: logger}
}

func ValidBracketSize(teamCount int) bool {
	switch teamCount {
	case 2, 4, 8, 16:
		return true
	}
	return false
}

// CreateEmptyBracket discards every tournament match and builds a fresh tree for teamCount teams.
// Matches come back final first, then each larger round by order.
func (s *BracketService) CreateEmptyBracket(ctx context.Context, teamCount int) ([]domain.Match, error) {
	if !ValidBracketSize(teamCount) {
		return nil, apperr.Validation("team count must be one of 2, 4, 8, %d; got %d", constants.MaxBracketSize, teamCount)
	}

	var created []domain.Match
	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		matches := s.matchRepo.WithTx(tx)

		removed, err := matches.DeleteTournamentMatches(ctx)
		if err != nil {
			return err
		}
		s.logger.Debug().Int64("removed", removed).Msg("previous bracket cleared")

		var previous []domain.Match
		for round := 2; round <= teamCount; round *= 2 {
			current := make([]domain.Match, 0, round/2)
			for order := 1; order <= round/2; order++ {
				m := domain.Match{
					Stage:      domain.StageLabel(round, order),
					Round:      intPtr(round),
					MatchOrder: intPtr(order),
					Status:     domain.StatusScheduled,
				}
				if previous != nil {
					next := previous[(order+1)/2-1].ID
					m.NextMatchID = &next
				}
				if err := matches.Insert(ctx, &m); err != nil {
					return err
				}
				current = append(current, m)
			}
			created = append(created, current...)
			previous = current
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int("team_count", teamCount).Msg("failed to create bracket")
		return nil, storeError(err, "create bracket", 0)
	}

	s.logger.Info().Int("team_count", teamCount).Int("matches", len(created)).Msg("empty bracket created")
	return created, nil
}

// AssignOrAdvance seeds teams and/or records a winner for matchID. A winner is pushed into
// the successor's slot in the same transaction; concurrent writers on the same row are
// detected by version and the whole unit is retried.
func (s *BracketService) AssignOrAdvance(ctx context.Context, matchID int64, req AssignRequest) (*domain.Match, error) {
	var result *domain.Match

	backoff := retry.WithMaxRetries(constants.BracketTxAttempts-1, retry.NewConstant(constants.BracketRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.tx.Run(ctx, func(tx *sql.Tx) error {
			m, err := s.assignOrAdvance(ctx, tx, matchID, req)
			result = m
			return err
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Debug().Int64("match_id", matchID).Msg("version conflict, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn().Int64("match_id", matchID).Msg("gave up after repeated version conflicts")
			return nil, apperr.Internal("match was modified concurrently, try again", err)
		}
		if !apperr.Is(err, apperr.KindInternal) {
			s.logger.Debug().Err(err).Int64("match_id", matchID).Msg("match update rejected")
		} else {
			s.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to update match")
		}
		return nil, storeError(err, "update match", matchID)
	}

	s.logger.Info().
		Int64("match_id", matchID).
		Str("status", string(result.Status)).
		Str("score", result.Score).
		Msg("match updated")
	return result, nil
}

func (s *BracketService) assignOrAdvance(ctx context.Context, tx *sql.Tx, matchID int64, req AssignRequest) (*domain.Match, error) {
	matches := s.matchRepo.WithTx(tx)
	teams := s.teamRepo.WithTx(tx)

	m, err := matches.Get(ctx, matchID)
	if err != nil {
		return nil, storeError(err, "load match", matchID)
	}

	for _, id := range []*int64{req.BlueTeamID, req.RedTeamID, req.WinnerTeamID} {
		if err := requireTeam(ctx, teams, id); err != nil {
			return nil, err
		}
	}

	if req.BlueTeamID != nil {
		m.BlueTeamID = req.BlueTeamID
	}
	if req.RedTeamID != nil {
		m.RedTeamID = req.RedTeamID
	}

	if req.WinnerTeamID != nil {
		winner := *req.WinnerTeamID
		score, err := resolveScore(m, winner, req.Score)
		if err != nil {
			return nil, err
		}
		m.WinnerTeamID = &winner
		m.Score = score
		m.Status = domain.StatusFinished

		if m.NextMatchID != nil {
			next, err := matches.Get(ctx, *m.NextMatchID)
			if err != nil {
				return nil, storeError(err, "load next match", *m.NextMatchID)
			}
			side := m.SuccessorSide()
			if prev := next.TeamOn(side); prev != nil && *prev != winner {
				s.logger.Warn().
					Int64("next_match_id", next.ID).
					Int64("replaced_team_id", *prev).
					Str("side", string(side)).
					Msg("overwriting team already advanced into next match")
			}
			next.SetTeam(side, &winner)
			if err := matches.Update(ctx, next); err != nil {
				return nil, err
			}
			s.logger.Debug().
				Int64("match_id", m.ID).
				Int64("next_match_id", next.ID).
				Int64("team_id", winner).
				Str("side", string(side)).
				Msg("winner advanced")
		}
	}

	if err := matches.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// resolveScore checks the winner against the seeded slots and fills in a default score.
func resolveScore(m *domain.Match, winner int64, score string) (string, error) {
	isBlue := m.BlueTeamID != nil && *m.BlueTeamID == winner
	isRed := m.RedTeamID != nil && *m.RedTeamID == winner

	if m.BlueTeamID != nil && m.RedTeamID != nil && !isBlue && !isRed {
		return "", apperr.Validation("team %d is not playing in match %d", winner, m.ID)
	}
	if score != "" {
		return score, nil
	}
	switch {
	case isBlue:
		return constants.ScoreBlueWin, nil
	case isRed:
		return constants.ScoreRedWin, nil
	}
	return "", apperr.Validation("score is required when the winner is not seeded in match %d", m.ID)
}

// PatchTeams sets or clears either slot directly, without touching the result.
func (s *BracketService) PatchTeams(ctx context.Context, matchID int64, patch TeamPatch) (*domain.Match, error) {
	var result *domain.Match
	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		matches := s.matchRepo.WithTx(tx)
		teams := s.teamRepo.WithTx(tx)

		m, err := matches.Get(ctx, matchID)
		if err != nil {
			return storeError(err, "load match", matchID)
		}
		if patch.SetBlue {
			if err := requireTeam(ctx, teams, patch.BlueTeamID); err != nil {
				return err
			}
			m.BlueTeamID = patch.BlueTeamID
		}
		if patch.SetRed {
			if err := requireTeam(ctx, teams, patch.RedTeamID); err != nil {
				return err
			}
			m.RedTeamID = patch.RedTeamID
		}
		if err := matches.Update(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, storeError(err, "patch match teams", matchID)
	}

	s.logger.Info().Int64("match_id", matchID).Msg("match teams patched")
	return result, nil
}

// CreateMatch stores an ad hoc match outside the bracket.
func (s *BracketService) CreateMatch(ctx context.Context, req NewMatch) (*domain.Match, error) {
	m := &domain.Match{
		Stage:      req.Stage,
		BlueTeamID: req.BlueTeamID,
		RedTeamID:  req.RedTeamID,
		Status:     domain.StatusScheduled,
	}

	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		teams := s.teamRepo.WithTx(tx)
		for _, id := range []*int64{req.BlueTeamID, req.RedTeamID} {
			if err := requireTeam(ctx, teams, id); err != nil {
				return err
			}
		}
		return s.matchRepo.WithTx(tx).Insert(ctx, m)
	})
	if err != nil {
		return nil, storeError(err, "create match", 0)
	}

	s.logger.Info().Int64("match_id", m.ID).Str("stage", m.Stage).Msg("ad hoc match created")
	return m, nil
}

// DeleteMatch removes one match and its details. Predecessors of a deleted bracket match
// lose their successor link.
func (s *BracketService) DeleteMatch(ctx context.Context, matchID int64) error {
	var tournament bool
	err := s.tx.Run(ctx, func(tx *sql.Tx) error {
		matches := s.matchRepo.WithTx(tx)
		m, err := matches.Get(ctx, matchID)
		if err != nil {
			return err
		}
		tournament = m.IsTournament()
		return matches.Delete(ctx, matchID)
	})
	if err != nil {
		return storeError(err, "delete match", matchID)
	}
	s.logger.Info().Int64("match_id", matchID).Bool("tournament", tournament).Msg("match deleted")
	return nil
}

// GetMatch loads one match together with its detail records.
func (s *BracketService) GetMatch(ctx context.Context, matchID int64) (*domain.Match, error) {
	m, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return nil, storeError(err, "load match", matchID)
	}
	details, err := s.matchRepo.ListDetails(ctx, matchID)
	if err != nil {
		return nil, storeError(err, "load match details", matchID)
	}
	m.Details = details
	return m, nil
}

func (s *BracketService) ListMatches(ctx context.Context) ([]domain.Match, error) {
	matches, err := s.matchRepo.ListOrdered(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list matches", err)
	}
	return matches, nil
}

func requireTeam(ctx context.Context, teams *repository.TeamRepository, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := teams.GetByID(ctx, *id); err != nil {
		return storeError(err, "load team", *id)
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

// TeamNames maps every team id to its display name.
func (s *BracketService) TeamNames(ctx context.Context) (map[int64]string, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}
	names := make(map[int64]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}
