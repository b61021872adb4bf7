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

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MatchRepository) WithTx(tx *sql.Tx) *MatchRepository {
	clone := *r
	clone.queries = r.queries.WithTx(tx)
	return &clone
}

// Get loads the match row without its details.
func (r *MatchRepository) Get(ctx context.Context, id int64) (*domain.Match, error) {
	row, err := r.queries.GetMatch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	m := toDomainMatch(row)
	return &m, nil
}

// Insert stores m and fills in its id, version and timestamps.
func (r *MatchRepository) Insert(ctx context.Context, m *domain.Match) error {
	now := time.Now()
	if m.Status == "" {
		m.Status = domain.StatusScheduled
	}

	row, err := r.queries.CreateMatch(ctx, db.CreateMatchParams{
		Stage:           m.Stage,
		Round:           toInt64Ptr(m.Round),
		MatchOrder:      toInt64Ptr(m.MatchOrder),
		NextMatchID:     m.NextMatchID,
		BlueTeamID:      m.BlueTeamID,
		RedTeamID:       m.RedTeamID,
		WinnerTeamID:    m.WinnerTeamID,
		Score:           m.Score,
		Status:          string(m.Status),
		QueueID:         int64(m.QueueID),
		GameID:          optionalString(m.GameID),
		MatchDate:       m.MatchDate,
		BlueBaronKills:  int64(m.Blue.BaronKills),
		BlueDragonKills: int64(m.Blue.DragonKills),
		BlueTowerKills:  int64(m.Blue.TowerKills),
		BlueBans:        m.Blue.Bans,
		RedBaronKills:   int64(m.Red.BaronKills),
		RedDragonKills:  int64(m.Red.DragonKills),
		RedTowerKills:   int64(m.Red.TowerKills),
		RedBans:         m.Red.Bans,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	m.ID = row.ID
	m.Version = row.Version
	m.CreatedAt = row.CreatedAt
	m.UpdatedAt = row.UpdatedAt
	return nil
}

// InsertWithDetails stores the match and every detail row. Callers wrap it in a
// transaction so a failing detail leaves nothing behind.
func (r *MatchRepository) InsertWithDetails(ctx context.Context, m *domain.Match) error {
	if err := r.Insert(ctx, m); err != nil {
		return err
	}

	for i := range m.Details {
		d := &m.Details[i]
		d.MatchID = m.ID
		if err := r.queries.CreateMatchDetail(ctx, toDetailParams(d)); err != nil {
			return fmt.Errorf("failed to insert detail %d of match %d: %w", i, m.ID, err)
		}
	}

	r.logger.Debug().Int64("match_id", m.ID).Int("details", len(m.Details)).Msg("match stored with details")
	return nil
}

// Update writes the assignable fields of m if nobody changed the row since m was read.
// A stale m yields ErrVersionConflict; on success m.Version is bumped.
func (r *MatchRepository) Update(ctx context.Context, m *domain.Match) error {
	now := time.Now()
	affected, err := r.queries.UpdateMatch(ctx, db.UpdateMatchParams{
		Stage:        m.Stage,
		BlueTeamID:   m.BlueTeamID,
		RedTeamID:    m.RedTeamID,
		WinnerTeamID: m.WinnerTeamID,
		Score:        m.Score,
		Status:       string(m.Status),
		UpdatedAt:    now,
		ID:           m.ID,
		Version:      m.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}

	if affected == 0 {
		if _, err := r.queries.GetMatch(ctx, m.ID); errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		r.logger.Warn().Int64("match_id", m.ID).Int64("version", m.Version).Msg("stale match version")
		return ErrVersionConflict
	}

	m.Version++
	m.UpdatedAt = now
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteMatch(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// DeleteTournamentMatches removes every match that has a round. Ad hoc matches survive.
func (r *MatchRepository) DeleteTournamentMatches(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteTournamentMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tournament matches: %w", err)
	}
	return n, nil
}

// ListOrdered returns all matches by ascending id with their details attached.
func (r *MatchRepository) ListOrdered(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.queries.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	details, err := r.queries.ListMatchDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list match details: %w", err)
	}

	byMatch := make(map[int64][]domain.MatchDetail)
	for _, d := range details {
		byMatch[d.MatchID] = append(byMatch[d.MatchID], toDomainDetail(d))
	}

	matches := make([]domain.Match, len(rows))
	for i, row := range rows {
		matches[i] = toDomainMatch(row)
		matches[i].Details = byMatch[row.ID]
	}
	return matches, nil
}

func (r *MatchRepository) ListDetails(ctx context.Context, matchID int64) ([]domain.MatchDetail, error) {
	rows, err := r.queries.ListMatchDetailsByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list details of match %d: %w", matchID, err)
	}

	details := make([]domain.MatchDetail, len(rows))
	for i, row := range rows {
		details[i] = toDomainDetail(row)
	}
	return details, nil
}

func toDomainMatch(row db.Match) domain.Match {
	return domain.Match{
		ID:           row.ID,
		Stage:        row.Stage,
		Round:        toIntPtr(row.Round),
		MatchOrder:   toIntPtr(row.MatchOrder),
		NextMatchID:  row.NextMatchID,
		BlueTeamID:   row.BlueTeamID,
		RedTeamID:    row.RedTeamID,
		WinnerTeamID: row.WinnerTeamID,
		Score:        row.Score,
		Status:       domain.MatchStatus(row.Status),
		QueueID:      int(row.QueueID),
		GameID:       derefString(row.GameID),
		MatchDate:    row.MatchDate,
		Blue: domain.SideStats{
			BaronKills:  int(row.BlueBaronKills),
			DragonKills: int(row.BlueDragonKills),
			TowerKills:  int(row.BlueTowerKills),
			Bans:        row.BlueBans,
		},
		Red: domain.SideStats{
			BaronKills:  int(row.RedBaronKills),
			DragonKills: int(row.RedDragonKills),
			TowerKills:  int(row.RedTowerKills),
			Bans:        row.RedBans,
		},
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainDetail(row db.MatchDetail) domain.MatchDetail {
	return domain.MatchDetail{
		ID:           row.ID,
		MatchID:      row.MatchID,
		PlayerID:     row.PlayerID,
		PlayerName:   row.PlayerName,
		PlayerTier:   row.PlayerTier,
		Side:         domain.Side(row.Side),
		Position:     row.Position,
		ChampionName: row.ChampionName,
		Kills:        int(row.Kills),
		Deaths:       int(row.Deaths),
		Assists:      int(row.Assists),
		ChampLevel:   int(row.ChampLevel),
		TotalDamage:  int(row.TotalDamage),
		TotalGold:    int(row.TotalGold),
		CS:           int(row.Cs),
		Items: [7]int{
			int(row.Item0), int(row.Item1), int(row.Item2), int(row.Item3),
			int(row.Item4), int(row.Item5), int(row.Item6),
		},
		Spell1ID:       int(row.Spell1ID),
		Spell2ID:       int(row.Spell2ID),
		MainRuneID:     int(row.MainRuneID),
		SubRuneStyleID: int(row.SubRuneStyleID),
	}
}

func toDetailParams(d *domain.MatchDetail) db.CreateMatchDetailParams {
	return db.CreateMatchDetailParams{
		MatchID:        d.MatchID,
		PlayerID:       d.PlayerID,
		PlayerName:     d.PlayerName,
		PlayerTier:     d.PlayerTier,
		Side:           string(d.Side),
		Position:       d.Position,
		ChampionName:   d.ChampionName,
		Kills:          int64(d.Kills),
		Deaths:         int64(d.Deaths),
		Assists:        int64(d.Assists),
		ChampLevel:     int64(d.ChampLevel),
		TotalDamage:    int64(d.TotalDamage),
		TotalGold:      int64(d.TotalGold),
		Cs:             int64(d.CS),
		Item0:          int64(d.Items[0]),
		Item1:          int64(d.Items[1]),
		Item2:          int64(d.Items[2]),
		Item3:          int64(d.Items[3]),
		Item4:          int64(d.Items[4]),
		Item5:          int64(d.Items[5]),
		Item6:          int64(d.Items[6]),
		Spell1ID:       int64(d.Spell1ID),
		Spell2ID:       int64(d.Spell2ID),
		MainRuneID:     int64(d.MainRuneID),
		SubRuneStyleID: int64(d.SubRuneStyleID),
	}
}

func toInt64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func toIntPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
