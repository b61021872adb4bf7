package service

import (
	"context"
	"esc-cup/internal/repository"
	"esc-cup/internal/testutil"
	"testing"

	"github.com/rs/zerolog"
)

type fixture struct {
	tx      *repository.TxRunner
	teams   *repository.TeamRepository
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	logs    *repository.IngestionLogRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sqlDB, queries := testutil.NewDB(t)
	logger := zerolog.Nop()
	return fixture{
		tx:      repository.NewTxRunner(sqlDB, logger),
		teams:   repository.NewTeamRepository(sqlDB, queries, logger),
		players: repository.NewPlayerRepository(sqlDB, queries, logger),
		matches: repository.NewMatchRepository(sqlDB, queries, logger),
		logs:    repository.NewIngestionLogRepository(sqlDB, queries, logger),
	}
}

func (f fixture) bracket() *BracketService {
	return NewBracketService(f.tx, f.matches, f.teams, zerolog.Nop())
}

func (f fixture) team(t *testing.T, name string) int64 {
	t.Helper()
	team, err := f.teams.Create(context.Background(), name, 0)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team.ID
}
