package repository

import (
	"context"
	"database/sql"
	"errors"
	"esc-cup/internal/domain"
	"esc-cup/internal/testutil"
	"testing"

	"github.com/rs/zerolog"
)

type repos struct {
	tx      *TxRunner
	teams   *TeamRepository
	players *PlayerRepository
	matches *MatchRepository
	logs    *IngestionLogRepository
}

func newRepos(t *testing.T) repos {
	sqlDB, queries := testutil.NewDB(t)
	logger := zerolog.Nop()
	return repos{
		tx:      NewTxRunner(sqlDB, logger),
		teams:   NewTeamRepository(sqlDB, queries, logger),
		players: NewPlayerRepository(sqlDB, queries, logger),
		matches: NewMatchRepository(sqlDB, queries, logger),
		logs:    NewIngestionLogRepository(sqlDB, queries, logger),
	}
}

func TestPlayerFindByNameIsExact(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	first, err := r.players.Create(ctx, &domain.Player{Name: "Faker", Tier: "CHALLENGER I"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := r.players.Create(ctx, &domain.Player{Name: "Faker"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := r.players.FindByName(ctx, "Faker")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if got.ID != first.ID || got.Tier != "CHALLENGER I" {
		t.Errorf("FindByName() = %+v, want first registered player", got)
	}

	if _, err := r.players.FindByName(ctx, "faker"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("lower-case lookup error = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerAssignTeamAndDraftPool(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	team, err := r.teams.Create(ctx, "T1", 1)
	if err != nil {
		t.Fatalf("Create team error = %v", err)
	}
	p, _ := r.players.Create(ctx, &domain.Player{Name: "Zeus"})
	_, _ = r.players.Create(ctx, &domain.Player{Name: "Oner"})

	if err := r.players.AssignTeam(ctx, p.ID, &team.ID); err != nil {
		t.Fatalf("AssignTeam() error = %v", err)
	}

	roster, _ := r.players.ListByTeam(ctx, team.ID)
	if len(roster) != 1 || roster[0].Name != "Zeus" {
		t.Errorf("ListByTeam() = %+v", roster)
	}
	pool, _ := r.players.ListDraftPool(ctx)
	if len(pool) != 1 || pool[0].Name != "Oner" {
		t.Errorf("ListDraftPool() = %+v", pool)
	}

	if err := r.players.AssignTeam(ctx, p.ID, nil); err != nil {
		t.Fatalf("AssignTeam(nil) error = %v", err)
	}
	pool, _ = r.players.ListDraftPool(ctx)
	if len(pool) != 2 {
		t.Errorf("expected both players in the pool, got %d", len(pool))
	}

	if err := r.players.AssignTeam(ctx, 999, nil); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("AssignTeam(unknown) error = %v", err)
	}
}

func TestMatchUpdateDetectsStaleVersion(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	m := &domain.Match{Stage: "Final", Round: testutil.Int(2), MatchOrder: testutil.Int(1)}
	if err := r.matches.Insert(ctx, m); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	a, _ := r.matches.Get(ctx, m.ID)
	b, _ := r.matches.Get(ctx, m.ID)

	a.Score = "2:1"
	if err := r.matches.Update(ctx, a); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	b.Score = "0:2"
	if err := r.matches.Update(ctx, b); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale Update() error = %v, want ErrVersionConflict", err)
	}

	stored, _ := r.matches.Get(ctx, m.ID)
	if stored.Score != "2:1" || stored.Version != 2 {
		t.Errorf("stored = score %q version %d", stored.Score, stored.Version)
	}

	if err := r.matches.Update(ctx, &domain.Match{ID: 4242, Version: 1}); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
}

func TestDeleteTournamentMatchesKeepsAdHoc(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	final := &domain.Match{Stage: "Final", Round: testutil.Int(2), MatchOrder: testutil.Int(1)}
	adHoc := &domain.Match{Stage: "Scrim"}
	for _, m := range []*domain.Match{final, adHoc} {
		if err := r.matches.Insert(ctx, m); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	n, err := r.matches.DeleteTournamentMatches(ctx)
	if err != nil || n != 1 {
		t.Fatalf("DeleteTournamentMatches() = %d, %v", n, err)
	}

	remaining, _ := r.matches.ListOrdered(ctx)
	if len(remaining) != 1 || remaining[0].ID != adHoc.ID {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestInsertWithDetailsRollsBackAsUnit(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := r.tx.Run(ctx, func(tx *sql.Tx) error {
		m := &domain.Match{Stage: "Group", Status: domain.StatusFinished, Details: []domain.MatchDetail{
			{PlayerName: "a", PlayerTier: "Bot", Side: domain.SideBlue, Position: "TOP"},
		}}
		if err := r.matches.WithTx(tx).InsertWithDetails(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v", err)
	}

	matches, _ := r.matches.ListOrdered(ctx)
	if len(matches) != 0 {
		t.Fatalf("expected rollback, found %d matches", len(matches))
	}

	m := &domain.Match{Stage: "Group", Status: domain.StatusFinished, GameID: "KR_1", Details: []domain.MatchDetail{
		{PlayerName: "a", PlayerTier: "Bot", Side: domain.SideBlue, Position: "TOP", Items: [7]int{1, 2, 3, 4, 5, 6, 7}},
		{PlayerName: "b", PlayerTier: "Unranked", Side: domain.SideRed, Position: "ANY"},
	}}
	err = r.tx.Run(ctx, func(tx *sql.Tx) error {
		if err := r.matches.WithTx(tx).InsertWithDetails(ctx, m); err != nil {
			return err
		}
		return r.logs.WithTx(tx).Insert(ctx, &IngestionLogEntry{GameID: "KR_1", MatchID: m.ID, DetailCount: 2, SkippedIDs: []int{3, 7}})
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	details, _ := r.matches.ListDetails(ctx, m.ID)
	if len(details) != 2 || details[0].Items[6] != 7 || details[1].Side != domain.SideRed {
		t.Errorf("details = %+v", details)
	}

	logs, _ := r.logs.ListByGame(ctx, "KR_1")
	if len(logs) != 1 || len(logs[0].SkippedIDs) != 2 || logs[0].SkippedIDs[1] != 7 {
		t.Errorf("logs = %+v", logs)
	}

	if err := r.matches.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	details, _ = r.matches.ListDetails(ctx, m.ID)
	if len(details) != 0 {
		t.Errorf("details should cascade, got %d", len(details))
	}
}
