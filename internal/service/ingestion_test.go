package service

import (
	"context"
	"errors"
	"esc-cup/internal/api"
	"esc-cup/internal/apperr"
	"esc-cup/internal/config"
	"esc-cup/internal/domain"
	"testing"

	"github.com/rs/zerolog"
)

type fakeFetcher struct {
	raw    []byte
	err    error
	gameID string
}

func (f *fakeFetcher) GetMatch(_ context.Context, gameID string) ([]byte, error) {
	f.gameID = gameID
	return f.raw, f.err
}

func (f fixture) ingestion(fetcher MatchFetcher) *IngestionService {
	normalizer := NewNormalizer(f.players, &fakeTiers{}, zerolog.Nop())
	cfg := &config.Config{RegionPrefix: "KR_"}
	return NewIngestionService(fetcher, normalizer, f.tx, f.matches, f.logs, cfg, zerolog.Nop())
}

func TestNormalizeGameID(t *testing.T) {
	tests := []struct {
		in, prefix, want string
	}{
		{"7012345678", "KR_", "KR_7012345678"},
		{"KR_7012345678", "KR_", "KR_7012345678"},
		{"kr_7012345678", "KR_", "KR_7012345678"},
		{"NA1_5123", "KR_", "NA1_5123"},
		{" 42 ", "EUW1_", "EUW1_42"},
		{"XX_42", "KR_", "KR_XX_42"},
		{"42", "", "KR_42"},
	}
	for _, tt := range tests {
		if got := NormalizeGameID(tt.in, tt.prefix); got != tt.want {
			t.Errorf("NormalizeGameID(%q, %q) = %q, want %q", tt.in, tt.prefix, got, tt.want)
		}
	}
}

func TestIngestPersistsMatchDetailsAndLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teamID := f.team(t, "Vierasion")
	if _, err := f.players.Create(ctx, &domain.Player{Name: "Faker", Tier: "CHALLENGER I", TeamID: &teamID}); err != nil {
		t.Fatal(err)
	}

	broken := participantJSON(3, 200, "Broken")
	broken["perks"] = obj{"styles": 1}
	fetcher := &fakeFetcher{raw: matchJSON(t, true,
		participantJSON(1, 100, "Faker"),
		participantJSON(2, 200, "Stranger"),
		broken,
	)}

	res, err := f.ingestion(fetcher).Ingest(ctx, "7012345678", "Quarterfinal 2")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if fetcher.gameID != "KR_7012345678" || res.GameID != "KR_7012345678" {
		t.Errorf("fetched %q, result %q", fetcher.gameID, res.GameID)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ParticipantID != 3 {
		t.Errorf("skipped = %+v", res.Skipped)
	}

	stored, err := f.matches.ListOrdered(ctx)
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored = %d matches, err %v", len(stored), err)
	}
	m := stored[0]
	if m.GameID != "KR_7012345678" || m.Status != domain.StatusFinished || m.Score != "1:0" {
		t.Errorf("match = %+v", m)
	}
	if m.BlueTeamID == nil || *m.BlueTeamID != teamID || *m.WinnerTeamID != teamID {
		t.Errorf("teams = blue %v winner %v", m.BlueTeamID, m.WinnerTeamID)
	}
	if len(m.Details) != 2 {
		t.Fatalf("details = %d", len(m.Details))
	}
	if stranger := m.Details[1]; stranger.PlayerID != nil || stranger.PlayerName != "Stranger" || stranger.PlayerTier != "Unranked" {
		t.Errorf("unresolved detail = %+v", stranger)
	}

	single, err := f.bracket().GetMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if len(single.Details) != 2 || single.Details[0].PlayerName != "Faker" {
		t.Errorf("GetMatch() details = %+v", single.Details)
	}

	logs, _ := f.logs.ListByGame(ctx, "KR_7012345678")
	if len(logs) != 1 || logs[0].ID != res.LogID || logs[0].DetailCount != 2 || logs[0].SkippedIDs[0] != 3 {
		t.Errorf("logs = %+v", logs)
	}

	// re-ingesting creates a second independent match
	if _, err := f.ingestion(fetcher).Ingest(ctx, "KR_7012345678", "Quarterfinal 2"); err != nil {
		t.Fatal(err)
	}
	stored, _ = f.matches.ListOrdered(ctx)
	if len(stored) != 2 {
		t.Errorf("expected 2 matches after re-ingest, got %d", len(stored))
	}
}

func TestIngestFailureKinds(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		want    apperr.Kind
	}{
		{"not found", &fakeFetcher{err: &api.StatusError{Code: 404}}, apperr.KindNotFound},
		{"forbidden", &fakeFetcher{err: &api.StatusError{Code: 403}}, apperr.KindForbidden},
		{"rate limited", &fakeFetcher{err: &api.StatusError{Code: 429}}, apperr.KindTransientUpstream},
		{"transport", &fakeFetcher{err: errors.New("dial tcp: connection refused")}, apperr.KindTransientUpstream},
		{"missing info", &fakeFetcher{raw: []byte(`{"metadata":{}}`)}, apperr.KindMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.ingestion(tt.fetcher).Ingest(context.Background(), "1", "Final")
			if got := apperr.KindOf(err); got != tt.want {
				t.Errorf("kind = %s, want %s (err %v)", got, tt.want, err)
			}

			stored, _ := f.matches.ListOrdered(context.Background())
			if len(stored) != 0 {
				t.Errorf("failed ingestion stored %d matches", len(stored))
			}
		})
	}
}

func TestIngestRequiresGameID(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ingestion(&fakeFetcher{}).Ingest(context.Background(), "  ", "Final"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v", err)
	}
}
