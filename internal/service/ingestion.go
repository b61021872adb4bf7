package service

import (
	"context"
	"database/sql"
	"esc-cup/internal/api"
	"esc-cup/internal/apperr"
	"esc-cup/internal/config"
	"esc-cup/internal/constants"
	"esc-cup/internal/domain"
	"esc-cup/internal/repository"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type MatchFetcher interface {
	GetMatch(ctx context.Context, gameID string) ([]byte, error)
}

type IngestResult struct {
	GameID  string
	LogID   string
	Match   *domain.Match
	Skipped []SkippedParticipant
}

type IngestionService struct {
	fetcher      MatchFetcher
	normalizer   *Normalizer
	tx           *repository.TxRunner
	matchRepo    *repository.MatchRepository
	logRepo      *repository.IngestionLogRepository
	regionPrefix string
	logger       zerolog.Logger
}

func NewIngestionService(
	fetcher MatchFetcher,
	normalizer *Normalizer,
	tx *repository.TxRunner,
	matchRepo *repository.MatchRepository,
	logRepo *repository.IngestionLogRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		fetcher:      fetcher,
		normalizer:   normalizer,
		tx:           tx,
		matchRepo:    matchRepo,
		logRepo:      logRepo,
		regionPrefix: cfg.RegionPrefix,
		logger:       logger,
	}
}

// platform routing values that may lead a match id
var knownPlatforms = map[string]bool{
	"BR1": true, "EUN1": true, "EUW1": true, "JP1": true, "KR": true,
	"LA1": true, "LA2": true, "ME1": true, "NA1": true, "OC1": true,
	"PH2": true, "RU": true, "SG2": true, "TH2": true, "TR1": true,
	"TW2": true, "VN2": true,
}

// NormalizeGameID upper-cases a recognised platform prefix or prepends prefix to a bare id.
func NormalizeGameID(gameID, prefix string) string {
	gameID = strings.TrimSpace(gameID)
	if head, rest, found := strings.Cut(gameID, "_"); found && knownPlatforms[strings.ToUpper(head)] {
		return strings.ToUpper(head) + "_" + rest
	}
	if prefix == "" {
		prefix = constants.DefaultRegionPrefix
	}
	return prefix + gameID
}

// Ingest fetches one finished game, normalizes it and stores the match, its details and
// an ingestion log entry atomically. Every call creates a new match, even for a game id
// that was ingested before.
func (s *IngestionService) Ingest(ctx context.Context, gameID, stage string) (*IngestResult, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, apperr.Validation("game id is required")
	}
	gameID = NormalizeGameID(gameID, s.regionPrefix)
	logger := s.logger.With().Str("game_id", gameID).Logger()

	logger.Info().Str("stage", stage).Msg("ingesting match")

	raw, err := s.fetch(ctx, gameID)
	if err != nil {
		logger.Warn().Err(err).Str("kind", apperr.KindOf(err).String()).Msg("match fetch failed")
		return nil, err
	}

	normalized, err := s.normalizer.Normalize(ctx, raw, stage)
	if err != nil {
		logger.Warn().Err(err).Msg("match payload rejected")
		return nil, err
	}

	m := normalized.Match
	m.GameID = gameID
	entry := &repository.IngestionLogEntry{
		GameID:     gameID,
		Stage:      stage,
		SkippedIDs: normalized.SkippedIDs(),
	}

	err = s.tx.Run(ctx, func(tx *sql.Tx) error {
		if err := s.matchRepo.WithTx(tx).InsertWithDetails(ctx, m); err != nil {
			return err
		}
		entry.MatchID = m.ID
		entry.DetailCount = len(m.Details)
		return s.logRepo.WithTx(tx).Insert(ctx, entry)
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to store ingested match")
		return nil, apperr.Internal("failed to store ingested match", err)
	}

	logger.Info().
		Int64("match_id", m.ID).
		Int("details", len(m.Details)).
		Ints("skipped_participants", entry.SkippedIDs).
		Str("score", m.Score).
		Msg("match ingested")

	return &IngestResult{
		GameID:  gameID,
		LogID:   entry.ID,
		Match:   m,
		Skipped: normalized.Skipped,
	}, nil
}

func (s *IngestionService) fetch(ctx context.Context, gameID string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	raw, err := s.fetcher.GetMatch(fetchCtx, gameID)
	if err == nil {
		return raw, nil
	}

	switch api.StatusCode(err) {
	case http.StatusNotFound:
		return nil, apperr.NotFound("game %s does not exist or has no recorded history", gameID)
	case http.StatusForbidden:
		return nil, apperr.Forbidden("riot API key was rejected, renew it", err)
	default:
		return nil, apperr.TransientUpstream("riot API request failed", err)
	}
}
