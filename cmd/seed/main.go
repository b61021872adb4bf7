package main

import (
	"context"
	"esc-cup/internal/constants"
	"esc-cup/internal/database"
	"esc-cup/internal/db"
	"esc-cup/internal/logger"
	"esc-cup/internal/repository"
	"esc-cup/internal/roster"
	"esc-cup/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	dbPath := pflag.String("db", "esccup.db", "path to the SQLite database")
	rosterPath := pflag.String("roster", "configs/roster.example.yaml", "roster YAML with teams and the draft pool")
	logLevel := pflag.String("log-level", "info", "log level")
	pflag.Parse()

	log := logger.New()
	logger.SetLevel(*logLevel)

	r, err := roster.Load(*rosterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load roster")
	}
	log.Info().
		Str("roster", *rosterPath).
		Int("teams", len(r.Teams)).
		Int("players", r.PlayerCount()).
		Msg("roster loaded")

	sqlDB, err := database.Open(*dbPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer sqlDB.Close()

	queries := db.New(sqlDB)
	draft := service.NewDraftService(
		repository.NewTxRunner(sqlDB, log),
		repository.NewTeamRepository(sqlDB, queries, log),
		repository.NewPlayerRepository(sqlDB, queries, log),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	summary, err := draft.ImportRoster(ctx, r)
	if err != nil {
		log.Fatal().Err(err).Str("roster", *rosterPath).Msg("failed to import roster")
	}

	log.Info().
		Str("db", *dbPath).
		Int("teams", summary.Teams).
		Int("players", summary.Players).
		Msg("seed complete")
}
