package db

import (
	"time"
)

type IngestionLog struct {
	ID                  string
	GameID              string
	MatchID             int64
	Stage               string
	DetailCount         int64
	SkippedParticipants string
	CreatedAt           time.Time
}

type Match struct {
	ID              int64
	Stage           string
	Round           *int64
	MatchOrder      *int64
	NextMatchID     *int64
	BlueTeamID      *int64
	RedTeamID       *int64
	WinnerTeamID    *int64
	Score           string
	Status          string
	QueueID         int64
	GameID          *string
	MatchDate       *time.Time
	BlueBaronKills  int64
	BlueDragonKills int64
	BlueTowerKills  int64
	BlueBans        string
	RedBaronKills   int64
	RedDragonKills  int64
	RedTowerKills   int64
	RedBans         string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type MatchDetail struct {
	ID             int64
	MatchID        int64
	PlayerID       *int64
	PlayerName     string
	PlayerTier     string
	Side           string
	Position       string
	ChampionName   string
	Kills          int64
	Deaths         int64
	Assists        int64
	ChampLevel     int64
	TotalDamage    int64
	TotalGold      int64
	Cs             int64
	Item0          int64
	Item1          int64
	Item2          int64
	Item3          int64
	Item4          int64
	Item5          int64
	Item6          int64
	Spell1ID       int64
	Spell2ID       int64
	MainRuneID     int64
	SubRuneStyleID int64
}

type Player struct {
	ID          int64
	Name        string
	Tier        *string
	HighestTier *string
	Position    *string
	OpggUrl     *string
	TeamID      *int64
	CreatedAt   time.Time
}

type Team struct {
	ID           int64
	Name         string
	DisplayOrder int64
	CreatedAt    time.Time
}
