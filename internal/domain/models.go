package domain

import (
	"esc-cup/internal/constants"
	"fmt"
	"time"
)

type Side string

const (
	SideBlue Side = "BLUE"
	SideRed  Side = "RED"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusFinished  MatchStatus = "FINISHED"
)

type Team struct {
	ID           int64
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
}

// Player.TeamID is nil while the player sits in the draft pool.
type Player struct {
	ID          int64
	Name        string
	Tier        string
	HighestTier string
	Position    string
	OpggURL     string
	TeamID      *int64
	CreatedAt   time.Time
}

type SideStats struct {
	BaronKills  int
	DragonKills int
	TowerKills  int
	Bans        string // comma-joined champion ids
}

type Match struct {
	ID    int64
	Stage string

	// Round is the number of teams entering the round (8, 4, 2). nil for ad hoc matches.
	Round       *int
	MatchOrder  *int
	NextMatchID *int64

	// nil team references mean "no team assigned"; a nil winner means "not yet decided".
	BlueTeamID   *int64
	RedTeamID    *int64
	WinnerTeamID *int64

	Score     string
	Status    MatchStatus
	QueueID   int
	GameID    string
	MatchDate *time.Time

	Blue SideStats
	Red  SideStats

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	Details []MatchDetail
}

type MatchDetail struct {
	ID       int64
	MatchID  int64
	PlayerID *int64

	PlayerName string
	PlayerTier string // snapshot taken at ingestion

	Side         Side
	Position     string
	ChampionName string

	Kills   int
	Deaths  int
	Assists int

	ChampLevel  int
	TotalDamage int
	TotalGold   int
	CS          int

	Items          [7]int
	Spell1ID       int
	Spell2ID       int
	MainRuneID     int
	SubRuneStyleID int
}

func (m *Match) IsTournament() bool {
	return m.Round != nil
}

// SuccessorSide is the slot this match's winner takes in the next match:
// odd orders feed BLUE, even orders feed RED.
func (m *Match) SuccessorSide() Side {
	if m.MatchOrder != nil && *m.MatchOrder%2 == 0 {
		return SideRed
	}
	return SideBlue
}

func (m *Match) SetTeam(side Side, teamID *int64) {
	if side == SideBlue {
		m.BlueTeamID = teamID
		return
	}
	m.RedTeamID = teamID
}

func (m *Match) TeamOn(side Side) *int64 {
	if side == SideBlue {
		return m.BlueTeamID
	}
	return m.RedTeamID
}

func SideFromCode(code int) Side {
	if code == constants.BlueSideCode {
		return SideBlue
	}
	return SideRed
}

func StageLabel(round, order int) string {
	switch round {
	case 2:
		return "Final"
	case 4:
		return fmt.Sprintf("Semifinal %d", order)
	case 8:
		return fmt.Sprintf("Quarterfinal %d", order)
	default:
		return fmt.Sprintf("Round of %d - Match %d", round, order)
	}
}
