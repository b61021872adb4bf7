package server

import (
	"esc-cup/internal/constants"
	"esc-cup/internal/domain"
	"esc-cup/internal/service"
	"time"
)

type MatchDetailDTO struct {
	ID             int64  `json:"id"`
	PlayerID       *int64 `json:"playerId"`
	PlayerName     string `json:"playerName"`
	PlayerTier     string `json:"playerTier"`
	Side           string `json:"side"`
	Position       string `json:"position"`
	ChampionName   string `json:"championName"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	ChampLevel     int    `json:"champLevel"`
	TotalDamage    int    `json:"totalDamage"`
	TotalGold      int    `json:"totalGold"`
	CS             int    `json:"cs"`
	Items          [7]int `json:"items"`
	Spell1ID       int    `json:"spell1Id"`
	Spell2ID       int    `json:"spell2Id"`
	MainRuneID     int    `json:"mainRuneId"`
	SubRuneStyleID int    `json:"subRuneStyleId"`
}

type MatchDTO struct {
	ID           int64      `json:"id"`
	Stage        string     `json:"stage"`
	BlueTeamID   *int64     `json:"blueTeamId"`
	BlueTeamName string     `json:"blueTeamName"`
	RedTeamID    *int64     `json:"redTeamId"`
	RedTeamName  string     `json:"redTeamName"`
	WinnerTeamID *int64     `json:"winnerTeamId"`
	Score        string     `json:"score"`
	Status       string     `json:"status"`
	QueueID      int        `json:"queueId"`
	GameID       string     `json:"gameId,omitempty"`
	MatchDate    *time.Time `json:"matchDate,omitempty"`

	Round       *int   `json:"round"`
	MatchOrder  *int   `json:"matchOrder"`
	NextMatchID *int64 `json:"nextMatchId"`

	BlueBaronKills  int    `json:"blueBaronKills"`
	BlueDragonKills int    `json:"blueDragonKills"`
	BlueTowerKills  int    `json:"blueTowerKills"`
	BlueBans        string `json:"blueBans"`
	RedBaronKills   int    `json:"redBaronKills"`
	RedDragonKills  int    `json:"redDragonKills"`
	RedTowerKills   int    `json:"redTowerKills"`
	RedBans         string `json:"redBans"`

	MatchDetails []MatchDetailDTO `json:"matchDetails"`
}

type PlayerDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Tier        string `json:"tier"`
	HighestTier string `json:"highestTier"`
	Position    string `json:"position"`
	OpggURL     string `json:"opggUrl"`
	TeamID      *int64 `json:"teamId"`
}

type TeamDTO struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	DisplayOrder int         `json:"displayOrder"`
	Players      []PlayerDTO `json:"players"`
}

type SkippedParticipantDTO struct {
	ParticipantID int    `json:"participantId"`
	Reason        string `json:"reason"`
}

// TournamentService messages

type CreateEmptyBracketRequest struct {
	TeamCount int `json:"teamCount"`
}

type ListMatchesRequest struct{}

type MatchListResponse struct {
	Matches []MatchDTO `json:"matches"`
}

type UpdateMatchRequest struct {
	MatchID      int64  `json:"matchId"`
	BlueTeamID   *int64 `json:"blueTeamId"`
	RedTeamID    *int64 `json:"redTeamId"`
	WinnerTeamID *int64 `json:"winnerTeamId"`
	Score        string `json:"score"`
}

type GetMatchRequest struct {
	MatchID int64 `json:"matchId"`
}

type MatchResponse struct {
	Match MatchDTO `json:"match"`
}

type CreateMatchRequest struct {
	Stage      string `json:"stage"`
	BlueTeamID *int64 `json:"blueTeamId"`
	RedTeamID  *int64 `json:"redTeamId"`
}

type DeleteMatchRequest struct {
	MatchID int64 `json:"matchId"`
}

type DeleteMatchResponse struct{}

// PatchMatchTeamsRequest.Teams distinguishes a missing key (leave the slot) from an
// explicit null (clear the slot).
type PatchMatchTeamsRequest struct {
	MatchID int64             `json:"matchId"`
	Teams   map[string]*int64 `json:"teams"`
}

type IngestMatchRequest struct {
	GameID string `json:"gameId"`
	Stage  string `json:"stage"`
}

type IngestMatchResponse struct {
	GameID              string                  `json:"gameId"`
	Match               MatchDTO                `json:"match"`
	SkippedParticipants []SkippedParticipantDTO `json:"skippedParticipants"`
}

// DraftService messages

type ListTeamsRequest struct{}

type ListTeamsResponse struct {
	Teams []TeamDTO `json:"teams"`
}

type ListDraftPoolRequest struct{}

type PlayerListResponse struct {
	Players []PlayerDTO `json:"players"`
}

type AssignmentDTO struct {
	PlayerID int64  `json:"playerId"`
	TeamID   *int64 `json:"teamId"`
}

type AssignPlayersRequest struct {
	Assignments []AssignmentDTO `json:"assignments"`
}

type AssignPlayersResponse struct {
	Assigned int `json:"assigned"`
}

func toMatchDTO(m *domain.Match, teamNames map[int64]string) MatchDTO {
	dto := MatchDTO{
		ID:              m.ID,
		Stage:           m.Stage,
		BlueTeamID:      m.BlueTeamID,
		BlueTeamName:    teamName(m.BlueTeamID, teamNames, constants.DefaultBlueTeamName),
		RedTeamID:       m.RedTeamID,
		RedTeamName:     teamName(m.RedTeamID, teamNames, constants.DefaultRedTeamName),
		WinnerTeamID:    m.WinnerTeamID,
		Score:           m.Score,
		Status:          string(m.Status),
		QueueID:         m.QueueID,
		GameID:          m.GameID,
		MatchDate:       m.MatchDate,
		Round:           m.Round,
		MatchOrder:      m.MatchOrder,
		NextMatchID:     m.NextMatchID,
		BlueBaronKills:  m.Blue.BaronKills,
		BlueDragonKills: m.Blue.DragonKills,
		BlueTowerKills:  m.Blue.TowerKills,
		BlueBans:        m.Blue.Bans,
		RedBaronKills:   m.Red.BaronKills,
		RedDragonKills:  m.Red.DragonKills,
		RedTowerKills:   m.Red.TowerKills,
		RedBans:         m.Red.Bans,
		MatchDetails:    make([]MatchDetailDTO, len(m.Details)),
	}

	for i, d := range m.Details {
		dto.MatchDetails[i] = MatchDetailDTO{
			ID:             d.ID,
			PlayerID:       d.PlayerID,
			PlayerName:     d.PlayerName,
			PlayerTier:     d.PlayerTier,
			Side:           string(d.Side),
			Position:       d.Position,
			ChampionName:   d.ChampionName,
			Kills:          d.Kills,
			Deaths:         d.Deaths,
			Assists:        d.Assists,
			ChampLevel:     d.ChampLevel,
			TotalDamage:    d.TotalDamage,
			TotalGold:      d.TotalGold,
			CS:             d.CS,
			Items:          d.Items,
			Spell1ID:       d.Spell1ID,
			Spell2ID:       d.Spell2ID,
			MainRuneID:     d.MainRuneID,
			SubRuneStyleID: d.SubRuneStyleID,
		}
	}
	return dto
}

func teamName(id *int64, names map[int64]string, fallback string) string {
	if id == nil {
		return fallback
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return fallback
}

func toPlayerDTO(p domain.Player) PlayerDTO {
	return PlayerDTO{
		ID:          p.ID,
		Name:        p.Name,
		Tier:        p.Tier,
		HighestTier: p.HighestTier,
		Position:    p.Position,
		OpggURL:     p.OpggURL,
		TeamID:      p.TeamID,
	}
}

func toPlayerDTOs(players []domain.Player) []PlayerDTO {
	result := make([]PlayerDTO, len(players))
	for i, p := range players {
		result[i] = toPlayerDTO(p)
	}
	return result
}

func toSkippedDTOs(skipped []service.SkippedParticipant) []SkippedParticipantDTO {
	result := make([]SkippedParticipantDTO, len(skipped))
	for i, s := range skipped {
		result[i] = SkippedParticipantDTO{ParticipantID: s.ParticipantID, Reason: s.Reason}
	}
	return result
}
