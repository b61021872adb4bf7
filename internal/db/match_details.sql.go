package db

import (
	"context"
)

const createMatchDetail = `
INSERT INTO match_details (
	match_id, player_id, player_name, player_tier, side, position, champion_name,
	kills, deaths, assists, champ_level, total_damage, total_gold, cs,
	item0, item1, item2, item3, item4, item5, item6,
	spell1_id, spell2_id, main_rune_id, sub_rune_style_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateMatchDetailParams struct {
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

func (q *Queries) CreateMatchDetail(ctx context.Context, arg CreateMatchDetailParams) error {
	_, err := q.db.ExecContext(ctx, createMatchDetail,
		arg.MatchID,
		arg.PlayerID,
		arg.PlayerName,
		arg.PlayerTier,
		arg.Side,
		arg.Position,
		arg.ChampionName,
		arg.Kills,
		arg.Deaths,
		arg.Assists,
		arg.ChampLevel,
		arg.TotalDamage,
		arg.TotalGold,
		arg.Cs,
		arg.Item0,
		arg.Item1,
		arg.Item2,
		arg.Item3,
		arg.Item4,
		arg.Item5,
		arg.Item6,
		arg.Spell1ID,
		arg.Spell2ID,
		arg.MainRuneID,
		arg.SubRuneStyleID,
	)
	return err
}

const listMatchDetails = `
SELECT id, match_id, player_id, player_name, player_tier, side, position, champion_name,
	kills, deaths, assists, champ_level, total_damage, total_gold, cs,
	item0, item1, item2, item3, item4, item5, item6,
	spell1_id, spell2_id, main_rune_id, sub_rune_style_id
FROM match_details
ORDER BY match_id ASC, id ASC
`

func (q *Queries) ListMatchDetails(ctx context.Context) ([]MatchDetail, error) {
	return q.queryMatchDetails(ctx, listMatchDetails)
}

const listMatchDetailsByMatch = `
SELECT id, match_id, player_id, player_name, player_tier, side, position, champion_name,
	kills, deaths, assists, champ_level, total_damage, total_gold, cs,
	item0, item1, item2, item3, item4, item5, item6,
	spell1_id, spell2_id, main_rune_id, sub_rune_style_id
FROM match_details
WHERE match_id = ?
ORDER BY id ASC
`

func (q *Queries) ListMatchDetailsByMatch(ctx context.Context, matchID int64) ([]MatchDetail, error) {
	return q.queryMatchDetails(ctx, listMatchDetailsByMatch, matchID)
}

func (q *Queries) queryMatchDetails(ctx context.Context, query string, args ...interface{}) ([]MatchDetail, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchDetail
	for rows.Next() {
		var i MatchDetail
		if err := rows.Scan(
			&i.ID,
			&i.MatchID,
			&i.PlayerID,
			&i.PlayerName,
			&i.PlayerTier,
			&i.Side,
			&i.Position,
			&i.ChampionName,
			&i.Kills,
			&i.Deaths,
			&i.Assists,
			&i.ChampLevel,
			&i.TotalDamage,
			&i.TotalGold,
			&i.Cs,
			&i.Item0,
			&i.Item1,
			&i.Item2,
			&i.Item3,
			&i.Item4,
			&i.Item5,
			&i.Item6,
			&i.Spell1ID,
			&i.Spell2ID,
			&i.MainRuneID,
			&i.SubRuneStyleID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
