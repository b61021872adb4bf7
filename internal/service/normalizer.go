package service

import (
	"context"
	"errors"
	"esc-cup/internal/apperr"
	"esc-cup/internal/constants"
	"esc-cup/internal/domain"
	"esc-cup/internal/payload"
	"esc-cup/internal/repository"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlayerRegistry resolves participants to registered players.
// FindByName returns repository.ErrPlayerNotFound when nobody has the name.
type PlayerRegistry interface {
	FindByName(ctx context.Context, name string) (*domain.Player, error)
}

type TierLookup interface {
	FetchCurrentTier(ctx context.Context, summonerID string) (string, error)
}

type SkippedParticipant struct {
	ParticipantID int
	Reason        string
}

type NormalizeResult struct {
	Match   *domain.Match
	Skipped []SkippedParticipant
}

func (r *NormalizeResult) SkippedIDs() []int {
	ids := make([]int, len(r.Skipped))
	for i, s := range r.Skipped {
		ids[i] = s.ParticipantID
	}
	return ids
}

type Normalizer struct {
	registry PlayerRegistry
	tiers    TierLookup
	logger   zerolog.Logger
}

func NewNormalizer(registry PlayerRegistry, tiers TierLookup, logger zerolog.Logger) *Normalizer {
	return &Normalizer{registry: registry, tiers: tiers, logger: logger}
}

type sideSummary struct {
	stats domain.SideStats
	win   bool
}

type participant struct {
	detail     domain.MatchDetail
	teamID     *int64
	summonerID string
	needsTier  bool
}

// Normalize turns one match-v5 document into an unsaved finished match. Only a missing
// or unusable top level fails the call; a bad participant is dropped and reported in Skipped.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte, stage string) (*NormalizeResult, error) {
	root, err := payload.Parse(raw)
	if err != nil {
		return nil, apperr.MalformedPayload("match payload is unreadable", err)
	}

	info := root.Get("info")
	if !info.Present() {
		return nil, apperr.MalformedPayload("match payload has no info section", nil)
	}
	if !info.Get("participants").Present() {
		return nil, apperr.MalformedPayload("match payload has no participants", nil)
	}

	m := &domain.Match{
		Stage:  stage,
		Status: domain.StatusFinished,
	}

	r := &fieldReader{}
	m.QueueID = r.number(info.Get("queueId"))
	if created := r.number64(info.Get("gameCreation")); created > 0 {
		date := time.UnixMilli(created).UTC()
		m.MatchDate = &date
	}
	m.GameID = r.text(root.Get("metadata", "matchId"), "")
	if r.err != nil {
		return nil, apperr.MalformedPayload("match payload has unusable metadata", r.err)
	}

	sides, err := n.readSides(info)
	if err != nil {
		return nil, apperr.MalformedPayload("match payload has unusable teams", err)
	}
	m.Blue = sides[domain.SideBlue].stats
	m.Red = sides[domain.SideRed].stats

	records, err := info.Get("participants").Array()
	if err != nil {
		return nil, apperr.MalformedPayload("match payload has unusable participants", err)
	}

	result := &NormalizeResult{Match: m}
	var parsed []participant
	detected := map[domain.Side]*int64{}

	for i, record := range records {
		id := participantID(record, i)
		p, err := n.safeParticipant(ctx, record)
		if err != nil {
			n.logger.Warn().Err(err).Int("participant_id", id).Msg("skipping participant")
			result.Skipped = append(result.Skipped, SkippedParticipant{ParticipantID: id, Reason: err.Error()})
			continue
		}
		if p.teamID != nil {
			detected[p.detail.Side] = p.teamID
		}
		parsed = append(parsed, p)
	}

	n.resolveTiers(ctx, parsed)

	m.Details = make([]domain.MatchDetail, len(parsed))
	for i, p := range parsed {
		m.Details[i] = p.detail
	}

	m.BlueTeamID = detected[domain.SideBlue]
	m.RedTeamID = detected[domain.SideRed]
	if sides[domain.SideBlue].win {
		m.WinnerTeamID = m.BlueTeamID
		m.Score = constants.ScoreBlueWin
	} else {
		m.WinnerTeamID = m.RedTeamID
		m.Score = constants.ScoreRedWin
	}

	n.logger.Debug().
		Str("game_id", m.GameID).
		Int("details", len(m.Details)).
		Int("skipped", len(result.Skipped)).
		Str("score", m.Score).
		Msg("match normalized")
	return result, nil
}

// readSides fails only when a team's side or result is unusable. Objective counts and bans
// of the wrong type are logged and read as 0 / no ban.
func (n *Normalizer) readSides(info payload.Node) (map[domain.Side]sideSummary, error) {
	sides := map[domain.Side]sideSummary{
		domain.SideBlue: {},
		domain.SideRed:  {},
	}

	teams, err := info.Get("teams").Array()
	if err != nil {
		return nil, err
	}

	for _, team := range teams {
		r := &fieldReader{}
		side := domain.SideFromCode(r.number(team.Get("teamId")))
		win := r.flag(team.Get("win"))
		if r.err != nil {
			return nil, r.err
		}
		sides[side] = sideSummary{win: win, stats: n.readObjectives(team)}
	}
	return sides, nil
}

func (n *Normalizer) readObjectives(team payload.Node) domain.SideStats {
	lenient := func(node payload.Node) int {
		v, err := node.IntOr(0)
		if err != nil {
			n.logger.Warn().Err(err).Msg("ignoring unusable team field")
		}
		return v
	}

	stats := domain.SideStats{
		BaronKills:  lenient(team.Get("objectives", "baron", "kills")),
		DragonKills: lenient(team.Get("objectives", "dragon", "kills")),
		TowerKills:  lenient(team.Get("objectives", "tower", "kills")),
	}

	bans, err := team.Get("bans").Array()
	if err != nil {
		n.logger.Warn().Err(err).Msg("ignoring unusable bans")
	}
	var banned []string
	for _, ban := range bans {
		if champ := lenient(ban.Get("championId")); champ > 0 {
			banned = append(banned, strconv.Itoa(champ))
		}
	}
	stats.Bans = strings.Join(banned, ",")
	return stats
}

func participantID(record payload.Node, index int) int {
	if id, ok, err := record.Get("participantId").Int(); err == nil && ok {
		return id
	}
	return index + 1
}

func (n *Normalizer) safeParticipant(ctx context.Context, record payload.Node) (p participant, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("participant parse panicked: %v", r)
		}
	}()
	return n.readParticipant(ctx, record)
}

func (n *Normalizer) readParticipant(ctx context.Context, record payload.Node) (participant, error) {
	r := &fieldReader{}

	gameName := r.text(record.Get("riotIdGameName"), "")
	summonerName := r.text(record.Get("summonerName"), "")
	puuid := r.text(record.Get("puuid"), "")
	summonerID := r.text(record.Get("summonerId"), "")
	if r.err != nil {
		return participant{}, r.err
	}

	isBot := puuid == constants.BotPuuid || (gameName == "" && summonerName == "")
	name := gameName
	if name == "" {
		name = summonerName
	}
	if name == "" {
		name = constants.UnknownPlayerName
	}

	var player *domain.Player
	if !isBot {
		found, err := n.registry.FindByName(ctx, name)
		switch {
		case errors.Is(err, repository.ErrPlayerNotFound):
		case err != nil:
			return participant{}, fmt.Errorf("player lookup for %q failed: %w", name, err)
		default:
			player = found
		}
	}

	side := domain.SideFromCode(r.number(record.Get("teamId")))
	d := domain.MatchDetail{
		PlayerName:   name,
		Side:         side,
		ChampionName: r.text(record.Get("championName"), ""),
		Kills:        r.number(record.Get("kills")),
		Deaths:       r.number(record.Get("deaths")),
		Assists:      r.number(record.Get("assists")),
		ChampLevel:   r.number(record.Get("champLevel")),
		TotalDamage:  r.number(record.Get("totalDamageDealtToChampions")),
		TotalGold:    r.number(record.Get("goldEarned")),
		CS:           r.number(record.Get("totalMinionsKilled")) + r.number(record.Get("neutralMinionsKilled")),
		Spell1ID:     r.number(record.Get("summoner1Id")),
		Spell2ID:     r.number(record.Get("summoner2Id")),
		Position:     resolvePosition(r, record),
	}
	for slot := 0; slot < constants.ItemSlots; slot++ {
		d.Items[slot] = r.number(record.Get(fmt.Sprintf("item%d", slot)))
	}
	if r.err != nil {
		return participant{}, r.err
	}

	if err := readRunes(record, &d); err != nil {
		return participant{}, err
	}

	p := participant{detail: d, summonerID: summonerID}
	switch {
	case isBot:
		p.detail.PlayerTier = constants.TierBot
	case player != nil && player.Tier != "":
		p.detail.PlayerTier = player.Tier
	default:
		p.needsTier = true
	}
	if player != nil {
		id := player.ID
		p.detail.PlayerID = &id
		p.teamID = player.TeamID
	}
	return p, nil
}

func resolvePosition(r *fieldReader, record payload.Node) string {
	for _, field := range []string{"teamPosition", "individualPosition"} {
		pos := r.text(record.Get(field), "")
		if pos != "" && !strings.EqualFold(pos, constants.PositionInvalid) {
			return pos
		}
	}
	return constants.PositionAny
}

// readRunes takes the keystone from the primary style and the tree id from the sub style.
func readRunes(record payload.Node, d *domain.MatchDetail) error {
	styles, err := record.Get("perks", "styles").Array()
	if err != nil {
		return err
	}

	r := &fieldReader{}
	for _, style := range styles {
		switch r.text(style.Get("description"), "") {
		case constants.PrimaryStyle:
			d.MainRuneID = r.number(style.Get("selections", 0, "perk"))
		case constants.SubStyle:
			d.SubRuneStyleID = r.number(style.Get("style"))
		}
	}
	return r.err
}

// resolveTiers looks up live ranks for unregistered humans. Any failure means Unranked.
func (n *Normalizer) resolveTiers(ctx context.Context, parsed []participant) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.TierLookupConcurrency)

	for i := range parsed {
		p := &parsed[i]
		if !p.needsTier {
			continue
		}
		if n.tiers == nil {
			p.detail.PlayerTier = constants.TierUnranked
			continue
		}
		g.Go(func() error {
			tier, err := n.tiers.FetchCurrentTier(gCtx, p.summonerID)
			if err != nil || tier == "" {
				n.logger.Warn().Err(err).Str("player_name", p.detail.PlayerName).Msg("live tier lookup failed, using Unranked")
				tier = constants.TierUnranked
			}
			p.detail.PlayerTier = tier
			return nil
		})
	}
	_ = g.Wait()
}

// fieldReader keeps the first type error so a run of optional fields can be read without
// checking each one. Absent fields read as the zero value or the given default.
type fieldReader struct {
	err error
}

func (r *fieldReader) number(n payload.Node) int {
	v, err := n.IntOr(0)
	r.keep(err)
	return v
}

func (r *fieldReader) number64(n payload.Node) int64 {
	v, _, err := n.Int64()
	r.keep(err)
	return v
}

func (r *fieldReader) text(n payload.Node, def string) string {
	v, err := n.StringOr(def)
	r.keep(err)
	return v
}

func (r *fieldReader) flag(n payload.Node) bool {
	v, err := n.BoolOr(false)
	r.keep(err)
	return v
}

func (r *fieldReader) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}
