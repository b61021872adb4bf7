package server

import (
	"context"
	"esc-cup/internal/domain"
	"esc-cup/internal/service"
	"net/http"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const TournamentServicePath = "/esccup.v1.TournamentService/"

const (
	blueTeamKey = "blueTeamId"
	redTeamKey  = "redTeamId"
)

type TournamentServer struct {
	bracketSvc   *service.BracketService
	ingestionSvc *service.IngestionService
	logger       zerolog.Logger
}

func NewTournamentServer(bracketSvc *service.BracketService, ingestionSvc *service.IngestionService, logger zerolog.Logger) *TournamentServer {
	return &TournamentServer{bracketSvc: bracketSvc, ingestionSvc: ingestionSvc, logger: logger}
}

// Handler returns the mount path and the handler serving every TournamentService procedure.
func (s *TournamentServer) Handler() (string, http.Handler) {
	opts := handlerOptions(s.logger)
	mux := http.NewServeMux()
	mount := func(method string, h http.Handler) {
		mux.Handle(TournamentServicePath+method, h)
	}

	mount("CreateEmptyBracket", connect.NewUnaryHandler(TournamentServicePath+"CreateEmptyBracket", s.CreateEmptyBracket, opts...))
	mount("UpdateMatch", connect.NewUnaryHandler(TournamentServicePath+"UpdateMatch", s.UpdateMatch, opts...))
	mount("GetMatch", connect.NewUnaryHandler(TournamentServicePath+"GetMatch", s.GetMatch, opts...))
	mount("ListMatches", connect.NewUnaryHandler(TournamentServicePath+"ListMatches", s.ListMatches, opts...))
	mount("CreateMatch", connect.NewUnaryHandler(TournamentServicePath+"CreateMatch", s.CreateMatch, opts...))
	mount("DeleteMatch", connect.NewUnaryHandler(TournamentServicePath+"DeleteMatch", s.DeleteMatch, opts...))
	mount("PatchMatchTeams", connect.NewUnaryHandler(TournamentServicePath+"PatchMatchTeams", s.PatchMatchTeams, opts...))
	mount("IngestMatch", connect.NewUnaryHandler(TournamentServicePath+"IngestMatch", s.IngestMatch, opts...))

	return TournamentServicePath, mux
}

func (s *TournamentServer) CreateEmptyBracket(ctx context.Context, req *connect.Request[CreateEmptyBracketRequest]) (*connect.Response[MatchListResponse], error) {
	matches, err := s.bracketSvc.CreateEmptyBracket(ctx, req.Msg.TeamCount)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MatchListResponse{Matches: s.toMatchDTOs(matches, nil)}), nil
}

func (s *TournamentServer) UpdateMatch(ctx context.Context, req *connect.Request[UpdateMatchRequest]) (*connect.Response[MatchResponse], error) {
	m, err := s.bracketSvc.AssignOrAdvance(ctx, req.Msg.MatchID, service.AssignRequest{
		BlueTeamID:   req.Msg.BlueTeamID,
		RedTeamID:    req.Msg.RedTeamID,
		WinnerTeamID: req.Msg.WinnerTeamID,
		Score:        req.Msg.Score,
	})
	if err != nil {
		return nil, err
	}
	return s.matchResponse(ctx, m)
}

func (s *TournamentServer) GetMatch(ctx context.Context, req *connect.Request[GetMatchRequest]) (*connect.Response[MatchResponse], error) {
	m, err := s.bracketSvc.GetMatch(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, err
	}
	return s.matchResponse(ctx, m)
}

func (s *TournamentServer) ListMatches(ctx context.Context, _ *connect.Request[ListMatchesRequest]) (*connect.Response[MatchListResponse], error) {
	matches, err := s.bracketSvc.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.bracketSvc.TeamNames(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MatchListResponse{Matches: s.toMatchDTOs(matches, names)}), nil
}

func (s *TournamentServer) CreateMatch(ctx context.Context, req *connect.Request[CreateMatchRequest]) (*connect.Response[MatchResponse], error) {
	m, err := s.bracketSvc.CreateMatch(ctx, service.NewMatch{
		Stage:      req.Msg.Stage,
		BlueTeamID: req.Msg.BlueTeamID,
		RedTeamID:  req.Msg.RedTeamID,
	})
	if err != nil {
		return nil, err
	}
	return s.matchResponse(ctx, m)
}

func (s *TournamentServer) DeleteMatch(ctx context.Context, req *connect.Request[DeleteMatchRequest]) (*connect.Response[DeleteMatchResponse], error) {
	if err := s.bracketSvc.DeleteMatch(ctx, req.Msg.MatchID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&DeleteMatchResponse{}), nil
}

func (s *TournamentServer) PatchMatchTeams(ctx context.Context, req *connect.Request[PatchMatchTeamsRequest]) (*connect.Response[MatchResponse], error) {
	blue, setBlue := req.Msg.Teams[blueTeamKey]
	red, setRed := req.Msg.Teams[redTeamKey]

	m, err := s.bracketSvc.PatchTeams(ctx, req.Msg.MatchID, service.TeamPatch{
		SetBlue:    setBlue,
		BlueTeamID: blue,
		SetRed:     setRed,
		RedTeamID:  red,
	})
	if err != nil {
		return nil, err
	}
	return s.matchResponse(ctx, m)
}

func (s *TournamentServer) IngestMatch(ctx context.Context, req *connect.Request[IngestMatchRequest]) (*connect.Response[IngestMatchResponse], error) {
	res, err := s.ingestionSvc.Ingest(ctx, req.Msg.GameID, req.Msg.Stage)
	if err != nil {
		return nil, err
	}
	names, err := s.bracketSvc.TeamNames(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&IngestMatchResponse{
		GameID:              res.GameID,
		Match:               toMatchDTO(res.Match, names),
		SkippedParticipants: toSkippedDTOs(res.Skipped),
	}), nil
}

func (s *TournamentServer) matchResponse(ctx context.Context, m *domain.Match) (*connect.Response[MatchResponse], error) {
	names, err := s.bracketSvc.TeamNames(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MatchResponse{Match: toMatchDTO(m, names)}), nil
}

func (s *TournamentServer) toMatchDTOs(matches []domain.Match, names map[int64]string) []MatchDTO {
	result := make([]MatchDTO, len(matches))
	for i := range matches {
		result[i] = toMatchDTO(&matches[i], names)
	}
	return result
}
