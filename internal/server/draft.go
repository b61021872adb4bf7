package server

import (
	"context"
	"esc-cup/internal/service"
	"net/http"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const DraftServicePath = "/esccup.v1.DraftService/"

type DraftServer struct {
	draftSvc *service.DraftService
	logger   zerolog.Logger
}

func NewDraftServer(draftSvc *service.DraftService, logger zerolog.Logger) *DraftServer {
	return &DraftServer{draftSvc: draftSvc, logger: logger}
}

func (s *DraftServer) Handler() (string, http.Handler) {
	opts := handlerOptions(s.logger)
	mux := http.NewServeMux()
	mux.Handle(DraftServicePath+"ListTeams", connect.NewUnaryHandler(DraftServicePath+"ListTeams", s.ListTeams, opts...))
	mux.Handle(DraftServicePath+"ListDraftPool", connect.NewUnaryHandler(DraftServicePath+"ListDraftPool", s.ListDraftPool, opts...))
	mux.Handle(DraftServicePath+"AssignPlayers", connect.NewUnaryHandler(DraftServicePath+"AssignPlayers", s.AssignPlayers, opts...))
	return DraftServicePath, mux
}

func (s *DraftServer) ListTeams(ctx context.Context, _ *connect.Request[ListTeamsRequest]) (*connect.Response[ListTeamsResponse], error) {
	teams, err := s.draftSvc.ListTeamsWithPlayers(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ListTeamsResponse{Teams: make([]TeamDTO, len(teams))}
	for i, t := range teams {
		resp.Teams[i] = TeamDTO{
			ID:           t.Team.ID,
			Name:         t.Team.Name,
			DisplayOrder: t.Team.DisplayOrder,
			Players:      toPlayerDTOs(t.Players),
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *DraftServer) ListDraftPool(ctx context.Context, _ *connect.Request[ListDraftPoolRequest]) (*connect.Response[PlayerListResponse], error) {
	players, err := s.draftSvc.ListDraftPool(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerListResponse{Players: toPlayerDTOs(players)}), nil
}

func (s *DraftServer) AssignPlayers(ctx context.Context, req *connect.Request[AssignPlayersRequest]) (*connect.Response[AssignPlayersResponse], error) {
	assignments := make([]service.Assignment, len(req.Msg.Assignments))
	for i, a := range req.Msg.Assignments {
		assignments[i] = service.Assignment{PlayerID: a.PlayerID, TeamID: a.TeamID}
	}

	if err := s.draftSvc.AssignPlayers(ctx, assignments); err != nil {
		return nil, err
	}
	return connect.NewResponse(&AssignPlayersResponse{Assigned: len(assignments)}), nil
}
