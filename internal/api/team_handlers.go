package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bibliotecaonline/biblioteca-server/internal/color"
	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
)

func (s *Server) registerTeamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTeam",
		Method:      http.MethodGet,
		Path:        "/api/v1/team",
		Summary:     "List team",
		Description: "Returns the team directory in display order",
		Tags:        []string{"Team"},
	}, s.handleListTeam)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTeamMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/team/{slug}",
		Summary:     "Get team member",
		Description: "Returns one member with the long bio shown in the detail dialog",
		Tags:        []string{"Team"},
	}, s.handleGetTeamMember)
}

// TeamMemberResponse is a member plus the social links to render.
type TeamMemberResponse struct {
	domain.TeamMember
	Links []domain.SocialLink `json:"links"`
	// AvatarColor is the background behind the avatar glyph.
	AvatarColor string `json:"avatarColor"`
}

func newTeamMemberResponse(m domain.TeamMember) TeamMemberResponse {
	links := m.Links()
	if links == nil {
		links = []domain.SocialLink{}
	}
	return TeamMemberResponse{TeamMember: m, Links: links, AvatarColor: color.ForKey(m.Slug)}
}

// TeamListResponse is the team directory.
type TeamListResponse struct {
	Members []TeamMemberResponse `json:"members"`
}

// TeamListOutput wraps the team directory.
type TeamListOutput struct {
	Body TeamListResponse
}

func (s *Server) handleListTeam(_ context.Context, _ *struct{}) (*TeamListOutput, error) {
	members, err := s.services.Team.List()
	if err != nil {
		return nil, err
	}
	out := make([]TeamMemberResponse, len(members))
	for i, m := range members {
		out[i] = newTeamMemberResponse(m)
	}
	return &TeamListOutput{Body: TeamListResponse{Members: out}}, nil
}

// TeamMemberInput selects a member by slug.
type TeamMemberInput struct {
	Slug string `path:"slug" doc:"Member slug, e.g. ana-souza"`
}

// TeamMemberOutput wraps one member.
type TeamMemberOutput struct {
	Body TeamMemberResponse
}

func (s *Server) handleGetTeamMember(_ context.Context, input *TeamMemberInput) (*TeamMemberOutput, error) {
	member, err := s.services.Team.Get(input.Slug)
	if err != nil {
		return nil, err
	}
	return &TeamMemberOutput{Body: newTeamMemberResponse(member)}, nil
}
