package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotecaonline/biblioteca-server/internal/color"
)

func TestListTeam(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/team")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	members := decodeEnvelope[TeamListResponse](t, resp.Body.Bytes()).Data.Members
	require.Len(t, members, 4)

	slugs := make([]string, len(members))
	for i, m := range members {
		slugs[i] = m.Slug
	}
	assert.Equal(t, []string{"ana-souza", "bruno-lima", "carla-mendes", "diego-alves"}, slugs)
	assert.Len(t, members[0].Links, 2)
	assert.Equal(t, "instagram", members[2].Links[0].Network)
}

func TestGetTeamMember(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/team/bruno-lima")
	require.Equal(t, http.StatusOK, resp.Code)
	member := decodeEnvelope[TeamMemberResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Bruno Lima", member.Name)
	assert.NotEmpty(t, member.BioLong)
	require.Len(t, member.Links, 1)
	assert.Equal(t, "linkedin", member.Links[0].Network)
	assert.Equal(t, color.ForKey("bruno-lima"), member.AvatarColor)

	resp = ts.api.Get("/api/v1/team/ninguem")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}
