package service

import (
	_ "embed"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/bibliotecaonline/biblioteca-server/internal/domain"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/util"
)

//go:embed team.yaml
var teamYAML []byte

// TeamService serves the about page team directory.
type TeamService struct {
	raw    []byte
	logger *slog.Logger

	once    sync.Once
	members []domain.TeamMember
	bySlug  map[string]int
	err     error
}

// NewTeamService creates a team service over the embedded directory.
func NewTeamService(logger *slog.Logger) *TeamService {
	return NewTeamServiceFromYAML(teamYAML, logger)
}

// NewTeamServiceFromYAML creates a team service over raw YAML, decoded on first use.
func NewTeamServiceFromYAML(raw []byte, logger *slog.Logger) *TeamService {
	return &TeamService{raw: raw, logger: logger}
}

func (s *TeamService) decode() error {
	s.once.Do(func() {
		var members []domain.TeamMember
		if err := yaml.Unmarshal(s.raw, &members); err != nil {
			s.err = fmt.Errorf("decode team directory: %w", err)
			return
		}

		s.bySlug = make(map[string]int, len(members))
		for i := range members {
			m := &members[i]
			if m.Slug == "" {
				m.Slug = util.Slugify(m.Name)
			}
			if m.Slug == "" {
				s.err = fmt.Errorf("team member %d has neither slug nor name", i)
				return
			}
			if _, dup := s.bySlug[m.Slug]; dup {
				s.err = fmt.Errorf("duplicate team member slug %q", m.Slug)
				return
			}
			s.bySlug[m.Slug] = i
		}
		s.members = members
		s.logger.Debug("team directory loaded", "members", len(members))
	})
	if s.err != nil {
		return domainerrors.Wrap(s.err, domainerrors.CodeInternal, "team directory unavailable")
	}
	return nil
}

// List returns every member in display order.
func (s *TeamService) List() ([]domain.TeamMember, error) {
	if err := s.decode(); err != nil {
		return nil, err
	}
	return slices.Clone(s.members), nil
}

// Get returns one member by slug. The slug is normalized first, so "Bruno_Lima" finds
// bruno-lima.
func (s *TeamService) Get(slug string) (domain.TeamMember, error) {
	if err := s.decode(); err != nil {
		return domain.TeamMember{}, err
	}
	i, ok := s.bySlug[util.Slugify(slug)]
	if !ok {
		return domain.TeamMember{}, domainerrors.NotFoundf("team member %s not found", slug)
	}
	return s.members[i], nil
}
