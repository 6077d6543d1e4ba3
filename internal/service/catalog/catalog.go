package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/repository/records"
)

// Service loads units together with their parent projects and produces the
// enriched, filterable view the pages work on.
type Service struct {
	repo   records.Repository
	logger *zap.Logger
}

// NewService wires a new catalog service instance.
func NewService(repo records.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Load fetches reference data from the store and resolves each unit against
// its project in memory.
func (s *Service) Load(ctx context.Context) ([]models.EnrichedUnit, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}

	enriched := Enrich(units, projects)
	s.logger.Debug("catalog loaded",
		zap.Int("projects", len(projects)),
		zap.Int("units", len(units)))
	return enriched, nil
}

// Enrich resolves each unit's project reference by first match on id,
// preserving the input unit order. An unresolved reference falls back to the
// sentinel display pair rather than failing.
func Enrich(units []models.Unit, projects []models.Project) []models.EnrichedUnit {
	enriched := make([]models.EnrichedUnit, 0, len(units))
	for _, u := range units {
		name := models.UnknownProjectName
		number := models.UnknownProjectNumber
		for _, p := range projects {
			if p.ID == u.ProjectID {
				name = p.Name
				number = p.ProjectNumber
				break
			}
		}
		enriched = append(enriched, models.EnrichedUnit{
			Unit:          u,
			ProjectName:   name,
			ProjectNumber: number,
		})
	}
	return enriched
}

// Clients returns the distinct union of original client names and title deed
// owners, sorted.
func Clients(units []models.EnrichedUnit) []string {
	seen := make(map[string]struct{})
	for _, u := range units {
		if u.ClientName != "" {
			seen[u.ClientName] = struct{}{}
		}
		if u.TitleDeedOwner != nil && *u.TitleDeedOwner != "" {
			seen[*u.TitleDeedOwner] = struct{}{}
		}
	}

	clients := make([]string, 0, len(seen))
	for name := range seen {
		clients = append(clients, name)
	}
	sort.Strings(clients)
	return clients
}

// FilterClients keeps client names containing the query as a raw substring.
// Matching is case-sensitive with no normalization.
func FilterClients(clients []string, query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return clients
	}

	var matched []string
	for _, c := range clients {
		if strings.Contains(c, q) {
			matched = append(matched, c)
		}
	}
	return matched
}

// UnitsForClient returns the units whose original client or title deed owner
// equals the selected name exactly.
func UnitsForClient(units []models.EnrichedUnit, client string) []models.EnrichedUnit {
	if client == "" {
		return nil
	}

	var matched []models.EnrichedUnit
	for _, u := range units {
		if u.ClientName == client || (u.TitleDeedOwner != nil && *u.TitleDeedOwner == client) {
			matched = append(matched, u)
		}
	}
	return matched
}

// FilterUnits applies the unit search: substring on the derived code,
// substring on the project name, or exact numeric unit number when the query
// parses as an integer.
func FilterUnits(units []models.EnrichedUnit, query string) []models.EnrichedUnit {
	q := strings.TrimSpace(query)
	if q == "" {
		return units
	}

	number, numErr := strconv.Atoi(q)

	var matched []models.EnrichedUnit
	for _, u := range units {
		byCode := strings.Contains(u.Code(), q)
		byProject := strings.Contains(u.ProjectName, q)
		byUnitExact := numErr == nil && u.UnitNumber == number
		if byCode || byProject || byUnitExact {
			matched = append(matched, u)
		}
	}
	return matched
}

// FilterForResale applies the resale page search: substring on project name,
// derived code, or original client name. An empty query matches everything.
func FilterForResale(units []models.EnrichedUnit, query string) []models.EnrichedUnit {
	var matched []models.EnrichedUnit
	for _, u := range units {
		if strings.Contains(u.ProjectName, query) ||
			strings.Contains(u.Code(), query) ||
			(u.ClientName != "" && strings.Contains(u.ClientName, query)) {
			matched = append(matched, u)
		}
	}
	return matched
}
