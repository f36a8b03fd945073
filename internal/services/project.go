package services

import (
	"context"
	"sort"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

const projectsQuery = `
query FetchProjects($filter: ProjectFilter, $first: Int, $after: String, $sort: [ProjectSort!]) {
    projects(filter: $filter, first: $first, after: $after, sort: $sort) {
        cursor
        id
        title
        archivedOn
        depth
        createdOn
        updatedOn
        children {
            ...ProjectDetails
            children {
                ...ProjectDetails
                children {
                    ...ProjectDetails
                    children {
                        ...ProjectDetails
                        children {
                            ...ProjectDetails
                            children {
                                ...ProjectDetails
                            }
                        }
                    }
                }
            }
        }
        ...ProjectDetails
    }
}
fragment ProjectDetails on Project {
    id
    title
    archivedOn
    depth
    createdOn
    updatedOn
    projectInfo {
        projectId
        number
        customer
        address1
        address2
        city
        state
        postalCode
        phone
        reminder
        requireTimeEntryGps
        additionalInfo
        latitude
        locationRadius
        longitude
    }
    projectGroup {
        groupName
    }
}`

// ProjectService exports the project hierarchy as flattened rows.
type ProjectService interface {
	Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.ProjectRow, []engine.Skip, error)
}

type projectService struct {
	log   *logger.Logger
	api   busybusy.Client
	store cache.Store
	cfg   Config
}

func NewProjectService(log *logger.Logger, api busybusy.Client, store cache.Store, cfg Config) ProjectService {
	return &projectService{
		log:   log.With("service", "ProjectService"),
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

func (s *projectService) Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.ProjectRow, []engine.Skip, error) {
	// The raw tree is cached, not the formatted rows: formatting depends on
	// the caller's timezone, which is not part of the cache key.
	projects, err := cache.Fetch(ctx, s.store, s.log, cache.Key("project", isArchived), s.cfg.ttl(isArchived),
		func(ctx context.Context) ([]*types.Project, error) {
			return s.fetchProjects(ctx, apiKey, isArchived)
		})
	if err != nil {
		return nil, nil, err
	}

	view := engine.ViewActive
	if isArchived {
		view = engine.ViewArchived
	}
	rows, skips := s.prepareHierarchy(projects, view, timezone)
	return rows, skips, nil
}

func (s *projectService) fetchProjects(ctx context.Context, apiKey string, isArchived bool) ([]*types.Project, error) {
	return engine.Paginate(ctx, s.cfg.PageSize,
		func(p *types.Project) string { return p.Cursor },
		func(ctx context.Context, after *string) ([]*types.Project, error) {
			var page []*types.Project
			req := busybusy.Request{
				Query: projectsQuery,
				Variables: map[string]any{
					"filter": map[string]any{
						"archivedOn": map[string]any{"isNull": !isArchived},
						"depth":      map[string]any{"equal": 1},
					},
					"sort": []map[string]any{
						{"title": "asc"},
						{"projectInfo": map[string]any{"projectId": "asc"}},
						{"createdOn": "asc"},
					},
					"first": s.cfg.PageSize,
					"after": after,
				},
			}
			if err := s.api.Query(ctx, apiKey, req, "projects", &page); err != nil {
				return nil, err
			}
			return page, nil
		})
}

func (s *projectService) prepareHierarchy(projects []*types.Project, view engine.View, timezone string) ([]types.ProjectRow, []engine.Skip) {
	roots := make([]*engine.Node, 0, len(projects))
	for _, p := range projects {
		roots = append(roots, projectNode(p))
	}

	flats, skips := engine.Flatten(roots, view)

	rows := make([]types.ProjectRow, 0, len(flats))
	for _, flat := range flats {
		rows = append(rows, s.formatRow(flat, timezone))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return engine.ComparePaths(rows[i].ProjectNames[:], rows[j].ProjectNames[:], rows[i].ID, rows[j].ID) < 0
	})
	return rows, skips
}

func projectNode(p *types.Project) *engine.Node {
	if p == nil {
		return nil
	}
	node := &engine.Node{
		ID:       p.ID,
		Title:    p.Title,
		Archived: p.ArchivedOn != nil,
		Record:   p,
	}
	for _, child := range p.Children {
		node.Children = append(node.Children, projectNode(child))
	}
	return node
}

func (s *projectService) formatRow(flat engine.Flat, timezone string) types.ProjectRow {
	p := flat.Node.Record.(*types.Project)
	info := p.ProjectInfo
	if info == nil {
		info = &types.ProjectInfo{}
	}
	group := p.ProjectGroup
	if group == nil {
		group = &types.ProjectGroup{}
	}

	status := "Active"
	if p.ArchivedOn != nil {
		status = "Archived"
	}
	return types.ProjectRow{
		ID:                  p.ID,
		Number:              info.Number,
		Customer:            info.Customer,
		Address1:            info.Address1,
		Address2:            info.Address2,
		City:                info.City,
		State:               info.State,
		PostalCode:          info.PostalCode,
		Phone:               info.Phone,
		ProjectNames:        flat.Path,
		GroupName:           group.GroupName,
		Latitude:            info.Latitude,
		Longitude:           info.Longitude,
		HasReminder:         yesNo(info.Reminder),
		LocationRadius:      info.LocationRadius,
		AdditionalInfo:      info.AdditionalInfo,
		CreatedOn:           localize(s.log, p.CreatedOn, timezone),
		UpdatedOn:           localize(s.log, p.UpdatedOn, timezone),
		RequiresGPS:         yesNo(info.RequireTimeEntryGps == "self" || info.RequireTimeEntryGps == "self_and_children"),
		RequiresGPSChildren: yesNo(info.RequireTimeEntryGps == "self_and_children"),
		Status:              status,
	}
}
