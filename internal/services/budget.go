package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

const budgetProjectsQuery = `
query GetBudgetProjects($after: String, $filter: ProjectFilter, $sort: [ProjectSort!], $first: Int) {
    projects(after: $after, first: $first, filter: $filter, sort: $sort) {
        id
        title
        archivedOn
        cursor
        ancestors {
            id
            archivedOn
            createdOn
            title
            depth
        }
    }
}`

const budgetHoursQuery = `
query BudgetHours($filter: BudgetHoursFilter, $sort: [BudgetHoursSort!], $first: Int, $after: String) {
    budgetHours(filter: $filter, sort: $sort, first: $first, after: $after) {
        id projectId memberId budgetSeconds costCodeId equipmentId createdOn cursor equipmentBudgetSeconds
    }
}`

const budgetCostsQuery = `
query BudgetCosts($filter: BudgetCostFilter, $sort: [BudgetCostSort!], $first: Int, $after: String) {
    budgetCosts(filter: $filter, sort: $sort, first: $first, after: $after) {
        id projectId memberId costBudget costCodeId equipmentId cursor equipmentCostBudget
    }
}`

const progressBudgetsQuery = `
query GetProgressBudgets($filter: ProgressBudgetFilter, $first: Int, $after: String, $sort: [ProgressBudgetSort!]) {
    progressBudgets(first: $first, after: $after, filter: $filter, sort: $sort) {
        id cursor quantity value projectId costCodeId
    }
}`

const costCodesByIDQuery = `
query GetCostCodes($filter: CostCodeFilter) {
    costCodes(filter: $filter) {
        id
        title
        costCode
    }
}`

// BudgetExport is the cached, timezone-independent budget report.
type BudgetExport struct {
	Rows    []engine.AggregateRow `json:"rows"`
	Skipped []engine.Skip         `json:"skipped"`
}

// BudgetService exports the merged hours/costs/progress budget report.
type BudgetService interface {
	Export(ctx context.Context, apiKey string, isArchived bool) (BudgetExport, error)
}

type budgetService struct {
	log   *logger.Logger
	api   busybusy.Client
	store cache.Store
	cfg   Config
}

func NewBudgetService(log *logger.Logger, api busybusy.Client, store cache.Store, cfg Config) BudgetService {
	return &budgetService{
		log:   log.With("service", "BudgetService"),
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

func (s *budgetService) Export(ctx context.Context, apiKey string, isArchived bool) (BudgetExport, error) {
	return cache.Fetch(ctx, s.store, s.log, cache.Key("budget", isArchived), s.cfg.ttl(isArchived),
		func(ctx context.Context) (BudgetExport, error) {
			return s.fetchAllBudgets(ctx, apiKey, isArchived)
		})
}

func (s *budgetService) fetchAllBudgets(ctx context.Context, apiKey string, isArchived bool) (BudgetExport, error) {
	projects, err := s.fetchBudgetProjects(ctx, apiKey, isArchived)
	if err != nil {
		return BudgetExport{}, err
	}
	if len(projects) == 0 {
		return BudgetExport{}, nil
	}

	base := make([]engine.BaseEntity, 0, len(projects))
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		if p == nil || p.ID == "" {
			continue
		}
		base = append(base, engine.BaseEntity{
			ID:       p.ID,
			Title:    buildProjectTitle(p),
			Archived: p.ArchivedOn != nil,
		})
		ids = append(ids, p.ID)
	}

	// The three budget datasets are independent; fetch them in parallel,
	// each fanned out over 50-id chunks.
	var (
		hours    []types.BudgetHours
		costs    []types.BudgetCost
		progress []types.ProgressBudget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hours, err = fetchChunkedDataset[types.BudgetHours](gctx, s, apiKey, ids, budgetHoursQuery, "budgetHours",
			func(r types.BudgetHours) string { return r.Cursor })
		return err
	})
	g.Go(func() error {
		var err error
		costs, err = fetchChunkedDataset[types.BudgetCost](gctx, s, apiKey, ids, budgetCostsQuery, "budgetCosts",
			func(r types.BudgetCost) string { return r.Cursor })
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = fetchChunkedDataset[types.ProgressBudget](gctx, s, apiKey, ids, progressBudgetsQuery, "progressBudgets",
			func(r types.ProgressBudget) string { return r.Cursor })
		return err
	})
	if err := g.Wait(); err != nil {
		return BudgetExport{}, err
	}

	costCodes, err := s.fetchCostCodes(ctx, apiKey, progressCostCodeIDs(progress))
	if err != nil {
		return BudgetExport{}, err
	}

	rows, skips := engine.Aggregate(base, engine.Datasets{
		Hours:     hoursRecords(hours),
		Costs:     costRecords(costs),
		Progress:  progressRecords(progress),
		CostCodes: costCodeRefs(costCodes),
	})
	if len(skips) > 0 {
		s.log.Warn("budget aggregation skipped records", "skipped", len(skips))
	}
	return BudgetExport{Rows: rows, Skipped: skips}, nil
}

func (s *budgetService) fetchBudgetProjects(ctx context.Context, apiKey string, isArchived bool) ([]*types.Project, error) {
	return engine.Paginate(ctx, s.cfg.PageSize,
		func(p *types.Project) string { return p.Cursor },
		func(ctx context.Context, after *string) ([]*types.Project, error) {
			var page []*types.Project
			req := busybusy.Request{
				Query: budgetProjectsQuery,
				Variables: map[string]any{
					"first": s.cfg.PageSize,
					"filter": map[string]any{
						"archivedOn": map[string]any{"isNull": !isArchived},
					},
					"sort": []map[string]any{
						{"title": "asc"},
						{"createdOn": "asc"},
					},
					"after": after,
				},
			}
			if err := s.api.Query(ctx, apiKey, req, "projects", &page); err != nil {
				return nil, err
			}
			return page, nil
		})
}

// fetchChunkedDataset exhausts one budget dataset for a project id set:
// FetchChunked fans the ids out and each chunk runs its own pagination.
func fetchChunkedDataset[T any](ctx context.Context, s *budgetService, apiKey string, ids []string, query, resultKey string, cursorOf func(T) string) ([]T, error) {
	return engine.FetchChunked(ctx, ids, s.cfg.ChunkSize, s.cfg.MaxConcurrent,
		func(ctx context.Context, chunk []string) ([]T, error) {
			return engine.Paginate(ctx, s.cfg.PageSize, cursorOf,
				func(ctx context.Context, after *string) ([]T, error) {
					filter := map[string]any{
						"projectId": map[string]any{"contains": chunk},
					}
					if resultKey == "progressBudgets" {
						filter["deletedOn"] = map[string]any{"isNull": true}
					} else {
						filter["isLatest"] = map[string]any{"equal": true}
					}
					var page []T
					req := busybusy.Request{
						Query: query,
						Variables: map[string]any{
							"first":  s.cfg.PageSize,
							"filter": filter,
							"sort":   []map[string]any{{"createdOn": "desc"}},
							"after":  after,
						},
					}
					if err := s.api.Query(ctx, apiKey, req, resultKey, &page); err != nil {
						return nil, err
					}
					return page, nil
				})
		})
}

func (s *budgetService) fetchCostCodes(ctx context.Context, apiKey string, ids []string) ([]types.CostCode, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var codes []types.CostCode
	req := busybusy.Request{
		Query: costCodesByIDQuery,
		Variables: map[string]any{
			"filter": map[string]any{
				"id": map[string]any{"contains": ids},
			},
		},
	}
	if err := s.api.Query(ctx, apiKey, req, "costCodes", &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// buildProjectTitle joins the ancestor chain (depth ascending) and the
// project's own title into one display path.
func buildProjectTitle(p *types.Project) string {
	ancestors := append([]*types.ProjectAncestor(nil), p.Ancestors...)
	sort.SliceStable(ancestors, func(i, j int) bool { return ancestors[i].Depth < ancestors[j].Depth })

	segments := make([]string, 0, len(ancestors)+1)
	for _, anc := range ancestors {
		if anc == nil {
			continue
		}
		if title := strings.TrimSpace(anc.Title); title != "" {
			segments = append(segments, title)
		}
	}
	if title := strings.TrimSpace(p.Title); title != "" {
		segments = append(segments, title)
	}
	return strings.Join(segments, engine.PathSeparator)
}

func progressCostCodeIDs(progress []types.ProgressBudget) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range progress {
		if p.CostCodeID == nil || *p.CostCodeID == "" || seen[*p.CostCodeID] {
			continue
		}
		seen[*p.CostCodeID] = true
		ids = append(ids, *p.CostCodeID)
	}
	sort.Strings(ids)
	return ids
}

func hoursRecords(hours []types.BudgetHours) []engine.HoursRecord {
	out := make([]engine.HoursRecord, 0, len(hours))
	for _, h := range hours {
		out = append(out, engine.HoursRecord{
			ID:            h.ID,
			ProjectID:     h.ProjectID,
			CostCodeID:    strOrEmpty(h.CostCodeID),
			BudgetSeconds: h.BudgetSeconds,
		})
	}
	return out
}

func costRecords(costs []types.BudgetCost) []engine.CostRecord {
	out := make([]engine.CostRecord, 0, len(costs))
	for _, c := range costs {
		out = append(out, engine.CostRecord{
			ID:         c.ID,
			ProjectID:  c.ProjectID,
			CostCodeID: strOrEmpty(c.CostCodeID),
			CostBudget: c.CostBudget,
		})
	}
	return out
}

func progressRecords(progress []types.ProgressBudget) []engine.ProgressRecord {
	out := make([]engine.ProgressRecord, 0, len(progress))
	for _, p := range progress {
		out = append(out, engine.ProgressRecord{
			ID:         p.ID,
			ProjectID:  p.ProjectID,
			CostCodeID: strOrEmpty(p.CostCodeID),
			Value:      p.Value,
			Quantity:   p.Quantity,
		})
	}
	return out
}

func costCodeRefs(codes []types.CostCode) []engine.CostCodeRef {
	out := make([]engine.CostCodeRef, 0, len(codes))
	for _, cc := range codes {
		out = append(out, engine.CostCodeRef{
			ID:    cc.ID,
			Code:  cc.CostCode,
			Title: cc.Title,
		})
	}
	return out
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
