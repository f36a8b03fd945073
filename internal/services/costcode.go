package services

import (
	"context"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

const costCodesQuery = `
query GetCostCodes($filter: CostCodeFilter, $first: Int, $after: String, $sort: [CostCodeSort!]) {
    costCodes(filter: $filter, first: $first, after: $after, sort: $sort) {
        id
        costCode
        title
        unitTitle
        createdOn
        updatedOn
        archivedOn
        cursor
        costCodeGroup {
            groupName
        }
    }
}`

// CostCodeService exports the cost code list.
type CostCodeService interface {
	Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.CostCodeRow, error)
}

type costCodeService struct {
	log   *logger.Logger
	api   busybusy.Client
	store cache.Store
	cfg   Config
}

func NewCostCodeService(log *logger.Logger, api busybusy.Client, store cache.Store, cfg Config) CostCodeService {
	return &costCodeService{
		log:   log.With("service", "CostCodeService"),
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

func (s *costCodeService) Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.CostCodeRow, error) {
	codes, err := cache.Fetch(ctx, s.store, s.log, cache.Key("cost_code", isArchived), s.cfg.ttl(isArchived),
		func(ctx context.Context) ([]types.CostCode, error) {
			return s.fetchCostCodes(ctx, apiKey, isArchived)
		})
	if err != nil {
		return nil, err
	}

	rows := make([]types.CostCodeRow, 0, len(codes))
	for _, cc := range codes {
		rows = append(rows, s.prepareRow(cc, timezone))
	}
	return rows, nil
}

func (s *costCodeService) fetchCostCodes(ctx context.Context, apiKey string, isArchived bool) ([]types.CostCode, error) {
	return engine.Paginate(ctx, s.cfg.PageSize,
		func(cc types.CostCode) string { return cc.Cursor },
		func(ctx context.Context, after *string) ([]types.CostCode, error) {
			var page []types.CostCode
			req := busybusy.Request{
				Query: costCodesQuery,
				Variables: map[string]any{
					"filter": map[string]any{
						"archivedOn": map[string]any{"isNull": !isArchived},
					},
					"sort": []map[string]any{
						{"costCode": "asc"},
						{"title": "asc"},
					},
					"first": s.cfg.PageSize,
					"after": after,
				},
			}
			if err := s.api.Query(ctx, apiKey, req, "costCodes", &page); err != nil {
				return nil, err
			}
			return page, nil
		})
}

func (s *costCodeService) prepareRow(cc types.CostCode, timezone string) types.CostCodeRow {
	groupName := ""
	if cc.CostCodeGroup != nil {
		groupName = cc.CostCodeGroup.GroupName
	}
	status := "Active"
	if cc.ArchivedOn != nil {
		status = "Archived"
	}
	return types.CostCodeRow{
		ID:        cc.ID,
		CostCode:  cc.CostCode,
		Title:     cc.Title,
		UnitTitle: cc.UnitTitle,
		GroupName: groupName,
		CreatedOn: localize(s.log, cc.CreatedOn, timezone),
		UpdatedOn: localize(s.log, cc.UpdatedOn, timezone),
		Status:    status,
	}
}
