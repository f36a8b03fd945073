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

const equipmentQuery = `
query GetEquipment($filter: EquipmentFilter, $first: Int, $after: String, $sort: [EquipmentSort!]) {
    equipment(filter: $filter, first: $first, after: $after, sort: $sort) {
        id
        equipmentName
        year
        createdOn
        updatedOn
        deletedOn
        cursor
        model {
            id
            type
            title
            unknown
            make {
                id
                title
                unknown
            }
            category {
                id
                title
            }
        }
        lastHours {
            id
            runningHours
        }
        costHistory {
            id
            operatorCostRate
            createdOn
            deletedOn
        }
    }
}`

// EquipmentService exports the equipment fleet. Equipment has no archived
// state upstream; the archived view maps onto deleted records.
type EquipmentService interface {
	Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.EquipmentRow, error)
}

type equipmentService struct {
	log   *logger.Logger
	api   busybusy.Client
	store cache.Store
	cfg   Config
}

func NewEquipmentService(log *logger.Logger, api busybusy.Client, store cache.Store, cfg Config) EquipmentService {
	return &equipmentService{
		log:   log.With("service", "EquipmentService"),
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

func (s *equipmentService) Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.EquipmentRow, error) {
	fleet, err := cache.Fetch(ctx, s.store, s.log, cache.Key("equipment", isArchived), s.cfg.ttl(isArchived),
		func(ctx context.Context) ([]types.Equipment, error) {
			return s.fetchEquipment(ctx, apiKey, isArchived)
		})
	if err != nil {
		return nil, err
	}

	rows := make([]types.EquipmentRow, 0, len(fleet))
	for _, e := range fleet {
		rows = append(rows, s.prepareRow(e, timezone))
	}
	return rows, nil
}

func (s *equipmentService) fetchEquipment(ctx context.Context, apiKey string, isArchived bool) ([]types.Equipment, error) {
	return engine.Paginate(ctx, s.cfg.PageSize,
		func(e types.Equipment) string { return e.Cursor },
		func(ctx context.Context, after *string) ([]types.Equipment, error) {
			var page []types.Equipment
			req := busybusy.Request{
				Query: equipmentQuery,
				Variables: map[string]any{
					"filter": map[string]any{
						"deletedOn": map[string]any{"isNull": !isArchived},
					},
					"sort": []map[string]any{
						{"equipmentName": "asc"},
						{"createdOn": "desc"},
					},
					"first": s.cfg.PageSize,
					"after": after,
				},
			}
			if err := s.api.Query(ctx, apiKey, req, "equipment", &page); err != nil {
				return nil, err
			}
			return page, nil
		})
}

func (s *equipmentService) prepareRow(e types.Equipment, timezone string) types.EquipmentRow {
	row := types.EquipmentRow{
		ID:            e.ID,
		EquipmentName: e.EquipmentName,
		Year:          e.Year,
		CreatedOn:     localize(s.log, e.CreatedOn, timezone),
		UpdatedOn:     localize(s.log, e.UpdatedOn, timezone),
		Status:        "Active",
	}
	if e.DeletedOn != nil {
		row.Status = "Deleted"
	}

	// Placeholder make/model records are flagged unknown upstream and
	// render as blanks rather than their filler titles.
	if model := e.Model; model != nil {
		row.Type = model.Type
		if !model.Unknown {
			row.Model = model.Title
		}
		if model.Make != nil && !model.Make.Unknown {
			row.Make = model.Make.Title
		}
		if model.Category != nil {
			row.Category = model.Category.Title
		}
	}
	if e.LastHours != nil {
		row.RunningHours = e.LastHours.RunningHours
	}
	if cost := latestCostHistory(e.CostHistory); cost != nil {
		row.OperatorCostRate = cost.OperatorCostRate
	}
	return row
}

// latestCostHistory picks the newest non-deleted cost entry by creation
// timestamp; ISO strings compare lexically in chronological order.
func latestCostHistory(history []*types.EquipmentCostHistory) *types.EquipmentCostHistory {
	live := make([]*types.EquipmentCostHistory, 0, len(history))
	for _, h := range history {
		if h != nil && h.DeletedOn == nil {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].CreatedOn > live[j].CreatedOn })
	return live[0]
}
