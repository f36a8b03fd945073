package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

const membersQuery = `
query GetMembers($filter: MemberFilter, $first: Int, $after: String, $sort: [MemberSort!]) {
    members(filter: $filter, first: $first, after: $after, sort: $sort) {
        id
        firstName
        lastName
        username
        email
        phone
        memberNumber
        isSubContractor
        timeLocationRequired
        createdOn
        updatedOn
        archivedOn
        cursor
        position {
            title
        }
        memberGroup {
            groupName
        }
        wageHistories {
            wage
            wageRate
            overburden
            effectiveRate
            createdOn
            updatedOn
            deletedOn
            changeDate
        }
    }
}`

// wageRateLabels maps the upstream numeric wage-rate codes to display names.
var wageRateLabels = map[int]string{
	10: "Hourly",
	30: "Weekly",
	40: "Monthly",
	50: "Yearly",
}

// EmployeeService exports the member roster with its latest wage entries.
type EmployeeService interface {
	Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.EmployeeRow, error)
}

type employeeService struct {
	log   *logger.Logger
	api   busybusy.Client
	store cache.Store
	cfg   Config
}

func NewEmployeeService(log *logger.Logger, api busybusy.Client, store cache.Store, cfg Config) EmployeeService {
	return &employeeService{
		log:   log.With("service", "EmployeeService"),
		api:   api,
		store: store,
		cfg:   cfg,
	}
}

func (s *employeeService) Export(ctx context.Context, apiKey string, isArchived bool, timezone string) ([]types.EmployeeRow, error) {
	members, err := cache.Fetch(ctx, s.store, s.log, cache.Key("employee", isArchived), s.cfg.ttl(isArchived),
		func(ctx context.Context) ([]types.Member, error) {
			return s.fetchMembers(ctx, apiKey, isArchived)
		})
	if err != nil {
		return nil, err
	}

	rows := make([]types.EmployeeRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, s.prepareRow(m, timezone))
	}
	return rows, nil
}

func (s *employeeService) fetchMembers(ctx context.Context, apiKey string, isArchived bool) ([]types.Member, error) {
	return engine.Paginate(ctx, s.cfg.PageSize,
		func(m types.Member) string { return m.Cursor },
		func(ctx context.Context, after *string) ([]types.Member, error) {
			var page []types.Member
			req := busybusy.Request{
				Query: membersQuery,
				Variables: map[string]any{
					"filter": map[string]any{
						"archivedOn": map[string]any{"isNull": !isArchived},
						"permissions": map[string]any{
							"permissions":   []string{"manageEmployees"},
							"operationType": "and",
						},
					},
					"sort": []map[string]any{
						{"firstName": "asc"},
						{"lastName": "asc"},
					},
					"first": s.cfg.PageSize,
					"after": after,
				},
			}
			if err := s.api.Query(ctx, apiKey, req, "members", &page); err != nil {
				return nil, err
			}
			return page, nil
		})
}

func (s *employeeService) prepareRow(m types.Member, timezone string) types.EmployeeRow {
	position := ""
	if m.Position != nil {
		position = m.Position.Title
	}
	groupName := ""
	if m.MemberGroup != nil {
		groupName = m.MemberGroup.GroupName
	}
	phone := ""
	if m.Phone != nil {
		phone = strings.ReplaceAll(*m.Phone, "+", "")
	}
	status := "Active"
	if m.ArchivedOn != nil {
		status = "Archived"
	}

	row := types.EmployeeRow{
		ID:              m.ID,
		MemberNumber:    m.MemberNumber,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Username:        m.Username,
		Phone:           phone,
		Email:           m.Email,
		GroupName:       groupName,
		Position:        position,
		IsSubcontractor: yesNo(m.IsSubContractor),
		GPSSetting:      gpsSetting(m.TimeLocationRequired),
		CreatedOn:       localize(s.log, m.CreatedOn, timezone),
		UpdatedOn:       localize(s.log, m.UpdatedOn, timezone),
		Status:          status,
	}
	if wage := latestWage(m.WageHistories); wage != nil {
		row.Wage = wage.Wage
		row.Overburden = wage.Overburden
		if wage.WageRate != nil {
			row.WageRate = wageRateLabels[*wage.WageRate]
		}
	}
	return row
}

// latestWage picks the newest non-deleted wage entry, ordered by change date
// with the update timestamp breaking ties. Timestamps are ISO strings, so
// lexical comparison matches chronological order.
func latestWage(histories []*types.WageHistory) *types.WageHistory {
	live := make([]*types.WageHistory, 0, len(histories))
	for _, h := range histories {
		if h != nil && h.DeletedOn == nil {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].ChangeDate != live[j].ChangeDate {
			return live[i].ChangeDate > live[j].ChangeDate
		}
		return live[i].UpdatedOn > live[j].UpdatedOn
	})
	return live[0]
}

func gpsSetting(timeLocationRequired string) string {
	switch timeLocationRequired {
	case "YES":
		return "required"
	case "AUTO":
		return "not required"
	case "NO":
		return "off"
	default:
		return ""
	}
}
