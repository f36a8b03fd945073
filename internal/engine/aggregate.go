package engine

import (
	"sort"
	"strings"
)

// BaseEntity is one project in the base listing the aggregation is built
// over. Title is the full ancestor path joined with PathSeparator.
type BaseEntity struct {
	ID       string
	Title    string
	Archived bool
}

// HoursRecord is a budgeted-hours line. A nil BudgetSeconds means no budget
// was entered; an empty CostCodeID means the line is project-level.
type HoursRecord struct {
	ID            string
	ProjectID     string
	CostCodeID    string
	BudgetSeconds *float64
}

// CostRecord is a budgeted-cost line.
type CostRecord struct {
	ID         string
	ProjectID  string
	CostCodeID string
	CostBudget *float64
}

// ProgressRecord is a progress-budget line.
type ProgressRecord struct {
	ID         string
	ProjectID  string
	CostCodeID string
	Value      *float64
	Quantity   *float64
}

// CostCodeRef labels a cost code for display.
type CostCodeRef struct {
	ID    string
	Code  string
	Title string
}

// Datasets bundles the independently fetched sources the aggregation joins.
type Datasets struct {
	Hours     []HoursRecord
	Costs     []CostRecord
	Progress  []ProgressRecord
	CostCodes []CostCodeRef
}

// AggregateRow is one merged line of the budget report.
type AggregateRow struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	ProjectTitle  string  `json:"project_title"`
	CostCodeID    *string `json:"cost_code_id"`
	CostCodeTitle string  `json:"cost_code_title"`
	LaborHours    float64 `json:"labor_hours"`
	LaborCost     float64 `json:"labor_cost"`
	ProgressValue float64 `json:"progress_value"`
	Quantity      float64 `json:"quantity"`
	Status        string  `json:"status"`
}

// Aggregate joins the hours, costs, progress and cost-code datasets by
// (project id, cost-code id) and returns one row per key, sorted by project
// path then cost-code title.
//
// Every base project gets a project-level row (nil cost-code id) whose hours
// and costs sum the records carrying no cost-code id; budgetSeconds convert
// to hours and nil numerics coerce to zero. A cost-code-level row exists only
// when a progress record with a non-zero value or quantity references the
// pair; cost codes with budgeted hours or costs but no progress stay folded
// into the project-level row. Within each dataset a cost-code id is assumed
// unique per project, so first-match lookup is well defined.
//
// Records referencing no project, or a cost code absent from the cost-code
// dataset, are skipped and reported in the diagnostics; a bad record never
// aborts the rest of the aggregation.
func Aggregate(base []BaseEntity, ds Datasets) ([]AggregateRow, []Skip) {
	var skips []Skip

	codeByID := make(map[string]CostCodeRef, len(ds.CostCodes))
	for _, cc := range ds.CostCodes {
		if cc.ID == "" {
			skips = append(skips, Skip{Reason: "cost code missing id"})
			continue
		}
		codeByID[cc.ID] = cc
	}
	for _, h := range ds.Hours {
		if h.ProjectID == "" {
			skips = append(skips, Skip{ID: h.ID, Reason: "hours record missing projectId"})
		}
	}
	for _, c := range ds.Costs {
		if c.ProjectID == "" {
			skips = append(skips, Skip{ID: c.ID, Reason: "cost record missing projectId"})
		}
	}

	rows := make([]AggregateRow, 0, len(base))
	for _, entity := range base {
		if entity.ID == "" {
			skips = append(skips, Skip{Reason: "base entity missing id"})
			continue
		}
		status := "Active"
		if entity.Archived {
			status = "Archived"
		}

		var projectHours, projectCosts float64
		for _, h := range ds.Hours {
			if h.ProjectID == entity.ID && h.CostCodeID == "" {
				projectHours += deref(h.BudgetSeconds) / 3600
			}
		}
		for _, c := range ds.Costs {
			if c.ProjectID == entity.ID && c.CostCodeID == "" {
				projectCosts += deref(c.CostBudget)
			}
		}
		rows = append(rows, AggregateRow{
			ProjectID:    entity.ID,
			ProjectTitle: entity.Title,
			LaborHours:   projectHours,
			LaborCost:    projectCosts,
			Status:       status,
		})

		// Only cost codes with actual progress surface as their own row.
		seen := map[string]bool{}
		var codeIDs []string
		for _, p := range ds.Progress {
			if p.ProjectID != entity.ID || p.CostCodeID == "" {
				continue
			}
			if deref(p.Value) == 0 && deref(p.Quantity) == 0 {
				continue
			}
			if !seen[p.CostCodeID] {
				seen[p.CostCodeID] = true
				codeIDs = append(codeIDs, p.CostCodeID)
			}
		}

		for _, ccID := range codeIDs {
			code, ok := codeByID[ccID]
			if !ok {
				skips = append(skips, Skip{ID: ccID, Reason: "progress references unknown costCodeId"})
				continue
			}
			prog := firstProgress(ds.Progress, entity.ID, ccID)
			hours := firstHours(ds.Hours, entity.ID, ccID)
			cost := firstCost(ds.Costs, entity.ID, ccID)

			ccID := ccID
			rows = append(rows, AggregateRow{
				ID:            prog.ID,
				ProjectID:     entity.ID,
				ProjectTitle:  entity.Title,
				CostCodeID:    &ccID,
				CostCodeTitle: strings.TrimSpace(code.Code + " " + code.Title),
				LaborHours:    deref(hours.BudgetSeconds) / 3600,
				LaborCost:     deref(cost.CostBudget),
				ProgressValue: deref(prog.Value),
				Quantity:      deref(prog.Quantity),
				Status:        status,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return ComparePaths(SplitPath(rows[i].ProjectTitle), SplitPath(rows[j].ProjectTitle),
			rows[i].CostCodeTitle, rows[j].CostCodeTitle) < 0
	})
	return rows, skips
}

func firstProgress(records []ProgressRecord, projectID, costCodeID string) ProgressRecord {
	for _, r := range records {
		if r.ProjectID == projectID && r.CostCodeID == costCodeID {
			return r
		}
	}
	return ProgressRecord{}
}

func firstHours(records []HoursRecord, projectID, costCodeID string) HoursRecord {
	for _, r := range records {
		if r.ProjectID == projectID && r.CostCodeID == costCodeID {
			return r
		}
	}
	return HoursRecord{}
}

func firstCost(records []CostRecord, projectID, costCodeID string) CostRecord {
	for _, r := range records {
		if r.ProjectID == projectID && r.CostCodeID == costCodeID {
			return r
		}
	}
	return CostRecord{}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
