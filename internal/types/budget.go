package types

// BudgetHours is one budgeted-hours line from the upstream budgetHours
// collection. Numeric and reference fields are nullable upstream.
type BudgetHours struct {
	ID                     string   `json:"id"`
	ProjectID              string   `json:"projectId"`
	MemberID               *string  `json:"memberId"`
	CostCodeID             *string  `json:"costCodeId"`
	EquipmentID            *string  `json:"equipmentId"`
	BudgetSeconds          *float64 `json:"budgetSeconds"`
	EquipmentBudgetSeconds *float64 `json:"equipmentBudgetSeconds"`
	CreatedOn              string   `json:"createdOn"`
	Cursor                 string   `json:"cursor"`
}

// BudgetCost is one budgeted-cost line from the budgetCosts collection.
type BudgetCost struct {
	ID                  string   `json:"id"`
	ProjectID           string   `json:"projectId"`
	MemberID            *string  `json:"memberId"`
	CostCodeID          *string  `json:"costCodeId"`
	EquipmentID         *string  `json:"equipmentId"`
	CostBudget          *float64 `json:"costBudget"`
	EquipmentCostBudget *float64 `json:"equipmentCostBudget"`
	Cursor              string   `json:"cursor"`
}

// ProgressBudget is one progress line from the progressBudgets collection.
type ProgressBudget struct {
	ID         string   `json:"id"`
	ProjectID  string   `json:"projectId"`
	CostCodeID *string  `json:"costCodeId"`
	Value      *float64 `json:"value"`
	Quantity   *float64 `json:"quantity"`
	Cursor     string   `json:"cursor"`
}
