package types

// CostCode is one record of the upstream costCodes collection.
type CostCode struct {
	ID            string         `json:"id"`
	CostCode      string         `json:"costCode"`
	Title         string         `json:"title"`
	UnitTitle     string         `json:"unitTitle"`
	CostCodeGroup *CostCodeGroup `json:"costCodeGroup"`
	CreatedOn     string         `json:"createdOn"`
	UpdatedOn     string         `json:"updatedOn"`
	ArchivedOn    *string        `json:"archivedOn"`
	Cursor        string         `json:"cursor"`
}

type CostCodeGroup struct {
	GroupName string `json:"groupName"`
}

// CostCodeRow is one cost code as exported to the sheet.
type CostCodeRow struct {
	ID        string `json:"id"`
	CostCode  string `json:"cost_code"`
	Title     string `json:"title"`
	UnitTitle string `json:"unit_title"`
	GroupName string `json:"group_name"`
	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
	Status    string `json:"status"`
}
