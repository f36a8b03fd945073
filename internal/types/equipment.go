package types

// Equipment is one record of the upstream equipment collection. Equipment
// uses deletedOn, not archivedOn, as its inactive marker.
type Equipment struct {
	ID            string                  `json:"id"`
	EquipmentName string                  `json:"equipmentName"`
	Year          *int                    `json:"year"`
	Model         *EquipmentModel         `json:"model"`
	LastHours     *EquipmentHours         `json:"lastHours"`
	CostHistory   []*EquipmentCostHistory `json:"costHistory"`
	CreatedOn     string                  `json:"createdOn"`
	UpdatedOn     string                  `json:"updatedOn"`
	DeletedOn     *string                 `json:"deletedOn"`
	Cursor        string                  `json:"cursor"`
}

type EquipmentModel struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Title    string             `json:"title"`
	Unknown  bool               `json:"unknown"`
	Make     *EquipmentMake     `json:"make"`
	Category *EquipmentCategory `json:"category"`
}

type EquipmentMake struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Unknown bool   `json:"unknown"`
}

type EquipmentCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type EquipmentHours struct {
	ID           string   `json:"id"`
	RunningHours *float64 `json:"runningHours"`
}

type EquipmentCostHistory struct {
	ID               string   `json:"id"`
	OperatorCostRate *float64 `json:"operatorCostRate"`
	CreatedOn        string   `json:"createdOn"`
	DeletedOn        *string  `json:"deletedOn"`
}

// EquipmentRow is one equipment record as exported to the sheet.
type EquipmentRow struct {
	ID               string   `json:"id"`
	EquipmentName    string   `json:"equipment_name"`
	Type             string   `json:"type"`
	Category         string   `json:"category"`
	Make             string   `json:"make"`
	Model            string   `json:"model"`
	Year             *int     `json:"year"`
	RunningHours     *float64 `json:"running_hours"`
	OperatorCostRate *float64 `json:"operator_cost_rate"`
	CreatedOn        string   `json:"created_on"`
	UpdatedOn        string   `json:"updated_on"`
	Status           string   `json:"status"`
}
