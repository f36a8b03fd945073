package types

// Project is one node of the upstream project hierarchy. Children nest to
// the depth the root query requests; Ancestors is populated only by the
// budget project listing.
type Project struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	ArchivedOn   *string            `json:"archivedOn"`
	Depth        int                `json:"depth"`
	CreatedOn    string             `json:"createdOn"`
	UpdatedOn    string             `json:"updatedOn"`
	Cursor       string             `json:"cursor"`
	ProjectInfo  *ProjectInfo       `json:"projectInfo"`
	ProjectGroup *ProjectGroup      `json:"projectGroup"`
	Children     []*Project         `json:"children"`
	Ancestors    []*ProjectAncestor `json:"ancestors"`
}

type ProjectInfo struct {
	ProjectID           string   `json:"projectId"`
	Number              string   `json:"number"`
	Customer            string   `json:"customer"`
	Address1            string   `json:"address1"`
	Address2            string   `json:"address2"`
	City                string   `json:"city"`
	State               string   `json:"state"`
	PostalCode          string   `json:"postalCode"`
	Phone               string   `json:"phone"`
	Reminder            bool     `json:"reminder"`
	RequireTimeEntryGps string   `json:"requireTimeEntryGps"`
	AdditionalInfo      string   `json:"additionalInfo"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	LocationRadius      *float64 `json:"locationRadius"`
}

type ProjectGroup struct {
	GroupName string `json:"groupName"`
}

type ProjectAncestor struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ArchivedOn *string `json:"archivedOn"`
	CreatedOn  string  `json:"createdOn"`
	Depth      int     `json:"depth"`
}

// ProjectRow is one flattened project as exported to the sheet.
type ProjectRow struct {
	ID                  string    `json:"id"`
	Number              string    `json:"number"`
	Customer            string    `json:"customer"`
	Address1            string    `json:"address1"`
	Address2            string    `json:"address2"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	PostalCode          string    `json:"postal_code"`
	Phone               string    `json:"phone"`
	ProjectNames        [7]string `json:"project_names"`
	GroupName           string    `json:"group_name"`
	Latitude            *float64  `json:"latitude"`
	Longitude           *float64  `json:"longitude"`
	HasReminder         string    `json:"has_reminder"`
	LocationRadius      *float64  `json:"location_radius"`
	AdditionalInfo      string    `json:"additional_info"`
	CreatedOn           string    `json:"created_on"`
	UpdatedOn           string    `json:"updated_on"`
	RequiresGPS         string    `json:"requires_gps"`
	RequiresGPSChildren string    `json:"requires_gps_children"`
	Status              string    `json:"status"`
}
