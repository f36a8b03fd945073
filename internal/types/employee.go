package types

// Member is one record of the upstream members collection.
type Member struct {
	ID                   string         `json:"id"`
	FirstName            string         `json:"firstName"`
	LastName             string         `json:"lastName"`
	Username             string         `json:"username"`
	Email                string         `json:"email"`
	Phone                *string        `json:"phone"`
	MemberNumber         string         `json:"memberNumber"`
	Position             *Position      `json:"position"`
	MemberGroup          *MemberGroup   `json:"memberGroup"`
	WageHistories        []*WageHistory `json:"wageHistories"`
	IsSubContractor      bool           `json:"isSubContractor"`
	TimeLocationRequired string         `json:"timeLocationRequired"`
	CreatedOn            string         `json:"createdOn"`
	UpdatedOn            string         `json:"updatedOn"`
	ArchivedOn           *string        `json:"archivedOn"`
	Cursor               string         `json:"cursor"`
}

type Position struct {
	Title string `json:"title"`
}

type MemberGroup struct {
	GroupName string `json:"groupName"`
}

// WageHistory is one wage entry; the export surfaces only the latest
// non-deleted one.
type WageHistory struct {
	Wage          *float64 `json:"wage"`
	WageRate      *int     `json:"wageRate"`
	Overburden    *float64 `json:"overburden"`
	EffectiveRate *float64 `json:"effectiveRate"`
	CreatedOn     string   `json:"createdOn"`
	UpdatedOn     string   `json:"updatedOn"`
	DeletedOn     *string  `json:"deletedOn"`
	ChangeDate    string   `json:"changeDate"`
}

// EmployeeRow is one member as exported to the sheet.
type EmployeeRow struct {
	ID              string   `json:"id"`
	MemberNumber    string   `json:"member_number"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Username        string   `json:"username"`
	Wage            *float64 `json:"wage"`
	WageRate        string   `json:"wage_rate"`
	Overburden      *float64 `json:"overburden"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	GroupName       string   `json:"group_name"`
	Position        string   `json:"position"`
	IsSubcontractor string   `json:"is_subcontractor"`
	GPSSetting      string   `json:"gps_setting"`
	CreatedOn       string   `json:"created_on"`
	UpdatedOn       string   `json:"updated_on"`
	Status          string   `json:"status"`
}
