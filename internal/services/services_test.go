package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
	"github.com/sheetbridge/busybusy-export/internal/engine"
	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func testConfig() Config {
	return Config{
		PageSize:      1000,
		ChunkSize:     50,
		MaxConcurrent: 3,
		ActiveTTL:     time.Minute,
		ArchivedTTL:   time.Minute,
	}
}

func strptr(s string) *string { return &s }

func f64ptr(v float64) *float64 { return &v }

func intptr(v int) *int { return &v }

// fakeClient serves canned pages per result key, in call order. The budget
// service queries it from concurrent goroutines, hence the mutex.
type fakeClient struct {
	mu    sync.Mutex
	pages map[string][]string
	calls map[string]int
}

func (f *fakeClient) Query(ctx context.Context, apiKey string, req busybusy.Request, resultKey string, out any) error {
	f.mu.Lock()
	idx := f.calls[resultKey]
	f.calls[resultKey]++
	f.mu.Unlock()
	queued := f.pages[resultKey]
	payload := "[]"
	if idx < len(queued) {
		payload = queued[idx]
	}
	return sonic.Unmarshal([]byte(payload), out)
}

func TestProjectPrepareHierarchy(t *testing.T) {
	svc := &projectService{log: testLogger(t), cfg: testConfig()}

	child := &types.Project{ID: "p2", Title: "Basement", CreatedOn: "2024-01-02T00:00:00Z", UpdatedOn: "2024-01-02T00:00:00Z"}
	root := &types.Project{
		ID:        "p1",
		Title:     "Tower",
		CreatedOn: "2024-01-01T00:00:00Z",
		UpdatedOn: "2024-01-01T00:00:00Z",
		Children:  []*types.Project{child},
		ProjectInfo: &types.ProjectInfo{
			Number:              "42",
			Reminder:            true,
			RequireTimeEntryGps: "self_and_children",
		},
	}

	rows, skips := svc.prepareHierarchy([]*types.Project{root}, engine.ViewActive, "GMT+00:00")
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID != "p1" || rows[1].ID != "p2" {
		t.Fatalf("row order = %s, %s", rows[0].ID, rows[1].ID)
	}
	if rows[1].ProjectNames != [7]string{"Tower", "Basement", "", "", "", "", ""} {
		t.Errorf("child path = %v", rows[1].ProjectNames)
	}
	if rows[0].HasReminder != "Yes" {
		t.Errorf("HasReminder = %q", rows[0].HasReminder)
	}
	if rows[0].RequiresGPS != "Yes" || rows[0].RequiresGPSChildren != "Yes" {
		t.Errorf("gps flags = %q, %q", rows[0].RequiresGPS, rows[0].RequiresGPSChildren)
	}
	if rows[0].CreatedOn != "2024-01-01T00:00:00.000+00:00" {
		t.Errorf("CreatedOn = %q", rows[0].CreatedOn)
	}
	if rows[0].Status != "Active" {
		t.Errorf("Status = %q", rows[0].Status)
	}
}

func TestProjectPrepareHierarchyArchivedView(t *testing.T) {
	svc := &projectService{log: testLogger(t), cfg: testConfig()}

	archived := &types.Project{ID: "p2", Title: "Closed Wing", ArchivedOn: strptr("2024-06-01T00:00:00Z")}
	root := &types.Project{ID: "p1", Title: "Tower", Children: []*types.Project{archived}}

	rows, _ := svc.prepareHierarchy([]*types.Project{root}, engine.ViewArchived, "GMT+00:00")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Status != "Active" {
		t.Errorf("root status = %q, want Active", rows[0].Status)
	}
	if rows[1].Status != "Archived" {
		t.Errorf("child status = %q, want Archived", rows[1].Status)
	}
}

func TestBuildProjectTitle(t *testing.T) {
	cases := []struct {
		name    string
		project *types.Project
		want    string
	}{
		{
			name:    "no ancestors",
			project: &types.Project{ID: "p1", Title: "Tower"},
			want:    "Tower",
		},
		{
			name: "ancestors sorted by depth",
			project: &types.Project{
				ID:    "p3",
				Title: "Slab",
				Ancestors: []*types.ProjectAncestor{
					{ID: "p2", Title: "Basement", Depth: 2},
					{ID: "p1", Title: "Tower", Depth: 1},
				},
			},
			want: "Tower / Basement / Slab",
		},
		{
			name: "blank segments dropped",
			project: &types.Project{
				ID:    "p2",
				Title: "  Slab  ",
				Ancestors: []*types.ProjectAncestor{
					{ID: "p1", Title: "   ", Depth: 1},
				},
			},
			want: "Slab",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildProjectTitle(tc.project); got != tc.want {
				t.Errorf("buildProjectTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProgressCostCodeIDs(t *testing.T) {
	progress := []types.ProgressBudget{
		{ID: "1", ProjectID: "p1", CostCodeID: strptr("cc2")},
		{ID: "2", ProjectID: "p1", CostCodeID: strptr("cc1")},
		{ID: "3", ProjectID: "p2", CostCodeID: strptr("cc2")},
		{ID: "4", ProjectID: "p2", CostCodeID: nil},
		{ID: "5", ProjectID: "p2", CostCodeID: strptr("")},
	}
	got := progressCostCodeIDs(progress)
	want := []string{"cc1", "cc2"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestLatestWage(t *testing.T) {
	cases := []struct {
		name      string
		histories []*types.WageHistory
		wantWage  *float64
	}{
		{
			name:     "empty",
			wantWage: nil,
		},
		{
			name: "all deleted",
			histories: []*types.WageHistory{
				{Wage: f64ptr(10), ChangeDate: "2024-01-01", DeletedOn: strptr("2024-02-01")},
			},
			wantWage: nil,
		},
		{
			name: "newest change date wins",
			histories: []*types.WageHistory{
				{Wage: f64ptr(10), ChangeDate: "2024-01-01"},
				{Wage: f64ptr(20), ChangeDate: "2024-03-01"},
				{Wage: f64ptr(15), ChangeDate: "2024-02-01"},
			},
			wantWage: f64ptr(20),
		},
		{
			name: "updatedOn breaks ties",
			histories: []*types.WageHistory{
				{Wage: f64ptr(10), ChangeDate: "2024-01-01", UpdatedOn: "2024-01-01T10:00:00Z"},
				{Wage: f64ptr(20), ChangeDate: "2024-01-01", UpdatedOn: "2024-01-01T11:00:00Z"},
			},
			wantWage: f64ptr(20),
		},
		{
			name: "deleted entries ignored",
			histories: []*types.WageHistory{
				{Wage: f64ptr(30), ChangeDate: "2024-05-01", DeletedOn: strptr("2024-06-01")},
				{Wage: f64ptr(20), ChangeDate: "2024-03-01"},
			},
			wantWage: f64ptr(20),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := latestWage(tc.histories)
			switch {
			case tc.wantWage == nil && got != nil:
				t.Errorf("latestWage = %v, want nil", got)
			case tc.wantWage != nil && (got == nil || got.Wage == nil || *got.Wage != *tc.wantWage):
				t.Errorf("latestWage = %v, want wage %v", got, *tc.wantWage)
			}
		})
	}
}

func TestEmployeePrepareRow(t *testing.T) {
	svc := &employeeService{log: testLogger(t), cfg: testConfig()}

	rate := 10
	m := types.Member{
		ID:                   "m1",
		FirstName:            "Ada",
		LastName:             "Lovelace",
		Phone:                strptr("+15551234"),
		IsSubContractor:      true,
		TimeLocationRequired: "AUTO",
		Position:             &types.Position{Title: "Foreman"},
		MemberGroup:          &types.MemberGroup{GroupName: "Crew A"},
		WageHistories: []*types.WageHistory{
			{Wage: f64ptr(42.5), WageRate: &rate, Overburden: f64ptr(1.2), ChangeDate: "2024-01-01"},
		},
		CreatedOn: "2024-01-01T00:00:00Z",
		UpdatedOn: "2024-01-01T00:00:00Z",
	}

	row := svc.prepareRow(m, "GMT+00:00")
	if row.Phone != "15551234" {
		t.Errorf("Phone = %q", row.Phone)
	}
	if row.WageRate != "Hourly" {
		t.Errorf("WageRate = %q", row.WageRate)
	}
	if row.Wage == nil || *row.Wage != 42.5 {
		t.Errorf("Wage = %v", row.Wage)
	}
	if row.IsSubcontractor != "Yes" {
		t.Errorf("IsSubcontractor = %q", row.IsSubcontractor)
	}
	if row.GPSSetting != "not required" {
		t.Errorf("GPSSetting = %q", row.GPSSetting)
	}
	if row.Position != "Foreman" || row.GroupName != "Crew A" {
		t.Errorf("position/group = %q, %q", row.Position, row.GroupName)
	}
	if row.Status != "Active" {
		t.Errorf("Status = %q", row.Status)
	}
}

func TestGpsSetting(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"YES", "required"},
		{"AUTO", "not required"},
		{"NO", "off"},
		{"", ""},
		{"bogus", ""},
	}
	for _, tc := range cases {
		if got := gpsSetting(tc.in); got != tc.want {
			t.Errorf("gpsSetting(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCostCodePrepareRow(t *testing.T) {
	svc := &costCodeService{log: testLogger(t), cfg: testConfig()}

	cc := types.CostCode{
		ID:            "cc1",
		CostCode:      "100",
		Title:         "Framing",
		UnitTitle:     "sqft",
		CostCodeGroup: &types.CostCodeGroup{GroupName: "Structure"},
		ArchivedOn:    strptr("2024-06-01T00:00:00Z"),
		CreatedOn:     "2024-01-01T00:00:00Z",
		UpdatedOn:     "2024-01-01T00:00:00Z",
	}
	row := svc.prepareRow(cc, "GMT+00:00")
	if row.GroupName != "Structure" {
		t.Errorf("GroupName = %q", row.GroupName)
	}
	if row.Status != "Archived" {
		t.Errorf("Status = %q", row.Status)
	}
	if row.CostCode != "100" || row.Title != "Framing" || row.UnitTitle != "sqft" {
		t.Errorf("fields = %q, %q, %q", row.CostCode, row.Title, row.UnitTitle)
	}
}

func TestEquipmentPrepareRow(t *testing.T) {
	svc := &equipmentService{log: testLogger(t), cfg: testConfig()}

	e := types.Equipment{
		ID:            "e1",
		EquipmentName: "Excavator 3",
		Year:          intptr(2020),
		Model: &types.EquipmentModel{
			Type:     "heavy",
			Title:    "320D",
			Make:     &types.EquipmentMake{Title: "Caterpillar"},
			Category: &types.EquipmentCategory{Title: "Excavators"},
		},
		LastHours: &types.EquipmentHours{RunningHours: f64ptr(1523.5)},
		CostHistory: []*types.EquipmentCostHistory{
			{OperatorCostRate: f64ptr(80), CreatedOn: "2024-01-01T00:00:00Z"},
			{OperatorCostRate: f64ptr(95), CreatedOn: "2024-05-01T00:00:00Z"},
			{OperatorCostRate: f64ptr(120), CreatedOn: "2024-06-01T00:00:00Z", DeletedOn: strptr("2024-06-02T00:00:00Z")},
		},
		CreatedOn: "2024-01-01T00:00:00Z",
		UpdatedOn: "2024-01-01T00:00:00Z",
	}
	row := svc.prepareRow(e, "GMT+00:00")
	if row.Make != "Caterpillar" || row.Model != "320D" || row.Category != "Excavators" {
		t.Errorf("make/model/category = %q, %q, %q", row.Make, row.Model, row.Category)
	}
	if row.RunningHours == nil || *row.RunningHours != 1523.5 {
		t.Errorf("RunningHours = %v", row.RunningHours)
	}
	if row.OperatorCostRate == nil || *row.OperatorCostRate != 95 {
		t.Errorf("OperatorCostRate = %v, want 95 (deleted entry skipped)", row.OperatorCostRate)
	}
	if row.Status != "Active" {
		t.Errorf("Status = %q", row.Status)
	}
}

func TestEquipmentPrepareRowUnknownPlaceholders(t *testing.T) {
	svc := &equipmentService{log: testLogger(t), cfg: testConfig()}

	e := types.Equipment{
		ID:            "e2",
		EquipmentName: "Mystery Rig",
		Model: &types.EquipmentModel{
			Type:    "heavy",
			Title:   "Unknown",
			Unknown: true,
			Make:    &types.EquipmentMake{Title: "Unknown", Unknown: true},
		},
		DeletedOn: strptr("2024-06-01T00:00:00Z"),
	}
	row := svc.prepareRow(e, "GMT+00:00")
	if row.Model != "" {
		t.Errorf("Model = %q, want blank for unknown placeholder", row.Model)
	}
	if row.Make != "" {
		t.Errorf("Make = %q, want blank for unknown placeholder", row.Make)
	}
	if row.Status != "Deleted" {
		t.Errorf("Status = %q", row.Status)
	}
}

func TestBudgetExportAggregates(t *testing.T) {
	store := cache.NewMemoryStore()
	api := &fakeClient{
		calls: map[string]int{},
		pages: map[string][]string{
			"projects": {
				`[{"id":"p1","title":"Tower","cursor":"c1","ancestors":[]}]`,
			},
			"budgetHours": {
				`[{"id":"h1","projectId":"p1","budgetSeconds":7200,"cursor":"hc1"}]`,
			},
			"budgetCosts": {
				`[{"id":"co1","projectId":"p1","costBudget":500,"cursor":"cc1"}]`,
			},
			"progressBudgets": {
				`[{"id":"pr1","projectId":"p1","costCodeId":"code1","value":5,"quantity":2,"cursor":"pc1"}]`,
			},
			"costCodes": {
				`[{"id":"code1","title":"Framing","costCode":"100"}]`,
			},
		},
	}
	svc := NewBudgetService(testLogger(t), api, store, testConfig())

	export, err := svc.Export(context.Background(), "key", false)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(export.Rows) != 2 {
		t.Fatalf("rows = %d, want project row plus cost-code row", len(export.Rows))
	}
	project := export.Rows[0]
	if project.CostCodeID != nil {
		t.Fatalf("first row should be project level, got cost code %v", project.CostCodeID)
	}
	if project.LaborHours != 2 {
		t.Errorf("project LaborHours = %v, want 2", project.LaborHours)
	}
	if project.LaborCost != 500 {
		t.Errorf("project LaborCost = %v, want 500", project.LaborCost)
	}
	code := export.Rows[1]
	if code.CostCodeID == nil || *code.CostCodeID != "code1" {
		t.Fatalf("second row cost code = %v", code.CostCodeID)
	}
	if code.CostCodeTitle != "100 Framing" {
		t.Errorf("CostCodeTitle = %q", code.CostCodeTitle)
	}
	if code.ProgressValue != 5 || code.Quantity != 2 {
		t.Errorf("progress = %v / %v", code.ProgressValue, code.Quantity)
	}

	// Second export must come from the cache, not the upstream client.
	before := api.calls["projects"]
	if _, err := svc.Export(context.Background(), "key", false); err != nil {
		t.Fatalf("cached Export: %v", err)
	}
	if api.calls["projects"] != before {
		t.Errorf("cached export hit upstream again")
	}
}
