package calculations

import (
	"context"
	"errors"
	"testing"
	"time"

	"profitdesk/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// memLedger is an in-memory Ledger that joins entries the way the store does.
type memLedger struct {
	employees []models.Employee
	projects  []models.Project
	entries   []models.TimeEntry
	calls     int
}

func (l *memLedger) TimeEntries(ctx context.Context, f models.EntryFilter) ([]models.TimeEntry, error) {
	l.calls++
	var out []models.TimeEntry
	for _, e := range l.entries {
		if f.Month != nil && !f.Month.Contains(e.EntryDate) {
			continue
		}
		if f.ProjectID > 0 && e.ProjectID != f.ProjectID {
			continue
		}
		if f.EmployeeID > 0 && e.EmployeeID != f.EmployeeID {
			continue
		}
		if emp, err := l.Employee(ctx, e.EmployeeID); err == nil {
			e.Employee = *emp
		}
		if p, err := l.Project(ctx, e.ProjectID); err == nil {
			e.Project = *p
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *memLedger) Project(_ context.Context, id uint) (*models.Project, error) {
	for i := range l.projects {
		if l.projects[i].ID == id {
			p := l.projects[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *memLedger) Employee(_ context.Context, id uint) (*models.Employee, error) {
	for i := range l.employees {
		if l.employees[i].ID == id {
			e := l.employees[i]
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *memLedger) Projects(context.Context) ([]models.Project, error) {
	return l.projects, nil
}

func (l *memLedger) Employees(context.Context) ([]models.Employee, error) {
	return l.employees, nil
}

type failingLedger struct{ memLedger }

var errStoreDown = errors.New("store down")

func (failingLedger) TimeEntries(context.Context, models.EntryFilter) ([]models.TimeEntry, error) {
	return nil, errStoreDown
}

func TestHourlyCost(t *testing.T) {
	cases := []struct {
		monthly string
		hours   int
		want    string
	}{
		{"3200", 160, "20"},
		{"3000", 160, "18.75"},
		{"1000", 3, "333.3333333333333333"},
		{"3200", 0, "0"},
		{"0", 160, "0"},
	}
	for _, tc := range cases {
		got := HourlyCost(dec(tc.monthly), tc.hours)
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("HourlyCost(%s, %d) = %s, want %s", tc.monthly, tc.hours, got, tc.want)
		}
	}
}

func TestHourlyCostMatchesDivision(t *testing.T) {
	for _, hours := range []int{1, 7, 80, 160, 173} {
		monthly := dec("4321.55")
		want := monthly.Div(decimal.NewFromInt(int64(hours)))
		if got := HourlyCost(monthly, hours); !got.Equal(want) {
			t.Fatalf("hours=%d: got %s, want %s", hours, got, want)
		}
	}
}

func TestProjectStatus(t *testing.T) {
	cases := []struct {
		margin, revenue string
		want            Status
	}{
		{"0", "100", StatusYellow},
		{"20", "100", StatusGreen},
		{"15", "100", StatusGreen},
		{"14.99", "100", StatusYellow},
		{"-1", "100", StatusRed},
		{"0", "0", StatusRed},
		{"50", "0", StatusRed},
		{"-50", "0", StatusRed},
	}
	for _, tc := range cases {
		if got := ProjectStatus(dec(tc.margin), dec(tc.revenue)); got != tc.want {
			t.Fatalf("ProjectStatus(%s, %s) = %s, want %s", tc.margin, tc.revenue, got, tc.want)
		}
	}
}

func TestEmployeeStatus(t *testing.T) {
	cases := []struct {
		margin, cost string
		want         Status
	}{
		{"0", "0", StatusGreen},
		{"-500", "0", StatusGreen},
		{"-5", "100", StatusYellow},
		{"-10", "100", StatusYellow},
		{"-15", "100", StatusRed},
		{"10", "100", StatusGreen},
		{"9.99", "100", StatusYellow},
		{"0", "100", StatusYellow},
	}
	for _, tc := range cases {
		if got := EmployeeStatus(dec(tc.margin), dec(tc.cost)); got != tc.want {
			t.Fatalf("EmployeeStatus(%s, %s) = %s, want %s", tc.margin, tc.cost, got, tc.want)
		}
	}
}

func TestMargins(t *testing.T) {
	if got := ProjectMargin(dec("500"), dec("200")); !got.Equal(dec("300")) {
		t.Fatalf("ProjectMargin = %s", got)
	}
	if got := EmployeeMargin(dec("1200"), dec("3200")); !got.Equal(dec("-2000")) {
		t.Fatalf("EmployeeMargin = %s", got)
	}
}

func TestHourlyProjectScenario(t *testing.T) {
	ledger := &memLedger{
		employees: []models.Employee{{ID: 1, Name: "A", MonthlyCost: dec("3200"), HoursPerMonth: 160}},
		projects:  []models.Project{{ID: 1, Name: "P", PriceType: models.PriceHourly, PriceValue: dec("50")}},
		entries: []models.TimeEntry{
			{ID: 1, EmployeeID: 1, ProjectID: 1, EntryDate: day(2024, time.March, 4), Hours: dec("6")},
			{ID: 2, EmployeeID: 1, ProjectID: 1, EntryDate: day(2024, time.March, 5), Hours: dec("4")},
			{ID: 3, EmployeeID: 1, ProjectID: 1, EntryDate: day(2024, time.April, 1), Hours: dec("8")},
		},
	}
	engine := NewEngine(ledger)
	ctx := context.Background()
	march := models.Month{Year: 2024, Month: time.March}

	project, _ := ledger.Project(ctx, 1)
	revenue, err := engine.ProjectRevenue(ctx, project, march)
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	cost, err := engine.ProjectCost(ctx, 1, march)
	if err != nil {
		t.Fatalf("ProjectCost: %v", err)
	}
	margin := ProjectMargin(revenue, cost)

	if !revenue.Equal(dec("500")) || !cost.Equal(dec("200")) || !margin.Equal(dec("300")) {
		t.Fatalf("revenue=%s cost=%s margin=%s, want 500/200/300", revenue, cost, margin)
	}
	if status := ProjectStatus(margin, revenue); status != StatusGreen {
		t.Fatalf("status = %s, want green", status)
	}
}

func TestFixedRevenueIgnoresHours(t *testing.T) {
	ledger := &memLedger{
		employees: []models.Employee{{ID: 1, MonthlyCost: dec("3200"), HoursPerMonth: 160}},
		projects:  []models.Project{{ID: 7, Name: "Q", PriceType: models.PriceFixed, PriceValue: dec("1000")}},
	}
	engine := NewEngine(ledger)
	ctx := context.Background()
	april := models.Month{Year: 2024, Month: time.April}
	project, _ := ledger.Project(ctx, 7)

	revenue, err := engine.ProjectRevenue(ctx, project, april)
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	cost, _ := engine.ProjectCost(ctx, 7, april)
	if !revenue.Equal(dec("1000")) || !cost.IsZero() {
		t.Fatalf("revenue=%s cost=%s, want 1000/0", revenue, cost)
	}
	margin := ProjectMargin(revenue, cost)
	if !margin.Equal(dec("1000")) || ProjectStatus(margin, revenue) != StatusGreen {
		t.Fatalf("margin=%s status=%s", margin, ProjectStatus(margin, revenue))
	}

	for i := 1; i <= 5; i++ {
		ledger.entries = append(ledger.entries, models.TimeEntry{
			ID: uint(i), EmployeeID: 1, ProjectID: 7, EntryDate: day(2024, time.April, i), Hours: dec("7.5"),
		})
		got, _ := engine.ProjectRevenue(ctx, project, april)
		if !got.Equal(dec("1000")) {
			t.Fatalf("with %d entries revenue = %s, want 1000", i, got)
		}
	}
}

func TestHourlyRevenueWithoutEntries(t *testing.T) {
	ledger := &memLedger{
		projects: []models.Project{{ID: 1, PriceType: models.PriceHourly, PriceValue: dec("80")}},
	}
	project, _ := ledger.Project(context.Background(), 1)
	revenue, err := NewEngine(ledger).ProjectRevenue(context.Background(), project, models.Month{Year: 2024, Month: time.May})
	if err != nil {
		t.Fatalf("ProjectRevenue: %v", err)
	}
	if !revenue.IsZero() {
		t.Fatalf("revenue = %s, want 0", revenue)
	}
}

func TestProjectCostUsesEachEmployeeRate(t *testing.T) {
	ledger := &memLedger{
		employees: []models.Employee{
			{ID: 1, MonthlyCost: dec("3200"), HoursPerMonth: 160},
			{ID: 2, MonthlyCost: dec("4800"), HoursPerMonth: 120},
			{ID: 3, MonthlyCost: dec("9999"), HoursPerMonth: 0},
		},
		projects: []models.Project{{ID: 1, PriceType: models.PriceHourly, PriceValue: dec("50")}},
		entries: []models.TimeEntry{
			{EmployeeID: 1, ProjectID: 1, EntryDate: day(2024, time.June, 3), Hours: dec("2.5")},
			{EmployeeID: 2, ProjectID: 1, EntryDate: day(2024, time.June, 3), Hours: dec("1.25")},
			{EmployeeID: 3, ProjectID: 1, EntryDate: day(2024, time.June, 3), Hours: dec("8")},
		},
	}
	cost, err := NewEngine(ledger).ProjectCost(context.Background(), 1, models.Month{Year: 2024, Month: time.June})
	if err != nil {
		t.Fatalf("ProjectCost: %v", err)
	}
	// 2.5*20 + 1.25*40 + 8*0
	if !cost.Equal(dec("100")) {
		t.Fatalf("cost = %s, want 100", cost)
	}
}

func TestAttributedSharesSumToProjectRevenue(t *testing.T) {
	ledger := &memLedger{
		employees: []models.Employee{
			{ID: 1, MonthlyCost: dec("3000"), HoursPerMonth: 160},
			{ID: 2, MonthlyCost: dec("3000"), HoursPerMonth: 160},
			{ID: 3, MonthlyCost: dec("3000"), HoursPerMonth: 160},
		},
		projects: []models.Project{
			{ID: 1, PriceType: models.PriceFixed, PriceValue: dec("1000")},
			{ID: 2, PriceType: models.PriceHourly, PriceValue: dec("65")},
		},
	}
	ctx := context.Background()
	month := models.Month{Year: 2024, Month: time.July}

	for _, projectID := range []uint{1, 2} {
		ledger.entries = []models.TimeEntry{
			{EmployeeID: 1, ProjectID: projectID, EntryDate: day(2024, time.July, 1), Hours: dec("3")},
			{EmployeeID: 1, ProjectID: projectID, EntryDate: day(2024, time.July, 2), Hours: dec("1.5")},
			{EmployeeID: 2, ProjectID: projectID, EntryDate: day(2024, time.July, 2), Hours: dec("2")},
			{EmployeeID: 3, ProjectID: projectID, EntryDate: day(2024, time.July, 9), Hours: dec("0.75")},
		}
		engine := NewEngine(ledger)
		project, _ := ledger.Project(ctx, projectID)
		revenue, _ := engine.ProjectRevenue(ctx, project, month)

		sum := decimal.Zero
		for _, id := range []uint{1, 2, 3} {
			share, err := engine.EmployeeRevenueAttributed(ctx, id, month)
			if err != nil {
				t.Fatalf("EmployeeRevenueAttributed(%d): %v", id, err)
			}
			sum = sum.Add(share)
		}
		if diff := sum.Sub(revenue).Abs(); diff.GreaterThan(dec("0.000000001")) {
			t.Fatalf("project %d: shares sum to %s, revenue %s", projectID, sum, revenue)
		}
	}
}

func TestFixedFeeIsDilutedAcrossLoggers(t *testing.T) {
	ledger := &memLedger{
		employees: []models.Employee{
			{ID: 1, MonthlyCost: dec("2000"), HoursPerMonth: 160},
			{ID: 2, MonthlyCost: dec("2000"), HoursPerMonth: 160},
		},
		projects: []models.Project{
			{ID: 1, PriceType: models.PriceFixed, PriceValue: dec("1000")},
			{ID: 2, PriceType: models.PriceHourly, PriceValue: dec("100")},
		},
		entries: []models.TimeEntry{
			{EmployeeID: 1, ProjectID: 1, EntryDate: day(2024, time.August, 1), Hours: dec("6")},
			{EmployeeID: 1, ProjectID: 2, EntryDate: day(2024, time.August, 1), Hours: dec("2")},
		},
	}
	ctx := context.Background()
	month := models.Month{Year: 2024, Month: time.August}
	engine := NewEngine(ledger)

	alone, _ := engine.EmployeeRevenueAttributed(ctx, 1, month)
	if !alone.Equal(dec("1200")) {
		t.Fatalf("attributed = %s, want 1200", alone)
	}

	ledger.entries = append(ledger.entries, models.TimeEntry{
		EmployeeID: 2, ProjectID: 1, EntryDate: day(2024, time.August, 2), Hours: dec("4"),
	})
	shared, _ := engine.EmployeeRevenueAttributed(ctx, 1, month)
	// 1000*6/10 + 200
	if !shared.Equal(dec("800")) {
		t.Fatalf("attributed = %s, want 800", shared)
	}
	other, _ := engine.EmployeeRevenueAttributed(ctx, 2, month)
	if !other.Equal(dec("400")) {
		t.Fatalf("attributed = %s, want 400", other)
	}
}

func TestAttributedWithoutEntries(t *testing.T) {
	ledger := &memLedger{employees: []models.Employee{{ID: 1, MonthlyCost: dec("3200"), HoursPerMonth: 160}}}
	got, err := NewEngine(ledger).EmployeeRevenueAttributed(context.Background(), 1, models.Month{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("EmployeeRevenueAttributed: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("attributed = %s, want 0", got)
	}
	margin := EmployeeMargin(got, dec("3200"))
	if EmployeeStatus(margin, dec("3200")) != StatusRed {
		t.Fatalf("idle employee should be red")
	}
}

func TestEngineQueriesEveryCall(t *testing.T) {
	ledger := &memLedger{projects: []models.Project{{ID: 1, PriceType: models.PriceHourly, PriceValue: dec("10")}}}
	engine := NewEngine(ledger)
	month := models.Month{Year: 2024, Month: time.March}
	for i := 0; i < 3; i++ {
		if _, err := engine.ProjectCost(context.Background(), 1, month); err != nil {
			t.Fatalf("ProjectCost: %v", err)
		}
	}
	if ledger.calls != 3 {
		t.Fatalf("ledger queried %d times, want 3", ledger.calls)
	}
}

func TestLedgerErrorsPropagate(t *testing.T) {
	engine := NewEngine(&failingLedger{})
	month := models.Month{Year: 2024, Month: time.March}
	if _, err := engine.ProjectCost(context.Background(), 1, month); !errors.Is(err, errStoreDown) {
		t.Fatalf("ProjectCost err = %v", err)
	}
	if _, err := engine.EmployeeRevenueAttributed(context.Background(), 1, month); !errors.Is(err, errStoreDown) {
		t.Fatalf("EmployeeRevenueAttributed err = %v", err)
	}
}
