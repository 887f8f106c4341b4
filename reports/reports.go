// Package reports assembles the monthly figures of the calculations engine
// into summary, detail and CSV reports.
package reports

import (
	"context"
	"fmt"

	"profitdesk/calculations"
	"profitdesk/models"

	"github.com/shopspring/decimal"
)

type ProjectReport struct {
	ID      uint                `json:"id"`
	Name    string              `json:"name"`
	Hours   decimal.Decimal     `json:"hours"`
	Cost    decimal.Decimal     `json:"cost"`
	Revenue decimal.Decimal     `json:"revenue"`
	Margin  decimal.Decimal     `json:"margin"`
	Status  calculations.Status `json:"status"`
}

type EmployeeReport struct {
	ID                uint                `json:"id"`
	Name              string              `json:"name"`
	MonthlyCost       decimal.Decimal     `json:"monthly_cost"`
	RevenueAttributed decimal.Decimal     `json:"revenue_attributed"`
	Margin            decimal.Decimal     `json:"margin"`
	Status            calculations.Status `json:"status"`
}

// Summary covers every project and employee for a month. TotalProfit sums
// project margins only; employee margins are a separate view of the same
// profit and need not add up to it.
type Summary struct {
	Month       models.Month     `json:"month"`
	TotalProfit decimal.Decimal  `json:"total_profit"`
	Projects    []ProjectReport  `json:"projects"`
	Employees   []EmployeeReport `json:"employees"`
}

type EmployeeShare struct {
	EmployeeID   uint            `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Hours        decimal.Decimal `json:"hours"`
	Cost         decimal.Decimal `json:"cost"`
	Percentage   decimal.Decimal `json:"percentage"`
}

type ProjectDetail struct {
	Project   models.Project      `json:"project"`
	Month     models.Month        `json:"month"`
	Hours     decimal.Decimal     `json:"hours"`
	Cost      decimal.Decimal     `json:"cost"`
	Revenue   decimal.Decimal     `json:"revenue"`
	Margin    decimal.Decimal     `json:"margin"`
	Status    calculations.Status `json:"status"`
	Breakdown []EmployeeShare     `json:"breakdown"`
}

type EmployeeDetail struct {
	Employee          models.Employee     `json:"employee"`
	Month             models.Month        `json:"month"`
	RevenueAttributed decimal.Decimal     `json:"revenue_attributed"`
	Margin            decimal.Decimal     `json:"margin"`
	Status            calculations.Status `json:"status"`
}

type Assembler struct {
	engine *calculations.Engine
}

func NewAssembler(engine *calculations.Engine) *Assembler {
	return &Assembler{engine: engine}
}

func (a *Assembler) projectReport(ctx context.Context, project *models.Project, month models.Month) (ProjectReport, error) {
	cost, err := a.engine.ProjectCost(ctx, project.ID, month)
	if err != nil {
		return ProjectReport{}, err
	}
	revenue, err := a.engine.ProjectRevenue(ctx, project, month)
	if err != nil {
		return ProjectReport{}, err
	}
	hours, err := a.engine.ProjectHours(ctx, project.ID, month)
	if err != nil {
		return ProjectReport{}, err
	}

	margin := calculations.ProjectMargin(revenue, cost)
	return ProjectReport{
		ID:      project.ID,
		Name:    project.Name,
		Hours:   hours,
		Cost:    cost,
		Revenue: revenue,
		Margin:  margin,
		Status:  calculations.ProjectStatus(margin, revenue),
	}, nil
}

func (a *Assembler) employeeReport(ctx context.Context, employee *models.Employee, month models.Month) (EmployeeReport, error) {
	attributed, err := a.engine.EmployeeRevenueAttributed(ctx, employee.ID, month)
	if err != nil {
		return EmployeeReport{}, err
	}

	margin := calculations.EmployeeMargin(attributed, employee.MonthlyCost)
	return EmployeeReport{
		ID:                employee.ID,
		Name:              employee.Name,
		MonthlyCost:       employee.MonthlyCost,
		RevenueAttributed: attributed,
		Margin:            margin,
		Status:            calculations.EmployeeStatus(margin, employee.MonthlyCost),
	}, nil
}

func (a *Assembler) Summary(ctx context.Context, month models.Month) (*Summary, error) {
	ledger := a.engine.Ledger()

	projects, err := ledger.Projects(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := ledger.Employees(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Month:       month,
		TotalProfit: decimal.Zero,
		Projects:    make([]ProjectReport, 0, len(projects)),
		Employees:   make([]EmployeeReport, 0, len(employees)),
	}

	for i := range projects {
		report, err := a.projectReport(ctx, &projects[i], month)
		if err != nil {
			return nil, err
		}
		summary.Projects = append(summary.Projects, report)
		summary.TotalProfit = summary.TotalProfit.Add(report.Margin)
	}

	for i := range employees {
		report, err := a.employeeReport(ctx, &employees[i], month)
		if err != nil {
			return nil, err
		}
		summary.Employees = append(summary.Employees, report)
	}

	return summary, nil
}

// ProjectDetail reports one project with the hours and cost contributed by
// each employee, in the order they first appear in the month's entries.
func (a *Assembler) ProjectDetail(ctx context.Context, projectID uint, month models.Month) (*ProjectDetail, error) {
	ledger := a.engine.Ledger()

	project, err := ledger.Project(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %d: %w", projectID, err)
	}

	report, err := a.projectReport(ctx, project, month)
	if err != nil {
		return nil, err
	}

	entries, err := ledger.TimeEntries(ctx, models.EntryFilter{Month: &month, ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("load entries of project %d for %s: %w", projectID, month, err)
	}

	return &ProjectDetail{
		Project:   *project,
		Month:     month,
		Hours:     report.Hours,
		Cost:      report.Cost,
		Revenue:   report.Revenue,
		Margin:    report.Margin,
		Status:    report.Status,
		Breakdown: breakdown(entries),
	}, nil
}

func breakdown(entries []models.TimeEntry) []EmployeeShare {
	shares := make([]EmployeeShare, 0)
	index := make(map[uint]int)

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Hours)

		i, ok := index[entry.EmployeeID]
		if !ok {
			i = len(shares)
			index[entry.EmployeeID] = i
			shares = append(shares, EmployeeShare{
				EmployeeID:   entry.EmployeeID,
				EmployeeName: entry.Employee.Name,
				Hours:        decimal.Zero,
				Cost:         decimal.Zero,
			})
		}
		shares[i].Hours = shares[i].Hours.Add(entry.Hours)
		shares[i].Cost = shares[i].Cost.Add(calculations.EntryCost(entry))
	}

	for i := range shares {
		shares[i].Percentage = decimal.Zero
		if total.IsPositive() {
			shares[i].Percentage = shares[i].Hours.Div(total).Mul(decimal.NewFromInt(100))
		}
	}
	return shares
}

func (a *Assembler) EmployeeDetail(ctx context.Context, employeeID uint, month models.Month) (*EmployeeDetail, error) {
	employee, err := a.engine.Ledger().Employee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee %d: %w", employeeID, err)
	}

	report, err := a.employeeReport(ctx, employee, month)
	if err != nil {
		return nil, err
	}

	return &EmployeeDetail{
		Employee:          *employee,
		Month:             month,
		RevenueAttributed: report.RevenueAttributed,
		Margin:            report.Margin,
		Status:            report.Status,
	}, nil
}
