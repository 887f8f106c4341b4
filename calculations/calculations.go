// Package calculations derives cost, revenue, margin and status figures for
// projects and employees from the time entries of a month.
//
// Cost parameters are read when a figure is computed, so an employee's
// current monthly cost applies to every month, past ones included.
package calculations

import (
	"context"
	"fmt"

	"profitdesk/models"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

var (
	hundred = decimal.NewFromInt(100)

	projectGreenPct   = decimal.NewFromInt(15)
	employeeGreenPct  = decimal.NewFromInt(10)
	employeeYellowPct = decimal.NewFromInt(-10)
)

// Ledger is the read side of the store the engine computes from.
type Ledger interface {
	TimeEntries(ctx context.Context, f models.EntryFilter) ([]models.TimeEntry, error)
	Project(ctx context.Context, id uint) (*models.Project, error)
	Employee(ctx context.Context, id uint) (*models.Employee, error)
	Projects(ctx context.Context) ([]models.Project, error)
	Employees(ctx context.Context) ([]models.Employee, error)
}

// Engine computes monthly figures. It holds no state besides the ledger;
// every call queries it again.
type Engine struct {
	ledger Ledger
}

func NewEngine(ledger Ledger) *Engine {
	return &Engine{ledger: ledger}
}

func (e *Engine) Ledger() Ledger {
	return e.ledger
}

// HourlyCost is monthlyCost spread over hoursPerMonth, zero when
// hoursPerMonth is zero.
func HourlyCost(monthlyCost decimal.Decimal, hoursPerMonth int) decimal.Decimal {
	if hoursPerMonth == 0 {
		return decimal.Zero
	}
	return monthlyCost.Div(decimal.NewFromInt(int64(hoursPerMonth)))
}

// EntryCost is the cost of one entry at its employee's current rate.
func EntryCost(entry models.TimeEntry) decimal.Decimal {
	return entry.Hours.Mul(HourlyCost(entry.Employee.MonthlyCost, entry.Employee.HoursPerMonth))
}

func SumHours(entries []models.TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Hours)
	}
	return total
}

func (e *Engine) projectEntries(ctx context.Context, projectID uint, month models.Month) ([]models.TimeEntry, error) {
	entries, err := e.ledger.TimeEntries(ctx, models.EntryFilter{Month: &month, ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("load entries of project %d for %s: %w", projectID, month, err)
	}
	return entries, nil
}

func (e *Engine) ProjectCost(ctx context.Context, projectID uint, month models.Month) (decimal.Decimal, error) {
	entries, err := e.projectEntries(ctx, projectID, month)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(EntryCost(entry))
	}
	return total, nil
}

func (e *Engine) ProjectHours(ctx context.Context, projectID uint, month models.Month) (decimal.Decimal, error) {
	entries, err := e.projectEntries(ctx, projectID, month)
	if err != nil {
		return decimal.Zero, err
	}
	return SumHours(entries), nil
}

// ProjectRevenue is the flat fee of a fixed project, logged or not, or the
// month's hours times the rate of an hourly one.
func (e *Engine) ProjectRevenue(ctx context.Context, project *models.Project, month models.Month) (decimal.Decimal, error) {
	if project.PriceType == models.PriceFixed {
		return project.PriceValue, nil
	}

	hours, err := e.ProjectHours(ctx, project.ID, month)
	if err != nil {
		return decimal.Zero, err
	}
	return hours.Mul(project.PriceValue), nil
}

func ProjectMargin(revenue, cost decimal.Decimal) decimal.Decimal {
	return revenue.Sub(cost)
}

// ProjectStatus grades the margin as a share of revenue. A project without
// revenue is always red, whatever its margin.
func ProjectStatus(margin, revenue decimal.Decimal) Status {
	if revenue.IsZero() {
		return StatusRed
	}

	pct := margin.Div(revenue).Mul(hundred)
	switch {
	case pct.GreaterThanOrEqual(projectGreenPct):
		return StatusGreen
	case !pct.IsNegative():
		return StatusYellow
	default:
		return StatusRed
	}
}

type projectShare struct {
	revenue decimal.Decimal
	hours   decimal.Decimal
}

// EmployeeRevenueAttributed splits the revenue of every project the employee
// logged time on in proportion to the hours logged by everyone on it. A
// fixed-price project's fee is split among all its loggers.
func (e *Engine) EmployeeRevenueAttributed(ctx context.Context, employeeID uint, month models.Month) (decimal.Decimal, error) {
	entries, err := e.ledger.TimeEntries(ctx, models.EntryFilter{Month: &month, EmployeeID: employeeID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("load entries of employee %d for %s: %w", employeeID, month, err)
	}

	shares := make(map[uint]projectShare)
	total := decimal.Zero
	for _, entry := range entries {
		share, ok := shares[entry.ProjectID]
		if !ok {
			project := entry.Project
			if share.revenue, err = e.ProjectRevenue(ctx, &project, month); err != nil {
				return decimal.Zero, err
			}
			if share.hours, err = e.ProjectHours(ctx, entry.ProjectID, month); err != nil {
				return decimal.Zero, err
			}
			shares[entry.ProjectID] = share
		}

		if !share.hours.IsPositive() {
			continue
		}
		total = total.Add(share.revenue.Mul(entry.Hours).Div(share.hours))
	}
	return total, nil
}

func EmployeeMargin(revenueAttributed, monthlyCost decimal.Decimal) decimal.Decimal {
	return revenueAttributed.Sub(monthlyCost)
}

// EmployeeStatus grades the margin as a share of monthly cost. An employee
// without cost is green.
func EmployeeStatus(margin, monthlyCost decimal.Decimal) Status {
	if monthlyCost.IsZero() {
		return StatusGreen
	}

	pct := margin.Div(monthlyCost).Mul(hundred)
	switch {
	case pct.GreaterThanOrEqual(employeeGreenPct):
		return StatusGreen
	case pct.GreaterThanOrEqual(employeeYellowPct):
		return StatusYellow
	default:
		return StatusRed
	}
}
