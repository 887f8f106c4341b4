package handlers

import (
	"net/http"

	"profitdesk/database"
	"profitdesk/models"

	"github.com/shopspring/decimal"
)

type EmployeeHandler struct {
	store *database.Store
}

func NewEmployeeHandler(store *database.Store) *EmployeeHandler {
	return &EmployeeHandler{store: store}
}

type createEmployeeRequest struct {
	Name          string          `json:"name"`
	MonthlyCost   decimal.Decimal `json:"monthly_cost"`
	HoursPerMonth *int            `json:"hours_per_month"`
	UserID        *uint           `json:"user_id"`
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.Employees(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "")
		return
	}

	employee := models.Employee{
		MonthlyCost:   req.MonthlyCost,
		HoursPerMonth: models.DefaultHoursPerMonth,
	}
	models.EmployeePatch{
		Name:          &req.Name,
		HoursPerMonth: req.HoursPerMonth,
		UserID:        models.NullableID{Set: true, Value: req.UserID},
	}.Apply(&employee)
	if err := employee.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}

	if err := h.store.CreateEmployee(r.Context(), &employee); err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	var patch models.EmployeePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err, "")
		return
	}

	employee, err := h.store.Employee(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Employee not found")
		return
	}

	patch.Apply(employee)
	if err := employee.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}
	if err := h.store.SaveEmployee(r.Context(), employee); err != nil {
		respondError(w, r, err, "Employee not found")
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		respondError(w, r, err, "Employee not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Employee deleted"})
}
