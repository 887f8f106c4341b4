package handlers

import (
	"errors"
	"net/http"

	"profitdesk/database"
	"profitdesk/logger"
	"profitdesk/middleware"
	"profitdesk/models"
)

type TimeEntryHandler struct {
	store *database.Store
}

func NewTimeEntryHandler(store *database.Store) *TimeEntryHandler {
	return &TimeEntryHandler{store: store}
}

// linkedEmployee returns the id of the employee linked to user, nil when the
// user has none.
func (h *TimeEntryHandler) linkedEmployee(r *http.Request, user *models.User) (*uint, error) {
	if user.IsAdmin() {
		return nil, nil
	}
	employee, err := h.store.EmployeeForUser(r.Context(), user.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee.ID, nil
}

// authorize reports whether the current user may log time for employeeID and
// writes a 403 when not.
func (h *TimeEntryHandler) authorize(w http.ResponseWriter, r *http.Request, employeeID uint) bool {
	user := middleware.GetUserFromContext(r.Context())
	linked, err := h.linkedEmployee(r, user)
	if err != nil {
		respondError(w, r, err, "")
		return false
	}
	if !user.CanLogTimeFor(linked, employeeID) {
		writeError(w, http.StatusForbidden, "You can only manage your own time entries")
		return false
	}
	return true
}

func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter models.EntryFilter
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := models.ParseMonth(raw)
		if err != nil {
			respondError(w, r, err, "")
			return
		}
		filter.Month = &month
	}

	var err error
	if filter.EmployeeID, err = parseQueryID(r, "employee_id"); err != nil {
		respondError(w, r, err, "")
		return
	}
	if filter.ProjectID, err = parseQueryID(r, "project_id"); err != nil {
		respondError(w, r, err, "")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if !user.IsAdmin() {
		linked, err := h.linkedEmployee(r, user)
		if err != nil {
			respondError(w, r, err, "")
			return
		}
		if linked == nil || (filter.EmployeeID != 0 && filter.EmployeeID != *linked) {
			writeJSON(w, http.StatusOK, []models.TimeEntry{})
			return
		}
		filter.EmployeeID = *linked
	}

	entries, err := h.store.TimeEntries(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch models.TimeEntryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err, "")
		return
	}

	var entry models.TimeEntry
	patch.Apply(&entry)
	if err := entry.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}
	if !h.authorize(w, r, entry.EmployeeID) {
		return
	}

	if err := h.store.CreateTimeEntry(r.Context(), &entry); err != nil {
		respondError(w, r, err, "Employee or project not found")
		return
	}

	logger.FromContext(r.Context()).WithComponent(logger.ComponentLedger).Info("Time entry created",
		"entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"project_id", entry.ProjectID,
		"hours", entry.Hours.String(),
	)
	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	var patch models.TimeEntryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err, "")
		return
	}

	entry, err := h.store.TimeEntry(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Time entry not found")
		return
	}
	if !h.authorize(w, r, entry.EmployeeID) {
		return
	}

	patch.Apply(entry)
	if err := entry.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}
	// A reassigned entry must still belong to the caller.
	if patch.EmployeeID != nil && !h.authorize(w, r, entry.EmployeeID) {
		return
	}

	if err := h.store.SaveTimeEntry(r.Context(), entry); err != nil {
		respondError(w, r, err, "Employee or project not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	entry, err := h.store.TimeEntry(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Time entry not found")
		return
	}
	if !h.authorize(w, r, entry.EmployeeID) {
		return
	}

	if err := h.store.DeleteTimeEntry(r.Context(), id); err != nil {
		respondError(w, r, err, "Time entry not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Time entry deleted"})
}
