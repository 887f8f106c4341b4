package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"profitdesk/logger"
	"profitdesk/reports"
)

type ReportHandler struct {
	assembler *reports.Assembler
}

func NewReportHandler(assembler *reports.Assembler) *ReportHandler {
	return &ReportHandler{assembler: assembler}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	summary, err := h.assembler.Summary(r.Context(), month)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	month, err := requireMonth(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	detail, err := h.assembler.ProjectDetail(r.Context(), id, month)
	if err != nil {
		respondError(w, r, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ReportHandler) EmployeeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	month, err := requireMonth(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	detail, err := h.assembler.EmployeeDetail(r.Context(), id, month)
	if err != nil {
		respondError(w, r, err, "Employee not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ExportCSV streams the monthly summary as a CSV attachment.
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, err := requireMonth(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	summary, err := h.assembler.Summary(r.Context(), month)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	// Build the file first so a write failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, summary); err != nil {
		respondError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).WithComponent(logger.ComponentReports).Info("CSV exported",
		logger.FieldMonth, month.String(),
		"projects", len(summary.Projects),
		"employees", len(summary.Employees),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=profitdesk_%s.csv", month))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
