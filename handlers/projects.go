package handlers

import (
	"net/http"

	"profitdesk/database"
	"profitdesk/models"

	"github.com/shopspring/decimal"
)

type ProjectHandler struct {
	store *database.Store
}

func NewProjectHandler(store *database.Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

type createProjectRequest struct {
	Name       string           `json:"name"`
	PriceType  models.PriceType `json:"price_type"`
	PriceValue decimal.Decimal  `json:"price_value"`
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.Projects(r.Context())
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, "")
		return
	}

	var project models.Project
	models.ProjectPatch{Name: &req.Name, PriceType: &req.PriceType, PriceValue: &req.PriceValue}.Apply(&project)
	if err := project.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}

	if err := h.store.CreateProject(r.Context(), &project); err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	var patch models.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err, "")
		return
	}

	project, err := h.store.Project(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Project not found")
		return
	}

	patch.Apply(project)
	if err := project.Validate(); err != nil {
		respondError(w, r, err, "")
		return
	}
	if err := h.store.SaveProject(r.Context(), project); err != nil {
		respondError(w, r, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		respondError(w, r, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project deleted"})
}
