package layout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rpattn/credittrack/internal/auth"
	"github.com/rpattn/credittrack/internal/domain"
	"github.com/rpattn/credittrack/internal/repository"
)

// Handler serves the project types an operator may pick and the layouts
// they map to.
type Handler struct {
	resolver *Resolver
}

// NewHTTPHandler wraps a resolver.
func NewHTTPHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Routes mounts the project type endpoints and GET /layouts.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/project-types", h.projectTypes)
	r.Post("/project-types", h.createProjectType)
	r.Delete("/project-types/{id}", h.deleteProjectType)
	r.Get("/layouts", h.layouts)
}

type createProjectTypeRequest struct {
	ID     string `json:"id_type_projet"`
	Name   string `json:"nom_facilite"`
	Format string `json:"format"`
}

func (h *Handler) projectTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.resolver.ProjectTypes(r.Context())
	if err != nil {
		zap.L().Error("list project types", zap.Error(err))
		writeError(w, domain.HTTPStatus(err), domain.PublicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handler) createProjectType(w http.ResponseWriter, r *http.Request) {
	operator, ok := auth.OperatorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "operator identity required")
		return
	}

	var req createProjectTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Format) == "" {
		writeError(w, http.StatusBadRequest, "id_type_projet, nom_facilite and format are required")
		return
	}

	created, err := h.resolver.CreateProjectType(r.Context(), domain.NewProjectType(req.ID, req.Name, req.Format, operator))
	if err != nil {
		h.writeStoreError(w, "create project type", err)
		return
	}
	zap.L().Info("project type created",
		zap.String("id", created.ID),
		zap.String("format", created.Format),
		zap.String("operator", operator))
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteProjectType(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.OperatorFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "operator identity required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.resolver.DeleteProjectType(r.Context(), id); err != nil {
		h.writeStoreError(w, "delete project type", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project type deleted"})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "project type not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "project type already exists or is still in use")
	default:
		status := domain.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error(action, zap.Error(err))
		}
		writeError(w, status, domain.PublicMessage(err))
	}
}

func (h *Handler) layouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Layouts())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
