package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baynext/baynext/internal/auth"
	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/service"
)

// requireProject resolves the {project_id} path parameter and verifies
// the caller owns the project. Writes the error response and returns
// false when the caller may not act on the project; missing and
// not-owned are indistinguishable in the response.
func requireProject(w http.ResponseWriter, r *http.Request, projects *service.ProjectService) (*model.Project, bool) {
	user := auth.MustUserFromContext(r.Context())

	projectID := chi.URLParam(r, "project_id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Project ID is required")
		return nil, false
	}

	project, err := projects.GetProject(r.Context(), user.ID, projectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
		return nil, false
	}

	return project, true
}
