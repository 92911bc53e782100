package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/nico-stef/aihack-2025-NeuroCore/internal/burnout/application/services"
	tracking "github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/domain"
	"github.com/nico-stef/aihack-2025-NeuroCore/internal/tracking/infrastructure/github"
)

// defaultHistoryLimit bounds history responses when the caller does not
// ask for a specific size.
const defaultHistoryLimit = 20

// BurnoutHandler handles burnout API requests.
type BurnoutHandler struct {
	burnout *services.BurnoutService
	stats   *services.ProjectStatsService
	sync    *github.SyncService
	logger  *slog.Logger
}

// BurnoutHandlerConfig holds dependencies for the burnout handler.
type BurnoutHandlerConfig struct {
	Burnout *services.BurnoutService
	Stats   *services.ProjectStatsService
	Sync    *github.SyncService
	Logger  *slog.Logger
}

// NewBurnoutHandler creates a new burnout handler.
func NewBurnoutHandler(cfg BurnoutHandlerConfig) *BurnoutHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &BurnoutHandler{
		burnout: cfg.Burnout,
		stats:   cfg.Stats,
		sync:    cfg.Sync,
		logger:  cfg.Logger,
	}
}

// GetUserBurnout handles GET /api/v1/users/{userID}/burnout
func (h *BurnoutHandler) GetUserBurnout(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	projectID, err := parseProjectParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project_id")
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"

	score, err := h.burnout.GetOrCompute(r.Context(), userID, projectID, refresh)
	if err != nil {
		if errors.Is(err, services.ErrMissingSubject) {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		h.logger.Error("failed to get burnout score", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute burnout score")
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// GetUserBurnoutHistory handles GET /api/v1/users/{userID}/burnout/history
func (h *BurnoutHandler) GetUserBurnoutHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	projectID, err := parseProjectParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project_id")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.burnout.History(r.Context(), userID, projectID, limit)
	if err != nil {
		h.logger.Error("failed to load burnout history", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load burnout history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  userID,
		"history": history,
	})
}

// GetProjectBurnout handles GET /api/v1/projects/{projectID}/burnout
func (h *BurnoutHandler) GetProjectBurnout(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	stats, err := h.stats.Stats(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, tracking.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.logger.Error("failed to compute project stats", "project_id", projectID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute project statistics")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// SyncProjectActivity handles POST /api/v1/projects/{projectID}/github/sync
func (h *BurnoutHandler) SyncProjectActivity(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	results, err := h.sync.SyncProject(r.Context(), projectID)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, github.ErrNoRepoLink):
			writeError(w, http.StatusBadRequest, "Project has no valid GitHub repository link")
		case errors.Is(err, github.ErrNoToken):
			writeError(w, http.StatusBadRequest, "No GitHub token configured for project")
		default:
			h.logger.Error("github sync failed", "project_id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "GitHub sync failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projectId": projectID,
		"results":   results,
	})
}

func parseProjectParam(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("project_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
