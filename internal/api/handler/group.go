package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/api/response"
	"github.com/clinadmin/clinadmin/internal/api/validation"
	"github.com/clinadmin/clinadmin/internal/group"
)

type groupRequest struct {
	Name string `json:"name"`
}

type groupResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toGroupResponse(g *group.Group) groupResponse {
	return groupResponse{
		ID:        g.ID.String(),
		Name:      g.Name,
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GroupHandler handles group CRUD endpoints.
type GroupHandler struct {
	repo group.Repository
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(repo group.Repository) *GroupHandler {
	return &GroupHandler{repo: repo}
}

// Create handles POST /groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateGroupRequest(validation.CreateGroupRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	g := &group.Group{Name: req.Name}
	if err := h.repo.Create(r.Context(), g); err != nil {
		if errors.Is(err, group.ErrDuplicateName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A group named %q already exists", req.Name), requestID)
			return
		}
		slog.Error("failed to create group", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create group", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toGroupResponse(g), requestID)
}

// List handles GET /groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.repo.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list groups", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list groups", requestID)
		return
	}

	items := make([]groupResponse, 0, len(result.Groups))
	for i := range result.Groups {
		items = append(items, toGroupResponse(&result.Groups[i]))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /groups/{id}.
func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, group.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Group not found", requestID)
			return
		}
		slog.Error("failed to get group", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get group", requestID)
		return
	}

	response.Success(w, http.StatusOK, toGroupResponse(g), requestID)
}

// Update handles PATCH /groups/{id}.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.Name == "" {
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateGroupRequest(validation.CreateGroupRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	g, err := h.repo.Rename(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, group.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Group not found", requestID)
		case errors.Is(err, group.ErrDuplicateName):
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A group named %q already exists", req.Name), requestID)
		default:
			slog.Error("failed to update group", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update group", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toGroupResponse(g), requestID)
}

// Delete handles DELETE /groups/{id}.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, group.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Group not found", requestID)
		case errors.Is(err, group.ErrHasTeams):
			response.Err(w, http.StatusConflict, "GROUP_HAS_TEAMS", "Cannot delete a group that still owns teams", requestID)
		default:
			slog.Error("failed to delete group", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete group", requestID)
		}
		return
	}

	response.NoContent(w)
}
