package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/api/response"
	"github.com/clinadmin/clinadmin/internal/api/validation"
	"github.com/clinadmin/clinadmin/internal/team"
)

// TeamService is the lifecycle and query surface the team handler drives.
type TeamService interface {
	Create(ctx context.Context, params team.CreateParams) (*team.View, error)
	Update(ctx context.Context, id uuid.UUID, fields team.UpdateFields) (*team.View, error)
	Remove(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*team.View, error)
	List(ctx context.Context, page, limit int) (*team.ListResult, error)
}

type createTeamRequest struct {
	Name       string   `json:"name"`
	GroupID    string   `json:"groupId"`
	PatientIDs []string `json:"patientIds"`
}

// updateTeamRequest keeps omitted fields distinguishable from present-but-empty
// ones: a nil PatientIDs leaves the roster alone, an empty array clears it.
type updateTeamRequest struct {
	Name       *string   `json:"name"`
	GroupID    *string   `json:"groupId"`
	PatientIDs *[]string `json:"patientIds"`
}

type teamMemberResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
}

type teamResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	GroupID      string               `json:"groupId"`
	Patients     []teamMemberResponse `json:"patients"`
	PatientCount int                  `json:"patientCount"`
	UserCount    int                  `json:"userCount"`
	CreatedAt    string               `json:"createdAt"`
	UpdatedAt    string               `json:"updatedAt"`
}

type teamSummaryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GroupID      string `json:"groupId"`
	PatientCount int    `json:"patientCount"`
	UserCount    int    `json:"userCount"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toTeamResponse(v *team.View) teamResponse {
	members := make([]teamMemberResponse, 0, len(v.Patients))
	for _, m := range v.Patients {
		members = append(members, teamMemberResponse{
			ID:       m.ID.String(),
			Document: m.Document,
			Name:     m.Name,
			LastName: m.LastName,
		})
	}
	return teamResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		GroupID:      v.GroupID.String(),
		Patients:     members,
		PatientCount: v.PatientCount,
		UserCount:    v.UserCount,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toTeamSummaryResponse(s team.Summary) teamSummaryResponse {
	return teamSummaryResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		GroupID:      s.GroupID.String(),
		PatientCount: s.PatientCount,
		UserCount:    s.UserCount,
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// TeamHandler handles team lifecycle and roster endpoints.
type TeamHandler struct {
	svc TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:       req.Name,
		GroupID:    req.GroupID,
		PatientIDs: req.PatientIDs,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	groupID, _ := uuid.Parse(req.GroupID)
	patientIDs := make([]uuid.UUID, 0, len(req.PatientIDs))
	for _, raw := range req.PatientIDs {
		id, _ := uuid.Parse(raw)
		patientIDs = append(patientIDs, id)
	}

	v, err := h.svc.Create(r.Context(), team.CreateParams{
		Name:       req.Name,
		GroupID:    groupID,
		PatientIDs: patientIDs,
	})
	if err != nil {
		h.writeError(w, err, requestID, "create team")
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(v), requestID)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	items := make([]teamSummaryResponse, 0, len(result.Teams))
	for _, s := range result.Teams {
		items = append(items, toTeamSummaryResponse(s))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /teams/{id}.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	v, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, requestID, "get team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(v), requestID)
}

// Update handles PATCH /teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateTeamRequest(validation.UpdateTeamRequest{
		Name:       req.Name,
		GroupID:    req.GroupID,
		PatientIDs: req.PatientIDs,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	fields := team.UpdateFields{Name: req.Name}
	if req.GroupID != nil {
		groupID, _ := uuid.Parse(*req.GroupID)
		fields.GroupID = &groupID
	}
	if req.PatientIDs != nil {
		patientIDs := make([]uuid.UUID, 0, len(*req.PatientIDs))
		for _, raw := range *req.PatientIDs {
			pid, _ := uuid.Parse(raw)
			patientIDs = append(patientIDs, pid)
		}
		fields.PatientIDs = &patientIDs
	}

	v, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		h.writeError(w, err, requestID, "update team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(v), requestID)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		h.writeError(w, err, requestID, "delete team")
		return
	}

	response.NoContent(w)
}

// writeError maps team domain errors onto the wire. Store internals never
// reach the caller; they are logged and answered generically.
func (h *TeamHandler) writeError(w http.ResponseWriter, err error, requestID, op string) {
	var notFound *team.NotFoundError
	var conflict *team.ConflictError

	switch {
	case errors.Is(err, team.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.As(err, &notFound):
		response.ErrWithDetails(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("Referenced %s(s) not found", notFound.Entity),
			map[string]any{"entity": notFound.Entity, "ids": notFound.IDs}, requestID)
	case errors.As(err, &conflict):
		response.ErrWithDetails(w, http.StatusConflict, "MEMBERSHIP_CONFLICT",
			"One or more patients already belong to another team",
			conflict.Conflicts, requestID)
	case errors.Is(err, team.ErrDuplicateName):
		response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "A team with that name already exists", requestID)
	case errors.Is(err, team.ErrEmptyUpdate):
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
	default:
		slog.Error("failed to "+op, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+op, requestID)
	}
}

// parseIDParam extracts and parses the {id} URL parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
