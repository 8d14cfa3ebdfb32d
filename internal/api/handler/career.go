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
	"github.com/clinadmin/clinadmin/internal/career"
)

type careerRequest struct {
	Name string `json:"name"`
}

type careerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toCareerResponse(c *career.Career) careerResponse {
	return careerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CareerHandler handles career CRUD endpoints.
type CareerHandler struct {
	repo career.Repository
}

// NewCareerHandler creates a new CareerHandler.
func NewCareerHandler(repo career.Repository) *CareerHandler {
	return &CareerHandler{repo: repo}
}

// Create handles POST /careers.
func (h *CareerHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req careerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCareerRequest(req.Name)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c := &career.Career{Name: req.Name}
	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, career.ErrDuplicateName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A career named %q already exists", req.Name), requestID)
			return
		}
		slog.Error("failed to create career", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create career", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toCareerResponse(c), requestID)
}

// List handles GET /careers.
func (h *CareerHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.repo.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list careers", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list careers", requestID)
		return
	}

	items := make([]careerResponse, 0, len(result.Careers))
	for i := range result.Careers {
		items = append(items, toCareerResponse(&result.Careers[i]))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /careers/{id}.
func (h *CareerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, career.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Career not found", requestID)
			return
		}
		slog.Error("failed to get career", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get career", requestID)
		return
	}

	response.Success(w, http.StatusOK, toCareerResponse(c), requestID)
}

// Update handles PATCH /careers/{id}.
func (h *CareerHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req careerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.Name == "" {
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCareerRequest(req.Name)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c, err := h.repo.Rename(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, career.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Career not found", requestID)
		case errors.Is(err, career.ErrDuplicateName):
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A career named %q already exists", req.Name), requestID)
		default:
			slog.Error("failed to update career", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update career", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toCareerResponse(c), requestID)
}

// Delete handles DELETE /careers/{id}.
func (h *CareerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, career.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Career not found", requestID)
			return
		}
		slog.Error("failed to delete career", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete career", requestID)
		return
	}

	response.NoContent(w)
}
