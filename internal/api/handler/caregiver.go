package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/api/response"
	"github.com/clinadmin/clinadmin/internal/api/validation"
	"github.com/clinadmin/clinadmin/internal/caregiver"
)

type createCaregiverRequest struct {
	Document            string   `json:"document"`
	FullName            string   `json:"fullName"`
	Gender              string   `json:"gender"`
	ConventionalNumbers []string `json:"conventionalNumbers"`
	CellphoneNumbers    []string `json:"cellphoneNumbers"`
	Canton              string   `json:"canton"`
	Parish              string   `json:"parish"`
	ZoneType            string   `json:"zoneType"`
	Address             string   `json:"address"`
	Reference           string   `json:"reference"`
	PatientRelationship string   `json:"patientRelationship"`
}

type updateCaregiverRequest struct {
	FullName            *string   `json:"fullName"`
	ConventionalNumbers *[]string `json:"conventionalNumbers"`
	CellphoneNumbers    *[]string `json:"cellphoneNumbers"`
	Canton              *string   `json:"canton"`
	Parish              *string   `json:"parish"`
	ZoneType            *string   `json:"zoneType"`
	Address             *string   `json:"address"`
	Reference           *string   `json:"reference"`
	PatientRelationship *string   `json:"patientRelationship"`
}

type caregiverResponse struct {
	ID                  string   `json:"id"`
	Document            string   `json:"document"`
	FullName            string   `json:"fullName"`
	Gender              string   `json:"gender"`
	ConventionalNumbers []string `json:"conventionalNumbers"`
	CellphoneNumbers    []string `json:"cellphoneNumbers"`
	Canton              string   `json:"canton"`
	Parish              string   `json:"parish"`
	ZoneType            string   `json:"zoneType"`
	Address             string   `json:"address"`
	Reference           string   `json:"reference"`
	PatientRelationship string   `json:"patientRelationship"`
	CreatedAt           string   `json:"createdAt"`
	UpdatedAt           string   `json:"updatedAt"`
}

func toCaregiverResponse(c *caregiver.Caregiver) caregiverResponse {
	return caregiverResponse{
		ID:                  c.ID.String(),
		Document:            c.Document,
		FullName:            c.FullName,
		Gender:              c.Gender,
		ConventionalNumbers: c.ConventionalNumbers,
		CellphoneNumbers:    c.CellphoneNumbers,
		Canton:              c.Canton,
		Parish:              c.Parish,
		ZoneType:            c.ZoneType,
		Address:             c.Address,
		Reference:           c.Reference,
		PatientRelationship: c.PatientRelationship,
		CreatedAt:           c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CaregiverHandler handles caregiver CRUD endpoints.
type CaregiverHandler struct {
	repo caregiver.Repository
}

// NewCaregiverHandler creates a new CaregiverHandler.
func NewCaregiverHandler(repo caregiver.Repository) *CaregiverHandler {
	return &CaregiverHandler{repo: repo}
}

// Create handles POST /caregivers.
func (h *CaregiverHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCaregiverRequest(validation.CreateCaregiverRequest{
		Document:            req.Document,
		FullName:            req.FullName,
		Gender:              req.Gender,
		Canton:              req.Canton,
		Parish:              req.Parish,
		ZoneType:            req.ZoneType,
		Address:             req.Address,
		Reference:           req.Reference,
		PatientRelationship: req.PatientRelationship,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c := &caregiver.Caregiver{
		Document:            req.Document,
		FullName:            req.FullName,
		Gender:              req.Gender,
		ConventionalNumbers: req.ConventionalNumbers,
		CellphoneNumbers:    req.CellphoneNumbers,
		Canton:              req.Canton,
		Parish:              req.Parish,
		ZoneType:            req.ZoneType,
		Address:             req.Address,
		Reference:           req.Reference,
		PatientRelationship: req.PatientRelationship,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, caregiver.ErrDuplicateDocument) {
			response.Err(w, http.StatusConflict, "DUPLICATE_DOCUMENT", "A caregiver with that document already exists", requestID)
			return
		}
		slog.Error("failed to create caregiver", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create caregiver", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toCaregiverResponse(c), requestID)
}

// List handles GET /caregivers.
func (h *CaregiverHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.repo.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list caregivers", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list caregivers", requestID)
		return
	}

	items := make([]caregiverResponse, 0, len(result.Caregivers))
	for i := range result.Caregivers {
		items = append(items, toCaregiverResponse(&result.Caregivers[i]))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /caregivers/{id}.
func (h *CaregiverHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, caregiver.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Caregiver not found", requestID)
			return
		}
		slog.Error("failed to get caregiver", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get caregiver", requestID)
		return
	}

	response.Success(w, http.StatusOK, toCaregiverResponse(c), requestID)
}

// Update handles PATCH /caregivers/{id}.
func (h *CaregiverHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateCaregiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fields := caregiver.UpdateFields{
		FullName:            req.FullName,
		ConventionalNumbers: req.ConventionalNumbers,
		CellphoneNumbers:    req.CellphoneNumbers,
		Canton:              req.Canton,
		Parish:              req.Parish,
		ZoneType:            req.ZoneType,
		Address:             req.Address,
		Reference:           req.Reference,
		PatientRelationship: req.PatientRelationship,
	}
	if fields.IsEmpty() {
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
		return
	}

	c, err := h.repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, caregiver.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Caregiver not found", requestID)
			return
		}
		slog.Error("failed to update caregiver", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update caregiver", requestID)
		return
	}

	response.Success(w, http.StatusOK, toCaregiverResponse(c), requestID)
}

// Delete handles DELETE /caregivers/{id}.
func (h *CaregiverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, caregiver.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Caregiver not found", requestID)
		case errors.Is(err, caregiver.ErrHasPatient):
			response.Err(w, http.StatusConflict, "CAREGIVER_HAS_PATIENT", "Cannot delete a caregiver still assigned to a patient", requestID)
		default:
			slog.Error("failed to delete caregiver", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete caregiver", requestID)
		}
		return
	}

	response.NoContent(w)
}
