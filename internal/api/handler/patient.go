package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/api/response"
	"github.com/clinadmin/clinadmin/internal/api/validation"
	"github.com/clinadmin/clinadmin/internal/patient"
)

type createPatientRequest struct {
	Document             string `json:"document"`
	Name                 string `json:"name"`
	LastName             string `json:"lastName"`
	Gender               string `json:"gender"`
	Birthday             string `json:"birthday"`
	TypeBeneficiary      string `json:"typeBeneficiary"`
	TypeDisability       string `json:"typeDisability"`
	PercentageDisability int    `json:"percentageDisability"`
	Zone                 string `json:"zone"`
	CaregiverID          string `json:"caregiverId"`
}

// updatePatientRequest deliberately has no team field: membership moves only
// through the team endpoints.
type updatePatientRequest struct {
	Name                 *string `json:"name"`
	LastName             *string `json:"lastName"`
	TypeBeneficiary      *string `json:"typeBeneficiary"`
	TypeDisability       *string `json:"typeDisability"`
	PercentageDisability *int    `json:"percentageDisability"`
	Zone                 *string `json:"zone"`
	IsActive             *bool   `json:"isActive"`
	CaregiverID          *string `json:"caregiverId"`
}

type patientResponse struct {
	ID                   string  `json:"id"`
	Document             string  `json:"document"`
	Name                 string  `json:"name"`
	LastName             string  `json:"lastName"`
	Gender               string  `json:"gender"`
	Birthday             string  `json:"birthday"`
	TypeBeneficiary      string  `json:"typeBeneficiary"`
	TypeDisability       string  `json:"typeDisability"`
	PercentageDisability int     `json:"percentageDisability"`
	Zone                 string  `json:"zone"`
	IsActive             bool    `json:"isActive"`
	CaregiverID          string  `json:"caregiverId"`
	TeamID               *string `json:"teamId"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	resp := patientResponse{
		ID:                   p.ID.String(),
		Document:             p.Document,
		Name:                 p.Name,
		LastName:             p.LastName,
		Gender:               p.Gender,
		Birthday:             p.Birthday.Format("2006-01-02"),
		TypeBeneficiary:      p.TypeBeneficiary,
		TypeDisability:       p.TypeDisability,
		PercentageDisability: p.PercentageDisability,
		Zone:                 p.Zone,
		IsActive:             p.IsActive,
		CaregiverID:          p.CaregiverID.String(),
		CreatedAt:            p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.TeamID != nil {
		teamID := p.TeamID.String()
		resp.TeamID = &teamID
	}
	return resp
}

// PatientHandler handles patient CRUD endpoints.
type PatientHandler struct {
	repo patient.Repository
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(repo patient.Repository) *PatientHandler {
	return &PatientHandler{repo: repo}
}

// Create handles POST /patients.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePatientRequest(validation.CreatePatientRequest{
		Document:             req.Document,
		Name:                 req.Name,
		LastName:             req.LastName,
		Gender:               req.Gender,
		Birthday:             req.Birthday,
		TypeBeneficiary:      req.TypeBeneficiary,
		TypeDisability:       req.TypeDisability,
		PercentageDisability: req.PercentageDisability,
		Zone:                 req.Zone,
		CaregiverID:          req.CaregiverID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	birthday, _ := time.Parse("2006-01-02", req.Birthday)
	caregiverID, _ := uuid.Parse(req.CaregiverID)

	p := &patient.Patient{
		Document:             req.Document,
		Name:                 req.Name,
		LastName:             req.LastName,
		Gender:               req.Gender,
		Birthday:             birthday,
		TypeBeneficiary:      req.TypeBeneficiary,
		TypeDisability:       req.TypeDisability,
		PercentageDisability: req.PercentageDisability,
		Zone:                 req.Zone,
		IsActive:             true,
		CaregiverID:          caregiverID,
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		switch {
		case errors.Is(err, patient.ErrDuplicateDocument):
			response.Err(w, http.StatusConflict, "DUPLICATE_DOCUMENT", "A patient with that document already exists", requestID)
		case errors.Is(err, patient.ErrCaregiverNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Referenced caregiver not found", requestID)
		default:
			slog.Error("failed to create patient", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create patient", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toPatientResponse(p), requestID)
}

// List handles GET /patients.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.repo.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list patients", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list patients", requestID)
		return
	}

	items := make([]patientResponse, 0, len(result.Patients))
	for i := range result.Patients {
		items = append(items, toPatientResponse(&result.Patients[i]))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /patients/{id}.
func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Patient not found", requestID)
			return
		}
		slog.Error("failed to get patient", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get patient", requestID)
		return
	}

	response.Success(w, http.StatusOK, toPatientResponse(p), requestID)
}

// Update handles PATCH /patients/{id}.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fields := patient.UpdateFields{
		Name:                 req.Name,
		LastName:             req.LastName,
		TypeBeneficiary:      req.TypeBeneficiary,
		TypeDisability:       req.TypeDisability,
		PercentageDisability: req.PercentageDisability,
		Zone:                 req.Zone,
		IsActive:             req.IsActive,
	}
	if req.CaregiverID != nil {
		caregiverID, err := uuid.Parse(*req.CaregiverID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "caregiverId must be a valid UUID", requestID)
			return
		}
		fields.CaregiverID = &caregiverID
	}

	if fields.IsEmpty() {
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
		return
	}

	p, err := h.repo.Update(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Patient not found", requestID)
		case errors.Is(err, patient.ErrCaregiverNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Referenced caregiver not found", requestID)
		default:
			slog.Error("failed to update patient", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update patient", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toPatientResponse(p), requestID)
}

// Delete handles DELETE /patients/{id}.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Patient not found", requestID)
			return
		}
		slog.Error("failed to delete patient", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete patient", requestID)
		return
	}

	response.NoContent(w)
}
