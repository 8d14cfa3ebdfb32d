package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/api/response"
	"github.com/clinadmin/clinadmin/internal/api/validation"
	"github.com/clinadmin/clinadmin/internal/career"
	"github.com/clinadmin/clinadmin/internal/user"
)

// UserService registers users and administrators.
type UserService interface {
	CreateUser(ctx context.Context, params user.CreateParams) (*user.User, error)
	CreateAdmin(ctx context.Context, params user.CreateParams) (*user.User, error)
}

type createUserRequest struct {
	Document string  `json:"document"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	LastName string  `json:"lastName"`
	Address  *string `json:"address"`
	CareerID *string `json:"careerId"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"lastName"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
	CareerID *string `json:"careerId"`
	TeamID   *string `json:"teamId"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID        string  `json:"id"`
	Document  string  `json:"document"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	LastName  string  `json:"lastName"`
	Address   *string `json:"address"`
	IsActive  bool    `json:"isActive"`
	Role      string  `json:"role"`
	CareerID  *string `json:"careerId"`
	TeamID    *string `json:"teamId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toUserResponse(u *user.User) userResponse {
	resp := userResponse{
		ID:        u.ID.String(),
		Document:  u.Document,
		Email:     u.Email,
		Name:      u.Name,
		LastName:  u.LastName,
		Address:   u.Address,
		IsActive:  u.IsActive,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if u.CareerID != nil {
		careerID := u.CareerID.String()
		resp.CareerID = &careerID
	}
	if u.TeamID != nil {
		teamID := u.TeamID.String()
		resp.TeamID = &teamID
	}
	return resp
}

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	svc  UserService
	repo user.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, repo user.Repository) *UserHandler {
	return &UserHandler{svc: svc, repo: repo}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.svc.CreateUser)
}

// CreateAdmin handles POST /users/admin.
func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.svc.CreateAdmin)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request, register func(context.Context, user.CreateParams) (*user.User, error)) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Document: req.Document,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		LastName: req.LastName,
		CareerID: req.CareerID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	params := user.CreateParams{
		Document: req.Document,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		LastName: req.LastName,
		Address:  req.Address,
	}
	if req.CareerID != nil {
		careerID, _ := uuid.Parse(*req.CareerID)
		params.CareerID = &careerID
	}

	u, err := register(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicate):
			response.Err(w, http.StatusConflict, "DUPLICATE_USER", "A user with that document or email already exists", requestID)
		case errors.Is(err, career.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Referenced career not found", requestID)
		default:
			slog.Error("failed to create user", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toUserResponse(u), requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	page, limit := listParams(r)
	result, err := h.repo.List(r.Context(), page, limit)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(result.Users))
	for i := range result.Users {
		items = append(items, toUserResponse(&result.Users[i]))
	}

	response.SuccessList(w, items, result.Total, result.Page, result.Limit, requestID)
}

// GetByID handles GET /users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Update handles PATCH /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fields := user.UpdateFields{
		Name:     req.Name,
		LastName: req.LastName,
		Address:  req.Address,
		IsActive: req.IsActive,
	}
	if req.CareerID != nil {
		careerID, err := uuid.Parse(*req.CareerID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "careerId must be a valid UUID", requestID)
			return
		}
		fields.CareerID = &careerID
	}
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "teamId must be a valid UUID", requestID)
			return
		}
		fields.TeamID = &teamID
	}

	if fields.IsEmpty() {
		response.Err(w, http.StatusBadRequest, "EMPTY_UPDATE", "Send at least one field to update", requestID)
		return
	}

	u, err := h.repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to update user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		return
	}

	response.Success(w, http.StatusOK, toUserResponse(u), requestID)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to delete user", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user", requestID)
		return
	}

	response.NoContent(w)
}
