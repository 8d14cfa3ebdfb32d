package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinadmin/clinadmin/internal/career"
)

// Service creates staff users and administrators. It hashes passwords with
// bcrypt and resolves the referenced career before persisting.
type Service struct {
	repo       Repository
	careerRepo career.Repository
	bcryptCost int
}

// NewService creates a new user Service.
func NewService(repo Repository, careerRepo career.Repository, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		careerRepo: careerRepo,
		bcryptCost: bcryptCost,
	}
}

// CreateParams holds the fields required to register a user.
type CreateParams struct {
	Document string
	Email    string
	Password string
	Name     string
	LastName string
	Address  *string
	CareerID *uuid.UUID
}

// CreateUser registers a staff user. The referenced career, when present,
// must exist.
func (s *Service) CreateUser(ctx context.Context, params CreateParams) (*User, error) {
	return s.create(ctx, params, RoleUser)
}

// CreateAdmin registers an administrator. Admins carry no career reference.
func (s *Service) CreateAdmin(ctx context.Context, params CreateParams) (*User, error) {
	params.CareerID = nil
	return s.create(ctx, params, RoleAdmin)
}

func (s *Service) create(ctx context.Context, params CreateParams, role Role) (*User, error) {
	if params.CareerID != nil {
		if _, err := s.careerRepo.GetByID(ctx, *params.CareerID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Document:     params.Document,
		Email:        params.Email,
		PasswordHash: string(hash),
		Name:         params.Name,
		LastName:     params.LastName,
		Address:      params.Address,
		IsActive:     true,
		Role:         role,
		CareerID:     params.CareerID,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
