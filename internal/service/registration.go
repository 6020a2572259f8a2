package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"github.com/google/uuid"
)

type RegistrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// normalize trims name and email before they are validated and stored.
func (req RegistrationRequest) normalize() RegistrationRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return req
}

func (req RegistrationRequest) validate() error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	return validatePassword(req.Password)
}

// RegisterUser creates a self-service account with role user.
func (s *Service) RegisterUser(
	req RegistrationRequest,
) (
	*Identity,
	error,
) {
	return s.register(req, tokens.RoleUser)
}

// CreateAdmin creates an account with role admin. Callers are expected to
// have already checked that the request is allowed to do this.
func (s *Service) CreateAdmin(
	req RegistrationRequest,
) (
	*Identity,
	error,
) {
	return s.register(req, tokens.RoleAdmin)
}

func (s *Service) register(
	req RegistrationRequest,
	role tokens.Role,
) (
	*Identity,
	error,
) {
	req = req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	hashPass, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Secret:    hashPass,
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := s.identityStore.InsertIdentity(identity); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to insert identity: %v", ErrInternal, err)
	}

	return identity, nil
}
