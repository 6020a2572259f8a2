// Package service implements the business logic layer for the task scheduler.
// It handles registration, login, session verification, refresh, profile and
// task operations. It knows nothing about HTTP.
package service

import (
	"errors"
	"fmt"
	"log"
	"testing"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)

// PasswordMode controls bcrypt cost for password hashing.
// Use PasswordModeProduction for real deployments and PasswordModeTesting only in tests.
type PasswordMode int

const (
	// PasswordModeProduction uses bcrypt.DefaultCost (10) for secure password hashing.
	PasswordModeProduction PasswordMode = iota
	// PasswordModeTesting uses bcrypt.MinCost (4) for fast test execution.
	// WARNING: This mode will panic if used outside of go test.
	PasswordModeTesting
)

// Cost returns the bcrypt cost for this mode.
// Panics if PasswordModeTesting is used outside of a test binary.
func (m PasswordMode) Cost() int {
	switch m {
	case PasswordModeTesting:
		if !testing.Testing() {
			panic("service: PasswordModeTesting used outside of test environment")
		}
		return bcrypt.MinCost
	default:
		return bcrypt.DefaultCost
	}
}

// Service coordinates identities, sessions and tasks. It depends on the
// storage interfaces and delegates to them for persistence.
type Service struct {
	identityStore  IdentityStore
	taskStore      TaskStore
	tokenIssuer    tokens.Issuer
	tokenValidator tokens.Validator
	passwordMode   PasswordMode
}

func New(
	identityStore IdentityStore,
	taskStore TaskStore,
	issuer tokens.Issuer,
	validator tokens.Validator,
	passwordMode PasswordMode,
) *Service {
	if passwordMode == PasswordModeTesting {
		log.Println("WARNING: Using insecure password hashing (testing mode)")
	}
	return &Service{
		identityStore:  identityStore,
		taskStore:      taskStore,
		tokenIssuer:    issuer,
		tokenValidator: validator,
		passwordMode:   passwordMode,
	}
}

func (s *Service) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordMode.Cost())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password: %v", ErrInternal, err)
	}
	return hash, nil
}
