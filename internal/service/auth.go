package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the outcome of a successful login.
type Session struct {
	AccessToken  *tokens.AccessToken
	RefreshToken *tokens.RefreshToken
	User         IdentityView
}

// Login verifies credentials and issues a token pair.
//
// An admin login only matches identities with role admin. A user login
// matches any identity with that email, so an admin can sign in through the
// user entry point and receives an admin session.
func (s *Service) Login(
	req LoginRequest,
	expected tokens.Role,
) (
	*Session,
	error,
) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	var lookup func() (*Identity, error)
	switch expected {
	case tokens.RoleAdmin:
		lookup = func() (*Identity, error) {
			return s.identityStore.GetIdentityByEmailAndRole(req.Email, tokens.RoleAdmin)
		}
	case tokens.RoleUser:
		lookup = func() (*Identity, error) {
			return s.identityStore.GetIdentityByEmail(req.Email)
		}
	default:
		return nil, fmt.Errorf("%w: unknown login role %q", ErrValidation, expected)
	}

	identity, err := s.authenticate(lookup, req.Password)
	if err != nil {
		return nil, err
	}

	return s.issueSession(identity)
}

func (s *Service) authenticate(
	lookup func() (*Identity, error),
	password string,
) (
	*Identity,
	error,
) {
	identity, err := lookup()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to retrieve identity: %v", ErrInternal, err)
	}

	err = bcrypt.CompareHashAndPassword(identity.Secret, []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return identity, nil
}

func (s *Service) issueSession(
	identity *Identity,
) (
	*Session,
	error,
) {
	accessToken, err := s.tokenIssuer.IssueAccessToken(
		identity.ID,
		identity.Email,
		identity.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue access token: %v", ErrInternal, err)
	}

	refreshToken, err := s.tokenIssuer.IssueRefreshToken(
		identity.ID,
		identity.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to issue refresh token: %v", ErrInternal, err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         identity.View(),
	}, nil
}
