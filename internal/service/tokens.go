package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

// RefreshResult carries a freshly minted access token and the principal it
// was minted for.
type RefreshResult struct {
	AccessToken *tokens.AccessToken
	Principal   *Principal
}

// Authenticate verifies an encoded access token and loads the identity it
// names. Every failure is ErrUnauthorized apart from store faults.
func (s *Service) Authenticate(
	encodedAccessToken string,
) (
	*Principal,
	error,
) {
	if encodedAccessToken == "" {
		return nil, fmt.Errorf("%w: no token provided", ErrUnauthorized)
	}

	token := tokens.AccessToken{}
	if err := token.Decode(encodedAccessToken, s.tokenValidator); err != nil {
		return nil, fmt.Errorf("%w: couldn't decode access token: %v", ErrUnauthorized, err)
	}

	identity, err := s.liveIdentity(token.Subject())
	if err != nil {
		return nil, err
	}

	return identity.principal(), nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *Service) Refresh(
	encodedRefreshToken string,
) (
	*RefreshResult,
	error,
) {
	if encodedRefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token provided", ErrUnauthorized)
	}

	token := tokens.RefreshToken{}
	if err := token.Decode(encodedRefreshToken, s.tokenValidator); err != nil {
		return nil, fmt.Errorf("%w: couldn't decode refresh token: %v", ErrUnauthorized, err)
	}

	identity, err := s.liveIdentity(token.Subject())
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokenIssuer.IssueAccessToken(
		identity.ID,
		identity.Email,
		identity.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't issue access token: %v", ErrInternal, err)
	}

	return &RefreshResult{
		AccessToken: accessToken,
		Principal:   identity.principal(),
	}, nil
}

func (s *Service) liveIdentity(id string) (*Identity, error) {
	identity, err := s.identityStore.GetIdentityByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: identity %s no longer exists", ErrUnauthorized, id)
		}
		return nil, fmt.Errorf("%w: failed to load identity: %v", ErrInternal, err)
	}
	return identity, nil
}
