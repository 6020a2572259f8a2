package tokens

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Server implements both Issuer and Validator. It holds one HMAC secret per
// token kind. Create a Server with NewServer or InitServer.
type Server struct {
	accessKey       []byte
	refreshKey      []byte
	refreshFallback bool
	issuerDomain    string
	now             func() time.Time
}

func NewServer(secrets Secrets, opts ...ServerOption) *Server {
	server := &Server{
		accessKey:    secrets.Access,
		refreshKey:   secrets.Refresh,
		issuerDomain: secrets.Issuer,
		now:          time.Now,
	}
	if len(server.refreshKey) == 0 {
		server.refreshKey = secrets.Access
		server.refreshFallback = true
	}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

// RefreshFallback reports whether refresh tokens are signed with the access
// secret because no dedicated refresh secret was provided.
func (server *Server) RefreshFallback() bool {
	return server.refreshFallback
}

//
// Issuer interface

func (server *Server) IssueAccessToken(
	subject string,
	email string,
	role Role,
) (*AccessToken, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("cannot issue access token for role %q", role)
	}

	now := server.now()
	token := &AccessToken{
		id:         uuid.NewString(),
		issuer:     server.issuerDomain,
		issuedAt:   now,
		expiration: now.Add(AccessTokenLifetime),
		subject:    subject,
		email:      email,
		role:       role,
	}

	encodedToken, err := encodeToken(token.intoClaims(), server.accessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode access token: %v", err)
	}
	token.encoded = encodedToken

	return token, nil
}

func (server *Server) IssueRefreshToken(
	subject string,
	role Role,
) (*RefreshToken, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("cannot issue refresh token for role %q", role)
	}

	now := server.now()
	token := &RefreshToken{
		id:         uuid.NewString(),
		issuer:     server.issuerDomain,
		issuedAt:   now,
		expiration: now.Add(RefreshTokenLifetime),
		subject:    subject,
		role:       role,
	}

	encToken, err := encodeToken(token.intoClaims(), server.refreshKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode refresh token: %v", err)
	}
	token.encoded = encToken

	return token, nil
}

//
// Validator interface

func (server *Server) VerificationKey(kind Kind) ([]byte, error) {
	switch kind {
	case KindAccess:
		return server.accessKey, nil
	case KindRefresh:
		return server.refreshKey, nil
	default:
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
}

func (server *Server) ValidateDomain(issuerDomain string) bool {
	return issuerDomain == server.issuerDomain
}

func (server *Server) Now() time.Time {
	return server.now()
}
