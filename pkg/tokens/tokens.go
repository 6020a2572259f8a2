package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenLifetime  = time.Hour
	RefreshTokenLifetime = 7 * 24 * time.Hour
)

// Kind is carried in the "typ" claim so a token minted for one purpose can
// never be accepted for the other, even when both are signed with one secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Role is the access level embedded in every token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

type validateError struct {
	context string
	err     error
}

func (t *validateError) Context() string {
	return t.context
}
func (t *validateError) Error() string {
	return fmt.Sprintf("%v", t.err)
}
func (t *validateError) Unwrap() error {
	return t.err
}

var (
	errTokenMalformed     = errors.New("token malformed")
	errTokenBadSignature  = errors.New("token bad signature")
	errTokenInvalidIssuer = errors.New("token invalid issuer")
	errTokenExpired       = errors.New("token expired")
	errTokenNotIssued     = errors.New("token not issued yet")
	errTokenWrongKind     = errors.New("token wrong kind")
)

func ErrTokenMalformed() error     { return errTokenMalformed }
func ErrTokenBadSignature() error  { return errTokenBadSignature }
func ErrTokenInvalidIssuer() error { return errTokenInvalidIssuer }
func ErrTokenExpired() error       { return errTokenExpired }
func ErrTokenNotIssued() error     { return errTokenNotIssued }
func ErrTokenWrongKind() error     { return errTokenWrongKind }

type Issuer interface {
	IssueAccessToken(subject string, email string, role Role) (*AccessToken, error)
	IssueRefreshToken(subject string, role Role) (*RefreshToken, error)
}

type Validator interface {
	ValidateDomain(string) bool
	VerificationKey(Kind) ([]byte, error)
	Now() time.Time
}

// Secrets configures a Server. Refresh may be left empty, in which case the
// access secret signs both kinds and Server.RefreshFallback reports true.
type Secrets struct {
	Access  []byte
	Refresh []byte
	Issuer  string
}

type ServerOption func(*Server)

// WithClock replaces time.Now for both issuing and validation.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

func InitServer(
	secrets Secrets,
	opts ...ServerOption,
) (
	Issuer,
	Validator,
) {
	server := NewServer(secrets, opts...)
	return server, server
}

type claims interface {
	jwt.Claims
	validate(Validator, Kind) error
}

// registered claims shared by both kinds; the clock comes from the validator
func validateRegistered(rc *jwt.RegisteredClaims, validator Validator) error {
	now := validator.Now()

	if rc.Subject == "" || rc.IssuedAt == nil || rc.ExpiresAt == nil {
		return ErrTokenMalformed()
	}

	if rc.IssuedAt.After(now) {
		return ErrTokenNotIssued()
	}

	if !rc.ExpiresAt.After(now) {
		return ErrTokenExpired()
	}

	if !validator.ValidateDomain(rc.Issuer) {
		return ErrTokenInvalidIssuer()
	}

	return nil
}

func encodeToken(c jwt.Claims, key []byte) (string, error) {
	if len(key) == 0 {
		return "", fmt.Errorf("empty signing key")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
}

func decodeToken[T claims](
	tokenStr string,
	c T,
	kind Kind,
	validator Validator,
) *validateError {
	key, err := validator.VerificationKey(kind)
	if err != nil {
		return &validateError{
			context: fmt.Sprintf("no verification key for %s token: %v", kind, err),
			err:     errTokenBadSignature,
		}
	}

	_, err = jwt.ParseWithClaims(
		tokenStr,
		c,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return &validateError{
				context: fmt.Sprintf("token signature illegal: %v", err),
				err:     errTokenBadSignature,
			}
		default:
			return &validateError{
				context: fmt.Sprintf("token malformed: %v", err),
				err:     errTokenMalformed,
			}
		}
	}

	if err := c.validate(validator, kind); err != nil {
		return &validateError{
			context: fmt.Sprintf("token claims invalid: %v", err),
			err:     err,
		}
	}

	return nil
}
