package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims sits between the JSON representation in the token and
// the AccessToken Go struct.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Kind  Kind   `json:"typ"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (claims *AccessTokenClaims) validate(validator Validator, kind Kind) error {
	if claims.Kind != kind {
		return ErrTokenWrongKind()
	}
	if !claims.Role.Valid() {
		return ErrTokenMalformed()
	}
	return validateRegistered(&claims.RegisteredClaims, validator)
}

// ==============================================

// AccessToken is the short-lived credential presented on every
// authenticated request, either as a cookie or a bearer header.
type AccessToken struct {
	id         string
	issuer     string
	issuedAt   time.Time
	expiration time.Time
	subject    string
	email      string
	role       Role
	encoded    string
}

func (t *AccessToken) ID() string            { return t.id }
func (t *AccessToken) Issuer() string        { return t.issuer }
func (t *AccessToken) IssuedAt() time.Time   { return t.issuedAt }
func (t *AccessToken) Expiration() time.Time { return t.expiration }
func (t *AccessToken) Subject() string       { return t.subject }
func (t *AccessToken) Email() string         { return t.email }
func (t *AccessToken) Role() Role            { return t.role }
func (t *AccessToken) Encoded() string       { return t.encoded }

func (token *AccessToken) Decode(encToken string, validator Validator) error {
	claims := &AccessTokenClaims{}
	if err := decodeToken(encToken, claims, KindAccess, validator); err != nil {
		return err
	}
	token.fromClaims(claims, encToken)
	return nil
}

func (token *AccessToken) intoClaims() *AccessTokenClaims {
	return &AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.id,
			Issuer:    token.issuer,
			Subject:   token.subject,
			IssuedAt:  jwt.NewNumericDate(token.issuedAt),
			ExpiresAt: jwt.NewNumericDate(token.expiration),
		},
		Kind:  KindAccess,
		Email: token.email,
		Role:  token.role,
	}
}

func (token *AccessToken) fromClaims(claims *AccessTokenClaims, encToken string) {
	token.id = claims.ID
	token.issuer = claims.Issuer
	token.issuedAt = claims.IssuedAt.Time
	token.expiration = claims.ExpiresAt.Time
	token.subject = claims.Subject
	token.email = claims.Email
	token.role = claims.Role
	token.encoded = encToken
}
