package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshTokenClaims is the claims section of a refresh JWT. It carries no
// email; the live identity is reloaded from the store on every refresh.
type RefreshTokenClaims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"typ"`
	Role Role `json:"role"`
}

func (claims *RefreshTokenClaims) validate(validator Validator, kind Kind) error {
	if claims.Kind != kind {
		return ErrTokenWrongKind()
	}
	if !claims.Role.Valid() {
		return ErrTokenMalformed()
	}
	return validateRegistered(&claims.RegisteredClaims, validator)
}

// ==============================================

// RefreshToken is the long-lived credential exchanged for a new access
// token. It is never rotated and never stored server side.
type RefreshToken struct {
	id         string
	issuer     string
	issuedAt   time.Time
	expiration time.Time
	subject    string
	role       Role
	encoded    string
}

func (t *RefreshToken) ID() string            { return t.id }
func (t *RefreshToken) Issuer() string        { return t.issuer }
func (t *RefreshToken) IssuedAt() time.Time   { return t.issuedAt }
func (t *RefreshToken) Expiration() time.Time { return t.expiration }
func (t *RefreshToken) Subject() string       { return t.subject }
func (t *RefreshToken) Role() Role            { return t.role }
func (t *RefreshToken) Encoded() string       { return t.encoded }

func (token *RefreshToken) Decode(encToken string, validator Validator) error {
	claims := &RefreshTokenClaims{}
	if err := decodeToken(encToken, claims, KindRefresh, validator); err != nil {
		return err
	}
	token.fromClaims(claims, encToken)
	return nil
}

func (token *RefreshToken) intoClaims() *RefreshTokenClaims {
	return &RefreshTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.id,
			Issuer:    token.issuer,
			Subject:   token.subject,
			IssuedAt:  jwt.NewNumericDate(token.issuedAt),
			ExpiresAt: jwt.NewNumericDate(token.expiration),
		},
		Kind: KindRefresh,
		Role: token.role,
	}
}

func (token *RefreshToken) fromClaims(claims *RefreshTokenClaims, encToken string) {
	token.id = claims.ID
	token.issuer = claims.Issuer
	token.issuedAt = claims.IssuedAt.Time
	token.expiration = claims.ExpiresAt.Time
	token.subject = claims.Subject
	token.role = claims.Role
	token.encoded = encToken
}
