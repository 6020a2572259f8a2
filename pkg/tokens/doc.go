// Package tokens issues and validates the HS256 JSON Web Tokens used by the
// task scheduler's session protocol.
//
// Two token kinds exist, each signed with its own secret:
//
//   - AccessToken: short-lived (AccessTokenLifetime), carries subject, email and role
//   - RefreshToken: long-lived (RefreshTokenLifetime), carries subject and role
//
// The kind is embedded in the "typ" claim, so a refresh token is rejected
// where an access token is expected even when both secrets are the same.
// Every token also carries a random "jti" that a deny-list could key on.
//
// # Issuing
//
//	issuer, validator := tokens.InitServer(tokens.Secrets{
//	    Access:  []byte(os.Getenv("JWT_SECRET")),
//	    Refresh: []byte(os.Getenv("JWT_REFRESH_SECRET")),
//	    Issuer:  "multi-role-task-scheduler",
//	})
//
//	access, err := issuer.IssueAccessToken(id, "alice@example.com", tokens.RoleUser)
//	refresh, err := issuer.IssueRefreshToken(id, tokens.RoleUser)
//
// When Secrets.Refresh is empty the access secret signs refresh tokens too.
// Server.RefreshFallback reports this so callers can warn about it.
//
// # Validating
//
//	token := &tokens.AccessToken{}
//	if err := token.Decode(encoded, validator); err != nil {
//	    switch {
//	    case errors.Is(err, tokens.ErrTokenExpired()):
//	    case errors.Is(err, tokens.ErrTokenWrongKind()):
//	    case errors.Is(err, tokens.ErrTokenBadSignature()):
//	    }
//	}
//
// Callers facing the network should not echo which check failed.
package tokens
