package api

import (
	"net/http"
	"strings"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

const (
	AdminAccessCookie  = "ADMINAccesstoken"
	AdminRefreshCookie = "ADMINRefreshToken"
	UserAccessCookie   = "USERAccesstoken"
	UserRefreshCookie  = "USERRefreshToken"
)

type cookiePair struct {
	access  string
	refresh string
}

var roleCookies = map[tokens.Role]cookiePair{
	tokens.RoleAdmin: {access: AdminAccessCookie, refresh: AdminRefreshCookie},
	tokens.RoleUser:  {access: UserAccessCookie, refresh: UserRefreshCookie},
}

// lookup order when a request could carry either role's cookies
var cookieRoleOrder = []tokens.Role{tokens.RoleAdmin, tokens.RoleUser}

func (a *API) tokenCookie(name string, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a *API) setAccessCookie(w http.ResponseWriter, role tokens.Role, token *tokens.AccessToken) {
	pair := roleCookies[role]
	maxAge := int(tokens.AccessTokenLifetime.Seconds())
	http.SetCookie(w, a.tokenCookie(pair.access, token.Encoded(), maxAge))
}

func (a *API) setSessionCookies(w http.ResponseWriter, session *service.Session) {
	role := session.User.Role
	pair := roleCookies[role]

	a.setAccessCookie(w, role, session.AccessToken)
	maxAge := int(tokens.RefreshTokenLifetime.Seconds())
	http.SetCookie(w, a.tokenCookie(pair.refresh, session.RefreshToken.Encoded(), maxAge))

	// a browser holds one session at a time
	for other := range roleCookies {
		if other != role {
			a.clearSessionCookies(w, other)
		}
	}
}

func (a *API) clearSessionCookies(w http.ResponseWriter, role tokens.Role) {
	pair := roleCookies[role]
	http.SetCookie(w, a.tokenCookie(pair.access, "", -1))
	http.SetCookie(w, a.tokenCookie(pair.refresh, "", -1))
}

// accessTokenFromRequest prefers an explicit bearer header over cookies,
// then takes the admin cookie before the user cookie.
func accessTokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}
	for _, role := range cookieRoleOrder {
		if value := cookieValue(r, roleCookies[role].access); value != "" {
			return value
		}
	}
	return ""
}

func refreshTokenFromRequest(r *http.Request) string {
	for _, role := range cookieRoleOrder {
		if value := cookieValue(r, roleCookies[role].refresh); value != "" {
			return value
		}
	}
	return ""
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
