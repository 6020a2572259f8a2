package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

// TokenStore holds the access token and the role marker of the current
// session in memory.
type TokenStore struct {
	mu     sync.RWMutex
	access string
	role   tokens.Role
}

func (s *TokenStore) Set(access string, role tokens.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.role = role
}

func (s *TokenStore) SetAccess(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
}

func (s *TokenStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *TokenStore) Role() tokens.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *TokenStore) Clear() {
	s.Set("", "")
}

// sessionJar is a cookie jar that can be emptied.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: jar}, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

func (j *sessionJar) Reset() {
	jar, _ := cookiejar.New(nil) // only fails with a bad PublicSuffixList
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar = jar
}
