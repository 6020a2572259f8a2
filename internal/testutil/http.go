package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// HTTPResult captures HTTP response details for test assertions
type HTTPResult struct {
	Code    int
	Error   error
	Headers http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// Cookie returns the Set-Cookie entry with the given name, or nil.
func (r HTTPResult) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Header represents an HTTP header key-value pair
type Header struct {
	Key   string
	Value string
}

// ContentTypeJSON returns a header for JSON content type
func ContentTypeJSON() Header {
	return Header{
		Key:   "Content-Type",
		Value: "application/json",
	}
}

// BearerToken returns an Authorization header for token
func BearerToken(token string) Header {
	return Header{
		Key:   "Authorization",
		Value: "Bearer " + token,
	}
}

// Cookie returns a request Cookie header; repeat it to send several.
func Cookie(name string, value string) Header {
	return Header{
		Key:   "Cookie",
		Value: (&http.Cookie{Name: name, Value: value}).String(),
	}
}

// ExpectStatus validates the HTTP status code and fails the test if it doesn't match
func ExpectStatus(
	t *testing.T,
	expected int,
	result HTTPResult,
) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("request error: %v", result.Error)
	}
	if result.Code != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, result.Code, string(result.Body))
	}
}

// ExpectClearedCookie fails unless the response expires the named cookie.
func ExpectClearedCookie(
	t *testing.T,
	result HTTPResult,
	name string,
) {
	t.Helper()
	c := result.Cookie(name)
	if c == nil {
		t.Fatalf("expected Set-Cookie for %s", name)
	}
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("cookie %s not cleared: value=%q maxAge=%d", name, c.Value, c.MaxAge)
	}
}

// Do performs a request and optionally decodes JSON response
func Do(
	router http.Handler,
	method string,
	url string,
	body io.Reader,
	response any,
	headers ...Header,
) HTTPResult {
	req := httptest.NewRequest(method, url, body)
	res := httptest.NewRecorder()
	for _, h := range headers {
		req.Header.Add(h.Key, h.Value)
	}
	router.ServeHTTP(res, req)

	result := HTTPResult{
		Code:    res.Code,
		Headers: res.Header(),
		Cookies: res.Result().Cookies(),
		Body:    res.Body.Bytes(),
	}

	if response != nil && res.Body.Len() > 0 {
		if err := json.Unmarshal(res.Body.Bytes(), response); err != nil {
			result.Error = fmt.Errorf("failed to decode JSON: %v\n%s", err, res.Body.String())
		}
	}

	return result
}

// Get performs a GET request and optionally decodes JSON response
func Get(
	router http.Handler,
	url string,
	response any,
	headers ...Header,
) HTTPResult {
	return Do(router, http.MethodGet, url, nil, response, headers...)
}

// Post performs a POST request and optionally decodes JSON response
func Post(
	router http.Handler,
	url string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	return Do(router, http.MethodPost, url, strings.NewReader(body), response, headers...)
}

// PostJSON performs a POST with JSON body
func PostJSON(
	router http.Handler,
	urlPath string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	return Post(router, urlPath, body, response, append(headers, ContentTypeJSON())...)
}

// SendJSON performs a request of any method with a JSON body
func SendJSON(
	router http.Handler,
	method string,
	urlPath string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	return Do(router, method, urlPath, strings.NewReader(body), response, append(headers, ContentTypeJSON())...)
}
