// Package client is a Go client for the task scheduler API.
//
// A Client keeps the session the way a browser would: the access token is
// held in memory and sent as a bearer header, while the refresh token lives
// in an HttpOnly cookie inside the client's cookie jar.
//
// # Quick Start
//
//	c, err := client.New("http://localhost:3000",
//	    client.WithSessionExpiredHandler(func(loginPath string) {
//	        log.Printf("session over, log in again at %s", loginPath)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := c.Login(ctx, tokens.RoleUser, "alice@example.com", "secret1"); err != nil {
//	    log.Fatal(err)
//	}
//
//	var tasks api.TasksResponse
//	err = c.Get(ctx, api.UserPrefix+"/my_tasks", &tasks)
//
// # Refresh
//
// When a request comes back 401, the client asks its Coordinator for a new
// access token. Only one refresh runs at a time; concurrent requests that
// hit 401 meanwhile queue up and are released in arrival order with the new
// token. Each request is replayed at most once.
//
// If the refresh fails, every queued request fails with [ErrSessionExpired],
// the stored token and cookies are dropped, and the session-expired handler
// receives "/admin/login" or "/login" depending on the role of the session.
package client
