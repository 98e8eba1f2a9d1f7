// Package client implements the REST client for the remote chat server.
//
// A Client is bound to one server base URL and one session token. All
// methods issue a single request, decode the JSON payload, and surface
// failures as *AppError values carrying the HTTP status and the server's
// error id. Session-expiry classification is exposed via IsSessionExpired
// so callers can trigger forced logout uniformly.
//
// # Usage
//
//	c, err := client.New(client.Config{URL: "https://chat.example.com", Token: token})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	me, err := c.GetMe(ctx)
//
// Timeouts are owned here (transport and client level); callers are not
// expected to wrap requests in their own deadlines.
package client
