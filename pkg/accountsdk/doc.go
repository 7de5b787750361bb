/*
Package accountsdk provides a client SDK for interacting with the Barkeep
accounts service.

# Overview

The accountsdk package implements a typed client for the accounts service.
It provides both unauthenticated operations (via Client) and authenticated
operations (via Session) with automatic token refresh.

# Client vs Session

The package is organized around two main types:

  - Client: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create a Client to interact with public endpoints and authenticate:

	client := accountsdk.NewClient("https://accounts.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Create an account
	user, err := client.Register(ctx, accountsdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "a long password",
	})

	// Authenticate to create a session
	session, err := client.Login(ctx, "alice@example.com", "a long password")

Use a Session for authenticated operations:

	// Get your own profile
	me, err := session.Me(ctx)

	// Browse other accounts
	users, err := session.ListUsers(ctx, 20, 0)

	// Update your profile
	email := "new@example.com"
	me, err = session.UpdateUser(ctx, me.ID, accountsdk.UpdateUserRequest{Email: &email})

# Automatic Token Refresh

Token responses carry no expires_in, so sessions cannot refresh ahead of
expiry. Instead every Session method retries once after a 401: the session
trades its refresh token for a new pair, replays the request with the new
access token, and only then surfaces the error. Sessions are safe for
concurrent use; parallel 401s coalesce into a single refresh.

To resume a session in a later run, persist the tokens and rebuild it:

	access, refresh := session.AccessToken(), session.RefreshToken()
	// ... later ...
	session = client.NewSessionFromTokens(access, refresh)

# Request Validation

Request types validate themselves before the round trip:

	req := accountsdk.RegisterRequest{Username: "x", Email: "nope", Password: "short"}
	if errs := req.Validate(); errs != nil {
		for field, msg := range errs {
			fmt.Printf("%s: %s\n", field, msg)
		}
		return
	}

The server runs the same checks, so Validate is an optimization, not a
substitute.

# Error Handling

Error responses are surfaced as *APIError carrying the HTTP status code, the
machine-readable error code and the human-readable description. Validation
failures additionally carry the per-field messages:

	user, err := client.Register(ctx, req)
	if err != nil {
		var apiErr *accountsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == accountsdk.ErrorCodeValidation {
			// Inspect apiErr.Details
		}
		return err
	}
*/
package accountsdk
