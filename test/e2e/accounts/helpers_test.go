package accounts_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
)

/*
 * Common constants and helper functions for accounts service end-to-end
 * tests. This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "barkeep-accounts-test:latest"

	testJWTSecret = "e2e-accounts-test-secret-0123456789"
	testPassword  = "Password123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Accounts Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Accounts Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/accounts/Dockerfile",
		"../../../")
	cmd.Dir = "." // Ensure we're in the test directory
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAccountsContainer starts the accounts service in a container and
// returns the base URL.
func setupAccountsContainer(t *testing.T) (string, func()) {
	t.Helper()
	return setupAccountsContainerWithEnv(t, nil)
}

// setupAccountsContainerWithEnv starts the accounts service with extra
// environment overrides layered over the test defaults. Used by tests that
// need unusual token lifetimes.
func setupAccountsContainerWithEnv(t *testing.T, overrides map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		"ACCOUNTS_DATABASE_URL": "sqlite:///accounts.db",
		"ACCOUNTS_JWT_SECRET":   testJWTSecret,
		// Minimum bcrypt cost so registrations don't dominate the suite
		"ACCOUNTS_BCRYPT_COST": "4",
	}
	for k, v := range overrides {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	// Get the mapped port
	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerUser creates an account with the shared test password and returns
// the created profile.
func registerUser(t *testing.T, client *accountsdk.Client, username, email string) *accountsdk.UserResponse {
	t.Helper()

	user, err := client.Register(t.Context(), accountsdk.RegisterRequest{
		Username: username,
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err, "Registration should succeed")
	require.NotEmpty(t, user.ID, "User ID should not be empty")

	return user
}

// performLogin authenticates with email and password and returns a live session.
func performLogin(t *testing.T, client *accountsdk.Client, email, password string) *accountsdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), email, password)
	require.NoError(t, err, "Login should succeed")
	require.NotNil(t, session, "Session should not be nil")
	require.NotEmpty(t, session.AccessToken(), "Access token should not be empty")
	require.NotEmpty(t, session.RefreshToken(), "Refresh token should not be empty")

	return session
}

// assertTokenResponse verifies a token response has all required fields.
func assertTokenResponse(t *testing.T, resp *accountsdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.NotEmpty(t, resp.RefreshToken, "Refresh token should not be empty")
	require.Equal(t, "bearer", resp.TokenType, "Token type should be bearer")
}

// assertAPIError unwraps err into a typed APIError and checks status and code.
func assertAPIError(t *testing.T, err error, wantStatus int, wantCode string) *accountsdk.APIError {
	t.Helper()
	require.Error(t, err)

	var apiErr *accountsdk.APIError
	require.ErrorAs(t, err, &apiErr, "error should carry an APIError, got: %v", err)
	require.Equal(t, wantStatus, apiErr.StatusCode)
	require.Equal(t, wantCode, apiErr.Code)

	return apiErr
}

// assertUnauthorized checks that an error reads as a credential rejection,
// whether it surfaced as a typed APIError or as a refresh failure inside
// the SDK.
func assertUnauthorized(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)
	msg := err.Error()
	rejected := strings.Contains(msg, "invalid_token") ||
		strings.Contains(msg, "invalid_credentials") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "no refresh token")
	require.True(t, rejected, "%s - error should indicate rejected credentials, got: %s", context, msg)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *accountsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
