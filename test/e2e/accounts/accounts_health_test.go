package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
)

// TestLivezEndpoint verifies the liveness check endpoint works on a fresh
// container.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	require.NotEmpty(t, health.Uptime, "Liveness should report uptime")
	require.NotEmpty(t, health.Version, "Liveness should report a version")

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check endpoint reports the
// database dependency.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	require.NotNil(t, health.Checks, "Readiness should report dependency checks")
	require.Equal(t, "ok", health.Checks.Database)

	t.Logf("Readyz endpoint is healthy, database check passed")
}
