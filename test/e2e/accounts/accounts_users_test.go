package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barkeep/pkg/accountsdk"
)

// TestUserDirectory verifies listing, pagination and cross-profile reads.
func TestUserDirectory(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)

	alice := registerUser(t, client, "alice", "alice@example.com")
	bob := registerUser(t, client, "bob", "bob@example.com")
	carol := registerUser(t, client, "carol", "carol@example.com")

	session := performLogin(t, client, "alice@example.com", testPassword)

	// Full directory, creation order
	users, err := session.ListUsers(t.Context(), 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, alice.ID, users[0].ID)
	require.Equal(t, bob.ID, users[1].ID)
	require.Equal(t, carol.ID, users[2].ID)

	// Pagination
	page, err := session.ListUsers(t.Context(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)

	rest, err := session.ListUsers(t.Context(), 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, carol.ID, rest[0].ID)

	// Any authenticated user can read any profile
	profile, err := session.GetUser(t.Context(), bob.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", profile.Username)

	// Unknown IDs are a 404
	_, err = session.GetUser(t.Context(), "01J00000000000000000000000")
	apiErr := assertAPIError(t, err, 404, "not_found")
	require.Equal(t, "User not found", apiErr.Description)

	t.Logf("Directory listing and cross-profile reads verified")
}

// TestUpdateOwnProfile verifies profile fields can be changed and the new
// email becomes the login identity.
func TestUpdateOwnProfile(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)
	user := registerUser(t, client, "heidi", "heidi@example.com")
	session := performLogin(t, client, "heidi@example.com", testPassword)

	newEmail := "heidi.klum@example.com"
	firstName := "Heidi"

	updated, err := session.UpdateUser(t.Context(), user.ID, accountsdk.UpdateUserRequest{
		Email:     &newEmail,
		FirstName: &firstName,
	})
	require.NoError(t, err)
	require.Equal(t, newEmail, updated.Email)
	require.NotNil(t, updated.FirstName)
	require.Equal(t, "Heidi", *updated.FirstName)
	require.Equal(t, "heidi", updated.Username, "Username is immutable")

	// The new email is now the login identity
	performLogin(t, client, newEmail, testPassword)

	t.Logf("Profile update verified, new email logs in")
}

// TestChangePassword verifies a password change invalidates the old
// password immediately.
func TestChangePassword(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)
	user := registerUser(t, client, "ivan", "ivan@example.com")
	session := performLogin(t, client, "ivan@example.com", testPassword)

	newPassword := "EvenBetter456!"
	_, err := session.UpdateUser(t.Context(), user.ID, accountsdk.UpdateUserRequest{
		Password: &newPassword,
	})
	require.NoError(t, err)

	// Old password no longer works
	_, err = client.Login(t.Context(), "ivan@example.com", testPassword)
	assertAPIError(t, err, 401, "invalid_credentials")

	// The new one does
	performLogin(t, client, "ivan@example.com", newPassword)

	t.Logf("Password change verified")
}

// TestUpdateOthersProfileForbidden verifies ownership is enforced on update.
func TestUpdateOthersProfileForbidden(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)
	registerUser(t, client, "judy", "judy@example.com")
	mallory := registerUser(t, client, "mallory", "mallory@example.com")

	session := performLogin(t, client, "judy@example.com", testPassword)

	name := "Not Yours"
	_, err := session.UpdateUser(t.Context(), mallory.ID, accountsdk.UpdateUserRequest{
		FirstName: &name,
	})
	apiErr := assertAPIError(t, err, 403, "forbidden")
	require.Equal(t, "You can only update your own profile", apiErr.Description)

	t.Logf("Cross-account update correctly forbidden")
}

// TestDeleteAccount covers the whole deletion story: ownership, the 204,
// dead tokens, dead credentials and the missing profile.
func TestDeleteAccount(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewClient(baseURL)
	nina := registerUser(t, client, "nina", "nina@example.com")
	oscar := registerUser(t, client, "oscar", "oscar@example.com")

	ninaSession := performLogin(t, client, "nina@example.com", testPassword)

	// Deleting somebody else is forbidden
	err := ninaSession.DeleteUser(t.Context(), oscar.ID)
	apiErr := assertAPIError(t, err, 403, "forbidden")
	require.Equal(t, "You can only delete your own profile", apiErr.Description)

	// Deleting yourself works
	err = ninaSession.DeleteUser(t.Context(), nina.ID)
	require.NoError(t, err)

	// Already-issued tokens die on their next use
	_, err = ninaSession.Me(t.Context())
	assertUnauthorized(t, err, "Tokens of a deleted account should be rejected")

	// And the credentials are gone
	_, err = client.Login(t.Context(), "nina@example.com", testPassword)
	assertAPIError(t, err, 401, "invalid_credentials")

	// The profile is gone from the directory
	oscarSession := performLogin(t, client, "oscar@example.com", testPassword)
	_, err = oscarSession.GetUser(t.Context(), nina.ID)
	assertAPIError(t, err, 404, "not_found")

	t.Logf("Account deletion verified end to end")
}
