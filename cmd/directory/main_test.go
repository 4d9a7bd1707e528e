package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/modules/users"
	"github.com/rai/userdirectory/modules/users/infrastructure/persistence"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	seed, err := os.ReadFile(filepath.Join("..", "..", "db.json"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, seed, 0o644))

	repo, err := persistence.OpenJSONFile(path, nil)
	require.NoError(t, err)
	module, err := users.New(users.Config{Repository: repo, TxScope: repo})
	require.NoError(t, err)

	mux := http.NewServeMux()
	module.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(append([]string{"-base-url", srv.URL}, args...), &out)
	return out.String(), err
}

func TestList_FilterAndSort(t *testing.T) {
	srv := newBackend(t)

	out, err := runCLI(t, srv, "list", "-company", "Tech Corp", "-sort", "desc")
	require.NoError(t, err)

	assert.Contains(t, out, "Васильев Василий")
	assert.Contains(t, out, "Алексеев Алексей")
	assert.NotContains(t, out, "Борисов Борис")
	assert.Less(t, bytes.Index([]byte(out), []byte("Васильев")), bytes.Index([]byte(out), []byte("Алексеев")))
	assert.Contains(t, out, "Page 1 of 1 (2 of 5 users)")
	assert.Contains(t, out, "Companies: Tech Corp, Design Studio, Startup Inc, (no company)")
	assert.Contains(t, out, "Letters: А Б В Г Д")
}

func TestList_Pagination(t *testing.T) {
	srv := newBackend(t)

	out, err := runCLI(t, srv, "list", "-size", "2", "-page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Дмитриев Дмитрий")
	assert.Contains(t, out, "Page 3 of 3 (5 of 5 users)")

	out, err = runCLI(t, srv, "list", "-search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found.")
}

func TestList_InvalidFlags(t *testing.T) {
	srv := newBackend(t)

	_, err := runCLI(t, srv, "list", "-page", "0")
	assert.Error(t, err)

	_, err = runCLI(t, srv, "list", "-sort", "sideways")
	assert.Error(t, err)
}

func TestList_BackendDown(t *testing.T) {
	srv := newBackend(t)
	srv.Close()

	out, err := runCLI(t, srv, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "fetch failed")
}

func TestCreateUpdateDelete(t *testing.T) {
	srv := newBackend(t)

	out, err := runCLI(t, srv, "create",
		"-name", "Егоров Егор", "-email", "e.egorov@example.com", "-phone", "+7-555-000-1111")
	require.NoError(t, err)
	assert.Equal(t, "Created user 6\n", out)

	out, err = runCLI(t, srv, "update", "-id", "6", "-company", "Tech Corp")
	require.NoError(t, err)
	assert.Equal(t, "Updated user 6\n", out)

	out, err = runCLI(t, srv, "list", "-company", "Tech Corp")
	require.NoError(t, err)
	assert.Contains(t, out, "Егоров Егор")
	assert.Contains(t, out, "e.egorov@example.com")

	out, err = runCLI(t, srv, "delete", "-id", "6")
	require.NoError(t, err)
	assert.Equal(t, "Deleted user 6\n", out)

	out, err = runCLI(t, srv, "list", "-search", "Егоров")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found.")
}

func TestCreate_ValidationErrors(t *testing.T) {
	srv := newBackend(t)

	_, err := runCLI(t, srv, "create", "-name", "X", "-email", "not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email:")
	assert.Contains(t, err.Error(), "phone:")
	assert.NotContains(t, err.Error(), "name:")
}

func TestUpdate_UnknownUser(t *testing.T) {
	srv := newBackend(t)

	_, err := runCLI(t, srv, "update", "-id", "42", "-name", "Nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, run(nil, &out), errUsage)
	assert.ErrorIs(t, run([]string{"frobnicate"}, &out), errUsage)
}
