package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/raf-alpha/api-go/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCoordsCommand(t *testing.T) {
	out, err := run(t, "coords", "https://www.google.com/maps/place/Palm/@24.7743,46.7386,15z")
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":24.7743,"longitude":46.7386}`, out)

	_, err = run(t, "coords", "https://maps.app.goo.gl/abc")
	assert.Error(t, err)
}

func TestUsersListUsesStoredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stored" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []types.UserResponse{{ID: 2, Email: "sara@raf.sa", Role: types.RoleAdmin}},
		})
	}))
	t.Cleanup(srv.Close)

	tokenFile := filepath.Join(t.TempDir(), "token")
	_, err := run(t, "users", "list", "--server", srv.URL, "--token-file", tokenFile)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(tokenFile, []byte("stored\n"), 0o600))
	out, err := run(t, "users", "list", "--server", srv.URL, "--token-file", tokenFile)
	require.NoError(t, err)
	assert.Contains(t, out, `"email": "sara@raf.sa"`)
}

func TestUnitAddRejectsLocally(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "unit.json")
	require.NoError(t, os.WriteFile(data, []byte(`{"title":"أبراج","type":"Villa"}`), 0o600))

	_, err := run(t, "unit", "add", "--server", "http://127.0.0.1:1", "--token-file", filepath.Join(dir, "token"),
		"--category", "cat-1", "--data", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input:")
}

func TestRejectsUnknownLanguage(t *testing.T) {
	_, err := run(t, "users", "list", "--lang", "fr")
	assert.Error(t, err)
}
