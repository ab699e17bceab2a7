package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableRequiresKey(t *testing.T) {
	assert.False(t, New("", "gemini-1.5-pro-latest", "http://x").Available())
	assert.True(t, New("k", "gemini-1.5-pro-latest", "http://x").Available())
}

func makeDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sms.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE messages (id INTEGER PRIMARY KEY, address TEXT, body TEXT, date INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE contacts (id INTEGER PRIMARY KEY, name TEXT, number TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO messages (address, body, date) VALUES ('555', 'hi', 1700000000)`)
	require.NoError(t, err)
	return path
}

func TestSchemaSummaryListsTablesNotRows(t *testing.T) {
	schema, err := SchemaSummary(makeDB(t))
	require.NoError(t, err)
	assert.Contains(t, schema, "CREATE TABLE messages")
	assert.Contains(t, schema, "CREATE TABLE contacts")
	// Row data never leaves the workstation.
	assert.NotContains(t, schema, "555")
	assert.NotContains(t, schema, "hi")
}

func TestSchemaSummaryEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`PRAGMA user_version = 1`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = SchemaSummary(path)
	assert.Error(t, err)
}

func TestSuggestQueriesRoundTrip(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "SELECT address, body FROM messages ORDER BY date;"}}}},
			},
		})
	}))
	defer srv.Close()

	a := New("test-key", "gemini-1.5-pro-latest", srv.URL)
	out, err := a.SuggestQueries(context.Background(), makeDB(t))
	require.NoError(t, err)
	assert.Equal(t, "SELECT address, body FROM messages ORDER BY date;", out)
	assert.Contains(t, gotPath, "/gemini-1.5-pro-latest:generateContent?key=test-key")

	require.Len(t, gotBody.Contents, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "CREATE TABLE messages")
	assert.Contains(t, prompt, "forensic")
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "API key not valid"}})
	}))
	defer srv.Close()

	a := New("bad-key", "gemini-1.5-pro-latest", srv.URL)
	_, err := a.SuggestQueries(context.Background(), makeDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}
