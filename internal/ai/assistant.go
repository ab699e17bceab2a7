// Package ai implements the optional generative assistant that proposes
// SQL queries for SQLite databases extracted from mobile devices. The
// assistant only ever sees table schemas, never row data, so no evidence
// content leaves the workstation.
package ai

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Assistant is a client for a Gemini-style generateContent endpoint.
type Assistant struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New builds an assistant. An empty apiKey yields a client that reports
// itself unavailable; callers treat that as a normal, journaled skip.
func New(apiKey, model, endpoint string) *Assistant {
	return &Assistant{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Available reports whether the assistant can make requests.
func (a *Assistant) Available() bool {
	return a.apiKey != ""
}

// SuggestQueries extracts the schema of the database at dbPath and asks the
// model which queries a mobile forensic examiner should run against it.
func (a *Assistant) SuggestQueries(ctx context.Context, dbPath string) (string, error) {
	schema, err := SchemaSummary(dbPath)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"You are assisting a mobile forensic examiner. The following is the table schema of a SQLite database extracted from a mobile device:\n\n%s\n\nSuggest the SQL queries most likely to surface evidentially relevant data (communications, contacts, locations, timestamps). For each query, state in one line what it reveals.",
		schema)
	return a.complete(ctx, prompt)
}

// SchemaSummary opens the database read-only and returns one CREATE TABLE
// statement per table. Read-only mode keeps the evidence file untouched.
func SchemaSummary(dbPath string) (string, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name, sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var name string
		var ddl sql.NullString
		if err := rows.Scan(&name, &ddl); err != nil {
			return "", fmt.Errorf("scan schema row: %w", err)
		}
		if ddl.Valid {
			b.WriteString(ddl.String)
		} else {
			b.WriteString("-- table " + name)
		}
		b.WriteString(";\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("database %s contains no tables", dbPath)
	}
	return b.String(), nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("assistant is not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", a.endpoint, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read assistant response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse assistant response (HTTP %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("assistant error (HTTP %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant returned HTTP %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assistant returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
