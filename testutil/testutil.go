// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/db"
	"github.com/danielhkuo/danp-survey/models"
)

// TestAdminSecret is the admin secret every test config uses
const TestAdminSecret = "test-admin-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "survey.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabasePath:    ":memory:",
		StaticDir:       "public",
		AdminSecret:     TestAdminSecret,
		MirrorDriver:    "sqlite",
		MirrorBatchSize: 100,
	}
}

// AdminHeaders returns the Authorization header for the test admin secret
func AdminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + TestAdminSecret}
}

// TestResponse describes a row for InsertTestResponse.
// Empty JSON fields fall back to the column defaults.
type TestResponse struct {
	SurveyID    string
	Name        string
	Org         string
	Exp         string
	Age         string
	DeviceType  string
	StartTime   string
	EndTime     string
	Status      string
	Dematel     string
	AnpDim      string
	AnpCriteria string
	CreatedAt   string
}

// InsertTestResponse writes a row directly, bypassing the handlers
func InsertTestResponse(t *testing.T, conn *sql.DB, r TestResponse) {
	t.Helper()

	if r.Status == "" {
		r.Status = models.StatusInProgress
	}
	if r.Dematel == "" {
		r.Dematel = "{}"
	}
	if r.AnpDim == "" {
		r.AnpDim = "[]"
	}
	if r.AnpCriteria == "" {
		r.AnpCriteria = "{}"
	}

	_, err := conn.Exec(`
		INSERT INTO responses (
			survey_id, respondent_name, respondent_org, respondent_exp, respondent_age,
			device_type, start_time, end_time, status,
			dematel_data, anp_dim_data, anp_criteria_data, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(NULLIF(?, ''), CURRENT_TIMESTAMP), CURRENT_TIMESTAMP)
	`, r.SurveyID, r.Name, r.Org, r.Exp, r.Age,
		r.DeviceType, r.StartTime, r.EndTime, r.Status,
		r.Dematel, r.AnpDim, r.AnpCriteria, r.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to insert test response: %v", err)
	}
}

// CountResponses returns the number of stored rows
func CountResponses(t *testing.T, conn *sql.DB) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		case []byte:
			raw = b
		default:
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
