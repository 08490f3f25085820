// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/danp-survey/models"
	"github.com/danielhkuo/danp-survey/testutil"
)

func TestMigrate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.MirrorDSN = filepath.Join(t.TempDir(), "mirror.db")
	cfg.MirrorBatchSize = 2
	handler := NewMigrateHandler(db, cfg)

	for _, id := range []string{"m-1", "m-2", "m-3"} {
		testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: id, Dematel: `{"A1":{"A2":2}}`})
	}

	migrate := func() models.MigrateResponse {
		t.Helper()
		w := httptest.NewRecorder()
		handler.Migrate(w, testutil.MakeRequest("POST", "/api/admin/migrate-to-mysql", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.MigrateResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	first := migrate()
	if !first.Success || first.Data != (models.MigrationResult{Total: 3, Inserted: 3, Skipped: 0}) {
		t.Errorf("unexpected first migration %+v", first)
	}

	second := migrate()
	if second.Data != (models.MigrationResult{Total: 3, Inserted: 0, Skipped: 3}) {
		t.Errorf("second migration must insert nothing, got %+v", second.Data)
	}

	mirrorDB, err := sql.Open("sqlite", cfg.MirrorDSN)
	if err != nil {
		t.Fatal(err)
	}
	defer mirrorDB.Close()

	var dematel string
	if err := mirrorDB.QueryRow(`SELECT dematel_data FROM responses WHERE survey_id = 'm-2'`).Scan(&dematel); err != nil {
		t.Fatal(err)
	}
	if dematel != `{"A1":{"A2":2}}` {
		t.Errorf("unexpected mirrored dematel_data %s", dematel)
	}
}

func TestMigrateFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tests := []struct {
		name   string
		driver string
		dsn    string
	}{
		{"not configured", "mysql", ""},
		{"unknown driver", "oracle", "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.GetTestConfig()
			cfg.MirrorDriver = tt.driver
			cfg.MirrorDSN = tt.dsn
			handler := NewMigrateHandler(db, cfg)

			w := httptest.NewRecorder()
			handler.Migrate(w, testutil.MakeRequest("POST", "/api/admin/migrate", nil, nil))
			testutil.AssertStatus(t, w, http.StatusInternalServerError)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Success || !strings.HasPrefix(resp.Error, "migration failed: ") {
				t.Errorf("unexpected error body %+v", resp)
			}
		})
	}
}
