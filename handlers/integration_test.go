// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/danp-survey/auth"
	"github.com/danielhkuo/danp-survey/models"
	"github.com/danielhkuo/danp-survey/testutil"
)

// TestFullSurveyWorkflow tests the complete end-to-end workflow:
// 1. Respondent saves progress twice
// 2. Respondent submits
// 3. Admin logs in
// 4. Admin lists and inspects the response
// 5. Admin exports and reads stats
// 6. Admin migrates to the mirror
// 7. Admin deletes the response
func TestFullSurveyWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	cfg.MirrorDSN = filepath.Join(t.TempDir(), "mirror.db")

	surveyHandler := NewSurveyHandler(db, cfg)
	adminHandler := NewAdminHandler(db, cfg, auth.NewSharedSecret(cfg.AdminSecret))
	exportHandler := NewExportHandler(db, cfg)
	statsHandler := NewStatsHandler(db, cfg)
	migrateHandler := NewMigrateHandler(db, cfg)

	// Step 1: Save twice
	payload := samplePayload("workflow")
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		surveyHandler.Save(w, testutil.MakeRequest("POST", "/api/survey/save", payload, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Step 1 - Save failed: %d - %s", w.Code, w.Body.String())
		}
	}

	// Step 2: Submit
	w := httptest.NewRecorder()
	surveyHandler.Submit(w, testutil.MakeRequest("POST", "/api/survey/submit", payload, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Submit failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 3: Login
	w = httptest.NewRecorder()
	adminHandler.Login(w, testutil.MakeRequest("POST", "/api/admin/login",
		models.LoginRequest{Password: cfg.AdminSecret}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Login failed: %d", w.Code)
	}
	var login models.LoginResponse
	json.NewDecoder(w.Body).Decode(&login)
	if login.Token == "" {
		t.Fatal("Step 3 - Missing token")
	}

	// Step 4: List and detail
	w = httptest.NewRecorder()
	adminHandler.ListResponses(w, testutil.MakeRequest("GET", "/api/admin/responses", nil, nil))
	if !strings.Contains(w.Body.String(), `"status":"completed"`) {
		t.Errorf("Step 4 - Listing should show the completed survey: %s", w.Body.String())
	}

	req := testutil.MakeRequest("GET", "/api/admin/response/workflow", nil, nil)
	req.SetPathValue("surveyId", "workflow")
	w = httptest.NewRecorder()
	adminHandler.GetResponse(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Detail failed: %d", w.Code)
	}

	// Step 5: Exports and stats
	w = httptest.NewRecorder()
	exportHandler.ExportDematelCSV(w, testutil.MakeRequest("GET", "/api/admin/export/dematel-csv", nil, nil))
	if !strings.Contains(w.Body.String(), "Dr. Lin,workflow,A1,A2,3") {
		t.Errorf("Step 5 - DEMATEL export missing row: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	exportHandler.ExportANPCSV(w, testutil.MakeRequest("GET", "/api/admin/export/anp-csv", nil, nil))
	if !strings.Contains(w.Body.String(), "Dr. Lin,workflow,Dimension,-,A,B,2") {
		t.Errorf("Step 5 - ANP export missing dimension row: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	statsHandler.Stats(w, testutil.MakeRequest("GET", "/api/admin/stats", nil, nil))
	if !strings.Contains(w.Body.String(), `"total":1,"completed":1,"inProgress":0`) {
		t.Errorf("Step 5 - Unexpected stats: %s", w.Body.String())
	}

	// Step 6: Migrate
	w = httptest.NewRecorder()
	migrateHandler.Migrate(w, testutil.MakeRequest("POST", "/api/admin/migrate", nil, nil))
	var migrated models.MigrateResponse
	json.NewDecoder(w.Body).Decode(&migrated)
	if migrated.Data.Inserted != 1 {
		t.Errorf("Step 6 - Expected 1 mirrored row, got %+v", migrated.Data)
	}

	// Step 7: Delete
	req = testutil.MakeRequest("DELETE", "/api/admin/response/workflow", nil, nil)
	req.SetPathValue("surveyId", "workflow")
	w = httptest.NewRecorder()
	adminHandler.DeleteResponse(w, req)
	if w.Code != http.StatusOK || testutil.CountResponses(t, db) != 0 {
		t.Errorf("Step 7 - Delete failed: %d", w.Code)
	}
}
