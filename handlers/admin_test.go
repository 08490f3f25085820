// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/danp-survey/auth"
	"github.com/danielhkuo/danp-survey/models"
	"github.com/danielhkuo/danp-survey/testutil"
)

func newTestAdminHandler(t *testing.T) *AdminHandler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return NewAdminHandler(db, cfg, auth.NewSharedSecret(cfg.AdminSecret))
}

func TestLogin(t *testing.T) {
	handler := newTestAdminHandler(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"correct password", models.LoginRequest{Password: testutil.TestAdminSecret}, http.StatusOK},
		{"wrong password", models.LoginRequest{Password: "guess"}, http.StatusUnauthorized},
		{"empty password", models.LoginRequest{}, http.StatusUnauthorized},
		{"invalid json", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/api/admin/login", tt.body, nil))

			testutil.AssertStatus(t, w, tt.wantStatus)

			switch tt.wantStatus {
			case http.StatusOK:
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)
				if !resp.Success || resp.Token != testutil.TestAdminSecret {
					t.Errorf("unexpected login response %+v", resp)
				}
			case http.StatusUnauthorized:
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Error != "invalid password" {
					t.Errorf("unexpected error %q", resp.Error)
				}
			}
		})
	}
}

func TestListResponses(t *testing.T) {
	handler := newTestAdminHandler(t)

	w := httptest.NewRecorder()
	handler.ListResponses(w, testutil.MakeRequest("GET", "/api/admin/responses", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "{\"success\":true,\"data\":[]}\n" {
		t.Errorf("empty listing should be an empty array, got %s", body)
	}

	testutil.InsertTestResponse(t, handler.db, testutil.TestResponse{SurveyID: "old", Name: "A", Dematel: `{"A1":{"A2":1}}`})
	testutil.InsertTestResponse(t, handler.db, testutil.TestResponse{SurveyID: "new", Name: "B", Status: models.StatusCompleted})
	if _, err := handler.db.Exec(`UPDATE responses SET updated_at = '2026-01-01 00:00:00' WHERE survey_id = 'old'`); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	handler.ListResponses(w, testutil.MakeRequest("GET", "/api/admin/responses", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Data))
	}
	if resp.Data[0]["survey_id"] != "new" || resp.Data[1]["survey_id"] != "old" {
		t.Errorf("expected most recently updated first, got %v, %v", resp.Data[0]["survey_id"], resp.Data[1]["survey_id"])
	}
	if _, ok := resp.Data[0]["dematel_data"]; ok {
		t.Error("listing must not include answer blobs")
	}
}

func TestGetResponse(t *testing.T) {
	handler := newTestAdminHandler(t)

	testutil.InsertTestResponse(t, handler.db, testutil.TestResponse{
		SurveyID: "detail",
		Name:     "Expert",
		Dematel:  `{"A1":{"A2":4}}`,
		AnpDim:   `[1,2,3,4,5,6]`,
	})

	t.Run("found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/admin/response/detail", nil, nil)
		req.SetPathValue("surveyId", "detail")
		w := httptest.NewRecorder()

		handler.GetResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				SurveyID    string                    `json:"survey_id"`
				DematelData map[string]map[string]int `json:"dematel_data"`
				AnpDimData  []int                     `json:"anp_dim_data"`
				RawJSON     json.RawMessage           `json:"raw_json"`
			} `json:"data"`
		}
		testutil.AssertJSON(t, w, &resp)

		if resp.Data.SurveyID != "detail" {
			t.Errorf("unexpected survey id %s", resp.Data.SurveyID)
		}
		if resp.Data.DematelData["A1"]["A2"] != 4 {
			t.Errorf("dematel_data must be embedded as JSON, got %+v", resp.Data.DematelData)
		}
		if len(resp.Data.AnpDimData) != 6 {
			t.Errorf("anp_dim_data must be embedded as JSON, got %+v", resp.Data.AnpDimData)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/admin/response/missing", nil, nil)
		req.SetPathValue("surveyId", "missing")
		w := httptest.NewRecorder()

		handler.GetResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != "survey not found" {
			t.Errorf("unexpected error %q", resp.Error)
		}
	})

	t.Run("corrupt blob", func(t *testing.T) {
		if _, err := handler.db.Exec(`UPDATE responses SET dematel_data = '{broken' WHERE survey_id = 'detail'`); err != nil {
			t.Fatal(err)
		}
		req := testutil.MakeRequest("GET", "/api/admin/response/detail", nil, nil)
		req.SetPathValue("surveyId", "detail")
		w := httptest.NewRecorder()

		handler.GetResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusInternalServerError)
	})
}

func TestDeleteResponse(t *testing.T) {
	handler := newTestAdminHandler(t)

	testutil.InsertTestResponse(t, handler.db, testutil.TestResponse{SurveyID: "gone"})
	testutil.InsertTestResponse(t, handler.db, testutil.TestResponse{SurveyID: "kept"})

	for _, id := range []string{"gone", "never-existed"} {
		req := testutil.MakeRequest("DELETE", "/api/admin/response/"+id, nil, nil)
		req.SetPathValue("surveyId", id)
		w := httptest.NewRecorder()

		handler.DeleteResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.SuccessResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Success {
			t.Errorf("delete %s should report success", id)
		}
	}

	if n := testutil.CountResponses(t, handler.db); n != 1 {
		t.Errorf("expected 1 remaining row, got %d", n)
	}
}
