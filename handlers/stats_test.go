// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/danp-survey/models"
	"github.com/danielhkuo/danp-survey/testutil"
)

func TestStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewStatsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "a", Status: models.StatusCompleted})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "b", Status: models.StatusCompleted})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "c"})

	w := httptest.NewRecorder()
	handler.Stats(w, testutil.MakeRequest("GET", "/api/admin/stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Stats `json:"data"`
	}
	testutil.AssertJSON(t, w, &resp)

	if resp.Data != (models.Stats{Total: 3, Completed: 2, InProgress: 1}) {
		t.Errorf("unexpected stats %+v", resp.Data)
	}
}

func TestStatsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	stats, err := loadStats(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	if stats != (models.Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestAnalytics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewStatsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestResponse(t, db, testutil.TestResponse{
		SurveyID:   "timed",
		Org:        "NTU",
		Exp:        "10-20",
		Age:        "40-49",
		DeviceType: "desktop",
		Status:     models.StatusCompleted,
		StartTime:  "2026-10-19T08:00:00.000Z",
		EndTime:    "2026-10-19T08:30:00.000Z",
	})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{
		SurveyID:   "untimed",
		Org:        "NTU",
		DeviceType: "mobile",
		Status:     models.StatusCompleted,
		StartTime:  "sometime",
		EndTime:    "2026-10-19T08:30:00.000Z",
	})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{
		SurveyID:   "open",
		Org:        "NCKU",
		DeviceType: "desktop",
	})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{
		SurveyID:  "ancient",
		CreatedAt: "2020-01-01 00:00:00",
	})

	w := httptest.NewRecorder()
	handler.Analytics(w, testutil.MakeRequest("GET", "/api/admin/analytics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Success bool             `json:"success"`
		Data    models.Analytics `json:"data"`
	}
	testutil.AssertJSON(t, w, &resp)
	a := resp.Data

	if a.Summary.Total != 4 || a.Summary.Completed != 2 || a.Summary.InProgress != 2 {
		t.Errorf("unexpected summary %+v", a.Summary)
	}

	// the unparsable duration counts as zero: (30 + 0) / 2
	if a.Summary.AvgDuration != 15 {
		t.Errorf("expected avgDuration 15, got %v", a.Summary.AvgDuration)
	}

	if len(a.DailyStats) != 1 {
		t.Fatalf("rows older than the window must be excluded, got %+v", a.DailyStats)
	}
	if a.DailyStats[0].Count != 3 || a.DailyStats[0].CompletedCount != 2 {
		t.Errorf("unexpected daily stat %+v", a.DailyStats[0])
	}

	if len(a.TimeAnalysis) != 2 {
		t.Fatalf("expected 2 timed rows, got %d", len(a.TimeAnalysis))
	}
	var sawNull bool
	for _, d := range a.TimeAnalysis {
		if d.DurationMinutes == nil {
			sawNull = true
			continue
		}
		if math.Abs(*d.DurationMinutes-30) > 0.01 {
			t.Errorf("expected 30 minutes, got %v", *d.DurationMinutes)
		}
	}
	if !sawNull {
		t.Error("unparsable start time should yield a null duration")
	}

	if len(a.DeviceStats) != 2 || a.DeviceStats[0].DeviceType != "desktop" || a.DeviceStats[0].Count != 2 || a.DeviceStats[0].CompletedCount != 1 {
		t.Errorf("unexpected device stats %+v", a.DeviceStats)
	}
	if len(a.OrgStats) != 2 || a.OrgStats[0].RespondentOrg != "NTU" || a.OrgStats[0].Count != 2 {
		t.Errorf("unexpected org stats %+v", a.OrgStats)
	}
	if len(a.ExpStats) != 1 || a.ExpStats[0].RespondentExp != "10-20" {
		t.Errorf("unexpected exp stats %+v", a.ExpStats)
	}
	if len(a.AgeStats) != 1 || a.AgeStats[0].RespondentAge != "40-49" {
		t.Errorf("unexpected age stats %+v", a.AgeStats)
	}
}

func TestAnalyticsOrgLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewStatsHandler(db, testutil.GetTestConfig())

	for i := 0; i < topOrgLimit+5; i++ {
		testutil.InsertTestResponse(t, db, testutil.TestResponse{
			SurveyID: fmt.Sprintf("org-%02d", i),
			Org:      fmt.Sprintf("Org %02d", i),
		})
	}

	orgs, err := handler.orgStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orgs) != topOrgLimit {
		t.Errorf("expected %d organizations, got %d", topOrgLimit, len(orgs))
	}
}

func TestDailyStatsWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewStatsHandler(db, testutil.GetTestConfig())
	handler.now = func() time.Time { return time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC) }

	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "today", CreatedAt: "2026-10-19 01:00:00"})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "edge", CreatedAt: "2026-09-20 00:00:00", Status: models.StatusCompleted})
	testutil.InsertTestResponse(t, db, testutil.TestResponse{SurveyID: "outside", CreatedAt: "2026-09-19 23:59:59"})

	days, err := handler.dailyStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []models.DailyStat{
		{Date: "2026-10-19", Count: 1, CompletedCount: 0},
		{Date: "2026-09-20", Count: 1, CompletedCount: 1},
	}
	if len(days) != len(want) {
		t.Fatalf("expected %v, got %v", want, days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, days[i], want[i])
		}
	}
}

func TestAverageMinutes(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name  string
		stats []models.DurationStat
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []models.DurationStat{{DurationMinutes: f(12.3456)}}, 12.35},
		{"null counts as zero", []models.DurationStat{{DurationMinutes: f(10)}, {}}, 5},
		{"rounding", []models.DurationStat{{DurationMinutes: f(1)}, {DurationMinutes: f(1)}, {DurationMinutes: f(0)}}, 0.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := averageMinutes(tt.stats); got != tt.want {
				t.Errorf("averageMinutes() = %v, want %v", got, tt.want)
			}
		})
	}
}
