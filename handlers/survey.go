// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/middleware"
	"github.com/danielhkuo/danp-survey/models"
)

type SurveyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg}
}

// Save handles POST /api/survey/save
// Inserts a new session or overwrites the stored one for the same surveyId
func (h *SurveyHandler) Save(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	rec := models.NewRecord(payload)
	if err := upsertSurvey(r.Context(), h.db, rec, time.Now()); err != nil {
		slog.Error("failed to save survey", "survey_id", rec.SurveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("survey saved", "survey_id", rec.SurveyID, "status", rec.Status)

	middleware.JSONResponse(w, http.StatusOK, models.SaveResponse{
		Success:  true,
		SurveyID: rec.SurveyID,
	})
}

// Submit handles POST /api/survey/submit
// Marks the session completed. Only existing rows are updated: submitting
// an id that was never saved changes nothing and still reports success.
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := payload.MarkCompleted(time.Now()); err != nil {
		slog.Error("failed to mark survey completed", "survey_id", payload.SurveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := models.NewRecord(payload)
	updated, err := updateSurvey(r.Context(), h.db, rec, time.Now())
	if err != nil {
		slog.Error("failed to submit survey", "survey_id", rec.SurveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if updated == 0 {
		slog.Warn("submit matched no saved survey", "survey_id", rec.SurveyID)
	} else {
		slog.Info("survey submitted", "survey_id", rec.SurveyID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Survey submitted successfully",
	})
}

func (h *SurveyHandler) decode(w http.ResponseWriter, r *http.Request) (models.SurveyPayload, bool) {
	body, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return models.SurveyPayload{}, false
	}

	payload, err := models.DecodeSurvey(body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return models.SurveyPayload{}, false
	}

	if payload.SurveyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "surveyId is required")
		return models.SurveyPayload{}, false
	}

	return payload, true
}

// upsertSurvey writes rec, keeping created_at of an existing row.
// A completed row stays completed.
func upsertSurvey(ctx context.Context, db *sql.DB, rec models.Record, now time.Time) error {
	ts := timestamp(now)
	_, err := db.ExecContext(ctx, `
		INSERT INTO responses (
			survey_id, respondent_name, respondent_org, respondent_exp,
			respondent_age, respondent_gender, device_type, start_time,
			end_time, status, dematel_data, anp_dim_data, anp_criteria_data,
			raw_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (survey_id) DO UPDATE SET
			respondent_name = excluded.respondent_name,
			respondent_org = excluded.respondent_org,
			respondent_exp = excluded.respondent_exp,
			respondent_age = excluded.respondent_age,
			respondent_gender = excluded.respondent_gender,
			device_type = excluded.device_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status = CASE WHEN responses.status = 'completed' THEN 'completed' ELSE excluded.status END,
			dematel_data = excluded.dematel_data,
			anp_dim_data = excluded.anp_dim_data,
			anp_criteria_data = excluded.anp_criteria_data,
			raw_json = excluded.raw_json,
			updated_at = excluded.updated_at
	`,
		rec.SurveyID, rec.RespondentName, rec.RespondentOrg, rec.RespondentExp,
		rec.RespondentAge, rec.RespondentGender, rec.DeviceType, rec.StartTime,
		rec.EndTime, rec.Status, rec.DematelData, rec.AnpDimData, rec.AnpCriteriaData,
		rec.RawJSON, ts, ts,
	)
	return err
}

// updateSurvey overwrites an existing row and reports how many matched
func updateSurvey(ctx context.Context, db *sql.DB, rec models.Record, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE responses SET
			respondent_name = ?,
			respondent_org = ?,
			respondent_exp = ?,
			respondent_age = ?,
			respondent_gender = ?,
			device_type = ?,
			start_time = ?,
			end_time = ?,
			status = ?,
			dematel_data = ?,
			anp_dim_data = ?,
			anp_criteria_data = ?,
			raw_json = ?,
			updated_at = ?
		WHERE survey_id = ?
	`,
		rec.RespondentName, rec.RespondentOrg, rec.RespondentExp,
		rec.RespondentAge, rec.RespondentGender, rec.DeviceType, rec.StartTime,
		rec.EndTime, rec.Status, rec.DematelData, rec.AnpDimData, rec.AnpCriteriaData,
		rec.RawJSON, timestamp(now), rec.SurveyID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
