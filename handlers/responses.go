// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielhkuo/danp-survey/models"
)

const responseColumns = `
	id, survey_id, respondent_name, respondent_org, respondent_exp,
	respondent_age, respondent_gender, device_type, start_time, end_time,
	status, dematel_data, anp_dim_data, anp_criteria_data, raw_json,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResponse(s rowScanner) (models.Response, error) {
	var r models.Response
	err := s.Scan(
		&r.ID, &r.SurveyID, &r.RespondentName, &r.RespondentOrg, &r.RespondentExp,
		&r.RespondentAge, &r.RespondentGender, &r.DeviceType, &r.StartTime, &r.EndTime,
		&r.Status, &r.DematelData, &r.AnpDimData, &r.AnpCriteriaData, &r.RawJSON,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// queryResponses runs a SELECT over responseColumns and scans every row
func queryResponses(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]models.Response, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func timestamp(t time.Time) string {
	return t.UTC().Format(models.TimestampLayout)
}
