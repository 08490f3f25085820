// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the survey server.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SurveyHandler: Save and submit from the survey page
  - AdminHandler: Login, listing, detail and delete
  - ExportHandler: JSON and CSV downloads
  - StatsHandler: Counts and analytics
  - MigrateHandler: Copy into the mirror database

Handlers are created via constructor functions that accept *sql.DB and Config:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)

# Session Lifecycle

A session is keyed by the client-generated surveyId and moves from
in_progress to completed:

	POST /api/survey/save   → Save (insert, or overwrite the stored row)
	POST /api/survey/submit → Submit (status completed, endTime now)

Save never moves a completed row back to in_progress. Submit only updates
a row that already exists; an unknown surveyId is logged and still
answered with success.

# Exports

Only completed sessions are exported. CSV files start with a UTF-8 BOM
and use the long format built by package export:

	Respondent,SurveyID,From,To,Value
	Respondent,SurveyID,Type,Context,Left,Right,Value

# Analytics

All aggregates are SQL queries against the primary store. Durations are
computed with julianday(); rows whose timestamps SQLite cannot parse get
a null duration and count as zero in the average.
*/
package handlers
