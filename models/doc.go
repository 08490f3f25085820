// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - SurveyPayload: surveyId, respondent, session fields, answer sets
  - LoginRequest: password

DecodeSurvey parses a body into a SurveyPayload and keeps the compacted
original object in Raw:

	p, err := models.DecodeSurvey(body)
	if err := p.MarkCompleted(time.Now()); err != nil { ... }

# Stored Record

NewRecord derives every column of a write (respondent fields, status,
answer blobs, raw_json) from one payload, so the normalized columns and
the blobs always describe the same submission. Response wraps a Record
with its id and timestamps and offers read views:

  - Summary: admin listing row
  - Detail: full row with JSON columns embedded
  - Export: nested submission shape for the JSON export

# Response Types

  - SaveResponse, MessageResponse, LoginResponse, SuccessResponse
  - DataResponse: success + data envelope
  - MigrateResponse: success, message, MigrationResult
  - ErrorResponse: success=false, error

# Constants

	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
*/
package models
