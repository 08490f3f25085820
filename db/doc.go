// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the embedded SQLite store and creates its schema.

# Opening

Open creates the parent directory when missing and returns a *sql.DB
backed by modernc.org/sqlite (pure Go, no cgo):

	conn, err := db.Open("data/survey.db")

The pool is limited to one connection so writes are serialised the same
way SQLite serialises them on disk.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and indexes.

# Tables

A single table, responses, holds one row per survey session:

  - respondent columns (name, org, exp, age, gender)
  - session columns (device_type, start_time, end_time, status)
  - answer blobs (dematel_data, anp_dim_data, anp_criteria_data)
  - raw_json, the submitted object as received
  - created_at / updated_at as "YYYY-MM-DD HH:MM:SS" UTC text

survey_id is UNIQUE; status is limited to in_progress and completed.
*/
package db
