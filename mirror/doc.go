// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mirror copies survey responses into a secondary relational store.

# Drivers

	mysql     github.com/go-sql-driver/mysql   INSERT IGNORE
	postgres  github.com/lib/pq                ON CONFLICT (survey_id) DO NOTHING
	sqlite    modernc.org/sqlite               INSERT OR IGNORE

# Usage

	m, err := mirror.Connect(ctx, cfg.MirrorDriver, cfg.MirrorDSN, cfg.MirrorBatchSize)
	if err != nil {
		return err // connection-level failure aborts the migration
	}
	defer m.Close()

	result, err := m.Copy(ctx, rows)

Connect pings the mirror and creates the responses table when missing.

# Copy Semantics

Rows go out in multi-row inserts of up to batchSize rows. Survey ids the
mirror already holds are ignored and counted as skipped, so running Copy
twice inserts nothing the second time. When a batch fails for any reason
other than a lost connection, its rows are retried one at a time and the
rows that still fail are counted as skipped. There is no transaction
across batches.
*/
package mirror
