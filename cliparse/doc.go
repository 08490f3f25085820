// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabasePath: SQLite file (default: data/survey.db)
  - StaticDir: Survey and admin pages (default: public)
  - AdminSecret: Shared admin secret (required)
  - MirrorDriver: mysql, postgres or sqlite (default: mysql)
  - MirrorDSN: Secondary store connection string (optional)
  - MirrorBatchSize: Rows per insert during migration (default: 100)

# CLI Flags

	-p              Server port
	-d              SQLite database file
	-static         Static page directory
	-admin-secret   Admin secret
	-mirror-driver  Mirror driver
	-mirror-dsn     Mirror connection string

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_PATH  → -d
	STATIC_DIR     → -static
	ADMIN_SECRET   → -admin-secret
	MIRROR_DRIVER  → -mirror-driver
	MIRROR_DSN     → -mirror-dsn

For MySQL the DSN can also be assembled from MIRROR_HOST, MIRROR_PORT,
MIRROR_USER, MIRROR_PASSWORD and MIRROR_DATABASE.

A .env file in the working directory is loaded before the environment is
read. It never overrides variables that are already set.

CLI flags take precedence over environment variables.
*/
package cliparse
