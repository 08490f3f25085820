// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the DANP expert survey server.

The server collects DEMATEL and ANP pairwise-comparison questionnaires,
stores each session as one row in a local SQLite database, and gives
administrators listings, aggregate analytics, CSV/JSON exports and a
one-shot copy of every response into a secondary database.

# Starting the Server

The admin secret is the only required setting:

	ADMIN_SECRET=change-me go run .

Or with flags:

	go run . -p 3000 -d data/survey.db -admin-secret change-me

A .env file in the working directory is read first; real environment
variables take precedence over it.

# Configuration

Required settings:

  - ADMIN_SECRET (-admin-secret): Password for the admin UI and bearer token

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_PATH (-d): SQLite file (default: data/survey.db)
  - STATIC_DIR (-static): Survey and admin pages (default: public)
  - MIRROR_DRIVER (-mirror-driver): mysql, postgres or sqlite (default: mysql)
  - MIRROR_DSN (-mirror-dsn): Mirror connection string
  - MIRROR_HOST, MIRROR_PORT, MIRROR_USER, MIRROR_PASSWORD, MIRROR_DATABASE:
    MySQL mirror parts, used when MIRROR_DSN is empty
  - MIRROR_BATCH_SIZE: Rows per mirror insert (default: 100)
  - LOG_LEVEL: debug, info, warn or error (default: info)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (survey, admin, export, stats, migrate)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request ids, logging, admin guard, JSON helpers
  - models: Request/response types and the stored row
  - auth: Admin secret verification
  - export: DEMATEL and ANP CSV flattening
  - mirror: Copy into MySQL, PostgreSQL or SQLite
  - db: SQLite connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
