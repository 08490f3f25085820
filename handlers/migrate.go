// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/middleware"
	"github.com/danielhkuo/danp-survey/mirror"
	"github.com/danielhkuo/danp-survey/models"
)

type MigrateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMigrateHandler(db *sql.DB, cfg cliparse.Config) *MigrateHandler {
	return &MigrateHandler{db: db, cfg: cfg}
}

// Migrate handles POST /api/admin/migrate-to-mysql and POST /api/admin/migrate
// Copies every stored response into the configured mirror database
func (h *MigrateHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, err := mirror.Connect(ctx, h.cfg.MirrorDriver, h.cfg.MirrorDSN, h.cfg.MirrorBatchSize)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer m.Close()

	rows, err := queryResponses(ctx, h.db, `SELECT `+responseColumns+` FROM responses ORDER BY id`)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := m.Copy(ctx, rows)
	if err != nil {
		h.fail(w, err)
		return
	}

	slog.Info("migration complete",
		"driver", h.cfg.MirrorDriver,
		"total", result.Total,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
	)

	middleware.JSONResponse(w, http.StatusOK, models.MigrateResponse{
		Success: true,
		Message: "Migration completed",
		Data:    result,
	})
}

func (h *MigrateHandler) fail(w http.ResponseWriter, err error) {
	slog.Error("migration failed", "driver", h.cfg.MirrorDriver, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "migration failed: "+err.Error())
}
