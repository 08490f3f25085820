// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/danp-survey/auth"
	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/middleware"
	"github.com/danielhkuo/danp-survey/models"
)

type AdminHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	verifier auth.Verifier
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, v auth.Verifier) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, verifier: v}
}

// Login handles POST /api/admin/login
// The returned token is the admin secret itself
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !h.verifier.Verify(req.Password) {
		slog.Warn("admin login rejected", "ip", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid password")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Success: true,
		Token:   req.Password,
	})
}

// ListResponses handles GET /api/admin/responses
func (h *AdminHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	rows, err := queryResponses(r.Context(), h.db,
		`SELECT `+responseColumns+` FROM responses ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		slog.Error("failed to list responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]models.ResponseSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.Summary())
	}

	middleware.JSONResponse(w, http.StatusOK, models.DataResponse{
		Success: true,
		Data:    summaries,
	})
}

// GetResponse handles GET /api/admin/response/{surveyId}
func (h *AdminHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("surveyId")

	row := h.db.QueryRowContext(r.Context(),
		`SELECT `+responseColumns+` FROM responses WHERE survey_id = ?`, surveyID)
	resp, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to load response", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	detail, err := resp.Detail()
	if err != nil {
		slog.Error("stored response is corrupt", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DataResponse{
		Success: true,
		Data:    detail,
	})
}

// DeleteResponse handles DELETE /api/admin/response/{surveyId}
// Deleting an unknown id still succeeds
func (h *AdminHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	surveyID := r.PathValue("surveyId")

	result, err := h.db.ExecContext(r.Context(), `DELETE FROM responses WHERE survey_id = ?`, surveyID)
	if err != nil {
		slog.Error("failed to delete response", "survey_id", surveyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	deleted, _ := result.RowsAffected()
	slog.Info("response deleted", "survey_id", surveyID, "rows", deleted)

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
