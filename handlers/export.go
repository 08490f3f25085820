// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/export"
	"github.com/danielhkuo/danp-survey/middleware"
	"github.com/danielhkuo/danp-survey/models"
)

const (
	jsonExportName    = "fuzzy_danp_all_responses.json"
	dematelExportName = "dematel_all_responses.csv"
	anpExportName     = "anp_all_responses.csv"

	csvContentType = "text/csv; charset=utf-8"
)

type ExportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewExportHandler(db *sql.DB, cfg cliparse.Config) *ExportHandler {
	return &ExportHandler{db: db, cfg: cfg}
}

// ExportJSON handles GET /api/admin/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.completed(w, r)
	if !ok {
		return
	}

	out := make([]models.ExportedResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Export())
	}

	body, err := json.Marshal(out)
	if err != nil {
		slog.Error("failed to encode export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.attach(w, "application/json", jsonExportName, body, len(out))
}

// ExportDematelCSV handles GET /api/admin/export/dematel-csv
func (h *ExportHandler) ExportDematelCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.completed(w, r)
	if !ok {
		return
	}

	var csvRows []export.DematelRow
	for _, row := range rows {
		out, err := export.DematelRows(row.RespondentName, row.SurveyID, row.DematelData)
		if err != nil {
			slog.Error("failed to read dematel answers", "survey_id", row.SurveyID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		csvRows = append(csvRows, out...)
	}

	var buf bytes.Buffer
	if err := export.WriteDematelCSV(&buf, csvRows); err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.attach(w, csvContentType, dematelExportName, buf.Bytes(), len(rows))
}

// ExportANPCSV handles GET /api/admin/export/anp-csv
func (h *ExportHandler) ExportANPCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.completed(w, r)
	if !ok {
		return
	}

	var csvRows []export.ANPRow
	for _, row := range rows {
		out, err := export.ANPRows(row.RespondentName, row.SurveyID, row.AnpDimData, row.AnpCriteriaData)
		if err != nil {
			slog.Error("failed to read anp answers", "survey_id", row.SurveyID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		csvRows = append(csvRows, out...)
	}

	var buf bytes.Buffer
	if err := export.WriteANPCSV(&buf, csvRows); err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.attach(w, csvContentType, anpExportName, buf.Bytes(), len(rows))
}

func (h *ExportHandler) completed(w http.ResponseWriter, r *http.Request) ([]models.Response, bool) {
	rows, err := queryResponses(r.Context(), h.db,
		`SELECT `+responseColumns+` FROM responses WHERE status = ? ORDER BY id`, models.StatusCompleted)
	if err != nil {
		slog.Error("failed to load completed responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return rows, true
}

func (h *ExportHandler) attach(w http.ResponseWriter, contentType, filename string, body []byte, responses int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "file", filename, "error", err)
		return
	}

	slog.Info("export served",
		"file", filename,
		"responses", humanize.Comma(int64(responses)),
		"size", humanize.Bytes(uint64(len(body))),
	)
}
