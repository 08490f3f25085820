// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/middleware"
	"github.com/danielhkuo/danp-survey/models"
)

const (
	dailyWindowDays = 30
	topOrgLimit     = 20
)

type StatsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{db: db, cfg: cfg, now: time.Now}
}

// Stats handles GET /api/admin/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := loadStats(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to load stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DataResponse{
		Success: true,
		Data:    stats,
	})
}

// Analytics handles GET /api/admin/analytics
func (h *StatsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.analytics(r.Context())
	if err != nil {
		slog.Error("failed to load analytics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DataResponse{
		Success: true,
		Data:    analytics,
	})
}

func (h *StatsHandler) analytics(ctx context.Context) (models.Analytics, error) {
	var a models.Analytics

	stats, err := loadStats(ctx, h.db)
	if err != nil {
		return a, err
	}

	if a.DailyStats, err = h.dailyStats(ctx); err != nil {
		return a, err
	}
	if a.TimeAnalysis, err = h.timeAnalysis(ctx); err != nil {
		return a, err
	}
	if a.DeviceStats, err = h.deviceStats(ctx); err != nil {
		return a, err
	}
	if a.OrgStats, err = h.orgStats(ctx); err != nil {
		return a, err
	}
	if a.ExpStats, err = h.expStats(ctx); err != nil {
		return a, err
	}
	if a.AgeStats, err = h.ageStats(ctx); err != nil {
		return a, err
	}

	a.Summary = models.AnalyticsSummary{
		Stats:       stats,
		AvgDuration: averageMinutes(a.TimeAnalysis),
	}

	return a, nil
}

func loadStats(ctx context.Context, db *sql.DB) (models.Stats, error) {
	var s models.Stats
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0)
		FROM responses
	`).Scan(&s.Total, &s.Completed, &s.InProgress)
	return s, err
}

// dailyStats counts sessions per creation date, today included, newest first
func (h *StatsHandler) dailyStats(ctx context.Context) ([]models.DailyStat, error) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	cutoff := timestamp(today.AddDate(0, 0, -(dailyWindowDays - 1)))

	rows, err := h.db.QueryContext(ctx, `
		SELECT
			DATE(created_at) AS day,
			COUNT(*),
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)
		FROM responses
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DailyStat{}
	for rows.Next() {
		var d models.DailyStat
		if err := rows.Scan(&d.Date, &d.Count, &d.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (h *StatsHandler) timeAnalysis(ctx context.Context) ([]models.DurationStat, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT
			start_time,
			end_time,
			(julianday(end_time) - julianday(start_time)) * 24 * 60
		FROM responses
		WHERE status = 'completed' AND start_time != '' AND end_time != ''
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DurationStat{}
	for rows.Next() {
		var d models.DurationStat
		var minutes sql.NullFloat64
		if err := rows.Scan(&d.StartTime, &d.EndTime, &minutes); err != nil {
			return nil, err
		}
		if minutes.Valid {
			v := minutes.Float64
			d.DurationMinutes = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (h *StatsHandler) deviceStats(ctx context.Context) ([]models.DeviceStat, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT
			device_type,
			COUNT(*) AS n,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)
		FROM responses
		WHERE device_type != ''
		GROUP BY device_type
		ORDER BY n DESC, device_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DeviceStat{}
	for rows.Next() {
		var d models.DeviceStat
		if err := rows.Scan(&d.DeviceType, &d.Count, &d.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (h *StatsHandler) orgStats(ctx context.Context) ([]models.OrgStat, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT
			respondent_org,
			COUNT(*) AS n,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)
		FROM responses
		WHERE respondent_org != ''
		GROUP BY respondent_org
		ORDER BY n DESC, respondent_org
		LIMIT ?
	`, topOrgLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OrgStat{}
	for rows.Next() {
		var o models.OrgStat
		if err := rows.Scan(&o.RespondentOrg, &o.Count, &o.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (h *StatsHandler) expStats(ctx context.Context) ([]models.ExpStat, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT respondent_exp, COUNT(*) AS n
		FROM responses
		WHERE respondent_exp != ''
		GROUP BY respondent_exp
		ORDER BY n DESC, respondent_exp
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ExpStat{}
	for rows.Next() {
		var e models.ExpStat
		if err := rows.Scan(&e.RespondentExp, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (h *StatsHandler) ageStats(ctx context.Context) ([]models.AgeStat, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT respondent_age, COUNT(*) AS n
		FROM responses
		WHERE respondent_age != ''
		GROUP BY respondent_age
		ORDER BY n DESC, respondent_age
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AgeStat{}
	for rows.Next() {
		var a models.AgeStat
		if err := rows.Scan(&a.RespondentAge, &a.Count); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// averageMinutes counts unparsable durations as zero, rounded to 2 decimals
func averageMinutes(stats []models.DurationStat) float64 {
	if len(stats) == 0 {
		return 0
	}
	var sum float64
	for _, s := range stats {
		if s.DurationMinutes != nil {
			sum += *s.DurationMinutes
		}
	}
	return math.Round(sum/float64(len(stats))*100) / 100
}
