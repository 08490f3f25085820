// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mirror

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/danielhkuo/danp-survey/db"
	"github.com/danielhkuo/danp-survey/models"
)

var (
	ErrNotConfigured = errors.New("mirror database not configured")
	ErrUnknownDriver = errors.New("unknown mirror driver")
)

const (
	defaultBatchSize = 100
	// keeps one statement under every driver's bind-parameter limit
	maxBatchSize = 1000
)

// columns copied into the mirror, in insert order
var columns = []string{
	"survey_id", "respondent_name", "respondent_org", "respondent_exp",
	"respondent_age", "respondent_gender", "device_type", "start_time",
	"end_time", "status", "dematel_data", "anp_dim_data", "anp_criteria_data",
	"raw_json", "created_at", "updated_at",
}

// Dialect holds what differs between mirror databases
type Dialect struct {
	Driver string
	schema string
	// insert-or-ignore keyed on survey_id
	insertVerb   string
	insertSuffix string
	numbered     bool
}

func (d Dialect) placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// insertSQL builds a multi-row insert-or-ignore for rowCount rows
func (d Dialect) insertSQL(rowCount int) string {
	var b strings.Builder
	b.WriteString(d.insertVerb)
	b.WriteString(" responses (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	n := 1
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.placeholder(n))
			n++
		}
		b.WriteByte(')')
	}
	b.WriteString(d.insertSuffix)
	return b.String()
}

// DialectFor returns the dialect for a driver name
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "mysql":
		return Dialect{Driver: "mysql", schema: mysqlSchema, insertVerb: "INSERT IGNORE INTO"}, nil
	case "postgres":
		return Dialect{
			Driver:       "postgres",
			schema:       postgresSchema,
			insertVerb:   "INSERT INTO",
			insertSuffix: " ON CONFLICT (survey_id) DO NOTHING",
			numbered:     true,
		}, nil
	case "sqlite":
		return Dialect{Driver: "sqlite", schema: db.Schema, insertVerb: "INSERT OR IGNORE INTO"}, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

// Mirror is an open connection to the secondary store
type Mirror struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
}

// Connect opens and pings the mirror and creates its table if absent.
// The caller must Close it.
func Connect(ctx context.Context, driverName, dsn string, batchSize int) (*Mirror, error) {
	if dsn == "" {
		return nil, ErrNotConfigured
	}
	d, err := DialectFor(driverName)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	batchSize = min(batchSize, maxBatchSize)

	conn, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror: %w", err)
	}
	// Rows are copied sequentially
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to mirror: %w", err)
	}

	m := &Mirror{db: conn, dialect: d, batchSize: batchSize}
	if err := m.EnsureSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return m, nil
}

func (m *Mirror) Close() error { return m.db.Close() }

func (m *Mirror) Dialect() Dialect { return m.dialect }

// EnsureSchema creates the mirror table if it does not exist
func (m *Mirror) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, m.dialect.schema); err != nil {
		return fmt.Errorf("failed to create mirror schema: %w", err)
	}
	return nil
}

// Copy inserts rows in batches, ignoring survey ids the mirror already has.
// A failing batch is retried row by row; rows that still fail are counted
// as skipped. Only connection-level errors stop the copy.
func (m *Mirror) Copy(ctx context.Context, rows []models.Response) (models.MigrationResult, error) {
	res := models.MigrationResult{Total: len(rows)}

	for start := 0; start < len(rows); start += m.batchSize {
		end := min(start+m.batchSize, len(rows))
		batch := rows[start:end]

		n, err := m.insert(ctx, batch)
		if err == nil {
			res.Inserted += n
			res.Skipped += len(batch) - n
			continue
		}
		if isConnError(err) {
			return res, fmt.Errorf("mirror connection lost: %w", err)
		}

		slog.Warn("mirror batch failed, retrying row by row",
			"rows", len(batch), "offset", start, "error", err)

		for _, row := range batch {
			n, err := m.insert(ctx, []models.Response{row})
			if err != nil {
				if isConnError(err) {
					return res, fmt.Errorf("mirror connection lost: %w", err)
				}
				slog.Warn("mirror row skipped",
					"survey_id", row.SurveyID, "duplicate", isDuplicate(err), "error", err)
				res.Skipped++
				continue
			}
			res.Inserted += n
			res.Skipped += 1 - n
		}
	}

	slog.Info("mirror copy finished",
		"driver", m.dialect.Driver,
		"total", humanize.Comma(int64(res.Total)),
		"inserted", humanize.Comma(int64(res.Inserted)),
		"skipped", humanize.Comma(int64(res.Skipped)),
	)

	return res, nil
}

func (m *Mirror) insert(ctx context.Context, batch []models.Response) (int, error) {
	args := make([]interface{}, 0, len(batch)*len(columns))
	for _, r := range batch {
		args = append(args,
			r.SurveyID, r.RespondentName, r.RespondentOrg, r.RespondentExp,
			r.RespondentAge, r.RespondentGender, r.DeviceType, r.StartTime,
			r.EndTime, r.Status, r.DematelData, r.AnpDimData, r.AnpCriteriaData,
			r.RawJSON, r.CreatedAt, r.UpdatedAt,
		)
	}

	result, err := m.db.ExecContext(ctx, m.dialect.insertSQL(len(batch)), args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func isConnError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS responses (
    id INT AUTO_INCREMENT PRIMARY KEY,
    survey_id VARCHAR(255) UNIQUE NOT NULL,
    respondent_name VARCHAR(255),
    respondent_org VARCHAR(255),
    respondent_exp VARCHAR(255),
    respondent_age VARCHAR(255),
    respondent_gender VARCHAR(255),
    device_type VARCHAR(255),
    start_time VARCHAR(255),
    end_time VARCHAR(255),
    status VARCHAR(50) DEFAULT 'in_progress',
    dematel_data LONGTEXT,
    anp_dim_data LONGTEXT,
    anp_criteria_data LONGTEXT,
    raw_json LONGTEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS responses (
    id SERIAL PRIMARY KEY,
    survey_id VARCHAR(255) UNIQUE NOT NULL,
    respondent_name VARCHAR(255),
    respondent_org VARCHAR(255),
    respondent_exp VARCHAR(255),
    respondent_age VARCHAR(255),
    respondent_gender VARCHAR(255),
    device_type VARCHAR(255),
    start_time VARCHAR(255),
    end_time VARCHAR(255),
    status VARCHAR(50) DEFAULT 'in_progress',
    dematel_data TEXT,
    anp_dim_data TEXT,
    anp_criteria_data TEXT,
    raw_json TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)
`
