package models

import "encoding/json"

// Survey status constants
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// TimestampLayout is how created_at and updated_at are stored.
// It matches SQLite's CURRENT_TIMESTAMP and sorts lexically.
const TimestampLayout = "2006-01-02 15:04:05"

// Request types

type Respondent struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Experience   string `json:"experience"`
	Age          string `json:"age"`
	Gender       string `json:"gender"`
}

// SurveyPayload is the body of save and submit. Answer sets are kept as
// raw JSON; their shape is owned by the survey front end.
type SurveyPayload struct {
	SurveyID           string          `json:"surveyId"`
	Respondent         Respondent      `json:"respondent"`
	DeviceType         string          `json:"deviceType"`
	StartTime          string          `json:"startTime"`
	EndTime            string          `json:"endTime"`
	Status             string          `json:"status"`
	DematelAnswers     json.RawMessage `json:"dematelAnswers"`
	AnpDimAnswers      json.RawMessage `json:"anpDimAnswers"`
	AnpCriteriaAnswers json.RawMessage `json:"anpCriteriaAnswers"`

	// Raw is the submitted object as received
	Raw json.RawMessage `json:"-"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

// Response types

type SaveResponse struct {
	Success  bool   `json:"success"`
	SurveyID string `json:"surveyId"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type MigrateResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    MigrationResult `json:"data"`
}

// Domain types

// ResponseSummary is one row of the admin listing (no answer blobs)
type ResponseSummary struct {
	ID               int64  `json:"id"`
	SurveyID         string `json:"survey_id"`
	RespondentName   string `json:"respondent_name"`
	RespondentOrg    string `json:"respondent_org"`
	RespondentExp    string `json:"respondent_exp"`
	RespondentAge    string `json:"respondent_age"`
	RespondentGender string `json:"respondent_gender"`
	DeviceType       string `json:"device_type"`
	Status           string `json:"status"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// ResponseDetail is a full row with the JSON columns embedded as JSON
type ResponseDetail struct {
	ResponseSummary
	DematelData     json.RawMessage `json:"dematel_data"`
	AnpDimData      json.RawMessage `json:"anp_dim_data"`
	AnpCriteriaData json.RawMessage `json:"anp_criteria_data"`
	RawJSON         json.RawMessage `json:"raw_json"`
}

// ExportedResponse is the nested shape used by the JSON export
type ExportedResponse struct {
	SurveyID     string          `json:"surveyId"`
	Respondent   Respondent      `json:"respondent"`
	DeviceType   string          `json:"deviceType"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	Dematel      json.RawMessage `json:"dematel"`
	AnpDimension json.RawMessage `json:"anpDimension"`
	AnpCriteria  json.RawMessage `json:"anpCriteria"`
}

// Stats and analytics

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
}

type AnalyticsSummary struct {
	Stats
	AvgDuration float64 `json:"avgDuration"`
}

type DailyStat struct {
	Date           string `json:"date"`
	Count          int    `json:"count"`
	CompletedCount int    `json:"completed_count"`
}

type DurationStat struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	// nil when either timestamp cannot be parsed
	DurationMinutes *float64 `json:"duration_minutes"`
}

type DeviceStat struct {
	DeviceType     string `json:"device_type"`
	Count          int    `json:"count"`
	CompletedCount int    `json:"completed_count"`
}

type OrgStat struct {
	RespondentOrg  string `json:"respondent_org"`
	Count          int    `json:"count"`
	CompletedCount int    `json:"completed_count"`
}

type ExpStat struct {
	RespondentExp string `json:"respondent_exp"`
	Count         int    `json:"count"`
}

type AgeStat struct {
	RespondentAge string `json:"respondent_age"`
	Count         int    `json:"count"`
}

type Analytics struct {
	Summary      AnalyticsSummary `json:"summary"`
	DailyStats   []DailyStat      `json:"dailyStats"`
	TimeAnalysis []DurationStat   `json:"timeAnalysis"`
	DeviceStats  []DeviceStat     `json:"deviceStats"`
	OrgStats     []OrgStat        `json:"orgStats"`
	ExpStats     []ExpStat        `json:"expStats"`
	AgeStats     []AgeStat        `json:"ageStats"`
}

// MigrationResult counts what a copy into the mirror store did
type MigrationResult struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
