package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EndTimeLayout is the format submit writes into endTime
const EndTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrNotObject = errors.New("survey body must be a JSON object")

// DecodeSurvey parses a save/submit body. The typed fields and Raw come
// from the same bytes so every column of a write agrees with raw_json.
func DecodeSurvey(body []byte) (SurveyPayload, error) {
	var p SurveyPayload

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return p, ErrNotObject
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return p, err
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return p, err
	}
	p.Raw = buf.Bytes()

	return p, nil
}

// MarkCompleted forces status and end time, in the typed fields and in Raw
func (p *SurveyPayload) MarkCompleted(now time.Time) error {
	p.Status = StatusCompleted
	p.EndTime = now.UTC().Format(EndTimeLayout)

	obj := map[string]json.RawMessage{}
	if len(p.Raw) > 0 {
		if err := json.Unmarshal(p.Raw, &obj); err != nil {
			return fmt.Errorf("failed to patch raw survey: %w", err)
		}
	}

	status, _ := json.Marshal(p.Status)
	endTime, _ := json.Marshal(p.EndTime)
	obj["status"] = status
	obj["endTime"] = endTime

	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to patch raw survey: %w", err)
	}
	p.Raw = raw

	return nil
}

// Record holds the columns one save or submit writes
type Record struct {
	SurveyID         string
	RespondentName   string
	RespondentOrg    string
	RespondentExp    string
	RespondentAge    string
	RespondentGender string
	DeviceType       string
	StartTime        string
	EndTime          string
	Status           string
	DematelData      string
	AnpDimData       string
	AnpCriteriaData  string
	RawJSON          string
}

// NewRecord derives every stored column from one payload
func NewRecord(p SurveyPayload) Record {
	status := StatusInProgress
	if p.Status == StatusCompleted {
		status = StatusCompleted
	}

	return Record{
		SurveyID:         p.SurveyID,
		RespondentName:   p.Respondent.Name,
		RespondentOrg:    p.Respondent.Organization,
		RespondentExp:    p.Respondent.Experience,
		RespondentAge:    p.Respondent.Age,
		RespondentGender: p.Respondent.Gender,
		DeviceType:       p.DeviceType,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		Status:           status,
		DematelData:      jsonOrDefault(p.DematelAnswers, "{}"),
		AnpDimData:       jsonOrDefault(p.AnpDimAnswers, "[]"),
		AnpCriteriaData:  jsonOrDefault(p.AnpCriteriaAnswers, "{}"),
		RawJSON:          jsonOrDefault(p.Raw, "{}"),
	}
}

func jsonOrDefault(raw json.RawMessage, def string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return def
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return def
	}
	return buf.String()
}

// Response is a stored row of the responses table
type Response struct {
	ID int64
	Record
	CreatedAt string
	UpdatedAt string
}

func (r Response) Summary() ResponseSummary {
	return ResponseSummary{
		ID:               r.ID,
		SurveyID:         r.SurveyID,
		RespondentName:   r.RespondentName,
		RespondentOrg:    r.RespondentOrg,
		RespondentExp:    r.RespondentExp,
		RespondentAge:    r.RespondentAge,
		RespondentGender: r.RespondentGender,
		DeviceType:       r.DeviceType,
		Status:           r.Status,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Detail embeds the JSON columns, failing if one of them is not valid JSON
func (r Response) Detail() (ResponseDetail, error) {
	cols := []struct {
		name string
		val  string
		def  string
	}{
		{"dematel_data", r.DematelData, "{}"},
		{"anp_dim_data", r.AnpDimData, "[]"},
		{"anp_criteria_data", r.AnpCriteriaData, "{}"},
		{"raw_json", r.RawJSON, "{}"},
	}

	parsed := make([]json.RawMessage, len(cols))
	for i, c := range cols {
		v := c.val
		if v == "" {
			v = c.def
		}
		if !json.Valid([]byte(v)) {
			return ResponseDetail{}, fmt.Errorf("invalid JSON in column %s", c.name)
		}
		parsed[i] = json.RawMessage(v)
	}

	return ResponseDetail{
		ResponseSummary: r.Summary(),
		DematelData:     parsed[0],
		AnpDimData:      parsed[1],
		AnpCriteriaData: parsed[2],
		RawJSON:         parsed[3],
	}, nil
}

// Export reshapes the row into the nested submission form
func (r Response) Export() ExportedResponse {
	return ExportedResponse{
		SurveyID: r.SurveyID,
		Respondent: Respondent{
			Name:         r.RespondentName,
			Organization: r.RespondentOrg,
			Experience:   r.RespondentExp,
			Age:          r.RespondentAge,
			Gender:       r.RespondentGender,
		},
		DeviceType:   r.DeviceType,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Dematel:      json.RawMessage(jsonOrDefault(json.RawMessage(r.DematelData), "{}")),
		AnpDimension: json.RawMessage(jsonOrDefault(json.RawMessage(r.AnpDimData), "[]")),
		AnpCriteria:  json.RawMessage(jsonOrDefault(json.RawMessage(r.AnpCriteriaData), "{}")),
	}
}
