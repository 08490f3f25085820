// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// NeutralValue is written for ANP comparisons the respondent left empty
const NeutralValue = "5"

// utf8BOM lets spreadsheet tools detect UTF-8
const utf8BOM = "\uFEFF"

// Criteria are the twelve criterion codes, three per dimension
var Criteria = []string{"A1", "A2", "A3", "B1", "B2", "B3", "C1", "C2", "C3", "D1", "D2", "D3"}

// DimensionCriteria maps a dimension to its criterion codes
var DimensionCriteria = map[string][3]string{
	"A": {"A1", "A2", "A3"},
	"B": {"B1", "B2", "B3"},
	"C": {"C1", "C2", "C3"},
	"D": {"D1", "D2", "D3"},
}

// DimensionPairs is the positional order of anp_dim_data
var DimensionPairs = [][2]string{
	{"A", "B"}, {"A", "C"}, {"A", "D"},
	{"B", "C"}, {"B", "D"},
	{"C", "D"},
}

// ANP row types
const (
	TypeDimension = "Dimension"
	TypeCriteria  = "Criteria"
)

type DematelRow struct {
	Respondent string
	SurveyID   string
	From       string
	To         string
	Value      string
}

type ANPRow struct {
	Respondent string
	SurveyID   string
	Type       string
	Context    string
	Left       string
	Right      string
	Value      string
}

// DematelRows expands a stored from→to→score object into one row per
// ordered pair of distinct criteria that has an entry
func DematelRows(respondent, surveyID, data string) ([]DematelRow, error) {
	parsed, err := decode(data, "{}")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dematel data for %s: %w", surveyID, err)
	}
	matrix, _ := parsed.(map[string]interface{})

	var rows []DematelRow
	for _, from := range Criteria {
		inner, ok := matrix[from].(map[string]interface{})
		if !ok {
			continue
		}
		for _, to := range Criteria {
			if from == to {
				continue
			}
			v, ok := inner[to]
			if !ok {
				continue
			}
			rows = append(rows, DematelRow{
				Respondent: respondent,
				SurveyID:   surveyID,
				From:       from,
				To:         to,
				Value:      formatValue(v),
			})
		}
	}

	return rows, nil
}

// ANPRows emits the six dimension comparisons followed by the three
// intra-dimension comparisons of every criteria context. Contexts are
// visited in key order; a context whose second "_" segment is not a
// known dimension is skipped.
func ANPRows(respondent, surveyID, dimData, criteriaData string) ([]ANPRow, error) {
	parsedDim, err := decode(dimData, "[]")
	if err != nil {
		return nil, fmt.Errorf("failed to parse anp dimension data for %s: %w", surveyID, err)
	}
	parsedCriteria, err := decode(criteriaData, "{}")
	if err != nil {
		return nil, fmt.Errorf("failed to parse anp criteria data for %s: %w", surveyID, err)
	}

	dims, _ := parsedDim.([]interface{})
	rows := make([]ANPRow, 0, len(DimensionPairs))
	for i, pair := range DimensionPairs {
		rows = append(rows, ANPRow{
			Respondent: respondent,
			SurveyID:   surveyID,
			Type:       TypeDimension,
			Context:    "-",
			Left:       pair[0],
			Right:      pair[1],
			Value:      orNeutral(dims, i),
		})
	}

	criteria, _ := parsedCriteria.(map[string]interface{})
	contexts := make([]string, 0, len(criteria))
	for k := range criteria {
		contexts = append(contexts, k)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		segments := strings.Split(context, "_")
		if len(segments) < 2 {
			continue
		}
		cs, ok := DimensionCriteria[segments[1]]
		if !ok {
			continue
		}

		values, _ := criteria[context].([]interface{})
		pairs := [][2]string{{cs[0], cs[1]}, {cs[0], cs[2]}, {cs[1], cs[2]}}
		for i, pair := range pairs {
			rows = append(rows, ANPRow{
				Respondent: respondent,
				SurveyID:   surveyID,
				Type:       TypeCriteria,
				Context:    context,
				Left:       pair[0],
				Right:      pair[1],
				Value:      orNeutral(values, i),
			})
		}
	}

	return rows, nil
}

// WriteDematelCSV writes the BOM, header and rows
func WriteDematelCSV(w io.Writer, rows []DematelRow) error {
	cw, err := newWriter(w, []string{"Respondent", "SurveyID", "From", "To", "Value"})
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Respondent, r.SurveyID, r.From, r.To, r.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteANPCSV writes the BOM, header and rows
func WriteANPCSV(w io.Writer, rows []ANPRow) error {
	cw, err := newWriter(w, []string{"Respondent", "SurveyID", "Type", "Context", "Left", "Right", "Value"})
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Respondent, r.SurveyID, r.Type, r.Context, r.Left, r.Right, r.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWriter(w io.Writer, header []string) (*csv.Writer, error) {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return nil, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	return cw, nil
}

// decode parses stored JSON keeping numbers as written
func decode(data, def string) (interface{}, error) {
	if strings.TrimSpace(data) == "" {
		data = def
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// orNeutral returns values[i], or NeutralValue when it is missing or
// empty-ish (null, false, 0, "")
func orNeutral(values []interface{}, i int) string {
	if i >= len(values) {
		return NeutralValue
	}
	switch v := values[i].(type) {
	case nil:
		return NeutralValue
	case bool:
		if !v {
			return NeutralValue
		}
	case string:
		if v == "" {
			return NeutralValue
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return NeutralValue
		}
	}
	return formatValue(values[i])
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case json.Number:
		return t.String()
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return ""
		}
		return strings.TrimSpace(buf.String())
	}
}
