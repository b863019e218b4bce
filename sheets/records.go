package sheets

import (
	"fmt"
	"strings"

	"faq/types"
)

// ParseRecords maps raw sheet values to records using the header row.
// Cells missing at the end of a row read as empty strings; fully empty rows
// are skipped.
func ParseRecords(values [][]any) ([]types.QARecord, error) {
	if len(values) == 0 {
		return []types.QARecord{}, nil
	}

	cols := make(map[string]int)
	for i, h := range values[0] {
		name := strings.ToLower(strings.TrimSpace(cell(h)))
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}
	qCol, okQ := cols["question"]
	aCol, okA := cols["answer"]
	if !okQ || !okA {
		return nil, fmt.Errorf("%w: header must contain question and answer columns, got %v",
			types.ErrDataFormat, values[0])
	}
	lCol, okL := cols["lang"]

	records := make([]types.QARecord, 0, len(values)-1)
	for _, row := range values[1:] {
		if emptyRow(row) {
			continue
		}
		rec := types.QARecord{
			Question: at(row, qCol),
			Answer:   at(row, aCol),
		}
		if okL {
			rec.Lang = types.Lang(strings.TrimSpace(at(row, lCol)))
		}
		records = append(records, rec)
	}
	return records, nil
}

func at(row []any, i int) string {
	if i < len(row) {
		return cell(row[i])
	}
	return ""
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func emptyRow(row []any) bool {
	for _, v := range row {
		if strings.TrimSpace(cell(v)) != "" {
			return false
		}
	}
	return true
}
