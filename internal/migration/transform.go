package migration

import (
	"strconv"
	"strings"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// Reserved columns appended to transformed datasets.
const (
	ColumnMappingStatus     = "_mapping_status"
	ColumnMappingConfidence = "_mapping_confidence"
	ColumnMappingChanges    = "_mapping_changes"
	ColumnMappingNotes      = "_mapping_notes"
)

// StatusNotFound marks rows whose entity name has no mapping entry.
const StatusNotFound = "not_found"

// Row is one record of a tabular dataset.
type Row map[string]string

// Dataset is a row-oriented table with an ordered header.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// ApplyMapping rewrites a dataset referencing entity names from the
// mapping's source version: each row is annotated with mapping status,
// confidence, changes and notes, and classification columns are updated
// to the target version's values. The input dataset is never mutated.
func ApplyMapping(dataset *Dataset, mapping Mapping, nameColumn string) *Dataset {
	out := &Dataset{
		Columns: make([]string, 0, len(dataset.Columns)+4),
		Rows:    make([]Row, 0, len(dataset.Rows)),
	}
	out.Columns = append(out.Columns, dataset.Columns...)
	for _, reserved := range []string{ColumnMappingStatus, ColumnMappingConfidence, ColumnMappingChanges, ColumnMappingNotes} {
		if !containsColumn(out.Columns, reserved) {
			out.Columns = append(out.Columns, reserved)
		}
	}

	// classification columns eligible for overwrite: a rank name or its
	// virus_<rank> prefixed variant
	rankColumns := make(map[string]taxonomy.Rank)
	for _, column := range dataset.Columns {
		normalized := strings.ToLower(strings.TrimSpace(column))
		candidate := strings.TrimPrefix(normalized, "virus_")
		if rank, ok := taxonomy.RankFromString(candidate); ok {
			rankColumns[column] = rank
		}
	}

	for _, row := range dataset.Rows {
		newRow := make(Row, len(row)+4)
		for k, v := range row {
			newRow[k] = v
		}

		entry, ok := mapping[row[nameColumn]]
		if !ok {
			newRow[ColumnMappingStatus] = StatusNotFound
			out.Rows = append(out.Rows, newRow)
			continue
		}

		newRow[ColumnMappingStatus] = string(entry.Status)
		newRow[ColumnMappingConfidence] = strconv.FormatFloat(entry.Confidence, 'f', 2, 64)
		if entry.TargetClassification != nil {
			for column, rank := range rankColumns {
				newRow[column] = entry.TargetClassification.Get(rank)
			}
		}
		if len(entry.Changes) > 0 {
			newRow[ColumnMappingChanges] = strings.Join(entry.Changes, "; ")
		}
		if entry.Notes != "" {
			newRow[ColumnMappingNotes] = entry.Notes
		}
		out.Rows = append(out.Rows, newRow)
	}

	return out
}

func containsColumn(columns []string, want string) bool {
	for _, c := range columns {
		if c == want {
			return true
		}
	}
	return false
}
