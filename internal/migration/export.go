package migration

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// ExportCSV writes a mapping as one row per entity: name, status, source
// rank columns, target rank columns, changes, confidence and notes. Rows
// are sorted by entity name for stable output.
func ExportCSV(w io.Writer, mapping Mapping) error {
	writer := csv.NewWriter(w)

	header := []string{"entity_name", "status"}
	for _, rank := range taxonomy.Ranks() {
		header = append(header, "source_"+rank.String())
	}
	for _, rank := range taxonomy.Ranks() {
		header = append(header, "target_"+rank.String())
	}
	header = append(header, "changes", "confidence", "notes")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, name := range sortedMappingNames(mapping) {
		entry := mapping[name]
		record := []string{name, string(entry.Status)}
		for _, rank := range taxonomy.Ranks() {
			record = append(record, classificationValue(entry.SourceClassification, rank))
		}
		for _, rank := range taxonomy.Ranks() {
			record = append(record, classificationValue(entry.TargetClassification, rank))
		}
		record = append(record,
			strings.Join(entry.Changes, "; "),
			strconv.FormatFloat(entry.Confidence, 'f', 2, 64),
			entry.Notes,
		)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportJSON writes a mapping as a nested object keyed by entity name.
func ExportJSON(w io.Writer, mapping Mapping) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(mapping)
}

func sortedMappingNames(mapping Mapping) []string {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func classificationValue(c *taxonomy.Classification, rank taxonomy.Rank) string {
	if c == nil {
		return ""
	}
	return c.Get(rank)
}
