package mslstore

import (
	"encoding/csv"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/logging"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// LoadReleaseDir reads a directory tree of per-entity YAML records into a
// snapshot labeled with the given version. Records without a name are
// skipped with a warning, matching snapshot materialization behavior.
func LoadReleaseDir(dir, label string) (*taxonomy.Snapshot, error) {
	logger := logging.ForService("mslstore")
	snapshot := taxonomy.NewSnapshot(label)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (!strings.HasSuffix(d.Name(), ".yaml") && !strings.HasSuffix(d.Name(), ".yml")) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entity taxonomy.Entity
		if err := yaml.Unmarshal(data, &entity); err != nil {
			logger.Warn("skipping unparseable release record", "path", path, "error", err)
			return nil
		}
		if entity.Name == "" {
			logger.Warn("skipping release record without a name", "path", path)
			return nil
		}
		entity.Meta.SourceVersion = label
		snapshot.Add(&entity)
		return nil
	})
	if err != nil {
		return nil, errors.Newf("reading release directory %s: %v", dir, err).
			Category(errors.CategoryFileParsing).
			Component("mslstore").
			Context("dir", dir).
			Build()
	}
	return snapshot, nil
}

// LoadReleaseCSV reads a release from a CSV export: one row per entity,
// with a name column and one column per rank. Unknown columns are kept as
// opaque metadata.
func LoadReleaseCSV(r io.Reader, label, nameColumn string) (*taxonomy.Snapshot, error) {
	logger := logging.ForService("mslstore")
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Newf("reading release CSV header: %v", err).
			Category(errors.CategoryFileParsing).
			Component("mslstore").
			Build()
	}

	nameIdx := -1
	rankIdx := make(map[int]taxonomy.Rank)
	extraIdx := make(map[int]string)
	for i, column := range header {
		normalized := strings.ToLower(strings.TrimSpace(column))
		switch {
		case normalized == strings.ToLower(nameColumn):
			nameIdx = i
		default:
			if rank, ok := taxonomy.RankFromString(normalized); ok {
				rankIdx[i] = rank
			} else {
				extraIdx[i] = normalized
			}
		}
	}
	if nameIdx < 0 {
		return nil, errors.Newf("release CSV has no %q column", nameColumn).
			Category(errors.CategoryFileParsing).
			Component("mslstore").
			Context("header", strings.Join(header, ",")).
			Build()
	}

	snapshot := taxonomy.NewSnapshot(label)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("skipping malformed release CSV row", "line", line, "error", err)
			continue
		}
		if nameIdx >= len(record) || strings.TrimSpace(record[nameIdx]) == "" {
			logger.Warn("skipping release CSV row without a name", "line", line)
			continue
		}

		entity := &taxonomy.Entity{
			Name: strings.TrimSpace(record[nameIdx]),
			Meta: taxonomy.Meta{SourceVersion: label},
		}
		for i, rank := range rankIdx {
			if i < len(record) {
				entity.Classification.Set(rank, strings.TrimSpace(record[i]))
			}
		}
		for i, column := range extraIdx {
			if i < len(record) && strings.TrimSpace(record[i]) != "" {
				if entity.Meta.Extra == nil {
					entity.Meta.Extra = make(map[string]string)
				}
				entity.Meta.Extra[column] = strings.TrimSpace(record[i])
			}
		}
		snapshot.Add(entity)
	}

	return snapshot, nil
}
