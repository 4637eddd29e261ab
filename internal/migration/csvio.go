package migration

import (
	"encoding/csv"
	"io"

	"github.com/mslgit/mslgit-go/internal/errors"
)

// ReadDataset reads a CSV document into a Dataset. The first record is the
// header; short rows are padded with empty values.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Newf("reading dataset header: %v", err).
			Category(errors.CategoryFileParsing).
			Component("migration").
			Build()
	}

	dataset := &Dataset{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Newf("reading dataset row: %v", err).
				Category(errors.CategoryFileParsing).
				Component("migration").
				Build()
		}
		row := make(Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

// WriteDataset writes a Dataset as CSV, columns in header order.
func WriteDataset(w io.Writer, dataset *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(dataset.Columns); err != nil {
		return err
	}
	record := make([]string, len(dataset.Columns))
	for _, row := range dataset.Rows {
		for i, column := range dataset.Columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
