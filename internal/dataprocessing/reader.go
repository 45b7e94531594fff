package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one raw data line of a dataset
type Row struct {
	Line   int
	Fields []string
}

// Dataset is a header plus its raw data rows, held fully in memory
type Dataset struct {
	Name   string
	Header []string
	Rows   []Row
	// ParseErrors holds lines the CSV reader could not split
	ParseErrors []*RowError
}

// ReadDataset reads comma-delimited text whose first line is the header.
// Quoted fields may contain commas; rows may have any number of fields.
func ReadDataset(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	ds := &Dataset{
		Name:   name,
		Header: normalizeHeader(header),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.ParseErrors = append(ds.ParseErrors, &RowError{
					Dataset: name,
					Line:    parseErr.StartLine,
					Reason:  ReasonUnparsable,
					Cause:   parseErr.Err,
				})
				continue
			}
			return nil, fmt.Errorf("%s: failed to read rows: %w", name, err)
		}
		line, _ := reader.FieldPos(0)
		ds.Rows = append(ds.Rows, Row{Line: line, Fields: record})
	}

	return ds, nil
}

// normalizeHeader trims column names and drops a leading UTF-8 BOM
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
