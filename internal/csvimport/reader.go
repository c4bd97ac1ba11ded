package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const DefaultMaxRows = 5000

var (
	ErrEmptyFile   = errors.New("csv file is empty")
	ErrTooManyRows = errors.New("csv file has too many rows")
)

type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

type Issue struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

type Duplicate struct {
	Line   int    `json:"line"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

type Options struct {
	MaxRows  int
	Location *time.Location
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// row is one non-blank data line with cells addressed by header name.
type row struct {
	line   int
	values map[string]string
}

func (r row) get(column string) string {
	return r.values[column]
}

func readRows(src io.Reader, headers []string, maxRows int) ([]row, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, name := range headers {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	rows := make([]row, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(headers))
		blank := true
		for _, name := range headers {
			i := index[name]
			if i >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value != "" {
				blank = false
			}
			values[name] = value
		}
		if blank {
			continue
		}

		rows = append(rows, row{line: line, values: values})
		if len(rows) > maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}
	}

	return rows, nil
}
