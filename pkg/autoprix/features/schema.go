package features

import (
	"strings"
)

// Schema is the ordered list of encoded column names a predictor was trained
// on. The zero value is an empty schema and is rejected by Encode.
type Schema struct {
	columns []string
}

// NewSchema copies columns into a Schema and checks its structure.
func NewSchema(columns []string) (Schema, error) {
	s := Schema{columns: append([]string(nil), columns...)}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error. Meant for tests and fixtures.
func MustSchema(columns ...string) Schema {
	s, err := NewSchema(columns)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports empty schemas, blank names and duplicated columns.
func (s Schema) Validate() error {
	if len(s.columns) == 0 {
		return preprocessingErrorf(ErrEmptySchema, "invalid schema")
	}
	seen := make(map[string]int, len(s.columns))
	for i, c := range s.columns {
		if strings.TrimSpace(c) == "" {
			return preprocessingErrorf(nil, "schema column %d has an empty name", i)
		}
		if j, dup := seen[c]; dup {
			return preprocessingErrorf(nil, "schema column %q appears at %d and %d", c, j, i)
		}
		seen[c] = i
	}
	return nil
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Column returns the i-th column name.
func (s Schema) Column(i int) string { return s.columns[i] }

// Columns returns a copy of the column names.
func (s Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Index returns the position of column, or -1.
func (s Schema) Index(column string) int {
	for i, c := range s.columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Vocabulary lists the categories the schema knows for a categorical prefix,
// in schema order. The dropped first category of the training data is, by
// construction, never part of it.
func (s Schema) Vocabulary(prefix string) []string {
	var out []string
	p := prefix + "_"
	for _, c := range s.columns {
		if strings.HasPrefix(c, p) {
			out = append(out, strings.TrimPrefix(c, p))
		}
	}
	return out
}
