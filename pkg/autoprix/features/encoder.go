package features

import (
	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// Vector is an encoded input laid out in schema order.
type Vector []float64

type options struct {
	scaler *Scaler
}

// Option customizes Encode.
type Option func(*options)

// WithScaler standardizes numeric columns with training-time statistics.
// A nil scaler leaves them untouched.
func WithScaler(s *Scaler) Option {
	return func(o *options) { o.scaler = s }
}

// Encode converts in into a vector matching schema. It never fails on unknown
// categories or missing optional fields; the only error is a
// *PreprocessingError for a structurally invalid schema.
func Encode(in dal.RawInput, schema Schema, opts ...Option) (Vector, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rec := NewRecord(in)
	o.scaler.Apply(&rec)
	return Reconcile(rec, schema), nil
}

// Reconcile lays rec out in schema order: schema columns missing from rec
// are 0 and rec columns outside the schema are dropped.
func Reconcile(rec Record, schema Schema) Vector {
	out := make(Vector, schema.Len())
	for i, c := range schema.columns {
		out[i] = rec.values[c]
	}
	return out
}

// Unmatched returns the columns of rec the schema does not know, typically
// categories unseen during training.
func Unmatched(rec Record, schema Schema) []string {
	known := make(map[string]struct{}, schema.Len())
	for _, c := range schema.columns {
		known[c] = struct{}{}
	}
	var out []string
	for _, name := range rec.names {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
