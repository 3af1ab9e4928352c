package features

// Scaler standardizes numeric columns with statistics saved at training time.
// Statistics are never fitted on a request: standardizing a single row
// drives every column to zero.
type Scaler struct {
	Mean  map[string]float64 `json:"mean"`
	Scale map[string]float64 `json:"scale"`
}

// Apply standardizes the numeric columns of r that the scaler has a mean for.
// A zero or missing scale is treated as 1, as scikit-learn does for constant
// columns.
func (s *Scaler) Apply(r *Record) {
	if s == nil {
		return
	}
	for _, name := range r.names[:r.numeric] {
		mean, ok := s.Mean[name]
		if !ok {
			continue
		}
		scale := s.Scale[name]
		if scale == 0 {
			scale = 1
		}
		r.values[name] = (r.values[name] - mean) / scale
	}
}
