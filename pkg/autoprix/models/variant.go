package models

import (
	"fmt"
	"math"
)

// Variant identifies one of the trained price predictors.
type Variant int

const (
	Linear Variant = iota
	Lasso
	XGBoost
)

// Variants lists every variant in evaluation order.
var Variants = []Variant{Linear, Lasso, XGBoost}

func (v Variant) String() string {
	switch v {
	case Linear:
		return "linear"
	case Lasso:
		return "lasso"
	case XGBoost:
		return "xgboost"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// FilePrefix is the artifact file name prefix of the variant.
func (v Variant) FilePrefix() string {
	if v == Linear {
		return "linear_regression"
	}
	return v.String()
}

// DefaultOutput is the output scale assumed when the model artifact does not
// declare one: the linear models were fitted on log(price).
func (v Variant) DefaultOutput() Output {
	if v == XGBoost {
		return OutputIdentity
	}
	return OutputLog
}

// Output describes the scale of a predictor's raw output.
type Output string

const (
	OutputLog      Output = "log"
	OutputIdentity Output = "identity"
)

// Apply maps a raw output to the price scale. Log outputs are exponentiated
// when positive and floored to 0 otherwise.
func (o Output) Apply(raw float64) float64 {
	if o == OutputLog {
		if raw > 0 {
			return math.Exp(raw)
		}
		return 0
	}
	return raw
}
