package features

import (
	"strings"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// Numeric column names of the training frame.
const (
	ColYear        = "annee"
	ColMileage     = "kilometrage"
	ColEnginePower = "puissance_fiscale"
	ColNumDoors    = "nombre_portes"
)

// Categorical prefixes of the training frame.
const (
	PrefixCondition = "etat"
	PrefixMake      = "marque"
	PrefixModel     = "modele"
	PrefixGearbox   = "boite"
	PrefixFuel      = "carburant"
	PrefixFirstHand = "premiere_main"
)

// UnknownCategory replaces an absent categorical value.
const UnknownCategory = "Inconnu"

// IndicatorName returns the one-hot column name of value within prefix.
func IndicatorName(prefix, value string) string {
	return prefix + "_" + value
}

// Record is a fully encoded input before reconciliation: numeric columns
// first, then indicator columns, in insertion order.
type Record struct {
	names   []string
	values  map[string]float64
	numeric int
}

// NewRecord encodes in. Absent categorical values become UnknownCategory and
// absent numeric values become 0.
func NewRecord(in dal.RawInput) Record {
	r := Record{values: make(map[string]float64, 10)}

	var doors float64
	if in.NumDoors != nil {
		doors = float64(*in.NumDoors)
	}
	r.addNumeric(ColYear, float64(in.Year))
	r.addNumeric(ColMileage, in.Mileage)
	r.addNumeric(ColEnginePower, float64(in.EnginePower))
	r.addNumeric(ColNumDoors, doors)

	var firstHand string
	if in.FirstHand != nil {
		firstHand = *in.FirstHand
	}
	r.addCategory(PrefixCondition, in.Condition)
	r.addCategory(PrefixMake, in.Make)
	r.addCategory(PrefixModel, in.Model)
	r.addCategory(PrefixGearbox, in.Gearbox)
	r.addCategory(PrefixFuel, in.Fuel)
	r.addCategory(PrefixFirstHand, firstHand)
	return r
}

func (r *Record) set(name string, v float64) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

func (r *Record) addNumeric(name string, v float64) {
	r.set(name, v)
	r.numeric++
}

func (r *Record) addCategory(prefix, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = UnknownCategory
	}
	r.set(IndicatorName(prefix, value), 1)
}

// Columns returns the encoded column names in order.
func (r Record) Columns() []string {
	return append([]string(nil), r.names...)
}

// NumericColumns returns the leading numeric column names.
func (r Record) NumericColumns() []string {
	return append([]string(nil), r.names[:r.numeric]...)
}

// Value returns the value of column name.
func (r Record) Value(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}
