package predict

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// Form field names
const (
	FieldYear        = "year"
	FieldMileage     = "mileage"
	FieldEnginePower = "engine_power"
	FieldCondition   = "condition"
	FieldMake        = "make"
	FieldModel       = "model"
	FieldGearbox     = "gearbox"
	FieldFuel        = "fuel"
	FieldFirstHand   = "first_hand"
	FieldNumDoors    = "num_doors"
)

// RequiredFields must be present and non-empty in every request.
var RequiredFields = []string{
	FieldYear, FieldMileage, FieldEnginePower, FieldCondition,
	FieldMake, FieldModel, FieldGearbox, FieldFuel,
}

// ValidationError reports one malformed or out of range request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validator parses form values into a RawInput and checks its ranges.
type Validator struct {
	minYear  int
	now      func() time.Time
	validate *validator.Validate
}

// NewValidator accepts years in [minYear, now().Year()].
func NewValidator(minYear int, now func() time.Time) *Validator {
	v := &Validator{minYear: minYear, now: now, validate: validator.New()}
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.validate.RegisterValidation("yearrange", func(fl validator.FieldLevel) bool {
		y := int(fl.Field().Int())
		return y >= v.minYear && y <= v.maxYear()
	})
	return v
}

func (v *Validator) maxYear() int { return v.now().Year() }

// Parse converts form values into a validated RawInput. The returned error is
// always a *ValidationError.
func (v *Validator) Parse(values url.Values) (dal.RawInput, error) {
	get := func(name string) string { return strings.TrimSpace(values.Get(name)) }

	for _, name := range RequiredFields {
		if get(name) == "" {
			return dal.RawInput{}, invalid(name, "missing required field: %s", name)
		}
	}

	in := dal.RawInput{
		Condition: get(FieldCondition),
		Make:      get(FieldMake),
		Model:     get(FieldModel),
		Gearbox:   get(FieldGearbox),
		Fuel:      get(FieldFuel),
	}

	var err error
	if in.Year, err = parseInt(FieldYear, get(FieldYear)); err != nil {
		return dal.RawInput{}, err
	}
	if in.Mileage, err = parseFloat(FieldMileage, get(FieldMileage)); err != nil {
		return dal.RawInput{}, err
	}
	if in.EnginePower, err = parseInt(FieldEnginePower, get(FieldEnginePower)); err != nil {
		return dal.RawInput{}, err
	}
	if s := get(FieldFirstHand); s != "" {
		in.FirstHand = &s
	}
	if s := get(FieldNumDoors); s != "" {
		doors, err := parseInt(FieldNumDoors, s)
		if err != nil {
			return dal.RawInput{}, err
		}
		in.NumDoors = &doors
	}

	if err := v.Check(in); err != nil {
		return dal.RawInput{}, err
	}
	return in, nil
}

// Check validates the ranges of an already typed input.
func (v *Validator) Check(in dal.RawInput) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("", "invalid input: %v", err)
	}
	return v.describe(verrs[0])
}

func (v *Validator) describe(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	switch field {
	case FieldYear:
		return invalid(field, "year must be between %d and %d", v.minYear, v.maxYear())
	case FieldMileage:
		return invalid(field, "mileage cannot be negative")
	case FieldEnginePower:
		return invalid(field, "engine_power must be positive")
	case FieldNumDoors:
		return invalid(field, "num_doors must be 3, 4 or 5")
	case FieldFirstHand:
		return invalid(field, "first_hand must be 'Oui' or 'Non'")
	}
	return invalid(field, "invalid value for %s (%s)", field, fe.Tag())
}

func parseInt(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid(field, "invalid value for %s: %q is not an integer", field, s)
	}
	return n, nil
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(field, "invalid value for %s: %q is not a number", field, s)
	}
	return f, nil
}
