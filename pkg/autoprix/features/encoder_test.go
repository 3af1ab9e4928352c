package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// trainingSchema mimics a drop-first frame whose first categories were
// etat_Bon, marque_Dacia, modele_Logan, boite_Automatique and carburant_Diesel.
var trainingSchema = MustSchema(
	"annee", "kilometrage", "puissance_fiscale",
	"etat_Excellent", "etat_Moyen",
	"marque_Peugeot", "marque_Renault",
	"modele_208", "modele_Clio",
	"boite_Manuelle",
	"carburant_Essence",
)

func clio() dal.RawInput {
	return dal.RawInput{
		Year:        2015,
		Mileage:     80000,
		EnginePower: 6,
		Condition:   "Bon",
		Make:        "Renault",
		Model:       "Clio",
		Gearbox:     "Manuelle",
		Fuel:        "Diesel",
		FirstHand:   strPtr("Oui"),
		NumDoors:    intPtr(5),
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    dal.RawInput
		expected Vector
	}{
		{
			name:  "KnownVocabulary",
			input: clio(),
			//           annee km     cv etatE etatM peu ren 208 clio man ess
			expected: Vector{2015, 80000, 6, 0, 0, 0, 1, 0, 1, 1, 0},
		},
		{
			name: "UnseenMake",
			input: func() dal.RawInput {
				in := clio()
				in.Make = "Tesla"
				in.Model = "Model 3"
				return in
			}(),
			expected: Vector{2015, 80000, 6, 0, 0, 0, 0, 0, 0, 1, 0},
		},
		{
			name: "MissingCategoricalsAndOptionals",
			input: dal.RawInput{
				Year:        2010,
				Mileage:     120000,
				EnginePower: 8,
			},
			expected: Vector{2010, 120000, 8, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "WhitespaceTrimmed",
			input: func() dal.RawInput {
				in := clio()
				in.Fuel = " Essence "
				return in
			}(),
			expected: Vector{2015, 80000, 6, 0, 0, 0, 1, 0, 1, 1, 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.input, trainingSchema)
			require.NoError(t, err)
			assert.Len(t, got, trainingSchema.Len())
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEncodeLengthMatchesEverySchema(t *testing.T) {
	schemas := []Schema{
		trainingSchema,
		MustSchema("annee"),
		MustSchema("marque_Renault", "annee", "nombre_portes", "premiere_main_Oui"),
	}
	for _, s := range schemas {
		got, err := Encode(clio(), s)
		require.NoError(t, err)
		assert.Len(t, got, s.Len())
	}
}

func TestEncodeFollowsSchemaOrder(t *testing.T) {
	s := MustSchema("marque_Renault", "premiere_main_Oui", "nombre_portes", "annee", "colonne_absente")
	got, err := Encode(clio(), s)
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 1, 5, 2015, 0}, got)
}

func TestEncodeIsDeterministic(t *testing.T) {
	first, err := Encode(clio(), trainingSchema)
	require.NoError(t, err)
	second, err := Encode(clio(), trainingSchema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeInvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "ZeroValue", schema: Schema{}},
		{name: "Duplicate", schema: Schema{columns: []string{"annee", "annee"}}},
		{name: "BlankName", schema: Schema{columns: []string{"annee", " "}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(clio(), tc.schema)
			var perr *PreprocessingError
			require.True(t, errors.As(err, &perr))
			assert.NotEmpty(t, perr.Cause)
		})
	}

	_, err := Encode(clio(), Schema{})
	assert.ErrorIs(t, err, ErrEmptySchema)
}

func TestNewSchemaCopiesColumns(t *testing.T) {
	cols := []string{"annee", "kilometrage"}
	s, err := NewSchema(cols)
	require.NoError(t, err)
	cols[0] = "mutated"
	assert.Equal(t, "annee", s.Column(0))
	assert.Equal(t, 1, s.Index("kilometrage"))
	assert.Equal(t, -1, s.Index("mutated"))
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, []string{"Peugeot", "Renault"}, trainingSchema.Vocabulary(PrefixMake))
	assert.Equal(t, []string{"Excellent", "Moyen"}, trainingSchema.Vocabulary(PrefixCondition))
	assert.Empty(t, trainingSchema.Vocabulary(PrefixFirstHand))
}

func TestUnmatched(t *testing.T) {
	in := clio()
	in.Make = "Tesla"
	rec := NewRecord(in)
	assert.Equal(t,
		[]string{"nombre_portes", "etat_Bon", "marque_Tesla", "carburant_Diesel", "premiere_main_Oui"},
		Unmatched(rec, trainingSchema))
}

func TestNewRecordPlaceholders(t *testing.T) {
	rec := NewRecord(dal.RawInput{})
	assert.Equal(t, []string{ColYear, ColMileage, ColEnginePower, ColNumDoors}, rec.NumericColumns())

	for _, prefix := range []string{PrefixCondition, PrefixMake, PrefixModel, PrefixGearbox, PrefixFuel, PrefixFirstHand} {
		v, ok := rec.Value(IndicatorName(prefix, UnknownCategory))
		assert.True(t, ok, prefix)
		assert.Equal(t, 1.0, v)
	}
	v, ok := rec.Value(ColNumDoors)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestEncodeWithScaler(t *testing.T) {
	scaler := &Scaler{
		Mean:  map[string]float64{"annee": 2010, "kilometrage": 100000, "puissance_fiscale": 6},
		Scale: map[string]float64{"annee": 5, "kilometrage": 20000},
	}
	s := MustSchema("annee", "kilometrage", "puissance_fiscale", "marque_Renault")

	got, err := Encode(clio(), s, WithScaler(scaler))
	require.NoError(t, err)
	assert.Equal(t, Vector{1, -1, 0, 1}, got)

	unscaled, err := Encode(clio(), s, WithScaler(nil))
	require.NoError(t, err)
	assert.Equal(t, Vector{2015, 80000, 6, 1}, unscaled)
}
