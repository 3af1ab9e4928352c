// Package catalog holds the read-only make to model reference data used to
// populate the prediction form.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// NoModelsPlaceholder is the single entry returned for an unknown make.
const NoModelsPlaceholder = "Aucun modèle disponible pour cette marque"

// Dataset column names
const (
	MakeColumn      = "marque"
	ModelColumn     = "modele"
	ConditionColumn = "etat"
)

// DefaultConditions is served when the dataset carries no condition column.
var DefaultConditions = []string{"Excellent", "Très bon", "Bon", "Moyen"}

// Catalog maps a make to its distinct models. It is never mutated after Build.
type Catalog struct {
	makes      []string
	models     map[string][]string
	conditions []string
}

// Empty returns a catalog with no makes.
func Empty() *Catalog {
	return &Catalog{models: map[string][]string{}}
}

// Build groups the distinct models of listings by make, in first-seen order.
func Build(listings []dal.Listing) *Catalog {
	c := Empty()
	seenModel := make(map[string]map[string]struct{})
	seenCondition := make(map[string]struct{})

	for _, l := range listings {
		if l.Make == "" {
			continue
		}
		models, ok := seenModel[l.Make]
		if !ok {
			models = make(map[string]struct{})
			seenModel[l.Make] = models
			c.makes = append(c.makes, l.Make)
		}
		if l.Model != "" {
			if _, dup := models[l.Model]; !dup {
				models[l.Model] = struct{}{}
				c.models[l.Make] = append(c.models[l.Make], l.Model)
			}
		}
		if l.Condition != "" {
			if _, dup := seenCondition[l.Condition]; !dup {
				seenCondition[l.Condition] = struct{}{}
				c.conditions = append(c.conditions, l.Condition)
			}
		}
	}
	return c
}

// ReadCSV parses a dataset with a header row naming at least the make and
// model columns.
func ReadCSV(r io.Reader) ([]dal.Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	makeIdx, modelIdx, conditionIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case MakeColumn:
			makeIdx = i
		case ModelColumn:
			modelIdx = i
		case ConditionColumn:
			conditionIdx = i
		}
	}
	if makeIdx < 0 || modelIdx < 0 {
		return nil, fmt.Errorf("dataset header must contain %q and %q", MakeColumn, ModelColumn)
	}

	var listings []dal.Listing
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		listings = append(listings, dal.Listing{
			Make:      field(rec, makeIdx),
			Model:     field(rec, modelIdx),
			Condition: field(rec, conditionIdx),
		})
	}
	return listings, nil
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// LoadFile builds the catalog from a CSV dataset. It fails softly: an
// unreadable dataset is logged and yields an empty catalog.
func LoadFile(path string, log *zap.Logger) *Catalog {
	f, err := os.Open(path)
	if err != nil {
		log.Error("catalog dataset unavailable", zap.String("path", path), zap.Error(err))
		return Empty()
	}
	defer f.Close()

	listings, err := ReadCSV(f)
	if err != nil {
		log.Error("catalog dataset unreadable", zap.String("path", path), zap.Error(err))
		return Empty()
	}
	c := Build(listings)
	log.Info("catalog loaded", zap.String("path", path), zap.Int("makes", len(c.makes)))
	return c
}

// Lookup returns the models of makeName. An unknown make yields the
// NoModelsPlaceholder list, never an empty slice.
func (c *Catalog) Lookup(makeName string) []string {
	models, ok := c.models[makeName]
	if !ok || len(models) == 0 {
		return []string{NoModelsPlaceholder}
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// Makes returns the known makes in first-seen order.
func (c *Catalog) Makes() []string {
	out := make([]string, len(c.makes))
	copy(out, c.makes)
	return out
}

// Conditions returns the vehicle conditions seen in the dataset, or
// DefaultConditions when none were.
func (c *Catalog) Conditions() []string {
	src := c.conditions
	if len(src) == 0 {
		src = DefaultConditions
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Len returns the number of makes.
func (c *Catalog) Len() int { return len(c.makes) }
