// Package models loads the trained price predictors together with the
// feature schema each one was trained against.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/features"
)

// Entry binds a variant to its predictor, schema and output scale.
type Entry struct {
	Variant   Variant
	Predictor Predictor
	Schema    features.Schema
	Scaler    *features.Scaler
	Output    Output
}

// Options returns the encoder options matching the entry.
func (e Entry) Options() []features.Option {
	return []features.Option{features.WithScaler(e.Scaler)}
}

// Registry is the immutable set of loaded variants.
type Registry struct {
	entries     []Entry
	fingerprint string
}

// New builds a registry from entries, ordered by variant. Entries without an
// Output get the variant default.
func New(entries ...Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("registry needs at least one variant")
	}
	seen := make(map[Variant]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Variant] {
			return nil, fmt.Errorf("variant %s registered twice", e.Variant)
		}
		seen[e.Variant] = true
		if e.Predictor == nil {
			return nil, fmt.Errorf("variant %s has no predictor", e.Variant)
		}
		if err := e.Schema.Validate(); err != nil {
			return nil, fmt.Errorf("variant %s: %w", e.Variant, err)
		}
		if e.Output == "" {
			e.Output = e.Variant.DefaultOutput()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return &Registry{entries: out}, nil
}

// Entries returns the loaded variants in evaluation order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Fingerprint identifies the artifact bytes a loaded registry was built from.
// It is empty for registries assembled with New.
func (r *Registry) Fingerprint() string { return r.fingerprint }

// Entry returns the entry of v.
func (r *Registry) Entry(v Variant) (Entry, bool) {
	for _, e := range r.entries {
		if e.Variant == v {
			return e, true
		}
	}
	return Entry{}, false
}

// Paths lists the artifact locations of a variant inside dir.
type Paths struct {
	Model   string
	Columns string
	Scaler  string
}

// ArtifactPaths returns where v's artifacts live inside dir.
func ArtifactPaths(dir string, v Variant) Paths {
	p := v.FilePrefix()
	return Paths{
		Model:   filepath.Join(dir, p+"_model.json"),
		Columns: filepath.Join(dir, p+"_columns.json"),
		Scaler:  filepath.Join(dir, p+"_scaler.json"),
	}
}

// Load reads every variant from dir. Loading is all or nothing: the first
// missing or invalid artifact aborts with a *LoadError. The linear schema is
// read first since no estimate can be served without it.
func Load(dir string, log *zap.Logger) (*Registry, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, &LoadError{Variant: "registry", Path: dir, Err: err}
	}

	digest := sha256.New()
	linearPaths := ArtifactPaths(dir, Linear)
	linearSchema, err := decodeSchema(linearPaths.Columns, digest)
	if err != nil {
		return nil, &LoadError{Variant: Linear.String(), Path: linearPaths.Columns, Err: err}
	}

	entries := make([]Entry, 0, len(Variants))
	for _, v := range Variants {
		paths := ArtifactPaths(dir, v)
		log.Info("loading model", zap.Stringer("variant", v), zap.String("path", paths.Model))

		schema := linearSchema
		if v != Linear {
			if schema, err = decodeSchema(paths.Columns, digest); err != nil {
				return nil, &LoadError{Variant: v.String(), Path: paths.Columns, Err: err}
			}
		}

		predictor, output, err := decodeModel(paths.Model, schema.Len(), digest)
		if err != nil {
			return nil, &LoadError{Variant: v.String(), Path: paths.Model, Err: err}
		}

		var scaler *features.Scaler
		if _, statErr := os.Stat(paths.Scaler); statErr == nil {
			if scaler, err = decodeScaler(paths.Scaler, digest); err != nil {
				return nil, &LoadError{Variant: v.String(), Path: paths.Scaler, Err: err}
			}
		} else {
			log.Debug("no scaler artifact, numeric columns are not standardized",
				zap.Stringer("variant", v))
		}

		entries = append(entries, Entry{
			Variant:   v,
			Predictor: predictor,
			Schema:    schema,
			Scaler:    scaler,
			Output:    output,
		})
	}

	reg, err := New(entries...)
	if err != nil {
		return nil, &LoadError{Variant: "registry", Path: dir, Err: err}
	}
	reg.fingerprint = hex.EncodeToString(digest.Sum(nil))
	log.Info("models loaded",
		zap.Int("variants", len(reg.entries)), zap.String("fingerprint", reg.fingerprint))
	return reg, nil
}
