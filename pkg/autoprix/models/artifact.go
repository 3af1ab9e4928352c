package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/features"
)

const (
	kindLinear       = "linear"
	kindTreeEnsemble = "tree_ensemble"
)

const columnsSchema = `{
	"type": "array",
	"minItems": 1,
	"uniqueItems": true,
	"items": {"type": "string", "minLength": 1}
}`

const modelSchema = `{
	"type": "object",
	"required": ["kind"],
	"properties": {
		"kind": {"enum": ["linear", "tree_ensemble"]},
		"output": {"enum": ["log", "identity"]},
		"intercept": {"type": "number"},
		"coefficients": {"type": "array", "minItems": 1, "items": {"type": "number"}},
		"base_score": {"type": "number"},
		"trees": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["nodes"],
				"properties": {
					"nodes": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["left"],
							"properties": {
								"feature": {"type": "integer"},
								"threshold": {"type": "number"},
								"left": {"type": "integer"},
								"right": {"type": "integer"},
								"leaf": {"type": "number"}
							},
							"if": {"properties": {"left": {"minimum": 0}}},
							"then": {"required": ["feature", "threshold", "right"]}
						}
					}
				}
			}
		}
	},
	"allOf": [
		{"if": {"properties": {"kind": {"const": "linear"}}}, "then": {"required": ["coefficients"]}},
		{"if": {"properties": {"kind": {"const": "tree_ensemble"}}}, "then": {"required": ["trees"]}}
	]
}`

const scalerSchema = `{
	"type": "object",
	"required": ["mean"],
	"properties": {
		"mean": {"type": "object", "additionalProperties": {"type": "number"}},
		"scale": {"type": "object", "additionalProperties": {"type": "number"}}
	}
}`

var (
	columnsValidator = mustCompile(columnsSchema)
	modelValidator   = mustCompile(modelSchema)
	scalerValidator  = mustCompile(scalerSchema)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid artifact schema: %v", err))
	}
	return s
}

// readArtifact reads path and checks it against validator. The file name and
// content are written to digest when it is not nil.
func readArtifact(path string, validator *gojsonschema.Schema, digest io.Writer) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if digest != nil {
		fmt.Fprintf(digest, "%s:%d:", filepath.Base(path), len(data))
		digest.Write(data)
	}
	res, err := validator.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	return data, nil
}

func decodeSchema(path string, digest io.Writer) (features.Schema, error) {
	data, err := readArtifact(path, columnsValidator, digest)
	if err != nil {
		return features.Schema{}, err
	}
	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return features.Schema{}, err
	}
	return features.NewSchema(cols)
}

type modelArtifact struct {
	Kind   string `json:"kind"`
	Output Output `json:"output"`
	LinearModel
	TreeEnsemble
}

// decodeModel reads a predictor and checks it fits a schema of dim columns.
func decodeModel(path string, dim int, digest io.Writer) (Predictor, Output, error) {
	data, err := readArtifact(path, modelValidator, digest)
	if err != nil {
		return nil, "", err
	}
	var a modelArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, "", err
	}

	switch a.Kind {
	case kindLinear:
		m := a.LinearModel
		if err := m.check(dim); err != nil {
			return nil, "", err
		}
		return &m, a.Output, nil
	case kindTreeEnsemble:
		m := a.TreeEnsemble
		if err := m.check(dim); err != nil {
			return nil, "", err
		}
		return &m, a.Output, nil
	}
	return nil, "", fmt.Errorf("unknown model kind %q", a.Kind)
}

func decodeScaler(path string, digest io.Writer) (*features.Scaler, error) {
	data, err := readArtifact(path, scalerValidator, digest)
	if err != nil {
		return nil, err
	}
	var s features.Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
