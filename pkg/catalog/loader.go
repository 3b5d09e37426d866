package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a rule catalog.
type File struct {
	Rules []Definition `json:"rules" yaml:"rules" hcl:"rule,block"`
}

// Load loads rule definitions from the given path. The format is determined
// by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .flarecheck will try both YAML and HCL formats
func Load(ctx context.Context, path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading catalog file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	// For .flarecheck files, try both YAML and HCL
	if ext == ".flarecheck" || filepath.Base(path) == ".flarecheck" {
		defs, yamlErr := loadYAML(data)
		if yamlErr == nil {
			return defs, nil
		}
		defs, hclErr := loadHCL(data, path)
		if hclErr == nil {
			return defs, nil
		}
		return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", path, yamlErr)
	}

	switch ext {
	case ".json":
		return loadJSON(data)
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".hcl":
		return loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported catalog file extension %q", ext)
	}
}

// loadJSON loads definitions from JSON data
func loadJSON(data []byte) ([]Definition, error) {
	var f File
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&f); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return f.Rules, nil
}

// loadYAML loads definitions from YAML data
func loadYAML(data []byte) ([]Definition, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return f.Rules, nil
}

// loadHCL loads definitions from HCL data
func loadHCL(data []byte, filename string) ([]Definition, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &f)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return f.Rules, nil
}
