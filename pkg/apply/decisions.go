package apply

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// LoadDecisions loads a decision map from a YAML or JSON file keyed by
// suggestion key, e.g.
//
//	style/MSTP.003@19-25: true
//	grammar/MISSING_APOSTROPHE@4-7: false
//
// The format is determined by the file extension.
func LoadDecisions(path string) (Decisions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading decisions file: %w", err)
	}

	var decisions Decisions
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&decisions); err != nil {
			return nil, errors.Errorf("parsing JSON decisions: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &decisions); err != nil {
			return nil, errors.Errorf("parsing YAML decisions: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported decisions file extension %q", ext)
	}

	return decisions, nil
}

// AcceptAll builds a decision map accepting every given suggestion key.
func AcceptAll(keys []string) Decisions {
	d := make(Decisions, len(keys))
	for _, k := range keys {
		d[k] = true
	}
	return d
}
