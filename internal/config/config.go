// Package config loads the two on-disk inputs the CLI harness needs:
// the YAML policy document and the JSON policy context snapshot. The
// core engine itself never touches a filesystem; it is handed already
// decoded policytypes.PolicyConfig / policytypes.PolicyContext values.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/absurd-party/deploynaut/internal/policytypes"
)

// LoadPolicy reads and decodes a PolicyConfig from a YAML file.
func LoadPolicy(path string) (*policytypes.PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var cfg policytypes.PolicyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode policy file: %w", err)
	}

	if _, err := cfg.RuleMap(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadContext reads and decodes a PolicyContext snapshot from a JSON
// file — the shape a webhook handler would otherwise build from a
// hosting provider's API.
func LoadContext(path string) (*policytypes.PolicyContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}

	var ctx policytypes.PolicyContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("decode context file: %w", err)
	}

	return &ctx, nil
}
