package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadArgs reads an Ansible args file, decodes it into params and validates
// the result. It is the entry point used by the module runner.
//
// params must be a pointer to a struct. When it implements Defaulter, its
// defaults are applied before decoding so that keys present in the file win.
func LoadArgs(path string, params any) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read args file: %w", err)
	}

	meta, err := ParseArgs(data, params)
	if err != nil {
		return nil, err
	}

	if err := Validate(params); err != nil {
		return meta, err
	}

	return meta, nil
}

// ParseArgs decodes raw args into params without validating.
//
// JSON is valid YAML, so the document is parsed with yaml.v3 into a generic
// map first. The map is then decoded with weak typing because templated task
// arguments frequently arrive as strings ("8080", "true").
func ParseArgs(data []byte, params any) (*Meta, error) {
	raw, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	var meta Meta
	if err := decode(raw, &meta); err != nil {
		return nil, fmt.Errorf("invalid ansible metadata: %w", err)
	}

	if params != nil {
		applyDefaults(params)
		if err := decode(raw, params); err != nil {
			return nil, fmt.Errorf("invalid module arguments: %w", err)
		}
	}

	return &meta, nil
}

// ParseMap decodes an already-parsed parameter map (lookup keyword arguments)
// into params, applying defaults first.
func ParseMap(raw map[string]any, params any) error {
	applyDefaults(params)
	if err := decode(raw, params); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// ReadRaw reads an args file into a generic map without decoding it into a
// params struct.
func ReadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read args file: %w", err)
	}
	return parseRaw(data)
}

// parseRaw parses the args document into a map.
func parseRaw(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("args file is empty")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("args file does not contain an object")
	}

	return raw, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Squash:           true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
