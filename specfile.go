package schemaup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// specFile is the YAML shape of a SchemaSpec:
//
//	latest_version: 3
//	install:
//	  - CREATE TABLE users (id INTEGER PRIMARY KEY)
//	install_at:
//	  1:
//	    - CREATE TABLE users_v1 (id INTEGER PRIMARY KEY)
//	upgrades:
//	  2:
//	    - ALTER TABLE users ADD COLUMN name VARCHAR(255)
//
// All keys are optional; latest_version defaults to the highest upgrade key.
type specFile struct {
	LatestVersion int              `yaml:"latest_version"`
	Install       []string         `yaml:"install"`
	InstallAt     map[int][]string `yaml:"install_at"`
	Upgrades      map[int][]string `yaml:"upgrades"`
}

// ParseSpec decodes a YAML document into a validated SchemaSpec.
func ParseSpec(data []byte) (*SchemaSpec, error) {
	var file specFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ParseSpec: %w", err)
	}

	spec := &SchemaSpec{
		LatestVersion: file.LatestVersion,
		Install:       file.Install,
		InstallAt:     file.InstallAt,
		Upgrades:      file.Upgrades,
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// LoadSpec reads and parses a YAML spec file from disk.
func LoadSpec(path string) (*SchemaSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSpec: %w", err)
	}

	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("LoadSpec: spec file '%s' is invalid: %w", path, err)
	}

	return spec, nil
}
