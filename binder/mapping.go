package binder

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"propbind/internal/maputil"
)

// Mapping pins column-to-property bindings per type name. File format:
//
//	version: "1"
//	types:
//	  - type: User
//	    columns:
//	      user_id: ID
//	      display_name: Name
type Mapping struct {
	Version string

	index map[string]map[string]string // type name -> upper-cased column -> property
}

type mappingFile struct {
	Version string        `yaml:"version"`
	Types   []typeMapping `yaml:"types"`
}

type typeMapping struct {
	Type    string            `yaml:"type"`
	Columns map[string]string `yaml:"columns"`
}

// LoadMapping loads and parses a YAML mapping file from the given path.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return ParseMapping(data)
}

// ParseMapping parses YAML data into a Mapping.
func ParseMapping(data []byte) (*Mapping, error) {
	var mf mappingFile

	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if mf.Version == "" {
		mf.Version = "1"
	}

	m := &Mapping{
		Version: mf.Version,
		index:   make(map[string]map[string]string, len(mf.Types)),
	}

	for _, tm := range mf.Types {
		cols := maputil.ComputeIfAbsent(m.index, tm.Type, func(string) map[string]string {
			return make(map[string]string, len(tm.Columns))
		})

		for col, prop := range tm.Columns {
			cols[strings.ToUpper(col)] = prop
		}
	}

	return m, nil
}

// Lookup resolves a pinned property for a column of the named type. Columns
// match case-insensitively.
func (m *Mapping) Lookup(typeName, column string) (string, bool) {
	cols, ok := m.index[typeName]
	if !ok {
		return "", false
	}

	prop, ok := cols[strings.ToUpper(column)]

	return prop, ok
}
