package enum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/jsinterop/errors"
)

// Table is a declaration table for one enum type, the data form of a
// []Member slice. Members without a value continue from the previous
// member's value plus one, starting at zero.
type Table struct {
	Type    string        `yaml:"type" toml:"type" json:"type"`
	Members []TableMember `yaml:"members" toml:"members" json:"members"`
}

// TableMember is one row of a Table. A present Export, Convert or Aliases
// field attaches export metadata; an empty Export string keeps the member name.
type TableMember struct {
	Value   *int64   `yaml:"value,omitempty" toml:"value,omitempty" json:"value,omitempty"`
	Export  *string  `yaml:"export,omitempty" toml:"export,omitempty" json:"export,omitempty"`
	Name    string   `yaml:"name" toml:"name" json:"name"`
	Convert string   `yaml:"convert,omitempty" toml:"convert,omitempty" json:"convert,omitempty"`
	Aliases []string `yaml:"aliases,omitempty" toml:"aliases,omitempty" json:"aliases,omitempty"`
	Hidden  bool     `yaml:"hidden,omitempty" toml:"hidden,omitempty" json:"hidden,omitempty"`
}

// Table formats, keyed by file extension without the dot.
const (
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
	FormatJSONC = "jsonc"
)

// FormatFromPath maps a file extension to a table format, or "".
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return ""
	}
}

// ParseTable decodes a declaration table in the given format.
func ParseTable(data []byte, format string) (*Table, error) {
	var t Table
	var err error

	switch format {
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &t)
	case FormatTOML:
		err = toml.Unmarshal(data, &t)
	case FormatJSONC, "json":
		err = json.Unmarshal(jsonc.ToJSON(data), &t)
	default:
		return nil, errors.InvalidInput(errors.PhaseRegister, fmt.Sprintf("unknown table format %q", format))
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, err, "decode "+format+" enum table")
	}
	if t.Type == "" {
		return nil, errors.InvalidInput(errors.PhaseRegister, "enum table has no type name")
	}
	return &t, nil
}

// LoadTable reads a declaration table, picking the format from the extension.
func LoadTable(path string) (*Table, error) {
	format := FormatFromPath(path)
	if format == "" {
		return nil, errors.InvalidInput(errors.PhaseRegister, fmt.Sprintf("%s: unrecognized table extension", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enum table: %w", err)
	}
	t, err := ParseTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadDir loads every table file in dir, in name order.
// Files with other extensions are skipped.
func LoadDir(dir string) ([]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read enum table dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || FormatFromPath(e.Name()) == "" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		t, err := LoadTable(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Bind converts a table into members of E, checking that every value fits E.
func Bind[E Integer](t *Table) ([]Member[E], error) {
	out := make([]Member[E], 0, len(t.Members))
	next := int64(0)

	for _, tm := range t.Members {
		v := next
		if tm.Value != nil {
			v = *tm.Value
		}

		e := E(v)
		if back, ok := keyOf(e); !ok || back != v {
			return nil, errors.Overflow(errors.PhaseRegister, []string{t.Type, tm.Name}, v, fmt.Sprintf("%T", e))
		}

		m := Member[E]{Name: tm.Name, Value: e, Hidden: tm.Hidden}
		if tm.Export != nil || tm.Convert != "" || len(tm.Aliases) > 0 {
			conv, err := ParseConversion(tm.Convert)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseRegister, errors.KindInvalidInput, err, t.Type+"."+tm.Name)
			}
			exp := &Export{Convert: conv, Aliases: append([]string(nil), tm.Aliases...)}
			if tm.Export != nil {
				exp.Name = *tm.Export
			}
			m.Export = exp
		}
		out = append(out, m)
		next = v + 1
	}
	return out, nil
}

// RegisterTable registers E with the members declared by t.
func RegisterTable[E Integer](t *Table) error {
	members, err := Bind[E](t)
	if err != nil {
		return err
	}
	return Register(t.Type, func() []Member[E] { return members })
}

// BuildTable builds an int64-keyed descriptor from t without a Go type,
// for tooling that only needs the resolved representations.
func BuildTable(t *Table) (*Descriptor[int64], error) {
	members, err := Bind[int64](t)
	if err != nil {
		return nil, err
	}
	return Build(t.Type, members)
}
