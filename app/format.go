package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// format is an output format of the list command
type format int

const (
	formatText format = iota
	formatJSON
	formatYAML
	formatTOML
	formatINI
)

var formatNames = map[format]string{
	formatText: "text",
	formatJSON: "json",
	formatYAML: "yaml",
	formatTOML: "toml",
	formatINI:  "ini",
}

func (f format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// parseFormat converts a format name to format, empty name means text.
func parseFormat(name string) (format, error) {
	if name == "" {
		return formatText, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return formatText, fmt.Errorf("unknown format %q", name)
}

// writeMap writes key-value pairs to w in the given format, keys sorted.
func writeMap(w io.Writer, f format, kv map[string]string) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch f {
	case formatText:
		for _, k := range keys {
			if _, err := fmt.Fprintf(w, "%s=%s\n", k, kv[k]); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(kv)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(kv); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case formatTOML:
		if err := toml.NewEncoder(w).Encode(kv); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		return nil
	case formatINI:
		cfg := ini.Empty()
		sec := cfg.Section("")
		for _, k := range keys {
			if _, err := sec.NewKey(k, kv[k]); err != nil {
				return fmt.Errorf("failed to add ini key %q: %w", k, err)
			}
		}
		_, err := cfg.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unsupported format %s", f)
	}
}
