// Package config fills the flat CLI options struct from a TOML file and
// LAUNCHER_* environment variables, and watches the file for changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/launcher/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every `env` tag.
const EnvPrefix = "LAUNCHER_"

var durationType = reflect.TypeOf(time.Duration(0))

// LoadConfig fills opts, a pointer to a flat struct, with precedence
// CLI flag > environment > TOML file > existing value.
//
// Fields opt in with `toml:"section.key"` and `env:"KEY"` tags. The file path is
// read from a string field named Config. A missing file is not an error.
// Flags that cmd reports as changed are left untouched.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	changed := map[string]bool{}
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	}

	file, err := readTOML(configPath(v))
	if err != nil {
		return err
	}

	for i := range t.NumField() {
		sf := t.Field(i)
		field := v.Field(i)
		if !sf.IsExported() || changed[flagName(sf)] {
			continue
		}

		if key := sf.Tag.Get("toml"); key != "" && file != nil {
			if raw := lookup(file, key); raw != nil {
				if err := assign(field, raw); err != nil {
					return fmt.Errorf("config %s: %w", key, err)
				}
			}
		}

		if key := sf.Tag.Get("env"); key != "" {
			if raw, ok := os.LookupEnv(EnvPrefix + key); ok && raw != "" {
				if err := assignString(field, raw); err != nil {
					return fmt.Errorf("env %s%s: %w", EnvPrefix, key, err)
				}
			}
		}
	}

	return nil
}

func configPath(v reflect.Value) string {
	f := v.FieldByName("Config")
	if f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return ""
}

func readTOML(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return doc, nil
}

// flagName mirrors humacli: an explicit `name` tag, otherwise the kebab-cased field name.
func flagName(sf reflect.StructField) string {
	if name := sf.Tag.Get("name"); name != "" {
		return name
	}
	var b strings.Builder
	for i, r := range sf.Name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lookup resolves a dotted key such as "display.width".
func lookup(doc map[string]any, key string) any {
	var cur any = doc
	for _, part := range strings.Split(key, ".") {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = table[part]
	}
	return cur
}

// assign stores a decoded TOML value into field.
func assign(field reflect.Value, raw any) error {
	if !field.CanSet() {
		return nil
	}

	if field.Type() == durationType {
		switch val := raw.(type) {
		case string:
			return assignString(field, val)
		case int64:
			field.SetInt(int64(time.Duration(val) * time.Millisecond))
			return nil
		}
		return fmt.Errorf("expected duration string or milliseconds, got %T", raw)
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := raw.(string); ok {
			field.SetString(s)
			return nil
		}
	case reflect.Bool:
		if b, ok := raw.(bool); ok {
			field.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		if n, ok := raw.(int64); ok {
			field.SetInt(n)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch n := raw.(type) {
		case float64:
			field.SetFloat(n)
			return nil
		case int64:
			field.SetFloat(float64(n))
			return nil
		}
	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			break
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string array element, got %T", item)
			}
			out = append(out, s)
		}
		field.Set(reflect.ValueOf(out))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", raw, field.Type())
}

// assignString parses an environment value into field. Slices are comma separated.
func assignString(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return nil
	}

	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}

// LoadLogging reads the [logging] table. Keys other than level and format are
// module overrides, as is everything under [logging.modules].
func LoadLogging(path string) (logging.Config, error) {
	cfg := logging.Config{Level: "info", Format: "text", Modules: map[string]string{}}

	doc, err := readTOML(path)
	if err != nil || doc == nil {
		return cfg, err
	}

	table, _ := doc["logging"].(map[string]any)
	for key, raw := range table {
		switch val := raw.(type) {
		case string:
			switch key {
			case "level":
				cfg.Level = val
			case "format":
				cfg.Format = val
			default:
				cfg.Modules[key] = val
			}
		case map[string]any:
			if key != "modules" {
				continue
			}
			for module, level := range val {
				if s, ok := level.(string); ok {
					cfg.Modules[module] = s
				}
			}
		}
	}
	return cfg, nil
}

// LoadLoggingConfig is LoadLogging with errors replaced by defaults.
func LoadLoggingConfig(path string) logging.Config {
	cfg, err := LoadLogging(path)
	if err != nil {
		return logging.Config{Level: "info", Format: "text", Modules: map[string]string{}}
	}
	return cfg
}
