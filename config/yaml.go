package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// fromYAML flattens a YAML document into dotted keys. Nested mappings
// extend the key and underscores in a key act as dots, the same as for
// environment variables, so bucket_duration under window sets
// window.bucket.duration. Sequences of scalars become comma separated
// lists, which is how properties decodes slices.
func fromYAML(data []byte) (*properties.Properties, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	p := properties.NewProperties()
	p.DisableExpansion = true
	if err := flatten(p, "", doc); err != nil {
		return nil, err
	}
	return p, nil
}

func flatten(p *properties.Properties, prefix string, node any) error {
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(p, join(prefix, k), v[k]); err != nil {
				return err
			}
		}
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, child := range v {
			converted[fmt.Sprint(k)] = child
		}
		return flatten(p, prefix, converted)
	case []any:
		items := make([]string, 0, len(v))
		for i, item := range v {
			switch item.(type) {
			case map[string]any, map[any]any, []any:
				return fmt.Errorf("%s[%d]: nested values in lists are not supported", prefix, i)
			}
			items = append(items, fmt.Sprint(item))
		}
		p.Set(prefix, strings.Join(items, ",")) //nolint:errcheck // expansion is disabled
	case nil:
		p.Set(prefix, "") //nolint:errcheck // expansion is disabled
	default:
		p.Set(prefix, fmt.Sprint(v)) //nolint:errcheck // expansion is disabled
	}
	return nil
}

func join(prefix, key string) string {
	key = strings.ReplaceAll(key, "_", ".")
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
