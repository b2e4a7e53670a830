// Package config loads layered key/value configuration for kitz tools.
//
// Sources are applied in order and later ones override earlier ones:
// properties files, YAML files (flattened to dotted keys) and finally
// environment variables carrying a prefix. The merged set is decoded into
// structs with `properties` tags:
//
//	type Settings struct {
//		Window kitz.WindowConfig `properties:"window"`
//		Listen string            `properties:"http.listen,default=:9090"`
//	}
//
//	loader := config.NewLoader(
//		config.WithFile("windowstat.properties"),
//		config.WithEnvPrefix("KITZ"),
//	)
//	var s Settings
//	if err := loader.Decode(&s); err != nil {
//		return err
//	}
//
// With the prefix KITZ, the variable KITZ_WINDOW_BUCKET_COUNT sets the key
// window.bucket.count. Durations may be written as Go durations (90s) or
// as ISO-8601 durations (PT1M30S).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

// ErrUnsupportedFormat is returned for files that are neither properties
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader merges configuration sources into one property set.
type Loader struct {
	logger    *slog.Logger
	environ   func() []string
	defaults  map[string]string
	envPrefix string
	files     []file
}

type file struct {
	path     string
	optional bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFile adds a file source. The format follows the extension:
// .properties, .yaml or .yml. A missing file is an error.
func WithFile(path string) Option {
	return func(l *Loader) { l.files = append(l.files, file{path: path}) }
}

// WithOptionalFile adds a file source that is skipped when it does not exist.
func WithOptionalFile(path string) Option {
	return func(l *Loader) { l.files = append(l.files, file{path: path, optional: true}) }
}

// WithEnvPrefix enables environment variables named PREFIX_SOME_KEY, which
// set the key some.key.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = strings.TrimSuffix(prefix, "_") }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(fn func() []string) Option {
	return func(l *Loader) { l.environ = fn }
}

// WithDefaults sets values that every other source overrides.
func WithDefaults(defaults map[string]string) Option {
	return func(l *Loader) { l.defaults = defaults }
}

// WithLogger logs every applied source at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source and returns the merged properties.
func (l *Loader) Load() (*properties.Properties, error) {
	merged := properties.NewProperties()

	for key, value := range l.defaults {
		if _, _, err := merged.Set(key, value); err != nil {
			return nil, fmt.Errorf("config.Load: set default %s failed: %w", key, err)
		}
	}

	for _, f := range l.files {
		p, err := readFile(f.path)
		if err != nil {
			if f.optional && errors.Is(err, os.ErrNotExist) {
				l.log("config source missing", "path", f.path)
				continue
			}
			return nil, fmt.Errorf("config.Load: read %s failed: %w", f.path, err)
		}
		merged.Merge(p)
		l.log("config source loaded", "path", f.path, "keys", p.Len())
	}

	if l.envPrefix != "" {
		env := fromEnviron(l.environ(), l.envPrefix)
		merged.Merge(env)
		l.log("config source loaded", "env_prefix", l.envPrefix, "keys", env.Len())
	}

	return merged, nil
}

// Decode loads all sources and decodes them into v, which must be a
// pointer to a struct.
func (l *Loader) Decode(v any) error {
	p, err := l.Load()
	if err != nil {
		return err
	}
	return Decode(p, v)
}

// Decode normalizes ISO-8601 durations in p and decodes it into v.
func Decode(p *properties.Properties, v any) error {
	if err := normalizeDurations(p); err != nil {
		return fmt.Errorf("config.Decode: normalize durations failed: %w", err)
	}
	if err := p.Decode(v); err != nil {
		return fmt.Errorf("config.Decode: decode failed: %w", err)
	}
	return nil
}

func (l *Loader) log(msg string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(msg, args...)
}

func readFile(path string) (*properties.Properties, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties":
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return properties.LoadFile(path, properties.UTF8)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return fromYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// fromEnviron turns PREFIX_A_B=v entries into a.b=v.
func fromEnviron(environ []string, prefix string) *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true

	prefix += "_"
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "."))
		p.Set(key, value) //nolint:errcheck // expansion is disabled so Set cannot fail
	}
	return p
}
