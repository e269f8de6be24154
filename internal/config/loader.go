// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/authcore/pkg/errutil"
)

// DefaultEnvPrefix prefixes environment overrides, e.g.
// AUTHCORE_DATABASE_URL or AUTHCORE_TTL_PASSWORD_RESET.
const DefaultEnvPrefix = "AUTHCORE_"

// Loader merges configuration sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	flags     *pflag.FlagSet
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile reads a YAML file. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithFlags applies changed flags from fs. A flag named section-key maps to
// section.key; later hyphens become underscores, so
// --database-connect-attempts sets database.connect_attempts.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *Loader) { l.flags = fs }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{k: koanf.New("."), envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges every source, unmarshals and validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if l.filePath != "" {
		data, err := os.ReadFile(l.filePath)
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", l.filePath).Wrap(err)
		}
		if err := ValidateFile(data); err != nil {
			return nil, oops.With("path", l.filePath).Wrap(err)
		}
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", l.filePath).Wrap(err)
		}
	}

	keys := l.envKeys()
	if err := l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		return keys[strings.TrimPrefix(s, l.envPrefix)]
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if l.flags != nil {
		provider := posflag.ProviderWithFlag(l.flags, ".", l.k, func(f *pflag.Flag) (string, any) {
			key := flagKey(f.Name)
			if !l.k.Exists(key) {
				return "", nil
			}
			return key, posflag.FlagVal(l.flags, f)
		})
		if err := l.k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").In(errutil.DomainValidation).Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeys maps upper-cased env suffixes to the known dotted keys, so
// keys that contain underscores survive the translation.
func (l *Loader) envKeys() map[string]string {
	keys := make(map[string]string)
	for _, k := range l.k.Keys() {
		keys[strings.ToUpper(strings.ReplaceAll(k, ".", "_"))] = k
	}
	return keys
}

func flagKey(name string) string {
	section, rest, ok := strings.Cut(name, "-")
	if !ok {
		return name
	}
	return section + "." + strings.ReplaceAll(rest, "-", "_")
}

// mapProvider feeds an in-memory map to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, oops.Errorf("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return unflatten(out), nil
}

func unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return out
}
