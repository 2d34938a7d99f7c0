// Package config loads raw hierarchical configuration data and binds
// it into typed, validated nodes consumed by components.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source is a mapping-like view over raw configuration values,
// regardless of backing store. Keys are dot-separated hierarchical
// paths, e.g. "server.port".
type Source interface {
	// Lookup returns the raw value for a key and whether it is present.
	Lookup(key string) (any, bool)
}

// MapSource exposes nested maps as a Source. Nested map[string]any
// values are addressed through dot-separated keys.
type MapSource map[string]any

func (m MapSource) Lookup(key string) (any, bool) {
	var current any = map[string]any(m)
	for _, part := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// EnvSource reads configuration from environment variables. A key
// "server.port" maps to "<PREFIX>SERVER_PORT".
type EnvSource struct {
	// Prefix is prepended to every mapped variable name, e.g. "APP_".
	Prefix string
}

// NewEnvSource creates an environment-backed source, loading the given
// dotenv files first. Missing files are not an error; an unreadable
// file is.
func NewEnvSource(prefix string, dotenvFiles ...string) (*EnvSource, error) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return &EnvSource{Prefix: prefix}, nil
}

func (e *EnvSource) Lookup(key string) (any, bool) {
	name := e.Prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, false
	}
	return v, true
}

// FileSource loads a YAML document into a MapSource.
func FileSource(path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return MapSource(doc), nil
}

// Layered combines sources so that later sources override earlier
// ones, the usual file-then-environment overlay.
type Layered []Source

func (l Layered) Lookup(key string) (any, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if v, ok := l[i].Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}
