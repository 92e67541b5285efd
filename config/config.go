package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/ndarray/dtype"
)

var NdarrayDir = func() string {
	dir, err := homedir.Dir()
	if err != nil {
		log.Fatalf("couldn't get user home directory: %s", err)
	}
	return filepath.Join(dir, ".ndarray")
}()

// SupportedVersions is the constraint the config file version has to satisfy.
const SupportedVersions = "^1.0"

type Config struct {
	Version string `yaml:"version"`
	// Types maps alias names to type specs, e.g. point: "{x: float64; y: float64}".
	Types  map[string]string      `yaml:"types"`
	Output map[string]interface{} `yaml:"output"`
}

func Read() (*Config, error) {
	return ReadFile(filepath.Join(NdarrayDir, "config.yaml"))
}

// ReadFile reads the config at the given path. A missing file is an empty config.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{
			Types:  map[string]string{},
			Output: map[string]interface{}{},
		}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't read config file")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	if config.Version != "" {
		version, err := semver.NewVersion(config.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid config version '%s'", config.Version)
		}
		constraint, err := semver.NewConstraint(SupportedVersions)
		if err != nil {
			panic(err)
		}
		if !constraint.Check(version) {
			return nil, errors.Errorf("unsupported config version %s, expected %s", version, SupportedVersions)
		}
	}

	if config.Types == nil {
		config.Types = map[string]string{}
	}
	if config.Output == nil {
		config.Output = map[string]interface{}{}
	}
	cleanupMaps(config.Output)

	return &config, nil
}

// TypeAliases parses the configured aliases. Aliases may refer to each other,
// in any order, but not cyclically.
func (config *Config) TypeAliases() (map[string]dtype.Type, error) {
	pending := make([]string, 0, len(config.Types))
	for name := range config.Types {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	out := make(map[string]dtype.Type, len(pending))
	for len(pending) > 0 {
		var unresolved []string
		var lastErr error
		for _, name := range pending {
			t, err := dtype.Parse(config.Types[name], dtype.WithAliases(out))
			if err != nil {
				unresolved = append(unresolved, name)
				if lastErr == nil {
					lastErr = errors.Wrapf(err, "couldn't parse type alias '%s'", name)
				}
				continue
			}
			out[name] = t
		}
		if len(unresolved) == len(pending) {
			return nil, lastErr
		}
		pending = unresolved
	}

	return out, nil
}

// The yaml decoder creates maps of type map[interface{}]interface{} for
// non-string keys. cleanupMaps will change them to map[string]interface{}.
func cleanupMaps(config map[string]interface{}) {
	for k, v := range config {
		config[k] = cleanupMapsRecursive(v)
	}
}

func cleanupMapsRecursive(config interface{}) interface{} {
	switch config := config.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{})
		for k, v := range config {
			out[fmt.Sprintf("%v", k)] = cleanupMapsRecursive(v)
		}
		return out
	case map[string]interface{}:
		cleanupMaps(config)
	case []interface{}:
		for i := range config {
			config[i] = cleanupMapsRecursive(config[i])
		}
	}

	return config
}
