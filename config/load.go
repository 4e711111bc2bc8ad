package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/emmet/errors"
)

// EnvPrefix prefixes environment overrides: EMMET_SERVER_TRANSPORT sets
// server.transport
const EnvPrefix = "EMMET"

// ProjectConfigName is looked up from the working directory upwards
const ProjectConfigName = "emmet.toml"

// Load reads configuration from, in increasing precedence, the system
// file, the user file, the nearest project file and the environment
func Load() (*Config, error) {
	return LoadWithViper(newViper(SearchPaths()))
}

// LoadFromFile loads configuration from a specific file path over the
// defaults. The environment is still consulted.
func LoadFromFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(newViper([]string{configPath}))
}

// LoadFromDefaults returns the built-in defaults with environment
// overrides, ignoring every config file
func LoadFromDefaults() (*Config, error) {
	return LoadWithViper(newViper(nil))
}

// LoadWithViper unmarshals and validates the configuration held by v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(paths []string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v, paths)
	return v
}

// SearchPaths lists the candidate config files, lowest precedence first
func SearchPaths() []string {
	paths := []string{"/etc/emmet/config.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".emmet", "config.toml"))
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// findProjectConfig walks up from the working directory looking for
// emmet.toml
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each existing file over the previous ones.
// Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper, paths []string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
	}
}
