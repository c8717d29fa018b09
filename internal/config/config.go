package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/directord/a2dd/internal/errors"
)

// DefaultPath is the config file looked up when --config is not given.
// A missing file at this path is not an error.
const DefaultPath = "a2dd.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: A2DD_ROLE__TASKS_DIR sets role.tasks_dir.
const EnvPrefix = "A2DD_"

// Config represents the complete converter configuration.
type Config struct {
	Play  PlayConfig  `koanf:"play"`
	Role  RoleConfig  `koanf:"role"`
	Stats StatsConfig `koanf:"stats"`
}

// PlayConfig controls how plays are flattened.
type PlayConfig struct {
	// TaskListKeys are the play keys whose values are flattened as task
	// lists, in the order they appear in the play.
	TaskListKeys []string `koanf:"task_list_keys"`
}

// RoleConfig defines the role directory layout.
type RoleConfig struct {
	VarsDirs   []string `koanf:"vars_dirs"`
	TasksDir   string   `koanf:"tasks_dir"`
	Extensions []string `koanf:"extensions"`
}

// StatsConfig configures the corpus statistics walker.
type StatsConfig struct {
	SkipDirs []string `koanf:"skip_dirs"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"play.task_list_keys": []string{"pre-tasks", "tasks", "post-tasks"},
		"role.vars_dirs":      []string{"defaults", "vars"},
		"role.tasks_dir":      "tasks",
		"role.extensions":     []string{".yml", ".yaml"},
		"stats.skip_dirs":     []string{"molecule"},
	}
}

// Default returns the configuration with only built-in values applied.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Built-in defaults always unmarshal and validate.
		panic(err)
	}
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (if
// any), and A2DD_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "loading defaults")
	}

	// 2. Config file
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "loading config file %s", path)
			}
		} else if !os.IsNotExist(err) || path != DefaultPath {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "reading config file %s", path)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "loading environment")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "parsing configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for required fields and consistency.
func (c *Config) Validate() error {
	if len(c.Play.TaskListKeys) == 0 {
		return errors.New(errors.ErrConfigValid, "play.task_list_keys must not be empty")
	}
	if c.Role.TasksDir == "" {
		return errors.New(errors.ErrConfigValid, "role.tasks_dir is required")
	}
	if len(c.Role.Extensions) == 0 {
		return errors.New(errors.ErrConfigValid, "role.extensions must not be empty")
	}
	for _, ext := range c.Role.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf(errors.ErrConfigValid, "role.extensions entry %q must start with a dot", ext)
		}
	}
	return nil
}

// IsTaskListKey reports whether key names a play task list.
func (c *Config) IsTaskListKey(key string) bool {
	for _, k := range c.Play.TaskListKeys {
		if k == key {
			return true
		}
	}
	return false
}

// HasYAMLExtension reports whether name ends in one of the configured
// extensions.
func (c *Config) HasYAMLExtension(name string) bool {
	for _, ext := range c.Role.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// String renders the effective configuration for verbose output.
func (c *Config) String() string {
	return fmt.Sprintf("play.task_list_keys=%v role.vars_dirs=%v role.tasks_dir=%s role.extensions=%v stats.skip_dirs=%v",
		c.Play.TaskListKeys, c.Role.VarsDirs, c.Role.TasksDir, c.Role.Extensions, c.Stats.SkipDirs)
}
