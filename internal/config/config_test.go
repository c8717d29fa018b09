package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directord/a2dd/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"pre-tasks", "tasks", "post-tasks"}, cfg.Play.TaskListKeys)
	assert.Equal(t, []string{"defaults", "vars"}, cfg.Role.VarsDirs)
	assert.Equal(t, "tasks", cfg.Role.TasksDir)
	assert.Equal(t, []string{".yml", ".yaml"}, cfg.Role.Extensions)
	assert.Equal(t, []string{"molecule"}, cfg.Stats.SkipDirs)
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "tasks", cfg.Role.TasksDir)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a2dd.yml")
	content := `play:
  task_list_keys:
    - pre_tasks
    - tasks
    - post_tasks
role:
  tasks_dir: handlers
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pre_tasks", "tasks", "post_tasks"}, cfg.Play.TaskListKeys)
	assert.Equal(t, "handlers", cfg.Role.TasksDir)
	assert.Equal(t, []string{"defaults", "vars"}, cfg.Role.VarsDirs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("A2DD_ROLE__TASKS_DIR", "main_tasks")
	t.Setenv("A2DD_STATS__SKIP_DIRS", "molecule,tests")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "main_tasks", cfg.Role.TasksDir)
	assert.Equal(t, []string{"molecule", "tests"}, cfg.Stats.SkipDirs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no task list keys", func(c *Config) { c.Play.TaskListKeys = nil }, true},
		{"no tasks dir", func(c *Config) { c.Role.TasksDir = "" }, true},
		{"bad extension", func(c *Config) { c.Role.Extensions = []string{"yml"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestHelpers(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsTaskListKey("pre-tasks"))
	assert.False(t, cfg.IsTaskListKey("pre_tasks"))
	assert.True(t, cfg.HasYAMLExtension("main.yaml"))
	assert.False(t, cfg.HasYAMLExtension("README.md"))
}
