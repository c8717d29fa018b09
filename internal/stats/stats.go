// Package stats counts module usage across a corpus of automation content.
//
// It finds tasks in task lists, blocks, plays and the role_data section of
// Heat templates, resolves each with the same action resolver the converter
// uses, and tallies the result. A file that fails to load or holds a task
// that cannot be resolved is recorded and skipped; collection continues.
package stats

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/directord/a2dd/internal/config"
	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/logging"
	"github.com/directord/a2dd/internal/parser"
)

// HeatTaskKeys are the role_data entries of a Heat template that hold task
// lists.
var HeatTaskKeys = []string{
	"upgrade_tasks",
	"pre_upgrade_rolling_tasks",
	"post_upgrade_tasks",
	"update_tasks",
	"post_update_tasks",
	"host_prep_tasks",
	"external_deploy_tasks",
	"external_post_deploy_tasks",
}

// playTaskKeys are read from plays in both spellings.
var playTaskKeys = []string{"pre_tasks", "pre-tasks", "tasks", "post_tasks", "post-tasks"}

// FileError records a problem found in one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Collector accumulates action statistics.
type Collector struct {
	cfg    *config.Config
	logger zerolog.Logger

	actions map[string]int
	options map[string]map[string]struct{}
	files   int
	tasks   int
	errs    []FileError
}

// New creates a Collector. A nil cfg uses the built-in defaults.
func New(cfg *config.Config) *Collector {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Collector{
		cfg:     cfg,
		logger:  logging.GetLogger("stats"),
		actions: make(map[string]int),
		options: make(map[string]map[string]struct{}),
	}
}

// AddPath collects from a file, or from every YAML file below a directory.
// Directories named in stats.skip_dirs are not entered.
func (c *Collector) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "reading %s", path)
	}
	if !info.IsDir() {
		c.AddFile(path)
		return nil
	}

	skip := make(map[string]bool, len(c.cfg.Stats.SkipDirs))
	for _, d := range c.cfg.Stats.SkipDirs {
		skip[d] = true
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && skip[d.Name()] {
				c.logger.Debug().Str("dir", p).Msg("Skipping directory")
				return filepath.SkipDir
			}
			return nil
		}
		if c.cfg.HasYAMLExtension(d.Name()) {
			c.AddFile(p)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "walking %s", path)
	}
	return nil
}

// AddFile collects the tasks of one file. Problems are recorded, not
// returned.
func (c *Collector) AddFile(path string) {
	c.files++
	content, err := document.LoadFile(path)
	if err != nil {
		c.fail(path, err)
		return
	}

	for _, task := range Tasks(content) {
		c.tasks++
		if err := c.record(task); err != nil {
			c.fail(path, err)
		}
	}
}

func (c *Collector) fail(path string, err error) {
	c.logger.Warn().Str("file", path).Str("code", string(errors.GetErrorCode(err))).Err(err).Msg("Skipping")
	c.errs = append(c.errs, FileError{Path: path, Err: err})
}

func (c *Collector) record(task *document.Map) error {
	// include references never resolve to a module but are worth counting
	if key := parser.IncludeKey(task.Keys()); key != "" {
		c.actions[parser.ShortName(key)]++
		return nil
	}

	action, node, err := parser.Resolve(task)
	if err != nil {
		return err
	}
	c.actions[action]++

	set, ok := c.options[action]
	if !ok {
		set = make(map[string]struct{})
		c.options[action] = set
	}
	if params, ok := node.Map(action); ok {
		for _, k := range params.Keys() {
			set[k] = struct{}{}
		}
	}
	return nil
}

// Tasks returns every task found in a loaded document, in document order.
// Blocks are searched recursively, including their rescue and always
// sections.
func Tasks(content any) []*document.Map {
	switch v := content.(type) {
	case []any:
		var out []*document.Map
		for _, item := range v {
			m, ok := item.(*document.Map)
			if !ok {
				continue
			}
			out = append(out, entryTasks(m)...)
		}
		return out
	case *document.Map:
		if v.Has("outputs") {
			return heatTasks(v)
		}
	}
	return nil
}

func entryTasks(m *document.Map) []*document.Map {
	switch {
	case m.Has("block"):
		var out []*document.Map
		for _, section := range []string{"block", "rescue", "always"} {
			out = append(out, Tasks(m.Value(section))...)
		}
		return out
	case m.Has("hosts"):
		var out []*document.Map
		for _, key := range playTaskKeys {
			out = append(out, Tasks(m.Value(key))...)
		}
		return out
	case m.Has("outputs"):
		return heatTasks(m)
	default:
		return []*document.Map{m}
	}
}

func heatTasks(m *document.Map) []*document.Map {
	outputs, ok := m.Map("outputs")
	if !ok {
		return nil
	}
	roleData, ok := outputs.Map("role_data")
	if !ok {
		return nil
	}
	// heat role_data may wrap its content in a value mapping
	if value, ok := roleData.Map("value"); ok {
		roleData = value
	}

	var out []*document.Map
	for _, key := range HeatTaskKeys {
		out = append(out, Tasks(roleData.Value(key))...)
	}
	return out
}

// Count is the number of tasks using one action.
type Count struct {
	Action string
	Count  int
}

// Counts returns the action tallies, most used first. Ties are ordered by
// action name.
func (c *Collector) Counts() []Count {
	out := make([]Count, 0, len(c.actions))
	for action, n := range c.actions {
		out = append(out, Count{Action: action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// Options returns the sorted option names seen with action.
func (c *Collector) Options(action string) []string {
	set := c.options[action]
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Files returns how many files were read.
func (c *Collector) Files() int {
	return c.files
}

// TaskCount returns how many tasks were found.
func (c *Collector) TaskCount() int {
	return c.tasks
}

// Errors returns the recorded per-file problems.
func (c *Collector) Errors() []FileError {
	return c.errs
}
