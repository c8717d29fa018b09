// Package convert flattens playbooks, task files and roles into job
// sequences.
//
// Conversion is a synchronous recursive descent. Each call reads the files
// it needs inline and shares no state with other calls; the first fatal
// error aborts the whole conversion and no partial output is returned.
package convert

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/directord/a2dd/internal/config"
	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/logging"
	"github.com/directord/a2dd/internal/modules"
	"github.com/directord/a2dd/internal/types"
)

// Converter turns automation documents into job documents.
type Converter struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates a Converter. A nil cfg uses the built-in defaults.
func New(cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Converter{
		cfg:    cfg,
		logger: logging.GetLogger("convert"),
	}
}

// Result is a converted document. A playbook yields Plays; task files,
// variable files and roles yield Jobs.
type Result struct {
	Plays []types.PlayDescriptor
	Jobs  types.JobSequence
}

// IsPlaybook reports whether the result holds plays.
func (r *Result) IsPlaybook() bool {
	return r.Plays != nil
}

// File converts the document at path. The document kind is detected from
// its shape: a list of plays, a task list, or a mapping of variables.
func (c *Converter) File(path string) (*Result, error) {
	done := logging.LogOperationStart(c.logger, "convert file "+path)
	defer done()

	content, err := document.LoadFile(path)
	if err != nil {
		return nil, err
	}

	switch v := content.(type) {
	case nil:
		return &Result{Jobs: types.JobSequence{}}, nil

	case []any:
		if isPlaybook(v) {
			plays, err := c.Playbook(v)
			if err != nil {
				return nil, err
			}
			return &Result{Plays: plays}, nil
		}
		jobs, err := c.Tasks(v, "", nil)
		if err != nil {
			return nil, err
		}
		return &Result{Jobs: jobs}, nil

	case *document.Map:
		return &Result{Jobs: varDirectives(v, "playbook", "")}, nil

	default:
		return nil, errors.Newf(errors.ErrUnsupportedConstruct, "%s holds a scalar document", path).
			WithDetail("path", path)
	}
}

// isPlaybook reports whether list looks like a list of plays.
func isPlaybook(list []any) bool {
	for _, item := range list {
		m, ok := item.(*document.Map)
		if !ok {
			continue
		}
		if m.Has("hosts") || m.Has("import_playbook") {
			return true
		}
	}
	return false
}

// varDirectives emits one ARG per top-level entry of vars.
func varDirectives(vars *document.Map, owner, comment string) types.JobSequence {
	var jobs types.JobSequence
	vars.Each(func(key string, value any) {
		name := fmt.Sprintf("Set %s variable %s", owner, key)
		jobs = append(jobs, modules.Arg(key, value).WithName(name).WithComment(comment))
	})
	return jobs
}

// envDirectives emits one ENV per environment entry of a scope.
func envDirectives(env *document.Map, owner, comment string) types.JobSequence {
	var jobs types.JobSequence
	env.Each(func(key string, value any) {
		name := fmt.Sprintf("Set %s env value for %s", owner, key)
		d := types.New(types.Env, key+" "+document.Flow(value))
		jobs = append(jobs, d.WithName(name).WithComment(comment))
	})
	return jobs
}
