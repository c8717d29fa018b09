// Package modules translates one resolved task into directives.
//
// Each supported module has one Handler in a closed table. A handler
// consumes the parameters it understands and returns the rest as residual
// attributes, which end up in the task's audit comment. Modules missing from
// the table degrade to a single ECHO directive instead of failing.
package modules

import (
	"fmt"
	"sort"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/logging"
	"github.com/directord/a2dd/internal/parser"
	"github.com/directord/a2dd/internal/types"
)

// Handler translates one task. It returns the directives and the residual
// attributes it did not consume.
type Handler func(t *Task) (types.JobSequence, *document.Map, error)

var handlers = map[string]Handler{
	"shell":           translateCommand,
	"command":         translateCommand,
	"set_fact":        translateSetFact,
	"dnf":             translatePackage,
	"yum":             translatePackage,
	"package":         translatePackage,
	"setup":           translateSetup,
	"gather_facts":    translateSetup,
	"service":         translateService,
	"systemd":         translateService,
	"systemd_service": translateService,
	"copy":            translateCopy,
	"template":        translateTemplate,
	"file":            translateFile,
}

// commandModules take their arguments from a sibling args mapping
// themselves, so args is not merged into their parameters.
var commandModules = map[string]bool{"shell": true, "command": true}

// Lookup returns the handler for action.
func Lookup(action string) (Handler, error) {
	h, ok := handlers[action]
	if !ok {
		return nil, errors.Newf(errors.ErrModuleNotSupported, "conversion of task module '%s' is not implemented yet", action).
			WithDetail("action", action)
	}
	return h, nil
}

// Supported returns the names of all translatable modules, sorted.
func Supported() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Task is the input of one translation.
type Task struct {
	// Action is the resolved module name.
	Action string
	// Name is the display name given to every emitted directive.
	Name string
	// Original is the task as written, before normalization.
	Original *document.Map
	// Params is the module's own value; a sibling args mapping is merged in
	// for non-command modules.
	Params any
	// Residual holds the sibling attributes: the task minus its action key,
	// name, and (when merged) args.
	Residual *document.Map
	// Environments are the environment mappings of enclosing scopes, in
	// export order.
	Environments []*document.Map
}

// NewTask prepares a translation input from a resolved task.
func NewTask(action string, original, normalized *document.Map, envs []*document.Map) *Task {
	t := &Task{
		Action:       action,
		Name:         parser.TaskName(normalized),
		Original:     original,
		Params:       document.CloneValue(normalized.Value(action)),
		Environments: envs,
	}

	drop := []string{action, "name"}
	if args, ok := normalized.Map("args"); ok && !commandModules[action] {
		switch p := t.Params.(type) {
		case nil:
			t.Params = args.Clone()
			drop = append(drop, "args")
		case *document.Map:
			merged := args.Clone()
			p.Each(func(k string, v any) { merged.Set(k, v) })
			t.Params = merged
			drop = append(drop, "args")
		}
	}
	t.Residual = normalized.Without(drop...)
	return t
}

// Translate runs the handler for t.Action. Unsupported modules produce a
// single ECHO directive and carry the whole original task as residual;
// every other error is fatal and returned.
func Translate(t *Task) (types.JobSequence, *document.Map, error) {
	logger := logging.GetLogger("modules")

	h, err := Lookup(t.Action)
	if errors.IsFatal(err) {
		return nil, nil, err
	}
	if err != nil {
		logger.Warn().Str("action", t.Action).Str("task", t.Name).Msg("Module not supported, emitting ECHO")
		jobs, residual := fallback(t)
		return jobs.Named(t.Name), residual, nil
	}

	jobs, residual, err := h(t)
	if err != nil {
		if coded, ok := err.(*errors.Error); ok {
			coded.WithDetail("task", t.Name).WithDetail("action", t.Action)
		}
		return nil, nil, err
	}

	logger.Debug().Str("action", t.Action).Str("task", t.Name).Int("directives", len(jobs)).Msg("Task translated")
	return jobs.Named(t.Name), residual, nil
}

func fallback(t *Task) (types.JobSequence, *document.Map) {
	msg := fmt.Sprintf("Conversion of task module '%s' is not implemented yet!", t.Action)
	original := t.Original
	if original == nil {
		original = document.NewMap()
	}
	return types.JobSequence{types.New(types.Echo, msg)}, original.Clone()
}
