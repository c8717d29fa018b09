package modules

import (
	"fmt"
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/parser"
	"github.com/directord/a2dd/internal/types"
)

// translateCommand emits one RUN. The script holds one line per step: an
// optional cd into chdir, an export per environment entry (enclosing scopes
// first, then the task's own), and the command itself. Values are written as
// found so templated text stays intact.
func translateCommand(t *Task) (types.JobSequence, *document.Map, error) {
	residual := t.Residual.Clone()
	if residual == nil {
		residual = document.NewMap()
	}

	var args *document.Map
	if a, ok := residual.Map("args"); ok {
		args = a.Clone()
	}

	var inner *document.Map
	command := t.Params
	if m, ok := t.Params.(*document.Map); ok {
		inner = m.Clone()
		command, _ = inner.Pop("cmd")
		if command == nil {
			command, _ = inner.Pop(parser.RawParamsKey)
		}
	}
	if v, ok := args.Pop("cmd"); ok {
		command = v
	}

	line, ok := command.(string)
	if !ok {
		return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "module '%s' needs a command string", t.Action).
			WithDetail("command", document.Flow(command))
	}

	var parts []string
	chdir, ok := args.Pop("chdir")
	if !ok {
		chdir, ok = inner.Pop("chdir")
	}
	if ok && chdir != nil {
		parts = append(parts, fmt.Sprintf("cd %s;", document.Flow(chdir)))
	}

	taskEnv, _ := residual.Map("environment")
	residual.Delete("environment")
	for _, env := range append(append([]*document.Map{}, t.Environments...), taskEnv) {
		env.Each(func(key string, value any) {
			parts = append(parts, fmt.Sprintf("export %s=\"%s\";", key, document.Flow(value)))
		})
	}
	parts = append(parts, line)

	if args != nil {
		if args.Len() > 0 {
			residual.Set("args", args)
		} else {
			residual.Delete("args")
		}
	}
	if inner.Len() > 0 {
		residual.Set(t.Action, inner)
	}

	return types.JobSequence{types.New(types.Run, strings.Join(parts, "\n"))}, residual, nil
}
