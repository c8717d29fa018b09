package convert

import (
	"fmt"
	"path/filepath"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/modules"
	"github.com/directord/a2dd/internal/parser"
	"github.com/directord/a2dd/internal/scope"
	"github.com/directord/a2dd/internal/types"
)

// blockSections are flattened in this order under one block scope.
var blockSections = []string{"block", "rescue", "always"}

// Tasks flattens a task list. Relative include paths are resolved against
// prefix when it is set. chain holds the enclosing scopes.
//
// Includes are followed without a cycle guard: a file that includes itself
// recurses until the stack is exhausted.
func (c *Converter) Tasks(list []any, prefix string, chain scope.Chain) (types.JobSequence, error) {
	jobs := types.JobSequence{}
	for i, item := range list {
		node, ok := item.(*document.Map)
		if !ok {
			return nil, errors.Newf(errors.ErrUnsupportedConstruct, "task list entry %d is not a mapping", i).
				WithDetail("entry", document.Flow(item))
		}

		var (
			out types.JobSequence
			err error
		)
		switch {
		case node.Has("block"):
			out, err = c.block(node, prefix, chain)
		case parser.IncludeKey(node.Keys()) != "":
			out, err = c.include(node, prefix, chain)
		default:
			out, err = c.task(node, chain)
		}
		if err != nil {
			return nil, err
		}
		jobs = jobs.Append(out)
	}
	return jobs, nil
}

func (c *Converter) block(node *document.Map, prefix string, chain scope.Chain) (types.JobSequence, error) {
	ctx := scope.ForBlock(node)
	inner := chain.Push(ctx)
	c.logger.Debug().Str("block", parser.TaskName(node)).Int("depth", len(inner)).Msg("Entering block")

	jobs := envDirectives(ctx.Environment, "block", inner.Compose(scope.ForTask(nil, nil)))
	for _, section := range blockSections {
		v, ok := node.Get(section)
		if !ok || v == nil {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return nil, errors.Newf(errors.ErrUnsupportedConstruct, "block section %q is not a list", section).
				WithDetail("task", parser.TaskName(node))
		}
		nested, err := c.Tasks(list, prefix, inner)
		if err != nil {
			return nil, err
		}
		jobs = jobs.Append(nested)
	}
	return jobs, nil
}

func (c *Converter) include(node *document.Map, prefix string, chain scope.Chain) (types.JobSequence, error) {
	key := parser.IncludeKey(node.Keys())
	path, err := includePath(node, key)
	if err != nil {
		return nil, err
	}
	if prefix != "" && !filepath.IsAbs(path) {
		path = filepath.Join(prefix, path)
	}

	ctx := scope.ForInclude(node)
	inner := chain.Push(ctx)
	c.logger.Debug().Str(key, path).Int("depth", len(inner)).Msg("Following include")

	content, err := document.LoadFile(path)
	if err != nil {
		return nil, err
	}

	var list []any
	switch v := content.(type) {
	case nil:
	case []any:
		list = v
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConstruct, "included file %s is not a task list", path).
			WithDetail("path", path)
	}

	jobs := envDirectives(ctx.Environment, "include", inner.Compose(scope.ForTask(nil, nil)))
	nested, err := c.Tasks(list, prefix, inner)
	if err != nil {
		return nil, err
	}
	return jobs.Append(nested), nil
}

// includePath reads the referenced file from the string form or the file
// parameter of the mapping form.
func includePath(node *document.Map, key string) (string, error) {
	switch v := node.Value(key).(type) {
	case string:
		return v, nil
	case *document.Map:
		if file, ok := v.String("file"); ok {
			return file, nil
		}
	}
	return "", errors.Newf(errors.ErrUnsupportedConstruct, "%s needs a file name", key).
		WithDetail("task", parser.TaskName(node))
}

func (c *Converter) task(node *document.Map, chain scope.Chain) (types.JobSequence, error) {
	action, normalized, err := parser.Resolve(node)
	if err != nil {
		return nil, err
	}

	t := modules.NewTask(action, node, normalized, chain.Environments())
	jobs, residual, err := modules.Translate(t)
	if err != nil {
		return nil, err
	}
	comment := chain.Compose(scope.ForTask(residual, nil))
	if len(jobs) == 0 && comment != "" {
		// keep the untranslated attributes visible even when nothing runs
		jobs = types.JobSequence{types.New(types.Echo, fmt.Sprintf("Task module '%s' needs no jobs", action))}.Named(t.Name)
	}
	return jobs.Commented(comment), nil
}
