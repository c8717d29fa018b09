package parser

import (
	"sort"
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
)

// actionKeywords name the module through their value instead of their key.
var actionKeywords = []string{"action", "local_action"}

// ModuleKey is the key naming the module in the mapping form of action.
const ModuleKey = "module"

// Resolve determines the action of a task and returns it together with a
// normalized copy of the task. The input is never modified.
//
// Normalization moves action/local_action arguments under the module key,
// shortens namespaced module names, and parses one-line key=value strings
// into mappings. Resolving an already normalized task returns the same
// action and an equal task.
//
// Namespaced names are reduced to their last segment, so
// community.general.copy and ansible.builtin.copy both become copy. This
// assumes short module names are unique across the collections of the
// converted content.
func Resolve(task *document.Map) (string, *document.Map, error) {
	node := task.Clone()
	if node == nil {
		return "", nil, errors.New(errors.ErrNoAction, "task is empty")
	}

	action, err := findAction(node)
	if err != nil {
		return "", nil, err
	}

	if short := ShortName(action); short != action {
		node.Rename(action, short)
		action = short
	}

	if structuralActions.Has(action) {
		return "", nil, errors.Newf(errors.ErrUnsupportedConstruct,
			"can not translate %q as a module, it is handled by the structure walker", action).
			WithDetail("task", TaskName(task))
	}

	if s, ok := node.String(action); ok && !rawValueActions.Has(action) && !strings.Contains(s, "\n") {
		node.Set(action, ParseKV(s))
	}

	return action, node, nil
}

// findAction locates the action key, rewriting action/local_action forms in
// place on node (which is already a private copy).
func findAction(node *document.Map) (string, error) {
	for _, kw := range actionKeywords {
		if !node.Has(kw) {
			continue
		}
		return rewriteActionKeyword(node, kw)
	}

	var candidates []string
	for _, k := range node.Keys() {
		if TaskKeywords.Has(k) || IsLoopKey(k) {
			continue
		}
		candidates = append(candidates, k)
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", errors.New(errors.ErrNoAction, "can not get action from task").
			WithDetail("task", TaskName(node)).
			WithDetail("keys", node.Keys())
	default:
		sort.Strings(candidates)
		return "", errors.Newf(errors.ErrAmbiguousAction, "task has more than one action: %s", strings.Join(candidates, ", ")).
			WithDetail("task", TaskName(node)).
			WithDetail("candidates", candidates)
	}
}

// rewriteActionKeyword turns
//
//	action: copy src=a dest=b
//	action: {module: copy, src: a}
//
// into copy: ... keyed by the module name.
func rewriteActionKeyword(node *document.Map, kw string) (string, error) {
	switch v := node.Value(kw).(type) {
	case *document.Map:
		module, ok := v.String(ModuleKey)
		if !ok || module == "" {
			return "", errors.Newf(errors.ErrNoAction, "%s mapping has no module", kw).
				WithDetail("task", TaskName(node))
		}
		node.Set(kw, v.Without(ModuleKey))
		node.Rename(kw, module)
		return module, nil

	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return "", errors.Newf(errors.ErrNoAction, "%s is empty", kw).
				WithDetail("task", TaskName(node))
		}
		module := fields[0]
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), module))
		if rest == "" {
			node.Set(kw, document.NewMap())
		} else {
			node.Set(kw, rest)
		}
		node.Rename(kw, module)
		return module, nil
	}

	return "", errors.Newf(errors.ErrNoAction, "%s must be a string or a mapping", kw).
		WithDetail("task", TaskName(node))
}

// TaskName returns the display name of a task.
func TaskName(task *document.Map) string {
	if name, ok := task.String("name"); ok && name != "" {
		return name
	}
	return "Unnamed task"
}
