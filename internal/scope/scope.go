// Package scope collects the attributes the converter recognizes but does
// not translate, and renders them as the audit comment attached to each
// emitted directive.
package scope

import (
	"fmt"
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/parser"
)

// Kind is a nesting level.
type Kind int

const (
	Play Kind = iota
	Role
	Include
	Block
	Task
)

var labels = map[Kind]string{
	Play:    "PLAY",
	Role:    "ROLE",
	Include: "INCLUDE",
	Block:   "BLOCK",
	Task:    "TASK",
}

// Label returns the section label for k.
func (k Kind) Label() string {
	return labels[k]
}

// Header returns the first line of a rendered section.
func (k Kind) Header() string {
	return "## " + k.Label() + "-CONTEXT:"
}

// EnvironmentKey holds environment variables at every level.
const EnvironmentKey = "environment"

// consumed lists, per kind, the keys translated or walked elsewhere.
var consumed = map[Kind][]string{
	Play:    {EnvironmentKey, "hosts", "gather_facts", "tasks", "pre_tasks", "post_tasks", "pre-tasks", "post-tasks", "vars", "roles"},
	Block:   {"block", "rescue", "always", EnvironmentKey},
	Include: append([]string{EnvironmentKey}, parser.IncludeKeys...),
}

// Context is the untranslated part of one scope.
type Context struct {
	Kind        Kind
	Attrs       *document.Map
	Environment *document.Map
}

// ForPlay builds the context of a play.
func ForPlay(play *document.Map) Context {
	return build(Play, play, parser.PlayKeywords)
}

// ForBlock builds the context of a block.
func ForBlock(block *document.Map) Context {
	return build(Block, block, parser.BlockKeywords)
}

// ForInclude builds the context of an include reference.
func ForInclude(include *document.Map) Context {
	return build(Include, include, parser.TaskKeywords)
}

// ForRole builds the context of a role. Role directories carry no
// attributes of their own, so the context is always empty.
func ForRole() Context {
	return Context{Kind: Role, Attrs: document.NewMap()}
}

// ForTask wraps the residual attributes a module translation left over.
// Task residuals are not filtered: everything left is unhandled.
func ForTask(residual *document.Map, env *document.Map) Context {
	if residual == nil {
		residual = document.NewMap()
	}
	return Context{Kind: Task, Attrs: residual, Environment: env}
}

func build(kind Kind, node *document.Map, allowed parser.KeywordSet) Context {
	skip := make(map[string]bool)
	for _, k := range consumed[kind] {
		skip[k] = true
	}

	attrs := document.NewMap()
	node.Each(func(key string, value any) {
		if allowed.Has(key) && !skip[key] {
			attrs.Set(key, value)
		}
	})

	env, _ := node.Map(EnvironmentKey)
	return Context{Kind: kind, Attrs: attrs, Environment: env}
}

// Empty reports whether the context has nothing to show.
func (c Context) Empty() bool {
	return c.Attrs.Len() == 0
}

// Render returns the labeled section, or "" when empty. Task sections are
// rendered as block YAML; outer scopes as one KEY: value line per attribute.
func (c Context) Render() string {
	if c.Empty() {
		return ""
	}

	lines := []string{c.Kind.Header()}
	if c.Kind == Task {
		body, err := document.Dump(c.Attrs)
		if err != nil {
			body = fmt.Sprint(c.Attrs.Keys())
		}
		lines = append(lines, strings.TrimRight(body, "\n"))
	} else {
		c.Attrs.Each(func(key string, value any) {
			lines = append(lines, key+": "+document.Flow(value))
		})
	}
	return strings.Join(lines, "\n")
}
