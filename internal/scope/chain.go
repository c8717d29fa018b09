package scope

import (
	"strings"

	"github.com/directord/a2dd/internal/document"
)

// Chain is the list of enclosing scopes, outermost first.
type Chain []Context

// Push returns a new chain with ctx as the innermost scope. The receiver is
// not modified, so sibling branches can share a parent chain.
func (c Chain) Push(ctx Context) Chain {
	out := make(Chain, 0, len(c)+1)
	out = append(out, c...)
	return append(out, ctx)
}

// Compose renders the chain plus the task context into one comment,
// outermost section first. Empty sections are skipped; the result is ""
// when nothing at any level was left untranslated.
func (c Chain) Compose(task Context) string {
	var sections []string
	for _, ctx := range c.Push(task) {
		if s := ctx.Render(); s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

// Environments returns the environment mappings a command sees, in export
// order: the play, then every enclosing block from outer to inner. Include
// and role environments are emitted as ENV directives instead.
func (c Chain) Environments() []*document.Map {
	var envs []*document.Map
	for _, ctx := range c {
		if ctx.Kind != Play && ctx.Kind != Block {
			continue
		}
		if ctx.Environment != nil {
			envs = append(envs, ctx.Environment)
		}
	}
	return envs
}
