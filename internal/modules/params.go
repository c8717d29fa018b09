package modules

import (
	"fmt"
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
)

// params is a consumable view of a module's parameter mapping.
type params struct {
	m *document.Map
}

// paramsOf returns the module parameters as a mapping. A module given a bare
// string that did not normalize into key=value pairs cannot be translated.
func paramsOf(t *Task) (*params, error) {
	switch v := t.Params.(type) {
	case nil:
		return &params{m: document.NewMap()}, nil
	case *document.Map:
		return &params{m: v.Clone()}, nil
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConstruct, "module '%s' expects a mapping of parameters", t.Action).
			WithDetail("params", document.Flow(v))
	}
}

func (p *params) pop(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := p.m.Pop(k); ok {
			return v, true
		}
	}
	return nil, false
}

// popString returns the first present key among aliases as text.
func (p *params) popString(keys ...string) (string, bool) {
	v, ok := p.pop(keys...)
	if !ok || v == nil {
		return "", false
	}
	return document.Flow(v), true
}

// popList returns a value that may be a single item or a list.
func (p *params) popList(keys ...string) []string {
	v, ok := p.pop(keys...)
	if !ok || v == nil {
		return nil
	}
	return stringList(v)
}

func (p *params) rest() *document.Map {
	return p.m
}

// finish attaches unconsumed parameters to the residual under the action key.
func finish(t *Task, p *params) *document.Map {
	residual := t.Residual.Clone()
	if residual == nil {
		residual = document.NewMap()
	}
	if p != nil && p.rest().Len() > 0 {
		residual.Set(t.Action, p.rest())
	}
	return residual
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			out = append(out, document.Flow(item))
		}
		return out
	case string:
		if strings.Contains(l, ",") && !strings.Contains(l, "{{") {
			var out []string
			for _, s := range strings.Split(l, ",") {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
		return []string{l}
	default:
		return []string{document.Flow(v)}
	}
}

// formatMode renders a file mode. Integers were octal literals in the source
// and print as four octal digits; numeric strings are zero-padded to four
// digits; symbolic modes pass through.
func formatMode(v any) string {
	switch m := v.(type) {
	case int:
		return fmt.Sprintf("%04o", m)
	case string:
		digits := strings.TrimPrefix(strings.TrimPrefix(m, "0o"), "0O")
		if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '7' }) >= 0 {
			return m
		}
		if len(digits) < 4 {
			digits = strings.Repeat("0", 4-len(digits)) + digits
		}
		return digits
	default:
		return document.Flow(v)
	}
}

// ownership joins owner and group the way chown expects.
func ownership(owner, group string) string {
	switch {
	case owner != "" && group != "":
		return owner + ":" + group
	case group != "":
		return ":" + group
	default:
		return owner
	}
}

// attributes are the ownership, permission and SELinux settings shared by
// copy, template and file.
type attributes struct {
	mode  string
	owner string
	group string
	se    [][2]string
}

var seKeys = []string{"seuser", "serole", "setype", "selevel"}

var chconFlags = map[string]string{
	"seuser":  "-u",
	"serole":  "-r",
	"setype":  "-t",
	"selevel": "-l",
}

func (p *params) popAttributes() attributes {
	var a attributes
	if v, ok := p.pop("mode"); ok && v != nil {
		a.mode = formatMode(v)
	}
	a.owner, _ = p.popString("owner")
	a.group, _ = p.popString("group")
	for _, k := range seKeys {
		if v, ok := p.popString(k); ok && v != "" {
			a.se = append(a.se, [2]string{k, v})
		}
	}
	return a
}

func (a attributes) chown() string {
	return ownership(a.owner, a.group)
}

func (a attributes) hasSELinux() bool {
	return len(a.se) > 0
}

// transferFlags are the COPY and WORKDIR flags for mode and ownership.
func (a attributes) transferFlags() []string {
	var flags []string
	if a.mode != "" {
		flags = append(flags, "--chmod", a.mode)
	}
	if own := a.chown(); own != "" {
		flags = append(flags, "--chown", own)
	}
	return flags
}

// secontext renders the SECONTEXT payload for path.
func (a attributes) secontext(path string) string {
	var parts []string
	for _, kv := range a.se {
		parts = append(parts, "--"+kv[0], kv[1])
	}
	return strings.Join(append(parts, path), " ")
}

// commands returns the shell commands applying the attributes to path.
func (a attributes) commands(path string, recursive bool) []string {
	r := ""
	if recursive {
		r = "-R "
	}
	var cmds []string
	if a.mode != "" {
		cmds = append(cmds, fmt.Sprintf("chmod %s%s %s", r, a.mode, path))
	}
	if own := a.chown(); own != "" {
		cmds = append(cmds, fmt.Sprintf("chown %s%s %s", r, own, path))
	}
	if a.hasSELinux() {
		parts := []string{"chcon"}
		if recursive {
			parts = append(parts, "-R")
		}
		for _, kv := range a.se {
			parts = append(parts, chconFlags[kv[0]], kv[1])
		}
		cmds = append(cmds, strings.Join(append(parts, path), " "))
	}
	return cmds
}
