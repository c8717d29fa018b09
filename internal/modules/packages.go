package modules

import (
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/types"
)

var packageStates = map[string]string{
	"present":   "",
	"installed": "",
	"latest":    "--latest",
	"absent":    "--absent",
	"removed":   "--absent",
}

// translatePackage covers dnf, yum and package. Upgrading every installed
// package is a plain dnf invocation; everything else is one DNF directive.
func translatePackage(t *Task) (types.JobSequence, *document.Map, error) {
	p, err := paramsOf(t)
	if err != nil {
		return nil, nil, err
	}

	names := p.popList("name", "pkg")
	state, ok := p.popString("state")
	if !ok {
		state = "present"
	}
	exclude := p.popList("exclude")

	if p.rest().Len() > 0 {
		return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "module '%s' options are not supported: %s",
			t.Action, strings.Join(p.rest().Keys(), ", ")).
			WithDetail("options", p.rest().Keys())
	}

	flag, known := packageStates[state]
	if !known {
		return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "package state '%s' is not supported", state).
			WithDetail("state", state)
	}

	if len(names) == 1 && names[0] == "*" && state == "latest" {
		cmd := "dnf update -y"
		if len(exclude) > 0 {
			cmd += " --exclude " + strings.Join(exclude, ",")
		}
		return types.JobSequence{types.New(types.Run, cmd)}, finish(t, nil), nil
	}

	var parts []string
	if flag != "" {
		parts = append(parts, flag)
	}
	if len(exclude) > 0 {
		parts = append(parts, "--exclude", `"`+strings.Join(exclude, ",")+`"`)
	}
	parts = append(parts, names...)

	return types.JobSequence{types.New(types.DNF, strings.Join(parts, " "))}, finish(t, nil), nil
}
