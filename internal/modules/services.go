package modules

import (
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/types"
)

var serviceStates = map[string]string{
	"started":   "",
	"running":   "",
	"stopped":   "--stopped",
	"restarted": "--restarted",
	"reloaded":  "--reloaded",
}

func translateService(t *Task) (types.JobSequence, *document.Map, error) {
	p, err := paramsOf(t)
	if err != nil {
		return nil, nil, err
	}
	systemd := t.Action != "service"

	var flags []string
	if state, ok := p.popString("state"); ok {
		flag, known := serviceStates[state]
		if !known {
			return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "service state '%s' is not supported", state).
				WithDetail("state", state)
		}
		if flag != "" {
			flags = append(flags, flag)
		}
	}

	if v, ok := p.pop("enabled"); ok {
		switch {
		case document.Truthy(v):
			flags = append(flags, "--enable")
		case document.Falsy(v):
			flags = append(flags, "--disable")
		default:
			p.rest().Set("enabled", v)
		}
	}

	if systemd {
		if v, ok := p.pop("masked"); ok {
			switch {
			case document.Truthy(v):
				flags = append(flags, "--mask")
			case document.Falsy(v):
				flags = append(flags, "--unmask")
			default:
				p.rest().Set("masked", v)
			}
		}
		if v, ok := p.pop("daemon_reload", "daemon-reload"); ok {
			if document.Truthy(v) {
				flags = append(flags, "--daemon-reload")
			} else if !document.Falsy(v) {
				p.rest().Set("daemon_reload", v)
			}
		}
	}

	names := p.popList("name", "service", "unit")
	payload := strings.Join(append(flags, names...), " ")

	return types.JobSequence{types.New(types.Service, payload)}, finish(t, p), nil
}
