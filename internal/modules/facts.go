package modules

import (
	"fmt"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/types"
)

// translateSetFact emits one ARG per fact. cacheable only affects fact
// persistence between runs and has no counterpart.
func translateSetFact(t *Task) (types.JobSequence, *document.Map, error) {
	p, err := paramsOf(t)
	if err != nil {
		return nil, nil, err
	}
	p.pop("cacheable")

	var jobs types.JobSequence
	p.rest().Each(func(key string, value any) {
		jobs = append(jobs, Arg(key, value))
	})
	return jobs, finish(t, nil), nil
}

// Arg builds the ARG directive assigning value to key. The value is quoted
// but not escaped.
func Arg(key string, value any) types.Directive {
	return types.New(types.Arg, fmt.Sprintf("%s \"%s\"", key, document.Flow(value)))
}

// translateSetup emits a bare FACTER; gather subsets and filters are
// reported through the residual.
func translateSetup(t *Task) (types.JobSequence, *document.Map, error) {
	residual := t.Residual.Clone()
	if residual == nil {
		residual = document.NewMap()
	}
	switch v := t.Params.(type) {
	case nil:
	case *document.Map:
		if v.Len() > 0 {
			residual.Set(t.Action, v.Clone())
		}
	default:
		residual.Set(t.Action, v)
	}
	return types.JobSequence{types.New(types.Facter, "")}, residual, nil
}
