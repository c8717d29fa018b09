package convert

import (
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/scope"
	"github.com/directord/a2dd/internal/types"
)

// AllHosts is the host pattern that needs no target selector.
const AllHosts = "all"

// Playbook converts every play of a playbook.
func (c *Converter) Playbook(plays []any) ([]types.PlayDescriptor, error) {
	out := make([]types.PlayDescriptor, 0, len(plays))
	for i, item := range plays {
		play, ok := item.(*document.Map)
		if !ok {
			return nil, errors.Newf(errors.ErrUnsupportedConstruct, "play %d is not a mapping", i)
		}
		desc, err := c.Play(play)
		if err != nil {
			return nil, err
		}
		out = append(out, desc)
	}
	return out, nil
}

// Play converts one play. The job sequence starts with the play environment,
// the play variables and fact gathering, followed by the configured task
// lists in the order the play declares them.
func (c *Converter) Play(play *document.Map) (types.PlayDescriptor, error) {
	name, _ := play.String("name")
	if play.Has("roles") {
		return types.PlayDescriptor{}, errors.New(errors.ErrUnsupportedConstruct, "roles on a play are not supported, convert each role with --role").
			WithDetail("play", name)
	}
	if play.Has("import_playbook") {
		return types.PlayDescriptor{}, errors.New(errors.ErrUnsupportedConstruct, "import_playbook is not supported, convert the imported playbook on its own").
			WithDetail("play", name)
	}

	ctx := scope.ForPlay(play)
	chain := scope.Chain{ctx}
	comment := chain.Compose(scope.ForTask(nil, nil))
	c.logger.Debug().Str("play", name).Msg("Entering play")

	jobs := envDirectives(ctx.Environment, "playbook", comment)

	if vars, ok := play.Map("vars"); ok {
		jobs = jobs.Append(varDirectives(vars, "playbook", comment))
	}

	if document.Truthy(play.Value("gather_facts")) {
		facts := types.New(types.Facter, "").WithName("Gather facts for playbook").WithComment(comment)
		jobs = append(jobs, facts)
	}

	for _, key := range play.Keys() {
		if !c.cfg.IsTaskListKey(key) {
			if alt := strings.ReplaceAll(key, "_", "-"); alt != key && c.cfg.IsTaskListKey(alt) {
				c.logger.Warn().Str("play", name).Str("key", key).Str("expected", alt).
					Msg("Task list key spelled with an underscore is skipped")
			}
			continue
		}

		v := play.Value(key)
		if v == nil {
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return types.PlayDescriptor{}, errors.Newf(errors.ErrUnsupportedConstruct, "play key %q is not a task list", key).
				WithDetail("play", name)
		}
		nested, err := c.Tasks(list, "", chain)
		if err != nil {
			return types.PlayDescriptor{}, err
		}
		jobs = jobs.Append(nested)
	}

	desc := types.PlayDescriptor{Jobs: jobs}
	if hosts := play.Value("hosts"); hosts != nil && hosts != AllHosts {
		desc.Targets = hosts
	}
	if desc.Jobs == nil {
		desc.Jobs = types.JobSequence{}
	}
	return desc, nil
}
