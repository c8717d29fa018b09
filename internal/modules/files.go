package modules

import (
	"fmt"
	"strings"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/types"
)

// BackupSuffix is appended to the destination when a copy is staged for
// validation or backup.
const BackupSuffix = ".backup"

func translateCopy(t *Task) (types.JobSequence, *document.Map, error) {
	return transfer(t, false)
}

func translateTemplate(t *Task) (types.JobSequence, *document.Map, error) {
	return transfer(t, true)
}

// transfer places src at dest. Templates are always shipped with
// --blueprint so they are rendered on arrival. A validate command runs
// against a staged copy before the real one is made.
func transfer(t *Task, blueprint bool) (types.JobSequence, *document.Map, error) {
	p, err := paramsOf(t)
	if err != nil {
		return nil, nil, err
	}

	if !blueprint {
		if _, ok := p.pop("content"); ok {
			return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "inline content for '%s' is not supported", t.Action)
		}
	}
	if v, ok := p.pop("force"); ok && document.Falsy(v) {
		return nil, nil, errors.Newf(errors.ErrNotImplementedYet, "'%s' with force disabled is not implemented yet", t.Action)
	}

	src, ok := p.popString("src")
	if !ok {
		return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "module '%s' requires src", t.Action)
	}
	dest, ok := p.popString("dest")
	if !ok {
		return nil, nil, errors.Newf(errors.ErrUnsupportedConstruct, "module '%s' requires dest", t.Action)
	}

	attrs := p.popAttributes()

	remote := false
	if !blueprint {
		if v, ok := p.pop("remote_src"); ok {
			remote = document.Truthy(v)
		}
	}

	keepBackup := false
	if v, ok := p.pop("backup"); ok {
		keepBackup = document.Truthy(v)
	}
	validate, _ := p.popString("validate")

	place := func(target string) types.JobSequence {
		if remote {
			jobs := types.JobSequence{types.New(types.Run, fmt.Sprintf("cp -r %s %s", src, target))}
			if own := attrs.chown(); own != "" {
				jobs = append(jobs, types.New(types.Run, fmt.Sprintf("chown %s %s", own, target)))
			}
			if attrs.mode != "" {
				jobs = append(jobs, types.New(types.Run, fmt.Sprintf("chmod %s %s", attrs.mode, target)))
			}
			return jobs
		}

		parts := attrs.transferFlags()
		if blueprint {
			parts = append(parts, "--blueprint")
		}
		parts = append(parts, src, target)
		return types.JobSequence{types.New(types.Copy, strings.Join(parts, " "))}
	}

	var jobs types.JobSequence
	if keepBackup || validate != "" {
		staged := dest + BackupSuffix
		jobs = jobs.Append(place(staged))
		if validate != "" {
			jobs = append(jobs, types.New(types.Run, strings.ReplaceAll(validate, "%s", staged)))
		}
		if !keepBackup {
			jobs = append(jobs, types.New(types.Run, "rm -f "+staged))
		}
	}
	jobs = jobs.Append(place(dest))

	if attrs.hasSELinux() {
		jobs = append(jobs, types.New(types.SEContext, attrs.secontext(dest)))
	}

	return jobs, finish(t, p), nil
}

// translateFile handles the path states of the file module.
func translateFile(t *Task) (types.JobSequence, *document.Map, error) {
	p, err := paramsOf(t)
	if err != nil {
		return nil, nil, err
	}

	path, ok := p.popString("path", "dest", "name")
	if !ok {
		return nil, nil, errors.New(errors.ErrUnsupportedConstruct, "module 'file' requires path")
	}

	recurse := false
	if v, ok := p.pop("recurse"); ok {
		recurse = document.Truthy(v)
	}

	state, ok := p.popString("state")
	if !ok {
		state = "file"
		if recurse {
			state = "directory"
		}
	}

	attrs := p.popAttributes()

	var jobs types.JobSequence
	switch state {
	case "directory":
		parts := append(attrs.transferFlags(), path)
		jobs = append(jobs, types.New(types.Workdir, strings.Join(parts, " ")))
		if attrs.hasSELinux() {
			jobs = append(jobs, types.New(types.SEContext, attrs.secontext(path)))
		}
		if recurse {
			for _, cmd := range attrs.commands(path, true) {
				jobs = append(jobs, types.New(types.Run, cmd))
			}
		}

	case "absent":
		jobs = append(jobs, types.New(types.Run, "rm -rf "+path))

	case "touch":
		jobs = append(jobs, types.New(types.Run, "touch "+path))
		for _, cmd := range attrs.commands(path, false) {
			jobs = append(jobs, types.New(types.Run, cmd))
		}

	case "file":
		for _, cmd := range attrs.commands(path, false) {
			guarded := fmt.Sprintf("if [ -e %s ]; then %s; fi", path, cmd)
			jobs = append(jobs, types.New(types.Run, guarded))
		}

	default:
		return nil, nil, errors.Newf(errors.ErrNotImplementedYet, "file state '%s' is not implemented yet", state).
			WithDetail("state", state)
	}

	if recurse && state != "directory" {
		p.rest().Set("recurse", true)
	}

	return jobs, finish(t, p), nil
}
