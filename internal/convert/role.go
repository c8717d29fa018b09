package convert

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/logging"
	"github.com/directord/a2dd/internal/scope"
	"github.com/directord/a2dd/internal/types"
)

// Role converts a role directory: variables from the configured vars
// directories first, then every task file under the tasks directory. Files
// are visited in lexical path order.
func (c *Converter) Role(dir string) (types.JobSequence, error) {
	done := logging.LogOperationStart(c.logger, "convert role "+dir)
	defer done()

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "reading role %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrFileRead, "role %s is not a directory", dir)
	}

	chain := scope.Chain{scope.ForRole()}
	comment := chain.Compose(scope.ForTask(nil, nil))
	jobs := types.JobSequence{}

	for _, sub := range c.cfg.Role.VarsDirs {
		files, err := c.roleFiles(filepath.Join(dir, sub))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			content, err := document.LoadFile(path)
			if err != nil {
				return nil, err
			}
			switch v := content.(type) {
			case nil:
			case *document.Map:
				jobs = jobs.Append(varDirectives(v, "role", comment))
			default:
				return nil, errors.Newf(errors.ErrUnsupportedConstruct, "variable file %s is not a mapping", path).
					WithDetail("path", path)
			}
		}
	}

	files, err := c.roleFiles(filepath.Join(dir, c.cfg.Role.TasksDir))
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		c.logger.Debug().Str("file", path).Msg("Flattening task file")
		content, err := document.LoadFile(path)
		if err != nil {
			return nil, err
		}
		switch v := content.(type) {
		case nil:
		case []any:
			nested, err := c.Tasks(v, filepath.Dir(path), chain)
			if err != nil {
				return nil, err
			}
			jobs = jobs.Append(nested)
		default:
			return nil, errors.Newf(errors.ErrUnsupportedConstruct, "task file %s is not a list", path).
				WithDetail("path", path)
		}
	}

	return jobs, nil
}

// roleFiles lists the YAML files below dir in lexical order. A missing
// directory yields no files.
func (c *Converter) roleFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && c.cfg.HasYAMLExtension(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "walking %s", dir)
	}
	return files, nil
}
