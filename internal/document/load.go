package document

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/directord/a2dd/internal/errors"
)

// Load decodes the first YAML document from r into a tree. An empty input
// yields a nil tree.
func Load(r io.Reader) (any, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrParse, "decoding YAML")
	}
	return FromNode(&root)
}

// LoadBytes decodes YAML content into a tree.
func LoadBytes(content []byte) (any, error) {
	return Load(bytes.NewReader(content))
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "reading %s", path)
	}
	tree, err := LoadBytes(content)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "parsing %s", path)
	}
	return tree, nil
}

// FromNode converts a yaml.Node into a tree value.
func FromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])

	case yaml.AliasNode:
		return FromNode(node.Alias)

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := FromNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil

	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			value := node.Content[i+1]

			if key.Kind == yaml.ScalarNode && key.Value == "<<" {
				if err := mergeInto(m, value); err != nil {
					return nil, err
				}
				continue
			}

			v, err := FromNode(value)
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
		}
		return m, nil

	case yaml.ScalarNode:
		return scalarValue(node), nil
	}

	return nil, errors.Newf(errors.ErrParse, "unsupported YAML node kind %d at line %d", node.Kind, node.Line)
}

// mergeInto applies a "<<" merge key: entries from the merged mapping(s)
// fill in keys not already set.
func mergeInto(m *Map, value *yaml.Node) error {
	sources := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		sources = value.Content
	}
	for _, src := range sources {
		v, err := FromNode(src)
		if err != nil {
			return err
		}
		merged, ok := v.(*Map)
		if !ok {
			return errors.Newf(errors.ErrParse, "merge key at line %d does not reference a mapping", value.Line)
		}
		merged.Each(func(k string, mv any) {
			if !m.Has(k) {
				m.Set(k, mv)
			}
		})
	}
	return nil
}

func scalarValue(node *yaml.Node) any {
	switch node.ShortTag() {
	case "!!str", "!!timestamp", "!!binary":
		return node.Value
	case "!!null":
		return nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return node.Value
	}
	return v
}
