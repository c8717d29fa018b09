package document

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// lineBreaks are the characters that force literal block style.
const lineBreaks = "\u000a\u000d\u001c\u001d\u001e\u0085\u2028\u2029"

// HasLineBreak reports whether s contains a line-break class character.
func HasLineBreak(s string) bool {
	return strings.ContainsAny(s, lineBreaks)
}

// ToNode converts a tree value into a yaml.Node. Strings with line breaks
// use literal block style.
func ToNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Each(func(key string, value any) {
			if err != nil {
				return
			}
			var child *yaml.Node
			child, err = ToNode(value)
			if err != nil {
				return
			}
			node.Content = append(node.Content, StringNode(key), child)
		})
		if err != nil {
			return nil, err
		}
		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			child, err := ToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	case string:
		return StringNode(t), nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return node, nil
}

// StringNode returns a string scalar node, literal style when s has line
// breaks.
func StringNode(s string) *yaml.Node {
	// Encode picks quoting for values that would resolve to another type.
	node := &yaml.Node{}
	if err := node.Encode(s); err != nil {
		node = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	}
	if HasLineBreak(s) {
		node.Style = yaml.LiteralStyle
	}
	return node
}

// EncodeNode renders a node as block YAML with two-space indentation.
func EncodeNode(node *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Dump renders a tree value as block YAML.
func Dump(v any) (string, error) {
	node, err := ToNode(v)
	if err != nil {
		return "", err
	}
	return EncodeNode(node)
}

// Flow renders a value on one line: scalars as plain text, collections in
// YAML flow style.
func Flow(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	}

	node, err := ToNode(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	setFlow(node)
	out, err := EncodeNode(node)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(out, "\n")
}

func setFlow(node *yaml.Node) {
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		node.Style = yaml.FlowStyle
	case yaml.ScalarNode:
		if node.Style == yaml.LiteralStyle {
			node.Style = yaml.DoubleQuotedStyle
		}
	}
	for _, child := range node.Content {
		setFlow(child)
	}
}

// Truthy interprets v the way Ansible reads boolean attributes: YAML
// booleans, yes/no/on/off/true/false/1/0 strings and numbers.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "true", "on", "1":
			return true
		}
	}
	return false
}

// Falsy reports whether v is an explicit false value. A missing (nil) value
// is neither truthy nor falsy.
func Falsy(v any) bool {
	switch t := v.(type) {
	case bool:
		return !t
	case int:
		return t == 0
	case float64:
		return t == 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "no", "n", "false", "off", "0":
			return true
		}
	}
	return false
}
