// Package output renders converted documents as YAML.
//
// Every directive becomes a mapping with its NAME first and its kind second.
// A directive's audit comment is written as comment lines directly above its
// list entry.
package output

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/directord/a2dd/internal/document"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/types"
)

// Keys of a rendered play.
const (
	TargetsKey = "targets"
	JobsKey    = "jobs"
)

// DirectiveNode renders one directive.
func DirectiveNode(d types.Directive) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d.Name != "" {
		node.Content = append(node.Content, document.StringNode(types.NameKey), document.StringNode(d.Name))
	}
	node.Content = append(node.Content, document.StringNode(string(d.Kind)), document.StringNode(d.Payload))
	node.HeadComment = commentText(d.Comment)
	return node
}

// commentText prefixes each line so the emitter keeps it verbatim.
func commentText(comment string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(comment, "\n")
	for i, line := range lines {
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}

// JobsNode renders a job sequence.
func JobsNode(jobs types.JobSequence) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, d := range jobs {
		node.Content = append(node.Content, DirectiveNode(d))
	}
	return node
}

// PlaysNode renders a converted playbook. targets is omitted for plays that
// run on every host.
func PlaysNode(plays []types.PlayDescriptor) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, play := range plays {
		entry := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if play.Targets != nil {
			targets, err := document.ToNode(play.Targets)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal, "rendering play targets")
			}
			entry.Content = append(entry.Content, document.StringNode(TargetsKey), targets)
		}
		entry.Content = append(entry.Content, document.StringNode(JobsKey), JobsNode(play.Jobs))
		node.Content = append(node.Content, entry)
	}
	return node, nil
}

// WriteJobs writes jobs to w.
func WriteJobs(w io.Writer, jobs types.JobSequence) error {
	return write(w, JobsNode(jobs))
}

// WritePlays writes a converted playbook to w.
func WritePlays(w io.Writer, plays []types.PlayDescriptor) error {
	node, err := PlaysNode(plays)
	if err != nil {
		return err
	}
	return write(w, node)
}

func write(w io.Writer, node *yaml.Node) error {
	out, err := document.EncodeNode(node)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "encoding output")
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "writing output")
	}
	return nil
}
