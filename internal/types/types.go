// Package types defines the directive vocabulary of the target job DSL.
package types

// Kind is a directive tag.
type Kind string

// Directive kinds understood by downstream consumers.
const (
	Run       Kind = "RUN"
	Copy      Kind = "COPY"
	DNF       Kind = "DNF"
	Service   Kind = "SERVICE"
	SEContext Kind = "SECONTEXT"
	Workdir   Kind = "WORKDIR"
	Env       Kind = "ENV"
	Arg       Kind = "ARG"
	Facter    Kind = "FACTER"
	Echo      Kind = "ECHO"
)

// NameKey is the key carrying a directive's display name. It is rendered
// before the kind key.
const NameKey = "NAME"

// Directive is one emitted instruction. Values are never modified after
// construction; the With* helpers return copies.
type Directive struct {
	Kind    Kind
	Payload string
	Name    string
	Comment string
}

// New creates a directive without name or comment.
func New(kind Kind, payload string) Directive {
	return Directive{Kind: kind, Payload: payload}
}

// WithName returns a copy of d with the display name set.
func (d Directive) WithName(name string) Directive {
	d.Name = name
	return d
}

// WithComment returns a copy of d with the leading comment set.
func (d Directive) WithComment(comment string) Directive {
	d.Comment = comment
	return d
}

// JobSequence is an ordered list of directives.
type JobSequence []Directive

// Append returns the concatenation of s and others.
func (s JobSequence) Append(others ...JobSequence) JobSequence {
	out := make(JobSequence, 0, len(s))
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// Named returns a copy of s where every directive carries name.
func (s JobSequence) Named(name string) JobSequence {
	out := make(JobSequence, len(s))
	for i, d := range s {
		out[i] = d.WithName(name)
	}
	return out
}

// Commented returns a copy of s where every directive carries comment.
func (s JobSequence) Commented(comment string) JobSequence {
	out := make(JobSequence, len(s))
	for i, d := range s {
		out[i] = d.WithComment(comment)
	}
	return out
}

// PlayDescriptor is a converted play: a host selector and its jobs.
// Targets is nil when the play targets every host.
type PlayDescriptor struct {
	Targets any
	Jobs    JobSequence
}
