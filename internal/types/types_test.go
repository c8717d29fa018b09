package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectiveCopies(t *testing.T) {
	d := New(Run, "ls")
	named := d.WithName("List").WithComment("## TASK-CONTEXT:\nwhen: x")

	assert.Empty(t, d.Name)
	assert.Empty(t, d.Comment)
	assert.Equal(t, "List", named.Name)
	assert.Equal(t, Run, named.Kind)
	assert.Equal(t, "ls", named.Payload)
}

func TestJobSequence(t *testing.T) {
	a := JobSequence{New(Env, "A 1")}
	b := JobSequence{New(Run, "ls"), New(Run, "pwd")}

	joined := a.Append(b)
	assert.Len(t, joined, 3)
	assert.Len(t, a, 1)
	assert.Equal(t, Run, joined[2].Kind)

	named := b.Named("Task")
	assert.Equal(t, "Task", named[1].Name)
	assert.Empty(t, b[1].Name)

	commented := b.Commented("c")
	assert.Equal(t, "c", commented[0].Comment)
	assert.Empty(t, b[0].Comment)
}
