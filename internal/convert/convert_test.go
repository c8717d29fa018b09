package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directord/a2dd/internal/config"
	"github.com/directord/a2dd/internal/errors"
	"github.com/directord/a2dd/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o644))
	return path
}

func convertFile(t *testing.T, content string) *Result {
	t.Helper()
	path := writeFile(t, t.TempDir(), "input.yml", content)
	res, err := New(nil).File(path)
	require.NoError(t, err)
	return res
}

func kinds(jobs types.JobSequence) []string {
	out := make([]string, len(jobs))
	for i, d := range jobs {
		out[i] = string(d.Kind)
	}
	return out
}

func TestPlaybookRoundTrip(t *testing.T) {
	res := convertFile(t, `
- hosts: web
  gather_facts: true
  serial: 1
  environment:
    A: "1"
  vars:
    port: 80
  tasks:
    - name: Build
      shell: make
      args:
        chdir: /tmp
    - name: Place config
      copy:
        src: a.conf
        dest: /etc/a.conf
        mode: "0644"
      when: deploy
`)

	require.True(t, res.IsPlaybook())
	require.Len(t, res.Plays, 1)
	play := res.Plays[0]
	assert.Equal(t, "web", play.Targets)

	jobs := play.Jobs
	assert.Equal(t, []string{"ENV", "ARG", "FACTER", "RUN", "COPY"}, kinds(jobs))

	playComment := "## PLAY-CONTEXT:\nserial: 1"

	assert.Equal(t, types.Directive{Kind: types.Env, Payload: "A 1", Name: "Set playbook env value for A", Comment: playComment}, jobs[0])
	assert.Equal(t, types.Directive{Kind: types.Arg, Payload: `port "80"`, Name: "Set playbook variable port", Comment: playComment}, jobs[1])
	assert.Equal(t, "Gather facts for playbook", jobs[2].Name)
	assert.Equal(t, "", jobs[2].Payload)

	assert.True(t, strings.HasPrefix(jobs[3].Payload, "cd /tmp;"), jobs[3].Payload)
	assert.Equal(t, "cd /tmp;\nexport A=\"1\";\nmake", jobs[3].Payload)
	assert.Equal(t, "Build", jobs[3].Name)
	assert.Equal(t, playComment, jobs[3].Comment)

	assert.Contains(t, jobs[4].Payload, "--chmod 0644")
	assert.Equal(t, "--chmod 0644 a.conf /etc/a.conf", jobs[4].Payload)
	assert.Equal(t, playComment+"\n## TASK-CONTEXT:\nwhen: deploy", jobs[4].Comment)
}

func TestEnvironmentExportOrder(t *testing.T) {
	res := convertFile(t, `
- hosts: all
  environment:
    A: "1"
  tasks:
    - block:
        - shell: env
          environment:
            A: "3"
      environment:
        B: "2"
`)

	jobs := res.Plays[0].Jobs
	require.Equal(t, []string{"ENV", "ENV", "RUN"}, kinds(jobs))
	assert.Equal(t, "Set playbook env value for A", jobs[0].Name)
	assert.Equal(t, "Set block env value for B", jobs[1].Name)
	assert.Equal(t, "export A=\"1\";\nexport B=\"2\";\nexport A=\"3\";\nenv", jobs[2].Payload)
}

func TestCommentOrder(t *testing.T) {
	res := convertFile(t, `
- hosts: all
  serial: 2
  tasks:
    - block:
        - shell: uptime
          register: up
      when: ready
`)

	jobs := res.Plays[0].Jobs
	require.Len(t, jobs, 1)
	assert.Equal(t, "## PLAY-CONTEXT:\nserial: 2\n## BLOCK-CONTEXT:\nwhen: ready\n## TASK-CONTEXT:\nregister: up", jobs[0].Comment)
}

func TestNoCommentWhenEverythingTranslated(t *testing.T) {
	res := convertFile(t, `
- shell: uptime
`)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "", res.Jobs[0].Comment)
	assert.Equal(t, "Unnamed task", res.Jobs[0].Name)
}

func TestUnsupportedModuleBecomesEcho(t *testing.T) {
	res := convertFile(t, `
- name: Edit hosts
  lineinfile:
    path: /etc/hosts
    line: 127.0.0.1 web
`)

	require.Len(t, res.Jobs, 1)
	d := res.Jobs[0]
	assert.Equal(t, types.Echo, d.Kind)
	assert.Equal(t, "Edit hosts", d.Name)
	assert.Equal(t, "## TASK-CONTEXT:\nname: Edit hosts\nlineinfile:\n  path: /etc/hosts\n  line: 127.0.0.1 web", d.Comment)
}

func TestTaskWithoutJobsKeepsContext(t *testing.T) {
	res := convertFile(t, `
- file: path=/tmp/x
  when: present
- set_fact:
    cacheable: true
`)

	require.Len(t, res.Jobs, 1)
	d := res.Jobs[0]
	assert.Equal(t, types.Echo, d.Kind)
	assert.Equal(t, "Task module 'file' needs no jobs", d.Payload)
	assert.Equal(t, "Unnamed task", d.Name)
	assert.Equal(t, "## TASK-CONTEXT:\nwhen: present", d.Comment)
}

func TestNamespacedInclude(t *testing.T) {
	dir := t.TempDir()
	other := writeFile(t, dir, "other.yml", "- shell: echo hi\n")
	path := writeFile(t, dir, "main.yml", "- ansible.builtin.include_tasks: "+other+"\n  when: first\n")

	res, err := New(nil).File(path)
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "echo hi", res.Jobs[0].Payload)
	assert.Equal(t, "## INCLUDE-CONTEXT:\nwhen: first", res.Jobs[0].Comment)
}

func TestVarsKeptVerbatim(t *testing.T) {
	res := convertFile(t, `
greeting: '{{ "hi" ~ name }}'
`)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, `greeting "{{ "hi" ~ name }}"`, res.Jobs[0].Payload)
}

func TestHostsAllHasNoTargets(t *testing.T) {
	res := convertFile(t, `
- hosts: all
  tasks: []
`)
	require.Len(t, res.Plays, 1)
	assert.Nil(t, res.Plays[0].Targets)
	assert.NotNil(t, res.Plays[0].Jobs)
	assert.Empty(t, res.Plays[0].Jobs)
}

func TestPlayRolesRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "site.yml", `
- hosts: all
  roles:
    - common
`)
	_, err := New(nil).File(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedConstruct))
}

func TestTaskListKeys(t *testing.T) {
	content := `
- hosts: all
  post-tasks:
    - shell: echo post
  pre_tasks:
    - shell: echo underscore
  tasks:
    - shell: echo main
`

	res := convertFile(t, content)
	var payloads []string
	for _, d := range res.Plays[0].Jobs {
		payloads = append(payloads, d.Payload)
	}
	// document order, underscore spelling skipped
	assert.Equal(t, []string{"echo post", "echo main"}, payloads)

	cfg := config.Default()
	cfg.Play.TaskListKeys = []string{"pre_tasks", "tasks"}
	path := writeFile(t, t.TempDir(), "site.yml", content)
	out, err := New(cfg).File(path)
	require.NoError(t, err)
	payloads = nil
	for _, d := range out.Plays[0].Jobs {
		payloads = append(payloads, d.Payload)
	}
	assert.Equal(t, []string{"echo underscore", "echo main"}, payloads)
}

func TestBlockSections(t *testing.T) {
	res := convertFile(t, `
- name: Try
  block:
    - shell: echo try
  rescue:
    - shell: echo rescue
  always:
    - shell: echo always
`)

	var payloads []string
	for _, d := range res.Jobs {
		payloads = append(payloads, d.Payload)
		assert.Equal(t, "## BLOCK-CONTEXT:\nname: Try", d.Comment)
	}
	assert.Equal(t, []string{"echo try", "echo rescue", "echo always"}, payloads)
}

func TestFatalErrorsAbort(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"ambiguous", "- shell: ls\n  copy: {src: a, dest: b}\n", errors.ErrAmbiguousAction},
		{"no action", "- name: nothing\n  when: x\n", errors.ErrNoAction},
		{"not implemented", "- file: {path: /a, state: link, src: /b}\n", errors.ErrNotImplementedYet},
		{"missing include", "- include_tasks: missing.yml\n", errors.ErrFileRead},
		{"scalar entry", "- just a string\n", errors.ErrUnsupportedConstruct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "tasks.yml", tt.content)
			res, err := New(nil).File(path)
			assert.Nil(t, res)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestVarsFile(t *testing.T) {
	res := convertFile(t, `
a: 1
b: [x, y]
`)
	require.False(t, res.IsPlaybook())
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, `a "1"`, res.Jobs[0].Payload)
	assert.Equal(t, `b "[x, y]"`, res.Jobs[1].Payload)
}

func TestEmptyFile(t *testing.T) {
	res := convertFile(t, "")
	assert.False(t, res.IsPlaybook())
	assert.Empty(t, res.Jobs)
}

func TestRole(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defaults/main.yml", "a: 1\n")
	writeFile(t, dir, "vars/main.yml", "b: two\n")
	writeFile(t, dir, "tasks/main.yml", `
- include_tasks: setup.yml
  when: first_run
  environment:
    X: "1"
`)
	writeFile(t, dir, "tasks/setup.yml", `
- name: Say hi
  shell: echo hi
`)
	writeFile(t, dir, "tasks/README.md", "not yaml")

	jobs, err := New(nil).Role(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"ARG", "ARG", "ENV", "RUN", "RUN"}, kinds(jobs))

	assert.Equal(t, "Set role variable a", jobs[0].Name)
	assert.Equal(t, `b "two"`, jobs[1].Payload)

	includeComment := "## INCLUDE-CONTEXT:\nwhen: first_run"
	assert.Equal(t, "Set include env value for X", jobs[2].Name)
	assert.Equal(t, "X 1", jobs[2].Payload)
	assert.Equal(t, includeComment, jobs[2].Comment)

	// tasks/main.yml pulls in setup.yml, then setup.yml is walked on its own
	assert.Equal(t, "echo hi", jobs[3].Payload)
	assert.Equal(t, includeComment, jobs[3].Comment)
	assert.Equal(t, "echo hi", jobs[4].Payload)
	assert.Equal(t, "", jobs[4].Comment)
}

func TestRoleMissingDirectory(t *testing.T) {
	_, err := New(nil).Role(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
}

func TestRoleWithoutTasks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defaults/main.yml", "a: 1\n")

	jobs, err := New(nil).Role(dir)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
