package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directord/a2dd/internal/errors"
)

func TestLoadKeepsKeyOrder(t *testing.T) {
	tree, err := LoadBytes([]byte(`
- name: Install
  dnf:
    name: vim
    state: latest
  become: true
  when: ansible_os_family == "RedHat"
`))
	require.NoError(t, err)

	list, ok := tree.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)

	task := list[0].(*Map)
	assert.Equal(t, []string{"name", "dnf", "become", "when"}, task.Keys())

	dnf, ok := task.Map("dnf")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "state"}, dnf.Keys())
	assert.Equal(t, true, task.Value("become"))
}

func TestLoadScalarTypes(t *testing.T) {
	tree, err := LoadBytes([]byte(`
str: hello
int: 42
octal: 0644
float: 1.5
bool: false
yes_str: yes
null_value: ~
date: 2024-01-02
`))
	require.NoError(t, err)

	m := tree.(*Map)
	assert.Equal(t, "hello", m.Value("str"))
	assert.Equal(t, 42, m.Value("int"))
	assert.Equal(t, 0644, m.Value("octal"))
	assert.Equal(t, 1.5, m.Value("float"))
	assert.Equal(t, false, m.Value("bool"))
	assert.Equal(t, "yes", m.Value("yes_str"))
	assert.Nil(t, m.Value("null_value"))
	assert.True(t, m.Has("null_value"))
	assert.Equal(t, "2024-01-02", m.Value("date"))
}

func TestLoadAliasesAndMerge(t *testing.T) {
	tree, err := LoadBytes([]byte(`
base: &base
  owner: root
  mode: "0644"
file:
  <<: *base
  mode: "0600"
copy: *base
`))
	require.NoError(t, err)

	m := tree.(*Map)
	file, _ := m.Map("file")
	assert.Equal(t, "root", file.Value("owner"))
	assert.Equal(t, "0600", file.Value("mode"))

	copied, _ := m.Map("copy")
	assert.Equal(t, "0644", copied.Value("mode"))
}

func TestLoadEmpty(t *testing.T) {
	tree, err := LoadBytes(nil)
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestLoadInvalid(t *testing.T) {
	_, err := LoadBytes([]byte("key: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))

	path := filepath.Join(t.TempDir(), "vars.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))
	tree, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.(*Map).Value("a"))
}

func TestMapOperations(t *testing.T) {
	m := MapOf("a", 1, "b", 2, "c", 3)

	m.Set("b", 20)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, 20, m.Value("b"))

	m.Rename("b", "bee")
	assert.Equal(t, []string{"a", "bee", "c"}, m.Keys())
	assert.Equal(t, 20, m.Value("bee"))
	assert.False(t, m.Has("b"))

	v, ok := m.Pop("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"bee", "c"}, m.Keys())

	assert.False(t, m.Delete("missing"))
	assert.Equal(t, 2, m.Len())
}

func TestCloneIsDeep(t *testing.T) {
	inner := MapOf("x", 1)
	m := MapOf("inner", inner, "list", []any{MapOf("y", 2)})

	clone := m.Clone()
	cloneInner, _ := clone.Map("inner")
	cloneInner.Set("x", 100)
	clone.Value("list").([]any)[0].(*Map).Set("y", 200)

	assert.Equal(t, 1, inner.Value("x"))
	assert.Equal(t, 2, m.Value("list").([]any)[0].(*Map).Value("y"))
	assert.Equal(t, m, MapOf("inner", MapOf("x", 1), "list", []any{MapOf("y", 2)}))
}

func TestWithout(t *testing.T) {
	m := MapOf("name", "x", "copy", "y", "when", "z")
	out := m.Without("name", "copy")
	assert.Equal(t, []string{"when"}, out.Keys())
	assert.Equal(t, 3, m.Len())

	var nilMap *Map
	assert.Equal(t, 0, nilMap.Without("a").Len())
}

func TestFlow(t *testing.T) {
	assert.Equal(t, "plain text", Flow("plain text"))
	assert.Equal(t, "true", Flow(true))
	assert.Equal(t, "3", Flow(3))
	assert.Equal(t, "null", Flow(nil))
	assert.Equal(t, "[a, b]", Flow([]any{"a", "b"}))
	assert.Equal(t, "{A: 1, B: x}", Flow(MapOf("A", 1, "B", "x")))
}

func TestDumpUsesLiteralForMultiline(t *testing.T) {
	out, err := Dump(MapOf("RUN", "cd /tmp;\nls"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RUN: |"), out)
	assert.Contains(t, out, "  cd /tmp;\n  ls")

	out, err = Dump(MapOf("ARG", "yes"))
	require.NoError(t, err)
	assert.Equal(t, "ARG: \"yes\"\n", out)
}

func TestHasLineBreak(t *testing.T) {
	assert.True(t, HasLineBreak("a\nb"))
	assert.True(t, HasLineBreak("a\rb"))
	assert.True(t, HasLineBreak("a b"))
	assert.True(t, HasLineBreak("a\u0085b"))
	assert.False(t, HasLineBreak("a b"))
}

func TestTruthyFalsy(t *testing.T) {
	for _, v := range []any{true, "yes", "Yes", "true", "on", "1", 1} {
		assert.True(t, Truthy(v), "%v", v)
		assert.False(t, Falsy(v), "%v", v)
	}
	for _, v := range []any{false, "no", "False", "off", "0", 0} {
		assert.False(t, Truthy(v), "%v", v)
		assert.True(t, Falsy(v), "%v", v)
	}
	assert.False(t, Truthy(nil))
	assert.False(t, Falsy(nil))
}
