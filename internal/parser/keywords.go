package parser

import "strings"

// LoopPrefix marks the legacy loop keywords (with_items, with_dict, ...).
const LoopPrefix = "with_"

// TaskKeywords are the task-level control attributes. Any other key on a
// task (outside the loop group) names its action.
var TaskKeywords = newKeywordSet(
	"action",
	"any_errors_fatal",
	"args",
	"async",
	"become",
	"become_exe",
	"become_flags",
	"become_method",
	"become_user",
	"changed_when",
	"check_mode",
	"collections",
	"connection",
	"debugger",
	"delay",
	"delegate_facts",
	"delegate_to",
	"diff",
	"environment",
	"failed_when",
	"ignore_errors",
	"ignore_unreachable",
	"listen",
	"local_action",
	"loop",
	"loop_control",
	"module_defaults",
	"name",
	"no_log",
	"notify",
	"poll",
	"port",
	"register",
	"remote_user",
	"retries",
	"run_once",
	"tags",
	"throttle",
	"timeout",
	"until",
	"vars",
	"when",
)

// BlockKeywords are the attributes a block may carry.
var BlockKeywords = newKeywordSet(
	"always",
	"any_errors_fatal",
	"become",
	"become_exe",
	"become_flags",
	"become_method",
	"become_user",
	"block",
	"check_mode",
	"collections",
	"connection",
	"debugger",
	"delegate_facts",
	"delegate_to",
	"diff",
	"environment",
	"ignore_errors",
	"ignore_unreachable",
	"module_defaults",
	"name",
	"no_log",
	"notify",
	"port",
	"remote_user",
	"rescue",
	"run_once",
	"tags",
	"throttle",
	"timeout",
	"vars",
	"when",
)

// PlayKeywords are the attributes a play may carry. Both spellings of the
// pre/post task lists are listed so neither leaks into the play context.
var PlayKeywords = newKeywordSet(
	"any_errors_fatal",
	"become",
	"become_exe",
	"become_flags",
	"become_method",
	"become_user",
	"check_mode",
	"collections",
	"connection",
	"debugger",
	"diff",
	"environment",
	"fact_path",
	"force_handlers",
	"gather_facts",
	"gather_subset",
	"gather_timeout",
	"handlers",
	"hosts",
	"ignore_errors",
	"ignore_unreachable",
	"max_fail_percentage",
	"module_defaults",
	"name",
	"no_log",
	"order",
	"port",
	"post-tasks",
	"post_tasks",
	"pre-tasks",
	"pre_tasks",
	"remote_user",
	"roles",
	"run_once",
	"serial",
	"strategy",
	"tags",
	"tasks",
	"throttle",
	"timeout",
	"vars",
	"vars_files",
	"vars_prompt",
)

// IncludeKeys reference another task file from a task list.
var IncludeKeys = []string{"include", "include_tasks", "import_tasks"}

// structuralActions never reach module translation: the structure walker
// handles them.
var structuralActions = newKeywordSet("block", "include", "include_tasks", "import_tasks")

// rawValueActions keep a string value as-is instead of parsing key=value
// pairs out of it.
var rawValueActions = newKeywordSet("shell", "command", "raw", "include_vars")

// KeywordSet is a set of attribute names.
type KeywordSet map[string]struct{}

func newKeywordSet(names ...string) KeywordSet {
	set := make(KeywordSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s KeywordSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// IsLoopKey reports whether key belongs to the with_* loop group.
func IsLoopKey(key string) bool {
	return strings.HasPrefix(key, LoopPrefix)
}

// ShortName drops the collection namespace from an action, so
// ansible.builtin.copy becomes copy.
func ShortName(action string) string {
	return action[strings.LastIndex(action, ".")+1:]
}

// IncludeKey returns the include-reference key present on node, if any.
// Namespaced spellings such as ansible.builtin.include_tasks match too; the
// key is returned as written.
func IncludeKey(keys []string) string {
	for _, k := range keys {
		for _, inc := range IncludeKeys {
			if ShortName(k) == inc {
				return k
			}
		}
	}
	return ""
}
