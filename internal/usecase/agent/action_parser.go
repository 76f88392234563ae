package agent

import (
	"strconv"
	"strings"

	"github.com/kalder-cloud/reagent/internal/domain"
)

// parseAction parses one action line of the form
//
//	Action: name[key1="value1", key2=value2, ...]
//
// into a tagged action variant. The second return value is false when the
// line does not match the grammar (missing Action: prefix, missing or
// inverted brackets). Fields without '=' are ignored; duplicate keys keep
// the last occurrence; a single pair of surrounding double quotes is
// stripped from values. Empty brackets are a valid zero-argument call.
func parseAction(line string) (domain.Action, bool) {
	if !strings.HasPrefix(line, actionMarker) {
		return domain.Action{}, false
	}
	s := strings.TrimSpace(line[len(actionMarker):])

	lb := strings.Index(s, "[")
	rb := strings.LastIndex(s, "]")
	if lb == -1 || rb == -1 || rb < lb {
		return domain.Action{}, false
	}
	name := strings.TrimSpace(s[:lb])
	inner := strings.TrimSpace(s[lb+1 : rb])

	args := make(map[string]string)
	if inner != "" {
		for _, field := range strings.Split(inner, ",") {
			key, val, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			args[strings.TrimSpace(key)] = unquote(strings.TrimSpace(val))
		}
	}

	switch name {
	case domain.ToolSearch:
		k := defaultSearchK
		if raw, ok := args["k"]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				k = n
			}
		}
		return domain.SearchAction(args["query"], k), true
	case domain.ToolFinish:
		return domain.FinishAction(args["answer"]), true
	default:
		return domain.UnknownAction(name), true
	}
}

// unquote strips one pair of leading/trailing double quotes, if present.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
