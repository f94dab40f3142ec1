package logging

import "strings"

const redacted = "[REDACTED]"

// sensitiveKeys never reach the log output with their real values.
var sensitiveKeys = map[string]struct{}{
	"pin":        {},
	"new_pin":    {},
	"key":        {},
	"master_key": {},
	"secret":     {},
	"plaintext":  {},
	"content":    {},
}

// redact returns args with the values of sensitive keys replaced.
// args is not modified.
func redact(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, bad := sensitiveKeys[strings.ToLower(k)]; !bad {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = redacted
	}
	if out == nil {
		return args
	}
	return out
}
