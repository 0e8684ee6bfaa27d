package core

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/stoewer/go-strcase"
)

// FuncName returns a snake_case label for fn derived from its Go symbol,
// e.g. "main.checkAuth" becomes "check_auth". Closures keep their parent's
// name with the numeric suffix dropped.
func FuncName(fn any) string {
	if fn == nil {
		return "nil"
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "unknown"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "unknown"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	name = strings.ReplaceAll(name, "[...]", "")
	parts := strings.Split(name, ".")
	// walk back over closure markers like func1 or 1
	label := parts[len(parts)-1]
	for i := len(parts) - 1; i > 0 && isClosureMarker(label); i-- {
		label = parts[i-1]
	}
	label = strings.TrimSuffix(strings.TrimPrefix(label, "("), ")")
	label = strings.TrimPrefix(label, "*")
	if label == "" {
		return "unknown"
	}
	return strcase.SnakeCase(label)
}

func isClosureMarker(s string) bool {
	if strings.HasPrefix(s, "func") {
		s = strings.TrimPrefix(s, "func")
	}
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
