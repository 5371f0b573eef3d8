package harness

import (
	"fmt"
	"sort"
)

// ShapeOf names the shape of an untyped value as it appears in the
// unexpected-class diagnostics.
func ShapeOf(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case []any, []string:
		return "list"
	case string:
		return "string"
	case int, int64, int32, uint, uint64:
		return "int"
	case bool:
		return "bool"
	case float32, float64:
		return "float"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// paramsOf converts an untyped mapping to Params.
// Plain Go maps have no order, so their keys are sorted.
func paramsOf(v any) (Params, string, bool) {
	switch m := v.(type) {
	case Params:
		return m, "", true
	case map[string]any:
		params := make(Params, 0, len(m))
		for _, k := range sortedKeys(m) {
			params = append(params, Param{Name: k, Value: m[k]})
		}
		return params, "", true
	case map[string]string:
		params := make(Params, 0, len(m))
		for _, k := range sortedKeys(m) {
			params = append(params, Param{Name: k, Value: m[k]})
		}
		return params, "", true
	default:
		return nil, ShapeOf(v), false
	}
}

// filesOf converts an untyped mapping to Files. Values are rendered with
// fmt.Sprint, as file names and contents are always text.
func filesOf(v any) (Files, string, bool) {
	switch m := v.(type) {
	case Files:
		return m, "", true
	case Params:
		files := make(Files, 0, len(m))
		for _, p := range m {
			files = append(files, File{Name: p.Name, Content: fmt.Sprint(p.Value)})
		}
		return files, "", true
	case map[string]string:
		files := make(Files, 0, len(m))
		for _, k := range sortedKeys(m) {
			files = append(files, File{Name: k, Content: m[k]})
		}
		return files, "", true
	case map[string]any:
		files := make(Files, 0, len(m))
		for _, k := range sortedKeys(m) {
			files = append(files, File{Name: k, Content: fmt.Sprint(m[k])})
		}
		return files, "", true
	default:
		return nil, ShapeOf(v), false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
