package crawldoc

import (
	"github.com/tidwall/gjson"
)

// Field readers resolve absent or wrong-typed JSON values to a default.
// A numeric string is not a number and a "true" string is not a bool.

func str(r gjson.Result, def string) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return def
}

// ident accepts string ids and, for hand-written documents, bare numbers
func ident(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

func num(r gjson.Result, def float64) float64 {
	if r.Type == gjson.Number {
		return r.Num
	}
	return def
}

func integer(r gjson.Result, def int) int {
	if r.Type == gjson.Number {
		return int(r.Num)
	}
	return def
}

func boolean(r gjson.Result, def bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return def
	}
}

// truthy mirrors how crawl exporters use loose flags: 1, "yes" and non-empty
// containers all count as set.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return !isEmptyContainer(r)
	default:
		return false
	}
}

func isEmptyContainer(r gjson.Result) bool {
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

func object(r gjson.Result) map[string]any {
	if !r.IsObject() {
		return map[string]any{}
	}
	if m, ok := r.Value().(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// each visits array elements; anything that is not an array yields nothing
func each(r gjson.Result, fn func(gjson.Result)) {
	if !r.IsArray() {
		return
	}
	for _, item := range r.Array() {
		fn(item)
	}
}

func rawList(r gjson.Result) []any {
	out := []any{}
	each(r, func(item gjson.Result) {
		out = append(out, item.Value())
	})
	return out
}
