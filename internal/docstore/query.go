package docstore

import (
	"fmt"
	"sort"
)

func (f Filter) matches(fields Fields) bool {
	v, ok := fields[f.Field]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == f.Value
}

func matchesAll(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		if !f.matches(fields) {
			return false
		}
	}
	return true
}

// orderAndLimit sorts docs in place by q.OrderBy and truncates to q.Limit.
// Documents missing the field sort last regardless of direction.
func orderAndLimit(docs []Document, q Query) []Document {
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			a, aok := docs[i].Fields[q.OrderBy]
			b, bok := docs[j].Fields[q.OrderBy]
			switch {
			case !aok || !bok:
				return aok && !bok
			case q.Desc:
				return compare(a, b) > 0
			default:
				return compare(a, b) < 0
			}
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

func compare(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
