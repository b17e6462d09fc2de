// Package drc is the post-transformation design-rule-check guard: it pulls
// the implicated primitive IDs out of the host DRC oracle's loosely
// structured report and surgically reverts the rounding transactions that
// created them, leaving clean work in place.
package drc

// maxDepth bounds the recursive descent through the oracle's result. The
// report nests issues inside explanations inside lists; a dozen levels is
// far beyond anything the host emits.
const maxDepth = 12

// skipKeys are back-reference-like fields that would walk up or across the
// host's object graph; descending into them risks cycles.
var skipKeys = map[string]bool{
	"parent": true,
	"owner":  true,
	"board":  true,
	"root":   true,
	"prev":   true,
	"next":   true,
}

// idKeys are the fields whose string values name primitives directly.
var idKeys = map[string]bool{
	"id":          true,
	"uuid":        true,
	"primitiveId": true,
	"obj1":        true,
	"obj2":        true,
}

// ExtractViolationIDs recursively collects every primitive ID implicated
// anywhere in a DRC result: id/uuid/primitiveId fields, the elements of
// "objs" arrays, the obj1/obj2 pair inside error explanations, recursing
// through "list" arrays and any other nested structure. The walk is depth
// bounded and never descends into back-reference-like keys.
func ExtractViolationIDs(result any) map[string]struct{} {
	out := make(map[string]struct{})
	walk(result, 0, out)
	return out
}

func walk(v any, depth int, out map[string]struct{}) {
	if depth > maxDepth {
		return
	}
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			if skipKeys[k] {
				continue
			}
			if idKeys[k] {
				if s, ok := val.(string); ok {
					if s != "" {
						out[s] = struct{}{}
					}
					continue
				}
			}
			if k == "objs" {
				if arr, ok := val.([]any); ok {
					for _, e := range arr {
						if s, ok := e.(string); ok {
							if s != "" {
								out[s] = struct{}{}
							}
							continue
						}
						walk(e, depth+1, out)
					}
					continue
				}
			}
			walk(val, depth+1, out)
		}
	case []any:
		for _, e := range x {
			walk(e, depth+1, out)
		}
	}
}
