package drc

import (
	"encoding/json"
	"testing"
)

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestExtractFlatIDFields(t *testing.T) {
	v := parse(t, `{"id":"p1","uuid":"p2","primitiveId":"p3","name":"ignored"}`)
	ids := ExtractViolationIDs(v)
	for _, want := range []string{"p1", "p2", "p3"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing %q in %v", want, ids)
		}
	}
	if len(ids) != 3 {
		t.Errorf("got %d ids, want 3", len(ids))
	}
}

func TestExtractObjsArrays(t *testing.T) {
	v := parse(t, `{"issues":[{"objs":["a","b"]},{"objs":[{"id":"c"}]}]}`)
	ids := ExtractViolationIDs(v)
	for _, want := range []string{"a", "b", "c"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing %q in %v", want, ids)
		}
	}
}

func TestExtractNestedExplanation(t *testing.T) {
	v := parse(t, `{
		"list": [
			{"explanation": {"errData": {"obj1": "x1", "obj2": "x2"}}},
			{"list": [{"id": "deep"}]}
		]
	}`)
	ids := ExtractViolationIDs(v)
	for _, want := range []string{"x1", "x2", "deep"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing %q in %v", want, ids)
		}
	}
}

func TestExtractSkipsBackReferences(t *testing.T) {
	v := parse(t, `{"parent":{"id":"hidden"},"owner":{"uuid":"hidden2"},"id":"seen"}`)
	ids := ExtractViolationIDs(v)
	if _, ok := ids["hidden"]; ok {
		t.Error("descended into parent back-reference")
	}
	if _, ok := ids["hidden2"]; ok {
		t.Error("descended into owner back-reference")
	}
	if _, ok := ids["seen"]; !ok {
		t.Error("top-level id lost")
	}
}

func TestExtractDepthBounded(t *testing.T) {
	// Build nesting deeper than the bound; the innermost ID must not
	// surface and the walk must terminate.
	inner := `{"id":"too-deep"}`
	for i := 0; i < maxDepth+5; i++ {
		inner = `{"level":` + inner + `}`
	}
	ids := ExtractViolationIDs(parse(t, inner))
	if _, ok := ids["too-deep"]; ok {
		t.Error("walk exceeded its depth bound")
	}
}

func TestExtractNonObjectInput(t *testing.T) {
	if ids := ExtractViolationIDs("just a string"); len(ids) != 0 {
		t.Errorf("scalar input produced %v", ids)
	}
	if ids := ExtractViolationIDs(nil); len(ids) != 0 {
		t.Errorf("nil input produced %v", ids)
	}
}
