package ir

import (
	"errors"
	"slices"
	"testing"
)

type pathTest struct {
	Path string
	Doc  string
	Res  string
}

var pathTests = []pathTest{
	{
		Path: "$",
		Doc:  "null",
		Res:  "null",
	},
	{
		Path: "$.f",
		Doc:  `{"f": 1}`,
		Res:  "1",
	},
	{
		Path: "$[0]",
		Doc:  "[1,2,3]",
		Res:  "1",
	},
	{
		Path: "$",
		Doc:  "[1,2,3]",
		Res:  "[1,2,3]",
	},
	{
		Path: "$[1].f",
		Doc:  `[0, {"f": 2, "g": 3}]`,
		Res:  "2",
	},
	{
		Path: "$.f[3]",
		Doc:  `{"a": [1,2], "f": [0,1,2,"three"]}`,
		Res:  `"three"`,
	},
	{
		Path: "$.'f[3]'[2]",
		Doc:  `{"a": [1,2], "f[3]": [0,1,2,"three"]}`,
		Res:  "2",
	},
	{
		Path: "$.'$f[\\'3]'[2]",
		Doc:  `{"a": [1,2], "$f['3]": [0,1,2,"three"]}`,
		Res:  "2",
	},
	{
		Path: "$[1]",
		Doc:  `{"1": "numeric key"}`,
		Res:  `"numeric key"`,
	},
	{
		Path: "$.x",
		Doc:  `{"a": 1}`,
	},
	{
		Path: "$[7]",
		Doc:  `[1]`,
	},
}

func TestGetPath(t *testing.T) {
	for _, pt := range pathTests {
		t.Run(pt.Path, func(t *testing.T) {
			doc, err := FromJSON([]byte(pt.Doc))
			if err != nil {
				t.Fatalf("FromJSON() error = %v", err)
			}
			p, err := ParsePath(pt.Path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v", pt.Path, err)
			}
			got := doc.GetPath(p)
			if pt.Res == "" {
				if got != nil {
					t.Errorf("GetPath(%s) = %v, want nil", p, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("GetPath(%s) = nil", p)
			}
			d, err := ToJSON(got)
			if err != nil {
				t.Fatalf("ToJSON() error = %v", err)
			}
			if string(d) != pt.Res {
				t.Errorf("GetPath(%s) = %s, want %s", p, d, pt.Res)
			}
		})
	}
}

func TestParsePathRoundTrip(t *testing.T) {
	for _, s := range []string{"$", "$.a", "$.a[0].b", "$.'a.b'[3]", "$[0][1]", "$.'x y'"} {
		p, err := ParsePath(s)
		if err != nil {
			t.Fatalf("ParsePath(%q) error = %v", s, err)
		}
		if p.String() != s {
			t.Errorf("ParsePath(%q).String() = %q", s, p.String())
		}
	}
	for _, p := range []Path{PathOf(`a\.b`), PathOf(`it's`), PathOf(`x\'y`, "z w"), PathOf(`\`, ".")} {
		got, err := ParsePath(p.String())
		if err != nil {
			t.Fatalf("ParsePath(%q) error = %v", p.String(), err)
		}
		if !slices.Equal(got, p) {
			t.Errorf("ParsePath(%q) = %v, want %v", p.String(), got, p)
		}
	}
	for _, s := range []string{"", "a", "$.", "$[x]", "$[-1]", "$.'open", "$[1"} {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q) expected error", s)
		}
	}
}

func TestSetPathEnsure(t *testing.T) {
	root := DefaultInstance(ObjectType)
	x := FromString("X")
	if err := root.SetPath(PathOf("a", "b", "c"), x, true); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	a := root.Get("a")
	if a == nil || a.Type != ObjectType {
		t.Fatalf("expected object at a, got %v", a)
	}
	b := a.Get("b")
	if b == nil || b.Type != ObjectType {
		t.Fatalf("expected object at a.b, got %v", b)
	}
	if got := root.GetPath(PathOf("a", "b", "c")); got != x {
		t.Errorf("GetPath(a.b.c) = %v, want %v", got, x)
	}
}

func TestSetPathEnsureOnlyMakesObjects(t *testing.T) {
	root := FromSlice(nil)
	if err := root.SetPath(PathOf(2, 0), FromInt(1), true); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if len(root.Values) != 3 || root.Values[0] != nil || root.Values[1] != nil {
		t.Fatalf("expected two holes before the new element, got %d values", len(root.Values))
	}
	if root.Values[2].Type != ObjectType {
		t.Errorf("ensured intermediate is %s, want Object", root.Values[2].Type)
	}
	if got := root.GetPath(PathOf(2, 0)); got == nil || got.Number != 1 {
		t.Errorf("GetPath([2][0]) = %v", got)
	}
}

func TestSetPathNoEnsure(t *testing.T) {
	doc, err := FromJSON([]byte(`{"a": {"b": 1}}`))
	if err != nil {
		t.Fatal(err)
	}
	before := doc.Clone()
	err = doc.SetPath(PathOf("x", "y"), FromInt(2), false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetPath() error = %v, want ErrNotFound", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) || pe.Path.String() != "$.x" {
		t.Errorf("expected PathError at $.x, got %v", err)
	}
	if !Equal(doc, before) {
		t.Errorf("failed SetPath mutated the tree")
	}
	if got := doc.GetPath(PathOf("x", "y")); got != nil {
		t.Errorf("GetPath() = %v, want nil", got)
	}
	if err := doc.SetPath(PathOf("a", "c"), FromInt(3), false); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if got := doc.GetPath(PathOf("a", "c")); got == nil || got.Number != 3 {
		t.Errorf("GetPath(a.c) = %v", got)
	}
}

func TestSetPathErrors(t *testing.T) {
	doc, err := FromJSON([]byte(`{"a": 1, "l": []}`))
	if err != nil {
		t.Fatal(err)
	}
	before := doc.Clone()
	if err := doc.SetPath(nil, FromInt(1), true); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty path error = %v", err)
	}
	if err := doc.SetPath(PathOf("a", "b"), FromInt(1), true); !errors.Is(err, ErrNotContainer) {
		t.Errorf("leaf intermediate error = %v", err)
	}
	if err := doc.SetPath(PathOf("l", "name"), FromInt(1), true); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("array field error = %v", err)
	}
	if err := doc.SetPath(PathOf("l", "name", "x"), FromInt(1), true); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("array field ensure error = %v", err)
	}
	if !Equal(doc, before) {
		t.Errorf("failed SetPath mutated the tree")
	}
	var nilNode *Node
	if err := nilNode.SetPath(PathOf("a"), FromInt(1), true); !errors.Is(err, ErrNotContainer) {
		t.Errorf("nil receiver error = %v", err)
	}
}

func TestDeletePath(t *testing.T) {
	doc, err := FromJSON([]byte(`{"a": {"b": [1, 2, 3]}}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := doc.DeletePath(PathOf("a", "b", 1))
	if err != nil {
		t.Fatalf("DeletePath() error = %v", err)
	}
	if got == nil || got.Number != 2 {
		t.Errorf("DeletePath() = %v, want 2", got)
	}
	if n := doc.GetPath(PathOf("a", "b")).Len(); n != 2 {
		t.Errorf("len after delete = %d, want 2", n)
	}
	got, err = doc.DeletePath(PathOf("nope", "b"))
	if err != nil || got != nil {
		t.Errorf("DeletePath(miss) = %v, %v", got, err)
	}
	if _, err := doc.DeletePath(Path{}); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("DeletePath(empty) error = %v", err)
	}
}
