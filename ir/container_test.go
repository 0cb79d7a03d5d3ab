package ir

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func keysOf(y *Node) []string {
	var res []string
	for _, k := range y.Keys() {
		res = append(res, string(k))
	}
	return res
}

func TestObjectSetUpserts(t *testing.T) {
	obj := Object(KV("a", FromInt(1)), KV("b", FromInt(2)), KV("c", FromInt(3)))
	obj.Set(StrKey("b"), FromInt(20))
	obj.Set(StrKey("d"), FromInt(4))
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, keysOf(obj)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if got := obj.Get("b"); got.Number != 20 {
		t.Errorf("Get(b) = %v, want 20", got.Number)
	}
	if obj.Len() != 4 {
		t.Errorf("Len() = %d, want 4", obj.Len())
	}
}

func TestObjectNormalizedKeys(t *testing.T) {
	obj := DefaultInstance(ObjectType)
	obj.Set(IntKey(1), FromString("int"))
	obj.Set(StrKey("1"), FromString("str"))
	obj.Set(NumKey(1.0), FromString("float"))
	if obj.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", obj.Len())
	}
	if got := obj.Get(BigKey(big.NewInt(1))); got == nil || got.String != "float" {
		t.Errorf("Get(1n) = %v", got)
	}
	k, ok := KeyOf(FromFloat(2.5))
	if !ok || k != "2.5" {
		t.Errorf("KeyOf(2.5) = %q, %t", k, ok)
	}
}

func TestObjectDeleteKeepsOrder(t *testing.T) {
	obj := Object(KV("a", FromInt(1)), KV("b", FromInt(2)), KV("c", FromInt(3)), KV("d", FromInt(4)))
	got := obj.Delete("b")
	if got == nil || got.Number != 2 {
		t.Fatalf("Delete(b) = %v", got)
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, keysOf(obj)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if obj.Delete("zz") != nil {
		t.Errorf("Delete(missing) should be nil")
	}
}

func TestPopAnyTakesLast(t *testing.T) {
	obj := Object(KV("a", FromInt(1)), KV("b", FromInt(2)))
	k, v, ok := obj.PopAny()
	if !ok || k != "b" || v.Number != 2 {
		t.Errorf("PopAny() = %q, %v, %t", k, v, ok)
	}
	arr := FromSlice([]*Node{FromInt(1), nil})
	k, v, ok = arr.PopAny()
	if !ok || k != "1" || v != nil {
		t.Errorf("PopAny() on hole = %q, %v, %t", k, v, ok)
	}
	call := NewCall(Ident("f"), FromInt(1), FromInt(2))
	k, v, ok = call.PopAny()
	if !ok || k != "2" || v.Number != 2 {
		t.Errorf("PopAny() on call = %q, %v, %t", k, v, ok)
	}
	call.PopAny()
	if _, _, ok := call.PopAny(); ok {
		t.Errorf("PopAny() popped a callee")
	}
	if call.Callee == nil || call.Callee.String != "f" {
		t.Errorf("callee changed: %v", call.Callee)
	}
	if _, _, ok := FromString("x").PopAny(); ok {
		t.Errorf("PopAny() on a leaf")
	}
}

func TestArrayHolesAndPadding(t *testing.T) {
	arr := FromSlice([]*Node{FromInt(0)})
	if !arr.Set(IntKey(3), FromInt(3)) {
		t.Fatal("Set() = false")
	}
	if arr.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", arr.Len())
	}
	for _, i := range []int{1, 2} {
		if arr.Get(IntKey(i)) != nil {
			t.Errorf("Get(%d) should be a hole", i)
		}
	}
	if arr.Get(IntKey(9)) != nil {
		t.Errorf("out of range Get should be nil")
	}
	if arr.Set(StrKey("x"), FromInt(1)) {
		t.Errorf("Set with a non index key should fail on arrays")
	}
	if arr.Get(StrKey("-1")) != nil || arr.Get(NumKey(1.5)) != nil {
		t.Errorf("non index keys should miss")
	}
	if diff := cmp.Diff([]string{"0", "3"}, keysOf(arr)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestCallKeys(t *testing.T) {
	call := NewCall(Ident("jsx"), FromString("div"), Object())
	if call.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", call.Len())
	}
	if got := call.Get(IntKey(0)); !got.IsIdent("jsx") {
		t.Errorf("Get(0) = %v, want callee", got)
	}
	if got := call.Get(IntKey(1)); got.String != "div" {
		t.Errorf("Get(1) = %v, want first argument", got)
	}
	call.Set(IntKey(5), FromInt(5))
	if call.Len() != 6 || call.Get(IntKey(3)) != nil || call.Get(IntKey(5)).Number != 5 {
		t.Errorf("gap write did not pad: len %d", call.Len())
	}
}

func TestCallCalleeInvariant(t *testing.T) {
	call := NewCall(Ident("f"), FromInt(1))
	removed := call.Delete(IntKey(0))
	if !removed.IsIdent("f") {
		t.Errorf("Delete(0) = %v, want the old callee", removed)
	}
	if call.Len() != 2 {
		t.Errorf("Len() = %d, want 2", call.Len())
	}
	got := call.Get(IntKey(0))
	if got == nil || got.Type != InvalidType {
		t.Errorf("Get(0) = %v, want the empty callee", got)
	}
	if call.Delete(IntKey(0)) == nil || call.Get(IntKey(0)) == nil {
		t.Errorf("repeated callee delete lost the callee")
	}
	if got := call.Delete(IntKey(1)); got == nil || got.Number != 1 {
		t.Errorf("Delete(1) = %v", got)
	}
	if call.Len() != 1 {
		t.Errorf("Len() = %d, want 1", call.Len())
	}
}

func TestDefaultInstance(t *testing.T) {
	for _, ty := range []Type{ObjectType, ArrayType, CallType} {
		y := DefaultInstance(ty)
		if y.Type != ty {
			t.Errorf("DefaultInstance(%s).Type = %s", ty, y.Type)
		}
		if ty == CallType && y.Callee == nil {
			t.Errorf("DefaultInstance(Call) has no callee")
		}
	}
	if DefaultInstance(StringType) != nil {
		t.Errorf("DefaultInstance(String) should be nil")
	}
}

func TestSequenceHelpers(t *testing.T) {
	arr := Array(FromInt(1), FromInt(2))
	arr.Append(FromInt(3))
	arr.Extend(FromInt(2), FromInt(5))
	arr.Insert(-4, FromInt(0))
	arr.Insert(100, FromInt(9))
	got, err := ToJSON(arr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[0,1,2,3,2,5,9]" {
		t.Errorf("after inserts = %s", got)
	}
	if i := arr.IndexOf(FromInt(2)); i != 2 {
		t.Errorf("IndexOf(2) = %d", i)
	}
	if n := arr.Count(FromInt(2)); n != 2 {
		t.Errorf("Count(2) = %d", n)
	}
	if arr.Contains(FromInt(42)) {
		t.Errorf("Contains(42) = true")
	}
	arr.Reverse()
	if v, ok := arr.Pop(); !ok || v.Number != 0 {
		t.Errorf("Pop() after Reverse = %v, %t", v, ok)
	}
	if Object().Append(FromInt(1)) {
		t.Errorf("Append on object should fail")
	}
}

func TestMappingHelpers(t *testing.T) {
	obj := Object(KV("a", FromInt(1)))
	if got := obj.SetDefault("a", FromInt(9)); got.Number != 1 {
		t.Errorf("SetDefault(existing) = %v", got)
	}
	if got := obj.SetDefault("b", FromInt(2)); got.Number != 2 || obj.Get("b") == nil {
		t.Errorf("SetDefault(missing) = %v", got)
	}
	obj.Update(Object(KV("a", FromInt(10)), KV("c", FromInt(3))))
	d, _ := ToJSON(obj)
	if string(d) != `{"a":10,"b":2,"c":3}` {
		t.Errorf("after Update = %s", d)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Object(KV("a", Array(FromInt(1), nil, NewCall(Ident("f"), FromBigInt(big.NewInt(7))))))
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatalf("clone differs")
	}
	c.GetPath(PathOf("a", 2)).Values[0].BigInt.SetInt64(8)
	if Equal(orig, c) {
		t.Errorf("mutating the clone changed the original")
	}
}
