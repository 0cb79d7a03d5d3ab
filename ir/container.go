package ir

import (
	"iter"
	"slices"
)

// Len returns the number of entries of a container: object properties,
// array elements including holes, or call arguments plus one for the
// callee. Leaves have length 0.
func (y *Node) Len() int {
	if y == nil {
		return 0
	}
	switch y.Type {
	case ObjectType, ArrayType:
		return len(y.Values)
	case CallType:
		return len(y.Values) + 1
	default:
		return 0
	}
}

func (y *Node) fieldIndex(k Key) int {
	return slices.Index(y.Fields, k)
}

// Get returns the entry at k or nil.
//
// Objects look k up by normalized key. Arrays return nil for holes and
// out of range indexes. For calls, key 0 is the callee and key n is
// argument n-1.
func (y *Node) Get(k Key) *Node {
	if y == nil {
		return nil
	}
	switch y.Type {
	case ObjectType:
		i := y.fieldIndex(k)
		if i < 0 {
			return nil
		}
		return y.Values[i]
	case ArrayType:
		i, ok := k.Index()
		if !ok || i >= len(y.Values) {
			return nil
		}
		return y.Values[i]
	case CallType:
		i, ok := k.Index()
		if !ok {
			return nil
		}
		if i == 0 {
			return y.Callee
		}
		if i-1 >= len(y.Values) {
			return nil
		}
		return y.Values[i-1]
	default:
		return nil
	}
}

// Has reports whether k addresses a present, non hole entry.
func (y *Node) Has(k Key) bool {
	return y.Get(k) != nil
}

// Set writes v at k. Objects replace an existing key in place or append a
// new one. Arrays and calls pad with holes when k is past the end.
//
// Set returns false when y is not a container or, for arrays and calls, when
// k is not an index.
func (y *Node) Set(k Key, v *Node) bool {
	if y == nil {
		return false
	}
	switch y.Type {
	case ObjectType:
		if v == nil {
			v = Null()
		}
		if i := y.fieldIndex(k); i >= 0 {
			y.Values[i] = v
			return true
		}
		y.Fields = append(y.Fields, k)
		y.Values = append(y.Values, v)
		return true
	case ArrayType:
		i, ok := k.Index()
		if !ok {
			return false
		}
		y.Values = setPadded(y.Values, i, v)
		return true
	case CallType:
		i, ok := k.Index()
		if !ok {
			return false
		}
		if i == 0 {
			if v == nil {
				v = EmptyCallee()
			}
			y.Callee = v
			return true
		}
		y.Values = setPadded(y.Values, i-1, v)
		return true
	default:
		return false
	}
}

func setPadded(vs []*Node, i int, v *Node) []*Node {
	if i >= len(vs) {
		vs = append(vs, make([]*Node, i+1-len(vs))...)
	}
	vs[i] = v
	return vs
}

// Delete removes the entry at k and returns it, or nil when there is none.
//
// Object deletion keeps the order of the remaining keys. Deleting key 0 of
// a call installs EmptyCallee instead of removing it.
func (y *Node) Delete(k Key) *Node {
	if y == nil {
		return nil
	}
	switch y.Type {
	case ObjectType:
		i := y.fieldIndex(k)
		if i < 0 {
			return nil
		}
		v := y.Values[i]
		y.Fields = slices.Delete(y.Fields, i, i+1)
		y.Values = slices.Delete(y.Values, i, i+1)
		return v
	case ArrayType:
		i, ok := k.Index()
		if !ok || i >= len(y.Values) {
			return nil
		}
		v := y.Values[i]
		y.Values = slices.Delete(y.Values, i, i+1)
		return v
	case CallType:
		i, ok := k.Index()
		if !ok {
			return nil
		}
		if i == 0 {
			v := y.Callee
			y.Callee = EmptyCallee()
			return v
		}
		if i-1 >= len(y.Values) {
			return nil
		}
		v := y.Values[i-1]
		y.Values = slices.Delete(y.Values, i-1, i)
		return v
	default:
		return nil
	}
}

// PopAny removes and returns the last entry of a container: the last
// object property, the last array element or the last call argument. The
// callee of a call is never popped. A popped hole is returned as a nil node
// with ok set.
func (y *Node) PopAny() (k Key, v *Node, ok bool) {
	if y == nil {
		return "", nil, false
	}
	n := len(y.Values)
	if n == 0 {
		return "", nil, false
	}
	switch y.Type {
	case ObjectType:
		k, v = y.Fields[n-1], y.Values[n-1]
		y.Fields = y.Fields[:n-1]
	case ArrayType:
		k, v = IntKey(n-1), y.Values[n-1]
	case CallType:
		k, v = IntKey(n), y.Values[n-1]
	default:
		return "", nil, false
	}
	y.Values[n-1] = nil
	y.Values = y.Values[:n-1]
	return k, v, true
}

// DefaultInstance returns an empty container of type t, or nil when t is
// not a container type.
func DefaultInstance(t Type) *Node {
	switch t {
	case ObjectType:
		return &Node{Type: ObjectType, Fields: []Key{}, Values: []*Node{}}
	case ArrayType:
		return &Node{Type: ArrayType, Values: []*Node{}}
	case CallType:
		return NewCall(EmptyCallee())
	default:
		return nil
	}
}

// Keys returns the keys of the present entries of a container in order.
func (y *Node) Keys() []Key {
	var res []Key
	for k := range y.All() {
		res = append(res, k)
	}
	return res
}

// All iterates the present entries of a container in order. Holes are
// skipped; a call yields its callee at key 0 first.
func (y *Node) All() iter.Seq2[Key, *Node] {
	return func(yield func(Key, *Node) bool) {
		if y == nil {
			return
		}
		switch y.Type {
		case ObjectType:
			for i, k := range y.Fields {
				if !yield(k, y.Values[i]) {
					return
				}
			}
		case ArrayType:
			for i, v := range y.Values {
				if v == nil {
					continue
				}
				if !yield(IntKey(i), v) {
					return
				}
			}
		case CallType:
			if !yield(IntKey(0), y.Callee) {
				return
			}
			for i, v := range y.Values {
				if v == nil {
					continue
				}
				if !yield(IntKey(i+1), v) {
					return
				}
			}
		}
	}
}

// SetDefault returns the entry at k, first setting it to def when absent.
func (y *Node) SetDefault(k Key, def *Node) *Node {
	if v := y.Get(k); v != nil {
		return v
	}
	if !y.Set(k, def) {
		return nil
	}
	return def
}

// Update sets every present entry of other into y.
func (y *Node) Update(other *Node) {
	for k, v := range other.All() {
		y.Set(k, v.Clone())
	}
}

func (y *Node) isSeq() bool {
	return y != nil && (y.Type == ArrayType || y.Type == CallType)
}

// Append adds v at the end of an array or of a call's arguments.
func (y *Node) Append(v *Node) bool {
	if !y.isSeq() {
		return false
	}
	y.Values = append(y.Values, v)
	return true
}

// Extend appends vs in order.
func (y *Node) Extend(vs ...*Node) bool {
	if !y.isSeq() {
		return false
	}
	y.Values = append(y.Values, vs...)
	return true
}

// Insert places v before element i of an array or of a call's arguments.
// i is clamped to the valid range.
func (y *Node) Insert(i int, v *Node) bool {
	if !y.isSeq() {
		return false
	}
	i = max(0, min(i, len(y.Values)))
	y.Values = slices.Insert(y.Values, i, v)
	return true
}

// Pop removes the last element of an array or of a call's arguments.
func (y *Node) Pop() (*Node, bool) {
	if !y.isSeq() {
		return nil, false
	}
	_, v, ok := y.PopAny()
	return v, ok
}

// IndexOf returns the position of the first element equal to v, or -1.
func (y *Node) IndexOf(v *Node) int {
	if !y.isSeq() {
		return -1
	}
	for i, e := range y.Values {
		if Equal(e, v) {
			return i
		}
	}
	return -1
}

func (y *Node) Contains(v *Node) bool {
	return y.IndexOf(v) >= 0
}

// Count returns the number of elements equal to v.
func (y *Node) Count(v *Node) int {
	if !y.isSeq() {
		return 0
	}
	n := 0
	for _, e := range y.Values {
		if Equal(e, v) {
			n++
		}
	}
	return n
}

// Reverse reverses an array or a call's arguments in place.
func (y *Node) Reverse() {
	if !y.isSeq() {
		return
	}
	for i, j := 0, len(y.Values)-1; i < j; i, j = i+1, j-1 {
		y.Values[i], y.Values[j] = y.Values[j], y.Values[i]
	}
}
