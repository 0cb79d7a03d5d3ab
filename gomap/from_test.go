package gomap_test

import (
	"encoding"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/signadot/nodetree/gomap"
	"github.com/signadot/nodetree/ir"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, s string) *ir.Node {
	t.Helper()
	node, err := ir.FromJSON([]byte(s))
	require.NoError(t, err)
	return node
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		out  func() any
	}{
		{"bool", true, func() any { return new(bool) }},
		{"int8", int8(-7), func() any { return new(int8) }},
		{"uint16", uint16(65535), func() any { return new(uint16) }},
		{"float32", float32(0.5), func() any { return new(float32) }},
		{"string", "héllo", func() any { return new(string) }},
		{"some", ptr(3), func() any { return new(*int) }},
		{"none", (*int)(nil), func() any { return new(*int) }},
		{"bytes", []byte{0, 1, 255}, func() any { return new([]byte) }},
		{"byte array", [3]byte{9, 8, 7}, func() any { return new([3]byte) }},
		{"nested struct", Item{Base: Base{ID: "a"}, Name: "n", Count: ptr(2), Tags: map[string]string{"k": "v"}}, func() any { return new(Item) }},
		{"unit variant", Shape{Empty: &gomap.Unit{}}, func() any { return new(Shape) }},
		{"tuple variant", Shape{Point: &Point{X: -1, Y: 4}}, func() any { return new(Shape) }},
		{"struct variant", Shape{Circle: &Circle{R: 0.25}}, func() any { return new(Shape) }},
		{"newtype variant", Shape{Label: ptr("hi")}, func() any { return new(Shape) }},
		{"map", map[uint8]bool{1: true, 200: false}, func() any { return new(map[uint8]bool) }},
		{"sequence", []Shape{{Empty: &gomap.Unit{}}, {Label: ptr("x")}}, func() any { return new([]Shape) }},
		{"big", *big.NewInt(0).Lsh(big.NewInt(1), 100), func() any { return new(big.Int) }},
		{"hooks", []Celsius{-4, 37.5}, func() any { return new([]Celsius) }},
		{"text", map[Level]Level{1: 2}, func() any { return new(map[Level]Level) }},
		{"char", Item{Name: "x", Sep: '€'}, func() any { return new(Item) }},
		{"empty", Empty{}, func() any { return new(Empty) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := gomap.Encode(tt.in)
			require.NoError(t, err)
			out := tt.out()
			require.NoError(t, gomap.Decode(node, out))
			// dereference the target pointer for comparison
			got := derefAny(out)
			require.Equal(t, tt.in, got)
		})
	}
}

func derefAny(p any) any {
	switch v := p.(type) {
	case *bool:
		return *v
	case *int8:
		return *v
	case *uint16:
		return *v
	case *float32:
		return *v
	case *string:
		return *v
	case **int:
		return *v
	case *[]byte:
		return *v
	case *[3]byte:
		return *v
	case *Item:
		return *v
	case *Shape:
		return *v
	case *map[uint8]bool:
		return *v
	case *[]Shape:
		return *v
	case *big.Int:
		return *v
	case *[]Celsius:
		return *v
	case *map[Level]Level:
		return *v
	case *Empty:
		return *v
	}
	panic("unexpected target")
}

func TestDecodeHoles(t *testing.T) {
	node := ir.Array(ir.FromInt(1), nil, ir.FromInt(3))

	opts, err := gomap.DecodeAs[[]*int](node)
	require.NoError(t, err)
	require.Equal(t, []*int{ptr(1), nil, ptr(3)}, opts)

	_, err = gomap.DecodeAs[[]int](node)
	require.ErrorIs(t, err, gomap.ErrUnexpectedHole)
	var de *gomap.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "$[1]", de.Path.String())

	// encoding the decoded value gives null where the hole was
	back := gomap.MustEncode(opts)
	again, err := gomap.DecodeAs[[]*int](back)
	require.NoError(t, err)
	require.Equal(t, opts, again)
}

func TestDecodeAbsent(t *testing.T) {
	for _, node := range []*ir.Node{ir.Null(), ir.Undefined()} {
		p, err := gomap.DecodeAs[*string](node)
		require.NoError(t, err)
		require.Nil(t, p)

		s, err := gomap.DecodeAs[[]string](node)
		require.NoError(t, err)
		require.Nil(t, s)

		_, err = gomap.DecodeAs[string](node)
		require.ErrorIs(t, err, gomap.ErrTypeMismatch)
	}
	var v any = "preset"
	require.NoError(t, gomap.Decode(ir.Null(), &v))
	require.Nil(t, v)
}

func TestDecodeNumbers(t *testing.T) {
	f, err := gomap.DecodeAs[float64](ir.NaN())
	require.NoError(t, err)
	require.True(t, math.IsNaN(f))

	f, err = gomap.DecodeAs[float64](ir.FromBigInt(big.NewInt(1 << 60)))
	require.NoError(t, err)
	require.Equal(t, float64(1<<60), f)

	tests := []struct {
		name   string
		node   *ir.Node
		decode func(*ir.Node) error
		want   error
	}{
		{"NaN into int", ir.NaN(), decodeTo[int], gomap.ErrTypeMismatch},
		{"fraction into int", ir.FromFloat(1.5), decodeTo[int], gomap.ErrValueOutOfRange},
		{"uint8 overflow", ir.FromInt(256), decodeTo[uint8], gomap.ErrValueOutOfRange},
		{"negative uint", ir.FromInt(-1), decodeTo[uint], gomap.ErrValueOutOfRange},
		{"int64 overflow", ir.FromBigInt(new(big.Int).Lsh(big.NewInt(1), 63)), decodeTo[int64], gomap.ErrValueOutOfRange},
		{"int32 overflow", ir.FromInt(math.MaxInt32 + 1), decodeTo[int32], gomap.ErrValueOutOfRange},
		{"float32 overflow", ir.FromFloat(1e39), decodeTo[float32], gomap.ErrValueOutOfRange},
		{"string into int", ir.FromString("1"), decodeTo[int], gomap.ErrTypeMismatch},
		{"infinity into int", ir.FromFloat(math.Inf(1)), decodeTo[int], gomap.ErrValueOutOfRange},
		{"huge bigint into float64", ir.FromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(319), nil)), decodeTo[float64], gomap.ErrValueOutOfRange},
		{"huge bigint into float32", ir.FromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(319), nil)), decodeTo[float32], gomap.ErrValueOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.decode(tt.node), tt.want)
		})
	}
}

func decodeTo[T any](node *ir.Node) error {
	_, err := gomap.DecodeAs[T](node)
	return err
}

func TestDecodeStrings(t *testing.T) {
	s, err := gomap.DecodeAs[string](ir.Template([]string{"a", "b"}))
	require.NoError(t, err)
	require.Equal(t, "ab", s)

	_, err = gomap.DecodeAs[string](ir.Template([]string{"a", "c"}, ir.Ident("b")))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)

	_, err = gomap.DecodeAs[Item](mustJSON(t, `{"id": "", "name": "x", "sep": "ab"}`))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
}

func TestDecodeBytes(t *testing.T) {
	b, err := gomap.DecodeAs[[]byte](mustJSON(t, `[1, 2, 3]`))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	_, err = gomap.DecodeAs[[]byte](mustJSON(t, `[1, 256]`))
	require.ErrorIs(t, err, gomap.ErrValueOutOfRange)

	_, err = gomap.DecodeAs[[]byte](ir.Array(ir.FromInt(1), ir.Spread(ir.Ident("rest"))))
	require.ErrorIs(t, err, gomap.ErrSpreadNotSupported)

	_, err = gomap.DecodeAs[[]byte](ir.NewConstruct(ir.Ident("Uint8Array"), ir.Spread(ir.Ident("xs"))))
	require.ErrorIs(t, err, gomap.ErrSpreadNotSupported)

	_, err = gomap.DecodeAs[[4]byte](ir.FromBytes([]byte{1, 2}))
	require.ErrorIs(t, err, gomap.ErrIndexOutOfRange)

	_, err = gomap.DecodeAs[[]byte](ir.FromString("abc"))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
}

func TestDecodeEnums(t *testing.T) {
	c, err := gomap.DecodeAs[Color](ir.FromString("green"))
	require.NoError(t, err)
	require.Equal(t, Color("green"), c)

	_, err = gomap.DecodeAs[Color](ir.FromString("mauve"))
	require.ErrorIs(t, err, gomap.ErrUnknownVariant)
	var de *gomap.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "mauve", de.Found)
	require.Equal(t, []string{"red", "green", "blue"}, de.Allowed)
}

func TestDecodeUnion(t *testing.T) {
	s, err := gomap.DecodeAs[Status](ir.FromString("OK"))
	require.NoError(t, err)
	require.NotNil(t, s.OK)

	s, err = gomap.DecodeAs[Status](mustJSON(t, `{"PartialContent": {"range": "r"}}`))
	require.NoError(t, err)
	require.Equal(t, &PartialContent{Range: "r"}, s.PartialContent)

	// the last entry names the case
	s, err = gomap.DecodeAs[Status](mustJSON(t, `{"ignored": 1, "NotFound": null}`))
	require.NoError(t, err)
	require.NotNil(t, s.NotFound)

	_, err = gomap.DecodeAs[Status](ir.FromString("Teapot"))
	require.ErrorIs(t, err, gomap.ErrUnknownVariant)

	_, err = gomap.DecodeAs[Status](ir.Object())
	require.ErrorIs(t, err, gomap.ErrInvalidLength)
	var de *gomap.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, 1, de.ExpectedMin)

	_, err = gomap.DecodeAs[Status](ir.FromInt(1))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)

	_, err = gomap.DecodeAs[Status](mustJSON(t, `{"OK": {"x": 1}}`))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)

	_, err = gomap.DecodeAs[Shape](mustJSON(t, `{"Point": [1]}`))
	require.ErrorIs(t, err, gomap.ErrIndexOutOfRange)
}

func TestDecodeStructFields(t *testing.T) {
	_, err := gomap.DecodeAs[Item](mustJSON(t, `{"id": "a"}`))
	require.ErrorIs(t, err, gomap.ErrMissingKey)
	var de *gomap.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "name", de.Name)

	node := mustJSON(t, `{"id": "a", "name": "n", "extra": true}`)
	item, err := gomap.DecodeAs[Item](node)
	require.NoError(t, err)
	require.Equal(t, "n", item.Name)
	require.Nil(t, item.Count)

	_, err = gomap.DecodeAs[Item](node, gomap.DisallowUnknownKeys())
	require.ErrorIs(t, err, gomap.ErrUnknownKey)

	_, err = gomap.DecodeAs[Item](mustJSON(t, `{"id": "a", "name": 3}`))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
	require.Contains(t, err.Error(), "unmarshal error at $.name")

	_, err = gomap.DecodeAs[Item](mustJSON(t, `{"id": "a", "name": "n", "color": "mauve"}`))
	require.ErrorIs(t, err, gomap.ErrUnknownVariant)
}

func TestDecodeTuple(t *testing.T) {
	p, err := gomap.DecodeAs[Point](mustJSON(t, `[3, 4, 5]`))
	require.NoError(t, err)
	require.Equal(t, Point{X: 3, Y: 4}, p)

	_, err = gomap.DecodeAs[Point](mustJSON(t, `[3, 4, 5]`), gomap.DisallowUnknownKeys())
	require.ErrorIs(t, err, gomap.ErrIndexOutOfRange)

	_, err = gomap.DecodeAs[Point](mustJSON(t, `[3]`))
	require.ErrorIs(t, err, gomap.ErrIndexOutOfRange)
}

func TestDecodeMapKeys(t *testing.T) {
	m, err := gomap.DecodeAs[map[int]string](mustJSON(t, `{"1": "a", "-2": "b"}`))
	require.NoError(t, err)
	require.Equal(t, map[int]string{1: "a", -2: "b"}, m)

	_, err = gomap.DecodeAs[map[int]string](mustJSON(t, `{"x": "a"}`))
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
}

func TestDecodeInterface(t *testing.T) {
	v, err := gomap.DecodeAs[any](mustJSON(t, `{"a": [1, "x"]}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": []any{1.0, "x"}}, v)

	call := ir.NewCall(ir.Ident("f"))
	v, err = gomap.DecodeAs[any](call)
	require.NoError(t, err)
	require.True(t, ir.Equal(call, v.(*ir.Node)))
}

func TestDecodeInterfaceWithMethods(t *testing.T) {
	var x encoding.TextUnmarshaler
	err := gomap.Decode(ir.FromString("a"), &x)
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
	require.Nil(t, x)

	require.NoError(t, gomap.Decode(ir.Null(), &x))
	require.Nil(t, x)
}

func TestDecodeRawNode(t *testing.T) {
	type wrapper struct {
		Props *ir.Node `node:"field=props"`
	}
	node := mustJSON(t, `{"props": {"x": [1, 2]}}`)
	w, err := gomap.DecodeAs[wrapper](node)
	require.NoError(t, err)
	w.Props.Set("x", ir.Null())
	require.Equal(t, ir.ArrayType, node.GetPath(ir.PathOf("props", "x")).Type)
}

func TestDecodeDoesNotMutate(t *testing.T) {
	node := mustJSON(t, `{"status": {"x": 1, "PartialContent": {"range": "r"}}, "headers": {}, "body": [1]}`)
	before := node.Clone()
	var resp Response
	require.NoError(t, gomap.Decode(node, &resp))
	require.True(t, ir.Equal(before, node))
}

func TestDecodeFailureLeavesTarget(t *testing.T) {
	item := Item{Name: "keep"}
	err := gomap.Decode(mustJSON(t, `{"id": "a", "name": "n", "count": "x"}`), &item)
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
	require.Equal(t, Item{Name: "keep"}, item)

	require.ErrorIs(t, gomap.Decode(ir.Null(), item), gomap.ErrInvalidTarget)
	require.ErrorIs(t, gomap.Decode(ir.Null(), nil), gomap.ErrInvalidTarget)
}

func TestDecodeHooks(t *testing.T) {
	_, err := gomap.DecodeAs[Celsius](ir.FromString("hot"))
	require.ErrorIs(t, err, gomap.ErrCustom)
	require.Contains(t, err.Error(), "not a temperature")

	_, err = gomap.DecodeAs[Level](ir.FromString("**x"))
	require.ErrorIs(t, err, gomap.ErrCustom)

	l, err := gomap.DecodeAs[Level](ir.FromString("**"))
	require.NoError(t, err)
	require.Equal(t, Level(2), l)
}
