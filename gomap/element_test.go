package gomap_test

import (
	"errors"
	"testing"

	"github.com/signadot/nodetree/gomap"
	"github.com/signadot/nodetree/ir"
	"github.com/stretchr/testify/require"
)

type ButtonProps struct {
	Label    string `node:"field=label"`
	Disabled *bool  `node:"field=disabled"`
}

type LinkProps struct {
	Href string `node:"field=href"`
}

type Widget struct {
	gomap.Union
	Button   *ButtonProps
	Link     *LinkProps  `node:"field=a"`
	Br       *gomap.Unit `node:"field=br"`
	Fragment *gomap.Unit
}

type AnyWidget struct {
	gomap.Union
	Button *ButtonProps
	Other  *gomap.Element `node:"field=*"`
}

type Image struct {
	gomap.Union
	Img *struct {
		Src string `node:"field=src"`
	} `node:"field=img"`
}

func jsx(subject *ir.Node, props *ir.Node, children ...*ir.Node) *ir.Node {
	args := append([]*ir.Node{subject, props}, children...)
	return ir.NewCall(ir.Ident("jsx"), args...)
}

func TestDecodeAnyElements(t *testing.T) {
	var w Widget
	node := jsx(ir.Ident("Button"), ir.Object(ir.KV("label", ir.FromString("Go"))))
	require.NoError(t, gomap.DecodeAny(node, &w))
	require.Equal(t, &ButtonProps{Label: "Go"}, w.Button)

	w = Widget{}
	require.NoError(t, gomap.DecodeAny(jsx(ir.FromString("a"), ir.Object(ir.KV("href", ir.FromString("/x")))), &w))
	require.Equal(t, "/x", w.Link.Href)

	w = Widget{}
	require.NoError(t, gomap.DecodeAny(jsx(ir.FromString("br"), ir.Object(ir.KV("id", ir.FromInt(1)))), &w))
	require.NotNil(t, w.Br)

	w = Widget{}
	frag := ir.NewCall(ir.Ident("jsxs"), ir.Ident("Fragment"), ir.Object(), ir.FromString("child"))
	require.NoError(t, gomap.DecodeAny(frag, &w))
	require.NotNil(t, w.Fragment)

	// plain decoding does not treat calls as elements
	require.ErrorIs(t, gomap.Decode(node, &w), gomap.ErrTypeMismatch)
}

func TestDecodeAnyComponentMismatch(t *testing.T) {
	var w Widget
	err := gomap.DecodeAny(jsx(ir.Ident("Card"), ir.Object()), &w)
	require.ErrorIs(t, err, gomap.ErrComponentMismatch)
	var de *gomap.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "Card", de.Found)
	require.Equal(t, []string{"Button", "a", "br", "Fragment"}, de.Allowed)
	require.Contains(t, err.Error(), "unexpected component: Card, expected one of: [Button a br Fragment]")
}

func TestDecodeAnyElementShape(t *testing.T) {
	tests := []struct {
		name string
		node *ir.Node
		want error
	}{
		{"not a factory", ir.NewCall(ir.Ident("h"), ir.FromString("a"), ir.Object()), gomap.ErrTypeMismatch},
		{"constructor", ir.NewConstruct(ir.Ident("jsx"), ir.FromString("a"), ir.Object()), gomap.ErrTypeMismatch},
		{"missing props", ir.NewCall(ir.Ident("jsx"), ir.FromString("a")), gomap.ErrIndexOutOfRange},
		{"missing subject", ir.NewCall(ir.Ident("jsx")), gomap.ErrIndexOutOfRange},
		{"spread props", ir.NewCall(ir.Ident("jsx"), ir.FromString("a"), ir.Spread(ir.Ident("p"))), gomap.ErrSpreadNotSupported},
		{"numeric subject", ir.NewCall(ir.Ident("jsx"), ir.FromInt(1), ir.Object()), gomap.ErrTypeMismatch},
		{"bad props", jsx(ir.Ident("Button"), ir.Object(ir.KV("label", ir.FromInt(1)))), gomap.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Widget
			require.ErrorIs(t, gomap.DecodeAny(tt.node, &w), tt.want)
		})
	}
}

func TestDecodeAnyWildcard(t *testing.T) {
	var w AnyWidget
	node := jsx(ir.FromString("section"), ir.Object(ir.KV("id", ir.FromString("s"))), ir.FromString("text"))
	require.NoError(t, gomap.DecodeAny(node, &w))
	require.Nil(t, w.Button)
	require.Equal(t, "section", w.Other.Name)
	require.Equal(t, "s", w.Other.Props.Get("id").String)
	require.Len(t, w.Other.Children, 1)

	name, err := gomap.Variant(w)
	require.NoError(t, err)
	require.Equal(t, "section", name)
}

func TestDecodeAnyRuntime(t *testing.T) {
	rt := gomap.Runtime{Factories: []string{"h"}, Fragment: "Frag"}
	node := ir.NewCall(ir.Ident("h"), ir.Ident("Frag"), ir.Object())
	var w Widget
	require.NoError(t, gomap.DecodeAny(node, &w, gomap.WithRuntime(rt)))
	require.NotNil(t, w.Fragment)

	require.Error(t, gomap.DecodeAny(node, &w))
}

func TestMatchFirstWins(t *testing.T) {
	node := jsx(ir.FromString("img"), ir.Object(ir.KV("src", ir.FromString("a.png"))))
	var (
		w   Widget
		img Image
		aw  AnyWidget
	)
	i, err := gomap.Match(node, []any{&w, &img, &aw})
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.Equal(t, "a.png", img.Img.Src)
	require.Nil(t, aw.Other)

	i, err = gomap.Match(jsx(ir.Ident("Nope"), ir.Object()), []any{&w, &img})
	require.Equal(t, -1, i)
	require.ErrorIs(t, err, gomap.ErrComponentMismatch)
	require.Contains(t, err.Error(), "candidate 0")
	require.Contains(t, err.Error(), "candidate 1")
}

func TestMatchRuntime(t *testing.T) {
	rt := gomap.Runtime{Factories: []string{"h"}}
	node := ir.NewCall(ir.Ident("h"), ir.FromString("img"), ir.Object(ir.KV("src", ir.FromString("b.png"))))
	var (
		w   Widget
		img Image
	)
	i, err := gomap.Match(node, []any{&w, &img}, gomap.WithRuntime(rt))
	require.NoError(t, err)
	require.Equal(t, 1, i)
	require.Equal(t, "b.png", img.Img.Src)

	i, err = gomap.Match(node, []any{&w, &img})
	require.Equal(t, -1, i)
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
}

func TestElementName(t *testing.T) {
	name, props, err := gomap.ElementName(jsx(ir.Ident("Button"), ir.Object(ir.KV("label", ir.FromString("x")))), gomap.DefaultRuntime)
	require.NoError(t, err)
	require.Equal(t, "Button", name)
	require.Equal(t, 1, props.Len())

	_, _, err = gomap.ElementName(ir.FromString("div"), gomap.DefaultRuntime)
	require.ErrorIs(t, err, gomap.ErrTypeMismatch)
}

func TestEncodeElement(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *ir.Node
	}{
		{
			"component",
			Widget{Button: &ButtonProps{Label: "Go"}},
			jsx(ir.Ident("Button"), ir.Object(ir.KV("label", ir.FromString("Go")), ir.KV("disabled", ir.Null()))),
		},
		{
			"intrinsic unit",
			&Widget{Br: &gomap.Unit{}},
			jsx(ir.FromString("br"), ir.Object()),
		},
		{
			"fragment",
			Widget{Fragment: &gomap.Unit{}},
			jsx(ir.Ident("Fragment"), ir.Object()),
		},
		{
			"wildcard",
			AnyWidget{Other: &gomap.Element{Name: "p", Children: []*ir.Node{ir.FromString("hi")}}},
			jsx(ir.FromString("p"), ir.Object(), ir.FromString("hi")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gomap.EncodeElement(tt.in)
			require.NoError(t, err)
			requireNode(t, tt.want, got)
		})
	}

	// an encoded element decodes back to the same value
	in := Widget{Link: &LinkProps{Href: "/home"}}
	node, err := gomap.EncodeElement(in)
	require.NoError(t, err)
	var out Widget
	require.NoError(t, gomap.DecodeAny(node, &out))
	require.Equal(t, in, out)

	_, err = gomap.EncodeElement(Circle{R: 1})
	var me *gomap.MarshalError
	require.True(t, errors.As(err, &me))
}
