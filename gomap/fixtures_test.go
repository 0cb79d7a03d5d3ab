package gomap_test

import (
	"fmt"
	"strings"

	"github.com/signadot/nodetree/gomap"
	"github.com/signadot/nodetree/ir"
)

type Status struct {
	gomap.Union
	OK             *gomap.Unit
	NotFound       *gomap.Unit
	PartialContent *PartialContent
}

type PartialContent struct {
	Range string `node:"field=range"`
}

type Response struct {
	Status  Status            `node:"field=status"`
	Headers map[string]string `node:"field=headers"`
	Body    []byte            `node:"field=body"`
}

type Point struct {
	gomap.Tuple
	X int
	Y int
}

type Circle struct {
	R float64 `node:"field=r"`
}

type Shape struct {
	gomap.Union
	Empty  *gomap.Unit
	Circle *Circle
	Point  *Point
	Label  *string `node:"field=label"`
}

type Color string

func (Color) Variants() []string { return []string{"red", "green", "blue"} }

type Base struct {
	ID string `node:"field=id"`
}

type Item struct {
	Base
	Name    string            `node:"field=name"`
	Count   *int              `node:"field=count"`
	Note    string            `node:"field=note,omitempty"`
	Color   Color             `node:"field=color,omitempty"`
	Sep     rune              `node:"field=sep,char,omitempty"`
	Tags    map[string]string `node:"field=tags,optional"`
	Ignored string            `node:"-"`
}

type Empty struct{}

// Celsius implements the node hooks.
type Celsius float64

func (c Celsius) MarshalNode() (*ir.Node, error) {
	return ir.FromString(fmt.Sprintf("%gC", float64(c))), nil
}

func (c *Celsius) UnmarshalNode(node *ir.Node) error {
	if node.Type != ir.StringType || !strings.HasSuffix(node.String, "C") {
		return fmt.Errorf("not a temperature: %s", node.Type)
	}
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSuffix(node.String, "C"), "%g", &f); err != nil {
		return err
	}
	*c = Celsius(f)
	return nil
}

// Level implements encoding.TextMarshaler.
type Level int

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.Repeat("*", int(l))), nil
}

func (l *Level) UnmarshalText(d []byte) error {
	if strings.Trim(string(d), "*") != "" {
		return fmt.Errorf("bad level %q", d)
	}
	*l = Level(len(d))
	return nil
}

func ptr[T any](v T) *T { return &v }
