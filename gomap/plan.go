package gomap

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/signadot/nodetree/ir"
)

type variantKind int

const (
	notVariant variantKind = iota
	unitVariant
	payloadVariant
	wildcardVariant
)

// fieldPlan describes one exported struct field, or one case of a union.
type fieldPlan struct {
	Name      string // key in the node, or the variant name
	GoName    string
	Index     []int
	Type      reflect.Type
	OmitEmpty bool
	Optional  bool
	Char      bool
	variant   variantKind
}

// required reports whether decoding fails when the key is absent.
func (f *fieldPlan) required() bool {
	if f.Optional || f.OmitEmpty {
		return false
	}
	switch f.Type.Kind() {
	case reflect.Pointer, reflect.Interface:
		return false
	}
	return true
}

type typePlan struct {
	fields   []fieldPlan
	byKey    map[ir.Key]int
	union    bool
	tuple    bool
	wildcard int
}

func (p *typePlan) variant(name string) *fieldPlan {
	i, ok := p.byKey[ir.StrKey(name)]
	if !ok {
		if p.wildcard >= 0 {
			return &p.fields[p.wildcard]
		}
		return nil
	}
	return &p.fields[i]
}

// variantNames lists the named cases of a union in declaration order.
func (p *typePlan) variantNames() []string {
	res := make([]string, 0, len(p.fields))
	for i := range p.fields {
		if p.fields[i].variant != wildcardVariant {
			res = append(res, p.fields[i].Name)
		}
	}
	return res
}

var (
	unionType   = reflect.TypeFor[Union]()
	tupleType   = reflect.TypeFor[Tuple]()
	unitType    = reflect.TypeFor[Unit]()
	elementType = reflect.TypeFor[Element]()
)

var plans sync.Map // reflect.Type -> *typePlan

// planOf returns the cached field layout of struct type t.
func planOf(t reflect.Type) (*typePlan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*typePlan), nil
	}
	p, err := buildPlan(t)
	if err != nil {
		return nil, err
	}
	actual, _ := plans.LoadOrStore(t, p)
	return actual.(*typePlan), nil
}

func buildPlan(t reflect.Type) (*typePlan, error) {
	p := &typePlan{byKey: make(map[ir.Key]int), wildcard: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		switch f.Type {
		case unionType:
			p.union = true
		case tupleType:
			p.tuple = true
		}
	}
	if p.union && p.tuple {
		return nil, fmt.Errorf("%s embeds both Union and Tuple", t)
	}
	if err := p.addFields(t, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *typePlan) addFields(t reflect.Type, index []int) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous && (f.Type == unionType || f.Type == tupleType) {
			continue
		}
		if !f.IsExported() {
			continue
		}
		tags, err := ParseStructTag(f.Tag.Get(TagName))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		if _, skip := tags["-"]; skip {
			continue
		}
		idx := append(slices.Clone(index), i)
		name := tags["field"]
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !p.union && name == "" {
			if err := p.addFields(f.Type, idx); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = f.Name
		}
		fp := fieldPlan{
			Name:   name,
			GoName: f.Name,
			Index:  idx,
			Type:   f.Type,
		}
		_, fp.OmitEmpty = tags["omitempty"]
		_, fp.Optional = tags["optional"]
		_, fp.Char = tags["char"]
		if fp.Char && f.Type.Kind() != reflect.Int32 {
			return fmt.Errorf("%s.%s: char tag on %s, want rune", t, f.Name, f.Type)
		}
		if p.union {
			if f.Type.Kind() != reflect.Pointer {
				return fmt.Errorf("%s.%s: union case must be a pointer, got %s", t, f.Name, f.Type)
			}
			switch {
			case name == "*":
				if f.Type.Elem() != elementType {
					return fmt.Errorf("%s.%s: wildcard case must be *Element, got %s", t, f.Name, f.Type)
				}
				fp.variant = wildcardVariant
				p.wildcard = len(p.fields)
				p.fields = append(p.fields, fp)
				continue
			case f.Type.Elem() == unitType:
				fp.variant = unitVariant
			default:
				fp.variant = payloadVariant
			}
		}
		key := ir.StrKey(name)
		if _, dup := p.byKey[key]; dup {
			return fmt.Errorf("%s: duplicate field name %q", t, name)
		}
		p.byKey[key] = len(p.fields)
		p.fields = append(p.fields, fp)
	}
	return nil
}
