package gomap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/nodetree/ir"
)

// MarshalError represents an error during encoding.
type MarshalError struct {
	FieldPath string // Field path (e.g., "person.address.street")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	KindCustom ErrorKind = iota
	KindTypeMismatch
	KindValueOutOfRange
	KindUnknownVariant
	KindMissingKey
	KindUnknownKey
	KindIndexOutOfRange
	KindSpreadNotSupported
	KindInvalidLength
	KindUnexpectedHole
	KindComponentMismatch
)

var kindNames = map[ErrorKind]string{
	KindCustom:             "custom",
	KindTypeMismatch:       "type mismatch",
	KindValueOutOfRange:    "value out of range",
	KindUnknownVariant:     "unknown variant",
	KindMissingKey:         "missing key",
	KindUnknownKey:         "unknown key",
	KindIndexOutOfRange:    "index out of range",
	KindSpreadNotSupported: "spread not supported",
	KindInvalidLength:      "invalid length",
	KindUnexpectedHole:     "unexpected hole",
	KindComponentMismatch:  "component mismatch",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is. A *DecodeError matches the sentinel of its Kind.
var (
	ErrCustom             = &DecodeError{Kind: KindCustom}
	ErrTypeMismatch       = &DecodeError{Kind: KindTypeMismatch}
	ErrValueOutOfRange    = &DecodeError{Kind: KindValueOutOfRange}
	ErrUnknownVariant     = &DecodeError{Kind: KindUnknownVariant}
	ErrMissingKey         = &DecodeError{Kind: KindMissingKey}
	ErrUnknownKey         = &DecodeError{Kind: KindUnknownKey}
	ErrIndexOutOfRange    = &DecodeError{Kind: KindIndexOutOfRange}
	ErrSpreadNotSupported = &DecodeError{Kind: KindSpreadNotSupported}
	ErrInvalidLength      = &DecodeError{Kind: KindInvalidLength}
	ErrUnexpectedHole     = &DecodeError{Kind: KindUnexpectedHole}
	ErrComponentMismatch  = &DecodeError{Kind: KindComponentMismatch}
)

// ErrInvalidTarget is returned when the decode target is not a non-nil
// pointer.
var ErrInvalidTarget = errors.New("decode target must be a non-nil pointer")

// DecodeError describes why a node could not be decoded into a Go value.
// Which fields are set depends on Kind.
type DecodeError struct {
	Kind ErrorKind
	Path ir.Path

	// TypeMismatch
	Found    string
	Expected string

	// ValueOutOfRange
	Value  string
	Target string

	// UnknownVariant and ComponentMismatch use Found and Allowed.
	Allowed []string

	// MissingKey, UnknownKey
	Name string

	// IndexOutOfRange
	Index  int
	Length int

	// InvalidLength
	ExpectedMin int

	// Custom
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unmarshal error at %s: %s", e.Path, e.detail())
}

func (e *DecodeError) detail() string {
	switch e.Kind {
	case KindTypeMismatch:
		return fmt.Sprintf("invalid type: %s, expected %s", e.Found, e.Expected)
	case KindValueOutOfRange:
		return fmt.Sprintf("value %s out of range for %s", e.Value, e.Target)
	case KindUnknownVariant:
		return fmt.Sprintf("unknown variant %q, expected one of: %s", e.Found, strings.Join(e.Allowed, ", "))
	case KindMissingKey:
		return fmt.Sprintf("missing key %q", e.Name)
	case KindUnknownKey:
		return fmt.Sprintf("unknown key %q", e.Name)
	case KindIndexOutOfRange:
		return fmt.Sprintf("index %d out of range for length %d", e.Index, e.Length)
	case KindSpreadNotSupported:
		return "spread not supported"
	case KindInvalidLength:
		return fmt.Sprintf("invalid length, expected at least %d", e.ExpectedMin)
	case KindUnexpectedHole:
		return "unexpected hole"
	case KindComponentMismatch:
		return fmt.Sprintf("unexpected component: %s, expected one of: %v", e.Found, e.Allowed)
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *DecodeError of the same Kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func typeMismatch(p ir.Path, found, expected string) *DecodeError {
	return &DecodeError{Kind: KindTypeMismatch, Path: p, Found: found, Expected: expected}
}

func outOfRange(p ir.Path, value, target string) *DecodeError {
	return &DecodeError{Kind: KindValueOutOfRange, Path: p, Value: value, Target: target}
}

func spreadError(p ir.Path) *DecodeError {
	return &DecodeError{Kind: KindSpreadNotSupported, Path: p}
}

func holeError(p ir.Path) *DecodeError {
	return &DecodeError{Kind: KindUnexpectedHole, Path: p}
}

// customError wraps err unless it already is a *DecodeError.
func customError(p ir.Path, msg string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Kind: KindCustom, Path: p, Message: msg, Err: err}
}

// describe names a node for error messages.
func describe(node *ir.Node) string {
	if node == nil {
		return "hole"
	}
	switch node.Type {
	case ir.StringType:
		return fmt.Sprintf("string %q", node.String)
	case ir.NumberType:
		return "number " + ir.FormatNumber(node.Number)
	case ir.BigIntType:
		return "bigint " + node.BigInt.String()
	case ir.BoolType:
		return fmt.Sprintf("boolean %t", node.Bool)
	case ir.IdentType:
		return "identifier " + node.String
	case ir.TemplateType:
		if len(node.Values) > 0 {
			return "template with expressions"
		}
		return "template"
	}
	return node.Type.String()
}
