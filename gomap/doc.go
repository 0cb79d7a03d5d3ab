// Package gomap provides encoding and decoding between nodes and Go
// values.
//
// # Usage
//
//	// Decode a node into a Go struct
//	type User struct {
//	    Name string
//	    Age  int
//	}
//	var user User
//	err := gomap.Decode(node, &user)
//
//	// Encode a Go value to a node
//	node, err := gomap.Encode(user)
//
// # Mapping
//
// Booleans, strings and numbers map to the matching leaf nodes. Integers
// outside ±ir.MaxSafeInteger and big.Int values map to BigInt nodes, so
// 64 bit values round trip exactly. Byte slices and byte arrays map to a
// Uint8Array construction. Nil pointers, slices and maps encode as Null.
// Structs encode as objects in field order, embedded structs are
// flattened, and structs without fields encode as Null. A struct embedding
// Tuple encodes as an array.
//
// Fields are controlled with the node struct tag:
//
//	Name  string `node:"field=name"`     // rename
//	Note  string `node:"omitempty"`      // skip zero values, optional
//	Extra *int   `node:"optional"`       // may be absent
//	Sep   rune   `node:"char"`           // one character string
//	Cache []byte `node:"-"`              // ignored
//
// Sum types are structs embedding Union, see Union. Cases are externally
// tagged: a Unit case is the bare name, other cases are a single entry
// object from the name to the payload.
//
// # Decoding
//
// Decoding is strict about types and tolerant about absence: Null, the
// undefined identifier and holes decode as nil pointers and nil slices,
// and fields that are pointers or tagged optional may be missing. Unknown
// object keys are ignored unless DisallowUnknownKeys is given. Every
// failure is a *DecodeError, which errors.Is matches against the sentinel
// of its kind:
//
//	if errors.Is(err, gomap.ErrMissingKey) { ... }
//
// # Elements
//
// DecodeAny and Match additionally decode element calls such as
// jsx("div", {id: "x"}) into unions, choosing the case by component name.
// Match tries several targets and reports the first that fits, which is
// how a caller asks which shape a node has.
//
// # Related Packages
//
//   - github.com/signadot/nodetree/ir - node representation
package gomap
