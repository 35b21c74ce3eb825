package tree

import "strconv"

// Kind is the JSON type carried by a node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a node payload. Arrays and objects are markers only: their
// children live in Node.Children.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
}

// Null, Bool, Number, String, Array and Object construct payloads.
func Null() Value            { return Value{Kind: KindNull} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Array() Value           { return Value{Kind: KindArray} }
func Object() Value          { return Value{Kind: KindObject} }

// IsContainer reports whether the payload is an array or object marker.
func (v Value) IsContainer() bool { return v.Kind == KindArray || v.Kind == KindObject }

// Text returns the canonical textual form of a scalar: strings unquoted,
// numbers without a trailing ".0", and "null". Containers return "".
func (v Value) Text() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return FormatNumber(v.Number)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// FormatNumber renders a number the way it is searched, displayed and
// exported: shortest round-trip decimal, never exponent notation.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Node is one JSON value in the arena.
type Node struct {
	// Key is the member name when the node is an object member. Array
	// items and the root have HasKey == false.
	Key    string
	HasKey bool

	Value    Value
	Depth    int
	Children []int

	// Expanded is only meaningful for containers.
	Expanded bool
}

// IsContainer reports whether the node is an array or object.
func (n Node) IsContainer() bool {
	return n.Value.IsContainer()
}
