package changeset

import "fmt"

// LeafKind classifies the value a leaf field carries. The zero value marks
// non-leaves: both the "no field" case and nested record fields.
type LeafKind int

const (
	KindNone LeafKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
)

func (k LeafKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}
