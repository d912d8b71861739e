package descriptor

import "errors"

// TypeKind identifies the category of a type descriptor.
type TypeKind int

const (
	KindNamed        TypeKind = iota // non-generic type or generic definition
	KindInstantiated                 // generic definition with supplied arguments
	KindTypeParam                    // generic parameter of the owner type or method
	KindArray                        // array of arbitrary rank
	KindPointer                      // unmanaged pointer
	KindByRef                        // by-reference parameter
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindNamed:
		return "Named"
	case KindInstantiated:
		return "Instantiated"
	case KindTypeParam:
		return "TypeParam"
	case KindArray:
		return "Array"
	case KindPointer:
		return "Pointer"
	case KindByRef:
		return "ByRef"
	default:
		return "Unknown"
	}
}

// Type is the closed set of parameter/return type shapes. Array, Pointer and
// ByRef decorate an underlying type; the rest are cores.
type Type interface {
	TypeKind() TypeKind

	// Ensure only types in this package implement Type.
	sealedType()
}

// Named is a non-generic type or a generic type definition, identified by
// its fully-qualified name with nested types joined by ".". FullName never
// carries an arity marker; Arity records the definition's generic arity.
type Named struct {
	FullName string
	Arity    int
}

func (Named) TypeKind() TypeKind { return KindNamed }
func (Named) sealedType()        {}

// Instantiated is a generic definition with all type arguments supplied.
// Arguments are cores or decorated types themselves; decorations on the
// instantiation as a whole are modeled by wrapping it, not the definition.
type Instantiated struct {
	Def  Named
	Args []Type
}

func (Instantiated) TypeKind() TypeKind { return KindInstantiated }
func (Instantiated) sealedType()        {}

// TypeParam is a generic parameter position. MethodLevel distinguishes a
// parameter of the method itself from one of the enclosing type.
type TypeParam struct {
	Position    int
	MethodLevel bool
}

func (TypeParam) TypeKind() TypeKind { return KindTypeParam }
func (TypeParam) sealedType()        {}

// Array wraps an element type. Rank 1 is a simple vector; rank >= 2 records
// a multi-dimensional array with per-dimension bounds.
type Array struct {
	Elem Type
	Rank int
}

func (Array) TypeKind() TypeKind { return KindArray }
func (Array) sealedType()        {}

// Pointer wraps a pointee type.
type Pointer struct {
	Elem Type
}

func (Pointer) TypeKind() TypeKind { return KindPointer }
func (Pointer) sealedType()        {}

// ByRef marks a by-reference parameter. It only ever appears as the
// outermost decoration; use NewByRef to enforce that.
type ByRef struct {
	Elem Type
}

func (ByRef) TypeKind() TypeKind { return KindByRef }
func (ByRef) sealedType()        {}

var errNestedByRef = errors.New("by-ref cannot wrap a by-ref type")

// NewByRef wraps t as a by-reference parameter. By-ref never nests: the
// metadata format cannot express ref-to-ref, so attempting to build one is
// a programmer error surfaced here.
func NewByRef(t Type) (ByRef, error) {
	if containsByRef(t) {
		return ByRef{}, errNestedByRef
	}
	return ByRef{Elem: t}, nil
}

func containsByRef(t Type) bool {
	switch v := t.(type) {
	case ByRef:
		return true
	case Array:
		return containsByRef(v.Elem)
	case Pointer:
		return containsByRef(v.Elem)
	default:
		return false
	}
}
