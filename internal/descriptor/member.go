// Package descriptor defines a technology-neutral model of documented .NET
// entities. A Member describes "the thing being documented" (a type or one
// of its members); a Type describes a possibly-decorated parameter or return
// type. Both are closed variant sets: the doc-comment ID encoder in
// internal/docid switches exhaustively over them.
package descriptor

// MemberKind identifies the category of a member descriptor.
type MemberKind int

const (
	KindType MemberKind = iota
	KindField
	KindProperty
	KindEvent
	KindConstructor
	KindMethod
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case KindType:
		return "Type"
	case KindField:
		return "Field"
	case KindProperty:
		return "Property"
	case KindEvent:
		return "Event"
	case KindConstructor:
		return "Constructor"
	case KindMethod:
		return "Method"
	default:
		return "Unknown"
	}
}

// Member is the closed set of documentable entities.
type Member interface {
	MemberKind() MemberKind

	// Ensure only types in this package implement Member.
	sealedMember()
}

// TypeName is one link in a type's declaration chain: a simple name plus the
// number of generic parameters the type declares itself (0 for non-generic).
// Names never carry an arity marker; arity is tracked separately.
type TypeName struct {
	Name  string
	Arity int
}

// TypeRef identifies a declared type: its namespace, the chain of declaring
// (outer) types from outermost to innermost, and its own name. Identifiers
// always reference the generic definition, so TypeRef carries arities but
// never type arguments.
type TypeRef struct {
	Namespace string     // "" for the global namespace
	Declaring []TypeName // outermost first, empty for non-nested types
	TypeName
}

func (TypeRef) MemberKind() MemberKind { return KindType }
func (TypeRef) sealedMember()          {}

// FullName returns the fully-qualified name with every containment level
// joined by ".", generic arity erased.
func (t TypeRef) FullName() string {
	n := len(t.Namespace)
	for _, d := range t.Declaring {
		n += len(d.Name) + 1
	}
	b := make([]byte, 0, n+len(t.Name)+1)
	if t.Namespace != "" {
		b = append(b, t.Namespace...)
	}
	for _, d := range t.Declaring {
		if len(b) > 0 {
			b = append(b, '.')
		}
		b = append(b, d.Name...)
	}
	if len(b) > 0 {
		b = append(b, '.')
	}
	b = append(b, t.Name...)
	return string(b)
}

// FieldRef identifies a field of a type.
type FieldRef struct {
	Owner TypeRef
	Name  string
}

func (FieldRef) MemberKind() MemberKind { return KindField }
func (FieldRef) sealedMember()          {}

// EventRef identifies an event of a type.
type EventRef struct {
	Owner TypeRef
	Name  string
}

func (EventRef) MemberKind() MemberKind { return KindEvent }
func (EventRef) sealedMember()          {}

// PropertyRef identifies a property. Index holds the indexer parameter
// types; it is empty for ordinary properties.
type PropertyRef struct {
	Owner TypeRef
	Name  string
	Index []Type
}

func (PropertyRef) MemberKind() MemberKind { return KindProperty }
func (PropertyRef) sealedMember()          {}

// ConstructorRef identifies an instance constructor by its parameter list.
type ConstructorRef struct {
	Owner  TypeRef
	Params []Type
}

func (ConstructorRef) MemberKind() MemberKind { return KindConstructor }
func (ConstructorRef) sealedMember()          {}

// The two reserved conversion-operator names. These are the only members
// whose return type participates in the doc-comment identifier.
const (
	OpImplicit = "op_Implicit"
	OpExplicit = "op_Explicit"
)

// MethodRef identifies a method. Arity is the number of generic parameters
// the method declares itself. Return is consulted only when the method is a
// conversion operator and may be nil otherwise.
type MethodRef struct {
	Owner  TypeRef
	Name   string
	Arity  int
	Params []Type
	Return Type
}

func (MethodRef) MemberKind() MemberKind { return KindMethod }
func (MethodRef) sealedMember()          {}

// IsConversionOperator reports whether the method is a user-defined
// conversion operator. The name alone decides.
func (m MethodRef) IsConversionOperator() bool {
	return m.Name == OpImplicit || m.Name == OpExplicit
}
