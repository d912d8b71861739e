// Package docid encodes member descriptors into canonical .NET doc-comment
// identifiers, the strings used as lookup keys in an XML documentation file
// ("T:System.String", "M:N.C.Foo(System.Int32)", ...). Encoding is pure and
// deterministic; the same descriptor always yields the same identifier.
package docid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dotpages/clrdoc/internal/descriptor"
)

// ErrUnsupportedDescriptor reports a member descriptor shape the encoder
// does not recognize. Reaching it means an internal invariant was broken.
var ErrUnsupportedDescriptor = errors.New("unsupported member descriptor")

// Constructors are encoded as methods whose name has its leading "." folded
// into the metadata name "#ctor".
const ctorName = "#ctor"

// Encode returns the canonical doc-comment identifier for m.
func Encode(m descriptor.Member) (string, error) {
	switch m := m.(type) {
	case descriptor.TypeRef:
		return "T:" + m.FullName(), nil

	case descriptor.FieldRef:
		return "F:" + m.Owner.FullName() + "." + m.Name, nil

	case descriptor.EventRef:
		return "E:" + m.Owner.FullName() + "." + m.Name, nil

	case descriptor.PropertyRef:
		var b strings.Builder
		b.WriteString("P:")
		b.WriteString(m.Owner.FullName())
		b.WriteByte('.')
		b.WriteString(m.Name)
		writeParams(&b, m.Index)
		return b.String(), nil

	case descriptor.ConstructorRef:
		var b strings.Builder
		b.WriteString("M:")
		b.WriteString(m.Owner.FullName())
		b.WriteByte('.')
		b.WriteString(ctorName)
		writeParams(&b, m.Params)
		return b.String(), nil

	case descriptor.MethodRef:
		var b strings.Builder
		b.WriteString("M:")
		b.WriteString(m.Owner.FullName())
		b.WriteByte('.')
		b.WriteString(m.Name)
		if m.Arity > 0 {
			b.WriteString("``")
			b.WriteString(strconv.Itoa(m.Arity))
		}
		writeParams(&b, m.Params)
		if m.IsConversionOperator() {
			if m.Return == nil {
				return "", fmt.Errorf("%w: conversion operator %s.%s has no return type",
					ErrUnsupportedDescriptor, m.Owner.FullName(), m.Name)
			}
			b.WriteByte('~')
			b.WriteString(EncodeType(m.Return))
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedDescriptor, m)
	}
}

// writeParams appends "(t1,t2,...)" for a non-empty parameter list. A
// parameterless member gets no parentheses at all.
func writeParams(b *strings.Builder, params []descriptor.Type) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EncodeType(p))
	}
	b.WriteByte(')')
}

// EncodeType returns the identifier form of a parameter or return type.
//
// Decorations accumulate in front of one another: by-ref contributes "@"
// first, then each array or pointer layer, stripped outermost to innermost,
// inserts its marker at the front of the accumulated string. The remaining
// core (named type, generic instantiation or generic parameter) is emitted
// followed by the accumulated decoration, so an array of pointers to int
// comes out as "System.Int32*[]" and a by-ref int array as
// "System.Int32[]@".
func EncodeType(t descriptor.Type) string {
	deco := ""
	if br, ok := t.(descriptor.ByRef); ok {
		deco = "@"
		t = br.Elem
	}
	for {
		switch v := t.(type) {
		case descriptor.Array:
			deco = arrayDecoration(v.Rank) + deco
			t = v.Elem
			continue
		case descriptor.Pointer:
			deco = "*" + deco
			t = v.Elem
			continue
		}
		break
	}
	return encodeCore(t) + deco
}

// arrayDecoration returns "[]" for a simple vector and "[0:,0:,...]" with
// one "0:" bound marker per dimension for higher ranks.
func arrayDecoration(rank int) string {
	if rank <= 1 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < rank; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("0:")
	}
	b.WriteByte(']')
	return b.String()
}

func encodeCore(t descriptor.Type) string {
	switch v := t.(type) {
	case descriptor.Named:
		// Always the definition's name: arity is implied by context and
		// never spelled out in an identifier.
		return v.FullName

	case descriptor.Instantiated:
		var b strings.Builder
		b.WriteString(v.Def.FullName)
		b.WriteByte('{')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(EncodeType(a))
		}
		b.WriteByte('}')
		return b.String()

	case descriptor.TypeParam:
		if v.MethodLevel {
			return "``" + strconv.Itoa(v.Position)
		}
		return "`" + strconv.Itoa(v.Position)

	default:
		// ByRef below the outermost position violates the descriptor
		// invariant; the metadata format cannot express it.
		panic(fmt.Sprintf("docid: unencodable type core %T", t))
	}
}
