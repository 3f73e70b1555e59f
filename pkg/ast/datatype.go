package ast

import (
	"fmt"
	"strings"
)

// Sizes of the target's data units
const (
	SizeByte   = 1
	SizeWord   = 2
	SizeDword  = 4
	SizeDDword = 8
)

// Type is the base type of a datatype
type Type int

const (
	TypeVoid Type = iota
	TypeChar
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeStruct
	TypeUnion
	TypeUnknown
)

func (t Type) String() string {
	names := []string{"void", "char", "short", "int", "long", "float", "double", "struct", "union", "unknown"}
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return "?"
}

// PrimitiveSize returns the size in bytes of a primitive base type
func PrimitiveSize(t Type) int {
	switch t {
	case TypeVoid:
		return 0
	case TypeChar:
		return SizeByte
	case TypeShort:
		return SizeWord
	case TypeInt, TypeLong, TypeFloat, TypeDouble:
		return SizeDword
	}
	return 0
}

// DatatypeFlags qualify a datatype
type DatatypeFlags int

const (
	DatatypeFlagSigned DatatypeFlags = 1 << iota
	DatatypeFlagStatic
	DatatypeFlagConst
	DatatypeFlagPointer
	DatatypeFlagArray
	DatatypeFlagExtern
	DatatypeFlagRestrict
	DatatypeFlagIgnoreTypecheck
	DatatypeFlagHasSecondary
	DatatypeFlagAnonymous
	DatatypeFlagLiteral
)

// Array describes the dimensions of an array datatype
type Array struct {
	Brackets []Handle // one Bracket node per dimension
	Count    int      // total number of elements
	Size     int      // total size in bytes
}

// Datatype describes the type of a variable, function or cast
type Datatype struct {
	Type         Type
	Flags        DatatypeFlags
	TypeStr      string
	Size         int // size of a single element
	PointerDepth int
	// Secondary is the second specifier of compound types such as "long int"
	Secondary *Datatype
	// Node is the struct or union node the type refers to, once known
	Node  Handle
	Array Array
}

// IsStructOrUnion reports whether the base type is a struct or union
func (d *Datatype) IsStructOrUnion() bool {
	return d.Type == TypeStruct || d.Type == TypeUnion
}

// IsPrimitive reports whether the base type is not a struct or union
func (d *Datatype) IsPrimitive() bool {
	return !d.IsStructOrUnion()
}

// IsPointer reports whether the datatype is a pointer
func (d *Datatype) IsPointer() bool {
	return d.Flags&DatatypeFlagPointer != 0
}

// IsArray reports whether the datatype is an array
func (d *Datatype) IsArray() bool {
	return d.Flags&DatatypeFlagArray != 0
}

// IsSigned reports whether the datatype is signed
func (d *Datatype) IsSigned() bool {
	return d.Flags&DatatypeFlagSigned != 0
}

// ElementSize is the size of one element: a pointer for pointer types,
// otherwise the base type's size.
func (d *Datatype) ElementSize() int {
	if d.IsPointer() {
		return SizeDword
	}
	return d.Size
}

// SizeOf is the number of bytes a variable of this type occupies
func (d *Datatype) SizeOf() int {
	if d.IsArray() {
		return d.Array.Size
	}
	return d.ElementSize()
}

// Alignment is the boundary a primitive variable of this type is padded to
func (d *Datatype) Alignment() int {
	return d.ElementSize()
}

func (d *Datatype) String() string {
	var sb strings.Builder
	if d.Flags&DatatypeFlagConst != 0 {
		sb.WriteString("const ")
	}
	if d.IsPrimitive() && d.Type != TypeVoid && !d.IsSigned() {
		sb.WriteString("unsigned ")
	}
	if d.IsStructOrUnion() {
		fmt.Fprintf(&sb, "%s %s", d.Type, d.TypeStr)
	} else {
		sb.WriteString(d.Type.String())
	}
	if d.Secondary != nil {
		sb.WriteString(" " + d.Secondary.Type.String())
	}
	if d.PointerDepth > 0 {
		sb.WriteString(strings.Repeat("*", d.PointerDepth))
	}
	return sb.String()
}
