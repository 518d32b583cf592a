// Package typesystem defines CType, the type descriptor attached to
// every AST node, and the structural equality rule the type solver and
// evaluator both rely on.
package typesystem

// PType is the base shape of a type.
type PType int

const (
	PNone PType = iota
	PU8
	PI64
	PStr
	PChar
	PBool
	PList
	PPromise
	PUserType
	PEntity
	PBaseEntity
)

func (p PType) String() string {
	switch p {
	case PNone:
		return "None"
	case PU8:
		return "u8"
	case PI64:
		return "i64"
	case PStr:
		return "Str"
	case PChar:
		return "Char"
	case PBool:
		return "Bool"
	case PList:
		return "List"
	case PPromise:
		return "Promise"
	case PUserType:
		return "UserType"
	case PEntity:
		return "Entity"
	case PBaseEntity:
		return "BaseEntity"
	default:
		return "?"
	}
}

// DType is the distribution kind of a type: where the value lives
// relative to the vat evaluating it.
type DType int

const (
	Local DType = iota
	Far
	Alien
)

func (d DType) String() string {
	switch d {
	case Local:
		return "Local"
	case Far:
		return "Far"
	case Alien:
		return "Alien"
	default:
		return "?"
	}
}

// CType is the type descriptor carried by every AST node.
type CType struct {
	Basetype   PType
	Dtype      DType
	Subtype    *CType // present for List, Promise, UserType
	EntityName string // present for Entity-shaped types
}

func (c CType) isComplex() bool {
	return c.Basetype == PList || c.Basetype == PPromise || c.Basetype == PUserType
}

// ExactMatch implements the type solver's structural equality rule:
// basetypes must match, complex types recurse through Subtype,
// distribution kinds must always agree (Local, the zero value, is a
// real kind, not an absent one), and BaseEntity matches any
// entity-shaped type of the same distribution kind.
func ExactMatch(a, b CType) bool {
	if a.Basetype == PBaseEntity && isEntityLike(b) {
		return a.Dtype == b.Dtype
	}
	if b.Basetype == PBaseEntity && isEntityLike(a) {
		return a.Dtype == b.Dtype
	}

	if a.Basetype != b.Basetype {
		return false
	}

	if a.Dtype != b.Dtype {
		return false
	}

	if a.Basetype == PEntity && a.EntityName != "" && b.EntityName != "" {
		if a.EntityName != b.EntityName {
			return false
		}
	}

	if a.isComplex() || b.isComplex() {
		if a.Subtype == nil || b.Subtype == nil {
			return a.Subtype == b.Subtype
		}
		return ExactMatch(*a.Subtype, *b.Subtype)
	}

	return true
}

func isEntityLike(c CType) bool {
	return c.Basetype == PEntity || c.Basetype == PBaseEntity
}

// String renders a CType for error messages, e.g. "List<i64>" or
// "Far Entity(Greeter)".
func (c CType) String() string {
	s := ""
	if c.Dtype == Far {
		s += "Far "
	} else if c.Dtype == Alien {
		s += "Alien "
	}
	switch c.Basetype {
	case PList:
		if c.Subtype != nil {
			return s + "List<" + c.Subtype.String() + ">"
		}
		return s + "List"
	case PPromise:
		if c.Subtype != nil {
			return s + "Promise<" + c.Subtype.String() + ">"
		}
		return s + "Promise"
	case PEntity:
		if c.EntityName != "" {
			return s + "Entity(" + c.EntityName + ")"
		}
		return s + "Entity"
	default:
		return s + c.Basetype.String()
	}
}

// Convenience constructors mirroring the original lu8()/lstr() helpers.
func U8() CType         { return CType{Basetype: PU8} }
func I64() CType        { return CType{Basetype: PI64} }
func Str() CType        { return CType{Basetype: PStr} }
func Bool() CType       { return CType{Basetype: PBool} }
func Char() CType       { return CType{Basetype: PChar} }
func NoneType() CType   { return CType{Basetype: PNone} }
func ListOf(sub CType) CType {
	return CType{Basetype: PList, Subtype: &sub}
}
func PromiseOf(sub CType) CType {
	return CType{Basetype: PPromise, Subtype: &sub}
}
func FarEntity(name string) CType {
	return CType{Basetype: PEntity, Dtype: Far, EntityName: name}
}
func BaseEntityFar() CType {
	return CType{Basetype: PBaseEntity, Dtype: Far}
}
