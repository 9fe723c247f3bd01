// Package ir defines the typed intermediate representation produced by
// the parser: EdlTypeInfo, Declaration, DeveloperType, Function and the
// top-level Edl value. Every entity here is built once by the parser and
// is read-only to the planner and emitter (spec.md §5).
package ir

import "github.com/ardanlabs/edlc/lexer"

// EdlTypeKind is the closed set of type categories the grammar supports.
type EdlTypeKind int

const (
	Void EdlTypeKind = iota
	Bool
	Char
	WChar
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	SizeT
	Float
	Double
	HResult
	Vector
	Struct
	Enum
	AnonymousEnum
	Ptr
)

func (k EdlTypeKind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case WChar:
		return "wchar_t"
	case Int8:
		return "int8_t"
	case Int16:
		return "int16_t"
	case Int32:
		return "int32_t"
	case Int64:
		return "int64_t"
	case UInt8:
		return "uint8_t"
	case UInt16:
		return "uint16_t"
	case UInt32:
		return "uint32_t"
	case UInt64:
		return "uint64_t"
	case SizeT:
		return "size_t"
	case Float:
		return "float"
	case Double:
		return "double"
	case HResult:
		return "HRESULT"
	case Vector:
		return "vector"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case AnonymousEnum:
		return "anonymous enum"
	case Ptr:
		return "ptr"
	default:
		return "unknown"
	}
}

// KeywordTypes is the fixed mapping from a reserved EDL type keyword to
// the EdlTypeKind it denotes. It seeds the parser's type-word
// recognition (spec.md §3); "vector" additionally requires the
// `<T>` suffix the parser handles separately.
var KeywordTypes = map[string]EdlTypeKind{
	"void":     Void,
	"bool":     Bool,
	"char":     Char,
	"wchar_t":  WChar,
	"int8_t":   Int8,
	"int16_t":  Int16,
	"int32_t":  Int32,
	"int64_t":  Int64,
	"uint8_t":  UInt8,
	"uint16_t": UInt16,
	"uint32_t": UInt32,
	"uint64_t": UInt64,
	"size_t":   SizeT,
	"float":    Float,
	"double":   Double,
	"HRESULT":  HResult,
	"vector":   Vector,
}

// AnonymousEnumName is the reserved name under which every anonymous
// `enum { ... }` block in a file is accumulated.
const AnonymousEnumName = "_AnonymousEnum_"

// ReturnValueName is the fixed parameter name given to a function's
// return-value Declaration.
const ReturnValueName = "_return_value_"

// EdlTypeInfo describes the type of a Declaration. InnerType is set only
// when Kind == Vector, and must not itself be a Vector.
type EdlTypeInfo struct {
	Name      string
	Kind      EdlTypeKind
	IsPointer bool
	InnerType *EdlTypeInfo
}

// ParsedAttributeInfo captures the `[in]`, `[out]`, `[size=]`, `[count=]`
// attributes attached to a declaration.
type ParsedAttributeInfo struct {
	InPresent       bool
	OutPresent      bool
	InAndOutPresent bool
	SizeInfo        *lexer.Token
	CountInfo       *lexer.Token
}

// DeclarationParentKind distinguishes a struct field from a function
// parameter (or return value), since each has different attribute rules.
type DeclarationParentKind int

const (
	ParentStruct DeclarationParentKind = iota
	ParentFunction
)

// Declaration is a single struct field, function parameter, or function
// return value.
type Declaration struct {
	ParentKind      DeclarationParentKind
	Name            string
	TypeInfo        EdlTypeInfo
	ArrayDimensions []string
	AttributeInfo   *ParsedAttributeInfo
}

// HasPointer reports whether the declaration's type is a pointer.
func (d Declaration) HasPointer() bool {
	return d.TypeInfo.IsPointer
}

// IsContainer reports whether the declaration's type is a vector.
func (d Declaration) IsContainer() bool {
	return d.TypeInfo.Kind == Vector
}

// IsArray reports whether the declaration has an array dimension.
func (d Declaration) IsArray() bool {
	return len(d.ArrayDimensions) > 0
}

// EnumItem is a single member of an enum or anonymous enum.
type EnumItem struct {
	Name               string
	DeclaredPosition    uint64
	IsHex              bool
	IsDefaultValue     bool
	ExplicitValueToken *lexer.Token
}

// DeveloperType is a user-defined enum, anonymous enum, or struct.
//
// Items/ItemOrder together form the insertion-ordered map spec.md
// requires for enum members: Items supports name lookup, ItemOrder
// preserves declaration order.
type DeveloperType struct {
	Name                   string
	Kind                   EdlTypeKind
	Fields                 []Declaration
	Items                  map[string]EnumItem
	ItemOrder              []string
	ContainsInnerPointer   bool
	ContainsContainerType  bool
}

// OrderedItems returns this type's enum items in declaration order.
func (d DeveloperType) OrderedItems() []EnumItem {
	items := make([]EnumItem, 0, len(d.ItemOrder))
	for _, name := range d.ItemOrder {
		items = append(items, d.Items[name])
	}
	return items
}

// Function is a single trusted or untrusted function declaration.
//
// Invariants (enforced by the parser, not here): ReturnInfo's type is
// never a pointer, ReturnInfo.Name == ir.ReturnValueName, and
// ReturnInfo.AttributeInfo.OutPresent is always true.
type Function struct {
	Name         string
	AbiName      string
	ReturnInfo   Declaration
	Parameters   []Declaration
}

// Signature is the key used to detect duplicate function declarations
// within one trusted/untrusted block: name plus each parameter's type
// name, pointer-ness and direction.
func (f Function) Signature() string {
	sig := f.Name
	for _, p := range f.Parameters {
		sig += "|" + p.TypeInfo.Name
		if p.TypeInfo.IsPointer {
			sig += "*"
		}
		if p.AttributeInfo != nil {
			if p.AttributeInfo.InPresent {
				sig += ":in"
			}
			if p.AttributeInfo.OutPresent {
				sig += ":out"
			}
		}
	}
	return sig
}

// FunctionKind distinguishes a trusted (outer→inner) function from an
// untrusted (inner→outer) one.
type FunctionKind int

const (
	Trusted FunctionKind = iota
	Untrusted
)

// Edl is the root of the parsed IR for one EDL file. The three ordered
// views (DeveloperTypesOrder, TrustedFunctionsOrder,
// UntrustedFunctionsOrder) preserve source declaration order; the maps
// exist purely for O(1) lookup and must never be iterated over directly
// by planner or emitter code that cares about order.
type Edl struct {
	Name string

	DeveloperTypes      map[string]DeveloperType
	DeveloperTypesOrder []string

	TrustedFunctions      map[string]Function
	TrustedFunctionsOrder []Function

	UntrustedFunctions      map[string]Function
	UntrustedFunctionsOrder []Function
}

// OrderedDeveloperTypes returns every developer type in declaration
// order.
func (e Edl) OrderedDeveloperTypes() []DeveloperType {
	types := make([]DeveloperType, 0, len(e.DeveloperTypesOrder))
	for _, name := range e.DeveloperTypesOrder {
		types = append(types, e.DeveloperTypes[name])
	}
	return types
}
