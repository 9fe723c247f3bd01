// Package planner derives, from a validated ir.Edl, the deterministic
// set of code-generation plans the emitter renders: the types header
// union, the ABI schema, the per-direction stub/dispatcher plans, the
// outer-side address table, and the inner-side exported entry table.
package planner

import "github.com/ardanlabs/edlc/ir"

// EnumValueSpec is one emitted value of an ABI-visible enum.
type EnumValueSpec struct {
	Name  string
	Value uint64
}

// EnumSchema is the ABI-schema entry for a developer enum or the
// anonymous enum.
type EnumSchema struct {
	Name   string
	Values []EnumValueSpec
}

// PointerLowering describes how a single pointer field is represented
// in the ABI schema: a length-prefixed byte buffer, whose length comes
// from the size/count identifier the field declared.
type PointerLowering struct {
	FieldName  string
	LengthName string
}

// FieldSpec is one field of a struct or function-parameter container
// in the ABI schema.
type FieldSpec struct {
	Name     string
	TypeName string
	IsArray  bool
}

// StructSchema is the ABI-schema entry for a developer struct, with
// every pointer field lowered via Pointers.
type StructSchema struct {
	Name     string
	Fields   []FieldSpec
	Pointers []PointerLowering
}

// FunctionContainerSchema is the synthesized struct holding a
// function's input (direction ⊇ in) or output (direction ⊇ out)
// parameters, pointer-lowered the same way as developer structs.
type FunctionContainerSchema struct {
	FunctionName string
	Name         string
	Fields       []FieldSpec
	Pointers     []PointerLowering
}

// AbiSchemaPlan is the flatbuffer-compatible schema derived from the
// types header union and every function's parameter containers.
type AbiSchemaPlan struct {
	Enums            []EnumSchema
	Structs          []StructSchema
	InputContainers  []FunctionContainerSchema
	OutputContainers []FunctionContainerSchema
}

// StubSpec is a developer-callable function that packs its arguments
// into a container, invokes the opaque transport, and unpacks the
// result.
type StubSpec struct {
	Name         string
	FunctionName string
	AbiName      string
	InputType    string
	OutputType   string
}

// DispatcherSpec unpacks an input container, forwards to a developer
// implementation, and packs an output container.
type DispatcherSpec struct {
	Name         string
	FunctionName string
	AbiName      string
	InputType    string
	OutputType   string
}

// DeclSpec is a developer-implementation declaration the generated
// side expects to be defined elsewhere.
type DeclSpec struct {
	Name       string
	ReturnType string
	Parameters []FieldSpec
}

// OuterToInnerPlan is the trio generated for one trusted function:
// spec.md §4.3 "Outer→Inner".
type OuterToInnerPlan struct {
	OuterStub       StubSpec
	InnerDecl       DeclSpec
	InnerDispatcher DispatcherSpec
}

// InnerToOuterPlan is the trio generated for one untrusted function:
// spec.md §4.3 "Inner→Outer".
type InnerToOuterPlan struct {
	OuterDispatcher DispatcherSpec
	OuterDecl       DeclSpec
	InnerStub       StubSpec
}

// AddressEntry maps an ABI name to its outer-side dispatcher, for the
// name-based lookup the transport uses to invoke an untrusted callback.
type AddressEntry struct {
	AbiName        string
	DispatcherName string
}

// ExportedEntry is one symbol in the inner-side exports file: its name
// equals a trusted function's ABI name, and its body calls into the
// matching inner dispatcher.
type ExportedEntry struct {
	Name           string
	DispatcherName string
	InputType      string
	OutputType     string
}

// ContextRecordSpec describes the cross-boundary context record every
// dispatcher and stub is built against: a forwarded (inputs) buffer
// pair, a returned (outputs) buffer pair, and the two callbacks the
// inner side uses to obtain and release outer-side memory for the
// returned pair. Grounded on HostHelpers.h/EnclaveHelpers.h's
// EnclaveFunctionContext; fixed across every Plan because the
// transport contract is specification-wide, not per-EDL.
type ContextRecordSpec struct {
	ForwardedBufferField string
	ForwardedSizeField   string
	ReturnedBufferField  string
	ReturnedSizeField    string
	AllocCallbackName    string
	DeallocCallbackName  string
}

// Plan is the full, order-stable code-generation plan derived from one
// validated Edl. Building a Plan never mutates the source Edl and is a
// pure function of its value: identical input yields a byte-identical
// Plan.
type Plan struct {
	TypesHeader     []ir.DeveloperType
	AbiSchema       AbiSchemaPlan
	OuterToInner    []OuterToInnerPlan
	InnerToOuter    []InnerToOuterPlan
	AddressTable    []AddressEntry
	ExportedEntries []ExportedEntry
	Context         ContextRecordSpec
}
