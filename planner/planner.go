package planner

import (
	"fmt"

	"github.com/ardanlabs/edlc/ir"
)

// Planner derives a Plan from one validated Edl. It holds no state
// across calls to Build; each call is independent and deterministic.
type Planner struct{}

// New returns a Planner.
func New() *Planner {
	return &Planner{}
}

// Build derives the full Plan for edl, per spec.md §4.3.
func (p *Planner) Build(edl ir.Edl) (Plan, error) {
	typesHeader := buildTypesHeader(edl)

	abiSchema, err := buildAbiSchema(edl, typesHeader)
	if err != nil {
		return Plan{}, err
	}

	var outerToInner []OuterToInnerPlan
	for _, fn := range edl.TrustedFunctionsOrder {
		outerToInner = append(outerToInner, buildOuterToInner(fn))
	}

	var innerToOuter []InnerToOuterPlan
	var addressTable []AddressEntry
	for _, fn := range edl.UntrustedFunctionsOrder {
		plan := buildInnerToOuter(fn)
		innerToOuter = append(innerToOuter, plan)
		addressTable = append(addressTable, AddressEntry{
			AbiName:        fn.AbiName,
			DispatcherName: plan.OuterDispatcher.Name,
		})
	}

	var exported []ExportedEntry
	for i, fn := range edl.TrustedFunctionsOrder {
		exported = append(exported, ExportedEntry{
			Name:           fn.AbiName,
			DispatcherName: outerToInner[i].InnerDispatcher.Name,
			InputType:      inputContainerName(fn.AbiName),
			OutputType:     outputContainerName(fn.AbiName),
		})
	}

	return Plan{
		TypesHeader:     typesHeader,
		AbiSchema:       abiSchema,
		OuterToInner:    outerToInner,
		InnerToOuter:    innerToOuter,
		AddressTable:    addressTable,
		ExportedEntries: exported,
		Context:         contextRecord(),
	}, nil
}

// contextRecord returns the fixed transport contract every dispatcher
// and stub is built against, per spec.md §6's "Transport contract
// assumed by the generated code".
func contextRecord() ContextRecordSpec {
	return ContextRecordSpec{
		ForwardedBufferField: "forwarded_buffer",
		ForwardedSizeField:   "forwarded_size",
		ReturnedBufferField:  "returned_buffer",
		ReturnedSizeField:    "returned_size",
		AllocCallbackName:    "alloc",
		DeallocCallbackName:  "dealloc",
	}
}

// buildTypesHeader lists every developer type in first-occurrence
// order. Types reachable from a function parameter or return need no
// separate pass: forward references are illegal, so each of them is
// already in DeveloperTypesOrder. Deduplication is required
// here because the parser re-appends the anonymous enum's name to
// DeveloperTypesOrder every time an `enum { ... }` block is parsed
// (each block still needs to land at its first declaration position).
func buildTypesHeader(edl ir.Edl) []ir.DeveloperType {
	seen := map[string]bool{}
	var ordered []ir.DeveloperType

	for _, name := range edl.DeveloperTypesOrder {
		if seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, edl.DeveloperTypes[name])
	}

	return ordered
}

func buildAbiSchema(edl ir.Edl, typesHeader []ir.DeveloperType) (AbiSchemaPlan, error) {
	var schema AbiSchemaPlan

	for _, dt := range typesHeader {
		switch dt.Kind {
		case ir.Enum, ir.AnonymousEnum:
			schema.Enums = append(schema.Enums, buildEnumSchema(dt))
		case ir.Struct:
			schema.Structs = append(schema.Structs, buildStructSchema(dt))
		}
	}

	for _, fn := range edl.TrustedFunctionsOrder {
		in, out := buildFunctionContainers(fn)
		schema.InputContainers = append(schema.InputContainers, in)
		schema.OutputContainers = append(schema.OutputContainers, out)
	}
	for _, fn := range edl.UntrustedFunctionsOrder {
		in, out := buildFunctionContainers(fn)
		schema.InputContainers = append(schema.InputContainers, in)
		schema.OutputContainers = append(schema.OutputContainers, out)
	}

	return schema, nil
}

func buildEnumSchema(dt ir.DeveloperType) EnumSchema {
	schema := EnumSchema{Name: dt.Name}
	for _, item := range dt.OrderedItems() {
		schema.Values = append(schema.Values, EnumValueSpec{
			Name:  item.Name,
			Value: item.DeclaredPosition,
		})
	}
	return schema
}

func buildStructSchema(dt ir.DeveloperType) StructSchema {
	schema := StructSchema{Name: dt.Name}
	for _, field := range dt.Fields {
		schema.Fields = append(schema.Fields, toFieldSpec(field))
		if field.HasPointer() {
			schema.Pointers = append(schema.Pointers, toPointerLowering(field))
		}
	}
	return schema
}

func inputContainerName(abiName string) string  { return abiName + "_Inputs" }
func outputContainerName(abiName string) string { return abiName + "_Outputs" }

// buildFunctionContainers splits a function's parameters into the
// input container (direction ⊇ in) and the output container (direction
// ⊇ out); the return value always lands in the output container.
func buildFunctionContainers(fn ir.Function) (FunctionContainerSchema, FunctionContainerSchema) {
	in := FunctionContainerSchema{FunctionName: fn.Name, Name: inputContainerName(fn.AbiName)}
	out := FunctionContainerSchema{FunctionName: fn.Name, Name: outputContainerName(fn.AbiName)}

	for _, param := range fn.Parameters {
		if param.AttributeInfo == nil {
			continue
		}
		if param.AttributeInfo.InPresent {
			in.Fields = append(in.Fields, toFieldSpec(param))
			if param.HasPointer() {
				in.Pointers = append(in.Pointers, toPointerLowering(param))
			}
		}
		if param.AttributeInfo.OutPresent {
			out.Fields = append(out.Fields, toFieldSpec(param))
			if param.HasPointer() {
				out.Pointers = append(out.Pointers, toPointerLowering(param))
			}
		}
	}

	out.Fields = append(out.Fields, toFieldSpec(fn.ReturnInfo))

	return in, out
}

func toFieldSpec(decl ir.Declaration) FieldSpec {
	return FieldSpec{
		Name:     decl.Name,
		TypeName: typeName(decl.TypeInfo),
		IsArray:  decl.IsArray(),
	}
}

// toPointerLowering resolves the buffer-length identifier a pointer
// field declared: size takes precedence over count when both are
// present (the planner must pick one concrete length field to emit;
// the parser already captured both independently per spec.md §9).
func toPointerLowering(decl ir.Declaration) PointerLowering {
	lowering := PointerLowering{FieldName: decl.Name}
	if decl.AttributeInfo != nil {
		switch {
		case decl.AttributeInfo.SizeInfo != nil:
			lowering.LengthName = decl.AttributeInfo.SizeInfo.Text
		case decl.AttributeInfo.CountInfo != nil:
			lowering.LengthName = decl.AttributeInfo.CountInfo.Text
		}
	}
	return lowering
}

func typeName(t ir.EdlTypeInfo) string {
	if t.IsPointer {
		return t.Name + "*"
	}
	return t.Name
}

// buildOuterToInner builds the stub/decl/dispatcher trio for one
// trusted function. Names are grounded on the original source's
// CallVtl1ExportFromVtl0 naming convention: the outer stub keeps the
// developer's function name, while the inner dispatcher is derived
// from the ABI name so it is unique across the whole file.
func buildOuterToInner(fn ir.Function) OuterToInnerPlan {
	inType := inputContainerName(fn.AbiName)
	outType := outputContainerName(fn.AbiName)

	return OuterToInnerPlan{
		OuterStub: StubSpec{
			Name:         fn.Name,
			FunctionName: fn.Name,
			AbiName:      fn.AbiName,
			InputType:    inType,
			OutputType:   outType,
		},
		InnerDecl: DeclSpec{
			Name:       fn.Name,
			ReturnType: typeName(fn.ReturnInfo.TypeInfo),
			Parameters: fieldSpecs(fn.Parameters),
		},
		InnerDispatcher: DispatcherSpec{
			Name:         fmt.Sprintf("Vtl1Dispatch_%s", fn.AbiName),
			FunctionName: fn.Name,
			AbiName:      fn.AbiName,
			InputType:    inType,
			OutputType:   outType,
		},
	}
}

// buildInnerToOuter builds the dispatcher/decl/stub trio for one
// untrusted function, the symmetric counterpart of buildOuterToInner,
// grounded on CallVtl0CallbackImplFromVtl0.
func buildInnerToOuter(fn ir.Function) InnerToOuterPlan {
	inType := inputContainerName(fn.AbiName)
	outType := outputContainerName(fn.AbiName)

	return InnerToOuterPlan{
		OuterDispatcher: DispatcherSpec{
			Name:         fmt.Sprintf("Vtl0Dispatch_%s", fn.AbiName),
			FunctionName: fn.Name,
			AbiName:      fn.AbiName,
			InputType:    inType,
			OutputType:   outType,
		},
		OuterDecl: DeclSpec{
			Name:       fn.Name,
			ReturnType: typeName(fn.ReturnInfo.TypeInfo),
			Parameters: fieldSpecs(fn.Parameters),
		},
		InnerStub: StubSpec{
			Name:         fn.Name,
			FunctionName: fn.Name,
			AbiName:      fn.AbiName,
			InputType:    inType,
			OutputType:   outType,
		},
	}
}

func fieldSpecs(decls []ir.Declaration) []FieldSpec {
	var specs []FieldSpec
	for _, d := range decls {
		specs = append(specs, toFieldSpec(d))
	}
	return specs
}
