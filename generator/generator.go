// Package generator is the emitter shell: pure functions that turn a
// planner.Plan into the textual artifacts spec.md §6 names. Content
// rules live in the planner; this package only renders them.
package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ardanlabs/edlc/planner"
)

// Config carries three of the name/behavior knobs from spec.md §6 that
// affect emission (trust_layer is passed to Generate; output_path and
// schema_compiler_path are handled by the driver, not the emitter).
type Config struct {
	ErrorHandling  string // "ErrorCode" or "Exception"
	Namespace      string
	OuterClassName string
}

// Generator renders one EDL's Plan into the logical artifacts.
type Generator struct {
	cfg Config
}

// New returns a Generator configured per cfg.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate renders the artifacts for edlName, keyed by logical
// filename (spec.md §6). trustLayer selects which side's ABI glue this
// invocation produces; the types header and the ABI schema do not
// depend on the side and are always emitted. Generate is a
// pure function of plan: it never touches the source Edl directly
// (spec.md §4.4).
func (g *Generator) Generate(edlName string, plan planner.Plan, trustLayer string) (map[string]string, error) {
	files := make(map[string]string)

	typesHeader, err := g.generateTypesHeader(edlName, plan)
	if err != nil {
		return nil, fmt.Errorf("generating types header: %w", err)
	}
	files[edlName+"_types.h"] = typesHeader

	abiSchema, err := g.generateAbiSchema(edlName, plan)
	if err != nil {
		return nil, fmt.Errorf("generating abi schema: %w", err)
	}
	files[edlName+"_abi.fbs"] = abiSchema

	switch trustLayer {
	case "outer":
		outerAbi, err := g.generateOuterAbi(edlName, plan)
		if err != nil {
			return nil, fmt.Errorf("generating outer abi: %w", err)
		}
		files[edlName+"_outer_abi.h"] = outerAbi

	case "inner":
		innerAbi, err := g.generateInnerAbi(edlName, plan)
		if err != nil {
			return nil, fmt.Errorf("generating inner abi: %w", err)
		}
		files[edlName+"_inner_abi.h"] = innerAbi

		innerExports, err := g.generateInnerExports(edlName, plan)
		if err != nil {
			return nil, fmt.Errorf("generating inner exports: %w", err)
		}
		files[edlName+"_inner_exports.cpp"] = innerExports

	default:
		return nil, fmt.Errorf("generating artifacts: unknown trust layer %q", trustLayer)
	}

	return files, nil
}

func (g *Generator) qualify(name string) string {
	if g.cfg.Namespace == "" {
		return name
	}
	return g.cfg.Namespace + "::" + name
}

var typesHeaderTmpl = template.Must(template.New("types_header").Parse(
	`// Generated by edlc. Do not edit by hand.
#pragma once

namespace {{.Namespace}}
{
{{- range .Enums}}
    enum class {{.Name}}
    {
    {{- range .Values}}
        {{.Name}} = {{.Value}},
    {{- end}}
    };
{{- end}}
{{- range .Structs}}
    struct {{.Name}}
    {
    {{- range .Fields}}
        {{.TypeName}} {{.Name}}{{if .IsArray}}[]{{end}};
    {{- end}}
    };
{{- end}}
}
`))

func (g *Generator) generateTypesHeader(edlName string, plan planner.Plan) (string, error) {
	var buf bytes.Buffer
	err := typesHeaderTmpl.Execute(&buf, map[string]any{
		"Namespace": g.cfg.Namespace,
		"Enums":     plan.AbiSchema.Enums,
		"Structs":   plan.AbiSchema.Structs,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var abiSchemaTmpl = template.Must(template.New("abi_schema").Parse(
	`// Generated by edlc. Do not edit by hand.
namespace {{.Namespace}};

{{range .Enums}}
enum {{.Name}} : uint {{"{"}}
{{- range .Values}}
    {{.Name}} = {{.Value}},
{{- end}}
{{"}"}}
{{end -}}
{{range .Structs}}
table {{.Name}} {{"{"}}
{{- range .Fields}}
    {{.Name}}: {{.TypeName}};
{{- end}}
{{- range .Pointers}}
    {{.FieldName}}_buffer: [ubyte];
{{- end}}
{{"}"}}
{{end -}}
{{range .InputContainers}}
table {{.Name}} {{"{"}}
{{- range .Fields}}
    {{.Name}}: {{.TypeName}};
{{- end}}
{{"}"}}
{{end -}}
{{range .OutputContainers}}
table {{.Name}} {{"{"}}
{{- range .Fields}}
    {{.Name}}: {{.TypeName}};
{{- end}}
{{"}"}}
{{end -}}
`))

func (g *Generator) generateAbiSchema(edlName string, plan planner.Plan) (string, error) {
	var buf bytes.Buffer
	err := abiSchemaTmpl.Execute(&buf, map[string]any{
		"Namespace":        g.cfg.Namespace,
		"Enums":            plan.AbiSchema.Enums,
		"Structs":          plan.AbiSchema.Structs,
		"InputContainers":  plan.AbiSchema.InputContainers,
		"OutputContainers": plan.AbiSchema.OutputContainers,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeContextRecordComment documents the cross-boundary context
// record (forwarded/returned buffer pairs and the alloc/dealloc
// callback names) every dispatcher and stub below is built against,
// per spec.md §6's transport contract.
func writeContextRecordComment(buf *bytes.Buffer, ctx planner.ContextRecordSpec) {
	fmt.Fprintf(buf, "    // Each dispatcher below receives a context record: a %s/%s\n", ctx.ForwardedBufferField, ctx.ForwardedSizeField)
	fmt.Fprintf(buf, "    // input pair and a %s/%s output pair. Outer-side memory for\n", ctx.ReturnedBufferField, ctx.ReturnedSizeField)
	fmt.Fprintf(buf, "    // the returned pair is obtained via the %s callback and released\n", ctx.AllocCallbackName)
	fmt.Fprintf(buf, "    // via %s, both registered alongside the address table.\n", ctx.DeallocCallbackName)
}

// generateOuterAbi renders the outer-side stubs for trusted functions
// and the developer-implementation declarations for untrusted ones,
// grouped under OuterClassName per spec.md §6, plus the address table
// mapping each untrusted ABI name to its dispatcher.
func (g *Generator) generateOuterAbi(edlName string, plan planner.Plan) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Generated by edlc. Do not edit by hand.\n#pragma once\n\n")
	fmt.Fprintf(&buf, "namespace %s\n{\n", g.cfg.Namespace)
	writeContextRecordComment(&buf, plan.Context)
	fmt.Fprintf(&buf, "    class %s\n    {\n    public:\n", g.cfg.OuterClassName)

	for _, trio := range plan.OuterToInner {
		fmt.Fprintf(&buf, "        %s %s(%s params);\n",
			g.returnTypeFor(), trio.OuterStub.Name, trio.OuterStub.InputType)
	}

	for _, trio := range plan.InnerToOuter {
		fmt.Fprintf(&buf, "        // developer implementation, called by %s\n", trio.OuterDispatcher.Name)
		fmt.Fprintf(&buf, "        %s %s(%s);\n",
			trio.OuterDecl.ReturnType, trio.OuterDecl.Name, joinParams(trio.OuterDecl.Parameters))
	}

	fmt.Fprintf(&buf, "    };\n\n")

	fmt.Fprintf(&buf, "    // Address table: ABI name -> dispatcher, for name-based lookup.\n")
	fmt.Fprintf(&buf, "    static const AddressTableEntry kAddressTable[] = {\n")
	for _, entry := range plan.AddressTable {
		fmt.Fprintf(&buf, "        { \"%s\", &%s },\n", entry.AbiName, entry.DispatcherName)
	}
	fmt.Fprintf(&buf, "    };\n")

	fmt.Fprintf(&buf, "}\n")

	return buf.String(), nil
}

// generateInnerAbi renders the inner-side declarations for trusted
// functions the developer must implement, and the stubs the enclave
// calls to invoke untrusted (outer) callbacks.
func (g *Generator) generateInnerAbi(edlName string, plan planner.Plan) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Generated by edlc. Do not edit by hand.\n#pragma once\n\n")
	fmt.Fprintf(&buf, "namespace %s\n{\n", g.cfg.Namespace)
	writeContextRecordComment(&buf, plan.Context)

	for _, trio := range plan.OuterToInner {
		fmt.Fprintf(&buf, "    // developer implementation, dispatched by %s\n", trio.InnerDispatcher.Name)
		fmt.Fprintf(&buf, "    %s %s(%s);\n",
			trio.InnerDecl.ReturnType, trio.InnerDecl.Name, joinParams(trio.InnerDecl.Parameters))
	}

	for _, trio := range plan.InnerToOuter {
		fmt.Fprintf(&buf, "    %s %s(%s params);\n",
			g.returnTypeFor(), trio.InnerStub.Name, trio.InnerStub.InputType)
	}

	fmt.Fprintf(&buf, "}\n")

	return buf.String(), nil
}

func (g *Generator) returnTypeFor() string {
	if g.cfg.ErrorHandling == "Exception" {
		return "void"
	}
	return "HRESULT"
}

func joinParams(params []planner.FieldSpec) string {
	var parts []string
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s %s", p.TypeName, p.Name))
	}
	return strings.Join(parts, ", ")
}

var innerExportsTmpl = template.Must(template.New("inner_exports").Parse(
	`// Generated by edlc. Do not edit by hand.
#include "{{.EdlName}}_inner_abi.h"

namespace {{.Namespace}}
{
{{- range .Entries}}
    extern "C" HRESULT {{.Name}}(const {{.InputType}}& input, {{.OutputType}}& output)
    {
        return {{.DispatcherName}}(input, output);
    }
{{- end}}
}
`))

// generateInnerExports renders one exported symbol per trusted
// function, each call templated on that function's input/output
// container types (spec.md §4.3 point 4).
func (g *Generator) generateInnerExports(edlName string, plan planner.Plan) (string, error) {
	var buf bytes.Buffer
	err := innerExportsTmpl.Execute(&buf, map[string]any{
		"EdlName":   edlName,
		"Namespace": g.cfg.Namespace,
		"Entries":   plan.ExportedEntries,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
