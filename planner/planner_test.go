package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardanlabs/edlc/parser"
)

func mustParse(t *testing.T, src string) (plan Plan) {
	t.Helper()

	edl, err := parser.New("test.edl", []byte(src)).Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	plan, err = New().Build(edl)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return plan
}

func TestPlanner_TrustedFunctionProducesFullTrio(t *testing.T) {
	plan := mustParse(t, `enclave {
		trusted {
			void Send([in, size=n] uint8_t* buf, uint32_t n);
		};
	};`)

	if len(plan.OuterToInner) != 1 {
		t.Fatalf("len(OuterToInner) = %d, want 1", len(plan.OuterToInner))
	}

	trio := plan.OuterToInner[0]
	if trio.OuterStub.Name != "Send" {
		t.Errorf("OuterStub.Name = %q, want Send", trio.OuterStub.Name)
	}
	if trio.InnerDispatcher.Name != "Vtl1Dispatch_Send_0" {
		t.Errorf("InnerDispatcher.Name = %q, want Vtl1Dispatch_Send_0", trio.InnerDispatcher.Name)
	}
	if trio.OuterStub.InputType != "Send_0_Inputs" {
		t.Errorf("InputType = %q, want Send_0_Inputs", trio.OuterStub.InputType)
	}
	if trio.OuterStub.OutputType != "Send_0_Outputs" {
		t.Errorf("OutputType = %q, want Send_0_Outputs", trio.OuterStub.OutputType)
	}

	if len(plan.ExportedEntries) != 1 {
		t.Fatalf("len(ExportedEntries) = %d, want 1", len(plan.ExportedEntries))
	}
	entry := plan.ExportedEntries[0]
	if entry.Name != "Send_0" {
		t.Errorf("ExportedEntries[0].Name = %q, want Send_0", entry.Name)
	}
	if entry.DispatcherName != trio.InnerDispatcher.Name {
		t.Errorf("ExportedEntries[0].DispatcherName = %q, want %q", entry.DispatcherName, trio.InnerDispatcher.Name)
	}
}

func TestPlanner_UntrustedFunctionPopulatesAddressTable(t *testing.T) {
	plan := mustParse(t, `enclave {
		untrusted {
			void Notify();
		};
	};`)

	if len(plan.AddressTable) != 1 {
		t.Fatalf("len(AddressTable) = %d, want 1", len(plan.AddressTable))
	}
	entry := plan.AddressTable[0]
	if entry.AbiName != "Notify_0" {
		t.Errorf("AbiName = %q, want Notify_0", entry.AbiName)
	}
	if entry.DispatcherName != "Vtl0Dispatch_Notify_0" {
		t.Errorf("DispatcherName = %q, want Vtl0Dispatch_Notify_0", entry.DispatcherName)
	}
}

func TestPlanner_TypesHeaderDedupesAnonymousEnum(t *testing.T) {
	plan := mustParse(t, `enclave {
		enum {
			kOne
		};
		struct S {
			uint32_t a[kOne];
		};
		enum {
			kTwo
		};
	};`)

	count := 0
	for _, dt := range plan.TypesHeader {
		if dt.Name == "_AnonymousEnum_" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("anonymous enum appears %d times in TypesHeader, want 1", count)
	}
}

func TestPlanner_StructSchemaLowersPointerField(t *testing.T) {
	plan := mustParse(t, `enclave {
		struct Payload {
			[size=len] uint8_t* data;
			uint32_t len;
		};
	};`)

	var payload *StructSchema
	for i := range plan.AbiSchema.Structs {
		if plan.AbiSchema.Structs[i].Name == "Payload" {
			payload = &plan.AbiSchema.Structs[i]
		}
	}
	if payload == nil {
		t.Fatal("Payload struct schema not found")
	}
	if len(payload.Pointers) != 1 {
		t.Fatalf("len(Pointers) = %d, want 1", len(payload.Pointers))
	}
	if payload.Pointers[0].FieldName != "data" || payload.Pointers[0].LengthName != "len" {
		t.Errorf("Pointers[0] = %+v, want {data len}", payload.Pointers[0])
	}
}

func TestPlanner_FunctionContainersSplitByDirection(t *testing.T) {
	plan := mustParse(t, `enclave {
		trusted {
			uint32_t Exchange([in] uint32_t input, [out] uint32_t* result);
		};
	};`)

	var inCont, outCont *FunctionContainerSchema
	for i := range plan.AbiSchema.InputContainers {
		if plan.AbiSchema.InputContainers[i].FunctionName == "Exchange" {
			inCont = &plan.AbiSchema.InputContainers[i]
		}
	}
	for i := range plan.AbiSchema.OutputContainers {
		if plan.AbiSchema.OutputContainers[i].FunctionName == "Exchange" {
			outCont = &plan.AbiSchema.OutputContainers[i]
		}
	}
	if inCont == nil || outCont == nil {
		t.Fatal("containers for Exchange not found")
	}

	if len(inCont.Fields) != 1 || inCont.Fields[0].Name != "input" {
		t.Errorf("input container fields = %+v, want [input]", inCont.Fields)
	}

	// result (out) plus the synthesized return value.
	var outNames []string
	for _, f := range outCont.Fields {
		outNames = append(outNames, f.Name)
	}
	want := []string{"result", "_return_value_"}
	if diff := cmp.Diff(want, outNames); diff != "" {
		t.Errorf("output container field names mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanner_PointerLoweringPrefersSizeOverCount(t *testing.T) {
	plan := mustParse(t, `enclave {
		trusted {
			void Fill([in, size=byte_len, count=item_count] uint8_t* data, uint32_t byte_len, uint32_t item_count);
		};
	};`)

	var dataCont *FunctionContainerSchema
	for i := range plan.AbiSchema.InputContainers {
		if plan.AbiSchema.InputContainers[i].FunctionName == "Fill" {
			dataCont = &plan.AbiSchema.InputContainers[i]
		}
	}
	if dataCont == nil {
		t.Fatal("input container for Fill not found")
	}
	if len(dataCont.Pointers) != 1 {
		t.Fatalf("len(Pointers) = %d, want 1", len(dataCont.Pointers))
	}
	if dataCont.Pointers[0].LengthName != "byte_len" {
		t.Errorf("LengthName = %q, want byte_len (size must win over count)", dataCont.Pointers[0].LengthName)
	}
}

func TestPlanner_ContextRecordDescribesTransportContract(t *testing.T) {
	plan := mustParse(t, `enclave {
		trusted {
			void Ping();
		};
	};`)

	ctx := plan.Context
	if ctx.ForwardedBufferField == "" || ctx.ForwardedSizeField == "" {
		t.Error("Context forwarded buffer/size fields must be set")
	}
	if ctx.ReturnedBufferField == "" || ctx.ReturnedSizeField == "" {
		t.Error("Context returned buffer/size fields must be set")
	}
	if ctx.AllocCallbackName == "" || ctx.DeallocCallbackName == "" {
		t.Error("Context alloc/dealloc callback names must be set")
	}
}

func TestPlanner_BuildIsDeterministic(t *testing.T) {
	src := `enclave {
		struct Point {
			uint32_t x;
			uint32_t y;
		};
		trusted {
			void Move([in] Point* p);
		};
		untrusted {
			void Notify();
		};
	};`

	a := mustParse(t, src)
	b := mustParse(t, src)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Build() not deterministic (-first +second):\n%s", diff)
	}
}

func TestPlanner_OrderingRespectsDependencies(t *testing.T) {
	plan := mustParse(t, `enclave {
		enum Color {
			kRed,
			kGreen
		};
		struct Pixel {
			Color c;
		};
	};`)

	colorIdx, pixelIdx := -1, -1
	for i, dt := range plan.TypesHeader {
		switch dt.Name {
		case "Color":
			colorIdx = i
		case "Pixel":
			pixelIdx = i
		}
	}
	if colorIdx == -1 || pixelIdx == -1 {
		t.Fatal("Color or Pixel missing from TypesHeader")
	}
	if colorIdx >= pixelIdx {
		t.Errorf("Color must precede Pixel in TypesHeader: colorIdx=%d pixelIdx=%d", colorIdx, pixelIdx)
	}
}
