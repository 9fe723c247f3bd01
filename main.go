package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/edlc/generator"
	"github.com/ardanlabs/edlc/parser"
	"github.com/ardanlabs/edlc/planner"
)

func main() {
	edlPath := flag.String("edl", "", "Path to the .edl source file")
	outputPath := flag.String("output_path", ".", "Directory where artifacts are written")
	errorHandling := flag.String("error_handling", "ErrorCode", "ErrorCode or Exception")
	trustLayer := flag.String("trust_layer", "outer", "outer or inner")
	namespaceName := flag.String("generated_namespace_name", "", "Namespace qualifier applied to all emitted names")
	outerClassName := flag.String("generated_outer_class_name", "GeneratedOuter", "Name of the class grouping outer-side entry points")
	schemaCompilerPath := flag.String("schema_compiler_path", "", "Path to the external schema compiler binary")
	flag.Parse()

	if *edlPath == "" {
		fmt.Fprintln(os.Stderr, "error: -edl flag is required")
		flag.Usage()
		os.Exit(1)
	}

	if *trustLayer != "outer" && *trustLayer != "inner" {
		fmt.Fprintf(os.Stderr, "error: -trust_layer must be \"outer\" or \"inner\", got %q\n", *trustLayer)
		os.Exit(1)
	}
	if *errorHandling != "ErrorCode" && *errorHandling != "Exception" {
		fmt.Fprintf(os.Stderr, "error: -error_handling must be \"ErrorCode\" or \"Exception\", got %q\n", *errorHandling)
		os.Exit(1)
	}

	edlName := strings.TrimSuffix(filepath.Base(*edlPath), filepath.Ext(*edlPath))

	fmt.Fprintf(os.Stdout, "info: parsing %s\n", *edlPath)

	src, err := os.ReadFile(*edlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", *edlPath, err)
		os.Exit(1)
	}

	edl, err := parser.New(*edlPath, src).Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "info: parsed %s: %d trusted, %d untrusted functions\n",
		*edlPath, len(edl.TrustedFunctionsOrder), len(edl.UntrustedFunctionsOrder))

	plan, err := planner.New().Build(edl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error planning %s: %v\n", *edlPath, err)
		os.Exit(1)
	}

	gen := generator.New(generator.Config{
		ErrorHandling:  *errorHandling,
		Namespace:      *namespaceName,
		OuterClassName: *outerClassName,
	})

	files, err := gen.Generate(edlName, plan, *trustLayer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating code: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var schemaPath string
	for filename, content := range files {
		path := filepath.Join(*outputPath, filename)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", filename, err)
			os.Exit(1)
		}
		fmt.Printf("Generated: %s\n", path)

		if strings.HasSuffix(filename, ".fbs") {
			schemaPath = path
		}
	}

	if *schemaCompilerPath != "" && schemaPath != "" {
		fmt.Fprintf(os.Stdout, "info: compiling schema %s\n", schemaPath)
		cmd := exec.Command(*schemaCompilerPath, schemaPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error compiling schema: %v\n", err)
			os.Exit(1)
		}
	}
}
