package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	pkgopenapi "github.com/goliatone/go-formgen-kendo/pkg/openapi"
	"github.com/goliatone/go-formgen-kendo/pkg/orchestrator"
	"github.com/goliatone/go-formgen-kendo/pkg/render"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/kendo"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/plan"
	"github.com/goliatone/go-formgen-kendo/pkg/renderers/tui"
	"github.com/goliatone/go-formgen-kendo/pkg/uischema"
)

func main() {
	source := flag.String("source", "", "form document or OpenAPI document path or URL")
	opID := flag.String("operation", "", "OpenAPI operation ID (empty renders a form document)")
	renderer := flag.String("renderer", kendo.Name, "renderer to use (kendo, plan, tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	values := flag.String("values", "", "JSON file with prefill values keyed by field path")
	preset := flag.String("preset", "", "JSON preset transformer file")
	overlay := flag.String("overlay", "", "directory of JSON/YAML UI overlays keyed by form ID")
	format := flag.String("format", string(tui.OutputFormatJSON), "tui output format (json, form, pretty)")
	flag.Parse()

	ctx := context.Background()

	src, err := parseSource(*source)
	if err != nil {
		log.Fatalf("invalid source: %v", err)
	}

	registry := render.NewRegistry()
	kendoRenderer, err := kendo.New()
	if err != nil {
		log.Fatalf("kendo renderer: %v", err)
	}
	tuiRenderer, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)), tui.WithOutput(os.Stderr))
	if err != nil {
		log.Fatalf("tui renderer: %v", err)
	}
	registry.MustRegister(kendoRenderer)
	registry.MustRegister(plan.New(plan.WithIndent()))
	registry.MustRegister(tuiRenderer)

	options := []orchestrator.Option{orchestrator.WithRegistry(registry)}
	if *preset != "" {
		data, err := os.ReadFile(*preset)
		if err != nil {
			log.Fatalf("read preset: %v", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			log.Fatalf("preset: %v", err)
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}
	if *overlay != "" {
		store, err := uischema.LoadFS(os.DirFS(*overlay))
		if err != nil {
			log.Fatalf("overlay: %v", err)
		}
		options = append(options, orchestrator.WithDecorators(uischema.NewDecorator(store)))
	}
	gen := orchestrator.New(options...)

	req := orchestrator.Request{
		Source:      src,
		OperationID: *opID,
		Renderer:    *renderer,
	}
	if *values != "" {
		prefill, err := readValues(*values)
		if err != nil {
			log.Fatalf("read values: %v", err)
		}
		req.RenderOptions.Values = prefill
	}

	out, err := gen.Generate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

func parseSource(raw string) (pkgopenapi.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, errors.New("-source is required")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path), nil
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return values, nil
}
