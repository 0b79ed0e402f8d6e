// Command formcheck validates a set of field values against a form definition.
//
//	formcheck -def signup.yaml -values input.json [-schema signup.schema.json] [-env .env]
//
// The values file is a flat YAML or JSON object of field name → value. The
// result is printed as JSON: the nested data when valid, the errors map
// otherwise. The exit code is 0 when valid, 1 when invalid and 2 on usage or
// input errors.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/schemaresolver"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type report struct {
	Valid  bool                `json:"valid"`
	Data   map[string]any      `json:"data,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("formcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	defPath := fs.String("def", "", "form definition file (YAML)")
	valuesPath := fs.String("values", "", "field values file (YAML or JSON)")
	schemaPath := fs.String("schema", "", "optional JSON Schema used instead of field rules")
	envPath := fs.String("env", "", "optional .env file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *defPath == "" || *valuesPath == "" {
		fmt.Fprintln(stderr, "formcheck: -def and -values are required")
		fs.Usage()
		return exitUsage
	}

	if *envPath != "" {
		if err := config.LoadEnv(*envPath); err != nil {
			fmt.Fprintf(stderr, "formcheck: %v\n", err)
			return exitUsage
		}
	}
	cfg, cfgErr := form.ConfigFromEnv()

	log := logger.New(
		logger.WithTextFormatter(),
		logger.WithOutput(stderr),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithAttr(slog.String("service", "formcheck")),
	)
	if cfgErr != nil {
		log.Warn("using default configuration", logger.Error(cfgErr))
	}

	def, err := loadDefinition(*defPath)
	if err != nil {
		log.Error("load definition", logger.Error(err))
		return exitUsage
	}
	values, err := loadValues(*valuesPath)
	if err != nil {
		log.Error("load values", logger.Error(err))
		return exitUsage
	}

	// definition settings take precedence over the environment
	opts := []form.Option{form.WithConfig(cfg)}
	opts = append(opts, def.Options()...)
	// values are applied in bulk and checked once on submit
	opts = append(opts, form.WithValidateOnChange(false), form.WithLogger(log))
	if *schemaPath != "" {
		r, err := loadSchema(*schemaPath, log)
		if err != nil {
			log.Error("load schema", logger.Error(err))
			return exitUsage
		}
		opts = append(opts, form.WithResolver(r))
	}

	f, err := form.NewFromDefinition(def, opts...)
	if err != nil {
		log.Error("build form", logger.Error(err))
		return exitUsage
	}
	defer f.Close()

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, err := f.SetValue(ctx, name, values[name]).Await(); err != nil {
			log.Warn("value ignored", logger.Field(name), logger.Error(err))
		}
	}

	var out report
	submit := f.OnSubmit(
		func(_ context.Context, data map[string]any, _ form.Event) error {
			out = report{Valid: true, Data: data}
			return nil
		},
		func(_ context.Context, errs map[string][]string, _ form.Event) {
			out = report{Valid: false, Errors: errs}
		},
	)
	if err := submit(ctx, nil); err != nil {
		log.Error("submit", logger.Error(err))
		return exitUsage
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("write result", logger.Error(err))
		return exitUsage
	}
	if !out.Valid {
		return exitInvalid
	}
	return exitValid
}

func loadDefinition(path string) (*form.Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return form.LoadDefinition(file)
}

func loadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if values == nil {
		return nil, errors.New("values file is empty")
	}
	return values, nil
}

func loadSchema(path string, log *slog.Logger) (*schemaresolver.Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schemaresolver.New(data, schemaresolver.WithLogger(log))
}
