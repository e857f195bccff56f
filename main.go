package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/nrtkbb/dupscan/app"
	"github.com/nrtkbb/dupscan/cmd/history"
	"github.com/nrtkbb/dupscan/cmd/merge"
	"github.com/nrtkbb/dupscan/cmd/migrate"
	"github.com/nrtkbb/dupscan/cmd/scan"
	"github.com/nrtkbb/dupscan/cmd/serve"
	"github.com/nrtkbb/dupscan/cmd/testdata"
	"github.com/nrtkbb/dupscan/cmd/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	traceFlag = flag.Bool("trace", false, "write OpenTelemetry spans to stderr")
	logLevel  = flag.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
)

// initTracer initializes the OpenTelemetry tracer provider. Spans go to w
// because stdout carries the report.
func initTracer(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	resource := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("dupscan"),
		semconv.ServiceVersion(version.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&scan.Command{}, "")
	subcommands.Register(&history.Command{}, "")
	subcommands.Register(&serve.Command{}, "history")
	subcommands.Register(&merge.Command{}, "history")
	subcommands.Register(&migrate.Command{}, "history")
	subcommands.Register(&testdata.Command{}, "")
	subcommands.Register(&version.Command{}, "")

	flag.Parse()

	logger, err := app.NewLogger(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupscan: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	ctx := logger.WithContext(context.Background())

	var tp *sdktrace.TracerProvider
	if *traceFlag {
		tp, err = initTracer(os.Stderr)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize tracer")
		}
	}

	status := run(ctx)

	if tp != nil {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("error shutting down tracer provider")
		}
	}
	os.Exit(int(status))
}

// run executes the requested subcommand. With no subcommand the current
// directory is scanned with default settings.
func run(ctx context.Context) subcommands.ExitStatus {
	if flag.NArg() == 0 {
		cmd := &scan.Command{}
		f := flag.NewFlagSet(cmd.Name(), flag.ExitOnError)
		cmd.SetFlags(f)
		return cmd.Execute(ctx, f)
	}
	return subcommands.Execute(ctx)
}
