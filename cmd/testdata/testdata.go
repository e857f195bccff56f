package testdata

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type Command struct {
	outputDir string
}

func (*Command) Name() string     { return "testdata" }
func (*Command) Synopsis() string { return "Generate a directory of duplicate files" }
func (*Command) Usage() string {
	return `testdata -out <directory>:
  Write a flat directory with identical, same-size and unique files for
  trying out scan.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "out", "", "output directory path (required)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.outputDir == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	logger := zerolog.Ctx(ctx)

	files, err := generateTestData(c.outputDir)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate test data")
		return subcommands.ExitFailure
	}

	logger.Info().Int("files", files).Str("dir", c.outputDir).Msg("generated test data")
	return subcommands.ExitSuccess
}

// fixture is one content written under several names.
type fixture struct {
	content string
	names   []string
}

var fixtures = []fixture{
	{"This is a test document\n", []string{"doc1.txt", "doc2.txt", "doc3.txt"}},
	{"This is a best document\n", []string{"doc-near.txt"}},
	{"Hello, World!\n", []string{"hello.txt", "hello-copy.txt"}},
	{"package main\n\nfunc main() {}\n", []string{"main.go", "main.go.bak"}},
	{"", []string{"empty1", "empty2"}},
	{strings.Repeat("Large content repeated ", 1000), []string{"big.log", "big-old.log"}},
	{strings.Repeat("Large content repeatex ", 1000), []string{"big-other.log"}},
	{"unique\n", []string{"lonely.txt"}},
}

// generateTestData writes the fixtures into outputDir, plus a
// subdirectory holding another copy that a scan must not look into.
func generateTestData(outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for _, fx := range fixtures {
		for _, name := range fx.names {
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, []byte(fx.content), 0644); err != nil {
				return count, fmt.Errorf("failed to create file %s: %w", name, err)
			}
			count++
		}
	}

	nested := filepath.Join(outputDir, "nested")
	if err := os.MkdirAll(nested, 0755); err != nil {
		return count, fmt.Errorf("failed to create directory %s: %w", nested, err)
	}
	if err := os.WriteFile(filepath.Join(nested, "doc4.txt"), []byte(fixtures[0].content), 0644); err != nil {
		return count, fmt.Errorf("failed to create nested file: %w", err)
	}

	return count, nil
}
