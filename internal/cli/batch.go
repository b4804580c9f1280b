package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/raychel/internal/model"
	"github.com/ppiankov/raychel/internal/worker"
)

var (
	concurrency  int
	outputPath   string
	outputFormat string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer questions from a file in parallel",
	Long: `Batch answers many questions concurrently:
- Read questions from the input file (one per line, # starts a comment)
- Skip blank lines and repeated questions
- Resolve questions in parallel with a bounded worker pool
- Write results in input order as JSON or YAML

Example:
  raychel batch questions.txt
  raychel batch questions.txt --concurrency 8 --output answers.json
  raychel batch questions.txt --format yaml --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json, yaml)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

// batchEntry is one line of batch output
type batchEntry struct {
	model.Resolution `yaml:",inline"`
	Error            string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	format := strings.ToLower(outputFormat)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q (supported: json, yaml)", outputFormat)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
		fmt.Fprintf(os.Stderr, "  Raychel Batch Processing\n")
		fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
		fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
		fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputName(outputPath))
		fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
		fmt.Fprintf(os.Stderr, "\n")
	}

	start := time.Now()
	processor := worker.NewBatchProcessor(a.resolver, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	entries := toEntries(results)

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := writeEntries(out, entries, format); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	failed := 0
	for _, e := range entries {
		if e.Error != "" {
			failed++
		}
	}

	if verbose || failed > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "  Total:     %d questions\n", len(entries))
		fmt.Fprintf(os.Stderr, "  Answered:  %d\n", len(entries)-failed)
		fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failed)
		fmt.Fprintf(os.Stderr, "  Took:      %.2fs\n", time.Since(start).Seconds())
		fmt.Fprintf(os.Stderr, "\n")
	}

	return nil
}

// toEntries keeps input order; unresolved questions carry their error
func toEntries(results []*worker.QuestionResult) []batchEntry {
	entries := make([]batchEntry, 0, len(results))
	for _, r := range results {
		entry := batchEntry{Resolution: r.Resolution}
		if r.Error != nil {
			entry.Resolution = model.Resolution{Question: r.Question}
			entry.Error = r.Error.Error()
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeEntries(w io.Writer, entries []batchEntry, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
