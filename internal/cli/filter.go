package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/decode"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/pipeline"
)

var referenceTimeFlag string

// filterCmd represents the filter command
var filterCmd = &cobra.Command{
	Use:   "filter [file ...]",
	Short: "Filter action batches from files or stdin",
	Long: `Runs JSON action batches through the filter pipeline: duplicate entities
collapse to their last record, records outside the scheduling windows drop
out, and the remainder comes back urgent-first.

With no arguments the batch is read from stdin and the result written to
stdout; a single file argument also writes to stdout. With several files
each result lands next to its input as <name>.filtered.json, and the files
are processed concurrently.

The windows are evaluated against --reference-time when given (RFC 3339),
otherwise against the current UTC time.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runFilter(cmd, args)
	},
}

func init() {
	filterCmd.Flags().StringVar(&referenceTimeFlag, "reference-time", "", "RFC 3339 instant the windows are evaluated against (default: now)")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) {
	cfg, _, err := loadConfigOrDefault(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays a clean JSON stream for piping.
	if err := logger.Init(cfg.Application, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	referenceTime := time.Now().UTC()
	if referenceTimeFlag != "" {
		parsed, err := time.Parse(time.RFC3339, referenceTimeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --reference-time '%s': %v\n", referenceTimeFlag, err)
			os.Exit(1)
		}
		referenceTime = parsed
	}

	horizonDays := cfg.Filter.HorizonDays
	cooldownDays := cfg.Filter.CooldownDays

	switch len(args) {
	case 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		out, err := filterBatch(data, referenceTime, horizonDays, cooldownDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(out)

	case 1:
		out, err := filterFile(args[0], referenceTime, horizonDays, cooldownDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error filtering '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(out)

	default:
		// Each input is independent work; run them concurrently and fail
		// the command if any batch fails.
		var group errgroup.Group
		for _, inputPath := range args {
			inputPath := inputPath
			group.Go(func() error {
				out, err := filterFile(inputPath, referenceTime, horizonDays, cooldownDays)
				if err != nil {
					return fmt.Errorf("filtering '%s': %w", inputPath, err)
				}
				outputPath := filteredOutputPath(inputPath)
				if err := os.WriteFile(outputPath, out, 0644); err != nil {
					return fmt.Errorf("writing '%s': %w", outputPath, err)
				}
				logger.L().Info("Filtered batch", "input", inputPath, "output", outputPath)
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func filterFile(path string, referenceTime time.Time, horizonDays, cooldownDays int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return filterBatch(data, referenceTime, horizonDays, cooldownDays)
}

// filterBatch is the whole one-shot operation: decode, run the pipeline,
// re-encode. The output is indented for reading and ends with a newline.
func filterBatch(data []byte, referenceTime time.Time, horizonDays, cooldownDays int) ([]byte, error) {
	actions, err := decode.Batch(data)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Process(actions, referenceTime, horizonDays, cooldownDays)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding filter result: %w", err)
	}
	return append(out, '\n'), nil
}

// filteredOutputPath names the result file for a multi-file run:
// batch.json becomes batch.filtered.json.
func filteredOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if ext == "" {
		ext = ".json"
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".filtered" + ext
}
