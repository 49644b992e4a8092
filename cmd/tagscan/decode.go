package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder for --image
	_ "image/jpeg" // register JPEG decoder for --image
	_ "image/png"  // register PNG decoder for --image
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lifetag/tagscan/internal/config"
	"github.com/lifetag/tagscan/internal/log"
	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/pipeline"
	"github.com/lifetag/tagscan/internal/scanner"
	"github.com/spf13/cobra"
)

// ErrUnreadableTags is returned by decode when at least one input could
// not be read. The results are written before it is returned.
var ErrUnreadableTags = errors.New("one or more tags could not be read")

// errNoInput is returned by decode when there is nothing to decode.
var errNoInput = errors.New("no input provided (pass decoded texts as arguments, --image files, or pipe lines to stdin)")

// NewDecodeCmd creates the decode command.
func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [text...]",
		Short: "Decode saved LifeTag payloads or QR images",
		Long: `Decode runs the LifeTag parse and validation over decoded texts or
QR code images without a camera, and prints one record per input followed
by a summary.

Texts are taken from the arguments, or one per line from stdin when there
are no arguments and no --image files. The command fails when any input
cannot be read.

Examples:
  # Decode a saved payload
  tagscan decode "{'public': {'full_name': 'Jane Doe'}}"

  # Decode QR images concurrently and write a Markdown summary
  tagscan decode --image tag1.png --image tag2.jpg --markdown -o tags.md

  # Decode a file of payloads, one per line
  tagscan decode --json < payloads.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runDecodeCmd,
	}

	cmd.Flags().StringSliceP("image", "i", nil,
		"QR code image file to decode (PNG, JPEG or GIF; repeatable)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of inputs decoded concurrently")
	cmd.Flags().String("placeholder", config.DefaultPlaceholder,
		"Text shown for missing fields")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tagscan in current or home directory)")

	addReportFlags(cmd)

	return cmd
}

// decodeInput is one text to decode, or the reason an image had none.
type decodeInput struct {
	text string
	err  error
}

// runDecodeCmd executes the decode command.
func runDecodeCmd(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cmd.Flags().Changed("placeholder") {
		if cfg.Placeholder, err = cmd.Flags().GetString("placeholder"); err != nil {
			return err
		}
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	images, err := cmd.Flags().GetStringSlice("image")
	if err != nil {
		return err
	}

	inputs := make([]decodeInput, 0, len(args)+len(images))
	for _, text := range args {
		inputs = append(inputs, decodeInput{text: text})
	}
	for _, path := range images {
		inputs = append(inputs, readImage(path))
	}
	if len(args) == 0 && len(images) == 0 {
		lines, err := readLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		for _, line := range lines {
			inputs = append(inputs, decodeInput{text: line})
		}
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return runDecode(commandContext(cmd), cfg, inputs, cmd.OutOrStdout(), logger)
}

// runDecode decodes inputs concurrently and writes a summary in input order.
func runDecode(ctx context.Context, cfg *config.Config, inputs []decodeInput, stdout io.Writer, logger *slog.Logger) error {
	if len(inputs) == 0 {
		return errNoInput
	}

	texts := make([]string, 0, len(inputs))
	positions := make([]int, 0, len(inputs))
	cycles := make([]*model.ScanCycle, len(inputs))
	for i, in := range inputs {
		if in.err != nil {
			cycles[i] = failedCycle(in.err)
			continue
		}
		texts = append(texts, in.text)
		positions = append(positions, i)
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(cfg.Placeholder, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	decoded, err := bp.ProcessBatch(ctx, texts)
	if err != nil {
		return err
	}
	for i, cycle := range decoded {
		cycles[positions[i]] = cycle
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // summary is written before close

	summary := model.NewSummary(cycles)
	if _, err := newWriter(cfg, output).WriteSummary(summary); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrUnreadableTags, summary.UnreadableCount, summary.Total)
	}
	return nil
}

// failedCycle records an input that never produced a decoded text.
func failedCycle(err error) *model.ScanCycle {
	cycle := model.NewScanCycle("")
	cycle.Err = err
	cycle.ErrorMessage = err.Error()
	return cycle
}

// readImage decodes the QR code of an image file. The whole image is
// searched.
func readImage(path string) decodeInput {
	f, err := os.Open(path) //nolint:gosec // User-provided image path is intentional
	if err != nil {
		return decodeInput{err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return decodeInput{err: fmt.Errorf("%s: %w", path, err)}
	}

	text, err := scanner.DecodeImage(img, scanner.Region{})
	if err != nil {
		return decodeInput{err: fmt.Errorf("%s: %w", path, err)}
	}
	return decodeInput{text: text}
}

// readLines returns the non-empty lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
