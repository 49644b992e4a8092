package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifetag/tagscan/internal/config"
	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/pipeline"
	"github.com/lifetag/tagscan/internal/report"
	"github.com/lifetag/tagscan/internal/scanner"
	"github.com/lifetag/tagscan/internal/tui"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a LifeTag QR code with the camera",
		Long: `Scan arms the camera and waits for a LifeTag QR code.

When a tag is read, the scanner stops and the six public fields are shown
with a link to call the emergency contact. A tag that cannot be read is
reported and the scanner is re-armed.

The camera is a capture directory: the newest image in it is treated as
the current frame. With --source line, each line read from stdin is one
decode, which suits keyboard-wedge hardware scanners and pipes.

Examples:
  # Scan with the terminal UI (r to rescan, q to quit)
  tagscan scan

  # Use the front camera's capture directory
  tagscan scan --facing user --device user=/var/lib/tagscan/front

  # Read from a hardware scanner and print each result as JSON
  tagscan scan --source line --continuous --json

  # Exit after the first result, without the terminal UI
  tagscan scan --plain -o result.md --markdown`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("source", "s", config.SourceFrames,
		"Decode source: frames (capture directory) or line (stdin)")
	cmd.Flags().StringP("facing", "F", config.DefaultFacing,
		"Preferred camera: environment or user")
	cmd.Flags().StringToStringP("device", "d", nil,
		"Capture directory per facing mode (e.g. environment=/path/to/frames)")
	cmd.Flags().Int("fps", config.DefaultScanRate,
		"Frames examined per second")
	cmd.Flags().Int("qrbox", config.DefaultRegionWidth,
		"Side of the centred scan box in pixels")
	cmd.Flags().String("placeholder", config.DefaultPlaceholder,
		"Text shown for missing fields")

	cmd.Flags().BoolP("plain", "P", false,
		"Print results as text instead of the terminal UI")
	cmd.Flags().BoolP("continuous", "C", false,
		"Re-arm the scanner after each result")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tagscan in current or home directory)")

	addReportFlags(cmd)

	return cmd
}

// addReportFlags adds the result format flags shared by scan and decode.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write results to specified file path (creates directories if needed)")
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closeLog, err := setupLogger(cfg.Verbose, useTUI(cfg), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // log file close is best effort
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping scanner...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScan(ctx, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// buildConfig creates a Config from the config file and cobra command flags.
// Flags override the file only when given on the command line.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if flags.Changed("source") {
		if cfg.Source, err = flags.GetString("source"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("facing") {
		if cfg.Facing, err = flags.GetString("facing"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("device") {
		devices, err := flags.GetStringToString("device")
		if err != nil {
			return nil, err
		}
		for facing, dir := range devices {
			cfg.Devices[facing] = dir
		}
	}
	if flags.Changed("fps") {
		if cfg.ScanRate, err = flags.GetInt("fps"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("qrbox") {
		size, err := flags.GetInt("qrbox")
		if err != nil {
			return nil, err
		}
		cfg.Region = scanner.Region{Width: size, Height: size}
	}
	if flags.Changed("placeholder") {
		if cfg.Placeholder, err = flags.GetString("placeholder"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("plain") {
		if cfg.Plain, err = flags.GetBool("plain"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("continuous") {
		if cfg.Continuous, err = flags.GetBool("continuous"); err != nil {
			return nil, err
		}
	}

	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readReportFlags copies the result format flags into cfg.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	return err
}

// useTUI reports whether the terminal UI presents the session.
// The line source shares stdin with the scanner hardware, so it always
// runs plain.
func useTUI(cfg *config.Config) bool {
	return !cfg.Plain && cfg.Source != config.SourceLine
}

// newCamera returns the camera for the configured source.
func newCamera(cfg *config.Config, stdin io.Reader, logger *slog.Logger) scanner.Camera {
	if cfg.Source == config.SourceLine {
		return scanner.NewLineCamera(stdin, logger)
	}
	return scanner.NewFrameCamera(cfg.DeviceMap(), scanner.WithFrameLogger(logger))
}

// runScan runs one intake session.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	camera := newCamera(cfg, stdin, logger)
	if closer, ok := camera.(io.Closer); ok {
		defer closer.Close() //nolint:errcheck // camera is released by the intake
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // results are written before close
	writer := newWriter(cfg, output)

	logger.Info("starting scanner",
		"source", cfg.Source,
		"facing", cfg.Facing,
		"fps", cfg.ScanRate,
		"continuous", cfg.Continuous,
	)

	opts := []pipeline.IntakeOption{
		pipeline.WithIntakeLogger(logger),
		pipeline.WithPlaceholder(cfg.Placeholder),
		pipeline.WithConstraints(cfg.Constraints()),
		pipeline.WithScannerConfig(cfg.ScannerConfig()),
		pipeline.WithContinuous(cfg.Continuous),
	}

	if !useTUI(cfg) {
		return runPlainScan(ctx, cfg, camera, writer, stderr, logger, opts)
	}

	if cfg.ReportFile != "" {
		opts = append(opts, pipeline.OnCycle(func(cycle *model.ScanCycle) {
			if cycle.Failed() {
				return
			}
			if _, err := writer.Write(model.NewRecord(cycle)); err != nil {
				logger.Error("unable to write result", "error", err)
			}
		}))
	}

	return tui.Run(ctx, func(p *tui.Presenter) *pipeline.Intake {
		return pipeline.NewIntake(camera, p, opts...)
	})
}

// runPlainScan prints results to writer and status to stderr. Without
// --continuous it returns after the first tag is read.
func runPlainScan(
	ctx context.Context,
	cfg *config.Config,
	camera scanner.Camera,
	writer report.Writer,
	stderr io.Writer,
	logger *slog.Logger,
	opts []pipeline.IntakeOption,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !cfg.Continuous {
		opts = append(opts, pipeline.OnCycle(func(cycle *model.ScanCycle) {
			if !cycle.Failed() {
				cancel()
			}
		}))
	}

	presenter := report.NewStreamPresenter(writer, stderr, logger)
	err := pipeline.NewIntake(camera, presenter, opts...).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
