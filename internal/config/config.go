package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/lifetag/tagscan/internal/scanner"
	"github.com/lifetag/tagscan/internal/view"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tagscan"

	// DefaultFacing asks for the rear camera, which faces the tag.
	DefaultFacing = string(scanner.FacingEnvironment)

	// DefaultScanRate is the number of frames examined per second.
	DefaultScanRate = scanner.DefaultScanRate

	// DefaultRegionWidth and DefaultRegionHeight size the scan box in pixels.
	DefaultRegionWidth  = scanner.DefaultRegionWidth
	DefaultRegionHeight = scanner.DefaultRegionHeight

	// DefaultPlaceholder is shown for fields the tag does not carry.
	DefaultPlaceholder = view.DefaultPlaceholder

	// DefaultBatchSize is the number of inputs decoded at once by
	// "tagscan decode".
	DefaultBatchSize = 4
)

// Decode sources.
const (
	// SourceFrames scans camera frames from a capture directory.
	SourceFrames = "frames"

	// SourceLine reads one decoded text per line from stdin, for
	// keyboard-wedge scanners and pipes.
	SourceLine = "line"
)

// Config holds all tagscan options.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed through the application rather than kept global.
type Config struct {
	// Source selects the decode source: SourceFrames or SourceLine.
	Source string

	// Facing is the preferred camera, "environment" or "user".
	Facing string

	// ScanRate is the number of frames examined per second.
	ScanRate int

	// Region is the centred scan box.
	Region scanner.Region

	// Devices maps facing modes to frame capture directories.
	Devices map[string]string

	// Placeholder is shown for missing fields.
	Placeholder string

	// Continuous re-arms the scanner after each result instead of
	// waiting for a rescan.
	Continuous bool

	// Plain disables the terminal UI.
	Plain bool

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the decode concurrency for many inputs.
	BatchSize int

	// JSONReport and MarkdownReport select the result format.
	// They are mutually exclusive; plain text is the default.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile, when set, receives results instead of stdout.
	ReportFile string

	// ConfigFilePath is the config file given with -c.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Source:      SourceFrames,
		Facing:      DefaultFacing,
		ScanRate:    DefaultScanRate,
		Region:      scanner.Region{Width: DefaultRegionWidth, Height: DefaultRegionHeight},
		Devices:     make(map[string]string),
		Placeholder: DefaultPlaceholder,
		BatchSize:   DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for tagscan,
// e.g. ~/.config/tagscan on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultFrameDir returns the capture directory used for the rear camera
// when no device is configured, e.g. ~/.cache/tagscan/frames on Linux.
func DefaultFrameDir() string {
	return filepath.Join(xdg.CacheHome, AppName, "frames")
}

// LogFile returns the log file used while the terminal UI owns the screen,
// e.g. ~/.local/state/tagscan/tagscan.log on Linux.
func LogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Source != SourceFrames && c.Source != SourceLine {
		return fmt.Errorf("%w: %q", ErrInvalidSource, c.Source)
	}
	if !scanner.Facing(c.Facing).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFacing, c.Facing)
	}
	if c.ScanRate <= 0 {
		return ErrInvalidScanRate
	}
	if c.Region.Width <= 0 || c.Region.Height <= 0 {
		return ErrInvalidRegion
	}
	for facing := range c.Devices {
		if !scanner.Facing(facing).Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidDevice, facing)
		}
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// Constraints returns the camera constraints.
func (c *Config) Constraints() scanner.Constraints {
	return scanner.Constraints{Facing: scanner.Facing(c.Facing)}
}

// ScannerConfig returns the capture settings.
func (c *Config) ScannerConfig() scanner.Config {
	return scanner.Config{ScanRate: c.ScanRate, Region: c.Region}
}

// DeviceMap returns the frame directories by facing mode.
// Without any configured device the rear camera uses DefaultFrameDir.
func (c *Config) DeviceMap() map[scanner.Facing]string {
	devices := make(map[scanner.Facing]string, len(c.Devices)+1)
	for facing, dir := range c.Devices {
		if dir != "" {
			devices[scanner.Facing(facing)] = dir
		}
	}
	if len(devices) == 0 {
		devices[scanner.FacingEnvironment] = DefaultFrameDir()
	}
	return devices
}
