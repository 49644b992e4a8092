package config

import "github.com/lifetag/tagscan/internal/scanner"

// File represents the structure of the .tagscan configuration file.
type File struct {
	Scanner ScannerSection    `yaml:"scanner,omitempty"`
	Devices map[string]string `yaml:"devices,omitempty"`
	Display DisplaySection    `yaml:"display,omitempty"`
}

// ScannerSection configures the camera and decode source.
type ScannerSection struct {
	// Source is "frames" or "line".
	Source string `yaml:"source,omitempty"`

	// Facing is "environment" or "user".
	Facing string `yaml:"facing,omitempty"`

	// FPS is the scan rate.
	FPS int `yaml:"fps,omitempty"`

	// QRBox is the scan box.
	QRBox scanner.Region `yaml:"qrbox,omitempty"`

	// Continuous re-arms after each result.
	Continuous bool `yaml:"continuous,omitempty"`
}

// DisplaySection configures result output.
type DisplaySection struct {
	// Placeholder is shown for missing fields.
	Placeholder string `yaml:"placeholder,omitempty"`

	// Plain disables the terminal UI.
	Plain bool `yaml:"plain,omitempty"`
}

// Apply copies the values set in f over c. Zero values in f leave c
// unchanged.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}

	if f.Scanner.Source != "" {
		c.Source = f.Scanner.Source
	}
	if f.Scanner.Facing != "" {
		c.Facing = f.Scanner.Facing
	}
	if f.Scanner.FPS != 0 {
		c.ScanRate = f.Scanner.FPS
	}
	if f.Scanner.QRBox.Width != 0 {
		c.Region.Width = f.Scanner.QRBox.Width
	}
	if f.Scanner.QRBox.Height != 0 {
		c.Region.Height = f.Scanner.QRBox.Height
	}
	if f.Scanner.Continuous {
		c.Continuous = true
	}

	if len(f.Devices) > 0 {
		if c.Devices == nil {
			c.Devices = make(map[string]string, len(f.Devices))
		}
		for facing, dir := range f.Devices {
			c.Devices[facing] = dir
		}
	}

	if f.Display.Placeholder != "" {
		c.Placeholder = f.Display.Placeholder
	}
	if f.Display.Plain {
		c.Plain = true
	}
}
