package main

import (
	"errors"
	"fmt"

	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/payload"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

// DefaultQRSize is the default PNG side in pixels.
const DefaultQRSize = 256

// errNoFields is returned by encode when no field is given.
var errNoFields = errors.New("no fields provided (set at least one of the field flags)")

// fieldFlags maps encode flags to public record fields.
var fieldFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"full-name", model.FieldFullName, "Full name"},
	{"address", model.FieldAddress, "Home address"},
	{"contact-name", model.FieldEmergencyContactName, "Emergency contact name"},
	{"contact-relation", model.FieldEmergencyContactRelation, "Emergency contact relation"},
	{"contact-address", model.FieldEmergencyContactAddress, "Emergency contact address"},
	{"contact-mobile", model.FieldEmergencyContactMobile, "Emergency contact mobile number"},
}

// NewEncodeCmd creates the encode command.
func NewEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Create a LifeTag QR code",
		Long: `Encode writes a LifeTag QR code for the given public fields, for testing
scanners and printing tags.

Values cannot contain quote characters, since tags use a single-quoted
encoding that readers convert to JSON.

Examples:
  # Write a PNG
  tagscan encode --full-name "Jane Doe" --contact-mobile 5551234 -o tag.png

  # Print the QR code in the terminal
  tagscan encode --full-name "Jane Doe" --text

  # Print the payload only
  tagscan encode --full-name "Jane Doe" --raw`,
		Args: cobra.NoArgs,
		RunE: runEncodeCmd,
	}

	for _, f := range fieldFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}

	cmd.Flags().StringP("output", "o", "lifetag.png",
		"PNG output file path")
	cmd.Flags().IntP("size", "S", DefaultQRSize,
		"PNG side in pixels")
	cmd.Flags().BoolP("text", "t", false,
		"Print the QR code as text instead of writing a PNG")
	cmd.Flags().BoolP("raw", "r", false,
		"Print the payload instead of a QR code")

	return cmd
}

// encodeOptions holds the encode command settings.
type encodeOptions struct {
	fields map[string]string
	output string
	size   int
	text   bool
	raw    bool
}

// runEncodeCmd executes the encode command.
func runEncodeCmd(cmd *cobra.Command, _ []string) error {
	opts := encodeOptions{fields: make(map[string]string, len(fieldFlags))}

	for _, f := range fieldFlags {
		value, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return err
		}
		if value != "" {
			opts.fields[f.field] = value
		}
	}

	var err error
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if opts.size, err = cmd.Flags().GetInt("size"); err != nil {
		return err
	}
	if opts.text, err = cmd.Flags().GetBool("text"); err != nil {
		return err
	}
	if opts.raw, err = cmd.Flags().GetBool("raw"); err != nil {
		return err
	}

	out, err := runEncode(opts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// runEncode encodes the fields and returns what to print.
func runEncode(opts encodeOptions) (string, error) {
	if len(opts.fields) == 0 {
		return "", errNoFields
	}

	text, err := payload.Format(opts.fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}
	if opts.raw {
		return text + "\n", nil
	}

	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	if opts.text {
		return q.ToSmallString(false), nil
	}

	if opts.size <= 0 {
		return "", fmt.Errorf("invalid size %d: must be positive", opts.size)
	}
	png, err := q.PNG(opts.size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	if err := writeFile(opts.output, png); err != nil {
		return "", fmt.Errorf("failed to write QR code: %w", err)
	}

	return fmt.Sprintf("Created LifeTag QR code: %s\n", opts.output), nil
}
