package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tagscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagscan",
		Short: "Read LifeTag emergency QR codes",
		Long: `tagscan reads LifeTag QR codes and shows the public emergency information
they carry: full name, address, and the emergency contact's name, relation,
address and mobile number, with a tel: link to call the contact.

Tags that cannot be read are reported and the scanner is re-armed.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewDecodeCmd())
	cmd.AddCommand(NewEncodeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
