package main

import (
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var qrCmd = &cobra.Command{
	Use:   "qr <config file>",
	Short: "Display a generated client config as a QR code",
	Long: `Displays a generated WireGuard client config as a QR code in the
terminal. The WireGuard mobile apps can import a tunnel by scanning it,
which beats typing keys on a phone.

Example:
  lazywg qr example.com/ds9/wg0.conf`,
	Args: cobra.ExactArgs(1),
	RunE: runQR,
}

func runQR(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	qr, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return fmt.Errorf("generating QR code: %w", err)
	}

	fmt.Fprintln(os.Stderr, qr.ToSmallString(false))
	fmt.Fprintf(os.Stderr, "Config: %s\n", args[0])
	fmt.Fprintln(os.Stderr, "Scan this QR code with the WireGuard mobile app to import the tunnel.")

	return nil
}
