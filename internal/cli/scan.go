package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube/internal/ble"
)

const scanWindow = 5 * time.Second

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for GoCube devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, results, err := scanForGoCube(cmd.Context())
		if err != nil {
			return err
		}
		printScanResults(results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// scanForGoCube performs a single scan window, which is enough for the
// cube to show up once it is awake.
func scanForGoCube(ctx context.Context) (*ble.Client, []ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := ble.NewClient()
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, scanWindow)
	defer cancel()

	results, err := client.Scan(ctx, scanWindow)
	if err != nil {
		return client, nil, err
	}
	return client, results, nil
}

// scanForGoCubeWithRetry repeats the scan up to maxAttempts times.
func scanForGoCubeWithRetry(ctx context.Context, maxAttempts int) (*ble.Client, []ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := ble.NewClient()
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		scanCtx, cancel := context.WithTimeout(ctx, scanWindow)
		results, err := client.Scan(scanCtx, scanWindow)
		cancel()

		switch {
		case ctx.Err() != nil:
			return client, nil, ctx.Err()
		case err != nil:
			fmt.Printf("Scan %d failed: %v\n", attempt, err)
		case len(results) > 0:
			fmt.Printf("Found: %s\n", results[0].Name)
			return client, results, nil
		case attempt < maxAttempts:
			fmt.Printf("Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	return client, nil, nil
}

func printScanResults(results []ble.ScanResult) {
	if len(results) == 0 {
		fmt.Println("No GoCube devices found")
		fmt.Println()
		fmt.Println("Tips:")
		fmt.Println("  - Ensure your GoCube is powered on")
		fmt.Println("  - Move the cube to wake it up")
		fmt.Println("  - Check that Bluetooth is enabled")
		return
	}
	fmt.Printf("Found %d device(s):\n", len(results))
	for _, r := range results {
		fmt.Printf("  - %s (UUID: %s, RSSI: %d)\n", r.Name, r.UUID, r.RSSI)
	}
}
