package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var healthJSON bool

// errUnhealthy makes the command exit non-zero.
var errUnhealthy = errors.New("one or more components are unhealthy")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the store and embedding provider",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	report := healthService.Check(cmd.Context())

	if healthJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Printf("Status: %s\n", report.Status)
		for _, name := range slices.Sorted(maps.Keys(report.Components)) {
			c := report.Components[name]
			line := fmt.Sprintf("  %-14s %s", name, c.Status)
			if c.ResponseTime > 0 {
				line += fmt.Sprintf(" (%s)", c.ResponseTime)
			}
			if c.Error != "" {
				line += ": " + c.Error
			}
			cmd.Println(line)
		}
	}

	if !report.Healthy() {
		return errUnhealthy
	}
	return nil
}
