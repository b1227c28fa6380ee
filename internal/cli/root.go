package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apilog",
	Short: "Batch API log analytics",
	Long: `apilog analyzes a batch of structured API log records and produces a
statistical report: per-endpoint latency and error profiles, traffic
distribution, user activity ranking, performance-issue detection,
rate-limit-violation detection, and cost estimation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
