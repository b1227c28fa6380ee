package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"apilog-analytics/internal/analyzers"
	"apilog-analytics/internal/models"
	"apilog-analytics/internal/shared/configs"
	"apilog-analytics/internal/shared/loggers"
	"apilog-analytics/internal/sources"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	filePath   string
	logGroup   string
	startTime  string
	endTime    string
	profile    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of API log records",
	Long: `Analyze reads raw log records from a local JSON file or from an AWS
CloudWatch Logs log group and prints the analytics report as JSON.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&configPath, "config", "./configs/configs.yml", "Path to the configuration file")
	analyzeCmd.Flags().StringVar(&filePath, "file", "", "Path to a JSON file holding an array of log records")
	analyzeCmd.Flags().StringVar(&logGroup, "log-group", "", "CloudWatch Logs log group name")
	analyzeCmd.Flags().StringVar(&startTime, "start", "", "Start of the CloudWatch time range (UTC, format: 2006-01-02T15:04:05Z)")
	analyzeCmd.Flags().StringVar(&endTime, "end", "", "End of the CloudWatch time range (UTC, format: 2006-01-02T15:04:05Z)")
	analyzeCmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (optional)")

	analyzeCmd.MarkFlagsMutuallyExclusive("file", "log-group")
	analyzeCmd.MarkFlagsOneRequired("file", "log-group")
	analyzeCmd.MarkFlagsRequiredTogether("log-group", "start", "end")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Optional .env for AWS credentials/region; absence is fine.
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := loggers.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With().Str(loggers.FieldComponent, "cli").Logger()
	ctx := logger.WithContext(context.Background())

	analysisService, err := analyzers.NewAnalysisServiceFromConfig(cfg)
	if err != nil {
		return err
	}

	raw, err := fetchRecords(ctx)
	if err != nil {
		return err
	}

	report, svcErr := analysisService.Analyze(ctx, raw)
	if svcErr != nil {
		return svcErr
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func fetchRecords(ctx context.Context) ([]analyzers.RawRecord, error) {
	if filePath != "" {
		return sources.NewFileSource(filePath).Fetch(ctx)
	}

	start, err := time.Parse(models.TimestampLayout, startTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}
	end, err := time.Parse(models.TimestampLayout, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end time: %w", err)
	}

	source, err := sources.NewCloudWatchSource(ctx, profile)
	if err != nil {
		return nil, err
	}

	result, err := source.Fetch(ctx, logGroup, start, end)
	if err != nil {
		return nil, err
	}
	if result.Malformed > 0 {
		loggers.Ctx(ctx).Warn().
			Str(loggers.FieldLogGroup, logGroup).
			Int("malformed_count", result.Malformed).
			Msg("skipped malformed log events")
	}
	return result.Records, nil
}
