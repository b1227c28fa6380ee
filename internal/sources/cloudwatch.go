package sources

import (
	"context"
	"fmt"
	"time"

	"apilog-analytics/internal/analyzers"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/bytedance/sonic"
)

// CloudWatchLogsAPI defines the interface for CloudWatch Logs operations.
type CloudWatchLogsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// CloudWatchSource fetches raw log records from a CloudWatch Logs log group.
// Each log event message is expected to be one JSON log object.
type CloudWatchSource struct {
	api CloudWatchLogsAPI
}

// NewCloudWatchSource creates a source backed by the default AWS configuration,
// optionally using a named shared-config profile.
func NewCloudWatchSource(ctx context.Context, profile string) (*CloudWatchSource, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	} else {
		cfg, err = config.LoadDefaultConfig(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &CloudWatchSource{api: cloudwatchlogs.NewFromConfig(cfg)}, nil
}

// NewCloudWatchSourceWithAPI creates a source with a custom API implementation.
// This is primarily used for testing.
func NewCloudWatchSourceWithAPI(api CloudWatchLogsAPI) *CloudWatchSource {
	return &CloudWatchSource{api: api}
}

// FetchResult carries the decoded records plus the count of event messages
// that were not valid JSON objects (skipped, never fatal).
type FetchResult struct {
	Records   []analyzers.RawRecord
	Malformed int
}

// Fetch retrieves all log events in the time range, following pagination, and
// decodes each event message into one raw record.
func (s *CloudWatchSource) Fetch(ctx context.Context, logGroup string, start, end time.Time) (*FetchResult, error) {
	result := &FetchResult{}
	var nextToken *string

	for {
		input := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: &logGroup,
			StartTime:    aws.Int64(start.UnixMilli()),
			EndTime:      aws.Int64(end.UnixMilli()),
			NextToken:    nextToken,
		}

		output, err := s.api.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to filter log events for group %q: %w", logGroup, err)
		}

		for _, event := range output.Events {
			if event.Message == nil {
				result.Malformed++
				continue
			}
			var record analyzers.RawRecord
			if err := sonic.Unmarshal([]byte(*event.Message), &record); err != nil {
				result.Malformed++
				continue
			}
			result.Records = append(result.Records, record)
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return result, nil
}
