package sources

import (
	"context"
	"fmt"
	"os"

	"apilog-analytics/internal/analyzers"

	"github.com/bytedance/sonic"
)

// FileSource reads raw log records from a local JSON file holding an array of
// log objects.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch decodes the whole file into raw records. The batch is finite and fully
// materialized before analysis begins.
func (s *FileSource) Fetch(ctx context.Context) ([]analyzers.RawRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file %q: %w", s.path, err)
	}

	var records []analyzers.RawRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode log file %q: %w", s.path, err)
	}

	return records, nil
}
