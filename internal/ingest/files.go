package ingest

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"testtrail/pkg/logging"
)

// ProcessFiles processes every file on its own stream, concurrently. At most
// limit files are open at once; limit <= 0 means no limit. The first error
// cancels the remaining files.
func ProcessFiles(ctx context.Context, paths []string, factory Factory, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, path := range paths {
		g.Go(func() error {
			return processFile(ctx, path, factory)
		})
	}
	return g.Wait()
}

func processFile(ctx context.Context, path string, factory Factory) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open event stream %s: %w", path, err)
	}
	defer f.Close()

	stream := NewStream(factory)
	if err := stream.Process(ctx, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logging.Info(subsystem, "processed %s (%d runs)", path, len(stream.Runs()))
	return nil
}
