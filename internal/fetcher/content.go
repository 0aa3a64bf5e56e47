// Package fetcher retrieves the raw text of selected tree entries.
package fetcher

import (
	"context"
	"sync/atomic"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/utils"
)

// ProgressFunc is called after each completed file with the running count
type ProgressFunc func(done, total int)

// ContentFetcher downloads file contents concurrently, all or nothing
type ContentFetcher struct {
	source   domain.ContentSource
	workers  int
	retrier  *Retrier
	progress ProgressFunc
	logger   *utils.Logger
}

// Options contains options for creating a ContentFetcher
type Options struct {
	// Workers caps concurrent requests; <= 0 fetches every file at once
	Workers  int
	Retrier  *Retrier
	Progress ProgressFunc
	Logger   *utils.Logger
}

// NewContentFetcher creates a ContentFetcher reading through source
func NewContentFetcher(source domain.ContentSource, opts Options) *ContentFetcher {
	retrier := opts.Retrier
	if retrier == nil {
		retrier = NewRetrier(DefaultRetrierOptions())
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.Nop()
	}

	return &ContentFetcher{
		source:   source,
		workers:  opts.Workers,
		retrier:  retrier,
		progress: opts.Progress,
		logger:   logger.WithComponent("fetcher"),
	}
}

// FetchContents retrieves every file and returns them in input order.
// The first failure aborts the batch and no partial result is returned.
func (f *ContentFetcher) FetchContents(ctx context.Context, files []domain.TreeEntry) ([]domain.FetchedFile, error) {
	total := len(files)
	var done int32

	f.logger.Debug().Int("files", total).Int("workers", f.workers).Msg("Fetching contents")

	results, err := utils.MapOrdered(ctx, files, f.workers, func(ctx context.Context, entry domain.TreeEntry) (domain.FetchedFile, error) {
		text, err := RetryWithValue(ctx, f.retrier, func() (string, error) {
			return f.source.FetchRaw(ctx, entry.URL)
		})
		if err != nil {
			f.logger.Debug().Err(err).Str("path", entry.Path).Msg("Fetch failed")
			return domain.FetchedFile{}, err
		}

		if f.progress != nil {
			f.progress(int(atomic.AddInt32(&done, 1)), total)
		}
		return domain.FetchedFile{Path: entry.Path, URL: entry.URL, Text: text}, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
