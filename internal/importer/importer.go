// Package importer bulk-loads coupon definitions from gzipped JSON-lines
// files, locally or from S3, and creates any coupon not already stored.
package importer

import (
	"context"
	"fmt"
	"sync"

	"coupon-service/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads one definitions file.
type Loader interface {
	// Load reads a gzipped JSON-lines file. Lines that fail to parse or
	// validate are skipped.
	Load(ctx context.Context, path string) ([]model.CouponRequest, error)
}

// Creator stores an imported coupon unless its code is already taken.
type Creator interface {
	Import(ctx context.Context, req model.CouponRequest) (bool, error)
}

// Summary reports the outcome of an import run.
type Summary struct {
	Files      int
	Loaded     int
	Created    int
	Existing   int
	Duplicates int
}

// Importer loads definition files concurrently and creates coupons in file order.
type Importer struct {
	loader  Loader
	creator Creator
	logger  zerolog.Logger
}

// New creates an importer.
func New(loader Loader, creator Creator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		creator: creator,
		logger:  logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Run imports every file in paths. Any load failure aborts the run before
// anything is written.
func (i *Importer) Run(ctx context.Context, paths []string) (Summary, error) {
	summary := Summary{Files: len(paths)}
	if len(paths) == 0 {
		return summary, nil
	}

	i.logger.Info().Int("file_count", len(paths)).Msg("starting coupon import")

	batches, err := i.loadAll(ctx, paths)
	if err != nil {
		return summary, err
	}

	seen := newCodeSet(0)
	for fileIdx, batch := range batches {
		for _, req := range batch {
			summary.Loaded++

			if seen.Contains(req.CouponCode) {
				summary.Duplicates++
				i.logger.Debug().
					Str("coupon_code", req.CouponCode).
					Str("file", paths[fileIdx]).
					Msg("coupon code repeated in import, skipping")
				continue
			}
			seen.Add(req.CouponCode)

			created, err := i.creator.Import(ctx, req)
			if err != nil {
				i.logger.Error().Err(err).Str("coupon_code", req.CouponCode).Msg("failed to import coupon")
				return summary, fmt.Errorf("failed to import coupon %s: %w", req.CouponCode, err)
			}
			if created {
				summary.Created++
			} else {
				summary.Existing++
			}
		}
	}

	i.logger.Info().
		Int("files", summary.Files).
		Int("loaded", summary.Loaded).
		Int("created", summary.Created).
		Int("existing", summary.Existing).
		Int("duplicates", summary.Duplicates).
		Int("unique_codes", seen.Size()).
		Msg("coupon import finished")

	return summary, nil
}

func (i *Importer) loadAll(ctx context.Context, paths []string) ([][]model.CouponRequest, error) {
	type loadResult struct {
		index int
		defs  []model.CouponRequest
		err   error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			defs, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, defs: defs, err: err}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	batches := make([][]model.CouponRequest, len(paths))
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().Err(result.err).Str("file", paths[idx]).Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", paths[idx], result.err)
		}
		batches[idx] = result.defs
	}

	return batches, nil
}
