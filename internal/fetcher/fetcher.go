// Package fetcher reads every row matching a predicate from a store that
// caps each range request, walking the table in sequential batches.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thirumala/cashbook/internal/models"
	"github.com/thirumala/cashbook/internal/query"
)

// MaxRowsPerRequest is the hard cap the backend applies to one range request.
const MaxRowsPerRequest = 1000

const (
	DefaultBatchSize   = MaxRowsPerRequest
	DefaultMaxFailures = 10
)

// ErrCount wraps a failed count query; nothing is fetched in that case.
var ErrCount = errors.New("count query failed")

// Source is the read capability of the ledger store.
type Source interface {
	// Count returns the number of rows matching p.
	Count(ctx context.Context, p query.Predicate) (int, error)
	// Range returns rows [from, to] (inclusive) of the ordered result.
	Range(ctx context.Context, p query.Predicate, order []query.Order, from, to int) ([]models.LedgerRow, error)
}

type Options struct {
	BatchSize   int
	MaxFailures int
	BatchDelay  time.Duration
}

// Result of one FetchAll call.
type Result struct {
	Rows     []models.LedgerRow
	Total    int
	Batches  int
	Failures int
	// Partial is set when the loop stopped early, on too many failed
	// batches or on cancellation.
	Partial bool
	// Incomplete is set when the rows gathered differ from Total.
	Incomplete bool
}

// Warning returns a caveat for callers to show next to the data, or "".
func (r *Result) Warning() string {
	switch {
	case r.Partial:
		return fmt.Sprintf("partial result: fetched %d of %d rows after %d failed batches", len(r.Rows), r.Total, r.Failures)
	case r.Incomplete:
		return fmt.Sprintf("possibly incomplete: fetched %d of %d rows", len(r.Rows), r.Total)
	}
	return ""
}

type Fetcher struct {
	source      Source
	logger      logrus.FieldLogger
	batchSize   int
	maxFailures int
	batchDelay  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func New(source Source, logger logrus.FieldLogger, opts Options) *Fetcher {
	batchSize := opts.BatchSize
	if batchSize <= 0 || batchSize > MaxRowsPerRequest {
		batchSize = DefaultBatchSize
	}
	maxFailures := opts.MaxFailures
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	delay := opts.BatchDelay
	if delay < 0 {
		delay = 0
	}
	return &Fetcher{
		source:      source,
		logger:      logger,
		batchSize:   batchSize,
		maxFailures: maxFailures,
		batchDelay:  delay,
		sleep:       sleepCtx,
	}
}

// BatchSize is the effective rows-per-request after clamping to the cap.
func (f *Fetcher) BatchSize() int {
	return f.batchSize
}

// FetchAll returns every row matching p in the given order. The only errors
// returned are a failed count query and context cancellation; batch
// failures are logged and skipped, and reported through Result.
func (f *Fetcher) FetchAll(ctx context.Context, p query.Predicate, order []query.Order) (*Result, error) {
	if len(order) == 0 {
		order = query.DefaultOrder
	}
	log := f.logger.WithField("predicate", p.Signature())

	total, err := f.source.Count(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCount, err)
	}

	res := &Result{Total: total}
	if total == 0 {
		return res, nil
	}
	res.Rows = make([]models.LedgerRow, 0, total)

	for offset, batch := 0, 0; ; offset, batch = offset+f.batchSize, batch+1 {
		if err := ctx.Err(); err != nil {
			res.Partial = true
			f.finish(log, res)
			return res, err
		}
		if batch > 0 && f.batchDelay > 0 {
			if err := f.sleep(ctx, f.batchDelay); err != nil {
				res.Partial = true
				f.finish(log, res)
				return res, err
			}
		}

		res.Batches++
		rows, err := f.source.Range(ctx, p, order, offset, offset+f.batchSize-1)
		if err != nil {
			res.Failures++
			log.WithFields(logrus.Fields{
				"offset":   offset,
				"batch":    batch,
				"failures": res.Failures,
			}).WithError(err).Error("batch fetch failed, skipping")

			if res.Failures > f.maxFailures {
				res.Partial = true
				log.WithField("failures", res.Failures).Error("too many failed batches, aborting fetch")
				break
			}
			// A failed batch may sit at the end of the counted range.
			if offset+f.batchSize >= total {
				break
			}
			continue
		}

		res.Rows = append(res.Rows, rows...)
		if len(rows) < f.batchSize || len(res.Rows) >= total {
			break
		}
	}

	f.finish(log, res)
	return res, nil
}

func (f *Fetcher) finish(log logrus.FieldLogger, res *Result) {
	res.Incomplete = len(res.Rows) != res.Total
	if res.Incomplete {
		log.WithFields(logrus.Fields{
			"expected": res.Total,
			"fetched":  len(res.Rows),
			"batches":  res.Batches,
			"failures": res.Failures,
			"partial":  res.Partial,
		}).Warn("fetched row count does not match count query")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
