package ingest

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/domain/dto"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
)

// RecordSource yields the normalized observations for one run. The live
// grid fetch and the captured-dump replay are the two implementations;
// everything downstream (dedup, batching, execution) is shared.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.PriceObservation, error)
}

// Fetcher is the slice of the pihps client the grid source needs.
type Fetcher interface {
	InitSession(ctx context.Context) error
	FetchCommodityGrid(ctx context.Context, externalID string, start, end time.Time) ([]dto.GridRow, error)
}

type sessionOutcome int

const (
	sessionOK sessionOutcome = iota
	sessionFallback
	sessionFatal
)

type GridOptions struct {
	// DaysBack is the length of the fetched window; LagDays shifts its end
	// before today to absorb the source's reporting lag.
	DaysBack int
	LagDays  int
	// Delay paces requests against the source.
	Delay time.Duration
	// Workers bounds parallel commodity fetches; 1 means sequential.
	Workers int
}

// GridSource fetches every known commodity's grid and extracts it.
type GridSource struct {
	fetcher   Fetcher
	resolver  *Resolver
	extractor *GridExtractor
	opts      GridOptions
}

func NewGridSource(fetcher Fetcher, resolver *Resolver, opts GridOptions) *GridSource {
	return &GridSource{
		fetcher:   fetcher,
		resolver:  resolver,
		extractor: NewGridExtractor(resolver),
		opts:      opts,
	}
}

// initSession probes the session handshake. A failed handshake is not
// fatal: the grid endpoint sometimes answers without cookies, so the run
// falls back to direct calls. Only cancellation stops the run here.
func (g *GridSource) initSession(ctx context.Context) sessionOutcome {
	err := g.fetcher.InitSession(ctx)
	if err == nil {
		return sessionOK
	}
	if ctx.Err() != nil {
		return sessionFatal
	}

	logger.Warnf(ctx, "session init failed, falling back to direct fetch: %s", err.Error())
	return sessionFallback
}

func (g *GridSource) Records(ctx context.Context) ([]domain.PriceObservation, error) {
	if g.initSession(ctx) == sessionFatal {
		return nil, ctx.Err()
	}

	end := time.Now().AddDate(0, 0, -g.opts.LagDays)
	start := end.AddDate(0, 0, -(g.opts.DaysBack - 1))
	logger.Infof(ctx, "fetching %d commodities, window %s .. %s",
		len(g.resolver.Commodities()), start.Format("2006-01-02"), end.Format("2006-01-02"))

	commodities := g.resolver.Commodities()
	results := make([][]domain.PriceObservation, len(commodities))

	workers := g.opts.Workers
	if workers < 1 {
		workers = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, commodity := range commodities {
		i, commodity := i, commodity
		eg.Go(func() error {
			rows, err := g.fetcher.FetchCommodityGrid(egCtx, commodity.ExternalID, start, end)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				// one commodity failing yields zero records, run continues
				logger.Errorf(egCtx, "fetch %s (%s): %s", commodity.Slug, commodity.ExternalID, err.Error())
				return nil
			}

			results[i] = g.extractor.Extract(egCtx, rows, commodity.Slug)
			logger.Infof(egCtx, "%s: %d rows -> %d observations", commodity.Slug, len(rows), len(results[i]))

			if i < len(commodities)-1 {
				select {
				case <-egCtx.Done():
					return egCtx.Err()
				case <-time.After(g.opts.Delay):
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var observations []domain.PriceObservation
	for _, part := range results {
		observations = append(observations, part...)
	}

	return observations, nil
}

// DumpSource replays a previously captured statement dump.
type DumpSource struct {
	extractor *DumpExtractor
	r         io.Reader
}

func NewDumpSource(resolver *Resolver, r io.Reader) *DumpSource {
	return &DumpSource{extractor: NewDumpExtractor(resolver), r: r}
}

func (d *DumpSource) Records(ctx context.Context) ([]domain.PriceObservation, error) {
	return d.extractor.Extract(ctx, d.r)
}
