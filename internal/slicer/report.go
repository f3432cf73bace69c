package slicer

import (
	"context"

	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/stats"
	"github.com/okian/territory/pkg/logger"
)

// logResult logs the segment split, the per-segment balance and, when
// verbose, every rep and facet.
func logResult(ctx context.Context, log logger.Logger, res *service.Result, verbose bool) {
	for _, s := range res.Segments {
		log.Info(ctx, "segment",
			logger.String("segment", string(s.Segment)),
			logger.Int("accounts", s.Accounts),
			logger.Float64("totalARR", s.TotalARR),
			logger.Float64("averageARR", s.AverageARR),
			logger.Float64("share", s.AccountShare))
	}

	for _, g := range res.Metrics.Segments {
		fields := []logger.Field{
			logger.String("segment", string(g.Segment)),
			logger.Int("reps", g.Reps),
			logger.Float64("locationMatchRate", g.LocationMatchRate),
		}
		facets := []stats.Facet{stats.FacetLoad}
		if verbose {
			facets = stats.Facets
		}
		for _, f := range facets {
			if b := g.Facets[f].Balance; b != nil {
				fields = append(fields, logger.Float64(string(f)+"Balance", *b))
			}
		}
		log.Info(ctx, "segment balance", fields...)
	}

	if !verbose {
		return
	}
	for _, r := range res.Reps {
		fields := []logger.Field{
			logger.String("rep", r.Name),
			logger.String("location", r.Location),
			logger.String("segment", string(r.Segment)),
			logger.Int("accounts", r.Accounts),
			logger.Float64("totalARR", r.TotalARR),
			logger.Float64("totalLoad", r.TotalLoad),
			logger.Int("locationMatches", r.LocationMatches),
		}
		if r.AverageARR != nil {
			fields = append(fields, logger.Float64("averageARR", *r.AverageARR))
		}
		log.Info(ctx, "rep", fields...)
	}
}
