package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"RatingActionTracker/internal/config"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/ports"
	"RatingActionTracker/internal/scanner"
)

// StrategySource implements RecordSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	agencies []config.AgencyConfig
	logger   *slog.Logger
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined agencies.
func NewStrategySource(reg *scanner.Registry, agencies []config.AgencyConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		agencies: agencies,
		logger:   log,
	}
}

// Fetch runs every enabled agency's scanner. A failing agency is logged and
// skipped; an error is returned only when no agency succeeded.
func (s *StrategySource) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	var (
		aggregated []domain.RawRecord
		failures   []error
		attempted  int
	)

	for _, agency := range s.agencies {
		if agency.Disabled {
			s.debug("skip disabled agency", "agency", agency.Name)
			continue
		}
		attempted++

		results, err := s.scanAgency(ctx, agency)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.warn("agency fetch failed", "agency", agency.Name, "error", err)
			failures = append(failures, err)
			continue
		}

		s.debug("agency produced records", "agency", agency.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	if attempted > 0 && len(failures) == attempted {
		return nil, fmt.Errorf("all agencies failed: %w", errors.Join(failures...))
	}

	s.debug("strategy source done", "total_records", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) scanAgency(ctx context.Context, agency config.AgencyConfig) ([]domain.RawRecord, error) {
	strategy, err := s.registry.Resolve(agency.Scanner)
	if err != nil {
		return nil, fmt.Errorf("agency %s: %w", agency.Name, err)
	}

	results, err := strategy.Scan(ctx, scanner.Request{
		Agency:  agency.Name,
		URL:     agency.URL,
		Limit:   agency.Limit,
		Options: agency.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("scan agency %s: %w", agency.Name, err)
	}

	for i := range results {
		if results[i].Agency == "" {
			results[i].Agency = agency.Name
		}
	}
	return results, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
