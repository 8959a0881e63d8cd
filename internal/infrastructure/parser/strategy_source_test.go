package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"RatingActionTracker/internal/config"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/scanner"
)

type fakeScanner struct {
	name    string
	records map[string][]domain.RawRecord
}

func (f fakeScanner) Name() string { return f.name }

func (f fakeScanner) Scan(_ context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	recs, ok := f.records[req.URL]
	if !ok {
		return nil, errors.New("boom")
	}
	return recs, nil
}

func TestStrategySourceSkipsFailingAgencies(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(fakeScanner{name: "rss", records: map[string][]domain.RawRecord{
		"https://crisil.example/rss": {{Title: "CRISIL downgrades XYZ from BBB to BB"}},
	}})

	src := NewStrategySource(reg, []config.AgencyConfig{
		{Name: "CRISIL", Scanner: "rss", URL: "https://crisil.example/rss"},
		{Name: "CARE", Scanner: "rss", URL: "https://care.example/rss"},
		{Name: "ICRA", Scanner: "html", URL: "https://icra.example", Disabled: true},
	}, nil)

	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Agency != "CRISIL" {
		t.Fatalf("agency not stamped: %q", records[0].Agency)
	}
}

func TestStrategySourceAllFailed(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(fakeScanner{name: "rss"})

	src := NewStrategySource(reg, []config.AgencyConfig{
		{Name: "CARE", Scanner: "rss", URL: "https://care.example/rss"},
		{Name: "IND", Scanner: "json", URL: "https://ind.example"},
	}, nil)

	_, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatalf("expected error when every agency fails")
	}
	if !strings.Contains(err.Error(), "scanner json is not registered") {
		t.Fatalf("joined error lost detail: %v", err)
	}
}

func TestStrategySourceWithoutRegistry(t *testing.T) {
	t.Parallel()

	if _, err := NewStrategySource(nil, nil, nil).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error without registry")
	}
}
