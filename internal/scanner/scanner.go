package scanner

import (
	"context"
	"fmt"
	"sort"

	"RatingActionTracker/internal/domain"
)

// DefaultLimit caps how many entries a scanner keeps per agency.
const DefaultLimit = 30

// Request carries all parameters required to scan one agency.
type Request struct {
	Agency  string
	URL     string
	Limit   int
	Options map[string]string
}

// EffectiveLimit returns Limit, or DefaultLimit when unset.
func (r Request) EffectiveLimit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// Option returns the named option or fallback when it is empty.
func (r Request) Option(name, fallback string) string {
	if v := r.Options[name]; v != "" {
		return v
	}
	return fallback
}

// Scanner captures a single strategy implementation (RSS feed, HTML page, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.RawRecord, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Names lists registered scanners in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
