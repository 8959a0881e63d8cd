package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/scanner"
)

// Selector option keys understood by HTMLScanner.
const (
	OptItem    = "item"
	OptTitle   = "title"
	OptSummary = "summary"
	OptDate    = "date"
	OptLink    = "link"
)

// HTMLScanner extracts press releases from an agency listing page using CSS
// selectors supplied per agency in config.
type HTMLScanner struct {
	fetcher Fetcher
	logger  *slog.Logger
}

var _ scanner.Scanner = (*HTMLScanner)(nil)

// NewHTMLScanner wires a fetcher; log may be nil.
func NewHTMLScanner(fetcher Fetcher, log *slog.Logger) *HTMLScanner {
	return &HTMLScanner{fetcher: fetcher, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches the listing page and parses one record per item selector match.
func (s *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no page url provided for agency %s", req.Agency)
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %s: %w", req.URL, err)
	}

	payload, err := s.fetcher.Get(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	records := extractRecords(doc, base, req)
	s.debug("page parsed", "agency", req.Agency, "entries", len(records))
	return records, nil
}

func extractRecords(doc *goquery.Document, base *url.URL, req scanner.Request) []domain.RawRecord {
	var (
		limit   = req.EffectiveLimit()
		records []domain.RawRecord
	)

	doc.Find(req.Option(OptItem, "article")).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		rec, ok := parseItem(item, base, req)
		if ok {
			records = append(records, rec)
		}
		return len(records) < limit
	})

	return records
}

func parseItem(item *goquery.Selection, base *url.URL, req scanner.Request) (domain.RawRecord, bool) {
	titleSel := req.Option(OptTitle, "a")
	title := collapse(item.Find(titleSel).First().Text())
	if title == "" {
		return domain.RawRecord{}, false
	}

	var summary string
	if sel := req.Options[OptSummary]; sel != "" {
		summary = collapse(item.Find(sel).First().Text())
	}

	var dateText string
	if sel := req.Options[OptDate]; sel != "" {
		dateText = collapse(item.Find(sel).First().Text())
	}

	link := item.Find(req.Option(OptLink, "a[href]")).First()
	href, _ := link.Attr("href")
	if href == "" {
		href, _ = item.Find(titleSel).First().Attr("href")
	}

	return domain.RawRecord{
		Agency:   req.Agency,
		Title:    title,
		Summary:  summary,
		DateText: dateText,
		Link:     resolveLink(base, href),
	}, true
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (s *HTMLScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
