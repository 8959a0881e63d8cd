package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html/charset"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/scanner"
)

// feed accepts RSS 2.0, RSS 1.0 (items at the root) and Atom documents.
type feed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Items   []rssItem   `xml:"item"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	DCDate      string `xml:"http://purl.org/dc/elements/1.1/ date"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

// RSSScanner reads an agency's press-release feed.
type RSSScanner struct {
	fetcher Fetcher
	logger  *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner wires a fetcher; log may be nil.
func NewRSSScanner(fetcher Fetcher, log *slog.Logger) *RSSScanner {
	return &RSSScanner{fetcher: fetcher, logger: log}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan downloads the feed and returns up to req.Limit entries in feed order.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no feed url provided for agency %s", req.Agency)
	}

	payload, err := s.fetcher.Get(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	records, err := parseFeed(payload, req.Agency)
	if err != nil {
		return nil, err
	}

	if limit := req.EffectiveLimit(); len(records) > limit {
		records = records[:limit]
	}
	s.debug("feed parsed", "agency", req.Agency, "entries", len(records))
	return records, nil
}

func parseFeed(payload []byte, agency string) ([]domain.RawRecord, error) {
	var doc feed
	dec := xml.NewDecoder(bytes.NewReader(payload))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := append(doc.Channel.Items, doc.Items...)
	records := make([]domain.RawRecord, 0, len(items)+len(doc.Entries))

	for _, item := range items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			link = strings.TrimSpace(item.GUID)
		}
		date := item.PubDate
		if strings.TrimSpace(date) == "" {
			date = item.DCDate
		}
		records = append(records, domain.RawRecord{
			Agency:   agency,
			Title:    collapse(item.Title),
			Summary:  plainText(item.Description),
			DateText: collapse(date),
			Link:     link,
		})
	}

	for _, entry := range doc.Entries {
		summary := entry.Summary
		if strings.TrimSpace(summary) == "" {
			summary = entry.Content
		}
		date := entry.Published
		if strings.TrimSpace(date) == "" {
			date = entry.Updated
		}
		records = append(records, domain.RawRecord{
			Agency:   agency,
			Title:    collapse(entry.Title),
			Summary:  plainText(summary),
			DateText: collapse(date),
			Link:     entryLink(entry.Links),
		})
	}

	return records, nil
}

func entryLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "" || l.Rel == "alternate" {
			return strings.TrimSpace(l.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}

func (s *RSSScanner) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
