package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/dates"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/ports"
)

// TrackerDeps wires all driven adapters into the tracker.
type TrackerDeps struct {
	Source       ports.RecordSource
	Repository   ports.ActionRepository
	Notifier     ports.Notifier
	Classifier   *classifier.Classifier
	DigestMarker classifier.Marker
	Logger       *slog.Logger
	Location     *time.Location
	Now          func() time.Time
}

// Snapshot is the outcome of one refresh.
type Snapshot struct {
	RunID     string
	FetchedAt time.Time
	Records   []domain.ClassifiedRecord
	// Fresh holds the records that were not seen by earlier refreshes.
	Fresh int
}

// Tracker fetches press releases, classifies them and keeps the latest
// snapshot for the dashboard.
type Tracker struct {
	source       ports.RecordSource
	repository   ports.ActionRepository
	notifier     ports.Notifier
	classifier   *classifier.Classifier
	digestMarker classifier.Marker
	logger       *slog.Logger
	location     *time.Location
	now          func() time.Time

	refreshMu sync.Mutex
	mu        sync.RWMutex
	snapshot  Snapshot
	stale     bool
	seen      map[string]bool
}

// NewTracker constructs the orchestration component.
func NewTracker(deps TrackerDeps) *Tracker {
	t := &Tracker{
		source:       deps.Source,
		repository:   deps.Repository,
		notifier:     deps.Notifier,
		classifier:   deps.Classifier,
		digestMarker: deps.DigestMarker,
		logger:       deps.Logger,
		location:     deps.Location,
		now:          deps.Now,
		seen:         map[string]bool{},
	}
	if t.classifier == nil {
		t.classifier = classifier.New(t.logger)
	}
	if t.digestMarker == nil {
		t.digestMarker = classifier.HTMLMarker{}
	}
	if t.location == nil {
		t.location = time.UTC
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// Refresh fetches every agency, classifies the records and replaces the
// snapshot. Only a fetch failure leaves the previous snapshot in place; dedup,
// persistence and notification failures are returned after the snapshot has
// been updated.
func (t *Tracker) Refresh(ctx context.Context) (Snapshot, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	return t.refresh(ctx)
}

func (t *Tracker) refresh(ctx context.Context) (Snapshot, error) {
	if t.source == nil {
		return Snapshot{}, fmt.Errorf("record source is not configured")
	}

	runID := uuid.NewString()
	log := t.log().With("run_id", runID)

	raw, err := t.source.Fetch(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch records: %w", err)
	}

	records := make([]domain.ClassifiedRecord, 0, len(raw))
	for _, r := range raw {
		rec := t.classifier.Record(r)
		if published, ok := dates.Parse(r.DateText); ok {
			rec.PublishedAt = published.In(t.location)
		} else if r.DateText != "" {
			log.Debug("unparsed date", "agency", r.Agency, "date_text", r.DateText)
		}
		records = append(records, rec)
	}
	sortNewestFirst(records)

	snap := Snapshot{RunID: runID, FetchedAt: t.now(), Records: records}
	t.mu.Lock()
	t.snapshot = snap
	t.stale = false
	t.mu.Unlock()

	fresh, err := t.freshRecords(ctx, records)
	if err != nil {
		return snap, err
	}
	snap.Fresh = len(fresh)
	t.mu.Lock()
	t.snapshot.Fresh = snap.Fresh
	t.mu.Unlock()

	log.Info("refresh done", "records", len(records), "fresh", len(fresh))

	if err := t.persist(ctx, records, runID); err != nil {
		return snap, err
	}
	if err := t.notify(ctx, fresh); err != nil {
		return snap, fmt.Errorf("publish digest: %w", err)
	}

	return snap, nil
}

// Cached returns the last snapshot while it is younger than ttl and refreshes
// otherwise.
func (t *Tracker) Cached(ctx context.Context, ttl time.Duration) (Snapshot, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	t.mu.RLock()
	snap, stale := t.snapshot, t.stale
	t.mu.RUnlock()

	if !stale && !snap.FetchedAt.IsZero() && t.now().Sub(snap.FetchedAt) < ttl {
		return snap, nil
	}
	return t.refresh(ctx)
}

// Invalidate marks the snapshot stale so the next Cached call refreshes. The
// records stay readable through Latest until a refresh succeeds.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	t.stale = true
	t.mu.Unlock()
}

// Latest returns the last snapshot filtered by f.
func (t *Tracker) Latest(f domain.Filter) Snapshot {
	t.mu.RLock()
	snap := t.snapshot
	t.mu.RUnlock()

	snap.Records = f.Apply(snap.Records)
	return snap
}

// History reads persisted records; titles are re-annotated for display.
func (t *Tracker) History(ctx context.Context, f domain.Filter, limit int) ([]domain.ClassifiedRecord, error) {
	if t.repository == nil {
		return nil, nil
	}
	records, err := t.repository.List(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	for i := range records {
		records[i].AnnotatedTitle = classifier.Annotate(records[i].Title, records[i].Action)
	}
	return records, nil
}

// freshRecords returns the records no earlier refresh has seen.
func (t *Tracker) freshRecords(ctx context.Context, records []domain.ClassifiedRecord) ([]domain.ClassifiedRecord, error) {
	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = rec.Key()
	}

	known := map[string]bool{}
	if t.repository != nil {
		stored, err := t.repository.AlreadyStored(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("load stored: %w", err)
		}
		known = stored
	} else {
		t.mu.RLock()
		for _, k := range keys {
			if t.seen[k] {
				known[k] = true
			}
		}
		t.mu.RUnlock()
	}

	var fresh []domain.ClassifiedRecord
	for _, rec := range records {
		if known[rec.Key()] {
			continue
		}
		known[rec.Key()] = true
		fresh = append(fresh, rec)
	}

	if t.repository == nil {
		t.mu.Lock()
		for _, rec := range fresh {
			t.seen[rec.Key()] = true
		}
		t.mu.Unlock()
	}

	return fresh, nil
}

func (t *Tracker) persist(ctx context.Context, records []domain.ClassifiedRecord, runID string) error {
	if t.repository == nil {
		return nil
	}
	for _, rec := range records {
		if err := t.repository.Save(ctx, rec, runID); err != nil {
			return fmt.Errorf("persist record %s: %w", rec.Key(), err)
		}
	}
	return nil
}

func (t *Tracker) notify(ctx context.Context, fresh []domain.ClassifiedRecord) error {
	if t.notifier == nil {
		return nil
	}
	message := BuildDigest(fresh, t.digestMarker)
	if message == "" {
		return nil
	}
	return t.notifier.PublishDigest(ctx, message)
}

func (t *Tracker) log() *slog.Logger {
	if t.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return t.logger
}

// sortNewestFirst orders by publication date, undated records last, keeping
// feed order among equals.
func sortNewestFirst(records []domain.ClassifiedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Dated() != b.Dated() {
			return a.Dated()
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
}
