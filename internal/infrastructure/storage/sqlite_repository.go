package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/ports"
	"RatingActionTracker/internal/rating"
)

const table = "rating_actions"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SQLiteRepository persists classified records into SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.ActionRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository wires a sql.DB implementation.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// AlreadyStored returns the subset of keys that already exist in storage.
func (r *SQLiteRepository) AlreadyStored(ctx context.Context, keys []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(keys) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("record_key").From(table).Where(sq.Eq{"record_key": keys}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		result[key] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// Save upserts the classified record snapshot.
func (r *SQLiteRepository) Save(ctx context.Context, rec domain.ClassifiedRecord, runID string) error {
	if r.db == nil {
		return nil
	}

	now := r.now().UTC().Format(time.RFC3339)
	query, args, err := psql.Insert(table).
		Columns("record_key", "agency", "title", "summary", "date_text", "link",
			"published_at", "action", "old_rating", "new_rating", "evidence",
			"run_id", "created_at", "updated_at").
		Values(rec.Key(), rec.Agency, rec.Title, rec.Summary, rec.DateText, rec.Link,
			nullTime(rec.PublishedAt), string(rec.Action), nullGrade(rec.OldRating), nullGrade(rec.NewRating),
			string(rec.Evidence), runID, now, now).
		Suffix(`ON CONFLICT (record_key) DO UPDATE
			SET action = excluded.action,
				old_rating = excluded.old_rating,
				new_rating = excluded.new_rating,
				evidence = excluded.evidence,
				published_at = excluded.published_at,
				run_id = excluded.run_id,
				updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}

// List returns stored records, newest first. limit <= 0 means no limit.
func (r *SQLiteRepository) List(ctx context.Context, filter domain.Filter, limit int) ([]domain.ClassifiedRecord, error) {
	if r.db == nil {
		return nil, nil
	}

	builder := psql.Select("agency", "title", "summary", "date_text", "link",
		"published_at", "action", "old_rating", "new_rating", "evidence").
		From(table).
		OrderBy("published_at IS NULL", "published_at DESC", "created_at DESC")

	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": string(filter.Action)})
	}
	if filter.Agency != "" {
		builder = builder.Where("agency = ? COLLATE NOCASE", filter.Agency)
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []domain.ClassifiedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (domain.ClassifiedRecord, error) {
	var (
		rec                  domain.ClassifiedRecord
		action, evidence     string
		published            sql.NullString
		oldRating, newRating sql.NullString
	)

	err := rows.Scan(&rec.Agency, &rec.Title, &rec.Summary, &rec.DateText, &rec.Link,
		&published, &action, &oldRating, &newRating, &evidence)
	if err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}

	rec.Action = domain.Verdict(action)
	rec.Evidence = domain.Evidence(evidence)
	rec.OldRating = gradeFrom(oldRating)
	rec.NewRating = gradeFrom(newRating)
	if published.Valid {
		if t, err := time.Parse(time.RFC3339, published.String); err == nil {
			rec.PublishedAt = t
		}
	}

	return rec, nil
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func nullGrade(g *rating.Grade) sql.NullString {
	if g == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*g), Valid: true}
}

func gradeFrom(s sql.NullString) *rating.Grade {
	if !s.Valid || !rating.Grade(s.String).Valid() {
		return nil
	}
	g := rating.Grade(s.String)
	return &g
}
