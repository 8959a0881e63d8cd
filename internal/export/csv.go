package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"RatingActionTracker/internal/domain"
)

// Header is the column order of the CSV export.
var Header = []string{"Date", "Agency", "Action", "Old Rating", "New Rating", "Title", "Link"}

// WriteCSV writes records as CSV with a header row. Undated records leave
// the Date column empty.
func WriteCSV(w io.Writer, records []domain.ClassifiedRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		date := ""
		if rec.Dated() {
			date = rec.PublishedAt.Format("2006-01-02")
		}
		row := []string{
			date,
			rec.Agency,
			string(rec.Action),
			domain.GradeString(rec.OldRating),
			domain.GradeString(rec.NewRating),
			rec.Title,
			rec.Link,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
