package api

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"RatingActionTracker/internal/classifier"
	"RatingActionTracker/internal/domain"
	"RatingActionTracker/internal/export"
	"RatingActionTracker/internal/usecase"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	tracker    *usecase.Tracker
	classifier *classifier.Classifier
	cacheTTL   time.Duration
}

type actionDTO struct {
	Date           string `json:"date,omitempty"`
	Agency         string `json:"agency"`
	Action         string `json:"action"`
	OldRating      string `json:"old_rating,omitempty"`
	NewRating      string `json:"new_rating,omitempty"`
	Evidence       string `json:"evidence"`
	Title          string `json:"title"`
	AnnotatedTitle string `json:"annotated_title"`
	Link           string `json:"link,omitempty"`
}

type listResponse struct {
	RunID     string      `json:"run_id,omitempty"`
	FetchedAt *time.Time  `json:"fetched_at,omitempty"`
	Count     int         `json:"count"`
	Actions   []actionDTO `json:"actions"`
}

type classifyRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type classifyResponse struct {
	Verdict        string `json:"verdict"`
	OldRating      string `json:"old_rating,omitempty"`
	NewRating      string `json:"new_rating,omitempty"`
	Evidence       string `json:"evidence"`
	Conflicting    bool   `json:"conflicting"`
	AnnotatedTitle string `json:"annotated_title"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func filterFrom(r *http.Request) domain.Filter {
	q := r.URL.Query()
	return domain.ParseFilter(q.Get("action"), q.Get("agency"))
}

func toDTO(rec domain.ClassifiedRecord) actionDTO {
	dto := actionDTO{
		Agency:         rec.Agency,
		Action:         string(rec.Action),
		OldRating:      domain.GradeString(rec.OldRating),
		NewRating:      domain.GradeString(rec.NewRating),
		Evidence:       string(rec.Evidence),
		Title:          rec.Title,
		AnnotatedTitle: rec.AnnotatedTitle,
		Link:           rec.Link,
	}
	if rec.Dated() {
		dto.Date = rec.PublishedAt.Format("2006-01-02")
	}
	return dto
}

func toDTOs(records []domain.ClassifiedRecord) []actionDTO {
	out := make([]actionDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toDTO(rec))
	}
	return out
}

// snapshot returns the cached snapshot filtered by the request query. A
// failed refresh still serves whatever was cached before.
func (h *Handlers) snapshot(r *http.Request) (usecase.Snapshot, error) {
	f := filterFrom(r)
	if _, err := h.tracker.Cached(r.Context(), h.cacheTTL); err != nil {
		snap := h.tracker.Latest(f)
		if snap.FetchedAt.IsZero() {
			return snap, err
		}
		log.Printf("[api] refresh failed, serving cached snapshot: %v", err)
		return snap, nil
	}
	return h.tracker.Latest(f), nil
}

// --- ListActions ---

func (h *Handlers) ListActions(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := listResponse{RunID: snap.RunID, Count: len(snap.Records), Actions: toDTOs(snap.Records)}
	if !snap.FetchedAt.IsZero() {
		resp.FetchedAt = &snap.FetchedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- ExportCSV ---

func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="rating_actions.csv"`)
	if err := export.WriteCSV(w, snap.Records); err != nil {
		log.Printf("[api] csv export: %v", err)
	}
}

// --- ListHistory ---

func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
	records, err := h.tracker.History(r.Context(), filterFrom(r), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(records), Actions: toDTOs(records)})
}

// --- Refresh ---

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	h.tracker.Invalidate()
	snap, err := h.tracker.Refresh(r.Context())
	if err != nil && snap.FetchedAt.IsZero() {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	resp := map[string]any{"run_id": snap.RunID, "count": len(snap.Records), "fresh": snap.Fresh}
	if err != nil {
		resp["warning"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Classify ---

func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}

	raw := domain.RawRecord{Title: req.Title, Summary: req.Summary}
	res := h.classifier.Classify(raw.Text())

	writeJSON(w, http.StatusOK, classifyResponse{
		Verdict:        string(res.Verdict),
		OldRating:      domain.GradeString(res.Old),
		NewRating:      domain.GradeString(res.New),
		Evidence:       string(res.Evidence),
		Conflicting:    res.Conflicting(),
		AnnotatedTitle: classifier.Annotate(req.Title, res.Verdict),
	})
}

// --- Dashboard ---

type dashboardRow struct {
	Date      string
	Agency    string
	Action    string
	OldRating string
	NewRating string
	Title     template.HTML
	Link      string
}

type dashboardData struct {
	Actions  []string
	Agencies []string
	Action   string
	Agency   string
	Rows     []dashboardRow
	Error    string
	Fetched  string
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := dashboardData{
		Actions: []string{"All", "Upgrades", "Downgrades", "Reaffirmed", "Unchanged", "Unknown"},
		Action:  q.Get("action"),
		Agency:  q.Get("agency"),
	}
	if data.Action == "" {
		data.Action = "All"
	}

	snap, err := h.snapshot(r)
	if err != nil {
		data.Error = err.Error()
	}
	if !snap.FetchedAt.IsZero() {
		data.Fetched = snap.FetchedAt.Format(time.RFC1123)
	}

	seen := map[string]bool{}
	for _, rec := range h.tracker.Latest(domain.Filter{}).Records {
		if !seen[rec.Agency] {
			seen[rec.Agency] = true
			data.Agencies = append(data.Agencies, rec.Agency)
		}
	}

	for _, rec := range snap.Records {
		dto := toDTO(rec)
		data.Rows = append(data.Rows, dashboardRow{
			Date:      dto.Date,
			Agency:    dto.Agency,
			Action:    dto.Action,
			OldRating: dto.OldRating,
			NewRating: dto.NewRating,
			// AnnotatedTitle escapes everything except its own markup.
			Title: template.HTML(dto.AnnotatedTitle),
			Link:  dto.Link,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		log.Printf("[api] render dashboard: %v", err)
	}
}
